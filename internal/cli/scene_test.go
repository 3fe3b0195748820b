package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

func TestSceneSet(t *testing.T) {
	fc := newFakeController(t)
	cfgPath := writeConfig(t, "logging:\n  output: discard\n")

	out, err := executeCommand(t, context.Background(),
		"--config", cfgPath, "scene", "set", "--url", fc.URL, "--token", "secret", "--scene", "7")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
	assert.Equal(t, 1, fc.putCount())
}

func TestSceneSet_JSON(t *testing.T) {
	fc := newFakeController(t)
	cfgPath := writeConfig(t, "logging:\n  output: discard\n")

	out, err := executeCommand(t, context.Background(),
		"--config", cfgPath, "--format", "json", "scene", "set", "--url", fc.URL, "--token", "secret", "--scene", "0")
	require.NoError(t, err)

	var resp struct {
		Data SceneSetResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0, resp.Data.ActiveScene)
	assert.Equal(t, target.TargetID(fc.URL+"/scene"), resp.Data.TargetID)
}

func TestSceneSet_Audited(t *testing.T) {
	fc := newFakeController(t)
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	cfgPath := writeConfig(t, `
logging:
  output: discard
database:
  enabled: true
  path: "`+dbPath+`"
`)

	_, err := executeCommand(t, context.Background(),
		"--config", cfgPath, "scene", "set", "--url", fc.URL, "--token", "secret", "--scene", "4", "--name", "Hall")
	require.NoError(t, err)

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: dbPath, BusyTimeout: 1})
	require.NoError(t, err)
	defer db.Close()

	res, err := audit.NewSQLiteRepository(db.DB).List(ctx, audit.Filter{Source: audit.SourceCLI})
	require.NoError(t, err)
	require.Len(t, res.Logs, 1)

	entry := res.Logs[0]
	assert.Equal(t, audit.ActionSceneSet, entry.Action)
	assert.Equal(t, target.TargetID(fc.URL+"/scene"), entry.EntityID)
	assert.Equal(t, "Hall", entry.Details["name"])
	assert.NotContains(t, entry.Details, "token")
}

func TestSceneSet_Errors(t *testing.T) {
	fc := newFakeController(t)
	cfgPath := writeConfig(t, "logging:\n  output: discard\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"missing url", []string{"scene", "set", "--token", "secret", "--scene", "1"}, ExitCommandError},
		{"missing token", []string{"scene", "set", "--url", fc.URL, "--scene", "1"}, ExitCommandError},
		{"missing scene", []string{"scene", "set", "--url", fc.URL, "--token", "secret"}, ExitCommandError},
		{"out of range", []string{"scene", "set", "--url", fc.URL, "--token", "secret", "--scene", "256"}, ExitCommandError},
		{"rejected", []string{"scene", "set", "--url", fc.URL, "--token", "wrong", "--scene", "1"}, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath}, tt.args...)
			_, err := executeCommand(t, context.Background(), args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
		})
	}
	assert.Equal(t, 0, fc.putCount())
}

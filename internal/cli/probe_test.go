package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

func TestProbe_Intensity(t *testing.T) {
	fc := newFakeController(t)

	out, err := executeCommand(t, context.Background(), "probe", "--url", fc.URL, "--token", "secret")
	require.NoError(t, err)
	assert.Equal(t, "42.5\n", out)
}

func TestProbe_SceneJSON(t *testing.T) {
	fc := newFakeController(t)

	out, err := executeCommand(t, context.Background(),
		"--format", "json", "probe", "--kind", "scene", "--url", fc.URL+"/", "--token", "secret")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ProbeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, target.KindScene, resp.Data.Kind)
	assert.Equal(t, fc.URL+"/scene", resp.Data.URL)
	assert.Equal(t, target.TargetID(fc.URL+"/scene"), resp.Data.ID)
	assert.Equal(t, 2.0, resp.Data.Value)
}

func TestProbe_Failures(t *testing.T) {
	fc := newFakeController(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"wrong token", []string{"probe", "--url", fc.URL, "--token", "nope"}, ExitFailure},
		{"unknown kind", []string{"probe", "--kind", "dimmer", "--url", fc.URL, "--token", "secret"}, ExitCommandError},
		{"blank url", []string{"probe", "--url", " ", "--token", "secret"}, ExitCommandError},
		{"unreachable", []string{"probe", "--url", "http://127.0.0.1:1", "--token", "secret", "--timeout", "1s"}, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, context.Background(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
		})
	}
}

func TestProbe_RequiredFlags(t *testing.T) {
	_, err := executeCommand(t, context.Background(), "probe", "--token", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

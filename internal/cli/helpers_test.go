package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var testInfo = BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}

// executeCommand runs the root command with args and returns stdout.
func executeCommand(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// writeConfig writes a YAML config into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// fakeController emulates a lighting controller's intensity and scene
// endpoints.
type fakeController struct {
	*httptest.Server

	mu        sync.Mutex
	intensity float64
	scene     int
	puts      int
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	fc := &fakeController{intensity: 42.5, scene: 2}
	fc.Server = httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(fc.Close)
	return fc
}

func (fc *fakeController) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/lighting" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"intensity": fc.intensity}) //nolint:errcheck // test server
	case r.URL.Path == "/scene" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"activeScene": fc.scene, "name": "Lounge"}) //nolint:errcheck // test server
	case r.URL.Path == "/scene" && r.Method == http.MethodPut:
		var body struct {
			ActiveScene int `json:"activeScene"`
		}
		data, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
		if err := json.Unmarshal(data, &body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fc.scene = body.ActiveScene
		fc.puts++
		json.NewEncoder(w).Encode(map[string]any{"activeScene": fc.scene}) //nolint:errcheck // test server
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeController) setIntensity(v float64) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.intensity = v
}

func (fc *fakeController) putCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.puts
}

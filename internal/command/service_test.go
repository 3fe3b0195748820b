package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/bridges/lighting"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

type fakeSetter struct {
	mu     sync.Mutex
	calls  []string
	tokens []string
	active int
	err    error
}

func (f *fakeSetter) SetScene(_ context.Context, url, token string, _ int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	f.tokens = append(f.tokens, token)
	return f.active, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []*audit.AuditLog
}

func (r *fakeRecorder) Record(entry *audit.AuditLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return true
}

func TestSetScene_Success(t *testing.T) {
	setter := &fakeSetter{active: 4}
	rec := &fakeRecorder{}
	svc := NewService(setter, rec, nil)

	active, err := svc.SetScene(context.Background(), SceneRequest{
		URL:    "https://10.0.0.5/api",
		Token:  "tok",
		Name:   "Lounge",
		Scene:  4,
		Source: audit.SourceMQTT,
	})
	if err != nil {
		t.Fatalf("SetScene() error = %v", err)
	}
	if active != 4 {
		t.Errorf("active = %d, want 4", active)
	}

	if len(setter.calls) != 1 || setter.calls[0] != "https://10.0.0.5/api/scene" {
		t.Fatalf("controller calls = %v, want normalised scene URL", setter.calls)
	}
	if setter.tokens[0] != "tok" {
		t.Errorf("token = %q, want tok", setter.tokens[0])
	}

	if len(rec.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Action != audit.ActionSceneSet || e.Source != audit.SourceMQTT {
		t.Errorf("audit entry = %+v", e)
	}
	if e.EntityID != target.TargetID("https://10.0.0.5/api/scene") {
		t.Errorf("EntityID = %q, want target ID of normalised URL", e.EntityID)
	}
	if e.Details["active_scene"] != 4 {
		t.Errorf("details = %v, want active_scene 4", e.Details)
	}
	for k, v := range e.Details {
		if s, ok := v.(string); ok && strings.Contains(s, "tok") && k != "name" {
			t.Errorf("details[%q] leaks token", k)
		}
	}
}

func TestSetScene_AlreadyNormalised(t *testing.T) {
	setter := &fakeSetter{}
	svc := NewService(setter, nil, nil)

	if _, err := svc.SetScene(context.Background(), SceneRequest{URL: "http://h/scene", Token: "t"}); err != nil {
		t.Fatal(err)
	}
	if setter.calls[0] != "http://h/scene" {
		t.Errorf("url = %q, want unchanged", setter.calls[0])
	}
}

func TestSetScene_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SceneRequest
		want error
	}{
		{"missing url", SceneRequest{Token: "t"}, ErrMissingURL},
		{"blank url", SceneRequest{URL: "   ", Token: "t"}, ErrMissingURL},
		{"missing token", SceneRequest{URL: "http://h"}, ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setter := &fakeSetter{}
			rec := &fakeRecorder{}
			_, err := NewService(setter, rec, nil).SetScene(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if len(setter.calls) != 0 {
				t.Error("controller should not be called")
			}
			if len(rec.entries) != 0 {
				t.Error("rejected requests should not be audited")
			}
		})
	}
}

func TestSetScene_NoClient(t *testing.T) {
	_, err := NewService(nil, nil, nil).SetScene(context.Background(), SceneRequest{URL: "http://h", Token: "t"})
	if !errors.Is(err, ErrNoClient) {
		t.Errorf("error = %v, want ErrNoClient", err)
	}
}

func TestSetScene_FailureIsAudited(t *testing.T) {
	setter := &fakeSetter{err: &lighting.StatusError{Code: 503, URL: "http://h/scene"}}
	rec := &fakeRecorder{}
	svc := NewService(setter, rec, nil)

	_, err := svc.SetScene(context.Background(), SceneRequest{URL: "http://h", Token: "t", Scene: 2})
	if !lighting.IsNetwork(err) {
		t.Fatalf("error = %v, want network error preserved", err)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(rec.entries))
	}
	if _, ok := rec.entries[0].Details["error"]; !ok {
		t.Error("failed recall should record the error")
	}
	if rec.entries[0].Source != audit.SourceAPI {
		t.Errorf("Source = %q, want default %q", rec.entries[0].Source, audit.SourceAPI)
	}
}

func TestDecodeSceneRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    SceneRequest
		wantErr bool
	}{
		{
			name:    "complete",
			payload: `{"url":"http://h","token":"t","scene":3,"name":"Hall"}`,
			want:    SceneRequest{URL: "http://h", Token: "t", Scene: 3, Name: "Hall"},
		},
		{
			name:    "scene zero",
			payload: `{"url":"http://h","token":"t","scene":0}`,
			want:    SceneRequest{URL: "http://h", Token: "t", Scene: 0},
		},
		{name: "missing scene", payload: `{"url":"http://h","token":"t"}`, wantErr: true},
		{name: "not json", payload: `scene=3`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSceneRequest([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrBadPayload) {
					t.Errorf("error = %v, want ErrBadPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

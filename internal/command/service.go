package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// SceneSetter recalls a scene on a controller.
// It is satisfied by *lighting.Client.
type SceneSetter interface {
	SetScene(ctx context.Context, url, token string, scene int) (int, error)
}

// AuditRecorder accepts audit entries without blocking.
// It is satisfied by *audit.Recorder.
type AuditRecorder interface {
	Record(entry *audit.AuditLog) bool
}

// Logger defines the logging interface used by the Service.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// SceneRequest asks for one scene recall.
type SceneRequest struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Scene int    `json:"scene"`

	// Source and UserID are filled in by the caller, not the payload.
	Source string `json:"-"`
	UserID string `json:"-"`
}

// Service executes scene commands.
//
// Thread Safety: All methods are safe for concurrent use.
type Service struct {
	client SceneSetter
	audit  AuditRecorder
	logger Logger
}

// NewService creates a command service.
//
// Parameters:
//   - client: Controller client. Required for SetScene.
//   - recorder: Optional audit sink
//   - logger: Optional
func NewService(client SceneSetter, recorder AuditRecorder, logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		client: client,
		audit:  recorder,
		logger: logger,
	}
}

// SetScene recalls req.Scene on the controller at req.URL.
//
// The URL is normalised for target.KindScene before the call. Every attempt
// that reaches the controller is audited, successful or not.
//
// Returns:
//   - int: The active scene reported by the controller
//   - error: Validation errors from this package, or the client's error
func (s *Service) SetScene(ctx context.Context, req SceneRequest) (int, error) {
	url := target.NormalizeURL(target.KindScene, req.URL)
	if url == "" {
		return 0, ErrMissingURL
	}
	if req.Token == "" {
		return 0, ErrMissingToken
	}
	if s.client == nil {
		return 0, ErrNoClient
	}

	id := target.TargetID(url)
	start := time.Now()
	active, err := s.client.SetScene(ctx, url, req.Token, req.Scene)
	elapsed := time.Since(start)

	details := map[string]any{
		"requested_scene": req.Scene,
		"duration_ms":     elapsed.Milliseconds(),
	}
	if req.Name != "" {
		details["name"] = req.Name
	}

	if err != nil {
		details["error"] = err.Error()
		s.record(req, id, details)
		s.logger.Warn("scene recall failed",
			"target_id", id,
			"name", req.Name,
			"scene", req.Scene,
			"source", req.Source,
			"error", err,
		)
		return 0, fmt.Errorf("setting scene %d: %w", req.Scene, err)
	}

	details["active_scene"] = active
	s.record(req, id, details)
	s.logger.Info("scene recalled",
		"target_id", id,
		"name", req.Name,
		"scene", req.Scene,
		"active", active,
		"source", req.Source,
	)
	return active, nil
}

func (s *Service) record(req SceneRequest, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	source := req.Source
	if source == "" {
		source = audit.SourceAPI
	}
	s.audit.Record(&audit.AuditLog{
		ID:         uuid.NewString(),
		Action:     audit.ActionSceneSet,
		EntityType: audit.EntitySceneTarget,
		EntityID:   id,
		UserID:     req.UserID,
		Source:     source,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	})
}

// DecodeSceneRequest parses a JSON scene command as published on the MQTT
// command topic: {"url": ..., "token": ..., "scene": n, "name": ...}.
func DecodeSceneRequest(payload []byte) (SceneRequest, error) {
	var raw struct {
		URL   string `json:"url"`
		Token string `json:"token"`
		Name  string `json:"name"`
		Scene *int   `json:"scene"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return SceneRequest{}, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if raw.Scene == nil {
		return SceneRequest{}, fmt.Errorf("%w: missing scene", ErrBadPayload)
	}
	return SceneRequest{
		URL:   raw.URL,
		Token: raw.Token,
		Name:  raw.Name,
		Scene: *raw.Scene,
	}, nil
}

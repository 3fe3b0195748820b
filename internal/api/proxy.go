package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/command"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// sceneCommandBody is the POST /proxy/scene request body.
type sceneCommandBody struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	Scene *int   `json:"scene"`
	Name  string `json:"name,omitempty"`
}

// handleReadIntensity serves GET /proxy/light.
func (s *Server) handleReadIntensity(w http.ResponseWriter, r *http.Request) {
	s.registerOrRead(w, r, s.intensities)
}

// handleReadScene serves GET /proxy/scene.
func (s *Server) handleReadScene(w http.ResponseWriter, r *http.Request) {
	s.registerOrRead(w, r, s.scenes)
}

// registerOrRead answers with the cached value, registering the target on
// first sight. Missing url or token yields -1 and registers nothing.
func (s *Server) registerOrRead(w http.ResponseWriter, r *http.Request, reg *target.Registry) {
	q := r.URL.Query()
	rawURL := unescapeParam(q.Get("url"))
	token := unescapeParam(q.Get("token"))
	name := q.Get("name")

	value := reg.RegisterOrRead(rawURL, token, name)
	writeJSON(w, http.StatusOK, value)
}

// handleListIntensities serves GET /proxy/light/all. Every registered light
// is listed; the on filter applies to scenes only.
func (s *Server) handleListIntensities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.intensities.List(false))
}

// handleListScenes serves GET /proxy/scene/all. With on=true, scene
// controllers reporting scene 0 (off) are left out.
func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scenes.List(onlyNonZero(r)))
}

// handleSetSceneLegacy serves POST /proxy/scene?name=...
//
// The controller's reported active scene is returned as a bare number; -1
// reports any failure. Malformed requests also get a 400 status.
func (s *Server) handleSetSceneLegacy(w http.ResponseWriter, r *http.Request) {
	var body sceneCommandBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Scene == nil {
		writeLegacyFailure(w, http.StatusBadRequest)
		return
	}
	if s.commands == nil {
		writeLegacyFailure(w, http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = body.Name
	}

	active, err := s.commands.SetScene(r.Context(), command.SceneRequest{
		URL:    unescapeParam(body.URL),
		Token:  unescapeParam(body.Token),
		Name:   name,
		Scene:  *body.Scene,
		Source: audit.SourceAPI,
	})
	if err != nil {
		status := http.StatusOK
		if isCommandValidationError(err) {
			status = http.StatusBadRequest
		}
		writeLegacyFailure(w, status)
		return
	}

	writeJSON(w, http.StatusOK, active)
}

// handleRecallScene serves POST /api/v1/scenes/recall with structured errors.
func (s *Server) handleRecallScene(w http.ResponseWriter, r *http.Request) {
	var body sceneCommandBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if body.Scene == nil {
		writeBadRequest(w, "scene is required")
		return
	}
	if s.commands == nil {
		writeUnavailable(w, "scene commands are not configured")
		return
	}

	req := command.SceneRequest{
		URL:    unescapeParam(body.URL),
		Token:  unescapeParam(body.Token),
		Name:   body.Name,
		Scene:  *body.Scene,
		Source: audit.SourceAPI,
	}
	if claims := claimsFromContext(r.Context()); claims != nil {
		req.UserID = claims.Subject
	}

	active, err := s.commands.SetScene(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"target_id":    target.TargetID(target.NormalizeURL(target.KindScene, req.URL)),
			"active_scene": active,
		})
	case isCommandValidationError(err):
		writeBadRequest(w, err.Error())
	case isControllerError(err):
		writeBadGateway(w, "controller did not accept the scene")
	default:
		s.logger.Error("scene recall failed", "error", err)
		writeInternalError(w, "scene recall failed")
	}
}

// unescapeParam decodes a controller URL or token a second time. Front-ends
// percent-encode both before placing them in the query string or body, and
// the transport encoding has already been undone once. A literal '+' is kept
// because base64 tokens carry it. Values that do not decode are used as
// received.
func unescapeParam(v string) string {
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}

// onlyNonZero reads the on=true filter.
func onlyNonZero(r *http.Request) bool {
	on, err := strconv.ParseBool(r.URL.Query().Get("on"))
	return err == nil && on
}

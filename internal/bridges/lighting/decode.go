package lighting

import (
	"encoding/json"
	"fmt"
)

// MaxScene is the highest scene number a controller accepts.
const MaxScene = 255

// Link is a hypermedia link advertised by a controller.
type Link struct {
	Rel    string `json:"rel,omitempty"`
	Href   string `json:"href,omitempty"`
	Method string `json:"method,omitempty"`
}

// LightingResponse is the body of a lighting endpoint.
type LightingResponse struct {
	Intensity *float64 `json:"intensity"`
	Links     []Link   `json:"links,omitempty"`
}

// SceneResponse is the body of a scene endpoint.
type SceneResponse struct {
	ActiveScene *int   `json:"activeScene"`
	Name        string `json:"name,omitempty"`
	OutOfTune   bool   `json:"outOfTune,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

// DecodeIntensity extracts the intensity from a lighting endpoint body.
func DecodeIntensity(body []byte) (float64, error) {
	var resp LightingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: intensity: %w", ErrDecode, err)
	}
	if resp.Intensity == nil {
		return 0, fmt.Errorf("%w: intensity: field missing", ErrDecode)
	}
	return *resp.Intensity, nil
}

// DecodeScene extracts the active scene from a scene endpoint body.
// The scene must be in 0..MaxScene.
func DecodeScene(body []byte) (float64, error) {
	var resp SceneResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: activeScene: %w", ErrDecode, err)
	}
	if resp.ActiveScene == nil {
		return 0, fmt.Errorf("%w: activeScene: field missing", ErrDecode)
	}
	if *resp.ActiveScene < 0 || *resp.ActiveScene > MaxScene {
		return 0, fmt.Errorf("%w: activeScene %d out of range", ErrDecode, *resp.ActiveScene)
	}
	return float64(*resp.ActiveScene), nil
}

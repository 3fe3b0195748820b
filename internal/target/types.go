package target

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two device endpoint families.
type Kind string

const (
	// KindIntensity is a lighting endpoint reporting {"intensity": <float>}.
	KindIntensity Kind = "intensity"

	// KindScene is a scene endpoint reporting {"activeScene": <0..255>}.
	KindScene Kind = "scene"
)

// Kinds lists every kind in polling order.
var Kinds = []Kind{KindScene, KindIntensity}

// Sentinel is returned to front-end callers for a target with no observation yet.
const Sentinel = -1.0

// PathSegment returns the URL segment that identifies the endpoint kind.
func (k Kind) PathSegment() string {
	if k == KindIntensity {
		return "lighting"
	}
	return string(k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIntensity || k == KindScene
}

// ParseKind converts a user-supplied kind name.
// "light" and "lighting" are accepted as aliases for KindIntensity.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intensity", "light", "lighting":
		return KindIntensity, nil
	case "scene":
		return KindScene, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Record is a point-in-time copy of one registered target.
type Record struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	URL         string    `json:"url"`
	Token       string    `json:"-"`
	Name        string    `json:"name,omitempty"`
	Value       float64   `json:"value"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
	Seq         uint64    `json:"-"`
}

// Entry is the monitoring view of a target. It never carries the token.
type Entry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	URL   string  `json:"url"`
	Value float64 `json:"value"`
}

// TargetID derives the stable identifier of a target URL.
// The ID is a name-based UUID, so it survives restarts and is safe to use in
// MQTT topics and InfluxDB tags where the raw URL is not.
func TargetID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// NormalizeURL appends the kind's path segment when the URL does not already
// contain it. Registration, polling and scene commands must all key targets
// through this function or cache entries fragment.
func NormalizeURL(kind Kind, raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	seg := kind.PathSegment()
	if strings.Contains(u, seg) {
		return u
	}
	return strings.TrimRight(u, "/") + "/" + seg
}

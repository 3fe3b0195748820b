package mqtt

import (
	"strings"
)

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "graylogic/proxy"

// Topics builds the proxy's MQTT topic hierarchy under a configurable prefix.
//
//	<prefix>/status                     online/offline (retained, LWT)
//	<prefix>/state/<kind>/<target-id>   last polled value (retained)
//	<prefix>/command/scene              scene-set requests
//
// Target IDs are UUIDs derived from the controller URL because raw URLs
// contain '/' and would break the topic levels.
type Topics struct {
	Prefix string
}

// NewTopics returns a builder rooted at prefix with surrounding slashes trimmed.
func NewTopics(prefix string) Topics {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		p = DefaultTopicPrefix
	}
	return Topics{Prefix: p}
}

func (t Topics) join(parts ...string) string {
	prefix := t.Prefix
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/" + strings.Join(parts, "/")
}

// Status returns the retained online/offline topic.
//
// Example: graylogic/proxy/status
func (t Topics) Status() string {
	return t.join("status")
}

// TargetState returns the retained state topic for one target.
//
// Example: graylogic/proxy/state/scene/6ba7b811-9dad-51d1-80b4-00c04fd430c8
func (t Topics) TargetState(kind, id string) string {
	return t.join("state", kind, id)
}

// SceneCommand returns the topic on which scene-set requests are accepted.
//
// Example: graylogic/proxy/command/scene
func (t Topics) SceneCommand() string {
	return t.join("command", "scene")
}

// AllTargetStates returns a pattern matching every state topic of one kind.
//
// Pattern: graylogic/proxy/state/intensity/+
func (t Topics) AllTargetStates(kind string) string {
	return t.join("state", kind, "+")
}

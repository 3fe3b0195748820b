package poller

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// State is the engine's current activity.
type State string

const (
	// StateIdle means the engine is between cycles or not running.
	StateIdle State = "idle"

	// StatePollingScenes means scene targets are being fetched.
	StatePollingScenes State = "polling_scenes"

	// StatePollingIntensities means intensity targets are being fetched.
	StatePollingIntensities State = "polling_intensities"
)

// Fetcher performs one authenticated GET against a controller.
// It is satisfied by *lighting.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url, token string) ([]byte, error)
}

// Decoder turns a response body into a target value.
type Decoder func(body []byte) (float64, error)

// Change describes the outcome of one successful poll.
type Change struct {
	Kind     target.Kind `json:"kind"`
	ID       string      `json:"id"`
	URL      string      `json:"url"`
	Name     string      `json:"name,omitempty"`
	Value    float64     `json:"value"`
	Previous float64     `json:"previous"`
	Changed  bool        `json:"changed"`
	At       time.Time   `json:"at"`
}

// Observer is notified after every successful poll.
//
// OnChange runs on the engine goroutine and must not block; slow work
// belongs on the observer's own queue.
type Observer interface {
	OnChange(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, change Change)

// OnChange calls f(ctx, change).
func (f ObserverFunc) OnChange(ctx context.Context, change Change) {
	f(ctx, change)
}

// Status is a point-in-time view of the engine's counters.
type Status struct {
	Running           bool          `json:"running"`
	State             State         `json:"state"`
	Cycles            uint64        `json:"cycles"`
	Successes         uint64        `json:"fetch_successes"`
	Failures          uint64        `json:"fetch_failures"`
	LastCycleDuration time.Duration `json:"last_cycle_duration_ns"`
	LastCycleAt       time.Time     `json:"last_cycle_at,omitzero"`
}

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

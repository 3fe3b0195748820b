package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/command"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-proxy/internal/poller"
)

// statePublisher is the slice of *mqtt.Client the state observer needs.
type statePublisher interface {
	PublishTargetState(kind, id string, v any) error
}

// sampleWriter is the slice of *influxdb.Client the history observer needs.
type sampleWriter interface {
	WriteTargetValue(s influxdb.TargetSample)
}

// sceneCommander is the slice of *command.Service the MQTT handler needs.
type sceneCommander interface {
	SetScene(ctx context.Context, req command.SceneRequest) (int, error)
}

// warnLogger is the logging the adapters below need.
type warnLogger interface {
	Warn(msg string, args ...any)
}

// statePayload is the retained MQTT message for one target. The controller
// URL is left out because topics are often readable by every bus client.
type statePayload struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Value    float64   `json:"value"`
	Previous float64   `json:"previous"`
	At       time.Time `json:"at"`
}

// stateQueueSize bounds the state messages waiting for the broker.
const stateQueueSize = 256

// stateDrainTimeout bounds the final flush after Run's context is cancelled.
const stateDrainTimeout = 5 * time.Second

// mqttStateObserver publishes a retained state message whenever a poll
// changes a target's value. OnChange only enqueues; Run does the publishing
// so a slow or disconnected broker never stalls the poll loop.
//
// Thread Safety: OnChange is safe for concurrent use. Run must be called once.
type mqttStateObserver struct {
	pub     statePublisher
	logger  warnLogger
	queue   chan statePayload
	dropped atomic.Uint64
}

func newMQTTStateObserver(pub statePublisher, size int, logger warnLogger) *mqttStateObserver {
	if size <= 0 {
		size = stateQueueSize
	}
	return &mqttStateObserver{
		pub:    pub,
		logger: logger,
		queue:  make(chan statePayload, size),
	}
}

func (o *mqttStateObserver) OnChange(_ context.Context, c poller.Change) {
	if !c.Changed {
		return
	}
	msg := statePayload{
		ID:       c.ID,
		Kind:     string(c.Kind),
		Name:     c.Name,
		Value:    c.Value,
		Previous: c.Previous,
		At:       c.At,
	}
	select {
	case o.queue <- msg:
	default:
		o.dropped.Add(1)
		o.logger.Warn("state queue full, dropping update", "target_id", c.ID)
	}
}

// Dropped returns how many updates were discarded because the queue was full.
func (o *mqttStateObserver) Dropped() uint64 {
	return o.dropped.Load()
}

// Run publishes queued updates until ctx is cancelled, then flushes what is
// still queued for at most stateDrainTimeout. It always returns nil.
func (o *mqttStateObserver) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-o.queue:
			o.publish(msg)
		case <-ctx.Done():
			deadline := time.Now().Add(stateDrainTimeout)
			for time.Now().Before(deadline) {
				select {
				case msg := <-o.queue:
					o.publish(msg)
				default:
					return nil
				}
			}
			return nil
		}
	}
}

func (o *mqttStateObserver) publish(msg statePayload) {
	if err := o.pub.PublishTargetState(msg.Kind, msg.ID, msg); err != nil {
		o.logger.Warn("publishing target state failed", "target_id", msg.ID, "error", err)
	}
}

// influxObserver records every successful poll as a time-series sample.
type influxObserver struct {
	writer sampleWriter
}

func (o *influxObserver) OnChange(_ context.Context, c poller.Change) {
	o.writer.WriteTargetValue(influxdb.TargetSample{
		Kind:    string(c.Kind),
		ID:      c.ID,
		Name:    c.Name,
		Value:   c.Value,
		Changed: c.Changed,
		At:      c.At,
	})
}

// sceneCommandHandler returns the MQTT handler for the scene command topic.
// ctx bounds every command it triggers.
func sceneCommandHandler(ctx context.Context, commands sceneCommander) mqtt.MessageHandler {
	return func(_ string, payload []byte) error {
		req, err := command.DecodeSceneRequest(payload)
		if err != nil {
			return err
		}
		req.Source = audit.SourceMQTT

		if _, err := commands.SetScene(ctx, req); err != nil {
			return fmt.Errorf("scene command: %w", err)
		}
		return nil
	}
}

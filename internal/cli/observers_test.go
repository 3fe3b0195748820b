package cli

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/command"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-proxy/internal/poller"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

type published struct {
	topic    string
	payload  []byte
	retained bool
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishTargetState(kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{
		topic:    mqtt.NewTopics("site/proxy").TargetState(kind, id),
		payload:  data,
		retained: true,
	})
	return p.err
}

func (p *fakePublisher) sent() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

type fakeWriter struct {
	samples []influxdb.TargetSample
}

func (w *fakeWriter) WriteTargetValue(s influxdb.TargetSample) {
	w.samples = append(w.samples, s)
}

type fakeCommander struct {
	reqs []command.SceneRequest
	err  error
}

func (c *fakeCommander) SetScene(_ context.Context, req command.SceneRequest) (int, error) {
	c.reqs = append(c.reqs, req)
	if c.err != nil {
		return 0, c.err
	}
	return req.Scene, nil
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

// blockingPublisher never returns until release is closed.
type blockingPublisher struct {
	release chan struct{}
}

func (p *blockingPublisher) PublishTargetState(string, string, any) error {
	<-p.release
	return nil
}

// flush runs the observer's loop with a cancelled context so everything
// queued is published before it returns.
func flush(t *testing.T, obs *mqttStateObserver) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, obs.Run(ctx))
}

func sampleChange(changed bool) poller.Change {
	return poller.Change{
		Kind:     target.KindScene,
		ID:       "6ba7b811-9dad-51d1-80b4-00c04fd430c8",
		URL:      "https://ctrl.local/scene",
		Name:     "Lobby",
		Value:    4,
		Previous: 2,
		Changed:  changed,
		At:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMQTTStateObserver_PublishesChanges(t *testing.T) {
	pub := &fakePublisher{}
	obs := newMQTTStateObserver(pub, 0, &recordingLogger{})

	obs.OnChange(context.Background(), sampleChange(true))
	flush(t, obs)

	msgs := pub.sent()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "site/proxy/state/scene/6ba7b811-9dad-51d1-80b4-00c04fd430c8", msg.topic)
	assert.True(t, msg.retained)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, "Lobby", got["name"])
	assert.Equal(t, 4.0, got["value"])
	assert.Equal(t, 2.0, got["previous"])
	assert.NotContains(t, got, "url")
}

func TestMQTTStateObserver_RunPublishesWhileRunning(t *testing.T) {
	pub := &fakePublisher{}
	obs := newMQTTStateObserver(pub, 0, &recordingLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- obs.Run(ctx) }()

	obs.OnChange(context.Background(), sampleChange(true))
	require.Eventually(t, func() bool { return len(pub.sent()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMQTTStateObserver_SkipsUnchanged(t *testing.T) {
	pub := &fakePublisher{}
	obs := newMQTTStateObserver(pub, 0, &recordingLogger{})

	obs.OnChange(context.Background(), sampleChange(false))
	flush(t, obs)

	assert.Empty(t, pub.sent())
}

func TestMQTTStateObserver_LogsPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	logger := &recordingLogger{}
	obs := newMQTTStateObserver(pub, 0, logger)

	obs.OnChange(context.Background(), sampleChange(true))
	flush(t, obs)

	assert.Equal(t, 1, logger.count())
}

func TestMQTTStateObserver_StalledBrokerDoesNotBlockPolls(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	logger := &recordingLogger{}
	obs := newMQTTStateObserver(pub, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- obs.Run(ctx) }()

	// The first update is taken by Run and stalls in the publisher, the
	// second fills the queue, and the rest must be dropped without waiting.
	returned := make(chan struct{})
	go func() {
		for range 5 {
			obs.OnChange(context.Background(), sampleChange(true))
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("OnChange blocked on a stalled publisher")
	}
	assert.GreaterOrEqual(t, obs.Dropped(), uint64(3))
	assert.Equal(t, int(obs.Dropped()), logger.count())

	cancel()
	close(pub.release)
	require.NoError(t, <-done)
}

func TestInfluxObserver_WritesEverySample(t *testing.T) {
	w := &fakeWriter{}
	obs := &influxObserver{writer: w}

	obs.OnChange(context.Background(), sampleChange(true))
	obs.OnChange(context.Background(), sampleChange(false))

	require.Len(t, w.samples, 2)
	assert.Equal(t, "scene", w.samples[0].Kind)
	assert.True(t, w.samples[0].Changed)
	assert.False(t, w.samples[1].Changed)
	assert.Equal(t, 4.0, w.samples[1].Value)
}

func TestSceneCommandHandler(t *testing.T) {
	cmds := &fakeCommander{}
	handle := sceneCommandHandler(context.Background(), cmds)

	err := handle("site/proxy/command/scene", []byte(`{"url":"https://ctrl.local","token":"t","scene":3,"name":"Hall"}`))
	require.NoError(t, err)

	require.Len(t, cmds.reqs, 1)
	req := cmds.reqs[0]
	assert.Equal(t, "https://ctrl.local", req.URL)
	assert.Equal(t, 3, req.Scene)
	assert.Equal(t, "Hall", req.Name)
	assert.Equal(t, audit.SourceMQTT, req.Source)
}

func TestSceneCommandHandler_Errors(t *testing.T) {
	t.Run("malformed payload", func(t *testing.T) {
		cmds := &fakeCommander{}
		err := sceneCommandHandler(context.Background(), cmds)("topic", []byte(`{"url":`))
		require.ErrorIs(t, err, command.ErrBadPayload)
		assert.Empty(t, cmds.reqs)
	})

	t.Run("missing scene", func(t *testing.T) {
		cmds := &fakeCommander{}
		err := sceneCommandHandler(context.Background(), cmds)("topic", []byte(`{"url":"u","token":"t"}`))
		require.ErrorIs(t, err, command.ErrBadPayload)
		assert.Empty(t, cmds.reqs)
	})

	t.Run("command failure", func(t *testing.T) {
		cmds := &fakeCommander{err: command.ErrMissingToken}
		err := sceneCommandHandler(context.Background(), cmds)("topic", []byte(`{"url":"u","scene":1}`))
		require.ErrorIs(t, err, command.ErrMissingToken)
	})
}

package mqtt

import (
	"fmt"
	"sort"
)

// Subscribe registers handler for topic, which may contain + and # wildcards.
//
// Paho runs the handler on its own goroutine per message. A returned error
// is logged and otherwise ignored, and a panic is recovered. Subscriptions
// are remembered and restored after a reconnect.
//
// Parameters:
//   - topic: Topic or pattern, e.g. Topics().SceneCommand()
//   - qos: Maximum QoS for delivered messages
//   - handler: Invoked for every message
//
// Returns:
//   - error: ErrInvalidTopic, ErrInvalidQoS, ErrNotConnected, or wrapping ErrSubscribeFailed
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	switch {
	case topic == "":
		return ErrInvalidTopic
	case qos > maxQoS:
		return ErrInvalidQoS
	case handler == nil:
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	case !c.IsConnected():
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[topic] = subscription{topic: topic, qos: qos, handler: handler}
	c.subMu.Unlock()

	if err := await(c.client.Subscribe(topic, qos, c.wrapHandler(handler)), ErrSubscribeFailed); err != nil {
		c.forget(topic)
		return err
	}
	return nil
}

// SubscribeSceneCommands subscribes handler to the scene command topic with
// the configured QoS and returns the topic it listens on.
func (c *Client) SubscribeSceneCommands(handler MessageHandler) (string, error) {
	topic := c.topics.SceneCommand()
	if err := c.Subscribe(topic, c.QoS(), handler); err != nil {
		return topic, err
	}
	return topic, nil
}

// Unsubscribe stops delivery for topic. Messages already in flight may still
// reach the handler.
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.forget(topic)
	return await(c.client.Unsubscribe(topic), ErrUnsubscribeFailed)
}

// Subscriptions returns the tracked topic patterns in sorted order.
func (c *Client) Subscriptions() []string {
	c.subMu.RLock()
	topics := make([]string, 0, len(c.subscriptions))
	for topic := range c.subscriptions {
		topics = append(topics, topic)
	}
	c.subMu.RUnlock()

	sort.Strings(topics)
	return topics
}

func (c *Client) forget(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

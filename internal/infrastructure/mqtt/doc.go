// Package mqtt provides MQTT connectivity for Gray Logic Proxy.
//
// The proxy uses the broker for two things:
//   - Publishing each target's last polled value as a retained message, so
//     dashboards and automations see controller state without polling HTTP
//   - Accepting scene-set commands from other systems on the bus
//
// All topics live under a configurable prefix (mqtt.topic_prefix, default
// "graylogic/proxy"); see Topics for the hierarchy. A retained status topic
// with a Last Will reports whether the proxy is online.
//
// # Security Considerations
//
//   - Use TLS (mqtt.broker.tls) whenever the broker is not on localhost
//   - Controller tokens travel inside scene command payloads; restrict the
//     command topic with broker ACLs
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().SceneCommand(), 1,
//	    func(topic string, payload []byte) error {
//	        return handle(payload)
//	    })
//
//	client.PublishJSON(client.Topics().TargetState("scene", id), state, true)
package mqtt

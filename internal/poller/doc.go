// Package poller implements the device-state synchronisation engine.
//
// A single Engine goroutine walks both target registries forever, fetching
// each controller's current value and writing it back into the registry so
// front-end reads are served from memory without touching the network.
//
// Cycle:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ 1. Snapshot scene and intensity registries               │
//	│ 2. For each scene target:     fetch → decode → Update    │
//	│ 3. For each intensity target: fetch → decode → Update    │
//	│    (call_delay between consecutive requests)             │
//	│ 4. Sleep cycle_delay, repeat                             │
//	└──────────────────────────────────────────────────────────┘
//
// Requests are strictly sequential. Controllers are small embedded devices
// and the pacing delay is the engine's only backpressure towards them.
//
// # Failure isolation
//
// A network error, decode error or panic while polling one target is
// logged and counted; the cached value is left as it was and the cycle
// moves on to the next target.
//
// # Observers
//
// After every successful poll each registered Observer receives a Change.
// MQTT, InfluxDB and the WebSocket hub subscribe this way.
//
// # Cancellation
//
// The context passed to Run is checked at every delay and passed into every
// request, so shutdown latency is bounded by one delay interval or one
// request timeout, whichever is in progress.
package poller

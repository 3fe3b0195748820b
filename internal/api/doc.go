// Package api implements the HTTP and WebSocket surface of Gray Logic Proxy.
//
// This package provides:
//   - The legacy /proxy endpoints front-end panels poll for cached device state
//   - Scene recall, forwarded to the controller through the command service
//   - Versioned /api/v1 endpoints for health, metrics, target listings and audit
//   - A WebSocket hub that streams target.state_changed events
//   - Middleware stack (request ID, logging, recovery, CORS, body limit, JWT)
//
// # Legacy Contract
//
// The /proxy routes answer with a bare JSON number. -1 means "no observation
// yet" on reads and "the controller did not accept the command" on scene
// recall. Callers double-encode the url and token query parameters, so the
// handlers decode them once more.
//
// # Security
//
// The /proxy routes are unauthenticated. When security.jwt.secret is set, the
// /api/v1 routes other than health and metrics require a bearer token whose
// role grants the route's permission. Browsers may pass the token to the
// WebSocket route as the access_token query parameter.
//
// # Graceful Degradation
//
// MQTT, the audit repository and the command service are optional. Missing
// pieces disable their routes or metrics fields without failing the server.
package api

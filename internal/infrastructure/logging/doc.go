// Package logging provides structured logging for Gray Logic Proxy.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the proxy.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// # Security
//
// Controller bearer tokens pass through the proxy on every panel query. Log
// the target URL or ID instead. As a backstop, attributes named token,
// authorization, password, secret or access_token are written as
// [REDACTED].
package logging

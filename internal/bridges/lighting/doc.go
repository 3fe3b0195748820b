// Package lighting implements the HTTP client for token-authenticated
// lighting controllers.
//
// Controllers expose two JSON endpoints per device:
//
//	GET .../lighting  → {"intensity": 42.5, "links": [...]}
//	GET .../scene     → {"activeScene": 3, "name": "...", "outOfTune": false}
//	PUT .../scene     ← {"activeScene": 3}
//
// Every request carries "Authorization: Bearer <token>" and
// "Accept: application/json". Any non-2xx response is a failure and nothing
// is retried here; the sync engine simply tries again on its next cycle.
//
// # TLS
//
// Controllers ship with self-signed certificates and sit on a trusted LAN,
// so certificate verification is disabled unless Options.InsecureSkipVerify
// is false. The setting is surfaced as sync.insecure_skip_verify.
//
// # Errors
//
// Transport failures, timeouts and HTTP status failures wrap ErrNetwork (the
// latter via *StatusError). Malformed bodies or missing fields wrap ErrDecode.
//
// # Thread Safety
//
// A Client is stateless apart from its pooled http.Client and is safe for
// concurrent use.
package lighting

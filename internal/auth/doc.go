// Package auth provides operator tokens for the proxy's management API.
//
// The legacy /proxy endpoints stay open because front-end panels call them
// without credentials. The versioned management surface (audit history and
// the WebSocket stream) can be locked down by setting security.jwt.secret;
// operators then present an HS256 JWT minted with the "token" command.
//
// Three roles exist:
//
//	viewer    read target state and the live stream
//	operator  viewer + recall scenes through the management API
//	admin     operator + read the audit trail
//
// Permissions are a static role mapping; there is no user database.
package auth

package command

import "errors"

// Domain errors for the command package.
var (
	ErrMissingURL   = errors.New("command: url is required")
	ErrMissingToken = errors.New("command: token is required")
	ErrNoClient     = errors.New("command: no controller client configured")
	ErrBadPayload   = errors.New("command: malformed command payload")
)

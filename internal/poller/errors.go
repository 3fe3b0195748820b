package poller

import "errors"

// Domain errors for the poller package.
var (
	// ErrAlreadyRunning is returned when Run is called on an engine that is
	// already running.
	ErrAlreadyRunning = errors.New("poller: engine already running")

	// ErrNoClient is returned when the engine was built without a Fetcher.
	ErrNoClient = errors.New("poller: no device client configured")
)

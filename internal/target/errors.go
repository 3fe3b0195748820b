package target

import "errors"

// ErrUnknownKind is returned by ParseKind for an unrecognised kind name.
var ErrUnknownKind = errors.New("target: unknown kind")

package core

import "errors"

var (
	// ErrModelFailure marks a rejected, timed out or malformed model call.
	ErrModelFailure = errors.New("model failure")
	// ErrStoreFailure marks an unexpected fault while reading or writing state.
	ErrStoreFailure = errors.New("store failure")
)

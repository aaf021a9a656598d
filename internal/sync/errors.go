package sync

import "errors"

var (
	// ErrLocked means another sync or deprecate holds the docs tree lock.
	ErrLocked = errors.New("another d2cms run is in progress")
	// ErrOutsideRoot means a requested path is not inside the docs root.
	ErrOutsideRoot = errors.New("path is outside the docs directory")
	// ErrNoID means WordPress accepted a write but returned no item id.
	ErrNoID = errors.New("response carried no id")
)

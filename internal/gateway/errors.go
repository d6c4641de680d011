package gateway

import "errors"

// ErrNotFound reports that a requested document does not exist in the
// backing store. Backends translate their own missing-file signals
// (HTTP 404, fs.ErrNotExist) into this sentinel.
var ErrNotFound = errors.New("gateway: document not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

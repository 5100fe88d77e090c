package images

import "errors"

// Common image source errors.
var (
	// ErrNotFound indicates the requested image does not exist in the
	// configured source.
	ErrNotFound = errors.New("images: image not found")

	// ErrNoLocalPath indicates the source cannot resolve images to a
	// local filesystem path; callers fall back to Fetch.
	ErrNoLocalPath = errors.New("images: no local path available")
)

// ValidationError rejects a crop request with malformed or out-of-range
// coordinates. It is a caller mistake, never a server fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "images: " + e.Reason }

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

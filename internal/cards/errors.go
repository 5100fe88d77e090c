package cards

import "errors"

// ErrNotFound indicates the requested card has no front document.
var ErrNotFound = errors.New("cards: card not found")

// ValidationError rejects a write whose payload is malformed or missing a
// required field. It is a caller mistake, never a server fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "cards: " + e.Reason }

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

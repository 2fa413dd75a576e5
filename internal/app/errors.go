package app

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a request rejected by validation. Handlers map it to
// a 400 response.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

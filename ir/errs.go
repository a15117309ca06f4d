package ir

import (
	"errors"
	"fmt"
)

var errInternal = errors.New("internal error")

// CoercionError reports a value that cannot be cast to the type a
// requested style demands.
type CoercionError struct {
	Style Style
	Value string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf(
		"the requested value format is %s, but %q cannot be cast to it",
		e.Style, e.Value)
}

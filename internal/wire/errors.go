package wire

import (
	"errors"
	"fmt"
)

// ErrInvalidHeader: magic mismatch or implausible length in a frame header.
var ErrInvalidHeader = errors.New("invalid message header")

// InvalidMessageKindError: payload kind code not in the EMsg table.
// Code is the original signed wire value, not the absolute lookup key.
type InvalidMessageKindError struct {
	Code int32
}

func (e *InvalidMessageKindError) Error() string {
	return fmt.Sprintf("invalid message kind %d", e.Code)
}

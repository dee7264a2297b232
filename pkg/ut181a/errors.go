package ut181a

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this module matches exactly one of them via errors.Is.
var (
	// ErrDeviceNotFound is returned when no matching DMM endpoint exists at open time
	ErrDeviceNotFound = errors.New("DMM is not found")
	// ErrTransport is an I/O failure on an already opened device
	ErrTransport = errors.New("transport error")
	// ErrProtocol is returned when the DMM rejected an operation or sent a payload that is invalid for its mode
	ErrProtocol = errors.New("protocol error")
	// ErrInvalidInput is a malformed command line argument
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCommand is a verb/sub-verb outside of the command tree
	ErrUnknownCommand = errors.New("unknown CLI command")

	// ErrUnusedRangeStep is returned for a range step a family does not use. It is a protocol error.
	ErrUnusedRangeStep = fmt.Errorf("%w: unused range step", ErrProtocol)
)

// RangeError reports a (family, step) pair that is not in the family's range table
type RangeError struct {
	Family Family
	Step   RangeStep
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("unused range step %v for %v range", e.Step, e.Family)
}

// Is makes RangeError match ErrUnusedRangeStep and ErrProtocol
func (e *RangeError) Is(target error) bool {
	return target == ErrUnusedRangeStep || target == ErrProtocol
}

// DecodeError reports a device record that can not be turned into a Measurement
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "can not decode measurement: " + e.Reason
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrProtocol
}

func decodeErrorf(format string, args ...interface{}) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

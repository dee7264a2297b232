package command

import (
	"fmt"

	"github.com/speters/ut181a/pkg/ut181a"
)

// InputError is a malformed positional argument. It is raised before the DMM is touched.
type InputError struct {
	Arg   string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	if e.Value == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Arg, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("invalid %s '%s'", e.Arg, e.Value)
	}
	return fmt.Sprintf("invalid %s '%s': %v", e.Arg, e.Value, e.Err)
}

func (e *InputError) Is(target error) bool {
	return target == ut181a.ErrInvalidInput
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// UnknownCommandError is a verb/sub-verb combination outside the command tree
type UnknownCommandError struct {
	Verb string
	Sub  string
}

func (e *UnknownCommandError) Error() string {
	cmd := e.Verb
	if e.Sub != "" {
		cmd += " " + e.Sub
	}
	return fmt.Sprintf("unknown CLI command '%s'", cmd)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ut181a.ErrUnknownCommand
}

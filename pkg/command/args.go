package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Command is one resolved command line: verb, optional sub-verb and positional arguments
type Command struct {
	Verb string
	Sub  string
	Args []string
}

func (c Command) String() string {
	parts := []string{c.Verb}
	if c.Sub != "" {
		parts = append(parts, c.Sub)
	}
	return strings.Join(append(parts, c.Args...), " ")
}

// Parse splits command line tokens. The token after a verb that has sub-verbs is its sub-verb.
func Parse(args []string) Command {
	if len(args) == 0 {
		return Command{}
	}
	cmd := Command{Verb: args[0]}
	rest := args[1:]
	if _, ok := subVerbs[cmd.Verb]; ok && len(rest) > 0 {
		cmd.Sub, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		cmd.Args = rest
	}
	return cmd
}

// expect checks that cmd has exactly the named positional arguments
func (c Command) expect(names ...string) error {
	if len(c.Args) < len(names) {
		return &InputError{Arg: names[len(c.Args)], Err: errors.New("missing argument")}
	}
	if len(c.Args) > len(names) {
		return &InputError{Arg: "argument", Value: c.Args[len(names)], Err: errors.New("unexpected argument")}
	}
	return nil
}

// parseIndex parses a 1-based DMM index
func parseIndex(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, &InputError{Arg: "INDEX", Value: s, Err: numError(err)}
	}
	if n == 0 {
		return 0, &InputError{Arg: "INDEX", Value: s, Err: errors.New("indices start at 1")}
	}
	return uint16(n), nil
}

func parseUint16(name, s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, &InputError{Arg: name, Value: s, Err: numError(err)}
	}
	return uint16(n), nil
}

func parseUint32(name, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &InputError{Arg: name, Value: s, Err: numError(err)}
	}
	return uint32(n), nil
}

func parseFloat32(name, s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, &InputError{Arg: name, Value: s, Err: numError(err)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &InputError{Arg: name, Value: s, Err: fmt.Errorf("not a finite number")}
	}
	return float32(f), nil
}

// numError drops strconv's repetition of the input
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

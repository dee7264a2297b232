package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/speters/ut181a/pkg/ut181a"
)

type handler func(r *Router, ctx context.Context, cmd Command) error

type verb struct {
	usage string
	run   handler
}

// verbs is the top level of the command tree
var verbs = map[string]verb{
	"list-devices": {"list-devices", listDevices},
	"hold":         {"hold", hold},
	"min-max-mode": {"min-max-mode {on|off}", minMaxMode},
	"ref":          {"ref VALUE", setReference},
	"range":        {"range {auto|step1..step8}", setRange},
	"mode":         {"mode MODE", setMode},
	"read":         {"read {once|cont}", read},
	"save":         {"save {store|count|read INDEX|delete-all|delete INDEX}", save},
	"record":       {"record {count|list|read INDEX|start NAME INTERVAL DURATION|stop}", record},

	// spellings of the first releases
	"read-once": {"", readOnce},
	"read-cont": {"", readCont},
}

// subVerbs lists the sub-verbs of each verb that takes one
var subVerbs = map[string][]string{
	"min-max-mode": {"on", "off"},
	"range":        rangeTokens(),
	"mode":         modeTokens(),
	"read":         {"once", "cont"},
	"save":         {"store", "count", "read", "delete-all", "delete"},
	"record":       {"count", "list", "read", "start", "stop"},
}

func rangeTokens() []string {
	tokens := make([]string, len(ut181a.RangeSteps))
	for i, r := range ut181a.RangeSteps {
		tokens[i] = r.Token()
	}
	return tokens
}

func modeTokens() []string {
	modes := ut181a.Modes()
	tokens := make([]string, len(modes))
	for i, m := range modes {
		tokens[i] = m.Token()
	}
	return tokens
}

// Verbs returns the top level verbs in usage order
func Verbs() []string {
	return []string{"list-devices", "hold", "min-max-mode", "ref", "range", "mode", "read", "save", "record"}
}

// SubVerbs returns the sub-verbs of verb, nil if it takes none
func SubVerbs(verb string) []string {
	return subVerbs[verb]
}

// Usage writes the command tree
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, v := range Verbs() {
		fmt.Fprintf(w, "  %s\n", verbs[v].usage)
	}
	fmt.Fprintln(w, "\nModes:")
	tokens := modeTokens()
	for i := 0; i < len(tokens); i += 6 {
		end := i + 6
		if end > len(tokens) {
			end = len(tokens)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(tokens[i:end], " "))
	}
}

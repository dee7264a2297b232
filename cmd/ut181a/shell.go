package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/speters/ut181a/pkg/command"
	"github.com/speters/ut181a/pkg/config"
)

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, v := range command.Verbs() {
		var subs []readline.PrefixCompleterInterface
		for _, s := range command.SubVerbs(v) {
			subs = append(subs, readline.PcItem(s))
		}
		items = append(items, readline.PcItem(v, subs...))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

func historyFile() string {
	p := config.DefaultPath()
	if p == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(p), "history")
}

// shell runs commands read from the terminal against one DMM handle until
// EOF, exit or ctx is cancelled. A failed command does not end the shell.
func shell(ctx context.Context, router *command.Router, stdout, stderr io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ut181a> ",
		HistoryFile:     historyFile(),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "help":
			command.Usage(stdout)
			continue
		case "shell":
			continue
		}

		if err := runCommand(ctx, router, command.Parse(args)); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	return ctx.Err()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/command"
	"github.com/speters/ut181a/pkg/config"
	"github.com/speters/ut181a/pkg/manager"
	"github.com/speters/ut181a/pkg/ut181a"
)

var (
	device     string
	verbose    bool
	configFile string
)

// To be set via go build -ldflags "-X main.buildVersion=$(git describe --dirty) -X main.buildDate=$(date -u +%FT%TZ)"
var buildVersion = "unspecified"
var buildDate = "unknown"

func init() {
	flag.StringVar(&device, "d", "", "device `path`, e.g. sim://bench or http://host:8181 (default: first found DMM)")
	flag.StringVar(&device, "device", "", "same as -d")
	flag.BoolVar(&verbose, "v", false, "verbose logging, echoes every command sent to the DMM")
	flag.BoolVar(&verbose, "verbose", false, "same as -v")
	flag.StringVar(&configFile, "config", "", "configuration `file` (default "+config.DefaultPath()+")")

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "ut181a %s (%s), remote control for the UNI-T UT181A\n\n", buildVersion, buildDate)
		fmt.Fprintf(w, "Usage: %s [flags] COMMAND [SUBCOMMAND] [ARGS]\n       %s [flags] shell\n\nFlags:\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(w)
		command.Usage(w)
	}
}

func main() {
	flag.Parse()
	os.Exit(run(flag.Args(), os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	config.SetupLogging(cfg.Log, verbose)

	// SIGINT is bound per command, so an interrupted command in the shell does not end the shell
	base, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	router := command.NewRouter(manager.New(cfg), device, stdout)
	defer func() {
		if err := router.Close(); err != nil {
			log.Warnf("Closing DMM failed: %v", err)
		}
	}()

	if args[0] == "shell" {
		// a shell session ends by interrupt like a continuous read
		return report(shell(base, router, stdout, stderr), true, stderr)
	}
	cmd := command.Parse(args)
	return report(runCommand(base, router, cmd), continuous(cmd), stderr)
}

// continuous reports whether cmd only ends by interrupt
func continuous(cmd command.Command) bool {
	return cmd.Verb == "read-cont" || (cmd.Verb == "read" && cmd.Sub == "cont")
}

// report prints err and returns the exit code. Interrupting a continuous
// command is its normal end, any other interrupt is a failure.
func report(err error, interruptible bool, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled) && interruptible:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Error: interrupted")
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func runCommand(ctx context.Context, router *command.Router, cmd command.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return router.Run(ctx, cmd)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ut181a.ErrInvalidInput), errors.Is(err, ut181a.ErrUnknownCommand):
		return 2
	}
	return 1
}

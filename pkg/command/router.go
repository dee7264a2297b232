// Package command maps CLI commands to sequences of DMM operations.
//
// The DMM refuses reconfiguration while it streams readings, so the Router
// tracks the monitor state of the device and switches monitoring off before
// any configuration change.
package command

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/ut181a"
)

// Opener enumerates and opens DMMs
type Opener interface {
	Find(ctx context.Context) ([]ut181a.DeviceInfo, error)
	Open(ctx context.Context, path string) (ut181a.Device, error)
}

// State is the monitor state of the opened DMM
type State int

const (
	// Unknown is the state right after open, an earlier process may have left the DMM streaming
	Unknown State = iota
	Idle
	Monitoring
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Monitoring:
		return "monitoring"
	}
	return "unknown"
}

// Router runs commands against one DMM. The DMM is opened by the first command
// that needs it and kept open until Close.
type Router struct {
	opener Opener
	path   string
	out    io.Writer
	log    log.FieldLogger

	dev   ut181a.Device
	state State
}

// NewRouter returns a Router for the DMM at path, the first found one if path is empty.
// Command output goes to out.
func NewRouter(opener Opener, path string, out io.Writer) *Router {
	return &Router{
		opener: opener,
		path:   path,
		out:    out,
		log:    log.StandardLogger(),
	}
}

// SetLogger replaces the standard logrus logger
func (r *Router) SetLogger(l log.FieldLogger) {
	r.log = l
}

// State returns the monitor state of the opened DMM
func (r *Router) State() State {
	return r.state
}

// Run performs the device operations of cmd
func (r *Router) Run(ctx context.Context, cmd Command) error {
	v, ok := verbs[cmd.Verb]
	if !ok {
		return &UnknownCommandError{Verb: cmd.Verb, Sub: cmd.Sub}
	}
	return v.run(r, ctx, cmd)
}

// Close closes the DMM if it was opened
func (r *Router) Close() error {
	if r.dev == nil {
		return nil
	}
	err := r.dev.Close()
	r.dev = nil
	r.state = Unknown
	return err
}

func (r *Router) device(ctx context.Context) (ut181a.Device, error) {
	if r.dev != nil {
		return r.dev, nil
	}
	dev, err := r.opener.Open(ctx, r.path)
	if err != nil {
		return nil, err
	}
	r.dev = dev
	r.state = Unknown
	return dev, nil
}

// op echoes a device operation in verbose mode, before it is issued
func (r *Router) op(format string, args ...interface{}) {
	r.log.Debugf("Sending '%s' command to DMM.", fmt.Sprintf(format, args...))
}

func (r *Router) monitorOn(ctx context.Context, dev ut181a.Device) error {
	r.op("MONITOR ON")
	if err := dev.MonitorOn(ctx); err != nil {
		return err
	}
	r.state = Monitoring
	return nil
}

func (r *Router) monitorOff(ctx context.Context, dev ut181a.Device) error {
	r.op("MONITOR OFF")
	if err := dev.MonitorOff(ctx); err != nil {
		return err
	}
	r.state = Idle
	return nil
}

// idle opens the DMM and makes sure it does not stream, as required before
// any configuration change
func (r *Router) idle(ctx context.Context) (ut181a.Device, error) {
	dev, err := r.device(ctx)
	if err != nil {
		return nil, err
	}
	if r.state != Idle {
		if err := r.monitorOff(ctx, dev); err != nil {
			return nil, err
		}
	}
	return dev, nil
}

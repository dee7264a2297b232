package command

import (
	"context"
	"fmt"

	"github.com/speters/ut181a/pkg/ut181a"
)

func unknown(cmd Command) error {
	return &UnknownCommandError{Verb: cmd.Verb, Sub: cmd.Sub}
}

func listDevices(r *Router, ctx context.Context, cmd Command) error {
	if err := cmd.expect(); err != nil {
		return err
	}
	found, err := r.opener.Find(ctx)
	if err != nil {
		return err
	}
	for _, d := range found {
		fmt.Fprintf(r.out, "Found DMM at path '%s'.\n", d.Path)
	}
	return nil
}

func hold(r *Router, ctx context.Context, cmd Command) error {
	if err := cmd.expect(); err != nil {
		return err
	}
	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	r.op("HOLD")
	return dev.ToggleHold(ctx)
}

func minMaxMode(r *Router, ctx context.Context, cmd Command) error {
	var on bool
	switch cmd.Sub {
	case "on":
		on = true
	case "off":
	default:
		return unknown(cmd)
	}
	if err := cmd.expect(); err != nil {
		return err
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	if on {
		r.op("MIN/MAX ON")
	} else {
		r.op("MIN/MAX OFF")
	}
	return dev.SetMinMaxMode(ctx, on)
}

func setReference(r *Router, ctx context.Context, cmd Command) error {
	if err := cmd.expect("VALUE"); err != nil {
		return err
	}
	v, err := parseFloat32("VALUE", cmd.Args[0])
	if err != nil {
		return err
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	r.op("SET REFERENCE VALUE %v", v)
	return dev.SetReferenceValue(ctx, v)
}

func setRange(r *Router, ctx context.Context, cmd Command) error {
	if cmd.Sub == "" {
		return unknown(cmd)
	}
	step, err := ut181a.ParseRangeStep(cmd.Sub)
	if err != nil {
		return unknown(cmd)
	}
	if err := cmd.expect(); err != nil {
		return err
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	r.op("SET RANGE %v", step)
	return dev.SetRange(ctx, step)
}

func setMode(r *Router, ctx context.Context, cmd Command) error {
	if cmd.Sub == "" {
		return unknown(cmd)
	}
	mode, err := ut181a.ParseMode(cmd.Sub)
	if err != nil {
		return unknown(cmd)
	}
	if err := cmd.expect(); err != nil {
		return err
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	r.op("SET MODE %v", mode)
	return dev.SetMode(ctx, mode)
}

func read(r *Router, ctx context.Context, cmd Command) error {
	switch cmd.Sub {
	case "once":
		return readOnce(r, ctx, cmd)
	case "cont":
		return readCont(r, ctx, cmd)
	}
	return unknown(cmd)
}

// readOnce brackets exactly one fetch with monitor on and off. Monitoring is
// switched off on every return path, also when ctx was cancelled.
func readOnce(r *Router, ctx context.Context, cmd Command) (err error) {
	if err := cmd.expect(); err != nil {
		return err
	}
	dev, err := r.device(ctx)
	if err != nil {
		return err
	}
	if err := r.monitorOn(ctx, dev); err != nil {
		return err
	}
	defer func() {
		if offErr := r.monitorOff(context.WithoutCancel(ctx), dev); err == nil {
			err = offErr
		}
	}()

	r.log.Debug("Reading a message from DMM.")
	m, err := dev.Measurement(ctx)
	if err != nil {
		return err
	}
	return ut181a.Display(r.out, m)
}

// readCont streams readings until ctx is cancelled or a fetch fails. The DMM
// is left monitoring.
func readCont(r *Router, ctx context.Context, cmd Command) error {
	if err := cmd.expect(); err != nil {
		return err
	}
	dev, err := r.device(ctx)
	if err != nil {
		return err
	}
	if err := r.monitorOn(ctx, dev); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.log.Debug("Reading a message from DMM.")
		m, err := dev.Measurement(ctx)
		if err != nil {
			return err
		}
		if err := ut181a.Display(r.out, m); err != nil {
			return err
		}
	}
}

func save(r *Router, ctx context.Context, cmd Command) error {
	var run func(dev ut181a.Device) error

	switch cmd.Sub {
	case "store":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("SAVE")
			return dev.SaveMeasurement(ctx)
		}
	case "count":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("GET SAVE COUNT")
			n, err := dev.SavedMeasurementCount(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(r.out, "Save count: %d\n", n)
			return err
		}
	case "read":
		i, err := indexArg(cmd)
		if err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("READ SAVE AT %d", i)
			saved, err := dev.SavedMeasurement(ctx, i)
			if err != nil {
				return err
			}
			return ut181a.DisplaySaved(r.out, saved)
		}
	case "delete-all":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("DELETE ALL SAVE")
			return dev.DeleteAllSavedMeasurements(ctx)
		}
	case "delete":
		i, err := indexArg(cmd)
		if err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("DELETE SAVE #%d", i)
			return dev.DeleteSavedMeasurement(ctx, i)
		}
	default:
		return unknown(cmd)
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	return run(dev)
}

func record(r *Router, ctx context.Context, cmd Command) error {
	var run func(dev ut181a.Device) error

	switch cmd.Sub {
	case "count":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("GET RECORD COUNT")
			n, err := dev.RecordCount(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(r.out, "Record count: %d\n", n)
			return err
		}
	case "list":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("GET RECORD COUNT")
			n, err := dev.RecordCount(ctx)
			if err != nil {
				return err
			}
			for i := uint16(1); i <= n && i != 0; i++ {
				r.op("GET RECORD INFO #%d", i)
				info, err := dev.RecordInfo(ctx, i)
				if err != nil {
					return err
				}
				if err := ut181a.DisplayRecordInfo(r.out, i, info); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(r.out, "\nTotal record count: %d\n", n)
			return err
		}
	case "read":
		i, err := indexArg(cmd)
		if err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("GET RECORD DATA #%d", i)
			samples, err := dev.RecordData(ctx, i)
			if err != nil {
				return err
			}
			return ut181a.DisplayRecordData(r.out, samples)
		}
	case "start":
		if err := cmd.expect("NAME", "INTERVAL", "DURATION"); err != nil {
			return err
		}
		name := cmd.Args[0]
		interval, err := parseUint16("INTERVAL", cmd.Args[1])
		if err != nil {
			return err
		}
		duration, err := parseUint32("DURATION", cmd.Args[2])
		if err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("RECORD START")
			return dev.StartRecord(ctx, name, interval, duration)
		}
	case "stop":
		if err := cmd.expect(); err != nil {
			return err
		}
		run = func(dev ut181a.Device) error {
			r.op("RECORD STOP")
			return dev.StopRecord(ctx)
		}
	default:
		return unknown(cmd)
	}

	dev, err := r.idle(ctx)
	if err != nil {
		return err
	}
	return run(dev)
}

func indexArg(cmd Command) (uint16, error) {
	if err := cmd.expect("INDEX"); err != nil {
		return 0, err
	}
	return parseIndex(cmd.Args[0])
}

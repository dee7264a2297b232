// Package simulator provides an in-memory UT181A. It behaves like the meter at
// the level of the ut181a.Device contract, including the rejection of any
// reconfiguration while the meter is streaming readings.
package simulator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/ut181a"
)

var _ ut181a.Device = (*Simulator)(nil)

// Simulator is a simulated UT181A
type Simulator struct {
	name     string
	now      func() time.Time
	interval time.Duration

	mu         sync.Mutex
	closed     bool
	monitoring bool

	mode      ut181a.Mode
	step      ut181a.RangeStep
	auto      bool
	hold      bool
	reference float32
	seq       int
	held      ut181a.Measurement

	minMax *minMaxState

	saved   []ut181a.SavedMeasurement
	records []*recording
}

type minMaxState struct {
	start            time.Time
	max, min, sum    float32
	n                int
	maxTime, minTime time.Duration
}

// Option configures a Simulator
type Option func(*Simulator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithInterval sets the delay between two streamed readings
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) { s.interval = d }
}

// New returns a simulator in VDC mode with auto range, monitoring off
func New(name string, opts ...Option) *Simulator {
	s := &Simulator{
		name: name,
		now:  time.Now,
		mode: ut181a.VDCNormal,
		auto: true,
	}
	for _, o := range opts {
		o(s)
	}
	s.step = nominal(s.mode).step
	return s
}

// Name returns the name the simulator was created with
func (s *Simulator) Name() string {
	return s.name
}

// Monitoring reports whether readings are currently streamed
func (s *Simulator) Monitoring() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitoring
}

// Mode returns the current measuring mode
func (s *Simulator) Mode() ut181a.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// lock acquires the simulator for op. Configuration ops are refused while monitoring.
func (s *Simulator) lock(op string, configures bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s: device %q is closed", ut181a.ErrTransport, op, s.name)
	}
	if configures && s.monitoring {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s rejected while monitoring", ut181a.ErrProtocol, op)
	}
	log.Debugf("simulator %s: %s", s.name, op)
	return nil
}

func (s *Simulator) MonitorOn(ctx context.Context) error {
	if err := s.lock("MONITOR ON", false); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.monitoring = true
	return nil
}

func (s *Simulator) MonitorOff(ctx context.Context) error {
	if err := s.lock("MONITOR OFF", false); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.monitoring = false
	return nil
}

func (s *Simulator) ToggleHold(ctx context.Context) error {
	if err := s.lock("HOLD", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.hold = !s.hold
	s.held = nil
	return nil
}

func (s *Simulator) SetMinMaxMode(ctx context.Context, on bool) error {
	if err := s.lock("MIN/MAX", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.mode.IsPeak() && on {
		return fmt.Errorf("%w: min/max is not available in %v mode", ut181a.ErrProtocol, s.mode)
	}
	s.minMax = nil
	if on {
		s.minMax = &minMaxState{start: s.now()}
	}
	return nil
}

func (s *Simulator) SetReferenceValue(ctx context.Context, v float32) error {
	if err := s.lock("SET REFERENCE VALUE", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fmt.Errorf("%w: reference value %v", ut181a.ErrProtocol, v)
	}
	s.reference = v
	return nil
}

func (s *Simulator) SetRange(ctx context.Context, r ut181a.RangeStep) error {
	if err := s.lock("SET RANGE", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if r == ut181a.Auto {
		s.auto = true
		s.step = nominal(s.mode).step
		return nil
	}
	if _, err := ut181a.PhraseFor(s.mode.Family(), r); err != nil {
		return fmt.Errorf("SET RANGE %v in %v mode: %w", r, s.mode, err)
	}
	s.auto = false
	s.step = r
	return nil
}

func (s *Simulator) SetMode(ctx context.Context, m ut181a.Mode) error {
	if err := s.lock("SET MODE", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if !m.Valid() {
		return fmt.Errorf("%w: unknown mode %d", ut181a.ErrProtocol, uint16(m))
	}
	s.mode = m
	s.auto = true
	s.step = nominal(m).step
	s.minMax = nil
	s.held = nil
	return nil
}

// Measurement returns the next streamed reading, waiting the configured interval
func (s *Simulator) Measurement(ctx context.Context) (ut181a.Measurement, error) {
	if s.interval > 0 {
		t := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if err := s.lock("GET MEASUREMENT", false); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if !s.monitoring {
		return nil, fmt.Errorf("%w: no reading, monitoring is off", ut181a.ErrProtocol)
	}
	return s.measure()
}

// measure builds the current reading. s.mu must be held.
func (s *Simulator) measure() (ut181a.Measurement, error) {
	if s.hold && s.held != nil {
		return s.held, nil
	}
	s.seq++

	nom := nominal(s.mode)
	v := nom.at(s.seq)
	rec := ut181a.Record{
		Mode:      s.mode,
		Hold:      s.hold,
		AutoRange: s.auto,
		Range:     s.step,
	}

	switch {
	case s.mode.IsPeak():
		rec.Shape = ut181a.ShapePeak
		rec.Max = nom.value(v.Number * math.Sqrt2)
		rec.Min = nom.value(-v.Number * math.Sqrt2)
	case s.minMax != nil:
		mm := s.minMax
		elapsed := s.now().Sub(mm.start)
		if mm.n == 0 || v.Number > mm.max {
			mm.max, mm.maxTime = v.Number, elapsed
		}
		if mm.n == 0 || v.Number < mm.min {
			mm.min, mm.minTime = v.Number, elapsed
		}
		mm.sum += v.Number
		mm.n++
		rec.Shape = ut181a.ShapeMinMax
		rec.Main = &v
		rec.Max, rec.MaxTime = nom.value(mm.max), mm.maxTime
		rec.Average, rec.AverageTime = nom.value(mm.sum/float32(mm.n)), elapsed
		rec.Min, rec.MinTime = nom.value(mm.min), mm.minTime
	case s.mode.IsRelative():
		rec.Shape = ut181a.ShapeRelative
		rec.Absolute = &v
		rec.Reference = nom.value(s.reference)
		rec.Relative = nom.value(v.Number - s.reference)
		if s.mode.Layout()&ut181a.HasFast != 0 {
			rec.Fast = nom.value(v.Number)
		}
	default:
		rec.Shape = ut181a.ShapeNormal
		rec.Main = &v
		layout := s.mode.Layout()
		if layout&ut181a.HasAux1 != 0 {
			rec.Aux1 = aux1(s.mode, v)
		}
		if layout&ut181a.HasAux2 != 0 {
			rec.Aux2 = aux2(s.mode, v)
		}
		if layout&ut181a.HasFast != 0 {
			rec.Fast = nom.value(v.Number)
		}
	}

	m, err := ut181a.Decode(rec)
	if err != nil {
		return nil, err
	}
	if s.hold {
		s.held = m
	}
	return m, nil
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: device %q is already closed", ut181a.ErrTransport, s.name)
	}
	s.closed = true
	s.monitoring = false
	return nil
}

// nominalReading is the simulated signal of a family
type nominalReading struct {
	number    float32
	precision uint8
	unit      string
	step      ut181a.RangeStep
}

var nominals = map[ut181a.Family]nominalReading{
	ut181a.MilliVoltDC:  {12.345, 3, "mV", ut181a.Step1},
	ut181a.MilliVoltAC:  {7.891, 3, "mV", ut181a.Step1},
	ut181a.VoltDC:       {5.0123, 4, "V", ut181a.Step1},
	ut181a.VoltAC:       {230.1, 1, "V", ut181a.Step3},
	ut181a.TemperatureC: {21.5, 1, "°C", ut181a.Step1},
	ut181a.TemperatureF: {70.7, 1, "°F", ut181a.Step1},
	ut181a.Resistance:   {4.702, 3, "kOhm", ut181a.Step2},
	ut181a.Admittance:   {12.34, 2, "nS", ut181a.Step1},
	ut181a.Diode:        {0.612, 3, "V", ut181a.Step1},
	ut181a.Capacitance:  {98.7, 1, "nF", ut181a.Step3},
	ut181a.Frequency:    {50.00, 2, "Hz", ut181a.Step1},
	ut181a.MicroAmpDC:   {123.4, 1, "uA", ut181a.Step1},
	ut181a.MicroAmpAC:   {98.7, 1, "uA", ut181a.Step1},
	ut181a.MilliAmpDC:   {45.67, 2, "mA", ut181a.Step1},
	ut181a.MilliAmpAC:   {32.10, 2, "mA", ut181a.Step1},
	ut181a.AmpDC:        {1.234, 3, "A", ut181a.Step1},
	ut181a.AmpAC:        {0.987, 3, "A", ut181a.Step1},
}

func nominal(m ut181a.Mode) nominalReading {
	return nominals[m.Family()]
}

// at returns the i-th sample of the signal, wobbling by 0.1 %
func (n nominalReading) at(i int) ut181a.Value {
	f := n.number * float32(1+0.001*math.Sin(float64(i)))
	return ut181a.Value{Number: f, Precision: n.precision, Unit: n.unit}
}

func (n nominalReading) value(f float32) *ut181a.Value {
	return &ut181a.Value{Number: f, Precision: n.precision, Unit: n.unit}
}

// aux1 is the first secondary display of a normal reading
func aux1(m ut181a.Mode, v ut181a.Value) *ut181a.Value {
	b := m.Behavior()
	switch {
	case b&(ut181a.BehaviorHz) != 0, m == ut181a.DutyCycle, m == ut181a.PulseWidth:
		return &ut181a.Value{Number: 50, Precision: 2, Unit: "Hz"}
	case b&ut181a.BehaviorDB != 0:
		return &ut181a.Value{Number: float32(20 * math.Log10(float64(v.Number))), Precision: 2, Unit: "dB"}
	case b&ut181a.BehaviorACDC != 0:
		return &ut181a.Value{Number: v.Number * 0.8, Precision: v.Precision, Unit: v.Unit}
	}
	// temperature difference, T1
	return &ut181a.Value{Number: v.Number + 1.5, Precision: v.Precision, Unit: v.Unit}
}

// aux2 is the second secondary display of a normal reading
func aux2(m ut181a.Mode, v ut181a.Value) *ut181a.Value {
	if m.Behavior()&ut181a.BehaviorACDC != 0 {
		return &ut181a.Value{Number: v.Number * 0.6, Precision: v.Precision, Unit: v.Unit}
	}
	// temperature modes, the other probe
	return &ut181a.Value{Number: v.Number - 0.5, Precision: v.Precision, Unit: v.Unit}
}

package simulator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/speters/ut181a/pkg/ut181a"
)

// maxRecordMinutes is the longest duration representable as time.Duration
const maxRecordMinutes = math.MaxInt64 / int64(time.Minute)

type recording struct {
	name     string
	nominal  nominalReading
	interval time.Duration
	duration time.Duration
	start    time.Time
	stopped  time.Time
}

// end returns the end of the recording, zero while it is still running at now
func (r *recording) end(now time.Time) time.Time {
	if !r.stopped.IsZero() {
		return r.stopped
	}
	if finish := r.start.Add(r.duration); !now.Before(finish) {
		return finish
	}
	return time.Time{}
}

func (r *recording) samples(now time.Time) []ut181a.RecordSample {
	until := r.end(now)
	if until.IsZero() {
		until = now
	}
	n := int(until.Sub(r.start) / r.interval)
	if limit := int(r.duration / r.interval); n > limit {
		n = limit
	}
	samples := make([]ut181a.RecordSample, n)
	for i := range samples {
		samples[i] = ut181a.RecordSample{
			Timestamp: r.start.Add(time.Duration(i+1) * r.interval),
			Value:     r.nominal.at(i + 1),
		}
	}
	return samples
}

func (s *Simulator) SaveMeasurement(ctx context.Context) error {
	if err := s.lock("SAVE MEASUREMENT", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	m, err := s.measure()
	if err != nil {
		return err
	}
	s.saved = append(s.saved, ut181a.SavedMeasurement{Timestamp: s.now(), Measurement: m})
	return nil
}

func (s *Simulator) SavedMeasurementCount(ctx context.Context) (uint16, error) {
	if err := s.lock("GET SAVED MEASUREMENT COUNT", true); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	return uint16(len(s.saved)), nil
}

func (s *Simulator) SavedMeasurement(ctx context.Context, index uint16) (ut181a.SavedMeasurement, error) {
	if err := s.lock("GET SAVED MEASUREMENT", true); err != nil {
		return ut181a.SavedMeasurement{}, err
	}
	defer s.mu.Unlock()
	if err := checkIndex("saved measurement", index, len(s.saved)); err != nil {
		return ut181a.SavedMeasurement{}, err
	}
	return s.saved[index-1], nil
}

func (s *Simulator) DeleteSavedMeasurement(ctx context.Context, index uint16) error {
	if err := s.lock("DELETE SAVED MEASUREMENT", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := checkIndex("saved measurement", index, len(s.saved)); err != nil {
		return err
	}
	s.saved = append(s.saved[:index-1], s.saved[index:]...)
	return nil
}

func (s *Simulator) DeleteAllSavedMeasurements(ctx context.Context) error {
	if err := s.lock("DELETE ALL SAVED MEASUREMENTS", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.saved = nil
	return nil
}

func (s *Simulator) RecordCount(ctx context.Context) (uint16, error) {
	if err := s.lock("GET RECORD COUNT", true); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	return uint16(len(s.records)), nil
}

func (s *Simulator) RecordInfo(ctx context.Context, index uint16) (ut181a.RecordInfo, error) {
	if err := s.lock("GET RECORD INFO", true); err != nil {
		return ut181a.RecordInfo{}, err
	}
	defer s.mu.Unlock()
	if err := checkIndex("record", index, len(s.records)); err != nil {
		return ut181a.RecordInfo{}, err
	}
	r := s.records[index-1]
	samples := r.samples(s.now())

	info := ut181a.RecordInfo{
		Name:        r.name,
		Unit:        r.nominal.unit,
		Interval:    r.interval,
		Duration:    r.duration,
		SampleCount: uint32(len(samples)),
	}
	if len(samples) == 0 {
		return info, nil
	}
	hi, lo := float32(math.Inf(-1)), float32(math.Inf(1))
	var sum float32
	for _, smp := range samples {
		hi = float32(math.Max(float64(hi), float64(smp.Value.Number)))
		lo = float32(math.Min(float64(lo), float64(smp.Value.Number)))
		sum += smp.Value.Number
	}
	info.Max = *r.nominal.value(hi)
	info.Average = *r.nominal.value(sum / float32(len(samples)))
	info.Min = *r.nominal.value(lo)
	return info, nil
}

func (s *Simulator) RecordData(ctx context.Context, index uint16) ([]ut181a.RecordSample, error) {
	if err := s.lock("GET RECORD DATA", true); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if err := checkIndex("record", index, len(s.records)); err != nil {
		return nil, err
	}
	return s.records[index-1].samples(s.now()), nil
}

// StartRecord starts a recording of the current mode. interval is in seconds, duration in minutes.
func (s *Simulator) StartRecord(ctx context.Context, name string, interval uint16, duration uint32) error {
	if err := s.lock("START RECORD", true); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if uint64(duration) > uint64(maxRecordMinutes) {
		return fmt.Errorf("%w: record duration of %d minutes is too long", ut181a.ErrProtocol, duration)
	}
	iv := time.Duration(interval) * time.Second
	d := time.Duration(duration) * time.Minute
	switch {
	case name == "":
		return fmt.Errorf("%w: record name is empty", ut181a.ErrProtocol)
	case interval == 0:
		return fmt.Errorf("%w: record interval is 0", ut181a.ErrProtocol)
	case iv > d:
		return fmt.Errorf("%w: record interval %v exceeds duration %v", ut181a.ErrProtocol, iv, d)
	case s.active() != nil:
		return fmt.Errorf("%w: a recording is already running", ut181a.ErrProtocol)
	}

	s.records = append(s.records, &recording{
		name:     name,
		nominal:  nominal(s.mode),
		interval: iv,
		duration: d,
		start:    s.now(),
	})
	return nil
}

func (s *Simulator) StopRecord(ctx context.Context) error {
	if err := s.lock("STOP RECORD", true); err != nil {
		return err
	}
	defer s.mu.Unlock()
	r := s.active()
	if r == nil {
		return fmt.Errorf("%w: no recording is running", ut181a.ErrProtocol)
	}
	r.stopped = s.now()
	return nil
}

// active returns the running recording. s.mu must be held.
func (s *Simulator) active() *recording {
	if len(s.records) == 0 {
		return nil
	}
	r := s.records[len(s.records)-1]
	if !r.end(s.now()).IsZero() {
		return nil
	}
	return r
}

func checkIndex(what string, index uint16, n int) error {
	if index == 0 || int(index) > n {
		return fmt.Errorf("%w: no %s #%d, %d stored", ut181a.ErrProtocol, what, index, n)
	}
	return nil
}

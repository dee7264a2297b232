package simulator

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speters/ut181a/pkg/ut181a"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSimulator() (*Simulator, *clock) {
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New("bench", WithClock(c.now)), c
}

func TestConfigurationRejectedWhileMonitoring(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	require.NoError(t, s.MonitorOn(ctx))
	assert.True(t, s.Monitoring())

	assert.ErrorIs(t, s.SetMode(ctx, ut181a.ResistanceNormal), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.SetRange(ctx, ut181a.Step2), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.ToggleHold(ctx), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.SetMinMaxMode(ctx, true), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.SetReferenceValue(ctx, 1), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.SaveMeasurement(ctx), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.StartRecord(ctx, "x", 1, 1), ut181a.ErrProtocol)
	assert.Equal(t, ut181a.VDCNormal, s.Mode())

	require.NoError(t, s.MonitorOff(ctx))
	require.NoError(t, s.SetMode(ctx, ut181a.ResistanceNormal))
	assert.Equal(t, ut181a.ResistanceNormal, s.Mode())
}

func TestMeasurementRequiresMonitoring(t *testing.T) {
	s, _ := newTestSimulator()
	m, err := s.Measurement(context.Background())
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ut181a.ErrProtocol)
}

func TestEveryModeProducesADisplayableReading(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	for _, mode := range ut181a.Modes() {
		require.NoError(t, s.SetMode(ctx, mode))
		require.NoError(t, s.MonitorOn(ctx))
		m, err := s.Measurement(ctx)
		require.NoError(t, err, mode.String())
		require.NoError(t, s.MonitorOff(ctx))

		h := ut181a.HeaderOf(m)
		assert.Equal(t, mode, h.Mode)
		assert.True(t, h.AutoRange)
		switch {
		case mode.IsPeak():
			assert.IsType(t, &ut181a.Peak{}, m, mode.String())
		case mode.IsRelative():
			assert.IsType(t, &ut181a.Relative{}, m, mode.String())
		default:
			assert.IsType(t, &ut181a.Normal{}, m, mode.String())
		}

		var out bytes.Buffer
		assert.NoError(t, ut181a.Display(&out, m), mode.String())
	}
}

func TestSetRange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	err := s.SetRange(ctx, ut181a.Step5)
	assert.ErrorIs(t, err, ut181a.ErrUnusedRangeStep)

	require.NoError(t, s.SetRange(ctx, ut181a.Step3))
	require.NoError(t, s.MonitorOn(ctx))
	m, err := s.Measurement(ctx)
	require.NoError(t, err)
	assert.Equal(t, ut181a.Header{Mode: ut181a.VDCNormal, Range: ut181a.Step3}, ut181a.HeaderOf(m))
	require.NoError(t, s.MonitorOff(ctx))

	require.NoError(t, s.SetMode(ctx, ut181a.VDCNormalRel))
	require.NoError(t, s.MonitorOn(ctx))
	m, err = s.Measurement(ctx)
	require.NoError(t, err)
	assert.True(t, ut181a.HeaderOf(m).AutoRange)
}

func TestHoldFreezesReading(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	require.NoError(t, s.ToggleHold(ctx))
	require.NoError(t, s.MonitorOn(ctx))
	first, err := s.Measurement(ctx)
	require.NoError(t, err)
	second, err := s.Measurement(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.True(t, ut181a.HeaderOf(first).Hold)
}

func TestRelativeReading(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	require.NoError(t, s.SetMode(ctx, ut181a.VDCNormalRel))
	require.NoError(t, s.SetReferenceValue(ctx, 5))
	require.NoError(t, s.MonitorOn(ctx))
	m, err := s.Measurement(ctx)
	require.NoError(t, err)

	rel := m.(*ut181a.Relative)
	assert.Equal(t, float32(5), rel.Reference.Number)
	assert.InDelta(t, rel.Absolute.Number-5, rel.Relative.Number, 1e-6)
	assert.NotNil(t, rel.Fast)
}

func TestMinMax(t *testing.T) {
	ctx := context.Background()
	s, c := newTestSimulator()

	require.NoError(t, s.SetMinMaxMode(ctx, true))
	require.NoError(t, s.MonitorOn(ctx))
	for i := 0; i < 5; i++ {
		c.advance(time.Second)
		_, err := s.Measurement(ctx)
		require.NoError(t, err)
	}
	c.advance(time.Second)
	m, err := s.Measurement(ctx)
	require.NoError(t, err)

	mm := m.(*ut181a.MinMax)
	assert.GreaterOrEqual(t, mm.Max.Number, mm.Average.Number)
	assert.LessOrEqual(t, mm.Min.Number, mm.Average.Number)
	assert.Equal(t, 6*time.Second, mm.Average.Elapsed)
	assert.LessOrEqual(t, mm.Max.Elapsed, 6*time.Second)
	require.NoError(t, s.MonitorOff(ctx))

	require.NoError(t, s.SetMode(ctx, ut181a.VDCPeak))
	assert.ErrorIs(t, s.SetMinMaxMode(ctx, true), ut181a.ErrProtocol)
}

func TestSavedMeasurements(t *testing.T) {
	ctx := context.Background()
	s, c := newTestSimulator()

	require.NoError(t, s.SaveMeasurement(ctx))
	c.advance(time.Minute)
	require.NoError(t, s.SetMode(ctx, ut181a.AACPeak))
	require.NoError(t, s.SaveMeasurement(ctx))

	n, err := s.SavedMeasurementCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), n)

	saved, err := s.SavedMeasurement(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, c.t, saved.Timestamp)
	assert.IsType(t, &ut181a.Peak{}, saved.Measurement)

	_, err = s.SavedMeasurement(ctx, 0)
	assert.ErrorIs(t, err, ut181a.ErrProtocol)
	_, err = s.SavedMeasurement(ctx, 3)
	assert.ErrorIs(t, err, ut181a.ErrProtocol)

	require.NoError(t, s.DeleteSavedMeasurement(ctx, 1))
	saved, err = s.SavedMeasurement(ctx, 1)
	require.NoError(t, err)
	assert.IsType(t, &ut181a.Peak{}, saved.Measurement)

	require.NoError(t, s.DeleteAllSavedMeasurements(ctx))
	n, err = s.SavedMeasurementCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecording(t *testing.T) {
	ctx := context.Background()
	s, c := newTestSimulator()

	assert.ErrorIs(t, s.StartRecord(ctx, "bench", 0, 1), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.StartRecord(ctx, "bench", 120, 1), ut181a.ErrProtocol)
	assert.ErrorIs(t, s.StopRecord(ctx), ut181a.ErrProtocol)

	start := c.t
	require.NoError(t, s.StartRecord(ctx, "bench", 10, 1))
	assert.ErrorIs(t, s.StartRecord(ctx, "other", 10, 1), ut181a.ErrProtocol)

	c.advance(35 * time.Second)
	samples, err := s.RecordData(ctx, 1)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, start.Add(10*time.Second), samples[0].Timestamp)
	assert.Equal(t, "V", samples[0].Value.Unit)

	// the recording finishes on its own after its duration
	c.advance(time.Hour)
	info, err := s.RecordInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "bench", info.Name)
	assert.Equal(t, uint32(6), info.SampleCount)
	assert.Equal(t, 10*time.Second, info.Interval)
	assert.Equal(t, time.Minute, info.Duration)
	assert.GreaterOrEqual(t, info.Max.Number, info.Average.Number)
	assert.LessOrEqual(t, info.Min.Number, info.Average.Number)

	require.NoError(t, s.StartRecord(ctx, "second", 1, 10))
	c.advance(5 * time.Second)
	require.NoError(t, s.StopRecord(ctx))
	c.advance(time.Minute)
	info, err = s.RecordInfo(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), info.SampleCount)

	n, err := s.RecordCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), n)

	_, err = s.RecordInfo(ctx, 3)
	assert.ErrorIs(t, err, ut181a.ErrProtocol)
}

func TestRecordDurationLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	err := s.StartRecord(ctx, "long", 1, math.MaxUint32)
	assert.ErrorIs(t, err, ut181a.ErrProtocol)
	assert.EqualError(t, err, "protocol error: record duration of 4294967295 minutes is too long")

	require.NoError(t, s.StartRecord(ctx, "long", 1, uint32(maxRecordMinutes)))
	info, err := s.RecordInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(maxRecordMinutes)*time.Minute, info.Duration)
	assert.Positive(t, info.Duration)
}

func TestClosedSimulator(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSimulator()

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.MonitorOn(ctx), ut181a.ErrTransport)
	_, err := s.RecordCount(ctx)
	assert.ErrorIs(t, err, ut181a.ErrTransport)
	assert.ErrorIs(t, s.Close(), ut181a.ErrTransport)
}

func TestMeasurementHonoursContext(t *testing.T) {
	s := New("slow", WithInterval(time.Hour))
	require.NoError(t, s.MonitorOn(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Measurement(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

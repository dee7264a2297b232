package ut181a

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func volts(f float32) *Value {
	return &Value{Number: f, Precision: 4, Unit: "V"}
}

func TestDecodeNormal(t *testing.T) {
	m, err := Decode(Record{
		Shape: ShapeNormal, Mode: VDCNormal, AutoRange: true, Range: Step1,
		Main: volts(1.2345), Fast: volts(1.23),
	})
	require.NoError(t, err)

	n, ok := m.(*Normal)
	require.True(t, ok)
	assert.Equal(t, VDCNormal, n.Mode)
	assert.True(t, n.AutoRange)
	assert.Equal(t, float32(1.2345), n.Main.Number)
	assert.Nil(t, n.Aux1)
	assert.Nil(t, n.Aux2)
	require.NotNil(t, n.Fast)
	assert.Equal(t, float32(1.23), n.Fast.Number)
}

func TestDecodeKeepsZeroReadings(t *testing.T) {
	m, err := Decode(Record{
		Shape: ShapeNormal, Mode: VDCACDC, Range: Step2,
		Main: volts(0), Aux1: volts(0), Aux2: volts(0),
	})
	require.NoError(t, err)
	n := m.(*Normal)
	require.NotNil(t, n.Aux1)
	require.NotNil(t, n.Aux2)
	assert.Zero(t, n.Aux1.Number)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"unknown shape", Record{Shape: "bargraph", Mode: VDCNormal, Range: Step1, Main: volts(1)}},
		{"unknown mode", Record{Shape: ShapeNormal, Mode: Mode(200), Range: Step1, Main: volts(1)}},
		{"missing main", Record{Shape: ShapeNormal, Mode: ResistanceNormal, Range: Step1}},
		{"missing fast", Record{Shape: ShapeNormal, Mode: VDCNormal, Range: Step1, Main: volts(1)}},
		{"unused aux1", Record{Shape: ShapeNormal, Mode: ResistanceNormal, Range: Step1, Main: volts(1), Aux1: volts(1)}},
		{"normal in relative mode", Record{Shape: ShapeNormal, Mode: ResistanceRel, Range: Step1, Main: volts(1)}},
		{"relative in normal mode", Record{Shape: ShapeRelative, Mode: ResistanceNormal, Range: Step1, Relative: volts(1), Reference: volts(1), Absolute: volts(2)}},
		{"relative without reference", Record{Shape: ShapeRelative, Mode: ResistanceRel, Range: Step1, Relative: volts(1), Absolute: volts(2)}},
		{"peak in normal mode", Record{Shape: ShapePeak, Mode: VDCNormal, Range: Step1, Max: volts(1), Min: volts(0)}},
		{"min/max in peak mode", Record{Shape: ShapeMinMax, Mode: VDCPeak, Range: Step1, Main: volts(1), Max: volts(1), Average: volts(1), Min: volts(1)}},
		{"min/max without average", Record{Shape: ShapeMinMax, Mode: VDCNormal, Range: Step1, Main: volts(1), Max: volts(1), Min: volts(1)}},
		{"peak with main", Record{Shape: ShapePeak, Mode: VDCPeak, Range: Step1, Main: volts(1), Max: volts(1), Min: volts(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.rec)
			assert.Nil(t, m)
			var de *DecodeError
			assert.ErrorAs(t, err, &de)
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestDecodeRejectsRangeOutsideFamily(t *testing.T) {
	_, err := Decode(Record{Shape: ShapeNormal, Mode: MilliVDCNormal, Range: Step3, Main: volts(1), Fast: volts(1)})
	assert.ErrorIs(t, err, ErrUnusedRangeStep)
}

func TestDecodeMinMax(t *testing.T) {
	m, err := Decode(Record{
		Shape: ShapeMinMax, Mode: ResistanceNormal, Range: Step2,
		Main:    &Value{Number: 1.5, Precision: 3, Unit: "kOhm"},
		Max:     &Value{Number: 2, Precision: 3, Unit: "kOhm"},
		MaxTime: 61 * time.Second,
		Average: &Value{Number: 1.7, Precision: 3, Unit: "kOhm"},
		Min:     &Value{Number: 1.2, Precision: 3, Unit: "kOhm"},
		MinTime: 3 * time.Second,
	})
	require.NoError(t, err)
	mm := m.(*MinMax)
	assert.Equal(t, 61*time.Second, mm.Max.Elapsed)
	assert.Zero(t, mm.Average.Elapsed)
	assert.Equal(t, 3*time.Second, mm.Min.Elapsed)
}

func TestEncodeRecordRoundTrip(t *testing.T) {
	in := []Measurement{
		&Normal{Header: Header{Mode: TempCT1T2, Range: Step1}, Main: Value{Number: 21.5, Precision: 1, Unit: "°C"}, Aux2: &Value{Number: 22, Precision: 1, Unit: "°C"}},
		&Relative{Header: Header{Mode: VDCNormalRel, Range: Step2, Hold: true}, Relative: *volts(0.5), Reference: *volts(12), Absolute: *volts(12.5), Fast: volts(12.5)},
		&MinMax{Header: Header{Mode: FrequencyNormal, Range: Step3}, Main: Value{Number: 50, Unit: "Hz"}, Max: TimedValue{Value{Number: 51, Unit: "Hz"}, time.Minute}},
		&Peak{Header: Header{Mode: AACPeak, Range: Step1}, Max: Value{Number: 3, Unit: "A"}, Min: Value{Number: -3, Unit: "A"}},
	}
	for _, m := range in {
		rec, err := EncodeRecord(m)
		require.NoError(t, err)

		b, err := json.Marshal(rec)
		require.NoError(t, err)
		var back Record
		require.NoError(t, json.Unmarshal(b, &back))

		out, err := Decode(back)
		require.NoError(t, err)
		assert.Equal(t, m, out)
	}
}

package ut181a

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNormal(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &Normal{
		Header: Header{Mode: VDCNormal, AutoRange: true, Range: Step1},
		Main:   Value{Number: 1.2345, Precision: 4, Unit: "V"},
		Fast:   &Value{Number: 1.23, Precision: 2, Unit: "V"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mode: VDC [] [AUTO]\n"+
		"Range: -6...6 V\n"+
		"1.2345 V\n"+
		"FAST: 1.23 V\n", out.String())
}

func TestDisplayNormalOnlyAux2(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &Normal{
		Header: Header{Mode: TempCT1T2, Hold: true, Range: Step1},
		Main:   Value{Number: 21.5, Precision: 1, Unit: "°C"},
		Aux2:   &Value{Number: 23.0, Precision: 1, Unit: "°C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mode: Temp C/T1,T2 [HOLD] []\n"+
		"Range: -\n"+
		"21.5 °C\n"+
		"AUX2: 23.0 °C\n", out.String())
	assert.Equal(t, 1, strings.Count(out.String(), "AUX"))
}

func TestDisplayRelative(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &Relative{
		Header:    Header{Mode: ResistanceRel, Range: Step2},
		Relative:  Value{Number: -0.1, Precision: 3, Unit: "kOhm"},
		Reference: Value{Number: 1, Precision: 3, Unit: "kOhm"},
		Absolute:  Value{Number: 0.9, Precision: 3, Unit: "kOhm"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mode: Resistance/Rel [] []\n"+
		"Range: 0...6 kOhm\n"+
		"REL: -0.100 kOhm\n"+
		"REFERENCE: 1.000 kOhm\n"+
		"MEASUREMENT: 0.900 kOhm\n", out.String())
}

func TestDisplayMinMax(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &MinMax{
		Header:  Header{Mode: MilliAACNormal, Range: Step2},
		Main:    Value{Number: 100.5, Precision: 1, Unit: "mA"},
		Max:     TimedValue{Value{Number: 120, Precision: 1, Unit: "mA"}, 3661 * time.Second},
		Average: TimedValue{Value{Number: 101.2, Precision: 1, Unit: "mA"}, 59 * time.Second},
		Min:     TimedValue{Value{Number: 80, Precision: 1, Unit: "mA"}, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mode: mAAC [] []\n"+
		"Range: 0...600 mA\n"+
		"100.5 mA\n"+
		"MAXIMUM: 120.0 mA\t1:01:01\n"+
		"AVERAGE: 101.2 mA\t0:00:59\n"+
		"MINIMUM: 80.0 mA\t0:00:00\n", out.String())
}

func TestDisplayPeak(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &Peak{
		Header: Header{Mode: VACPeak, Range: Step3},
		Max:    Value{Number: 325, Precision: 1, Unit: "V"},
		Min:    Value{Number: -325, Precision: 1, Unit: "V", Overload: false},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mode: VAC/Peak [] []\n"+
		"Range: 0...600 V\n"+
		"PEAK MAX: 325.0 V\n"+
		"PEAK MIN: -325.0 V\n", out.String())
}

func TestDisplayUnusedRangeWritesNothing(t *testing.T) {
	var out bytes.Buffer
	err := Display(&out, &Normal{
		Header: Header{Mode: MilliVDCNormal, Range: Step5},
		Main:   Value{Number: 1, Unit: "mV"},
	})
	assert.ErrorIs(t, err, ErrUnusedRangeStep)
	assert.Zero(t, out.Len())
}

func TestDisplayOverload(t *testing.T) {
	assert.Equal(t, "OL MOhm", Value{Number: 99, Unit: "MOhm", Overload: true}.String())
}

func TestDisplaySaved(t *testing.T) {
	var out bytes.Buffer
	err := DisplaySaved(&out, SavedMeasurement{
		Timestamp: time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC),
		Measurement: &Peak{
			Header: Header{Mode: AACPeak, Range: Step1},
			Max:    Value{Number: 1, Precision: 3, Unit: "A"},
			Min:    Value{Number: -1, Precision: 3, Unit: "A"},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "2024-03-01 14:05:09\nMode: AAC/Peak [] []\n"))
}

func TestDisplayRecordInfoAndData(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, DisplayRecordInfo(&out, 2, RecordInfo{
		Name:        "bench",
		Unit:        "V",
		Interval:    time.Second,
		Duration:    90 * time.Minute,
		SampleCount: 3,
		Max:         Value{Number: 3, Precision: 1, Unit: "V"},
		Average:     Value{Number: 2, Precision: 1, Unit: "V"},
		Min:         Value{Number: 1, Precision: 1, Unit: "V"},
	}))
	assert.Equal(t, "RECORD #2:\n\tName: bench\n\tUnit: V\n\tInterval: 0:00:01\n\tDuration: 1:30:00\n"+
		"\tSample count: 3\n\tMaximum value: 3.0 V\n\tAverage value: 2.0 V\n\tMinimum value: 1.0 V\n", out.String())

	out.Reset()
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, DisplayRecordData(&out, []RecordSample{
		{Timestamp: start, Value: Value{Number: 1, Precision: 1, Unit: "V"}},
		{Timestamp: start.Add(time.Second), Value: Value{Number: 2, Precision: 1, Unit: "V"}},
	}))
	assert.Equal(t, "#000001 2024-03-01T14:00:00Z 1.0 V\n#000002 2024-03-01T14:00:01Z 2.0 V\nTotal sample count: 2\n", out.String())
}

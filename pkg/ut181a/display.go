package ut181a

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// Display writes m to w in the DMM's display layout. The range phrase is resolved
// before anything is written, an invalid range step leaves w untouched.
func Display(w io.Writer, m Measurement) error {
	var b bytes.Buffer
	if err := format(&b, m); err != nil {
		return err
	}
	_, err := b.WriteTo(w)
	return err
}

// DisplaySaved writes a saved measurement, preceded by its timestamp
func DisplaySaved(w io.Writer, s SavedMeasurement) error {
	var b bytes.Buffer
	fmt.Fprintln(&b, s.Timestamp.Format("2006-01-02 15:04:05"))
	if err := format(&b, s.Measurement); err != nil {
		return err
	}
	_, err := b.WriteTo(w)
	return err
}

func format(b *bytes.Buffer, m Measurement) error {
	h := HeaderOf(m)
	phrase, err := PhraseFor(h.Mode.Family(), h.Range)
	if err != nil {
		return err
	}

	hold, auto := "", ""
	if h.Hold {
		hold = "HOLD"
	}
	if h.AutoRange {
		auto = "AUTO"
	}
	fmt.Fprintf(b, "Mode: %v [%s] [%s]\n", h.Mode, hold, auto)
	fmt.Fprintf(b, "Range: %s\n", phrase)

	switch m := m.(type) {
	case *Normal:
		fmt.Fprintln(b, m.Main)
		printOptional(b, "AUX1", m.Aux1)
		printOptional(b, "AUX2", m.Aux2)
		printOptional(b, "FAST", m.Fast)
	case *Relative:
		fmt.Fprintf(b, "REL: %v\n", m.Relative)
		fmt.Fprintf(b, "REFERENCE: %v\n", m.Reference)
		fmt.Fprintf(b, "MEASUREMENT: %v\n", m.Absolute)
		printOptional(b, "FAST", m.Fast)
	case *MinMax:
		fmt.Fprintln(b, m.Main)
		fmt.Fprintf(b, "MAXIMUM: %v\t%s\n", m.Max.Value, FormatDuration(m.Max.Elapsed))
		fmt.Fprintf(b, "AVERAGE: %v\t%s\n", m.Average.Value, FormatDuration(m.Average.Elapsed))
		fmt.Fprintf(b, "MINIMUM: %v\t%s\n", m.Min.Value, FormatDuration(m.Min.Elapsed))
	case *Peak:
		fmt.Fprintf(b, "PEAK MAX: %v\n", m.Max)
		fmt.Fprintf(b, "PEAK MIN: %v\n", m.Min)
	}
	return nil
}

func printOptional(b *bytes.Buffer, label string, v *Value) {
	if v != nil {
		fmt.Fprintf(b, "%s: %v\n", label, *v)
	}
}

// DisplayRecordInfo writes the metadata block of record #index
func DisplayRecordInfo(w io.Writer, index uint16, info RecordInfo) error {
	_, err := fmt.Fprintf(w, "RECORD #%d:\n"+
		"\tName: %s\n"+
		"\tUnit: %s\n"+
		"\tInterval: %s\n"+
		"\tDuration: %s\n"+
		"\tSample count: %d\n"+
		"\tMaximum value: %v\n"+
		"\tAverage value: %v\n"+
		"\tMinimum value: %v\n",
		index, info.Name, info.Unit,
		FormatDuration(info.Interval), FormatDuration(info.Duration),
		info.SampleCount, info.Max, info.Average, info.Min)
	return err
}

// DisplayRecordData writes one line per sample followed by the sample count
func DisplayRecordData(w io.Writer, samples []RecordSample) error {
	for i, s := range samples {
		if _, err := fmt.Fprintf(w, "#%06d %s %v\n", i+1, s.Timestamp.Format(time.RFC3339), s.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total sample count: %d\n", len(samples))
	return err
}

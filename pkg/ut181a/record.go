package ut181a

import (
	"fmt"
	"time"
)

// Shape tags the layout of a device record
type Shape string

const (
	ShapeNormal   Shape = "normal"
	ShapeRelative Shape = "relative"
	ShapeMinMax   Shape = "minmax"
	ShapePeak     Shape = "peak"
)

// Record is a reading as delivered by the transport: header fields plus the
// numeric slots of its shape. It is not validated, use Decode to get a Measurement.
type Record struct {
	Shape     Shape     `json:"shape"`
	Mode      Mode      `json:"mode"`
	Hold      bool      `json:"hold,omitempty"`
	AutoRange bool      `json:"auto_range,omitempty"`
	Range     RangeStep `json:"range"`

	Main *Value `json:"main,omitempty"`
	Aux1 *Value `json:"aux1,omitempty"`
	Aux2 *Value `json:"aux2,omitempty"`
	Fast *Value `json:"fast,omitempty"`

	Relative  *Value `json:"relative,omitempty"`
	Reference *Value `json:"reference,omitempty"`
	Absolute  *Value `json:"absolute,omitempty"`

	Max         *Value        `json:"max,omitempty"`
	MaxTime     time.Duration `json:"max_time,omitempty"`
	Average     *Value        `json:"average,omitempty"`
	AverageTime time.Duration `json:"average_time,omitempty"`
	Min         *Value        `json:"min,omitempty"`
	MinTime     time.Duration `json:"min_time,omitempty"`
}

// Decode builds the Measurement described by rec. Unknown shapes, shapes not
// used by the record's mode, missing slots and slots the mode does not carry
// are rejected with a *DecodeError, a range outside the mode's family with a *RangeError.
func Decode(rec Record) (Measurement, error) {
	if !rec.Mode.Valid() {
		return nil, decodeErrorf("unknown mode %d", uint16(rec.Mode))
	}
	if _, err := PhraseFor(rec.Mode.Family(), rec.Range); err != nil {
		return nil, err
	}

	h := Header{Mode: rec.Mode, Hold: rec.Hold, AutoRange: rec.AutoRange, Range: rec.Range}
	layout := rec.Mode.Layout()

	switch rec.Shape {
	case ShapeNormal:
		if rec.Mode.IsPeak() || rec.Mode.IsRelative() {
			return nil, decodeErrorf("normal reading in %v mode", rec.Mode)
		}
		if err := rec.require("main", rec.Main); err != nil {
			return nil, err
		}
		if err := rec.only(ShapeNormal, "relative", rec.Relative, "reference", rec.Reference, "absolute", rec.Absolute, "max", rec.Max, "average", rec.Average, "min", rec.Min); err != nil {
			return nil, err
		}
		m := &Normal{Header: h, Main: *rec.Main}
		var err error
		if m.Aux1, err = rec.slot("aux1", rec.Aux1, layout&HasAux1 != 0); err != nil {
			return nil, err
		}
		if m.Aux2, err = rec.slot("aux2", rec.Aux2, layout&HasAux2 != 0); err != nil {
			return nil, err
		}
		if m.Fast, err = rec.slot("fast", rec.Fast, layout&HasFast != 0); err != nil {
			return nil, err
		}
		return m, nil

	case ShapeRelative:
		if !rec.Mode.IsRelative() {
			return nil, decodeErrorf("relative reading in %v mode", rec.Mode)
		}
		for _, s := range []struct {
			name string
			v    *Value
		}{{"relative", rec.Relative}, {"reference", rec.Reference}, {"absolute", rec.Absolute}} {
			if err := rec.require(s.name, s.v); err != nil {
				return nil, err
			}
		}
		if err := rec.only(ShapeRelative, "main", rec.Main, "aux1", rec.Aux1, "aux2", rec.Aux2, "max", rec.Max, "average", rec.Average, "min", rec.Min); err != nil {
			return nil, err
		}
		m := &Relative{Header: h, Relative: *rec.Relative, Reference: *rec.Reference, Absolute: *rec.Absolute}
		var err error
		if m.Fast, err = rec.slot("fast", rec.Fast, layout&HasFast != 0); err != nil {
			return nil, err
		}
		return m, nil

	case ShapeMinMax:
		if rec.Mode.IsPeak() {
			return nil, decodeErrorf("min/max reading in %v mode", rec.Mode)
		}
		for _, s := range []struct {
			name string
			v    *Value
		}{{"main", rec.Main}, {"max", rec.Max}, {"average", rec.Average}, {"min", rec.Min}} {
			if err := rec.require(s.name, s.v); err != nil {
				return nil, err
			}
		}
		if err := rec.only(ShapeMinMax, "aux1", rec.Aux1, "aux2", rec.Aux2, "fast", rec.Fast, "relative", rec.Relative, "reference", rec.Reference, "absolute", rec.Absolute); err != nil {
			return nil, err
		}
		if rec.MaxTime < 0 || rec.AverageTime < 0 || rec.MinTime < 0 {
			return nil, decodeErrorf("negative min/max elapsed time")
		}
		return &MinMax{
			Header:  h,
			Main:    *rec.Main,
			Max:     TimedValue{*rec.Max, rec.MaxTime},
			Average: TimedValue{*rec.Average, rec.AverageTime},
			Min:     TimedValue{*rec.Min, rec.MinTime},
		}, nil

	case ShapePeak:
		if !rec.Mode.IsPeak() {
			return nil, decodeErrorf("peak reading in %v mode", rec.Mode)
		}
		if err := rec.require("max", rec.Max); err != nil {
			return nil, err
		}
		if err := rec.require("min", rec.Min); err != nil {
			return nil, err
		}
		if err := rec.only(ShapePeak, "main", rec.Main, "aux1", rec.Aux1, "aux2", rec.Aux2, "fast", rec.Fast, "relative", rec.Relative, "reference", rec.Reference, "absolute", rec.Absolute, "average", rec.Average); err != nil {
			return nil, err
		}
		return &Peak{Header: h, Max: *rec.Max, Min: *rec.Min}, nil
	}

	return nil, decodeErrorf("unknown record shape %q", rec.Shape)
}

func (rec *Record) require(name string, v *Value) error {
	if v == nil {
		return decodeErrorf("%s reading without %s value", rec.Shape, name)
	}
	return nil
}

// slot checks an optional value against the mode's layout
func (rec *Record) slot(name string, v *Value, used bool) (*Value, error) {
	switch {
	case used && v == nil:
		return nil, decodeErrorf("%v reading without %s value", rec.Mode, name)
	case !used && v != nil:
		return nil, decodeErrorf("%v reading has no %s value", rec.Mode, name)
	case v == nil:
		return nil, nil
	}
	return optional(*v), nil
}

// only fails if any of the given name/value pairs is set, they do not belong to shape s
func (rec *Record) only(s Shape, pairs ...interface{}) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if v, _ := pairs[i+1].(*Value); v != nil {
			return decodeErrorf("%s reading has a %v value", s, pairs[i])
		}
	}
	return nil
}

// EncodeRecord turns m back into its device record
func EncodeRecord(m Measurement) (Record, error) {
	h := HeaderOf(m)
	rec := Record{Mode: h.Mode, Hold: h.Hold, AutoRange: h.AutoRange, Range: h.Range}

	switch m := m.(type) {
	case *Normal:
		rec.Shape = ShapeNormal
		rec.Main = optional(m.Main)
		rec.Aux1, rec.Aux2, rec.Fast = m.Aux1, m.Aux2, m.Fast
	case *Relative:
		rec.Shape = ShapeRelative
		rec.Relative = optional(m.Relative)
		rec.Reference = optional(m.Reference)
		rec.Absolute = optional(m.Absolute)
		rec.Fast = m.Fast
	case *MinMax:
		rec.Shape = ShapeMinMax
		rec.Main = optional(m.Main)
		rec.Max, rec.MaxTime = optional(m.Max.Value), m.Max.Elapsed
		rec.Average, rec.AverageTime = optional(m.Average.Value), m.Average.Elapsed
		rec.Min, rec.MinTime = optional(m.Min.Value), m.Min.Elapsed
	case *Peak:
		rec.Shape = ShapePeak
		rec.Max = optional(m.Max)
		rec.Min = optional(m.Min)
	default:
		return Record{}, fmt.Errorf("can not encode measurement of type %T", m)
	}
	return rec, nil
}

package ut181a

import (
	"strconv"
	"time"
)

// Value is a single reading as shown on the DMM display
type Value struct {
	Number    float32 `json:"value"`
	Precision uint8   `json:"precision"`
	Unit      string  `json:"unit"`
	Overload  bool    `json:"overload,omitempty"`
}

func (v Value) String() string {
	if v.Overload {
		return "OL " + v.Unit
	}
	s := strconv.FormatFloat(float64(v.Number), 'f', int(v.Precision), 32)
	if v.Unit == "" {
		return s
	}
	return s + " " + v.Unit
}

// TimedValue is a Min/Max reading together with the time elapsed since min/max mode started
type TimedValue struct {
	Value
	Elapsed time.Duration `json:"elapsed"`
}

// optional returns a copy of v as an optional value
func optional(v Value) *Value {
	return &v
}

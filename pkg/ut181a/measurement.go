package ut181a

// Header holds the fields common to every measurement shape
type Header struct {
	Mode      Mode
	Hold      bool
	AutoRange bool
	Range     RangeStep
}

// Measurement is one decoded reading. It is one of *Normal, *Relative, *MinMax or *Peak.
// Measurements are built once per read and never modified afterwards.
type Measurement interface {
	header() Header
}

// HeaderOf returns the common fields of m
func HeaderOf(m Measurement) Header {
	return m.header()
}

// Normal is a plain reading with optional secondary displays
type Normal struct {
	Header
	Main Value
	Aux1 *Value
	Aux2 *Value
	Fast *Value
}

// Relative is a reading relative to a stored reference value
type Relative struct {
	Header
	Relative  Value
	Reference Value
	Absolute  Value
	Fast      *Value
}

// MinMax is a reading with recorded extremes and average
type MinMax struct {
	Header
	Main    Value
	Max     TimedValue
	Average TimedValue
	Min     TimedValue
}

// Peak is a peak-hold reading
type Peak struct {
	Header
	Max Value
	Min Value
}

func (m *Normal) header() Header   { return m.Header }
func (m *Relative) header() Header { return m.Header }
func (m *MinMax) header() Header   { return m.Header }
func (m *Peak) header() Header     { return m.Header }

package ut181a

// Family groups modes sharing a unit system and a set of legal range steps
type Family byte

const (
	MilliVoltDC Family = iota + 1
	MilliVoltAC
	VoltDC
	VoltAC
	TemperatureC
	TemperatureF
	Resistance
	Admittance
	Diode
	Capacitance
	Frequency
	MicroAmpDC
	MicroAmpAC
	MilliAmpDC
	MilliAmpAC
	AmpDC
	AmpAC

	numFamilies = iota + 1
)

type familyInfo struct {
	name string
	unit string
	// phrases[i] is the display phrase of Step(i+1), only listed steps are legal
	phrases []string
}

var familyTable = [numFamilies]familyInfo{
	MilliVoltDC:  {"mVDC", "mV", []string{"-60...60 mV", "-600...600 mV"}},
	MilliVoltAC:  {"mVAC", "mV", []string{"0...60 mV", "0...600 mV"}},
	VoltDC:       {"VDC", "V", []string{"-6...6 V", "-60...60 V", "-600...600 V", "-1000...1000 V"}},
	VoltAC:       {"VAC", "V", []string{"0...6 V", "0...60 V", "0...600 V", "0...1000 V"}},
	TemperatureC: {"Temp C", "°C", []string{"-"}},
	TemperatureF: {"Temp F", "°F", []string{"-"}},
	Resistance: {"Resistance", "Ohm", []string{
		"0...600 Ohm", "0...6 kOhm", "0...60 kOhm", "0...600 kOhm", "0...6 MOhm", "0...60 MOhm",
	}},
	Admittance: {"Admittance", "nS", []string{"0...60 nS"}},
	Diode:      {"Diode", "V", []string{"0...3 V"}},
	Capacitance: {"Capacitance", "F", []string{
		"0...6 nF", "0...60 nF", "0...600 nF", "0...6 uF", "0...60 uF", "0...600 uF", "0...6 mF", "0...60 mF",
	}},
	Frequency: {"Frequency", "Hz", []string{
		"0...60 Hz", "0...600 Hz", "0...6 kHz", "0...60 kHz", "0...600 kHz", "0...6 MHz", "0...60 MHz",
	}},
	MicroAmpDC: {"uADC", "uA", []string{"-600...600 uA", "-6000...6000 uA"}},
	MicroAmpAC: {"uAAC", "uA", []string{"0...600 uA", "0...6000 uA"}},
	MilliAmpDC: {"mADC", "mA", []string{"-60...60 mA", "-600...600 mA"}},
	MilliAmpAC: {"mAAC", "mA", []string{"0...60 mA", "0...600 mA"}},
	AmpDC:      {"ADC", "A", []string{"-20...20 A"}},
	AmpAC:      {"AAC", "A", []string{"0...20 A"}},
}

// Families returns all families in declaration order
func Families() []Family {
	fs := make([]Family, 0, numFamilies-1)
	for f := Family(1); f < numFamilies; f++ {
		fs = append(fs, f)
	}
	return fs
}

func (f Family) valid() bool {
	return f > 0 && f < numFamilies
}

func (f Family) String() string {
	if !f.valid() {
		return "Family(invalid)"
	}
	return familyTable[f].name
}

// Unit returns the base unit of the family's main reading
func (f Family) Unit() string {
	if !f.valid() {
		return ""
	}
	return familyTable[f].unit
}

// Steps returns the range steps the family uses, in ascending order
func (f Family) Steps() []RangeStep {
	if !f.valid() {
		return nil
	}
	steps := make([]RangeStep, len(familyTable[f].phrases))
	for i := range steps {
		steps[i] = Step1 + RangeStep(i)
	}
	return steps
}

// PhraseFor returns the display phrase of step within family f.
// Pairs outside the family's table fail with a *RangeError, never with a placeholder phrase.
func PhraseFor(f Family, step RangeStep) (string, error) {
	if !f.valid() || step < Step1 || int(step-Step1) >= len(familyTable[f].phrases) {
		return "", &RangeError{Family: f, Step: step}
	}
	return familyTable[f].phrases[step-Step1], nil
}

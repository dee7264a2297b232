package ut181a

import (
	"fmt"
	"strings"
)

// Mode is a measuring mode of the DMM, a pair of measured quantity and behavior
type Mode uint16

const (
	VACNormal Mode = iota + 1
	VACNormalRel
	VACHz
	VACPeak
	VACLowPass
	VACLowPassRel
	VACdBV
	VACdBVRel
	VACdBm
	VACdBmRel

	MilliVACNormal
	MilliVACNormalRel
	MilliVACHz
	MilliVACPeak
	MilliVACACDC
	MilliVACACDCRel

	VDCNormal
	VDCNormalRel
	VDCACDC
	VDCACDCRel
	VDCPeak

	MilliVDCNormal
	MilliVDCNormalRel
	MilliVDCPeak

	TempCT1T2
	TempCT1T2Rel
	TempCT2T1
	TempCT2T1Rel
	TempCT1T2Diff
	TempCT2T1Diff

	TempFT1T2
	TempFT1T2Rel
	TempFT2T1
	TempFT2T1Rel
	TempFT1T2Diff
	TempFT2T1Diff

	ResistanceNormal
	ResistanceRel
	BeeperShort
	BeeperOpen
	AdmittanceNormal
	AdmittanceRel
	DiodeNormal
	DiodeAlarm
	CapacitanceNormal
	CapacitanceRel
	FrequencyNormal
	FrequencyRel
	DutyCycle
	DutyCycleRel
	PulseWidth
	PulseWidthRel

	MicroADCNormal
	MicroADCNormalRel
	MicroADCACDC
	MicroADCACDCRel
	MicroADCPeak

	MilliADCNormal
	MilliADCNormalRel
	MilliADCACDC
	MilliADCACDCRel
	MilliADCPeak

	ADCNormal
	ADCNormalRel
	ADCACDC
	ADCACDCRel
	ADCPeak

	MicroAACNormal
	MicroAACNormalRel
	MicroAACHz
	MicroAACPeak

	MilliAACNormal
	MilliAACNormalRel
	MilliAACHz
	MilliAACPeak

	AACNormal
	AACNormalRel
	AACHz
	AACPeak

	numModes = iota + 1
)

// Behavior is the measuring behavior of a mode, independent of the measured quantity
type Behavior byte

const (
	BehaviorNormal Behavior = 1 << iota
	BehaviorRelative
	BehaviorPeak
	BehaviorHz
	BehaviorACDC
	BehaviorLowPass
	BehaviorDB
)

// Layout tells which optional values a Normal or Relative reading of a mode carries
type Layout byte

const (
	HasAux1 Layout = 1 << iota
	HasAux2
	HasFast
)

type modeInfo struct {
	token    string
	name     string
	family   Family
	behavior Behavior
	layout   Layout
}

const (
	normal = BehaviorNormal
	rel    = BehaviorRelative
	peak   = BehaviorPeak
	hz     = BehaviorHz
	acdc   = BehaviorACDC
	lp     = BehaviorLowPass
	db     = BehaviorDB

	aux1 = HasAux1
	aux2 = HasAux2
	fast = HasFast
)

// modeTable is indexed by Mode. An entry with a zero family is an unmapped mode.
var modeTable = [numModes]modeInfo{
	VACNormal:     {"vac", "VAC", VoltAC, normal, fast},
	VACNormalRel:  {"vac-rel", "VAC/Rel", VoltAC, rel, fast},
	VACHz:         {"vac-hz", "VAC/Hz", VoltAC, hz, aux1},
	VACPeak:       {"vac-peak", "VAC/Peak", VoltAC, peak, 0},
	VACLowPass:    {"vac-lowpass", "VAC/LowPass", VoltAC, lp, fast},
	VACLowPassRel: {"vac-lowpass-rel", "VAC/LowPass/Rel", VoltAC, lp | rel, fast},
	VACdBV:        {"vac-dbv", "VAC/dBV", VoltAC, db, aux1},
	VACdBVRel:     {"vac-dbv-rel", "VAC/dBV/Rel", VoltAC, db | rel, 0},
	VACdBm:        {"vac-dbm", "VAC/dBm", VoltAC, db, aux1},
	VACdBmRel:     {"vac-dbm-rel", "VAC/dBm/Rel", VoltAC, db | rel, 0},

	MilliVACNormal:    {"mvac", "mVAC", MilliVoltAC, normal, fast},
	MilliVACNormalRel: {"mvac-rel", "mVAC/Rel", MilliVoltAC, rel, fast},
	MilliVACHz:        {"mvac-hz", "mVAC/Hz", MilliVoltAC, hz, aux1},
	MilliVACPeak:      {"mvac-peak", "mVAC/Peak", MilliVoltAC, peak, 0},
	MilliVACACDC:      {"mvac-acdc", "mVAC/AC+DC", MilliVoltAC, acdc, aux1 | aux2},
	MilliVACACDCRel:   {"mvac-acdc-rel", "mVAC/AC+DC/Rel", MilliVoltAC, acdc | rel, 0},

	VDCNormal:    {"vdc", "VDC", VoltDC, normal, fast},
	VDCNormalRel: {"vdc-rel", "VDC/Rel", VoltDC, rel, fast},
	VDCACDC:      {"vdc-acdc", "VDC/AC+DC", VoltDC, acdc, aux1 | aux2},
	VDCACDCRel:   {"vdc-acdc-rel", "VDC/AC+DC/Rel", VoltDC, acdc | rel, 0},
	VDCPeak:      {"vdc-peak", "VDC/Peak", VoltDC, peak, 0},

	MilliVDCNormal:    {"mvdc", "mVDC", MilliVoltDC, normal, fast},
	MilliVDCNormalRel: {"mvdc-rel", "mVDC/Rel", MilliVoltDC, rel, fast},
	MilliVDCPeak:      {"mvdc-peak", "mVDC/Peak", MilliVoltDC, peak, 0},

	TempCT1T2:     {"temp-c-t1t2", "Temp C/T1,T2", TemperatureC, normal, aux2},
	TempCT1T2Rel:  {"temp-c-t1t2-rel", "Temp C/T1,T2/Rel", TemperatureC, rel, 0},
	TempCT2T1:     {"temp-c-t2t1", "Temp C/T2,T1", TemperatureC, normal, aux2},
	TempCT2T1Rel:  {"temp-c-t2t1-rel", "Temp C/T2,T1/Rel", TemperatureC, rel, 0},
	TempCT1T2Diff: {"temp-c-t1t2-diff", "Temp C/T1-T2", TemperatureC, normal, aux1 | aux2},
	TempCT2T1Diff: {"temp-c-t2t1-diff", "Temp C/T2-T1", TemperatureC, normal, aux1 | aux2},

	TempFT1T2:     {"temp-f-t1t2", "Temp F/T1,T2", TemperatureF, normal, aux2},
	TempFT1T2Rel:  {"temp-f-t1t2-rel", "Temp F/T1,T2/Rel", TemperatureF, rel, 0},
	TempFT2T1:     {"temp-f-t2t1", "Temp F/T2,T1", TemperatureF, normal, aux2},
	TempFT2T1Rel:  {"temp-f-t2t1-rel", "Temp F/T2,T1/Rel", TemperatureF, rel, 0},
	TempFT1T2Diff: {"temp-f-t1t2-diff", "Temp F/T1-T2", TemperatureF, normal, aux1 | aux2},
	TempFT2T1Diff: {"temp-f-t2t1-diff", "Temp F/T2-T1", TemperatureF, normal, aux1 | aux2},

	ResistanceNormal:  {"res", "Resistance", Resistance, normal, 0},
	ResistanceRel:     {"res-rel", "Resistance/Rel", Resistance, rel, 0},
	BeeperShort:       {"beeper-short", "Beeper/Short", Resistance, normal, 0},
	BeeperOpen:        {"beeper-open", "Beeper/Open", Resistance, normal, 0},
	AdmittanceNormal:  {"adm", "Admittance", Admittance, normal, 0},
	AdmittanceRel:     {"adm-rel", "Admittance/Rel", Admittance, rel, 0},
	DiodeNormal:       {"diode", "Diode", Diode, normal, 0},
	DiodeAlarm:        {"diode-alarm", "Diode/Alarm", Diode, normal, 0},
	CapacitanceNormal: {"cap", "Capacitance", Capacitance, normal, 0},
	CapacitanceRel:    {"cap-rel", "Capacitance/Rel", Capacitance, rel, 0},
	FrequencyNormal:   {"freq", "Frequency", Frequency, normal, 0},
	FrequencyRel:      {"freq-rel", "Frequency/Rel", Frequency, rel, 0},
	DutyCycle:         {"duty", "Duty cycle", Frequency, normal, aux1},
	DutyCycleRel:      {"duty-rel", "Duty cycle/Rel", Frequency, rel, 0},
	PulseWidth:        {"pulse", "Pulse width", Frequency, normal, aux1},
	PulseWidthRel:     {"pulse-rel", "Pulse/Rel", Frequency, rel, 0},

	MicroADCNormal:    {"uadc", "uADC", MicroAmpDC, normal, fast},
	MicroADCNormalRel: {"uadc-rel", "uADC/Rel", MicroAmpDC, rel, fast},
	MicroADCACDC:      {"uadc-acdc", "uADC/AC+DC", MicroAmpDC, acdc, aux1 | aux2},
	MicroADCACDCRel:   {"uadc-acdc-rel", "uADC/AC+DC/Rel", MicroAmpDC, acdc | rel, 0},
	MicroADCPeak:      {"uadc-peak", "uADC/Peak", MicroAmpDC, peak, 0},

	MilliADCNormal:    {"madc", "mADC", MilliAmpDC, normal, fast},
	MilliADCNormalRel: {"madc-rel", "mADC/Rel", MilliAmpDC, rel, fast},
	MilliADCACDC:      {"madc-acdc", "mADC/AC+DC", MilliAmpDC, acdc, aux1 | aux2},
	MilliADCACDCRel:   {"madc-acdc-rel", "mADC/AC+DC/Rel", MilliAmpDC, acdc | rel, 0},
	MilliADCPeak:      {"madc-peak", "mADC/Peak", MilliAmpDC, peak, 0},

	ADCNormal:    {"adc", "ADC", AmpDC, normal, fast},
	ADCNormalRel: {"adc-rel", "ADC/Rel", AmpDC, rel, fast},
	ADCACDC:      {"adc-acdc", "ADC/AC+DC", AmpDC, acdc, aux1 | aux2},
	ADCACDCRel:   {"adc-acdc-rel", "ADC/AC+DC/Rel", AmpDC, acdc | rel, 0},
	ADCPeak:      {"adc-peak", "ADC/Peak", AmpDC, peak, 0},

	MicroAACNormal:    {"uaac", "uAAC", MicroAmpAC, normal, fast},
	MicroAACNormalRel: {"uaac-rel", "uAAC/Rel", MicroAmpAC, rel, fast},
	MicroAACHz:        {"uaac-hz", "uAAC/Hz", MicroAmpAC, hz, aux1},
	MicroAACPeak:      {"uaac-peak", "uAAC/Peak", MicroAmpAC, peak, 0},

	MilliAACNormal:    {"maac", "mAAC", MilliAmpAC, normal, fast},
	MilliAACNormalRel: {"maac-rel", "mAAC/Rel", MilliAmpAC, rel, fast},
	MilliAACHz:        {"maac-hz", "mAAC/Hz", MilliAmpAC, hz, aux1},
	MilliAACPeak:      {"maac-peak", "mAAC/Peak", MilliAmpAC, peak, 0},

	AACNormal:    {"aac", "AAC", AmpAC, normal, fast},
	AACNormalRel: {"aac-rel", "AAC/Rel", AmpAC, rel, fast},
	AACHz:        {"aac-hz", "AAC/Hz", AmpAC, hz, aux1},
	AACPeak:      {"aac-peak", "AAC/Peak", AmpAC, peak, 0},
}

var modesByToken = func() map[string]Mode {
	m := make(map[string]Mode, numModes)
	for i := Mode(1); i < numModes; i++ {
		m[modeTable[i].token] = i
	}
	return m
}()

// Modes returns all modes in CLI order
func Modes() []Mode {
	ms := make([]Mode, 0, numModes-1)
	for m := Mode(1); m < numModes; m++ {
		ms = append(ms, m)
	}
	return ms
}

// Valid reports whether m is one of the declared modes
func (m Mode) Valid() bool {
	return m > 0 && m < numModes
}

func (m Mode) info() modeInfo {
	if !m.Valid() {
		return modeInfo{}
	}
	return modeTable[m]
}

// FamilyOf returns the family of m, a zero Family for an undeclared mode
func FamilyOf(m Mode) Family {
	return m.info().family
}

// Family is a shorthand for FamilyOf(m)
func (m Mode) Family() Family {
	return FamilyOf(m)
}

// Behavior returns the behavior flags of m
func (m Mode) Behavior() Behavior {
	return m.info().behavior
}

// Layout returns which optional readings m carries
func (m Mode) Layout() Layout {
	return m.info().layout
}

// IsRelative reports whether m shows relative readings
func (m Mode) IsRelative() bool {
	return m.Behavior()&BehaviorRelative != 0
}

// IsPeak reports whether m shows peak readings
func (m Mode) IsPeak() bool {
	return m.Behavior()&BehaviorPeak != 0
}

// Token returns the CLI token of m, e.g. "vdc-rel"
func (m Mode) Token() string {
	return m.info().token
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint16(m))
	}
	return modeTable[m].name
}

// ParseMode looks a mode up by its CLI token
func ParseMode(token string) (Mode, error) {
	m, ok := modesByToken[strings.ToLower(token)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, token)
	}
	return m, nil
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("can not marshal %v", m)
	}
	return []byte(m.Token()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

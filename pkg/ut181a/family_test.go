package ut181a

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseForDeclaredSteps(t *testing.T) {
	for _, f := range Families() {
		declared := map[RangeStep]bool{}
		for _, s := range f.Steps() {
			declared[s] = true
		}
		require.NotEmpty(t, declared, f.String())

		for _, s := range RangeSteps {
			phrase, err := PhraseFor(f, s)
			if declared[s] {
				assert.NoError(t, err, "%v %v", f, s)
				assert.NotEmpty(t, phrase, "%v %v", f, s)
				continue
			}
			assert.Empty(t, phrase, "%v %v", f, s)
			assert.ErrorIs(t, err, ErrUnusedRangeStep, "%v %v", f, s)
			assert.ErrorIs(t, err, ErrProtocol)

			var re *RangeError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, f, re.Family)
			assert.Equal(t, s, re.Step)
		}
	}
}

func TestFamilyStepCounts(t *testing.T) {
	tests := map[Family]int{
		MilliVoltDC:  2,
		MilliVoltAC:  2,
		VoltDC:       4,
		VoltAC:       4,
		TemperatureC: 1,
		TemperatureF: 1,
		Resistance:   6,
		Admittance:   1,
		Diode:        1,
		Capacitance:  8,
		Frequency:    7,
		MicroAmpDC:   2,
		MicroAmpAC:   2,
		MilliAmpDC:   2,
		MilliAmpAC:   2,
		AmpDC:        1,
		AmpAC:        1,
	}
	require.Len(t, Families(), len(tests))
	for f, n := range tests {
		assert.Len(t, f.Steps(), n, f.String())
	}
}

func TestPhraseForExamples(t *testing.T) {
	tests := []struct {
		family Family
		step   RangeStep
		phrase string
	}{
		{MilliVoltDC, Step2, "-600...600 mV"},
		{VoltAC, Step4, "0...1000 V"},
		{Resistance, Step6, "0...60 MOhm"},
		{Capacitance, Step8, "0...60 mF"},
		{Frequency, Step3, "0...6 kHz"},
		{TemperatureF, Step1, "-"},
		{AmpDC, Step1, "-20...20 A"},
	}
	for _, tt := range tests {
		phrase, err := PhraseFor(tt.family, tt.step)
		require.NoError(t, err)
		assert.Equal(t, tt.phrase, phrase)
	}
}

func TestPhraseForRejectsAutoAndUnknownFamily(t *testing.T) {
	_, err := PhraseFor(VoltDC, Auto)
	assert.ErrorIs(t, err, ErrUnusedRangeStep)

	_, err = PhraseFor(Family(0), Step1)
	assert.ErrorIs(t, err, ErrUnusedRangeStep)

	_, err = PhraseFor(MilliVoltDC, Step3)
	assert.EqualError(t, err, "unused range step 3 for mVDC range")
}

func TestRangeStepTokens(t *testing.T) {
	for _, r := range RangeSteps {
		parsed, err := ParseRangeStep(r.Token())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	assert.Equal(t, "auto", Auto.Token())
	assert.Equal(t, "step7", Step7.Token())

	_, err := ParseRangeStep("step9")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

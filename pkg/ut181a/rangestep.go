package ut181a

import (
	"fmt"
	"strings"
)

// RangeStep is the measuring range selector. Its physical span depends on the Family.
type RangeStep byte

const (
	Auto RangeStep = iota
	Step1
	Step2
	Step3
	Step4
	Step5
	Step6
	Step7
	Step8
)

// RangeSteps lists all steps in CLI order
var RangeSteps = []RangeStep{Auto, Step1, Step2, Step3, Step4, Step5, Step6, Step7, Step8}

// Token returns the CLI token (auto, step1 ... step8)
func (r RangeStep) Token() string {
	if r == Auto {
		return "auto"
	}
	return fmt.Sprintf("step%d", r)
}

func (r RangeStep) String() string {
	switch {
	case r == Auto:
		return "AUTO"
	case r <= Step8:
		return fmt.Sprintf("%d", r)
	}
	return fmt.Sprintf("RangeStep(%d)", byte(r))
}

// ParseRangeStep is the inverse of Token
func ParseRangeStep(s string) (RangeStep, error) {
	for _, r := range RangeSteps {
		if strings.EqualFold(s, r.Token()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown range step %q", ErrInvalidInput, s)
}

func (r RangeStep) MarshalText() ([]byte, error) {
	if r > Step8 {
		return nil, fmt.Errorf("can not marshal %v", r)
	}
	return []byte(r.Token()), nil
}

func (r *RangeStep) UnmarshalText(b []byte) error {
	v, err := ParseRangeStep(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

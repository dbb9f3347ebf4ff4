package max11210

import (
	"fmt"
	"strings"
)

var (
	lineFreqNames    = []string{"60hz", "50hz"}
	inputRangeNames  = []string{"bipolar", "unipolar"}
	clockSourceNames = []string{"internal", "external"}
	formatNames      = []string{"twos-complement", "offset-binary"}
	convModeNames    = []string{"continuous", "single-cycle"}
	pinModeNames     = []string{"input", "output"}
)

func enumName(names []string, v byte) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%#x", v)
}

func parseEnum(names []string, kind, text string) (byte, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for i, name := range names {
		if s == name {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q (expected one of %s)", ErrInvalidValue, kind, text, strings.Join(names, ", "))
}

func (v LineFreq) String() string    { return enumName(lineFreqNames, byte(v)) }
func (v InputRange) String() string  { return enumName(inputRangeNames, byte(v)) }
func (v ClockSource) String() string { return enumName(clockSourceNames, byte(v)) }
func (v Format) String() string      { return enumName(formatNames, byte(v)) }
func (v ConvMode) String() string    { return enumName(convModeNames, byte(v)) }
func (v PinMode) String() string     { return enumName(pinModeNames, byte(v)) }

func (g Gain) String() string {
	if g > maxGain {
		return fmt.Sprintf("code%d", byte(g))
	}
	return fmt.Sprintf("x%d", g.Factor())
}

func (v LineFreq) MarshalText() ([]byte, error)    { return []byte(v.String()), nil }
func (v InputRange) MarshalText() ([]byte, error)  { return []byte(v.String()), nil }
func (v ClockSource) MarshalText() ([]byte, error) { return []byte(v.String()), nil }
func (v Format) MarshalText() ([]byte, error)      { return []byte(v.String()), nil }
func (v ConvMode) MarshalText() ([]byte, error)    { return []byte(v.String()), nil }
func (v PinMode) MarshalText() ([]byte, error)     { return []byte(v.String()), nil }
func (r Rate) MarshalText() ([]byte, error)        { return []byte(r.String()), nil }
func (g Gain) MarshalText() ([]byte, error)        { return []byte(g.String()), nil }

func (v *LineFreq) UnmarshalText(text []byte) error {
	b, err := parseEnum(lineFreqNames, "line frequency", string(text))
	*v = LineFreq(b)
	return err
}

func (v *InputRange) UnmarshalText(text []byte) error {
	b, err := parseEnum(inputRangeNames, "input range", string(text))
	*v = InputRange(b)
	return err
}

func (v *ClockSource) UnmarshalText(text []byte) error {
	b, err := parseEnum(clockSourceNames, "clock source", string(text))
	*v = ClockSource(b)
	return err
}

func (v *Format) UnmarshalText(text []byte) error {
	b, err := parseEnum(formatNames, "format", string(text))
	*v = Format(b)
	return err
}

func (v *ConvMode) UnmarshalText(text []byte) error {
	b, err := parseEnum(convModeNames, "conversion mode", string(text))
	*v = ConvMode(b)
	return err
}

func (v *PinMode) UnmarshalText(text []byte) error {
	b, err := parseEnum(pinModeNames, "pin mode", string(text))
	*v = PinMode(b)
	return err
}

func (r *Rate) UnmarshalText(text []byte) error {
	b, err := parseEnum(rateNames[:], "rate", string(text))
	*r = Rate(b)
	return err
}

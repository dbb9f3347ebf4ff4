package max11210

import "fmt"

// Register is a 4-bit register address.
type Register byte

// Status & control registers
//
//	    name   B7     B6     B5     B4     B3     B2     B1     B0
//	0x0 STAT1  SYSOR  RATE2  RATE1  RATE0  OR     UR     MSTAT  RDY
//	0x1 CTRL1  LINEF  U/!B   EXTCLK REFBUF SIGBUF FORMAT SCYCLE -
//	0x2 CTRL2  DIR4   DIR3   DIR2   DIR1   DIO4   DIO3   DIO2   DIO1
//	0x3 CTRL3  DGAIN2 DGAIN1 DGAIN0 NOSYSG NOSYSO NOSCG  NOSCO  -
//
// Data & calibration registers (24 bit, MSB first)
//
//	0x4 DATA, 0x5 SOC, 0x6 SGC, 0x7 SCOC, 0x8 SCGC
const (
	STAT1 Register = 0x00
	CTRL1 Register = 0x01
	CTRL2 Register = 0x02
	CTRL3 Register = 0x03
	DATA  Register = 0x04
	SOC   Register = 0x05
	SGC   Register = 0x06
	SCOC  Register = 0x07
	SCGC  Register = 0x08
)

var registerNames = map[Register]string{
	STAT1: "STAT1",
	CTRL1: "CTRL1",
	CTRL2: "CTRL2",
	CTRL3: "CTRL3",
	DATA:  "DATA",
	SOC:   "SOC",
	SGC:   "SGC",
	SCOC:  "SCOC",
	SCGC:  "SCGC",
}

func (r Register) String() string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return fmt.Sprintf("REG%#x", byte(r))
}

// Wide reports whether the register holds a 24-bit value.
func (r Register) Wide() bool {
	return r >= DATA
}

// ParseRegister resolves a register name such as "SGC".
func ParseRegister(name string) (Register, error) {
	for r, n := range registerNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("max11210: unknown register %q", name)
}

// command byte
//
//	START=1 MODE=0 CAL1 CAL0 IMPD RATE2 RATE1 RATE0
//	START=1 MODE=1 0    RS3  RS2  RS1   RS0   R/!W
const (
	frameStart byte = 0b10000000
	frameMode  byte = 0b01000000
	cmdCal1    byte = 0b00100000
	cmdCal0    byte = 0b00010000
	cmdImpd    byte = 0b00001000
	frameRead  byte = 0b00000001
)

// STAT1
const (
	statSysOR byte = 0b10000000
	statRate  byte = 0b01110000
	statOR    byte = 0b00001000
	statUR    byte = 0b00000100
	statMStat byte = 0b00000010
	statRdy   byte = 0b00000001
)

// CTRL1
const (
	ctrlLineF  byte = 0b10000000
	ctrlU      byte = 0b01000000
	ctrlExtClk byte = 0b00100000
	ctrlRefBuf byte = 0b00010000
	ctrlSigBuf byte = 0b00001000
	ctrlFormat byte = 0b00000100
	ctrlSCycle byte = 0b00000010
)

// CTRL2
const (
	gpioDirMask byte = 0xF0
	gpioDIOMask byte = 0x0F
)

// CTRL3
const (
	ctrlGain   byte = 0b11100000
	ctrlNoSysG byte = 0b00010000
	ctrlNoSysO byte = 0b00001000
	ctrlNoSCG  byte = 0b00000100
	ctrlNoSCO  byte = 0b00000010
)

// power-on configuration written by Begin
const (
	defaultCTRL1 byte = 0b11000000 // 50Hz, unipolar, internal clock, no buffers, 2's complement, continuous
	defaultCTRL2 byte = 0b11110101 // GPIO all outputs, 1 0 1 0
	defaultCTRL3 byte = 0b00011110 // gain 1, all calibration corrections disabled
)

// Rate is the 3-bit conversion rate code.
type Rate byte

const (
	Rate1   Rate = 0x00
	Rate2_5 Rate = 0x01
	Rate5   Rate = 0x02
	Rate10  Rate = 0x03
	Rate15  Rate = 0x04
	Rate30  Rate = 0x05
	Rate60  Rate = 0x06
	Rate120 Rate = 0x07
)

var rateNames = [...]string{"1sps", "2.5sps", "5sps", "10sps", "15sps", "30sps", "60sps", "120sps"}

func (r Rate) String() string {
	return rateNames[r&0x07]
}

// Gain is the 3-bit digital gain code.
type Gain byte

const (
	Gain1  Gain = 0x00
	Gain2  Gain = 0x01
	Gain4  Gain = 0x02
	Gain8  Gain = 0x03
	Gain16 Gain = 0x04
)

const maxGain = Gain16

// Factor returns the multiplication factor of the gain code.
func (g Gain) Factor() int {
	if g > maxGain {
		g = maxGain
	}
	return 1 << g
}

// GainFromFactor maps 1, 2, 4, 8 or 16 to a gain code.
func GainFromFactor(factor int) (Gain, error) {
	for g := Gain1; g <= maxGain; g++ {
		if g.Factor() == factor {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: gain factor %d", ErrInvalidValue, factor)
}

type LineFreq byte

const (
	LineFreq60Hz LineFreq = 0x00
	LineFreq50Hz LineFreq = 0x01
)

type InputRange byte

const (
	Bipolar  InputRange = 0x00
	Unipolar InputRange = 0x01
)

type ClockSource byte

const (
	InternalClock ClockSource = 0x00
	ExternalClock ClockSource = 0x01
)

type Format byte

const (
	TwosComplement Format = 0x00
	OffsetBinary   Format = 0x01
)

type ConvMode byte

const (
	Continuous  ConvMode = 0x00
	SingleCycle ConvMode = 0x01
)

type PinMode byte

const (
	Input  PinMode = 0x00
	Output PinMode = 0x01
)

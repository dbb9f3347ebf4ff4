package max11210

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagSetter func(d *Device, ctx context.Context, on bool) error

func enumSetter[T ~byte](set func(*Device, context.Context, T) error, on, off T) flagSetter {
	return func(d *Device, ctx context.Context, v bool) error {
		if v {
			return set(d, ctx, on)
		}
		return set(d, ctx, off)
	}
}

var singleBitFields = []struct {
	name string
	reg  Register
	mask byte
	set  flagSetter
}{
	{"line frequency", CTRL1, 0b10000000, enumSetter((*Device).SetLineFreq, LineFreq50Hz, LineFreq60Hz)},
	{"input range", CTRL1, 0b01000000, enumSetter((*Device).SetInputRange, Unipolar, Bipolar)},
	{"clock source", CTRL1, 0b00100000, enumSetter((*Device).SetClockSource, ExternalClock, InternalClock)},
	{"reference buffer", CTRL1, 0b00010000, (*Device).SetRefBuf},
	{"signal buffer", CTRL1, 0b00001000, (*Device).SetSigBuf},
	{"format", CTRL1, 0b00000100, enumSetter((*Device).SetFormat, OffsetBinary, TwosComplement)},
	{"conversion mode", CTRL1, 0b00000010, enumSetter((*Device).SetConvMode, SingleCycle, Continuous)},
	{"no system gain", CTRL3, 0b00010000, (*Device).SetDisableSysGain},
	{"no system offset", CTRL3, 0b00001000, (*Device).SetDisableSysOffset},
	{"no self-cal gain", CTRL3, 0b00000100, (*Device).SetDisableSelfCalGain},
	{"no self-cal offset", CTRL3, 0b00000010, (*Device).SetDisableSelfCalOffset},
}

func TestSingleBitFields_Isolation(t *testing.T) {
	ctx := context.Background()
	for _, f := range singleBitFields {
		for _, initial := range []byte{0x00, 0xFF, 0xA5, 0x5A, defaultCTRL1, defaultCTRL3} {
			t.Run(fmt.Sprintf("%s/%#02x", f.name, initial), func(t *testing.T) {
				dev, chip := newTestDevice()
				chip.regs[f.reg] = uint32(initial)

				require.NoError(t, f.set(dev, ctx, true))
				assert.Equal(t, initial&^f.mask, byte(chip.regs[f.reg])&^f.mask, "other bits changed on set")
				assert.Equal(t, f.mask, byte(chip.regs[f.reg])&f.mask)

				require.NoError(t, f.set(dev, ctx, false))
				assert.Equal(t, initial&^f.mask, byte(chip.regs[f.reg])&^f.mask, "other bits changed on clear")
				assert.Zero(t, byte(chip.regs[f.reg])&f.mask)

				// one read and one write per update
				frames := []byte{readFrame(f.reg), 0x00, writeFrame(f.reg), byte(chip.regs[f.reg])}
				assert.Equal(t, frames, chip.transfers()[4:])
			})
		}
	}
}

func TestSetGain_Clamping(t *testing.T) {
	tests := []struct {
		given    Gain
		expected byte
	}{
		{Gain1, 0b000},
		{Gain2, 0b001},
		{Gain4, 0b010},
		{Gain8, 0b011},
		{Gain16, 0b100},
		{5, 0b100},
		{255, 0b100},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.given), func(t *testing.T) {
			dev, chip := newTestDevice()
			chip.regs[CTRL3] = uint32(defaultCTRL3)
			require.NoError(t, dev.SetGain(context.Background(), test.given))
			assert.Equal(t, test.expected, byte(chip.regs[CTRL3])>>5)
			assert.Equal(t, defaultCTRL3&0x1F, byte(chip.regs[CTRL3])&0x1F)

			g, err := dev.Gain(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Gain(test.expected), g)
		})
	}
}

func TestGainFactor(t *testing.T) {
	for _, factor := range []int{1, 2, 4, 8, 16} {
		g, err := GainFromFactor(factor)
		require.NoError(t, err)
		assert.Equal(t, factor, g.Factor())
	}
	_, err := GainFromFactor(3)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestGetters_DecodeLikeSetters(t *testing.T) {
	ctx := context.Background()
	dev, chip := newTestDevice()
	chip.regs[CTRL1] = 0x00
	chip.regs[CTRL3] = 0x00

	require.NoError(t, dev.SetLineFreq(ctx, LineFreq50Hz))
	require.NoError(t, dev.SetInputRange(ctx, Unipolar))
	require.NoError(t, dev.SetClockSource(ctx, ExternalClock))
	require.NoError(t, dev.SetRefBuf(ctx, true))
	require.NoError(t, dev.SetFormat(ctx, OffsetBinary))
	require.NoError(t, dev.SetConvMode(ctx, SingleCycle))
	require.NoError(t, dev.SetGain(ctx, Gain8))
	require.NoError(t, dev.SetDisableSysOffset(ctx, true))

	lf, err := dev.LineFreq(ctx)
	require.NoError(t, err)
	assert.Equal(t, LineFreq50Hz, lf)
	ir, err := dev.InputRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unipolar, ir)
	cs, err := dev.ClockSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExternalClock, cs)
	rb, err := dev.RefBuf(ctx)
	require.NoError(t, err)
	assert.True(t, rb)
	sb, err := dev.SigBuf(ctx)
	require.NoError(t, err)
	assert.False(t, sb)
	fm, err := dev.Format(ctx)
	require.NoError(t, err)
	assert.Equal(t, OffsetBinary, fm)
	cm, err := dev.ConvMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, SingleCycle, cm)
	nsg, err := dev.DisableSysGain(ctx)
	require.NoError(t, err)
	assert.False(t, nsg)
	nso, err := dev.DisableSysOffset(ctx)
	require.NoError(t, err)
	assert.True(t, nso)
	nscg, err := dev.DisableSelfCalGain(ctx)
	require.NoError(t, err)
	assert.False(t, nscg)
	nsco, err := dev.DisableSelfCalOffset(ctx)
	require.NoError(t, err)
	assert.False(t, nsco)

	cfg, err := dev.ReadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{
		LineFreq:    LineFreq50Hz,
		InputRange:  Unipolar,
		ClockSource: ExternalClock,
		RefBuf:      true,
		Format:      OffsetBinary,
		ConvMode:    SingleCycle,
		Gain:        Gain8,
		NoSysOffset: true,
	}, cfg)
}

func TestReadConfig_Defaults(t *testing.T) {
	dev, chip := newTestDevice()
	chip.regs[CTRL1] = uint32(defaultCTRL1)
	chip.regs[CTRL3] = uint32(defaultCTRL3)

	cfg, err := dev.ReadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Config{
		LineFreq:        LineFreq50Hz,
		InputRange:      Unipolar,
		ClockSource:     InternalClock,
		Format:          TwosComplement,
		ConvMode:        Continuous,
		Gain:            Gain1,
		NoSysGain:       true,
		NoSysOffset:     true,
		NoSelfCalGain:   true,
		NoSelfCalOffset: true,
	}, cfg)
}

func TestTwoStateSetters_RejectUnknownValues(t *testing.T) {
	ctx := context.Background()
	dev, chip := newTestDevice()
	assert.ErrorIs(t, dev.SetLineFreq(ctx, LineFreq(2)), ErrInvalidValue)
	assert.ErrorIs(t, dev.SetInputRange(ctx, InputRange(7)), ErrInvalidValue)
	assert.ErrorIs(t, dev.SetClockSource(ctx, ClockSource(9)), ErrInvalidValue)
	assert.ErrorIs(t, dev.SetFormat(ctx, Format(2)), ErrInvalidValue)
	assert.ErrorIs(t, dev.SetConvMode(ctx, ConvMode(3)), ErrInvalidValue)
	assert.Empty(t, chip.events)
}

func TestField_PackUnpack(t *testing.T) {
	gain := fields[FieldGain]
	assert.Equal(t, byte(0b10011110), gain.set(0b01111110, 4))
	assert.Equal(t, byte(4), gain.get(0b10011110))
	// values wider than the field are truncated to the field bits
	assert.Equal(t, byte(0b11111110), gain.set(0b00011110, 0xFF))

	rate := fields[FieldRate]
	assert.Equal(t, byte(0b10111111), rate.set(0b10001111, 3))
	assert.Equal(t, byte(3), rate.get(0b10111111))
}

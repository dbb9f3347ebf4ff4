package max11210

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctrl2Patterns = []byte{0x00, 0xFF, 0xA5, 0x5A, defaultCTRL2}

func TestPinMode_KeepsValueNibble(t *testing.T) {
	ctx := context.Background()
	for _, initial := range ctrl2Patterns {
		for pin := 0; pin < GPIOPins; pin++ {
			for _, mode := range []PinMode{Input, Output} {
				t.Run(fmt.Sprintf("%#02x/pin%d/mode%d", initial, pin, mode), func(t *testing.T) {
					dev, chip := newTestDevice()
					chip.regs[CTRL2] = uint32(initial)

					require.NoError(t, dev.PinMode(ctx, pin, mode))

					written := byte(chip.regs[CTRL2])
					assert.Equal(t, initial&0x0F, written&0x0F, "value nibble changed")
					// only the pin's own direction bit may change
					others := byte(0xF0) &^ (0x10 << pin)
					assert.Equal(t, initial&others, written&others)
					assert.Equal(t, mode == Output, written&(0x10<<pin) != 0)

					got, err := dev.PinModeOf(ctx, pin)
					require.NoError(t, err)
					assert.Equal(t, mode, got)
				})
			}
		}
	}
}

func TestWriteGPIO_KeepsDirectionNibble(t *testing.T) {
	ctx := context.Background()
	for _, initial := range ctrl2Patterns {
		for pin := 0; pin < GPIOPins; pin++ {
			for _, level := range []bool{true, false} {
				t.Run(fmt.Sprintf("%#02x/pin%d/%t", initial, pin, level), func(t *testing.T) {
					dev, chip := newTestDevice()
					chip.regs[CTRL2] = uint32(initial)

					require.NoError(t, dev.WriteGPIO(ctx, pin, level))

					written := byte(chip.regs[CTRL2])
					assert.Equal(t, initial&0xF0, written&0xF0, "direction nibble changed")
					others := byte(0x0F) &^ (0x01 << pin)
					assert.Equal(t, initial&others, written&others)

					got, err := dev.ReadGPIO(ctx, pin)
					require.NoError(t, err)
					assert.Equal(t, level, got)
				})
			}
		}
	}
}

func TestReadGPIO(t *testing.T) {
	dev, chip := newTestDevice()
	chip.regs[CTRL2] = uint32(defaultCTRL2)
	expected := []bool{true, false, true, false}
	for pin, level := range expected {
		got, err := dev.ReadGPIO(context.Background(), pin)
		require.NoError(t, err)
		assert.Equal(t, level, got, "pin %d", pin)
	}
}

// Out-of-range pins are silently ignored rather than reported. This keeps
// the behavior callers of the chip's GPIO helpers rely on, but it hides
// caller bugs: new code should validate pin numbers before calling.
func TestGPIO_OutOfRangePinsAreNoOps(t *testing.T) {
	ctx := context.Background()
	for _, pin := range []int{-1, 4, 100} {
		t.Run(fmt.Sprintf("pin%d", pin), func(t *testing.T) {
			dev, chip := newTestDevice()
			chip.regs[CTRL2] = 0xFF

			assert.NoError(t, dev.PinMode(ctx, pin, Output))
			assert.NoError(t, dev.WriteGPIO(ctx, pin, true))
			v, err := dev.ReadGPIO(ctx, pin)
			assert.NoError(t, err)
			assert.False(t, v)
			m, err := dev.PinModeOf(ctx, pin)
			assert.NoError(t, err)
			assert.Equal(t, Input, m)

			assert.Empty(t, chip.events)
		})
	}
}

func TestPinMode_InvalidMode(t *testing.T) {
	dev, chip := newTestDevice()
	assert.ErrorIs(t, dev.PinMode(context.Background(), 1, PinMode(5)), ErrInvalidValue)
	assert.Empty(t, chip.events)
}

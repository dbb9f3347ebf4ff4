package max11210

import (
	"context"
	"fmt"
)

// GPIOPins is the number of general purpose pins controlled through CTRL2.
const GPIOPins = 4

// CTRL2 holds the pin directions in the high nibble (DIR4..DIR1) and the pin
// levels in the low nibble (DIO4..DIO1). Pin n maps to DIR bit 4+n and DIO bit n.
func dirBit(pin int) byte { return 0x10 << pin }
func dioBit(pin int) byte { return 0x01 << pin }

func validPin(pin int) bool {
	return pin >= 0 && pin < GPIOPins
}

// updateCTRL2 flips bit within the nibble selected by nibble, keeping the other nibble intact.
func (d *Device) updateCTRL2(ctx context.Context, nibble, bit byte, set bool) error {
	old, err := d.frames.readByte(ctx, CTRL2)
	if err != nil {
		return fmt.Errorf("max11210: could not read CTRL2: %w", err)
	}
	part := old & nibble
	if set {
		part |= bit
	} else {
		part &^= bit
	}
	err = d.frames.writeByte(ctx, CTRL2, (old&^nibble)|(part&nibble))
	if err != nil {
		return fmt.Errorf("max11210: could not write CTRL2: %w", err)
	}
	return nil
}

// PinMode sets the direction of a GPIO pin (0-3).
// Pins outside 0-3 are ignored without error, as the chip has only four.
func (d *Device) PinMode(ctx context.Context, pin int, mode PinMode) error {
	if !validPin(pin) {
		return nil
	}
	if mode > Output {
		return fmt.Errorf("%w: pin mode %d", ErrInvalidValue, mode)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.updateCTRL2(ctx, gpioDirMask, dirBit(pin), mode == Output)
}

// PinModeOf returns the direction of a GPIO pin. Pins outside 0-3 read as Input.
func (d *Device) PinModeOf(ctx context.Context, pin int) (PinMode, error) {
	if !validPin(pin) {
		return Input, nil
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	reg, err := d.frames.readByte(ctx, CTRL2)
	if err != nil {
		return Input, fmt.Errorf("max11210: could not read CTRL2: %w", err)
	}
	if reg&dirBit(pin) != 0 {
		return Output, nil
	}
	return Input, nil
}

// WriteGPIO drives a GPIO pin (0-3). Pins outside 0-3 are ignored without error.
func (d *Device) WriteGPIO(ctx context.Context, pin int, value bool) error {
	if !validPin(pin) {
		return nil
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.updateCTRL2(ctx, gpioDIOMask, dioBit(pin), value)
}

// ReadGPIO returns the level of a GPIO pin (0-3). Pins outside 0-3 read as low.
func (d *Device) ReadGPIO(ctx context.Context, pin int) (bool, error) {
	if !validPin(pin) {
		return false, nil
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	reg, err := d.frames.readByte(ctx, CTRL2)
	if err != nil {
		return false, fmt.Errorf("max11210: could not read CTRL2: %w", err)
	}
	return reg&dioBit(pin) != 0, nil
}

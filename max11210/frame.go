package max11210

import (
	"context"
	"errors"
	"fmt"

	"github.com/mklimuk/adc"
)

func readFrame(r Register) byte {
	return (byte(r)&0x0F)<<1 | frameStart | frameMode | frameRead
}

func writeFrame(r Register) byte {
	return (byte(r)&0x0F)<<1 | frameStart | frameMode
}

func commandFrame(opcode byte) byte {
	return (opcode & 0x3F) | frameStart
}

// framer maps register and command access onto chip-select delimited byte
// transfers. It holds no state between calls.
type framer struct {
	bus  adc.SPIBus
	pins adc.ControlPins
}

// tx runs out through the bus within one chip select window and returns the
// bytes clocked in after the frame byte.
func (f *framer) tx(ctx context.Context, frame byte, out []byte) ([]byte, error) {
	err := f.pins.SetChipSelect(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("max11210: could not assert chip select: %w", err)
	}
	_, err = f.bus.Transfer(ctx, frame)
	if err != nil {
		return nil, f.release(ctx, fmt.Errorf("max11210: could not send frame %#02x: %w", frame, err))
	}
	in := make([]byte, len(out))
	for i, b := range out {
		in[i], err = f.bus.Transfer(ctx, b)
		if err != nil {
			return nil, f.release(ctx, fmt.Errorf("max11210: transfer of byte %d after frame %#02x failed: %w", i, frame, err))
		}
	}
	return in, f.release(ctx, nil)
}

func (f *framer) release(ctx context.Context, err error) error {
	if csErr := f.pins.SetChipSelect(ctx, false); csErr != nil {
		return errors.Join(err, fmt.Errorf("max11210: could not release chip select: %w", csErr))
	}
	return err
}

func (f *framer) readByte(ctx context.Context, r Register) (byte, error) {
	in, err := f.tx(ctx, readFrame(r), []byte{0x00})
	if err != nil {
		return 0, err
	}
	return in[0], nil
}

// readTriple returns the 24-bit register content verbatim.
func (f *framer) readTriple(ctx context.Context, r Register) (uint32, error) {
	in, err := f.tx(ctx, readFrame(r), []byte{0x00, 0x00, 0x00})
	if err != nil {
		return 0, err
	}
	return uint32(in[0])<<16 | uint32(in[1])<<8 | uint32(in[2]), nil
}

func (f *framer) writeByte(ctx context.Context, r Register, data byte) error {
	_, err := f.tx(ctx, writeFrame(r), []byte{data})
	return err
}

func (f *framer) writeTriple(ctx context.Context, r Register, data uint32) error {
	_, err := f.tx(ctx, writeFrame(r), []byte{byte(data >> 16), byte(data >> 8), byte(data)})
	return err
}

func (f *framer) sendCommand(ctx context.Context, opcode byte) error {
	_, err := f.tx(ctx, commandFrame(opcode), nil)
	return err
}

// signExtend24 interprets the low 24 bits of v as a two's complement number.
func signExtend24(v uint32) int32 {
	return int32(v<<8) >> 8
}

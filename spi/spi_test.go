package spi

import (
	"context"
	"errors"
	"testing"

	"github.com/mklimuk/adc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
)

func TestPeriphMode(t *testing.T) {
	assert.Equal(t, spi.Mode0|spi.NoCS, periphMode(adc.BusConfig{BitOrder: adc.MSBFirst, Mode: 0}))
	assert.Equal(t, spi.Mode3|spi.NoCS|spi.LSBFirst, periphMode(adc.BusConfig{BitOrder: adc.LSBFirst, Mode: 3}))
}

func TestPeriphBus_NotConfigured(t *testing.T) {
	bus := &PeriphBus{port: "SPI0.0"}
	_, err := bus.Transfer(context.Background(), 0xC1)
	assert.Error(t, err)
	assert.NoError(t, bus.Close())
}

func TestPeriphPins(t *testing.T) {
	ctx := context.Background()
	cs := &gpiotest.Pin{N: "CS", L: gpio.Low}
	ready := &gpiotest.Pin{N: "RDY", L: gpio.Low}

	pins, err := NewPeriphPinsFrom(cs, ready, false)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, cs.Read(), "chip select released on setup")

	require.NoError(t, pins.SetChipSelect(ctx, true))
	assert.Equal(t, gpio.Low, cs.Read())
	require.NoError(t, pins.SetChipSelect(ctx, false))
	assert.Equal(t, gpio.High, cs.Read())

	rdy, err := pins.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, rdy)
	ready.L = gpio.High
	rdy, err = pins.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, rdy)

	pins.readyActiveLow = true
	rdy, err = pins.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, rdy)
}

type MockPinner struct {
	mock.Mock
}

func (m *MockPinner) DigitalRead(pin string) (int, error) {
	args := m.Called(pin)
	return args.Int(0), args.Error(1)
}

func (m *MockPinner) DigitalWrite(pin string, val byte) error {
	args := m.Called(pin, val)
	return args.Error(0)
}

func TestGobotPins(t *testing.T) {
	ctx := context.Background()
	adaptor := &MockPinner{}
	adaptor.On("DigitalWrite", "24", byte(0)).Return(nil).Once()
	adaptor.On("DigitalWrite", "24", byte(1)).Return(nil).Once()
	adaptor.On("DigitalRead", "18").Return(1, nil).Once()
	adaptor.On("DigitalRead", "18").Return(0, nil).Once()

	pins := NewGobotPins(adaptor, "24", "18", false)
	require.NoError(t, pins.SetChipSelect(ctx, true))
	require.NoError(t, pins.SetChipSelect(ctx, false))
	rdy, err := pins.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, rdy)
	rdy, err = pins.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, rdy)
	adaptor.AssertExpectations(t)
}

func TestGobotPins_Errors(t *testing.T) {
	ctx := context.Background()
	adaptor := &MockPinner{}
	adaptor.On("DigitalWrite", "24", byte(0)).Return(errors.New("sysfs"))
	adaptor.On("DigitalRead", "18").Return(0, errors.New("sysfs"))

	pins := NewGobotPins(adaptor, "24", "18", true)
	assert.Error(t, pins.SetChipSelect(ctx, true))
	_, err := pins.Ready(ctx)
	assert.Error(t, err)
}

type loopback struct {
	sent []byte
	err  error
}

func (l *loopback) Tx(w, r []byte) error {
	l.sent = append(l.sent, w...)
	copy(r, w)
	return l.err
}

func (l *loopback) Transfer(b byte) (byte, error) {
	l.sent = append(l.sent, b)
	return ^b, l.err
}

func TestTinyGoBus(t *testing.T) {
	ctx := context.Background()
	lb := &loopback{}
	var applied adc.BusConfig
	bus := NewTinyGoBus(lb, func(cfg adc.BusConfig) error {
		applied = cfg
		return nil
	})
	cfg := adc.BusConfig{BitOrder: adc.MSBFirst, SpeedHz: 4_500_000}
	require.NoError(t, bus.Configure(ctx, cfg))
	assert.Equal(t, cfg, applied)

	in, err := bus.Transfer(ctx, 0xC1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x3E), in)
	assert.Equal(t, []byte{0xC1}, lb.sent)
	assert.NoError(t, bus.Close())

	lb.err = errors.New("bus fault")
	_, err = bus.Transfer(ctx, 0x00)
	assert.Error(t, err)

	assert.NoError(t, NewTinyGoBus(lb, nil).Configure(ctx, cfg))
}

func TestFuncPins(t *testing.T) {
	ctx := context.Background()
	var csLevel, readyLevel bool
	pins := &FuncPins{
		SetCS:     func(high bool) { csLevel = high },
		ReadReady: func() bool { return readyLevel },
	}
	require.NoError(t, pins.SetChipSelect(ctx, true))
	assert.False(t, csLevel)
	require.NoError(t, pins.SetChipSelect(ctx, false))
	assert.True(t, csLevel)

	readyLevel = true
	rdy, err := pins.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, rdy)
	pins.ReadyActiveLow = true
	rdy, err = pins.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, rdy)
}

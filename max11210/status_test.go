package max11210

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		given    byte
		expected Status
	}{
		{0x00, Status{Rate: Rate1}},
		{0b00110001, Status{Rate: Rate10, Ready: true}},
		{0b11111111, Status{SysGainOverRange: true, Rate: Rate120, OverRange: true, UnderRange: true, Measuring: true, Ready: true}},
		{0b01010110, Status{Rate: Rate30, UnderRange: true, Measuring: true}},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString([]byte{test.given}), func(t *testing.T) {
			assert.Equal(t, test.expected, decodeStatus(test.given))
		})
	}
}

func TestStatusGetters(t *testing.T) {
	ctx := context.Background()
	dev, chip := newTestDevice()
	chip.regs[STAT1] = 0b10101010

	sysor, err := dev.SysGainOverRange(ctx)
	require.NoError(t, err)
	assert.True(t, sysor)
	rate, err := dev.Rate(ctx)
	require.NoError(t, err)
	assert.Equal(t, Rate5, rate)
	or, err := dev.OverRange(ctx)
	require.NoError(t, err)
	assert.True(t, or)
	ur, err := dev.UnderRange(ctx)
	require.NoError(t, err)
	assert.False(t, ur)
	mstat, err := dev.MeasStat(ctx)
	require.NoError(t, err)
	assert.True(t, mstat)
	rdy, err := dev.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, rdy)

	// every getter is a fresh single-byte read of STAT1, nothing written
	tx := chip.transfers()
	require.Len(t, tx, 12)
	for i := 0; i < len(tx); i += 2 {
		assert.Equal(t, byte(0xC1), tx[i])
	}
	assert.Equal(t, uint32(0b10101010), chip.regs[STAT1])

	st, err := dev.ReadStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, decodeStatus(0b10101010), st)
}

func TestRate_String(t *testing.T) {
	assert.Equal(t, "10sps", Rate10.String())
	assert.Equal(t, "2.5sps", Rate2_5.String())
	assert.Equal(t, "120sps", Rate120.String())
}

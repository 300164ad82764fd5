package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBridge(t *testing.T) {
	b, err := NewBridge(48000, 8000, 1024)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Ratio())

	b, err = NewBridge(48000, 16000, 1024)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Ratio())
}

func TestNewBridgeRejectsBadRates(t *testing.T) {
	_, err := NewBridge(44100, 8000, 1024)
	assert.Error(t, err, "non-integer ratio")

	_, err = NewBridge(0, 8000, 1024)
	assert.Error(t, err)

	_, err = NewBridge(48000, 0, 1024)
	assert.Error(t, err)

	_, err = NewBridge(48000, -8000, 1024)
	assert.Error(t, err)
}

func TestToDSP(t *testing.T) {
	b, err := NewBridge(48000, 8000, 1024)
	require.NoError(t, err)

	in := make([]int16, 480)
	for i := range in {
		in[i] = 16384
	}
	out := make([]float64, 80)
	n := b.ToDSP(in, out)
	require.Equal(t, 80, n)

	// Full scale maps to [-1, 1): 16384/32768 = 0.5 once the filter
	// settles.
	for _, s := range out[16:] {
		assert.InDelta(t, 0.5, s, 1e-6)
	}
}

func TestToDSPGrowsScratch(t *testing.T) {
	b, err := NewBridge(48000, 8000, 64)
	require.NoError(t, err)

	// Larger than the configured buffer size still works.
	in := make([]int16, 960)
	out := make([]float64, 160)
	assert.Equal(t, 160, b.ToDSP(in, out))
}

func TestToDevice(t *testing.T) {
	b, err := NewBridge(48000, 8000, 1024)
	require.NoError(t, err)

	in := make([]float64, 80)
	for i := range in {
		in[i] = 0.5
	}
	out := make([]int16, 480)
	n := b.ToDevice(in, out)
	require.Equal(t, 480, n)

	// Settled output sits near half scale.
	for _, s := range out[96:] {
		assert.InDelta(t, 16383, float64(s), 2000)
	}
}

func TestToDeviceClamps(t *testing.T) {
	b, err := NewBridge(48000, 8000, 1024)
	require.NoError(t, err)

	in := make([]float64, 80)
	for i := range in {
		in[i] = 2.0 // well past full scale
	}
	out := make([]int16, 480)
	n := b.ToDevice(in, out)
	require.Equal(t, 480, n)

	for _, s := range out {
		assert.LessOrEqual(t, s, int16(32767))
		assert.GreaterOrEqual(t, s, int16(-32768))
	}

	// Settled samples actually hit the positive rail.
	clipped := false
	for _, s := range out[96:] {
		if s == 32767 {
			clipped = true
		}
	}
	assert.True(t, clipped, "over-full-scale input should clip at the rail")
}

func TestBridgeReset(t *testing.T) {
	b, err := NewBridge(48000, 8000, 1024)
	require.NoError(t, err)

	in := make([]int16, 480)
	for i := range in {
		in[i] = int16(8000 * math.Sin(2*math.Pi*float64(i)/48))
	}
	out := make([]float64, 80)
	b.ToDSP(in, out)

	b.Reset()

	// After a reset, silence in produces exact silence out.
	silence := make([]int16, 480)
	n := b.ToDSP(silence, out)
	require.Equal(t, 80, n)
	for _, s := range out[:n] {
		assert.Zero(t, s)
	}
}

package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(freqHz, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
	}
	return out
}

// peakBin returns the FFT bin with the largest magnitude below Nyquist,
// after a Hann window.
func peakBin(samples []float64) int {
	windowed := make([]float64, len(samples))
	copy(windowed, samples)
	window.Apply(windowed, window.Hann)

	spectrum := fft.FFTReal(windowed)
	peak, peakMag := 0, 0.0
	for i := 1; i < len(spectrum)/2; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > peakMag {
			peak, peakMag = i, mag
		}
	}
	return peak
}

func TestResamplerGeometry(t *testing.T) {
	r := NewResampler(DefaultRatio, DefaultTapsPerPhase)
	assert.Equal(t, 6, r.Ratio())
	assert.Equal(t, 48, r.Taps())

	sum := 0.0
	for _, c := range r.coeffs {
		sum += c
	}
	assert.InDelta(t, 1.0, sum, 1e-12, "coefficients should sum to unity DC gain")
}

func TestDecimateLength(t *testing.T) {
	r := NewResampler(6, 8)

	input := make([]float64, 480)
	output := make([]float64, 80)
	assert.Equal(t, 80, r.Decimate(input, output))

	// A partial block carries no remainder into the next call.
	assert.Equal(t, 0, r.Decimate(make([]float64, 5), output))
	assert.Equal(t, 1, r.Decimate(make([]float64, 6), output))
}

func TestInterpolateLength(t *testing.T) {
	r := NewResampler(6, 8)

	input := make([]float64, 80)
	output := make([]float64, 480)
	assert.Equal(t, 480, r.Interpolate(input, output))
}

func TestDecimatePreservesPassbandTone(t *testing.T) {
	const (
		deviceRate = 48000.0
		dspRate    = 8000.0
		fftSize    = 512
	)
	r := NewResampler(6, 8)

	input := tone(1000, deviceRate, fftSize*6)
	output := make([]float64, fftSize)
	n := r.Decimate(input, output)
	require.Equal(t, fftSize, n)

	// 1 kHz in a 512-point FFT at 8 kHz lands in bin 64.
	assert.Equal(t, 64, peakBin(output))

	// Steady-state amplitude survives within a dB.
	peak := 0.0
	for _, s := range output[fftSize/2:] {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, 1.0, peak, 0.12)
}

func TestDecimateRejectsAlias(t *testing.T) {
	// 5 kHz is above the 4 kHz output Nyquist; it must not fold back in.
	r := NewResampler(6, 8)

	input := tone(5000, 48000, 3072)
	output := make([]float64, 512)
	n := r.Decimate(input, output)
	require.Equal(t, 512, n)

	// Skip the filter transient before measuring.
	var sumSq float64
	settled := output[16:]
	for _, s := range settled {
		sumSq += s * s
	}
	rms := math.Sqrt(sumSq / float64(len(settled)))
	assert.Less(t, rms, 0.1, "alias energy should be rejected by the lowpass")
}

func TestDecimateDCGain(t *testing.T) {
	r := NewResampler(6, 8)

	input := make([]float64, 600)
	for i := range input {
		input[i] = 1.0
	}
	output := make([]float64, 100)
	r.Decimate(input, output)

	// Once the history is full of ones the output is exactly the
	// coefficient sum.
	for i := 10; i < 100; i++ {
		assert.InDelta(t, 1.0, output[i], 1e-9)
	}
}

func TestInterpolateDCGain(t *testing.T) {
	r := NewResampler(6, 8)

	input := make([]float64, 60)
	for i := range input {
		input[i] = 1.0
	}
	output := make([]float64, 360)
	r.Interpolate(input, output)

	// The zero-stuffing gain compensation restores unity on average;
	// per-phase ripple stays small.
	settled := output[60:]
	var sum float64
	for _, s := range settled {
		sum += s
		assert.InDelta(t, 1.0, s, 0.1)
	}
	assert.InDelta(t, 1.0, sum/float64(len(settled)), 0.01)
}

func TestResamplerReset(t *testing.T) {
	r := NewResampler(6, 8)

	input := tone(1000, 48000, 96)
	output := make([]float64, 16)
	r.Decimate(input, output)

	r.Reset()

	// After a reset, all-zero input produces exactly zero output.
	zeros := make([]float64, 96)
	n := r.Decimate(zeros, output)
	require.Equal(t, 16, n)
	for i := 0; i < n; i++ {
		assert.Zero(t, output[i])
	}
}

func TestRoundTripToneSurvives(t *testing.T) {
	down := NewResampler(6, 8)
	up := NewResampler(6, 8)

	const fftSize = 512
	input := tone(500, 48000, fftSize*6)
	low := make([]float64, fftSize)
	back := make([]float64, fftSize*6)

	down.Decimate(input, low)
	up.Interpolate(low, back)

	// 500 Hz in a 3072-point FFT at 48 kHz lands in bin 32.
	assert.Equal(t, 32, peakBin(back))
}

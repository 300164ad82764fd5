// Package dsp holds the signal-path numerics: a polyphase FIR
// resampler bridging the 8 kHz DSP rate to the 48 kHz audio interface
// rate.
package dsp

import "math"

// Default resampler geometry: 6:1 for 48 kHz <-> 8 kHz with 8 taps per
// polyphase branch.
const (
	DefaultRatio        = 6
	DefaultTapsPerPhase = 8
)

// Resampler is a fixed integer-ratio polyphase FIR resampler. A
// windowed-sinc lowpass bounds the signal below the low-rate Nyquist
// frequency for both directions. Coefficients are computed once at
// construction; Decimate and Interpolate mutate only the history
// buffer and allocate nothing, so they are safe on a real-time audio
// callback path. Instances are not safe for concurrent use.
type Resampler struct {
	ratio        int
	tapsPerPhase int
	totalTaps    int

	coeffs  []float64
	history []float64
	pos     int
}

// NewResampler builds a resampler for the given integer ratio and taps
// per polyphase branch.
func NewResampler(ratio, tapsPerPhase int) *Resampler {
	r := &Resampler{
		ratio:        ratio,
		tapsPerPhase: tapsPerPhase,
		totalTaps:    ratio * tapsPerPhase,
	}
	r.coeffs = make([]float64, r.totalTaps)
	r.history = make([]float64, r.totalTaps)
	r.designFilter()
	return r
}

// designFilter computes the windowed-sinc lowpass. The cutoff sits at
// 0.45/ratio rather than 0.5/ratio to buy stopband rejection before
// the alias region. Coefficients are normalized to unity DC gain.
func (r *Resampler) designFilter() {
	fc := 0.45 / float64(r.ratio)
	m := float64(r.totalTaps - 1)

	sum := 0.0
	for i := 0; i < r.totalTaps; i++ {
		n := float64(i) - m/2

		var sinc float64
		if math.Abs(n) < 1e-9 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*n) / (math.Pi * n)
		}

		// Hamming window
		window := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/m)

		r.coeffs[i] = sinc * window
		sum += r.coeffs[i]
	}

	for i := range r.coeffs {
		r.coeffs[i] /= sum
	}
}

// filter computes the inner product of the coefficients with the
// circular history read from the current position.
func (r *Resampler) filter() float64 {
	var sum float64
	for i, c := range r.coeffs {
		sum += r.history[(r.pos+i)%r.totalTaps] * c
	}
	return sum
}

// Decimate converts high-rate input to low-rate output, writing one
// filtered sample for every Ratio() input samples. output must hold at
// least len(input)/Ratio() samples; the count written is returned. The
// every-Nth counter restarts each call.
func (r *Resampler) Decimate(input, output []float64) int {
	n := 0
	for i, s := range input {
		r.history[r.pos] = s
		r.pos = (r.pos + 1) % r.totalTaps

		if (i+1)%r.ratio == 0 {
			output[n] = r.filter()
			n++
		}
	}
	return n
}

// Interpolate converts low-rate input to high-rate output, writing
// Ratio() filtered samples per input sample. Each input sample is
// zero-stuffed into the history, scaled by the ratio to compensate the
// stuffing gain loss. output must hold len(input)*Ratio() samples; the
// count written is returned.
func (r *Resampler) Interpolate(input, output []float64) int {
	n := 0
	for _, s := range input {
		for phase := 0; phase < r.ratio; phase++ {
			v := 0.0
			if phase == 0 {
				v = s * float64(r.ratio)
			}

			r.history[r.pos] = v
			r.pos = (r.pos + 1) % r.totalTaps

			output[n] = r.filter()
			n++
		}
	}
	return n
}

// Reset zeroes the history and position, returning the filter to its
// post-construction state. Coefficients are untouched.
func (r *Resampler) Reset() {
	for i := range r.history {
		r.history[i] = 0
	}
	r.pos = 0
}

// Ratio returns the resampling ratio.
func (r *Resampler) Ratio() int {
	return r.ratio
}

// Taps returns the total filter length.
func (r *Resampler) Taps() int {
	return r.totalTaps
}

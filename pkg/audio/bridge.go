// Package audio bridges the audio interface rate to the modem DSP
// rate. Device I/O itself stays behind the Device interface; this
// package only owns the sample-rate conversion between the two sides.
package audio

import (
	"fmt"

	"github.com/hfale/pald/pkg/dsp"
)

// Device is the contract an audio driver fulfills. Drivers live
// outside this repository.
type Device interface {
	Initialize() error
	Close() error
	StartInput() error
	StopInput() error
	StartOutput() error
	StopOutput() error
	PlayAudio(samples []int16) error
	InputSamples() <-chan []int16
	SampleRate() int
	BufferSize() int
}

// Bridge converts the device-side int16 PCM stream to the DSP-side
// float stream and back. Each direction owns its own resampler so RX
// and TX histories never mix. The conversion paths reuse scratch
// buffers and do not allocate once warmed up, which keeps them safe on
// an audio callback.
type Bridge struct {
	deviceRate int
	dspRate    int
	ratio      int

	down *dsp.Resampler // device rate -> DSP rate
	up   *dsp.Resampler // DSP rate -> device rate

	downScratch []float64
	upScratch   []float64
}

// NewBridge builds a bridge between the two rates. The device rate
// must be an integer multiple of the DSP rate.
func NewBridge(deviceRate, dspRate, bufferSize int) (*Bridge, error) {
	if dspRate <= 0 || deviceRate <= 0 {
		return nil, fmt.Errorf("sample rates must be positive")
	}
	if deviceRate%dspRate != 0 {
		return nil, fmt.Errorf("device rate %d is not an integer multiple of dsp rate %d", deviceRate, dspRate)
	}

	ratio := deviceRate / dspRate
	return &Bridge{
		deviceRate:  deviceRate,
		dspRate:     dspRate,
		ratio:       ratio,
		down:        dsp.NewResampler(ratio, dsp.DefaultTapsPerPhase),
		up:          dsp.NewResampler(ratio, dsp.DefaultTapsPerPhase),
		downScratch: make([]float64, bufferSize),
		upScratch:   make([]float64, bufferSize*ratio),
	}, nil
}

// Ratio returns the integer rate ratio.
func (b *Bridge) Ratio() int {
	return b.ratio
}

// ToDSP decimates one device-rate buffer into out, which must hold
// len(in)/Ratio() samples. Returns the number of samples written.
func (b *Bridge) ToDSP(in []int16, out []float64) int {
	if len(in) > len(b.downScratch) {
		b.downScratch = make([]float64, len(in))
	}
	scratch := b.downScratch[:len(in)]
	for i, s := range in {
		scratch[i] = float64(s) / 32768.0
	}
	return b.down.Decimate(scratch, out)
}

// ToDevice interpolates one DSP-rate buffer into out, which must hold
// len(in)*Ratio() samples. Values beyond full scale clip at the int16
// boundary. Returns the number of samples written.
func (b *Bridge) ToDevice(in []float64, out []int16) int {
	want := len(in) * b.ratio
	if want > len(b.upScratch) {
		b.upScratch = make([]float64, want)
	}
	scratch := b.upScratch[:want]
	n := b.up.Interpolate(in, scratch)

	for i := 0; i < n; i++ {
		v := scratch[i] * 32767.0
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return n
}

// Reset clears both filter histories, e.g. across a PTT transition.
func (b *Bridge) Reset() {
	b.down.Reset()
	b.up.Reset()
}

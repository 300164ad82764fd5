// Package radio implements CAT protocol codecs for Kenwood, Elecraft,
// Icom CI-V and Yaesu radios. A codec translates the vendor-neutral
// Channel description into the exact byte sequences one protocol family
// expects, and parses the byte stream coming back. Codecs do no I/O of
// their own: outgoing bytes go through a registered send callback or an
// injected serial port, and received bytes are fed in by the caller.
package radio

import (
	"fmt"
	"strings"
)

// SendFunc receives every outgoing frame or command.
type SendFunc func(data []byte)

// AckFunc is called when a response parser sees an acknowledgment.
type AckFunc func()

// SerialPort is the write half of the serial collaborator. A codec uses
// it only when no send callback is registered.
type SerialPort interface {
	Write(data []byte) (int, error)
}

// Codec is the capability set shared by all four protocol variants.
// A codec is selected at configuration time and bound to one serial
// collaborator; instances are not safe for concurrent use.
type Codec interface {
	// Initialize clears the parse buffer and marks the codec ready.
	// Idempotent.
	Initialize() bool
	// Shutdown marks the codec not ready. Safe at any lifecycle point.
	Shutdown()
	// Start returns the current readiness flag.
	Start() bool
	// Stop is a no-op; no supported protocol has a handshake teardown.
	Stop()

	// SetChannel emits a frequency-set command followed by a mode-set
	// command and stores the channel as current state. Returns false,
	// emitting nothing, unless the codec is ready and a send
	// destination exists. The two commands are not atomic: if the link
	// drops between them the radio ends up frequency/mode mismatched.
	SetChannel(ch Channel) bool
	// GetChannel returns the last channel accepted by SetChannel, not
	// a read from the radio.
	GetChannel() Channel

	// SetPTT keys or unkeys the transmitter. No-op when not ready.
	// The transmitting flag is updated optimistically; delivery is not
	// confirmed.
	SetPTT(transmit bool)
	IsTransmitting() bool

	IsReady() bool
	// PortConfig returns the protocol's default serial parameters as
	// "baud,parity,data_bits,stop_bits", e.g. "9600,n,8,1".
	PortConfig() string

	// RegisterSendCallback installs the byte sink for outgoing frames.
	// At most one callback is held; registering replaces the previous.
	RegisterSendCallback(fn SendFunc)
	// RegisterAckCallback installs the acknowledgment callback.
	RegisterAckCallback(fn AckFunc)

	// ProcessResponse feeds received bytes into the parser. It may fire
	// the ack callback zero or more times, never blocks, and carries
	// partial-frame state across calls.
	ProcessResponse(data []byte)
}

// maxResponseBuffer bounds parse buffer growth on a noisy or malformed
// stream. Overflow clears the buffer silently, dropping the partial
// frame.
const maxResponseBuffer = 256

// sendBytes delivers an outgoing frame: the send callback wins over the
// serial port, and with neither registered the bytes are dropped.
func sendBytes(send SendFunc, port SerialPort, data []byte) {
	if send != nil {
		send(data)
		return
	}
	if port != nil {
		port.Write(data)
	}
}

// sendASCII delivers a complete semicolon-terminated ASCII command.
// Shared by the Kenwood codec and the Elecraft extensions.
func sendASCII(send SendFunc, port SerialPort, cmd string) {
	sendBytes(send, port, []byte(cmd))
}

// New returns the codec for a protocol name from configuration.
// civAddress is only meaningful for the Icom CI-V protocol. The variant
// is fixed for the life of the instance.
func New(protocol string, port SerialPort, civAddress byte) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "kenwood":
		return NewKenwood(port), nil
	case "elecraft":
		return NewElecraft(port), nil
	case "icom", "ci-v", "civ":
		return NewIcomCIV(port, civAddress), nil
	case "yaesu", "cat":
		return NewYaesuCAT(port), nil
	}
	return nil, fmt.Errorf("unknown radio protocol: %q", protocol)
}

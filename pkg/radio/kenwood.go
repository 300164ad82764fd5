package radio

import "fmt"

// Kenwood native mode codes (TS-480/TS-590/TS-890 CAT reference).
const (
	kenwoodLSB  = 1
	kenwoodUSB  = 2
	kenwoodCW   = 3
	kenwoodFM   = 4
	kenwoodAM   = 5
	kenwoodFSK  = 6
	kenwoodCWR  = 7
	kenwoodFSKR = 9
)

// Kenwood implements the ASCII semicolon-terminated CAT protocol:
//
//	FA00014250000;  set VFO A to 14.250 MHz
//	MD2;            set USB
//	TX; / RX;       key / unkey
//
// Covers the TS-480, TS-590, TS-890, TS-990 and compatibles.
type Kenwood struct {
	port SerialPort

	current      Channel
	transmitting bool
	ready        bool

	send SendFunc
	ack  AckFunc

	rxBuf []byte
}

// NewKenwood returns a Kenwood codec bound to the given serial port.
// The port may be nil when a send callback will be registered instead.
func NewKenwood(port SerialPort) *Kenwood {
	return &Kenwood{port: port}
}

func (k *Kenwood) Initialize() bool {
	k.rxBuf = k.rxBuf[:0]
	k.ready = true
	return true
}

func (k *Kenwood) Shutdown() {
	k.ready = false
}

func (k *Kenwood) Start() bool {
	return k.ready
}

func (k *Kenwood) Stop() {}

func (k *Kenwood) SetChannel(ch Channel) bool {
	if !k.ready || (k.send == nil && k.port == nil) {
		return false
	}

	// Frequency on VFO A, then mode.
	k.sendCommand(buildKenwoodFreq('A', ch.RxFrequency))
	k.sendCommand(buildKenwoodMode(ch.RxMode))

	k.current = ch
	return true
}

func (k *Kenwood) GetChannel() Channel {
	return k.current
}

func (k *Kenwood) SetPTT(transmit bool) {
	if !k.ready {
		return
	}

	if transmit {
		k.sendCommand("TX;")
	} else {
		k.sendCommand("RX;")
	}
	k.transmitting = transmit
}

func (k *Kenwood) IsTransmitting() bool {
	return k.transmitting
}

func (k *Kenwood) IsReady() bool {
	return k.ready
}

func (k *Kenwood) PortConfig() string {
	return "9600,n,8,1"
}

func (k *Kenwood) RegisterSendCallback(fn SendFunc) {
	k.send = fn
}

func (k *Kenwood) RegisterAckCallback(fn AckFunc) {
	k.ack = fn
}

// ProcessResponse accumulates bytes until a semicolon completes a
// frame. Each complete frame fires the ack callback once. Frames are
// not otherwise interpreted.
func (k *Kenwood) ProcessResponse(data []byte) {
	for _, b := range data {
		k.rxBuf = append(k.rxBuf, b)

		if b == ';' {
			if k.ack != nil {
				k.ack()
			}
			k.rxBuf = k.rxBuf[:0]
		}

		if len(k.rxBuf) > maxResponseBuffer {
			k.rxBuf = k.rxBuf[:0]
		}
	}
}

func (k *Kenwood) sendCommand(cmd string) {
	sendASCII(k.send, k.port, cmd)
}

// buildKenwoodFreq formats F<vfo><11-digit Hz>; e.g. FA00014250000;
func buildKenwoodFreq(vfo byte, freqHz uint32) string {
	return fmt.Sprintf("F%c%011d;", vfo, freqHz)
}

func buildKenwoodMode(mode Mode) string {
	return fmt.Sprintf("MD%d;", modeToKenwood(mode))
}

// modeToKenwood maps a mode onto the Kenwood code set. RTTY has no code
// of its own and collapses to FSK; the DATA variants collapse to their
// sideband. Unmapped modes fall back to USB.
func modeToKenwood(mode Mode) int {
	switch mode {
	case ModeLSB:
		return kenwoodLSB
	case ModeUSB:
		return kenwoodUSB
	case ModeCW:
		return kenwoodCW
	case ModeFM:
		return kenwoodFM
	case ModeAM:
		return kenwoodAM
	case ModeFSK:
		return kenwoodFSK
	case ModeRTTY:
		return kenwoodFSK
	case ModeCWR:
		return kenwoodCWR
	case ModeFSKR:
		return kenwoodFSKR
	case ModeDataUSB:
		return kenwoodUSB
	case ModeDataLSB:
		return kenwoodLSB
	default:
		return kenwoodUSB
	}
}

// kenwoodToMode is the reverse mapping. The collapses above are
// permanent: the FSK code always comes back as ModeFSK, never ModeRTTY.
// Unknown codes come back as USB.
func kenwoodToMode(code int) Mode {
	switch code {
	case kenwoodLSB:
		return ModeLSB
	case kenwoodUSB:
		return ModeUSB
	case kenwoodCW:
		return ModeCW
	case kenwoodFM:
		return ModeFM
	case kenwoodAM:
		return ModeAM
	case kenwoodFSK:
		return ModeFSK
	case kenwoodCWR:
		return ModeCWR
	case kenwoodFSKR:
		return ModeFSKR
	default:
		return ModeUSB
	}
}

package radio

// CI-V framing constants.
const (
	civPreamble   byte = 0xFE
	civEOM        byte = 0xFD // end of message
	civController byte = 0xE0 // default controller address
	civAck        byte = 0xFB
	civNak        byte = 0xFA
)

// CI-V command codes.
const (
	civReadFreq byte = 0x03
	civReadMode byte = 0x04
	civSetFreq  byte = 0x05 // frequency data in BCD
	civSetMode  byte = 0x06
	civSetVFO   byte = 0x07
	civPTT      byte = 0x1C // subcommand 0x00
)

// CI-V mode codes.
const (
	civModeLSB   byte = 0x00
	civModeUSB   byte = 0x01
	civModeAM    byte = 0x02
	civModeCW    byte = 0x03
	civModeRTTY  byte = 0x04
	civModeFM    byte = 0x05
	civModeCWR   byte = 0x07
	civModeRTTYR byte = 0x08
)

// Factory-default CI-V addresses for common Icom models.
const (
	AddrIC718  byte = 0x5E
	AddrIC7000 byte = 0x70
	AddrIC7100 byte = 0x88
	AddrIC7200 byte = 0x76
	AddrIC7300 byte = 0x94
	AddrIC7610 byte = 0x98
	AddrIC9700 byte = 0xA2
)

// IcomCIV implements Icom's binary addressed CI-V protocol:
//
//	FE FE <radio> <controller> <cmd> [subcmd] [data...] FD
//
// Frequencies travel as 5-byte BCD, least significant byte first, at
// 1 Hz resolution.
type IcomCIV struct {
	port           SerialPort
	radioAddr      byte
	controllerAddr byte

	current      Channel
	transmitting bool
	ready        bool

	send SendFunc
	ack  AckFunc

	rxBuf []byte
}

// NewIcomCIV returns a CI-V codec for the radio at the given bus
// address (e.g. AddrIC7300).
func NewIcomCIV(port SerialPort, radioAddr byte) *IcomCIV {
	return &IcomCIV{
		port:           port,
		radioAddr:      radioAddr,
		controllerAddr: civController,
	}
}

func (c *IcomCIV) Initialize() bool {
	c.rxBuf = c.rxBuf[:0]
	c.ready = true
	return true
}

func (c *IcomCIV) Shutdown() {
	c.ready = false
}

func (c *IcomCIV) Start() bool {
	return c.ready
}

func (c *IcomCIV) Stop() {}

func (c *IcomCIV) SetChannel(ch Channel) bool {
	if !c.ready || (c.send == nil && c.port == nil) {
		return false
	}

	var bcd [5]byte
	freqToBCD(ch.RxFrequency, bcd[:])
	c.sendFrame(c.buildFrame(civSetFreq, bcd[:]))

	c.sendFrame(c.buildFrame(civSetMode, []byte{modeToCIV(ch.RxMode)}))

	c.current = ch
	return true
}

func (c *IcomCIV) GetChannel() Channel {
	return c.current
}

func (c *IcomCIV) SetPTT(transmit bool) {
	if !c.ready {
		return
	}

	data := byte(0x00)
	if transmit {
		data = 0x01
	}
	c.sendFrame(c.buildFrameSub(civPTT, 0x00, []byte{data}))

	c.transmitting = transmit
}

func (c *IcomCIV) IsTransmitting() bool {
	return c.transmitting
}

func (c *IcomCIV) IsReady() bool {
	return c.ready
}

func (c *IcomCIV) PortConfig() string {
	// Default for current models; older rigs run 1200 or 4800.
	return "9600,n,8,1"
}

func (c *IcomCIV) RegisterSendCallback(fn SendFunc) {
	c.send = fn
}

func (c *IcomCIV) RegisterAckCallback(fn AckFunc) {
	c.ack = fn
}

// RadioAddress returns the configured CI-V bus address.
func (c *IcomCIV) RadioAddress() byte {
	return c.radioAddr
}

// ProcessResponse accumulates bytes until the 0xFD end marker. A frame
// of at least 6 bytes starting with the double preamble is inspected
// for an ACK (0xFB) at offset 4, which fires the ack callback. A NAK
// (0xFA) is recognized but has no further handling. The buffer is
// cleared after every terminator, valid or not.
func (c *IcomCIV) ProcessResponse(data []byte) {
	for _, b := range data {
		c.rxBuf = append(c.rxBuf, b)

		if b == civEOM {
			if len(c.rxBuf) >= 6 &&
				c.rxBuf[0] == civPreamble &&
				c.rxBuf[1] == civPreamble {
				switch c.rxBuf[4] {
				case civAck:
					if c.ack != nil {
						c.ack()
					}
				case civNak:
					// Recognized, not handled.
				}
			}
			c.rxBuf = c.rxBuf[:0]
		}

		if len(c.rxBuf) > maxResponseBuffer {
			c.rxBuf = c.rxBuf[:0]
		}
	}
}

func (c *IcomCIV) buildFrame(cmd byte, data []byte) []byte {
	frame := make([]byte, 0, 6+len(data))
	frame = append(frame, civPreamble, civPreamble, c.radioAddr, c.controllerAddr, cmd)
	frame = append(frame, data...)
	return append(frame, civEOM)
}

func (c *IcomCIV) buildFrameSub(cmd, subcmd byte, data []byte) []byte {
	frame := make([]byte, 0, 7+len(data))
	frame = append(frame, civPreamble, civPreamble, c.radioAddr, c.controllerAddr, cmd, subcmd)
	frame = append(frame, data...)
	return append(frame, civEOM)
}

func (c *IcomCIV) sendFrame(frame []byte) {
	sendBytes(c.send, c.port, frame)
}

// freqToBCD encodes a frequency in Hz as BCD, least significant byte
// first, two digits per byte: 14250000 Hz -> 00 00 25 14 00.
func freqToBCD(freqHz uint32, bcd []byte) {
	for i := range bcd {
		lo := byte(freqHz % 10)
		freqHz /= 10
		hi := byte(freqHz % 10)
		freqHz /= 10
		bcd[i] = hi<<4 | lo
	}
}

// bcdToFreq decodes the encoding above.
func bcdToFreq(bcd []byte) uint32 {
	var freq, mult uint32 = 0, 1
	for _, b := range bcd {
		freq += uint32(b&0x0F) * mult
		mult *= 10
		freq += uint32(b>>4) * mult
		mult *= 10
	}
	return freq
}

// modeToCIV maps a mode onto the CI-V code set. FSK collapses to the
// Icom RTTY code, FSK-R to RTTY-R, and the DATA variants to their
// sideband. Unmapped modes fall back to USB.
func modeToCIV(mode Mode) byte {
	switch mode {
	case ModeLSB:
		return civModeLSB
	case ModeUSB:
		return civModeUSB
	case ModeAM:
		return civModeAM
	case ModeCW:
		return civModeCW
	case ModeRTTY:
		return civModeRTTY
	case ModeFM:
		return civModeFM
	case ModeCWR:
		return civModeCWR
	case ModeFSK:
		return civModeRTTY
	case ModeFSKR:
		return civModeRTTYR
	case ModeDataLSB:
		return civModeLSB
	case ModeDataUSB:
		return civModeUSB
	default:
		return civModeUSB
	}
}

// civToMode is the reverse mapping: the RTTY code always comes back as
// ModeRTTY (the FSK collapse is one-way), RTTY-R comes back as FSK-R.
func civToMode(code byte) Mode {
	switch code {
	case civModeLSB:
		return ModeLSB
	case civModeUSB:
		return ModeUSB
	case civModeAM:
		return ModeAM
	case civModeCW:
		return ModeCW
	case civModeRTTY:
		return ModeRTTY
	case civModeFM:
		return ModeFM
	case civModeCWR:
		return ModeCWR
	case civModeRTTYR:
		return ModeFSKR
	default:
		return ModeUSB
	}
}

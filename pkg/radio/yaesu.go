package radio

// Yaesu CAT opcodes (FT-817/857/897/991 family). A command is always
// exactly five bytes: four parameters followed by the opcode.
const (
	yaesuLockOn   byte = 0x00
	yaesuSetFreq  byte = 0x01
	yaesuSplitOn  byte = 0x02
	yaesuReadFreq byte = 0x03
	yaesuSetMode  byte = 0x07
	yaesuPTTOn    byte = 0x08
	yaesuPowerOn  byte = 0x0F
	yaesuLockOff  byte = 0x80
	yaesuSplitOff byte = 0x82
	yaesuPTTOff   byte = 0x88
	yaesuPowerOff byte = 0x8F
)

// Yaesu mode codes. The digital USB/LSB variants share the DIG code;
// on the rig they differ only by a filter menu setting, so the three
// names are numerically identical here.
const (
	yaesuModeLSB    byte = 0x00
	yaesuModeUSB    byte = 0x01
	yaesuModeCW     byte = 0x02
	yaesuModeCWR    byte = 0x03
	yaesuModeAM     byte = 0x04
	yaesuModeFM     byte = 0x08
	yaesuModeDIG    byte = 0x0A
	yaesuModePKT    byte = 0x0C
	yaesuModeDigUSB byte = 0x0A
	yaesuModeDigLSB byte = 0x0A
)

// YaesuCAT implements the fixed 5-byte Yaesu CAT protocol:
//
//	[P1 P2 P3 P4 CMD]
//
// There is no preamble or terminator; framing is byte count alone, so a
// dropped byte desynchronizes the link until it is reopened. Frequency
// travels as 4-byte packed BCD, most significant byte first, at 10 Hz
// resolution (the lowest decimal digit is truncated, not rounded).
type YaesuCAT struct {
	port SerialPort

	current      Channel
	transmitting bool
	ready        bool

	send SendFunc
	ack  AckFunc
}

// NewYaesuCAT returns a Yaesu codec bound to the given serial port.
func NewYaesuCAT(port SerialPort) *YaesuCAT {
	return &YaesuCAT{port: port}
}

func (y *YaesuCAT) Initialize() bool {
	y.ready = true
	return true
}

func (y *YaesuCAT) Shutdown() {
	y.ready = false
}

func (y *YaesuCAT) Start() bool {
	return y.ready
}

func (y *YaesuCAT) Stop() {}

func (y *YaesuCAT) SetChannel(ch Channel) bool {
	if !y.ready || (y.send == nil && y.port == nil) {
		return false
	}

	// 14250000 Hz -> 1425000 (10 Hz units) -> 01 42 50 00 01
	var bcd [4]byte
	freqToPackedBCD(ch.RxFrequency, &bcd)
	y.sendCommand(buildYaesuCommand(yaesuSetFreq, bcd[0], bcd[1], bcd[2], bcd[3]))

	y.sendCommand(buildYaesuCommand(yaesuSetMode, modeToYaesu(ch.RxMode), 0, 0, 0))

	y.current = ch
	return true
}

func (y *YaesuCAT) GetChannel() Channel {
	return y.current
}

func (y *YaesuCAT) SetPTT(transmit bool) {
	if !y.ready {
		return
	}

	if transmit {
		y.sendCommand(buildYaesuCommand(yaesuPTTOn, 0, 0, 0, 0))
	} else {
		y.sendCommand(buildYaesuCommand(yaesuPTTOff, 0, 0, 0, 0))
	}
	y.transmitting = transmit
}

func (y *YaesuCAT) IsTransmitting() bool {
	return y.transmitting
}

func (y *YaesuCAT) IsReady() bool {
	return y.ready
}

func (y *YaesuCAT) PortConfig() string {
	// Two stop bits is the common Yaesu default.
	return "9600,n,8,2"
}

func (y *YaesuCAT) RegisterSendCallback(fn SendFunc) {
	y.send = fn
}

func (y *YaesuCAT) RegisterAckCallback(fn AckFunc) {
	y.ack = fn
}

// ProcessResponse fires the ack callback on any non-empty receipt
// without inspecting content. The protocol returns bare status bytes
// with no framing to validate, which makes this deliberately weaker
// than the other parsers.
func (y *YaesuCAT) ProcessResponse(data []byte) {
	if len(data) > 0 && y.ack != nil {
		y.ack()
	}
}

func buildYaesuCommand(cmd, p1, p2, p3, p4 byte) []byte {
	return []byte{p1, p2, p3, p4, cmd}
}

func (y *YaesuCAT) sendCommand(cmd []byte) {
	sendBytes(y.send, y.port, cmd)
}

// freqToPackedBCD encodes a frequency as packed BCD, MSB first, in
// 10 Hz units. The units digit of the Hz value is discarded.
func freqToPackedBCD(freqHz uint32, bcd *[4]byte) {
	f := freqHz / 10
	bcd[0] = byte(f/10000000%10)<<4 | byte(f/1000000%10)
	bcd[1] = byte(f/100000%10)<<4 | byte(f/10000%10)
	bcd[2] = byte(f/1000%10)<<4 | byte(f/100%10)
	bcd[3] = byte(f/10%10)<<4 | byte(f%10)
}

// packedBCDToFreq decodes the encoding above back to Hz.
func packedBCDToFreq(bcd *[4]byte) uint32 {
	var f uint32
	f += uint32(bcd[0]>>4)*10000000 + uint32(bcd[0]&0x0F)*1000000
	f += uint32(bcd[1]>>4)*100000 + uint32(bcd[1]&0x0F)*10000
	f += uint32(bcd[2]>>4)*1000 + uint32(bcd[2]&0x0F)*100
	f += uint32(bcd[3]>>4)*10 + uint32(bcd[3]&0x0F)
	return f * 10
}

// modeToYaesu maps a mode onto the Yaesu code set. FSK and RTTY both
// collapse to the digital code; the DATA variants get the (identical)
// digital USB/LSB codes. Unmapped modes fall back to USB.
func modeToYaesu(mode Mode) byte {
	switch mode {
	case ModeLSB:
		return yaesuModeLSB
	case ModeUSB:
		return yaesuModeUSB
	case ModeCW:
		return yaesuModeCW
	case ModeCWR:
		return yaesuModeCWR
	case ModeAM:
		return yaesuModeAM
	case ModeFM:
		return yaesuModeFM
	case ModeDigital:
		return yaesuModeDIG
	case ModeFSK:
		return yaesuModeDIG
	case ModeRTTY:
		return yaesuModeDIG
	case ModeDataUSB:
		return yaesuModeDigUSB
	case ModeDataLSB:
		return yaesuModeDigLSB
	default:
		return yaesuModeUSB
	}
}

// yaesuToMode is the reverse mapping: the digital code always comes
// back as ModeDigital, PKT as ModeFSK. Unknown codes come back as USB.
func yaesuToMode(code byte) Mode {
	switch code {
	case yaesuModeLSB:
		return ModeLSB
	case yaesuModeUSB:
		return ModeUSB
	case yaesuModeCW:
		return ModeCW
	case yaesuModeCWR:
		return ModeCWR
	case yaesuModeAM:
		return ModeAM
	case yaesuModeFM:
		return ModeFM
	case yaesuModeDIG:
		return ModeDigital
	case yaesuModePKT:
		return ModeFSK
	default:
		return ModeUSB
	}
}

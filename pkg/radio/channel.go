package radio

import "strings"

// Mode is the protocol-independent operating mode. Each CAT codec maps
// this set onto its own native mode codes; some mappings are lossy (a
// radio may have one code for several of these).
type Mode int

const (
	ModeLSB Mode = iota
	ModeUSB
	ModeCW
	ModeFM
	ModeFMW
	ModeAM
	ModeFSK
	ModeRTTY
	ModeCWR
	ModeTune
	ModeFSKR
	ModeDigital
	ModeDataLSB
	ModeDataUSB
	ModeUnknown
)

// String returns the conventional name for a mode
func (m Mode) String() string {
	switch m {
	case ModeLSB:
		return "LSB"
	case ModeUSB:
		return "USB"
	case ModeCW:
		return "CW"
	case ModeFM:
		return "FM"
	case ModeFMW:
		return "FMW"
	case ModeAM:
		return "AM"
	case ModeFSK:
		return "FSK"
	case ModeRTTY:
		return "RTTY"
	case ModeCWR:
		return "CW-R"
	case ModeTune:
		return "TUNE"
	case ModeFSKR:
		return "FSK-R"
	case ModeDigital:
		return "DIG"
	case ModeDataLSB:
		return "DATA-L"
	case ModeDataUSB:
		return "DATA-U"
	default:
		return "UNKNOWN"
	}
}

// ParseMode parses a mode name as used in config files and the API.
// Unrecognized names return ModeUnknown.
func ParseMode(s string) Mode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LSB":
		return ModeLSB
	case "USB":
		return ModeUSB
	case "CW":
		return ModeCW
	case "FM":
		return ModeFM
	case "FMW", "WFM":
		return ModeFMW
	case "AM":
		return ModeAM
	case "FSK":
		return ModeFSK
	case "RTTY":
		return ModeRTTY
	case "CW-R", "CWR":
		return ModeCWR
	case "TUNE":
		return ModeTune
	case "FSK-R", "FSKR":
		return ModeFSKR
	case "DIG", "DIGITAL":
		return ModeDigital
	case "DATA-L", "DATA-LSB":
		return ModeDataLSB
	case "DATA-U", "DATA-USB":
		return ModeDataUSB
	default:
		return ModeUnknown
	}
}

// Channel describes one radio channel. Frequencies are in Hz with 0
// meaning unset. No range check is applied here: a frequency wider than
// a protocol's digit width wraps or truncates per that codec's
// arithmetic.
type Channel struct {
	ID          uint8  `json:"id"`
	TxFrequency uint32 `json:"tx_frequency"`
	RxFrequency uint32 `json:"rx_frequency"`
	TxMode      Mode   `json:"tx_mode"`
	RxMode      Mode   `json:"rx_mode"`
	Antenna     int    `json:"antenna"`     // 1-4
	Power       int    `json:"power"`       // 0-100 percent
	Attenuation int    `json:"attenuation"` // RX attenuation, dB
	InUse       bool   `json:"in_use"`
}

// Package serial provides the serial port collaborator the CAT codecs
// write through, plus parsing of the "baud,parity,data_bits,stop_bits"
// strings each codec reports as its default port configuration.
package serial

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	bugst "go.bug.st/serial"
)

// Parity settings.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "o"
	case ParityEven:
		return "e"
	default:
		return "n"
	}
}

// Config describes serial port parameters.
type Config struct {
	BaudRate    int
	Parity      Parity
	DataBits    int
	StopBits    int // 1 or 2
	ReadTimeout time.Duration
}

// String renders the config back into codec port-string form.
func (c Config) String() string {
	return fmt.Sprintf("%d,%s,%d,%d", c.BaudRate, c.Parity, c.DataBits, c.StopBits)
}

// ParsePortString parses a port configuration string such as
// "9600,n,8,1" into a Config.
func ParsePortString(s string) (Config, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Config{}, fmt.Errorf("invalid port string %q: want baud,parity,data_bits,stop_bits", s)
	}

	baud, err := strconv.Atoi(parts[0])
	if err != nil || baud <= 0 {
		return Config{}, fmt.Errorf("invalid baud rate %q", parts[0])
	}

	var parity Parity
	switch strings.ToLower(parts[1]) {
	case "n":
		parity = ParityNone
	case "o":
		parity = ParityOdd
	case "e":
		parity = ParityEven
	default:
		return Config{}, fmt.Errorf("invalid parity %q: want n, o or e", parts[1])
	}

	dataBits, err := strconv.Atoi(parts[2])
	if err != nil || dataBits < 5 || dataBits > 8 {
		return Config{}, fmt.Errorf("invalid data bits %q", parts[2])
	}

	stopBits, err := strconv.Atoi(parts[3])
	if err != nil || (stopBits != 1 && stopBits != 2) {
		return Config{}, fmt.Errorf("invalid stop bits %q", parts[3])
	}

	return Config{
		BaudRate: baud,
		Parity:   parity,
		DataBits: dataBits,
		StopBits: stopBits,
	}, nil
}

// Port is the serial transport contract. Write is all a codec needs;
// the rest serves the daemon's read pump and key-line PTT.
type Port interface {
	Write(data []byte) (int, error)
	Read(buf []byte) (int, error)
	SetRTS(state bool) error
	SetDTR(state bool) error
	Flush() error
	Close() error
}

// Open opens a hardware serial port with the given parameters.
func Open(device string, cfg Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}

	switch cfg.Parity {
	case ParityOdd:
		mode.Parity = bugst.OddParity
	case ParityEven:
		mode.Parity = bugst.EvenParity
	default:
		mode.Parity = bugst.NoParity
	}

	if cfg.StopBits == 2 {
		mode.StopBits = bugst.TwoStopBits
	} else {
		mode.StopBits = bugst.OneStopBit
	}

	p, err := bugst.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}

	timeout := cfg.ReadTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", device, err)
	}

	return &hwPort{p: p}, nil
}

// hwPort adapts go.bug.st/serial to the Port interface.
type hwPort struct {
	p bugst.Port
}

func (h *hwPort) Write(data []byte) (int, error) {
	return h.p.Write(data)
}

func (h *hwPort) Read(buf []byte) (int, error) {
	return h.p.Read(buf)
}

func (h *hwPort) SetRTS(state bool) error {
	return h.p.SetRTS(state)
}

func (h *hwPort) SetDTR(state bool) error {
	return h.p.SetDTR(state)
}

func (h *hwPort) Flush() error {
	if err := h.p.ResetInputBuffer(); err != nil {
		return err
	}
	return h.p.ResetOutputBuffer()
}

func (h *hwPort) Close() error {
	return h.p.Close()
}

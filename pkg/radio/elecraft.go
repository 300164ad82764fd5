package radio

import "fmt"

// Elecraft radios (K2, K3, K3S, KX2, KX3) speak the Kenwood ASCII
// protocol with extensions. The codec composes the Kenwood behavior and
// adds power and antenna commands; only the default port speed differs,
// Elecraft ships at 38400 baud.
type Elecraft struct {
	*Kenwood
}

// NewElecraft returns an Elecraft codec bound to the given serial port.
func NewElecraft(port SerialPort) *Elecraft {
	return &Elecraft{Kenwood: NewKenwood(port)}
}

func (e *Elecraft) PortConfig() string {
	return "38400,n,8,1"
}

// SetPower sets output power in watts: PC005; for 5 W.
func (e *Elecraft) SetPower(watts int) {
	e.sendCommand(fmt.Sprintf("PC%03d;", watts))
}

// SetAntenna selects antenna 1 or 2: AN1;
func (e *Elecraft) SetAntenna(ant int) {
	e.sendCommand(fmt.Sprintf("AN%d;", ant))
}

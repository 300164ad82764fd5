package radio

import "testing"

func TestElecraftPortConfig(t *testing.T) {
	e := NewElecraft(nil)
	if got := e.PortConfig(); got != "38400,n,8,1" {
		t.Errorf("PortConfig = %q, want %q", got, "38400,n,8,1")
	}
}

func TestElecraftExtensions(t *testing.T) {
	e := NewElecraft(nil)
	sent := captureSends(e)
	e.Initialize()

	e.SetPower(5)
	e.SetPower(100)
	e.SetAntenna(2)

	want := []string{"PC005;", "PC100;", "AN2;"}
	if len(*sent) != len(want) {
		t.Fatalf("Expected %d commands, got %d", len(want), len(*sent))
	}
	for i, w := range want {
		if got := string((*sent)[i]); got != w {
			t.Errorf("Command %d = %q, want %q", i, got, w)
		}
	}
}

func TestElecraftInheritsKenwoodBehavior(t *testing.T) {
	e := NewElecraft(nil)
	sent := captureSends(e)
	e.Initialize()

	if !e.SetChannel(Channel{RxFrequency: 14250000, RxMode: ModeUSB}) {
		t.Fatal("SetChannel failed on a ready codec")
	}
	if got := string((*sent)[0]); got != "FA00014250000;" {
		t.Errorf("Frequency command = %q, want %q", got, "FA00014250000;")
	}

	acks := 0
	e.RegisterAckCallback(func() { acks++ })
	e.ProcessResponse([]byte("PC005;"))
	if acks != 1 {
		t.Errorf("Expected semicolon framing from the Kenwood parser, got %d acks", acks)
	}
}

package radio

import (
	"bytes"
	"testing"
)

func TestYaesuSetChannel(t *testing.T) {
	c := NewYaesuCAT(nil)
	sent := captureSends(c)
	c.Initialize()

	if !c.SetChannel(Channel{RxFrequency: 14250000, RxMode: ModeUSB}) {
		t.Fatal("SetChannel failed on a ready codec")
	}

	if len(*sent) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(*sent))
	}

	wantFreq := []byte{0x01, 0x42, 0x50, 0x00, 0x01}
	if !bytes.Equal((*sent)[0], wantFreq) {
		t.Errorf("Frequency command = % X, want % X", (*sent)[0], wantFreq)
	}

	wantMode := []byte{0x01, 0x00, 0x00, 0x00, 0x07}
	if !bytes.Equal((*sent)[1], wantMode) {
		t.Errorf("Mode command = % X, want % X", (*sent)[1], wantMode)
	}
}

func TestYaesuPTT(t *testing.T) {
	c := NewYaesuCAT(nil)
	sent := captureSends(c)
	c.Initialize()

	c.SetPTT(true)
	if !c.IsTransmitting() {
		t.Error("Expected transmitting after PTT on")
	}
	c.SetPTT(false)

	wantOn := []byte{0x00, 0x00, 0x00, 0x00, 0x08}
	wantOff := []byte{0x00, 0x00, 0x00, 0x00, 0x88}
	if !bytes.Equal((*sent)[0], wantOn) {
		t.Errorf("PTT on = % X, want % X", (*sent)[0], wantOn)
	}
	if !bytes.Equal((*sent)[1], wantOff) {
		t.Errorf("PTT off = % X, want % X", (*sent)[1], wantOff)
	}
}

func TestYaesuPackedBCD(t *testing.T) {
	t.Run("Round Trip At 10Hz Resolution", func(t *testing.T) {
		freqs := []uint32{0, 10, 1840, 7078000, 14250000, 146520000, 439700000, 999999990}
		for _, f := range freqs {
			var bcd [4]byte
			freqToPackedBCD(f, &bcd)
			if got := packedBCDToFreq(&bcd); got != f {
				t.Errorf("Round trip of %d Hz got %d", f, got)
			}
		}
	})

	t.Run("Units Digit Truncates", func(t *testing.T) {
		var bcd [4]byte
		freqToPackedBCD(14250007, &bcd)
		if got := packedBCDToFreq(&bcd); got != 14250000 {
			t.Errorf("Expected truncation to 14250000, got %d", got)
		}
		// Truncation, not rounding.
		freqToPackedBCD(14250009, &bcd)
		if got := packedBCDToFreq(&bcd); got != 14250000 {
			t.Errorf("Expected truncation to 14250000, got %d", got)
		}
	})

	t.Run("MSB First", func(t *testing.T) {
		var bcd [4]byte
		freqToPackedBCD(14250000, &bcd)
		want := [4]byte{0x01, 0x42, 0x50, 0x00}
		if bcd != want {
			t.Errorf("BCD = % X, want % X", bcd[:], want[:])
		}
	})
}

func TestYaesuModeTable(t *testing.T) {
	if modeToYaesu(ModeFSK) != yaesuModeDIG || modeToYaesu(ModeRTTY) != yaesuModeDIG {
		t.Error("FSK and RTTY should both collapse to the digital code")
	}
	if yaesuModeDigUSB != yaesuModeDIG || yaesuModeDigLSB != yaesuModeDIG {
		t.Error("Digital USB/LSB codes should be numerically identical to DIG")
	}
	if yaesuToMode(yaesuModeDIG) != ModeDigital {
		t.Error("The digital code should come back as ModeDigital")
	}
	if yaesuToMode(yaesuModePKT) != ModeFSK {
		t.Error("PKT should come back as FSK")
	}

	collapses := map[Mode]Mode{
		ModeFSK:     ModeDigital,
		ModeRTTY:    ModeDigital,
		ModeDataUSB: ModeDigital,
		ModeDataLSB: ModeDigital,
		ModeFSKR:    ModeUSB,
		ModeFMW:     ModeUSB,
		ModeTune:    ModeUSB,
		ModeUnknown: ModeUSB,
	}
	for m := ModeLSB; m <= ModeUnknown; m++ {
		got := yaesuToMode(modeToYaesu(m))
		want, lossy := collapses[m]
		if !lossy {
			want = m
		}
		if got != want {
			t.Errorf("Mode %s round-tripped to %s, want %s", m, got, want)
		}
	}
}

func TestYaesuResponseAck(t *testing.T) {
	c := NewYaesuCAT(nil)
	c.Initialize()
	acks := 0
	c.RegisterAckCallback(func() { acks++ })

	c.ProcessResponse(nil)
	c.ProcessResponse([]byte{})
	if acks != 0 {
		t.Errorf("Empty receipts should not ack, got %d", acks)
	}

	// Any non-empty receipt counts as an acknowledgement.
	c.ProcessResponse([]byte{0x00})
	c.ProcessResponse([]byte{0xF0, 0x01})
	if acks != 2 {
		t.Errorf("Expected 2 acks, got %d", acks)
	}
}

func TestYaesuLifecycle(t *testing.T) {
	c := NewYaesuCAT(nil)

	if c.SetChannel(Channel{RxFrequency: 7078000}) {
		t.Error("SetChannel should fail before Initialize")
	}
	c.SetPTT(true)
	if c.IsTransmitting() {
		t.Error("PTT should be ignored before Initialize")
	}

	if !c.Initialize() || !c.Start() {
		t.Fatal("Initialize/Start failed")
	}
	if got := c.PortConfig(); got != "9600,n,8,2" {
		t.Errorf("PortConfig = %q, want 9600,n,8,2", got)
	}

	c.Shutdown()
	if c.IsReady() {
		t.Error("Expected not ready after Shutdown")
	}
}

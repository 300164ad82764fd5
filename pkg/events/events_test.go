package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusTypedDispatch(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.On(PTTOn, func(ev Event) { got = append(got, ev) })

	bus.EmitType(PTTOn, "radio", "keyed")
	bus.EmitType(PTTOff, "radio", "unkeyed")

	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	if got[0].Type != PTTOn || got[0].Source != "radio" || got[0].Message != "keyed" {
		t.Errorf("Unexpected event: %+v", got[0])
	}
}

func TestBusCatchAll(t *testing.T) {
	bus := NewBus()

	typed, any := 0, 0
	bus.On(ChannelChanged, func(Event) { typed++ })
	bus.OnAny(func(Event) { any++ })

	bus.EmitType(ChannelChanged, "daemon", "")
	bus.EmitType(RadioError, "radio", "timeout")
	bus.EmitType(SystemWarning, "daemon", "")

	if typed != 1 {
		t.Errorf("Typed handler ran %d times, want 1", typed)
	}
	if any != 3 {
		t.Errorf("Catch-all handler ran %d times, want 3", any)
	}
}

func TestEmitFillsTimeAndName(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.On(RadioReady, func(ev Event) { got = ev })

	before := time.Now()
	bus.Emit(Event{Type: RadioReady, Source: "radio"})

	if got.Time.Before(before) {
		t.Error("Expected a zero timestamp to be filled in")
	}
	if got.Name != "radio_ready" {
		t.Errorf("Name = %q, want radio_ready", got.Name)
	}

	// A caller-supplied timestamp is preserved.
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bus.Emit(Event{Type: RadioReady, Time: stamp})
	if !got.Time.Equal(stamp) {
		t.Errorf("Time = %v, want %v", got.Time, stamp)
	}
}

func TestTypeNames(t *testing.T) {
	names := map[Type]string{
		RadioReady:         "radio_ready",
		PTTOn:              "ptt_on",
		PTTOff:             "ptt_off",
		ChannelChanged:     "channel_changed",
		AudioOverrun:       "audio_overrun",
		ALELinkEstablished: "ale_link_established",
		ALELQAUpdate:       "ale_lqa_update",
		DataFailed:         "data_failed",
		SystemError:        "system_error",
		Type(9999):         "unknown",
	}

	for typ, want := range names {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}

func TestBusConcurrentEmit(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.OnAny(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.EmitType(DataReceived, "test", "")
			}
		}()
	}
	wg.Wait()

	if count != 800 {
		t.Errorf("Expected 800 deliveries, got %d", count)
	}
}

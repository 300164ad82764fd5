// Package events carries platform events between components. The bus
// is passed explicitly to whatever needs it; there is no process-wide
// instance.
package events

import (
	"sync"
	"time"
)

// Type identifies an event.
type Type int

const (
	// Radio events
	RadioReady Type = iota
	RadioError
	PTTOn
	PTTOff
	ChannelChanged

	// Audio events
	AudioStarted
	AudioStopped
	AudioError
	AudioOverrun
	AudioUnderrun

	// ALE events
	ALECallReceived
	ALECallSent
	ALELinkEstablished
	ALELinkTerminated
	ALESounding
	ALELQAUpdate

	// Data events
	DataReceived
	DataSent
	DataFailed

	// System events
	SystemError
	SystemWarning
)

func (t Type) String() string {
	switch t {
	case RadioReady:
		return "radio_ready"
	case RadioError:
		return "radio_error"
	case PTTOn:
		return "ptt_on"
	case PTTOff:
		return "ptt_off"
	case ChannelChanged:
		return "channel_changed"
	case AudioStarted:
		return "audio_started"
	case AudioStopped:
		return "audio_stopped"
	case AudioError:
		return "audio_error"
	case AudioOverrun:
		return "audio_overrun"
	case AudioUnderrun:
		return "audio_underrun"
	case ALECallReceived:
		return "ale_call_received"
	case ALECallSent:
		return "ale_call_sent"
	case ALELinkEstablished:
		return "ale_link_established"
	case ALELinkTerminated:
		return "ale_link_terminated"
	case ALESounding:
		return "ale_sounding"
	case ALELQAUpdate:
		return "ale_lqa_update"
	case DataReceived:
		return "data_received"
	case DataSent:
		return "data_sent"
	case DataFailed:
		return "data_failed"
	case SystemError:
		return "system_error"
	case SystemWarning:
		return "system_warning"
	default:
		return "unknown"
	}
}

// Event is one platform event.
type Event struct {
	Type    Type      `json:"-"`
	Name    string    `json:"type"`
	Time    time.Time `json:"time"`
	Source  string    `json:"source"`
	Message string    `json:"message,omitempty"`
	Code    int       `json:"code,omitempty"`
}

// Handler receives events. Handlers run synchronously on the emitting
// goroutine and must not block.
type Handler func(Event)

// Bus dispatches events to per-type and catch-all handlers. Safe for
// concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	any      []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// On registers a handler for one event type.
func (b *Bus) On(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// OnAny registers a handler for every event.
func (b *Bus) OnAny(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.any = append(b.any, h)
}

// Emit dispatches an event synchronously. A zero timestamp is filled
// in, and Name is derived from Type.
func (b *Bus) Emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	ev.Name = ev.Type.String()

	b.mu.RLock()
	typed := b.handlers[ev.Type]
	any := b.any
	b.mu.RUnlock()

	for _, h := range typed {
		h(ev)
	}
	for _, h := range any {
		h(ev)
	}
}

// EmitType dispatches a simple event with just a source and message.
func (b *Bus) EmitType(t Type, source, message string) {
	b.Emit(Event{Type: t, Source: source, Message: message})
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hfale/pald/pkg/audio"
	"github.com/hfale/pald/pkg/config"
	"github.com/hfale/pald/pkg/events"
	"github.com/hfale/pald/pkg/logging"
	"github.com/hfale/pald/pkg/radio"
	"github.com/hfale/pald/pkg/serial"
	"github.com/hfale/pald/pkg/storage"
)

// Daemon owns the radio codec, its serial link, the channel table and
// the control API.
type Daemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	bus    *events.Bus
	codec  radio.Codec
	port   serial.Port
	store  *storage.ChannelStore
	bridge *audio.Bridge

	webServer *http.Server
	hub       *wsHub

	mu        sync.RWMutex
	startTime time.Time
	lastAck   time.Time
	ackCount  uint64
}

// Status is the daemon state reported by the API.
type Status struct {
	Callsign     string        `json:"callsign"`
	Protocol     string        `json:"protocol"`
	Device       string        `json:"device"`
	PortConfig   string        `json:"port_config"`
	Ready        bool          `json:"ready"`
	Transmitting bool          `json:"transmitting"`
	Channel      radio.Channel `json:"channel"`
	AckCount     uint64        `json:"ack_count"`
	LastAck      time.Time     `json:"last_ack,omitempty"`
	Uptime       string        `json:"uptime"`
	Version      string        `json:"version"`
}

// NewDaemon creates a daemon instance from configuration.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		bus:    events.NewBus(),
		hub:    newWSHub(),
	}

	codec, err := radio.New(cfg.Radio.Protocol, nil, cfg.Radio.CIVAddress)
	if err != nil {
		cancel()
		return nil, err
	}
	d.codec = codec

	if cfg.Radio.Device != "" {
		portString := cfg.Radio.PortOverride
		if portString == "" {
			portString = codec.PortConfig()
		}
		portCfg, err := serial.ParsePortString(portString)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("bad port configuration: %w", err)
		}

		port, err := serial.Open(cfg.Radio.Device, portCfg)
		if err != nil {
			cancel()
			return nil, err
		}
		d.port = port

		codec.RegisterSendCallback(func(data []byte) {
			if _, err := port.Write(data); err != nil {
				logging.Errorf("radio", "serial write failed: %v", err)
				d.bus.EmitType(events.RadioError, "radio", err.Error())
			}
		})
	} else {
		// No hardware configured; log outgoing frames instead.
		codec.RegisterSendCallback(func(data []byte) {
			logging.Debugf("radio", "would send % X", data)
		})
	}

	codec.RegisterAckCallback(func() {
		d.mu.Lock()
		d.ackCount++
		d.lastAck = time.Now()
		d.mu.Unlock()
	})

	bridge, err := audio.NewBridge(cfg.Audio.DeviceRate, cfg.Audio.DSPRate, cfg.Audio.BufferSize)
	if err != nil {
		cancel()
		if d.port != nil {
			d.port.Close()
		}
		return nil, fmt.Errorf("audio bridge: %w", err)
	}
	d.bridge = bridge

	if cfg.Storage.DatabasePath != "" {
		store, err := storage.NewChannelStore(cfg.Storage.DatabasePath, cfg.Storage.MaxChannels)
		if err != nil {
			cancel()
			if d.port != nil {
				d.port.Close()
			}
			return nil, err
		}
		d.store = store
	}

	d.bus.OnAny(d.hub.broadcast)

	if err := d.setupWebServer(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup web server: %w", err)
	}

	return d, nil
}

// Start starts the daemon.
func (d *Daemon) Start() error {
	d.mu.Lock()
	d.startTime = time.Now()
	d.mu.Unlock()

	if !d.codec.Initialize() {
		return fmt.Errorf("radio codec failed to initialize")
	}
	d.bus.EmitType(events.RadioReady, "radio", d.config.GetRadioName())

	if err := d.seedChannels(); err != nil {
		logging.Warnf("daemon", "channel seeding: %v", err)
	}

	if d.port != nil {
		d.wg.Add(1)
		go d.readLoop()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		addr := fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port)
		logging.Infof("daemon", "starting web server on %s", addr)
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("daemon", "web server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the daemon gracefully.
func (d *Daemon) Stop() error {
	d.cancel()

	d.codec.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := d.webServer.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("daemon", "web server shutdown: %v", err)
	}

	if d.port != nil {
		if err := d.port.Close(); err != nil {
			logging.Errorf("daemon", "serial close: %v", err)
		}
	}

	if d.store != nil {
		if err := d.store.Close(); err != nil {
			logging.Errorf("daemon", "channel store close: %v", err)
		}
	}

	d.wg.Wait()
	return nil
}

// readLoop pumps received serial bytes into the codec's parser.
func (d *Daemon) readLoop() {
	defer d.wg.Done()

	buf := make([]byte, 256)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		n, err := d.port.Read(buf)
		if err != nil {
			if d.ctx.Err() != nil {
				return
			}
			logging.Errorf("radio", "serial read failed: %v", err)
			d.bus.EmitType(events.RadioError, "radio", err.Error())
			return
		}
		if n > 0 {
			d.codec.ProcessResponse(buf[:n])
		}
	}
}

// seedChannels loads the configured channel list into the store.
func (d *Daemon) seedChannels() error {
	if d.store == nil || len(d.config.Channels) == 0 {
		return nil
	}

	for _, cc := range d.config.Channels {
		tx := cc.TxFrequency
		if tx == 0 {
			tx = cc.Frequency
		}
		mode := radio.ParseMode(cc.Mode)
		if cc.Mode == "" {
			mode = radio.ModeUSB
		}
		antenna := cc.Antenna
		if antenna == 0 {
			antenna = 1
		}
		power := cc.Power
		if power == 0 {
			power = 100
		}

		ch := storage.StoredChannel{
			Channel: radio.Channel{
				ID:          cc.ID,
				TxFrequency: tx,
				RxFrequency: cc.Frequency,
				TxMode:      mode,
				RxMode:      mode,
				Antenna:     antenna,
				Power:       power,
			},
			Name: cc.Name,
		}
		if err := d.store.Upsert(ch); err != nil {
			return err
		}
	}

	logging.Infof("daemon", "seeded %d channels", len(d.config.Channels))
	return nil
}

// SetChannel programs the radio and records the channel.
func (d *Daemon) SetChannel(ch radio.Channel) error {
	if !d.codec.SetChannel(ch) {
		return fmt.Errorf("radio is not ready")
	}
	d.bus.Emit(events.Event{
		Type:    events.ChannelChanged,
		Source:  "radio",
		Message: fmt.Sprintf("channel %d: %d Hz %s", ch.ID, ch.RxFrequency, ch.RxMode),
	})

	if d.store != nil {
		stored := storage.StoredChannel{Channel: ch}
		if existing, err := d.store.Get(ch.ID); err == nil {
			stored.Name = existing.Name
		}
		if err := d.store.Upsert(stored); err != nil {
			logging.Warnf("daemon", "channel store update: %v", err)
		}
	}
	return nil
}

// SetPTT keys or unkeys the transmitter.
func (d *Daemon) SetPTT(transmit bool) error {
	if !d.codec.IsReady() {
		return fmt.Errorf("radio is not ready")
	}

	d.codec.SetPTT(transmit)
	if transmit {
		d.bus.EmitType(events.PTTOn, "radio", "")
	} else {
		d.bus.EmitType(events.PTTOff, "radio", "")
	}
	return nil
}

// GetStatus returns a snapshot of daemon state.
func (d *Daemon) GetStatus() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Status{
		Callsign:     d.config.Station.Callsign,
		Protocol:     d.config.Radio.Protocol,
		Device:       d.config.Radio.Device,
		PortConfig:   d.codec.PortConfig(),
		Ready:        d.codec.IsReady(),
		Transmitting: d.codec.IsTransmitting(),
		Channel:      d.codec.GetChannel(),
		AckCount:     d.ackCount,
		LastAck:      d.lastAck,
		Uptime:       time.Since(d.startTime).Round(time.Second).String(),
		Version:      Version,
	}
}

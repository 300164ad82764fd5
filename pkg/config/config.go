package config

import (
	"fmt"
	"os"

	"github.com/hfale/pald/pkg/radio"
	"gopkg.in/yaml.v2"
)

// LogConfig holds the logging section.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	Structured bool   `yaml:"structured"`
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // files
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
}

// ChannelConfig seeds one entry of the channel table.
type ChannelConfig struct {
	ID          uint8  `yaml:"id"`
	Name        string `yaml:"name"`
	Frequency   uint32 `yaml:"frequency"`    // Hz, RX; also TX unless tx_frequency set
	TxFrequency uint32 `yaml:"tx_frequency"` // Hz, optional split
	Mode        string `yaml:"mode"`
	Antenna     int    `yaml:"antenna"`
	Power       int    `yaml:"power"`
}

// Config represents the pald configuration
type Config struct {
	Station struct {
		Callsign   string `yaml:"callsign"`
		ALEAddress string `yaml:"ale_address"`
	} `yaml:"station"`

	Radio struct {
		Protocol     string `yaml:"protocol"` // kenwood, elecraft, icom, yaesu
		Device       string `yaml:"device"`   // serial device path, empty = no hardware
		CIVAddress   uint8  `yaml:"civ_address"`
		PortOverride string `yaml:"port_override"` // "baud,parity,data,stop", overrides the codec default
		PollInterval int    `yaml:"poll_interval"` // ms
	} `yaml:"radio"`

	Audio struct {
		InputDevice  string `yaml:"input_device"`
		OutputDevice string `yaml:"output_device"`
		DeviceRate   int    `yaml:"device_rate"` // audio interface rate, Hz
		DSPRate      int    `yaml:"dsp_rate"`    // modem processing rate, Hz
		BufferSize   int    `yaml:"buffer_size"` // samples per callback at the device rate
	} `yaml:"audio"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Storage struct {
		DatabasePath string `yaml:"database_path"`
		MaxChannels  int    `yaml:"max_channels"`
	} `yaml:"storage"`

	Logging LogConfig `yaml:"logging"`

	Channels []ChannelConfig `yaml:"channels"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if config.Radio.Protocol == "" {
		config.Radio.Protocol = "kenwood"
	}
	if config.Radio.CIVAddress == 0 {
		config.Radio.CIVAddress = 0x94 // IC-7300 factory default
	}
	if config.Radio.PollInterval == 0 {
		config.Radio.PollInterval = 1000
	}
	if config.Audio.InputDevice == "" {
		config.Audio.InputDevice = "default"
	}
	if config.Audio.OutputDevice == "" {
		config.Audio.OutputDevice = "default"
	}
	if config.Audio.DeviceRate == 0 {
		config.Audio.DeviceRate = 48000
	}
	if config.Audio.DSPRate == 0 {
		config.Audio.DSPRate = 8000
	}
	if config.Audio.BufferSize == 0 {
		config.Audio.BufferSize = 1024
	}
	if config.Web.Port == 0 {
		config.Web.Port = 8080
	}
	if config.Web.BindAddress == "" {
		config.Web.BindAddress = "0.0.0.0"
	}
	if config.Storage.MaxChannels == 0 {
		config.Storage.MaxChannels = 100
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = 10
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = 3
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = 28
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Station.Callsign == "" {
		return fmt.Errorf("station callsign is required")
	}

	switch c.Radio.Protocol {
	case "kenwood", "elecraft", "icom", "yaesu":
	default:
		return fmt.Errorf("unknown radio protocol %q: want kenwood, elecraft, icom or yaesu", c.Radio.Protocol)
	}

	if c.Audio.DSPRate <= 0 || c.Audio.DeviceRate <= 0 {
		return fmt.Errorf("audio sample rates must be positive")
	}
	if c.Audio.DeviceRate%c.Audio.DSPRate != 0 {
		return fmt.Errorf("device rate %d is not an integer multiple of dsp rate %d",
			c.Audio.DeviceRate, c.Audio.DSPRate)
	}

	for _, ch := range c.Channels {
		if ch.Frequency == 0 {
			return fmt.Errorf("channel %d: frequency is required", ch.ID)
		}
		if radio.ParseMode(ch.Mode) == radio.ModeUnknown && ch.Mode != "" {
			return fmt.Errorf("channel %d: unknown mode %q", ch.ID, ch.Mode)
		}
		// Yaesu packed BCD tops out one decade below the others.
		if c.Radio.Protocol == "yaesu" && ch.Frequency > 999999990 {
			return fmt.Errorf("channel %d: frequency %d exceeds the Yaesu CAT range", ch.ID, ch.Frequency)
		}
	}

	return nil
}

// GetRadioName returns a printable radio description for startup logs.
func (c *Config) GetRadioName() string {
	if c.Radio.Protocol == "icom" {
		return fmt.Sprintf("icom (CI-V 0x%02X)", c.Radio.CIVAddress)
	}
	return c.Radio.Protocol
}

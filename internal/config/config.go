// Package config loads the bridge configuration using viper.
package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Config is the top-level configuration of the SDR bridge.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Radio    RadioConfig    `mapstructure:"radio" yaml:"radio"`
	Hardware HardwareConfig `mapstructure:"hardware" yaml:"hardware"`
	Rigctl   RigctlConfig   `mapstructure:"rigctl" yaml:"rigctl"`
	CAT      CATConfig      `mapstructure:"cat" yaml:"cat"`
	Feed     FeedConfig     `mapstructure:"feed" yaml:"feed"`
	Poll     PollConfig     `mapstructure:"poll" yaml:"poll"`
}

// LogConfig selects level, format and an optional rotated log file.
type LogConfig struct {
	Level  string        `mapstructure:"level" yaml:"level"`
	Format string        `mapstructure:"format" yaml:"format"` // text | json
	File   FileLogConfig `mapstructure:"file" yaml:"file"`
}

// FileLogConfig is handed to lumberjack. An empty Path disables file output.
type FileLogConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// RadioConfig seeds the shared radio state at startup.
type RadioConfig struct {
	Title      string `mapstructure:"title" yaml:"title"`
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Frequency  int64  `mapstructure:"frequency" yaml:"frequency"`
	Mode       string `mapstructure:"mode" yaml:"mode"`
	PTTControl bool   `mapstructure:"ptt_control" yaml:"ptt_control"`
}

// HardwareConfig describes the Hermes/Metis unit and how to find it.
type HardwareConfig struct {
	Enabled           bool           `mapstructure:"enabled" yaml:"enabled"`
	BroadcastAddr     string         `mapstructure:"broadcast_addr" yaml:"broadcast_addr"`
	Port              int            `mapstructure:"port" yaml:"port"`
	IP                string         `mapstructure:"ip" yaml:"ip"` // requested IP; empty keeps the DHCP address
	Clock             int64          `mapstructure:"clock" yaml:"clock"`
	CodeVersion       int            `mapstructure:"code_version" yaml:"code_version"`
	BoardID           int            `mapstructure:"board_id" yaml:"board_id"`
	Attempts          int            `mapstructure:"attempts" yaml:"attempts"`
	Delay             time.Duration  `mapstructure:"delay" yaml:"delay"`
	TransverterOffset int64          `mapstructure:"transverter_offset" yaml:"transverter_offset"`
	LNA               int            `mapstructure:"lna_db" yaml:"lna_db"`
	BandOutputs       map[string]int `mapstructure:"band_outputs" yaml:"band_outputs"`
	TxLevel           map[string]int `mapstructure:"tx_level" yaml:"tx_level"` // key "default" is used for unlisted bands
	TxReduction       int            `mapstructure:"tx_reduction" yaml:"tx_reduction"`
	DigitalTxLevel    int            `mapstructure:"digital_tx_level" yaml:"digital_tx_level"`
}

// RigctlConfig configures the rigctld-compatible TCP server.
type RigctlConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// CATConfig configures the CAT endpoint. A non-empty Device opens an
// existing serial port instead of creating a pseudo-terminal.
type CATConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	PublicName string `mapstructure:"public_name" yaml:"public_name"`
	Device     string `mapstructure:"device" yaml:"device"`
	Baud       int    `mapstructure:"baud" yaml:"baud"`
	Dialect    string `mapstructure:"dialect" yaml:"dialect"`
}

// FeedConfig configures the websocket state feed and status page.
type FeedConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// PollConfig configures the tick loop.
type PollConfig struct {
	Interval     time.Duration `mapstructure:"interval" yaml:"interval"`
	SignalBuffer int           `mapstructure:"signal_buffer" yaml:"signal_buffer"`
}

// Validate checks values that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s (must be text or json)", c.Log.Format)
	}
	if c.Radio.SampleRate <= 0 {
		return fmt.Errorf("radio.sample_rate must be positive, got %d", c.Radio.SampleRate)
	}
	if c.Hardware.Enabled {
		if c.Hardware.Port <= 0 || c.Hardware.Port > 65535 {
			return fmt.Errorf("hardware.port out of range: %d", c.Hardware.Port)
		}
		if c.Hardware.Clock < 48000 {
			return fmt.Errorf("hardware.clock too small: %d", c.Hardware.Clock)
		}
		if c.Hardware.Attempts <= 0 {
			return fmt.Errorf("hardware.attempts must be positive, got %d", c.Hardware.Attempts)
		}
		if c.Hardware.IP != "" && net.ParseIP(c.Hardware.IP).To4() == nil {
			return fmt.Errorf("hardware.ip is not an IPv4 address: %q", c.Hardware.IP)
		}
	}
	if c.Rigctl.Enabled && c.Rigctl.Listen == "" {
		return fmt.Errorf("rigctl.listen is required when rigctl is enabled")
	}
	if c.CAT.Enabled {
		if c.CAT.PublicName == "" && c.CAT.Device == "" {
			return fmt.Errorf("cat needs either public_name or device")
		}
		switch strings.ToLower(c.CAT.Dialect) {
		case "kenwood", "flex":
		default:
			return fmt.Errorf("unsupported cat dialect: %s (must be kenwood or flex)", c.CAT.Dialect)
		}
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	return nil
}

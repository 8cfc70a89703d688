package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SDRCTL_RIGCTL_LISTEN.
const EnvPrefix = "SDRCTL"

// Load reads the configuration file at path on top of the built-in defaults.
// An empty path loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Render returns the configuration as YAML.
func Render(cfg *Config) ([]byte, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return b, nil
}

// setDefaults mirrors the stock Hermes-Lite configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("radio.title", "SDR Bridge")
	v.SetDefault("radio.sample_rate", 96000)
	v.SetDefault("radio.frequency", 7012352)
	v.SetDefault("radio.mode", "LSB")
	v.SetDefault("radio.ptt_control", true)

	v.SetDefault("hardware.enabled", true)
	v.SetDefault("hardware.broadcast_addr", "255.255.255.255")
	v.SetDefault("hardware.port", 1024)
	v.SetDefault("hardware.ip", "")
	v.SetDefault("hardware.clock", 73728000)
	v.SetDefault("hardware.code_version", -1)
	v.SetDefault("hardware.board_id", -1)
	v.SetDefault("hardware.attempts", 5)
	v.SetDefault("hardware.delay", "50ms")
	v.SetDefault("hardware.transverter_offset", 0)
	v.SetDefault("hardware.lna_db", 20)
	v.SetDefault("hardware.band_outputs", map[string]int{
		"160": 0b0000001, "80": 0b0000010, "60": 0b0000100, "40": 0b0001000,
		"30": 0b0010000, "20": 0b0100000, "15": 0b1000000,
	})
	v.SetDefault("hardware.tx_level", map[string]int{"default": 255, "60": 255})
	v.SetDefault("hardware.tx_reduction", 100)
	v.SetDefault("hardware.digital_tx_level", 20)

	v.SetDefault("rigctl.enabled", true)
	v.SetDefault("rigctl.listen", "localhost:4532")

	v.SetDefault("cat.enabled", false)
	v.SetDefault("cat.public_name", "/tmp/SdrBridgeTTY0")
	v.SetDefault("cat.device", "")
	v.SetDefault("cat.baud", 9600)
	v.SetDefault("cat.dialect", "kenwood")

	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.listen", "127.0.0.1:17800")

	v.SetDefault("poll.interval", "100ms")
	v.SetDefault("poll.signal_buffer", 8)
}

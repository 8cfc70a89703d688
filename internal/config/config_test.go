package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 96000, cfg.Radio.SampleRate)
	assert.Equal(t, 1024, cfg.Hardware.Port)
	assert.Equal(t, int64(73728000), cfg.Hardware.Clock)
	assert.Equal(t, -1, cfg.Hardware.CodeVersion)
	assert.Equal(t, -1, cfg.Hardware.BoardID)
	assert.Equal(t, 5, cfg.Hardware.Attempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Hardware.Delay)
	assert.Equal(t, 0b0100000, cfg.Hardware.BandOutputs["20"])
	assert.Equal(t, "localhost:4532", cfg.Rigctl.Listen)
	assert.Equal(t, "kenwood", cfg.CAT.Dialect)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.Interval)
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
radio:
  sample_rate: 192000
  frequency: 14250000
  mode: USB
hardware:
  broadcast_addr: 192.168.2.255
  ip: 192.168.2.196
  clock: 76800000
  board_id: 6
  delay: 20ms
rigctl:
  listen: 127.0.0.1:4575
cat:
  enabled: true
  public_name: /tmp/test-tty
  dialect: flex
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 192000, cfg.Radio.SampleRate)
	assert.Equal(t, int64(14250000), cfg.Radio.Frequency)
	assert.Equal(t, "192.168.2.196", cfg.Hardware.IP)
	assert.Equal(t, int64(76800000), cfg.Hardware.Clock)
	assert.Equal(t, 6, cfg.Hardware.BoardID)
	assert.Equal(t, 20*time.Millisecond, cfg.Hardware.Delay)
	assert.Equal(t, "127.0.0.1:4575", cfg.Rigctl.Listen)
	assert.True(t, cfg.CAT.Enabled)
	assert.Equal(t, "flex", cfg.CAT.Dialect)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SDRCTL_RIGCTL_LISTEN", "0.0.0.0:4600")
	t.Setenv("SDRCTL_HARDWARE_ATTEMPTS", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:4600", cfg.Rigctl.Listen)
	assert.Equal(t, 2, cfg.Hardware.Attempts)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"log format": "log:\n  format: xml\n",
		"dialect":    "cat:\n  enabled: true\n  dialect: yaesu\n",
		"ip":         "hardware:\n  ip: not-an-ip\n",
		"port":       "hardware:\n  port: 70000\n",
		"rate":       "radio:\n  sample_rate: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestRender(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "listen: localhost:4532")
	assert.Contains(t, string(out), "public_name: /tmp/SdrBridgeTTY0")
}

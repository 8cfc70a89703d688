package app

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamlab-sdr-bridge/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Hardware.Enabled = false
	cfg.Rigctl.Listen = "127.0.0.1:0"
	cfg.Poll.Interval = 5 * time.Millisecond
	return cfg
}

func TestAppServesRigctl(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, testConfig(t), logger)
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.CATName())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	conn, err := net.Dial("tcp", a.RigctlAddr().String())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))

	_, err = conn.Write([]byte("F 14074000\n"))
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "RPRT 0\n", line)

	_, err = conn.Write([]byte("f\n"))
	require.NoError(t, err)
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "14074000\n", line)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
	assert.Equal(t, int64(14074000), a.Station().RxFrequency())
}

func TestAppRejectsBadMode(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.Radio.Mode = "SSTV"
	_, err := New(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "SSTV")
}

func TestAppHardwareMissingKeepsRunning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.Rigctl.Enabled = false
	cfg.Hardware.Enabled = true
	cfg.Hardware.BroadcastAddr = "127.0.0.1"
	cfg.Hardware.Port = freeUDPPort(t)
	cfg.Hardware.Attempts = 1
	cfg.Hardware.Delay = time.Millisecond

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "hardware unavailable")
	assert.Nil(t, a.RigctlAddr())
}

func TestAppCATOnPTY(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.Rigctl.Enabled = false
	cfg.CAT.Enabled = true
	cfg.CAT.PublicName = filepath.Join(t.TempDir(), "cat0")

	a, err := New(context.Background(), cfg, logger)
	if err != nil {
		t.Skipf("no pseudo-terminal support: %v", err)
	}
	defer a.Close()
	assert.Equal(t, cfg.CAT.PublicName, a.CATName())
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()
	return pc.LocalAddr().(*net.UDPAddr).Port
}

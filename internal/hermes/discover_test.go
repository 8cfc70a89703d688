package hermes

import (
	"context"
	"errors"
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
)

var fakeMAC = net.HardwareAddr{0x00, 0x1c, 0xc0, 0xa2, 0x13, 0xdd}

// fakeHermes answers discovery like a Hermes Lite with one reply per
// configured board ID and records set-IP commands.
type fakeHermes struct {
	conn  *net.UDPConn
	setIP chan []byte
}

func startFakeHermes(t *testing.T, firmware byte, boards ...byte) *fakeHermes {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	f := &fakeHermes{conn: conn, setIP: make(chan []byte, 4)}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 1500)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if n < 3 || buf[0] != 0xEF || buf[1] != 0xFE {
				continue
			}
			switch buf[2] {
			case 0x02:
				for _, id := range boards {
					reply := make([]byte, 60)
					reply[0], reply[1], reply[2] = 0xEF, 0xFE, 0x02
					copy(reply[3:9], fakeMAC)
					reply[9] = firmware
					reply[10] = id
					_, _ = conn.WriteToUDP(reply, from)
				}
			case 0x03:
				f.setIP <- append([]byte(nil), buf[:n]...)
			}
		}
	}()
	return f
}

func (f *fakeHermes) options() DiscoverOptions {
	return DiscoverOptions{
		BroadcastAddr: "127.0.0.1",
		Port:          f.conn.LocalAddr().(*net.UDPAddr).Port,
		Attempts:      3,
		Delay:         20 * time.Millisecond,
		CodeVersion:   -1,
		BoardID:       -1,
	}
}

func TestDiscover(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72, 6)

	resp, err := Discover(context.Background(), hw.options(), logger)
	require.NoError(t, err)

	assert.Equal(t, fakeMAC, resp.MAC)
	assert.Equal(t, byte(72), resp.Firmware)
	assert.Equal(t, byte(6), resp.BoardID)
	assert.Equal(t, "127.0.0.1", resp.IP.String())
	assert.Contains(t, resp.String(), "00:1c:c0:a2:13:dd")
}

func TestDiscoverInterface(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("receiving interface is reported on linux only")
	}
	logger, hook := test.NewNullLogger()
	hw := startFakeHermes(t, 72, 6)

	resp, err := Discover(context.Background(), hw.options(), logger)
	require.NoError(t, err)
	require.NotNil(t, resp.Interface)
	assert.NotZero(t, resp.Interface.Flags&net.FlagLoopback)
	assert.Equal(t, "127.0.0.1", resp.LocalIP.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Contains(t, entry.Message, "via "+resp.Interface.Name)
}

func loopbackInterface(t *testing.T) *net.Interface {
	t.Helper()
	ifs, err := net.Interfaces()
	require.NoError(t, err)
	for i := range ifs {
		if ifs[i].Flags&net.FlagLoopback != 0 {
			return &ifs[i]
		}
	}
	t.Skip("no loopback interface")
	return nil
}

func TestBindInterface(t *testing.T) {
	logger, _ := test.NewNullLogger()
	lo := loopbackInterface(t)

	resp := &DiscoveryResponse{IP: net.IPv4(127, 0, 0, 1).To4()}
	resp.bindInterface(nil, logger)
	assert.Nil(t, resp.Interface)
	assert.NotContains(t, resp.String(), "via")

	resp.bindInterface(&ipv4.ControlMessage{IfIndex: lo.Index}, logger)
	require.NotNil(t, resp.Interface)
	assert.Equal(t, lo.Name, resp.Interface.Name)
	assert.Equal(t, "127.0.0.1", resp.LocalIP.String())
	assert.Contains(t, resp.String(), "via "+lo.Name+" (127.0.0.1)")
}

func TestDiscoverBoardFilter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72, 1, 6)

	opts := hw.options()
	opts.BoardID = 6
	resp, err := Discover(context.Background(), opts, logger)
	require.NoError(t, err)
	assert.Equal(t, byte(6), resp.BoardID)
}

func TestDiscoverVersionFilter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72, 6)

	opts := hw.options()
	opts.CodeVersion = 40
	_, err := Discover(context.Background(), opts, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHardware))
}

func TestDiscoverNoHardware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72)

	_, err := Discover(context.Background(), hw.options(), logger)
	assert.ErrorIs(t, err, ErrNoHardware)
}

func TestDiscoverSetIP(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72, 6)

	opts := hw.options()
	opts.TargetIP = "192.168.2.196"
	resp, err := Discover(context.Background(), opts, logger)
	require.NoError(t, err)
	assert.Equal(t, "192.168.2.196", resp.IP.String())

	for i := 0; i < 2; i++ {
		select {
		case cmd := <-hw.setIP:
			require.Len(t, cmd, 73)
			assert.Equal(t, []byte{0xEF, 0xFE, 0x03}, cmd[:3])
			assert.Equal(t, []byte(fakeMAC), cmd[3:9])
			assert.Equal(t, []byte{192, 168, 2, 196}, cmd[9:13])
		case <-time.After(time.Second):
			t.Fatalf("set-IP command %d not received", i+1)
		}
	}
}

func TestDiscoverCancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hw := startFakeHermes(t, 72)

	opts := hw.options()
	opts.Attempts = 100
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Discover(ctx, opts, logger)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseReply(t *testing.T) {
	reply := make([]byte, 32)
	reply[0], reply[1] = 0xEF, 0xFE
	reply[9], reply[10] = 3, 1

	_, ok := parseReply(reply[:31], DiscoverOptions{CodeVersion: -1, BoardID: -1})
	assert.False(t, ok, "short reply")

	resp, ok := parseReply(reply, DiscoverOptions{CodeVersion: 3, BoardID: 1})
	require.True(t, ok)
	assert.Equal(t, byte(3), resp.Firmware)

	reply[1] = 0xFF
	_, ok = parseReply(reply, DiscoverOptions{CodeVersion: -1, BoardID: -1})
	assert.False(t, ok)
}

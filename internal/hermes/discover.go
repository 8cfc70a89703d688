package hermes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/ipv4"
)

// ErrNoHardware is returned when no unit answers discovery.
var ErrNoHardware = errors.New("no capture device found")

const (
	discoverRequestSize = 63
	minReplySize        = 32
	setIPGap            = 100 * time.Millisecond
)

// DiscoverOptions controls the discovery exchange.
type DiscoverOptions struct {
	BroadcastAddr string
	Port          int
	Attempts      int
	Delay         time.Duration

	// CodeVersion and BoardID filter replies when non-negative.
	CodeVersion int
	BoardID     int

	// TargetIP, when set and different from the responder, is pushed to the
	// unit with the set-IP command.
	TargetIP string
}

// DiscoveryResponse describes the unit that answered.
type DiscoveryResponse struct {
	IP       net.IP
	MAC      net.HardwareAddr
	Firmware byte
	BoardID  byte

	// Interface is the local interface the reply arrived on and LocalIP
	// our address on it. Both are nil when the platform does not report
	// the receiving interface.
	Interface *net.Interface
	LocalIP   net.IP
}

func (r *DiscoveryResponse) String() string {
	s := fmt.Sprintf("Hermes device: Mac %s, Version %d, ID %d, IP %s",
		r.MAC, r.Firmware, r.BoardID, r.IP)
	if r.Interface != nil {
		s += fmt.Sprintf(" via %s", r.Interface.Name)
		if r.LocalIP != nil {
			s += fmt.Sprintf(" (%s)", r.LocalIP)
		}
	}
	return s
}

// bindInterface records the interface a reply arrived on and picks our
// address on it, preferring the subnet that holds the unit.
func (r *DiscoveryResponse) bindInterface(cm *ipv4.ControlMessage, log logrus.FieldLogger) {
	if cm == nil || cm.IfIndex == 0 {
		return
	}
	ifi, err := net.InterfaceByIndex(cm.IfIndex)
	if err != nil {
		log.Debugf("interface %d: %v", cm.IfIndex, err)
		return
	}
	r.Interface = ifi
	addrs, err := ifi.Addrs()
	if err != nil {
		log.Debugf("addresses of %s: %v", ifi.Name, err)
	}
	var first net.IP
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.To4() == nil {
			continue
		}
		if ipnet.Contains(r.IP) {
			r.LocalIP = ipnet.IP.To4()
			return
		}
		if first == nil {
			first = ipnet.IP.To4()
		}
	}
	if dst := cm.Dst.To4(); dst != nil && !dst.Equal(net.IPv4bcast) && !dst.IsMulticast() {
		r.LocalIP = dst
		return
	}
	r.LocalIP = first
}

func discoverRequest() []byte {
	req := make([]byte, discoverRequestSize)
	req[0], req[1], req[2] = 0xEF, 0xFE, 0x02
	return req
}

func setIPCommand(mac net.HardwareAddr, ip net.IP) []byte {
	cmd := make([]byte, 0, 3+6+4+60)
	cmd = append(cmd, 0xEF, 0xFE, 0x03)
	cmd = append(cmd, mac...)
	cmd = append(cmd, ip.To4()...)
	return append(cmd, make([]byte, 60)...)
}

// parseReply validates a discovery reply against the filters.
func parseReply(data []byte, opts DiscoverOptions) (*DiscoveryResponse, bool) {
	if len(data) < minReplySize || data[0] != 0xEF || data[1] != 0xFE {
		return nil, false
	}
	if opts.CodeVersion >= 0 && int(data[9]) != opts.CodeVersion {
		return nil, false
	}
	if opts.BoardID >= 0 && int(data[10]) != opts.BoardID {
		return nil, false
	}
	mac := make(net.HardwareAddr, 6)
	copy(mac, data[3:9])
	return &DiscoveryResponse{MAC: mac, Firmware: data[9], BoardID: data[10]}, true
}

// Discover broadcasts the discovery request until a matching unit replies
// or the attempts run out. It blocks for at most Attempts*2*Delay plus the
// set-IP exchange.
func Discover(ctx context.Context, opts DiscoverOptions, log logrus.FieldLogger) (*DiscoveryResponse, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = 50 * time.Millisecond
	}
	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(opts.BroadcastAddr, strconv.Itoa(opts.Port)))
	if err != nil {
		return nil, fmt.Errorf("resolve broadcast address: %w", err)
	}

	lc := net.ListenConfig{Control: discoveryControl}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open discovery socket: %w", err)
	}
	defer pc.Close()

	conn := ipv4.NewPacketConn(pc)
	if err := conn.SetControlMessage(ipv4.FlagInterface|ipv4.FlagDst, true); err != nil {
		log.Debugf("interface control messages unavailable: %v", err)
	}

	req := discoverRequest()
	buf := make([]byte, 1500)
	for i := 0; i < opts.Attempts; i++ {
		log.Debugf("send discover %d/%d to %s", i+1, opts.Attempts, dst)
		if _, err := pc.WriteTo(req, dst); err != nil {
			log.Debugf("discover send: %v", err)
		}
		if err := sleep(ctx, opts.Delay); err != nil {
			return nil, err
		}
		if resp := readReplies(conn, buf, opts, log); resp != nil {
			if err := adoptIP(ctx, pc, dst, resp, opts.TargetIP, log); err != nil {
				return nil, err
			}
			log.Infof("%s", resp)
			return resp, nil
		}
		if err := sleep(ctx, opts.Delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("discover on %s after %d attempts: %w", dst, opts.Attempts, ErrNoHardware)
}

// readReplies drains queued datagrams and returns the first valid reply.
func readReplies(conn *ipv4.PacketConn, buf []byte, opts DiscoverOptions, log logrus.FieldLogger) *DiscoveryResponse {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, cm, src, err := conn.ReadFrom(buf)
		if err != nil {
			return nil
		}
		resp, ok := parseReply(buf[:n], opts)
		if !ok {
			log.Debugf("ignore %d byte reply from %s", n, src)
			continue
		}
		if ua, ok := src.(*net.UDPAddr); ok {
			resp.IP = ua.IP.To4()
		}
		resp.bindInterface(cm, log)
		return resp
	}
}

func adoptIP(ctx context.Context, pc net.PacketConn, dst net.Addr, resp *DiscoveryResponse, target string, log logrus.FieldLogger) error {
	if target == "" || target == resp.IP.String() {
		return nil
	}
	ip := net.ParseIP(target).To4()
	if ip == nil {
		return fmt.Errorf("invalid hardware ip %q", target)
	}
	log.Infof("change IP address from %s to %s", resp.IP, ip)
	cmd := setIPCommand(resp.MAC, ip)
	for i := 0; i < 2; i++ {
		if i > 0 {
			if err := sleep(ctx, setIPGap); err != nil {
				return err
			}
		}
		if _, err := pc.WriteTo(cmd, dst); err != nil {
			log.Debugf("set ip send: %v", err)
		}
	}
	resp.IP = ip
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

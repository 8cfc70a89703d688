// Package hermes talks to Hermes/Metis receivers: discovery over UDP
// broadcast and the register image that carries tuning and gain.
package hermes

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/radio"
)

// FrameSink transmits the control image. Writes are fire-and-forget.
type FrameSink interface {
	Push(frame []byte) error
}

// Keyer is implemented by sinks that carry the transmit request.
type Keyer interface {
	Key(down bool) error
}

// UDPSink pushes control frames over a connected UDP socket. Each register
// goes out as a five byte record, C0 then C1..C4, where C0 carries the
// register address in bits 1-7 and the MOX request in bit 0.
type UDPSink struct {
	conn *net.UDPConn
	buf  []byte
	last []byte
	mox  bool
}

// DialSink connects to the hardware control port. A non-nil local address
// pins the source interface on hosts with several networks.
func DialSink(ip string, port int, local net.IP) (*UDPSink, error) {
	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("resolve hardware address: %w", err)
	}
	var laddr *net.UDPAddr
	if local != nil {
		laddr = &net.UDPAddr{IP: local}
	}
	conn, err := net.DialUDP("udp4", laddr, addr)
	if err != nil {
		return nil, fmt.Errorf("dial hardware: %w", err)
	}
	return &UDPSink{conn: conn, buf: make([]byte, 2048)}, nil
}

// recordSize is one C0 byte plus the four register bytes.
const recordSize = 5

func encodeRecords(frame []byte, mox bool) []byte {
	out := make([]byte, 0, len(frame)/4*recordSize)
	for reg := 0; reg*4 < len(frame); reg++ {
		c0 := byte(reg) << 1
		if mox {
			c0 |= 0x01
		}
		out = append(out, c0)
		out = append(out, frame[reg*4:reg*4+4]...)
	}
	return out
}

func (s *UDPSink) Push(frame []byte) error {
	s.last = append(s.last[:0], frame...)
	_, err := s.conn.Write(encodeRecords(frame, s.mox))
	return err
}

// Key sets the MOX bit and resends the last image with it.
func (s *UDPSink) Key(down bool) error {
	s.mox = down
	if s.last == nil {
		return nil
	}
	_, err := s.conn.Write(encodeRecords(s.last, down))
	return err
}

// Drain discards datagrams queued on the control socket without blocking
// and returns how many were read.
func (s *UDPSink) Drain() int {
	n := 0
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		if _, err := s.conn.Read(s.buf); err != nil {
			return n
		}
		n++
	}
}

func (s *UDPSink) Close() error { return s.conn.Close() }

var _ Keyer = (*UDPSink)(nil)

// Options configures a Link.
type Options struct {
	Clock             int64
	TransverterOffset int64

	// BandOutputs maps a band name to the J16 user output bits.
	BandOutputs map[string]int

	// TxLevel maps a band name to its drive level 0-255; "default" covers
	// bands not listed.
	TxLevel map[string]int

	// TxReduction and DigitalTxLevel are power percentages for voice and
	// digital modes.
	TxReduction    int
	DigitalTxLevel int
}

// Link owns the control image of one unit and keeps it in step with the
// station state. It is driven from the poll loop and is not safe for
// concurrent use.
type Link struct {
	log    logrus.FieldLogger
	sink   FrameSink
	facade radio.Facade
	opts   Options
	acc    Accumulator
	frame  ControlFrame

	txFreq  int64
	vfoFreq int64
	rate    int
	band    string
	mode    radio.Mode
	mox     bool

	vnaStarted bool
}

// NewLink returns a link with the power-on image and pushes it once.
// facade may be nil when the link is driven directly.
func NewLink(sink FrameSink, facade radio.Facade, opts Options, log logrus.FieldLogger) *Link {
	l := &Link{
		log:    log,
		sink:   sink,
		facade: facade,
		opts:   opts,
		acc:    NewAccumulator(opts.Clock, opts.TransverterOffset),
		frame:  NewControlFrame(),
	}
	l.push()
	return l
}

func (l *Link) push() {
	if err := l.sink.Push(l.frame[:]); err != nil {
		l.log.Debugf("push control frame: %v", err)
	}
}

// Frame returns a copy of the current control image.
func (l *Link) Frame() ControlFrame { return l.frame }

// Accumulator returns the phase converter for this unit.
func (l *Link) Accumulator() Accumulator { return l.acc }

// ControlByte returns byte b (1-4) of register reg.
func (l *Link) ControlByte(reg, b int) byte { return l.frame.Byte(reg, b) }

// SetControlByte stores v and retransmits the whole image.
func (l *Link) SetControlByte(reg, b int, v byte) {
	l.frame.SetByte(reg, b, v)
	l.push()
	l.log.Debugf("control byte %d/%d = 0x%02X", reg, b, v)
}

// ChangeFrequency writes the Tx and Rx registers that differ from the last
// values sent and pushes once if either changed. A non-positive tx leaves
// the Tx register alone. The inputs are returned unchanged.
func (l *Link) ChangeFrequency(tx, vfo int64) (int64, int64) {
	changed := false
	if tx > 0 && tx != l.txFreq {
		l.txFreq = tx
		l.frame.SetUint32(1, uint32(tx-l.opts.TransverterOffset))
		changed = true
	}
	if vfo != l.vfoFreq {
		l.vfoFreq = vfo
		l.frame.SetUint32(2, uint32(vfo-l.opts.TransverterOffset))
		changed = true
	}
	if changed {
		l.push()
		l.log.Debugf("change freq tx %d rx %d", tx, vfo)
	}
	return tx, vfo
}

// FreqToPhase returns the hardware phase increment for freq.
func (l *Link) FreqToPhase(freq int64) uint32 { return l.acc.FreqToPhase(freq) }

// VfoFromPhase returns the frequency produced for phase.
func (l *Link) VfoFromPhase(phase uint32) float64 { return l.acc.VfoFromPhase(phase) }

var rateIndex = map[int]byte{48000: 0, 96000: 1, 192000: 2, 384000: 3}

// SetSampleRate selects the decimation and returns the rate in effect.
// Unsupported rates fall back to 48 kHz.
func (l *Link) SetSampleRate(rate int) int {
	l.rate = rate
	idx, ok := rateIndex[rate]
	if !ok {
		l.log.Warnf("unsupported sample rate %d, using 48000", rate)
		rate = 48000
	}
	l.frame.SetByte(0, 1, idx)
	l.push()
	return rate
}

// SetAGC switches the hardware AGC.
func (l *Link) SetAGC(on bool) {
	l.frame.setBits(0, 3, 0x10, on)
	l.push()
}

// SetLNA sets the receive gain in dB, -12 to 48. Below 20 dB the +32 dB
// preamp is switched out.
func (l *Link) SetLNA(db int) {
	var gain int
	if db < 20 {
		l.frame.setBits(0, 3, 0x08, true)
		gain = 19 - db
	} else {
		l.frame.setBits(0, 3, 0x08, false)
		gain = 51 - db
	}
	l.frame.SetByte(10, 4, byte(gain))
	l.push()
	l.log.Debugf("change LNA to %d dB", db)
}

// SetBand drives the J16 user outputs for band and reapplies the Tx level.
func (l *Link) SetBand(band string) {
	l.band = band
	j16 := l.opts.BandOutputs[band]
	l.SetControlByte(0, 2, byte(j16<<1))
	l.SetTxLevel()
}

// SetMode records the mode and reapplies the Tx level.
func (l *Link) SetMode(mode radio.Mode) {
	l.mode = mode
	l.SetTxLevel()
}

// SetTxLevel computes the drive level from the band table, scaled by the
// power reduction for the current mode, and returns it.
func (l *Link) SetTxLevel() int {
	level, ok := l.opts.TxLevel[l.band]
	if !ok {
		level, ok = l.opts.TxLevel["default"]
		if !ok {
			level = 127
		}
	}
	reduc := l.opts.TxReduction
	if l.mode.IsDigital() {
		reduc = l.opts.DigitalTxLevel
	}
	tx := txDrive(level, reduc)
	l.frame.SetByte(9, 1, byte(tx))
	l.push()
	l.log.Debugf("change tx level to %d", tx)
	return tx
}

// txDrive scales a drive level by a power percentage. The DAC output is
// linear in 1 + level*0.0326.
func txDrive(level, percent int) int {
	amp := 1.0 + float64(level)*0.0326
	amp *= math.Sqrt(float64(percent) / 100.0)
	tx := int((amp-1.0)/0.0326 + 0.5)
	if tx < 0 {
		return 0
	}
	if tx > 255 {
		return 255
	}
	return tx
}

// SetMOX requests transmit through the sink when it carries keying.
func (l *Link) SetMOX(on bool) {
	l.mox = on
	if k, ok := l.sink.(Keyer); ok {
		if err := k.Key(on); err != nil {
			l.log.Debugf("key %v: %v", on, err)
		}
	}
}

// MOX reports the last transmit request.
func (l *Link) MOX() bool { return l.mox }

// SetMultiRxCount sets the number of receivers beyond the first, 0 to 7.
func (l *Link) SetMultiRxCount(n int) error {
	if n < 0 || n > 7 {
		return fmt.Errorf("receiver count %d out of range", n)
	}
	l.frame.SetByte(0, 4, 0x04|byte(n)<<3)
	l.push()
	l.log.Debugf("change multi rx count to %d", n)
	return nil
}

// SetMultiRxFrequency tunes additional receiver index (0 based) to vfo.
func (l *Link) SetMultiRxFrequency(index int, vfo int64) error {
	reg := index + 3
	if index < 0 || reg >= Registers {
		return fmt.Errorf("receiver index %d out of range", index)
	}
	l.frame.SetUint32(reg, uint32(vfo))
	l.push()
	l.log.Debugf("change multi rx %d frequency to %d", index, vfo)
	return nil
}

type drainer interface {
	Drain() int
}

// Poll drains stray datagrams and forwards station changes to the
// hardware. It never blocks.
func (l *Link) Poll() {
	if d, ok := l.sink.(drainer); ok {
		if n := d.Drain(); n > 0 {
			l.log.Debugf("discarded %d datagrams", n)
		}
	}
	f := l.facade
	if f == nil {
		return
	}
	if rate := f.SampleRate(); rate != l.rate {
		l.SetSampleRate(rate)
	}
	if band := f.Band(); band != l.band {
		l.SetBand(band)
	}
	if mode := f.Mode(); mode != l.mode {
		l.SetMode(mode)
	}
	l.ChangeFrequency(f.TxFrequency(), f.VFO())
	if ptt := f.PTT(); ptt != l.mox {
		l.SetMOX(ptt)
	}
}

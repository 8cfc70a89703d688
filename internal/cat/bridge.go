// Package cat emulates a Kenwood TS-2000 / FlexRadio PowerSDR CAT port on
// a pseudo-terminal or serial device.
package cat

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/radio"
)

// Bridge answers CAT commands from one endpoint. Poll is called from the
// poll loop; the bridge is not safe for concurrent use.
type Bridge struct {
	log      logrus.FieldLogger
	facade   radio.Facade
	ep       *Endpoint
	dialect  Dialect
	handlers map[string]func(name, data string)

	received   []byte
	discarding bool
}

// maxCommand bounds one command and the unterminated input kept for it.
const maxCommand = 4096

// NewBridge serves facade on ep using dialect until ZZID switches it.
func NewBridge(ep *Endpoint, facade radio.Facade, dialect Dialect, log logrus.FieldLogger) *Bridge {
	b := &Bridge{log: log, facade: facade, ep: ep, dialect: dialect}
	b.handlers = map[string]func(name, data string){
		"AG":   b.audioGain,
		"ZZAG": b.flexAudioGain,
		"ZZAI": b.autoInfo,
		"ZZFA": b.freqA,
		"ZZFB": b.freqB,
		"FR":   b.rxVFO,
		"FT":   b.txVFO,
		"ID":   b.id,
		"ZZID": b.flexID,
		"ZZIF": b.info,
		"OI":   b.info,
		"MD":   b.mode,
		"ZZMD": b.flexMode,
		"ZZMU": b.multiRx,
		"ZZPS": b.power,
		"ZZRS": b.rx2,
		"RX":   b.receive,
		"TX":   b.transmit,
		"ZZTX": b.mox,
		"ZZSP": b.split,
		"ZZSW": b.splitVFO,
		"ZZVE": b.vox,
		"XT":   b.xit,
	}
	return b
}

// Dialect returns the dialect in effect.
func (b *Bridge) Dialect() Dialect { return b.dialect }

// Endpoint returns the endpoint served by the bridge.
func (b *Bridge) Endpoint() *Endpoint { return b.ep }

// Poll collects input and answers the first complete command. Input that
// runs past maxCommand without a semicolon is discarded through the next
// semicolon.
func (b *Bridge) Poll() {
	b.received = append(b.received, b.ep.Receive()...)
	for {
		i := bytes.IndexByte(b.received, ';')
		if i < 0 {
			if len(b.received) > maxCommand {
				b.log.Warnf("discarding %d bytes without a semicolon", len(b.received))
				b.received = b.received[:0]
				b.discarding = true
			}
			return
		}
		cmd := b.received[:i]
		b.received = b.received[i+1:]
		if b.discarding || len(cmd) > maxCommand {
			if !b.discarding {
				b.log.Warnf("discarding %d byte command", len(cmd))
			}
			b.discarding = false
			continue
		}
		if bytes.IndexByte(b.received, ';') >= 0 {
			b.ep.wake()
		}
		b.Execute(ParseCommand(strings.TrimSpace(string(cmd))))
		return
	}
}

// Execute runs one command and queues its reply.
func (b *Bridge) Execute(c Command) {
	h, ok := b.handlers[c.Key]
	if !ok {
		b.log.Warnf("unimplemented command %q data %q", c.Key, c.Data)
		b.write("?;")
		return
	}
	if c.Data != "" {
		b.log.Debugf("command %s %s", c.Name, c.Data)
	}
	h(c.Name, c.Data)
}

func (b *Bridge) write(s string) {
	if !b.ep.Send([]byte(s)) {
		b.log.Debugf("reply %q dropped", s)
	}
}

func (b *Bridge) reply(name, value string) { b.write(name + value + ";") }

func (b *Bridge) fail(name, data string) {
	b.log.Warnf("error for command %s data %q", name, data)
	b.write("?;")
}

// fixed answers a get with value and accepts only a set to the same value.
func (b *Bridge) fixed(name, data, value string) {
	switch data {
	case "":
		b.reply(name, value)
	case value:
	default:
		b.fail(name, data)
	}
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

func (b *Bridge) audioGain(name, data string) {
	if len(data) == 1 {
		b.reply(name, data+"120")
	}
}

func (b *Bridge) flexAudioGain(name, data string) {
	if data == "" {
		b.reply(name, "050")
	}
}

func (b *Bridge) autoInfo(name, data string) { b.fixed(name, data, "0") }
func (b *Bridge) rxVFO(name, data string)    { b.fixed(name, data, "0") }
func (b *Bridge) rx2(name, data string)      { b.fixed(name, data, "0") }
func (b *Bridge) xit(name, data string)      { b.fixed(name, data, "0") }

func (b *Bridge) txVFO(name, data string) {
	b.fixed(name, data, flag(b.facade.Split()))
}

func (b *Bridge) freqA(name, data string) {
	b.frequency(name, data, b.facade.RxFrequency(), radio.TuneRx)
}

func (b *Bridge) freqB(name, data string) {
	b.frequency(name, data, b.facade.TxFrequency(), radio.TuneTx)
}

func (b *Bridge) frequency(name, data string, current int64, tune func(radio.Facade, int64)) {
	if data == "" {
		b.reply(name, fmt.Sprintf("%011d", current))
		return
	}
	if len(data) > 11 || strings.Trim(data, "0123456789") != "" {
		b.fail(name, data)
		return
	}
	freq, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		b.fail(name, data)
		return
	}
	tune(b.facade, freq)
	b.log.Debugf("new freq rx %d tx %d", b.facade.RxFrequency(), b.facade.TxFrequency())
}

func (b *Bridge) id(name, data string) {
	if data != "" {
		b.fail(name, data)
		return
	}
	b.reply(name, b.dialect.ID())
}

func (b *Bridge) flexID(name, data string) {
	if data != "" {
		b.fail(name, data)
		return
	}
	if b.dialect != Flex {
		b.log.Infof("switching to %s dialect", Flex)
	}
	b.dialect = Flex
}

// info builds the IF/ZZIF/OI status line.
func (b *Bridge) info(name, _ string) {
	f := b.facade
	ritFreq, ritOn := f.RIT()
	var s strings.Builder
	s.WriteString(name)
	fmt.Fprintf(&s, "%011d", f.RxFrequency())
	s.WriteString("0000")
	if ritFreq < 0 {
		fmt.Fprintf(&s, "-%05d", -ritFreq)
	} else {
		fmt.Fprintf(&s, "+%05d", ritFreq)
	}
	s.WriteString(flag(ritOn))
	s.WriteString("0000")
	s.WriteString(flag(f.PTT()))
	if len(name) == 4 {
		fmt.Fprintf(&s, "%02d", modeCode(flexCodes, f.Mode(), 1))
	} else {
		fmt.Fprintf(&s, "%d", modeCode(kenwoodCodes, f.Mode(), 1))
	}
	s.WriteString("00")
	s.WriteString(flag(f.Split()))
	s.WriteString("0000;")
	b.write(s.String())
}

func (b *Bridge) mode(name, data string) {
	b.setMode(name, data, 1, kenwoodCodes, kenwoodModes, 2, "%d")
}

func (b *Bridge) flexMode(name, data string) {
	b.setMode(name, data, 2, flexCodes, flexModes, 1, "%02d")
}

func (b *Bridge) setMode(name, data string, width int, codes map[radio.Mode]int, modes map[int]radio.Mode, def int, format string) {
	switch len(data) {
	case 0:
		b.reply(name, fmt.Sprintf(format, modeCode(codes, b.facade.Mode(), def)))
	case width:
		code, err := strconv.Atoi(data)
		if err != nil {
			b.fail(name, data)
			return
		}
		b.facade.SetMode(codeMode(modes, code))
	default:
		b.fail(name, data)
	}
}

func (b *Bridge) multiRx(name, data string) {
	if data == "" {
		b.reply(name, "0")
	}
}

func (b *Bridge) power(name, data string) {
	if data == "" {
		b.reply(name, "1")
	}
}

func (b *Bridge) receive(name, data string)  { b.keyPTT(name, data, false) }
func (b *Bridge) transmit(name, data string) { b.keyPTT(name, data, true) }

func (b *Bridge) keyPTT(name, data string, on bool) {
	if data != "" || !b.facade.PTTControl() {
		b.fail(name, data)
		return
	}
	b.facade.SetPTT(on)
}

func (b *Bridge) mox(name, data string) {
	switch len(data) {
	case 0:
		b.reply(name, flag(b.facade.PTT()))
	case 1:
		if !b.facade.PTTControl() {
			b.fail(name, data)
			return
		}
		b.facade.SetPTT(data != "0")
	default:
		b.fail(name, data)
	}
}

func (b *Bridge) split(name, data string) {
	if data != "" {
		b.fail(name, data)
		return
	}
	b.reply(name, flag(b.facade.Split()))
}

func (b *Bridge) splitVFO(name, data string) {
	if data == "" {
		b.reply(name, flag(b.facade.Split()))
	}
}

func (b *Bridge) vox(name, data string) {
	if data != "" {
		b.fail(name, data)
		return
	}
	b.reply(name, flag(b.facade.VOX()))
}

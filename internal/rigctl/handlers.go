package rigctl

import (
	"math"
	"strconv"
	"strings"

	"hamlab-sdr-bridge/internal/radio"
)

type handler func(f radio.Facade, params []string) reply

// handlers maps long command names to their implementation. The empty name
// is a command line with nothing after the format prefix.
var handlers = map[string]handler{
	"":               errProtocol,
	"dump_state":     dumpState,
	"chk_vfo":        chkVFO,
	"get_freq":       getFreq,
	"set_freq":       setFreq,
	"get_info":       getInfo,
	"get_mode":       getMode,
	"set_mode":       setMode,
	"get_vfo":        getVFO,
	"get_ptt":        getPTT,
	"set_ptt":        setPTT,
	"get_split_freq": getSplitFreq,
	"set_split_freq": setSplitFreq,
	"get_split_vfo":  getSplitVFO,
	"set_split_vfo":  setSplitVFO,
	"quit":           quit,
}

// dumpStateReply describes an HF receiver with no tuning steps or filters.
const dumpStateReply = " 0\n2\n2\n" +
	"150000.000000 30000000.000000  0x900af -1 -1 0x10 000003 0x3\n" +
	"0 0 0 0 0 0 0\n" +
	"150000.000000 30000000.000000  0x900af -1 -1 0x10 000003 0x3\n" +
	"0 0 0 0 0 0 0\n" +
	"0 0\n0 0\n0\n0\n0\n0\n\n\n" +
	"0x0\n0x0\n0x0\n0x0\n0x0\n0\n"

func unimplemented(radio.Facade, []string) reply { return status(rigENimpl) }
func errProtocol(radio.Facade, []string) reply   { return status(rigEProtocol) }
func quit(radio.Facade, []string) reply          { return reply{quit: true} }

func dumpState(radio.Facade, []string) reply { return reply{raw: dumpStateReply} }
func chkVFO(radio.Facade, []string) reply    { return reply{raw: "CHKVFO 0\n"} }

func getFreq(f radio.Facade, _ []string) reply {
	return values("Frequency", itoa(f.RxFrequency()))
}

func setFreq(f radio.Facade, params []string) reply {
	freq, ok := parseFreq(params)
	if !ok {
		return status(rigEInval)
	}
	radio.TuneRx(f, freq)
	return status(rigOK)
}

func getSplitFreq(f radio.Facade, _ []string) reply {
	return values("TX Frequency", itoa(f.TxFrequency()))
}

// setSplitFreq tunes the transmit frequency, unless split is on and the
// station routes remote control to the receive frequency.
func setSplitFreq(f radio.Facade, params []string) reply {
	freq, ok := parseFreq(params)
	if !ok {
		return status(rigEInval)
	}
	if f.Split() && !f.SplitHamlibTx() {
		radio.TuneRx(f, freq)
	} else {
		radio.TuneTx(f, freq)
	}
	return status(rigOK)
}

func getSplitVFO(f radio.Facade, _ []string) reply {
	return values("Split", boolDigit(f.Split()), "TX VFO", "VFO")
}

func setSplitVFO(f radio.Facade, params []string) reply {
	if len(params) != 2 {
		return status(rigEInval)
	}
	split, err := strconv.Atoi(params[0])
	if err != nil {
		return status(rigEInval)
	}
	f.SetSplit(split != 0)
	return status(rigOK)
}

func getInfo(f radio.Facade, _ []string) reply {
	return values("Info", f.Title())
}

func getMode(f radio.Facade, _ []string) reply {
	mode := string(f.Mode())
	switch {
	case mode == string(radio.ModeCWU):
		mode = "CW"
	case mode == string(radio.ModeCWL):
		mode = "CWR"
	case mode == string(radio.ModeDGTFM):
		mode = "FM"
	case strings.HasPrefix(mode, "DGT-"):
		mode = "USB"
	}
	return values("Mode", mode, "Passband", strconv.Itoa(f.FilterBandwidth()))
}

func setMode(f radio.Facade, params []string) reply {
	if len(params) != 2 {
		return status(rigEInval)
	}
	bwf, err := strconv.ParseFloat(params[1], 64)
	if err != nil || math.IsNaN(bwf) || math.IsInf(bwf, 0) {
		return status(rigEInval)
	}
	bw := int(bwf + 0.5)

	var mode radio.Mode
	switch name := params[0]; {
	case name == "USB" || name == "LSB" || name == "AM" || name == "FM":
		mode = radio.Mode(name)
	case name == "CW":
		mode = radio.ModeCWU
	case name == "CWR":
		mode = radio.ModeCWL
	case strings.HasPrefix(name, "DGT-"):
		m, ok := radio.ParseMode(name)
		if !ok {
			return status(rigEInval)
		}
		mode = m
	default:
		return status(rigEInval)
	}
	f.SetMode(mode)
	if bw > 0 {
		f.SetFilterBandwidth(radio.NearestFilter(f.FilterChoices(), bw))
	}
	return status(rigOK)
}

func getVFO(radio.Facade, []string) reply { return values("VFO", "VFO") }

func getPTT(f radio.Facade, _ []string) reply {
	return values("PTT", boolDigit(f.PTT()))
}

func setPTT(f radio.Facade, params []string) reply {
	if !f.PTTControl() {
		return status(rigENimpl)
	}
	if len(params) != 1 {
		return status(rigEInval)
	}
	ptt, err := strconv.Atoi(params[0])
	if err != nil {
		return status(rigEInval)
	}
	f.SetPTT(ptt != 0)
	return status(rigOK)
}

// parseFreq accepts a single decimal or floating point Hertz value.
func parseFreq(params []string) (int64, bool) {
	if len(params) != 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(params[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int64(v + 0.5), true
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

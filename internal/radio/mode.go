package radio

import "strings"

// Mode is an operating mode label as shown on the mode buttons.
type Mode string

const (
	ModeCWL   Mode = "CWL"
	ModeCWU   Mode = "CWU"
	ModeLSB   Mode = "LSB"
	ModeUSB   Mode = "USB"
	ModeAM    Mode = "AM"
	ModeFM    Mode = "FM"
	ModeEXT   Mode = "EXT"
	ModeDGTU  Mode = "DGT-U"
	ModeDGTL  Mode = "DGT-L"
	ModeDGTIQ Mode = "DGT-IQ"
	ModeIMD   Mode = "IMD"
	ModeFDVU  Mode = "FDV-U"
	ModeFDVL  Mode = "FDV-L"
	ModeDGTFM Mode = "DGT-FM"
)

var modes = []Mode{
	ModeCWL, ModeCWU, ModeLSB, ModeUSB, ModeAM, ModeFM, ModeEXT,
	ModeDGTU, ModeDGTL, ModeDGTIQ, ModeIMD, ModeFDVU, ModeFDVL, ModeDGTFM,
}

// ParseMode accepts a mode label in any case.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range modes {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// IsDigital reports whether the mode is one of the DGT-* or FDV-* modes,
// which transmit at the reduced digital power level.
func (m Mode) IsDigital() bool {
	return strings.HasPrefix(string(m), "DGT-") || strings.HasPrefix(string(m), "FDV-")
}

// Filter bandwidth buttons per mode family, in Hertz.
var (
	filterCW  = []int{200, 400, 600, 1000, 1500, 3000}
	filterSSB = []int{2000, 2200, 2500, 2800, 3000, 3300}
	filterAM  = []int{4000, 5000, 6000, 8000, 10000, 9000}
	filterFM  = []int{8000, 10000, 12000, 16000, 18000, 20000}
	filterDGT = []int{200, 400, 1500, 3200, 4800, 10000}
	filterEXT = []int{8000, 10000, 12000, 15000, 17000, 20000}
	filterFDV = []int{1500, 2000, 3000}
)

// FilterChoices returns the filter buttons offered for a mode.
func FilterChoices(m Mode) []int {
	switch {
	case m == ModeCWL || m == ModeCWU:
		return filterCW
	case m == ModeLSB || m == ModeUSB || m == ModeIMD:
		return filterSSB
	case m == ModeAM:
		return filterAM
	case m == ModeFM || m == ModeDGTFM || m == ModeDGTIQ:
		return filterFM
	case m == ModeDGTU || m == ModeDGTL:
		return filterDGT
	case strings.HasPrefix(string(m), "FDV-"):
		return filterFDV
	case m == ModeEXT:
		return filterEXT
	}
	return filterSSB
}

// NearestFilter picks the choice closest to bw by absolute difference.
// Ties keep the earlier button.
func NearestFilter(choices []int, bw int) int {
	if len(choices) == 0 {
		return bw
	}
	best := choices[0]
	diff := abs(best - bw)
	for _, c := range choices[1:] {
		if d := abs(c - bw); d < diff {
			best, diff = c, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

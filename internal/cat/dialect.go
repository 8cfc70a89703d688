package cat

import (
	"fmt"
	"strings"

	"hamlab-sdr-bridge/internal/radio"
)

// Dialect selects the radio identity reported by ID.
type Dialect int

const (
	Kenwood Dialect = iota
	Flex
)

// ParseDialect accepts "kenwood" or "flex" in any case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "kenwood", "":
		return Kenwood, nil
	case "flex":
		return Flex, nil
	}
	return Kenwood, fmt.Errorf("unknown cat dialect %q", s)
}

func (d Dialect) String() string {
	if d == Flex {
		return "flex"
	}
	return "kenwood"
}

// ID is the radio identity: a TS-2000 or a PowerSDR.
func (d Dialect) ID() string {
	if d == Flex {
		return "900"
	}
	return "019"
}

// Mode codes. MD and IF use the Kenwood table, ZZMD and ZZIF the Flex one.
var (
	kenwoodCodes = map[radio.Mode]int{
		radio.ModeCWL: 7, radio.ModeCWU: 3, radio.ModeLSB: 1, radio.ModeUSB: 2,
		radio.ModeAM: 5, radio.ModeFM: 4, radio.ModeDGTU: 9, radio.ModeDGTL: 6,
		radio.ModeDGTFM: 4, radio.ModeDGTIQ: 9,
	}
	kenwoodModes = map[int]radio.Mode{
		1: radio.ModeLSB, 2: radio.ModeUSB, 3: radio.ModeCWU, 4: radio.ModeFM,
		5: radio.ModeAM, 6: radio.ModeDGTL, 7: radio.ModeCWL, 9: radio.ModeDGTU,
	}
	flexCodes = map[radio.Mode]int{
		radio.ModeCWL: 3, radio.ModeCWU: 4, radio.ModeLSB: 0, radio.ModeUSB: 1,
		radio.ModeAM: 6, radio.ModeFM: 5, radio.ModeDGTU: 7, radio.ModeDGTL: 9,
		radio.ModeDGTFM: 5, radio.ModeDGTIQ: 7,
	}
	flexModes = map[int]radio.Mode{
		0: radio.ModeLSB, 1: radio.ModeUSB, 3: radio.ModeCWL, 4: radio.ModeCWU,
		5: radio.ModeFM, 6: radio.ModeAM, 7: radio.ModeDGTU, 9: radio.ModeDGTL,
	}
)

func modeCode(codes map[radio.Mode]int, m radio.Mode, def int) int {
	if c, ok := codes[m]; ok {
		return c
	}
	return def
}

func codeMode(modes map[int]radio.Mode, code int) radio.Mode {
	if m, ok := modes[code]; ok {
		return m
	}
	return radio.ModeUSB
}

package hermes

const phaseModulus = 1 << 32

// Accumulator reproduces the FPGA tuning word arithmetic. The FPGA divides
// by a clock rounded to a multiple of 48 kHz, while the true clock gives
// the frequency actually produced.
type Accumulator struct {
	clock  int64
	scale  int64
	offset int64
}

// NewAccumulator builds the converter for the sample clock in Hertz and the
// transverter offset subtracted before tuning.
func NewAccumulator(clock, transverterOffset int64) Accumulator {
	clock48 := (clock + 24000) / 48000 * 48000
	return Accumulator{
		clock:  clock,
		scale:  (1 << 57) / clock48,
		offset: transverterOffset,
	}
}

// FreqToPhase returns the phase increment the hardware uses for freq.
func (a Accumulator) FreqToPhase(freq int64) uint32 {
	return a.phase(freq - a.offset)
}

func (a Accumulator) phase(freq int64) uint32 {
	return uint32((freq*a.scale + 1<<24) >> 25)
}

// VfoFromPhase returns the frequency the hardware produces for phase.
func (a Accumulator) VfoFromPhase(phase uint32) float64 {
	return float64(phase) * float64(a.clock) / phaseModulus
}

// Step is the frequency resolution of one phase unit.
func (a Accumulator) Step() float64 {
	return float64(a.clock) / phaseModulus
}

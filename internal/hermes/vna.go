package hermes

import (
	"fmt"
	"math"
)

const (
	vnaTxLevel = 63
	vnaLNA     = 2
)

// VnaSweepPlan is a programmed sweep. The hardware adds HzDelta, as a
// phase increment, once per point starting from the start phase.
type VnaSweepPlan struct {
	Start int64
	Stop  int64
	Count int

	PhaseDelta uint32
	HzDelta    int64

	// ActualStart and ActualStop are the frequencies produced after phase
	// rounding.
	ActualStart int64
	ActualStop  int64

	startPhase uint32
	stepPhase  uint32
	clock      float64
}

// Frequencies returns the frequency of every point in the sweep.
func (p VnaSweepPlan) Frequencies() []float64 {
	out := make([]float64, p.Count)
	for i := range out {
		ph := p.startPhase + p.stepPhase*uint32(i)
		out[i] = float64(ph) * p.clock / phaseModulus
	}
	return out
}

// ProgramVnaSweep writes a sweep of count points from start to stop. The
// per-point step is derived from the phase span so that it matches the
// hardware accumulator rather than the Hertz span. The first call also sets
// the VNA drive level and receive gain.
func (l *Link) ProgramVnaSweep(start, stop int64, count int) (VnaSweepPlan, error) {
	if count < 2 || count > 0xFFFF {
		return VnaSweepPlan{}, fmt.Errorf("vna point count %d out of range", count)
	}
	if stop <= start {
		return VnaSweepPlan{}, fmt.Errorf("vna stop %d not above start %d", stop, start)
	}
	if !l.vnaStarted {
		l.frame.SetByte(9, 1, vnaTxLevel)
		l.SetLNA(vnaLNA)
	}

	n := uint32(count - 1)
	phStart := l.acc.phase(start)
	phStop := l.acc.phase(stop)
	delta := (phStop - phStart + n/2) / n
	hz := int64(float64(delta)*float64(l.acc.clock)/phaseModulus + 0.5)
	step := l.acc.phase(hz)

	l.frame.SetUint32(1, uint32(start))
	l.frame.SetUint32(2, uint32(hz))
	l.frame.SetByte(9, 3, byte(count>>8))
	l.frame.SetByte(9, 4, byte(count))
	l.push()

	plan := VnaSweepPlan{
		Start:       start,
		Stop:        stop,
		Count:       count,
		PhaseDelta:  delta,
		HzDelta:     hz,
		ActualStart: round(l.acc.VfoFromPhase(phStart)),
		ActualStop:  round(float64(phStart+step*n) * float64(l.acc.clock) / phaseModulus),
		startPhase:  phStart,
		stepPhase:   step,
		clock:       float64(l.acc.clock),
	}
	l.log.Debugf("change VNA start %d/%d stop %d/%d", start, plan.ActualStart, stop, plan.ActualStop)
	return plan, nil
}

// KeyVNA starts or stops a sweep. The VNA enable bit is set on the first
// key down and stays set.
func (l *Link) KeyVNA(down bool) {
	if down && !l.vnaStarted {
		l.vnaStarted = true
		l.SetControlByte(9, 2, 0x80)
	}
	l.SetMOX(down)
}

func round(f float64) int64 { return int64(math.Floor(f + 0.5)) }

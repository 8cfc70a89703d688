package hermes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramVnaSweep(t *testing.T) {
	l, sink := newTestLink(t, nil)

	plan, err := l.ProgramVnaSweep(1000000, 30000000, 101)
	require.NoError(t, err)

	assert.Equal(t, uint32(16893724), plan.PhaseDelta)
	assert.Equal(t, int64(290000), plan.HzDelta)
	assert.Equal(t, int64(1000000), plan.ActualStart)
	assert.Equal(t, int64(29999999), plan.ActualStop)

	f := l.Frame()
	assert.Equal(t, uint32(1000000), f.Uint32(1))
	assert.Equal(t, uint32(290000), f.Uint32(2))
	assert.Equal(t, byte(0), f.Byte(9, 3))
	assert.Equal(t, byte(101), f.Byte(9, 4))
	assert.Equal(t, byte(63), f.Byte(9, 1))
	assert.Equal(t, byte(0x08), f.Byte(0, 3)&0x08)
	assert.Equal(t, byte(17), f.Byte(10, 4))
	assert.Zero(t, f.Byte(9, 2), "enable waits for key down")
	assert.Len(t, sink.frames[len(sink.frames)-1], FrameSize)
}

func TestVnaSweepSpacing(t *testing.T) {
	l, _ := newTestLink(t, nil)
	step := l.Accumulator().Step()

	for _, c := range []struct {
		start, stop int64
		count       int
	}{
		{1000000, 30000000, 101},
		{100000, 60000000, 1001},
		{7000000, 7300000, 2},
		{3500000, 3500100, 7},
	} {
		plan, err := l.ProgramVnaSweep(c.start, c.stop, c.count)
		require.NoError(t, err)

		freqs := plan.Frequencies()
		require.Len(t, freqs, c.count)
		assert.InDelta(t, float64(plan.ActualStart), freqs[0], 0.5)
		assert.InDelta(t, float64(plan.ActualStop), freqs[len(freqs)-1], 0.5)

		first := freqs[1] - freqs[0]
		for i := 1; i < len(freqs); i++ {
			gap := freqs[i] - freqs[i-1]
			require.Greater(t, gap, 0.0, "point %d", i)
			require.LessOrEqual(t, math.Abs(gap-first), step, "point %d", i)
		}
	}
}

func TestProgramVnaSweepRejects(t *testing.T) {
	l, sink := newTestLink(t, nil)

	_, err := l.ProgramVnaSweep(1000000, 2000000, 1)
	assert.Error(t, err)
	_, err = l.ProgramVnaSweep(2000000, 1000000, 10)
	assert.Error(t, err)
	_, err = l.ProgramVnaSweep(1000000, 2000000, 70000)
	assert.Error(t, err)
	assert.Len(t, sink.frames, 1)
}

func TestKeyVNA(t *testing.T) {
	l, sink := newTestLink(t, nil)
	_, err := l.ProgramVnaSweep(1000000, 30000000, 101)
	require.NoError(t, err)

	l.KeyVNA(true)
	assert.Equal(t, byte(0x80), l.ControlByte(9, 2))
	l.KeyVNA(false)
	assert.Equal(t, []bool{true, false}, sink.keys)

	l.SetControlByte(9, 1, 10)
	_, err = l.ProgramVnaSweep(1000000, 30000000, 201)
	require.NoError(t, err)
	assert.Equal(t, byte(10), l.ControlByte(9, 1), "drive level only set before the first sweep")
	assert.Equal(t, byte(0x80), l.ControlByte(9, 2))
}

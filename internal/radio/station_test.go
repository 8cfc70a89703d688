package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStation(t *testing.T) {
	s := newTestStation()

	assert.Equal(t, int64(7010000), s.VFO())
	assert.Equal(t, int64(7012352), s.RxFrequency())
	assert.Equal(t, int64(7012352), s.TxFrequency())
	assert.Equal(t, ModeLSB, s.Mode())
	assert.Equal(t, 2800, s.FilterBandwidth())
	assert.Equal(t, "40", s.Band())
	assert.True(t, s.SplitHamlibTx())
	assert.Equal(t, "test", s.Title())
}

func TestStationDefaultMode(t *testing.T) {
	s := NewStation(StationOptions{SampleRate: 48000, Frequency: 3573000})
	assert.Equal(t, ModeLSB, s.Mode())
	assert.Equal(t, "80", s.Band())
}

func TestStationSetModeKeepsValidFilter(t *testing.T) {
	s := newTestStation()

	s.SetMode(ModeUSB)
	assert.Equal(t, 2800, s.FilterBandwidth())

	s.SetMode(ModeCWU)
	assert.Equal(t, 1000, s.FilterBandwidth())
	assert.Equal(t, filterCW, s.FilterChoices())
}

func TestStationPTTControl(t *testing.T) {
	s := NewStation(StationOptions{SampleRate: 48000, Frequency: 7000000})
	s.SetPTT(true)
	assert.False(t, s.PTT(), "no remote PTT control")

	s = newTestStation()
	s.SetPTT(true)
	assert.True(t, s.PTT())
}

func TestStationSplitOffRealignsRx(t *testing.T) {
	s := newTestStation()
	s.SetSplit(true)
	s.SetRxOffset(9000)
	require.Equal(t, int64(7019000), s.RxFrequency())

	s.SetSplit(false)
	assert.Equal(t, s.TxFrequency(), s.RxFrequency())
}

func TestStationSnapshot(t *testing.T) {
	s := newTestStation()
	s.SetRIT(-120, true)
	off, on := s.RIT()
	assert.Equal(t, -120, off)
	assert.True(t, on)

	snap := s.Snapshot()
	assert.Equal(t, State{
		VFO:             7010000,
		RxFrequency:     7012352,
		TxFrequency:     7012352,
		SampleRate:      96000,
		Mode:            ModeLSB,
		FilterBandwidth: 2800,
		Band:            "40",
	}, snap)
}

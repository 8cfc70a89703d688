package radio

// Recenter decides how to reach the absolute frequency freq. A frequency
// within 45% of the sample rate from the current VFO stays on screen and
// only the tuning offset moves; otherwise the VFO jumps to 5 kHz below the
// 5 kHz boundary under freq. Every remote-control path uses this rule.
func Recenter(freq, vfo int64, sampleRate int) (tune, newVFO int64) {
	tune = freq - vfo
	d := int64(sampleRate) * 45 / 100
	if -d <= tune && tune <= d {
		return tune, vfo
	}
	newVFO = floorDiv(freq, 5000)*5000 - 5000
	return freq - newVFO, newVFO
}

// TuneTx moves the transmit frequency, re-centering the VFO if needed.
// With split off the receive frequency follows.
func TuneTx(f Facade, freq int64) {
	tune, vfo := Recenter(freq, f.VFO(), f.SampleRate())
	if vfo != f.VFO() {
		BandFromFreq(f, freq)
	}
	f.Tune(tune, vfo)
}

// TuneRx moves the receive frequency. With split off this is the same as
// TuneTx; with split on only the receive offset moves and the VFO stays.
func TuneRx(f Facade, freq int64) {
	if !f.Split() {
		TuneTx(f, freq)
		return
	}
	f.SetRxOffset(freq - f.VFO())
}

// BandFromFreq switches the band label when freq leaves the current band.
func BandFromFreq(f Facade, freq int64) {
	if bandContains(f.Band(), freq) {
		return
	}
	if band, ok := BandFor(freq); ok {
		f.SetBand(band)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Package radio holds the shared radio state the protocol engines read and
// mutate, and the retune rule they all apply.
package radio

// Facade is the view of the radio state handed to each protocol engine.
// Frequencies are absolute Hertz unless named as an offset from the VFO.
type Facade interface {
	VFO() int64
	RxFrequency() int64
	TxFrequency() int64
	SampleRate() int

	// Tune moves the VFO and sets the transmit offset from it. When split
	// is off the receive offset follows the transmit offset.
	Tune(txOffset, vfo int64)
	// SetRxOffset moves only the receive offset; used when split is on.
	SetRxOffset(rxOffset int64)

	Mode() Mode
	SetMode(Mode)
	FilterBandwidth() int
	SetFilterBandwidth(bw int)
	FilterChoices() []int

	// PTTControl reports whether PTT can be switched remotely.
	PTTControl() bool
	PTT() bool
	SetPTT(on bool)

	Split() bool
	SetSplit(on bool)
	// SplitHamlibTx reports whether remote frequency control drives the
	// transmit frequency while split, rather than the receive frequency.
	SplitHamlibTx() bool

	RIT() (offset int, enabled bool)
	VOX() bool

	Band() string
	SetBand(band string)
	Title() string
}

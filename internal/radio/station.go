package radio

// State is a copy of the station state, used for publishing.
type State struct {
	VFO             int64  `json:"vfo"`
	RxFrequency     int64  `json:"rx_freq"`
	TxFrequency     int64  `json:"tx_freq"`
	SampleRate      int    `json:"sample_rate"`
	Mode            Mode   `json:"mode"`
	FilterBandwidth int    `json:"filter_bw"`
	PTT             bool   `json:"ptt"`
	Split           bool   `json:"split"`
	Band            string `json:"band,omitempty"`
}

// StationOptions seeds a Station.
type StationOptions struct {
	Title      string
	SampleRate int
	Frequency  int64
	Mode       Mode
	PTTControl bool
}

// Station is the in-memory radio state owned by the application. It is not
// safe for concurrent use; every engine runs on the poll loop.
type Station struct {
	title      string
	sampleRate int

	vfo      int64
	txOffset int64
	rxOffset int64

	mode     Mode
	filterBW int

	pttControl bool
	ptt        bool
	split      bool
	splitTx    bool
	rit        int
	ritOn      bool
	vox        bool
	band       string
}

// NewStation returns a station tuned to opts.Frequency with the VFO placed
// on the 10 kHz boundary below it.
func NewStation(opts StationOptions) *Station {
	mode := opts.Mode
	if mode == "" {
		mode = ModeLSB
	}
	s := &Station{
		title:      opts.Title,
		sampleRate: opts.SampleRate,
		mode:       mode,
		pttControl: opts.PTTControl,
		splitTx:    true,
	}
	choices := FilterChoices(mode)
	s.filterBW = choices[len(choices)/2]

	tune := opts.Frequency % 10000
	s.vfo = opts.Frequency - tune
	s.txOffset = tune
	s.rxOffset = tune
	s.band, _ = BandFor(opts.Frequency)
	return s
}

func (s *Station) VFO() int64         { return s.vfo }
func (s *Station) RxFrequency() int64 { return s.vfo + s.rxOffset }
func (s *Station) TxFrequency() int64 { return s.vfo + s.txOffset }
func (s *Station) SampleRate() int    { return s.sampleRate }

// SetSampleRate changes the displayed bandwidth; offsets are kept.
func (s *Station) SetSampleRate(rate int) { s.sampleRate = rate }

func (s *Station) Tune(txOffset, vfo int64) {
	s.txOffset = txOffset
	if !s.split {
		s.rxOffset = txOffset
	}
	s.vfo = vfo
}

func (s *Station) SetRxOffset(rxOffset int64) { s.rxOffset = rxOffset }

func (s *Station) Mode() Mode { return s.mode }

func (s *Station) SetMode(m Mode) {
	s.mode = m
	choices := FilterChoices(m)
	for _, c := range choices {
		if c == s.filterBW {
			return
		}
	}
	s.filterBW = choices[len(choices)/2]
}

func (s *Station) FilterBandwidth() int      { return s.filterBW }
func (s *Station) SetFilterBandwidth(bw int) { s.filterBW = bw }
func (s *Station) FilterChoices() []int      { return FilterChoices(s.mode) }

func (s *Station) PTTControl() bool { return s.pttControl }
func (s *Station) PTT() bool        { return s.ptt }

func (s *Station) SetPTT(on bool) {
	if s.pttControl {
		s.ptt = on
	}
}

func (s *Station) Split() bool { return s.split }

// SetSplit turning split off pulls the receive frequency back onto the
// transmit frequency.
func (s *Station) SetSplit(on bool) {
	s.split = on
	if !on {
		s.rxOffset = s.txOffset
	}
}

func (s *Station) SplitHamlibTx() bool        { return s.splitTx }
func (s *Station) SetSplitHamlibTx(tx bool)   { s.splitTx = tx }
func (s *Station) RIT() (int, bool)           { return s.rit, s.ritOn }
func (s *Station) SetRIT(offset int, on bool) { s.rit, s.ritOn = offset, on }
func (s *Station) VOX() bool                  { return s.vox }
func (s *Station) SetVOX(on bool)             { s.vox = on }
func (s *Station) Band() string               { return s.band }
func (s *Station) SetBand(band string)        { s.band = band }
func (s *Station) Title() string              { return s.title }

// Snapshot copies the publishable state.
func (s *Station) Snapshot() State {
	return State{
		VFO:             s.vfo,
		RxFrequency:     s.RxFrequency(),
		TxFrequency:     s.TxFrequency(),
		SampleRate:      s.sampleRate,
		Mode:            s.mode,
		FilterBandwidth: s.filterBW,
		PTT:             s.ptt,
		Split:           s.split,
		Band:            s.band,
	}
}

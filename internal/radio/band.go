package radio

// BandEdge is the inclusive frequency range of an amateur band.
type BandEdge struct {
	Name string
	Low  int64
	High int64
}

// Bands lists the band edges in ascending order.
var Bands = []BandEdge{
	{"137k", 136000, 138000},
	{"500k", 400000, 600000},
	{"160", 1800000, 2000000},
	{"80", 3500000, 4000000},
	{"60", 5300000, 5430000},
	{"40", 7000000, 7300000},
	{"30", 10100000, 10150000},
	{"20", 14000000, 14350000},
	{"17", 18068000, 18168000},
	{"15", 21000000, 21450000},
	{"12", 24890000, 24990000},
	{"10", 28000000, 29700000},
	{"6", 50000000, 54000000},
	{"4", 70000000, 70500000},
	{"2", 144000000, 148000000},
	{"1.25", 222000000, 225000000},
	{"70cm", 420000000, 450000000},
	{"33cm", 902000000, 928000000},
	{"23cm", 1240000000, 1300000000},
	{"13cm", 2300000000, 2450000000},
	{"9cm", 3300000000, 3500000000},
	{"5cm", 5650000000, 5925000000},
	{"3cm", 10000000000, 10500000000},
}

// BandFor returns the band containing freq.
func BandFor(freq int64) (string, bool) {
	for _, b := range Bands {
		if b.Low <= freq && freq <= b.High {
			return b.Name, true
		}
	}
	return "", false
}

func bandContains(name string, freq int64) bool {
	for _, b := range Bands {
		if b.Name == name {
			return b.Low <= freq && freq <= b.High
		}
	}
	return false
}

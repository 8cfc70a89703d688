package cat

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// OpenSerial serves CAT on an existing serial device at 8N1.
func OpenSerial(device string, baud int, notify func(), log logrus.FieldLogger) (*Endpoint, error) {
	if baud == 0 {
		baud = 9600
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	log.Infof("cat on serial %s @ %d baud", device, baud)
	return NewEndpoint(port, device, notify, log), nil
}

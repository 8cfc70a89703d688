package cat

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"go.bug.st/serial"
)

// ListPorts returns the serial devices the system knows about, sorted and
// without duplicates. Devices found before an enumeration error are still
// returned alongside it.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		err = fmt.Errorf("enumerate serial ports: %w", err)
	}
	native, nerr := platformPorts()
	if nerr != nil {
		err = errors.Join(err, fmt.Errorf("enumerate %s: %w", platformSource, nerr))
	}
	ports = append(ports, native...)
	slices.Sort(ports)
	return slices.Compact(ports), err
}

// globPorts expands device patterns. Only malformed patterns fail.
func globPorts(patterns ...string) ([]string, error) {
	var found []string
	for _, p := range patterns {
		m, err := filepath.Glob(p)
		if err != nil {
			return found, fmt.Errorf("pattern %q: %w", p, err)
		}
		found = append(found, m...)
	}
	return found, nil
}

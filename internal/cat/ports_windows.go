//go:build windows

package cat

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

const (
	platformSource = "SERIALCOMM"
	serialCommKey  = `HARDWARE\DEVICEMAP\SERIALCOMM`
)

// platformPorts reads the COM names the drivers publish in the device map.
// A missing key means no serial driver is loaded, which is not an error.
func platformPorts() ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, serialCommKey, registry.READ)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer k.Close()

	info, err := k.Stat()
	if err != nil {
		return nil, err
	}
	devices, err := k.ReadValueNames(int(info.ValueCount))
	if err != nil {
		return nil, err
	}
	ports := make([]string, 0, len(devices))
	for _, dev := range devices {
		com, kind, err := k.GetStringValue(dev)
		if err != nil || kind != registry.SZ {
			continue
		}
		ports = append(ports, com)
	}
	return ports, nil
}

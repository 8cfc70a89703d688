//go:build !windows

package cat

const platformSource = "/dev"

// USB adapters and the macOS callout nodes; built-in UARTs come from
// serial.GetPortsList.
var devicePatterns = []string{"/dev/cu.*", "/dev/ttyUSB*", "/dev/ttyACM*"}

func platformPorts() ([]string, error) {
	return globPorts(devicePatterns...)
}

//go:build windows

package hermes

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func discoveryControl(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
		if serr == nil {
			serr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
		}
	})
	if err != nil {
		return err
	}
	return serr
}

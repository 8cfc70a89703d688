//go:build !windows

package cat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// OpenPTY creates a pseudo-terminal and links publicName to its slave so
// CAT clients can open a stable path. The slave stays open for the life of
// the endpoint; reads on the master then never fail when a client hangs up.
func OpenPTY(publicName string, notify func(), log logrus.FieldLogger) (*Endpoint, error) {
	master, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	if _, err := term.MakeRaw(int(tty.Fd())); err != nil {
		master.Close()
		tty.Close()
		return nil, fmt.Errorf("raw mode on %s: %w", tty.Name(), err)
	}

	// os.File only polls descriptors that are non-blocking when wrapped.
	fd, err := unix.Dup(int(master.Fd()))
	if err == nil {
		err = unix.SetNonblock(fd, true)
	}
	master.Close()
	if err != nil {
		tty.Close()
		return nil, fmt.Errorf("pty master: %w", err)
	}
	nb := os.NewFile(uintptr(fd), "ptmx")

	name := tty.Name()
	if publicName != "" {
		if err := os.Remove(publicName); err != nil && !errors.Is(err, fs.ErrNotExist) {
			nb.Close()
			tty.Close()
			return nil, fmt.Errorf("remove stale %s: %w", publicName, err)
		}
		if err := os.Symlink(tty.Name(), publicName); err != nil {
			nb.Close()
			tty.Close()
			return nil, fmt.Errorf("link %s: %w", publicName, err)
		}
		name = publicName
	}
	log.Infof("cat on pty %s -> %s", name, tty.Name())

	cleanup := func() {
		tty.Close()
		if publicName != "" {
			os.Remove(publicName)
		}
	}
	return newEndpoint(nb, name, notify, cleanup, log), nil
}

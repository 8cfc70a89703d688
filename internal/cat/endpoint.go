package cat

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNoEndpoint is returned by Open when neither a device nor a
// pseudo-terminal name is configured.
var ErrNoEndpoint = errors.New("no cat endpoint configured")

const (
	readChunk = 256
	inQueue   = 64
	outQueue  = 100
)

// Endpoint moves bytes between a serial-like port and the poll loop. A
// reader goroutine queues input and calls notify; a writer goroutine drains
// replies so a stalled peer never blocks the loop.
type Endpoint struct {
	log  logrus.FieldLogger
	name string
	port io.ReadWriteCloser

	in        chan []byte
	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
	cleanup   func()
	notify    func()
}

// NewEndpoint starts pumping port. notify may be nil.
func NewEndpoint(port io.ReadWriteCloser, name string, notify func(), log logrus.FieldLogger) *Endpoint {
	return newEndpoint(port, name, notify, nil, log)
}

func newEndpoint(port io.ReadWriteCloser, name string, notify, cleanup func(), log logrus.FieldLogger) *Endpoint {
	e := &Endpoint{
		log:     log,
		name:    name,
		port:    port,
		in:      make(chan []byte, inQueue),
		out:     make(chan []byte, outQueue),
		done:    make(chan struct{}),
		cleanup: cleanup,
		notify:  notify,
	}
	go e.readLoop()
	go e.writeLoop()
	return e
}

// Name is the path a CAT client opens.
func (e *Endpoint) Name() string { return e.name }

func (e *Endpoint) readLoop() {
	buf := make([]byte, readChunk)
	for {
		n, err := e.port.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case e.in <- data:
			case <-e.done:
				return
			}
			e.wake()
		}
		if err != nil {
			select {
			case <-e.done:
			default:
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
					e.log.Errorf("read error on %s: %v", e.name, err)
				}
			}
			return
		}
	}
}

func (e *Endpoint) writeLoop() {
	for {
		select {
		case data := <-e.out:
			if _, err := e.port.Write(data); err != nil {
				select {
				case <-e.done:
				default:
					e.log.Errorf("write error on %s: %v", e.name, err)
				}
				return
			}
		case <-e.done:
			return
		}
	}
}

func (e *Endpoint) wake() {
	if e.notify != nil {
		e.notify()
	}
}

// Receive returns everything read since the last call without blocking.
func (e *Endpoint) Receive() []byte {
	var got []byte
	for {
		select {
		case data := <-e.in:
			got = append(got, data...)
		default:
			return got
		}
	}
}

// Send queues a reply. It reports false when the queue is full or the
// endpoint is closed; the reply is dropped.
func (e *Endpoint) Send(data []byte) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.out <- data:
		return true
	default:
		return false
	}
}

// Close stops the pumps and releases the port.
func (e *Endpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.done)
		err = e.port.Close()
		if e.cleanup != nil {
			e.cleanup()
		}
	})
	return err
}

// Open prefers an existing serial device and otherwise creates a
// pseudo-terminal published at publicName.
func Open(device, publicName string, baud int, notify func(), log logrus.FieldLogger) (*Endpoint, error) {
	switch {
	case device != "":
		return OpenSerial(device, baud, notify, log)
	case publicName != "":
		return OpenPTY(publicName, notify, log)
	}
	return nil, ErrNoEndpoint
}

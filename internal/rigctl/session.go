package rigctl

import (
	"bytes"
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/radio"
)

// session is one connected client. Bytes are accumulated until a newline
// completes a command.
type session struct {
	log      logrus.FieldLogger
	conn     net.Conn
	addr     string
	open     bool
	received []byte
	buf      []byte
}

func newSession(conn net.Conn, log logrus.FieldLogger) *session {
	addr := conn.RemoteAddr().String()
	return &session{
		log:  log.WithField("client", addr),
		conn: conn,
		addr: addr,
		open: true,
		buf:  make([]byte, 1024),
	}
}

// service reads what the client sent and answers every complete command.
func (s *session) service(f radio.Facade) {
	if !s.open {
		return
	}
	eof := s.read()
	for s.open {
		i := bytes.IndexByte(s.received, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(s.received[:i]))
		s.received = s.received[i+1:]
		if line == "" {
			s.log.Debug("empty command, closing")
			s.close()
			return
		}
		s.execute(f, line)
	}
	if s.open && len(s.received) > maxPending {
		s.log.Warnf("%d bytes without a newline, closing", len(s.received))
		s.close()
		return
	}
	if eof && s.open {
		s.log.Debug("client closed connection")
		s.close()
	}
}

// read appends any pending input. It reports whether the peer is gone.
func (s *session) read() bool {
	_ = s.conn.SetReadDeadline(time.Now().Add(pollWait))
	n, err := s.conn.Read(s.buf)
	if n > 0 {
		s.received = append(s.received, s.buf[:n]...)
	}
	if err == nil || errors.Is(err, os.ErrDeadlineExceeded) {
		return false
	}
	return true
}

func (s *session) execute(f radio.Facade, line string) {
	s.log.Debugf("command %q", line)
	text, quit := respond(f, line)
	if quit {
		s.log.Debug("quit")
		s.close()
		return
	}
	s.send(text)
}

// respond runs one command line against f and renders the reply.
func respond(f radio.Facade, line string) (string, bool) {
	req := parseCommand(line)
	h, ok := handlers[req.name]
	if !ok {
		h = unimplemented
	}
	rep := h(f, req.params)
	if rep.quit {
		return "", true
	}
	return req.format(rep), false
}

func (s *session) send(text string) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := s.conn.Write([]byte(text)); err != nil {
		s.log.Debugf("send: %v", err)
		s.close()
	}
}

func (s *session) close() {
	if s.open {
		s.open = false
		_ = s.conn.Close()
	}
}

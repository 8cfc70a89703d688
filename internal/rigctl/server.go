// Package rigctl serves the rigctld network protocol so that Hamlib
// clients can read and tune the station. The server is driven from the
// poll loop and never blocks on a client.
package rigctl

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/radio"
)

const (
	pollWait     = time.Millisecond
	writeTimeout = time.Second

	// maxPending bounds the unterminated input kept for one client.
	maxPending = 4096
)

// Server accepts any number of rigctld clients.
type Server struct {
	log      logrus.FieldLogger
	ln       *net.TCPListener
	facade   radio.Facade
	sessions []*session
}

// Listen opens the rigctld listener on addr.
func Listen(addr string, facade radio.Facade, log logrus.FieldLogger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("rigctl listen %s: %w", addr, err)
	}
	log.Infof("listening on %s", ln.Addr())
	return &Server{log: log, ln: ln.(*net.TCPListener), facade: facade}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Sessions returns the number of open client sessions.
func (s *Server) Sessions() int { return len(s.sessions) }

// Poll accepts at most one new client, services every session once and
// drops the sessions that closed.
func (s *Server) Poll() {
	s.accept()
	open := s.sessions[:0]
	for _, sess := range s.sessions {
		sess.service(s.facade)
		if sess.open {
			open = append(open, sess)
			continue
		}
		s.log.Debugf("client %s removed", sess.addr)
	}
	for i := len(open); i < len(s.sessions); i++ {
		s.sessions[i] = nil
	}
	s.sessions = open
}

func (s *Server) accept() {
	_ = s.ln.SetDeadline(time.Now().Add(pollWait))
	conn, err := s.ln.Accept()
	if err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			s.log.Debugf("accept: %v", err)
		}
		return
	}
	s.log.Debugf("connection from %s", conn.RemoteAddr())
	s.sessions = append(s.sessions, newSession(conn, s.log))
}

// Close stops listening and drops every client.
func (s *Server) Close() error {
	for _, sess := range s.sessions {
		sess.close()
	}
	s.sessions = nil
	return s.ln.Close()
}

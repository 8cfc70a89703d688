package feed

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/radio"
)

// Event is the websocket message carrying a radio snapshot.
type Event struct {
	Type  string `json:"type"` // "radio"
	Title string `json:"title,omitempty"`
	radio.State
}

// Snapshotter is implemented by radio.Station.
type Snapshotter interface {
	Snapshot() radio.State
}

// Publisher is a poll component that broadcasts the radio state whenever
// it changes.
type Publisher struct {
	log   logrus.FieldLogger
	src   Snapshotter
	hub   *Hub
	title string

	mu   sync.Mutex
	last radio.State
	sent bool
}

func NewPublisher(src Snapshotter, hub *Hub, title string, log logrus.FieldLogger) *Publisher {
	return &Publisher{log: log, src: src, hub: hub, title: title}
}

// Poll publishes the current snapshot unless it equals the last one.
func (p *Publisher) Poll() {
	s := p.src.Snapshot()
	p.mu.Lock()
	same := p.sent && s == p.last
	p.last, p.sent = s, true
	p.mu.Unlock()
	if same {
		return
	}
	b, err := json.Marshal(Event{Type: "radio", Title: p.title, State: s})
	if err != nil {
		p.log.Errorf("encode radio event: %v", err)
		return
	}
	if !p.hub.Broadcast(b) {
		p.log.Debug("feed queue full, snapshot dropped")
	}
}

// State returns the last published snapshot; ok is false before the first.
func (p *Publisher) State() (s radio.State, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.sent
}

// Title is shown on the status page.
func (p *Publisher) Title() string { return p.title }

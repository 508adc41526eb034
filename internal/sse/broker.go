// Package sse implements a Server-Sent Events broker for view and note updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types.
const (
	TypeViewChanged    = "view.changed"
	TypeNoteSaved      = "note.saved"
	TypeArchiveChanged = "archive.changed"
)

// Event is one message. A non-empty Session limits delivery to that session's
// subscribers; an empty Session is broadcast to everyone.
type Event struct {
	Type    string      `json:"type"`
	Session string      `json:"-"`
	Data    interface{} `json:"data"`
}

type subscription struct {
	ch      chan []byte
	session string
}

// Broker manages SSE client connections and fans events out to them.
//
// A single internal loop goroutine owns the client set and the archive
// throttle timestamp; public methods talk to it over channels.
type Broker struct {
	archiveMin time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	archiveCh     chan string
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that sends at most one archive.changed event per
// archiveThrottle.
func NewBroker(archiveThrottle time.Duration) *Broker {
	if archiveThrottle <= 0 {
		archiveThrottle = 2 * time.Second
	}

	b := &Broker{
		archiveMin:    archiveThrottle,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		archiveCh:     make(chan string, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]string)
	var lastArchive time.Time

	deliver := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))

		for ch, session := range clients {
			if event.Session != "" && session != event.Session {
				continue
			}
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than stall the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = sub.session

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			deliver(event)

		case source := <-b.archiveCh:
			now := time.Now()
			if now.Sub(lastArchive) >= b.archiveMin {
				lastArchive = now
				deliver(Event{Type: TypeArchiveChanged, Data: map[string]string{"source": source}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a client. session may be empty to receive broadcasts only.
func (b *Broker) Subscribe(session string) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscription{ch: ch, session: session}:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish queues event for delivery.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishSessionEvent sends a controller event to one session's clients.
func (b *Broker) PublishSessionEvent(session, kind string, data map[string]string) {
	b.Publish(Event{Type: kind, Session: session, Data: data})
}

// PublishArchiveChanged announces that the archive document changed on disk.
// Bursts are throttled to one event per throttle interval.
func (b *Broker) PublishArchiveChanged(source string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.archiveCh <- source:
	case <-b.stopped:
	}
}

// Handler streams broadcast events plus the events of the session sessionOf
// reports for the request.
func (b *Broker) Handler(sessionOf func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.serve(w, r, sessionOf(r))
	})
}

func (b *Broker) serve(w http.ResponseWriter, r *http.Request, session string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(session)
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}

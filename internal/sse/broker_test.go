package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func drain(ch chan []byte) []string {
	time.Sleep(50 * time.Millisecond)
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe("")
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestSessionEventsStayInSession(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	mine := b.Subscribe("s1")
	theirs := b.Subscribe("s2")
	anon := b.Subscribe("")
	defer b.Unsubscribe(mine)
	defer b.Unsubscribe(theirs)
	defer b.Unsubscribe(anon)

	b.PublishSessionEvent("s1", TypeViewChanged, map[string]string{"section": "timeline"})

	got := drain(mine)
	if len(got) != 1 || !strings.Contains(got[0], "event: view.changed") || !strings.Contains(got[0], `"section":"timeline"`) {
		t.Errorf("s1 got %q", got)
	}
	if got := drain(theirs); len(got) != 0 {
		t.Errorf("s2 got %q", got)
	}
	if got := drain(anon); len(got) != 0 {
		t.Errorf("anonymous subscriber got %q", got)
	}
}

func TestBroadcastReachesEveryone(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	a := b.Subscribe("s1")
	c := b.Subscribe("")
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	b.PublishArchiveChanged("data.json")

	for _, ch := range []chan []byte{a, c} {
		got := drain(ch)
		if len(got) != 1 || !strings.Contains(got[0], "event: archive.changed") {
			t.Errorf("got %q", got)
		}
	}
}

func TestArchiveChangedThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe("")
	defer b.Unsubscribe(ch)

	b.PublishArchiveChanged("data.json")
	b.PublishArchiveChanged("data.json")
	b.PublishArchiveChanged("data.json")

	if got := drain(ch); len(got) != 1 {
		t.Errorf("archive events = %d, want 1 (throttled)", len(got))
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	h := b.Handler(func(*http.Request) string { return "s1" })
	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishSessionEvent("s1", TypeNoteSaved, map[string]string{"key": "notes-a"})
	b.PublishSessionEvent("s2", TypeNoteSaved, map[string]string{"key": "notes-b"})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: note.saved") || !strings.Contains(body, "notes-a") {
		t.Errorf("handler output missing event: %q", body)
	}
	if strings.Contains(body, "notes-b") {
		t.Errorf("handler leaked another session's event: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe("")
	defer b.Unsubscribe(ch)

	// Buffer holds 64; the rest must be dropped without blocking.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe("")
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	b.PublishSessionEvent("s1", TypeViewChanged, nil)
	b.PublishArchiveChanged("data.json")
}

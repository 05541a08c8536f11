package hub

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"aspectstudio/internal/service"
)

// sseRecorder is a concurrency-safe ResponseWriter for streaming handlers.
type sseRecorder struct {
	mu     sync.Mutex
	header http.Header
	body   bytes.Buffer
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: make(http.Header)}
}

func (r *sseRecorder) Header() http.Header { return r.header }
func (r *sseRecorder) WriteHeader(int)     {}
func (r *sseRecorder) Flush()              {}

func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *sseRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBroadcastReachesClient(t *testing.T) {
	h := New()
	go h.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(rec, req)
		close(done)
	}()

	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client registration")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	h.Broadcast(service.Event{Type: service.EventGraphChanged})
	waitFor(t, func() bool { return strings.Contains(rec.String(), "graph_changed") }, "event delivery")

	cancel()
	<-done
	waitFor(t, func() bool { return h.ClientCount() == 0 }, "client unregistration")
}

func TestBridgeForwardsBusEvents(t *testing.T) {
	h := New()
	go h.Run()

	bus := service.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Bridge(ctx, bus)

	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	rec := newSSERecorder()
	go h.ServeHTTP(rec, req)

	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client registration")

	bus.Publish(service.Event{Type: service.EventModelImported, Payload: map[string]any{"file": "Movement.ttl"}})
	waitFor(t, func() bool { return strings.Contains(rec.String(), "model_imported") }, "bridged event")
}

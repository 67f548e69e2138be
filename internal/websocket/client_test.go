package websocket

import (
	"errors"
	"testing"
	"time"
)

func (f *fakeConn) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeConn) writtenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWritePumpContinuesAfterWriteError(t *testing.T) {
	cl := testClient(5, 1)
	conn := cl.Conn.(*fakeConn)
	conn.setWriteErr(errors.New("broken pipe"))

	go cl.writeMessages()
	defer close(cl.done)

	cl.Send <- []byte("first")
	cl.Send <- []byte("second")

	// Both failed writes are logged and skipped; nothing reaches the wire
	// and the pump keeps draining.
	waitFor(t, func() bool { return len(cl.Send) == 0 },
		"expected the pump to consume frames despite write errors")

	conn.setWriteErr(nil)
	cl.Send <- []byte("third")

	waitFor(t, func() bool { return conn.writtenCount() >= 1 },
		"expected a frame to reach the wire once writes recover")
}

func TestWriteFailureDoesNotEvictConnection(t *testing.T) {
	h := NewHandler(NewRegistry())

	healthy := testClient(5, 1)
	broken := testClient(5, 2)
	h.openConnection(healthy)
	h.openConnection(broken)

	broken.Conn.(*fakeConn).setWriteErr(errors.New("broken pipe"))
	go broken.writeMessages()
	defer close(broken.done)

	h.relayMessage(healthy, []byte(`{"idUser": 1, "content": "hi"}`))

	// A failing recipient stays a room member and keeps showing up in
	// presence queries; only a close transition removes it.
	waitFor(t, func() bool { return len(broken.Send) == 0 },
		"expected the pump to consume the frame despite the error")
	if ids := h.Registry().ConnectedUserIDs(5); len(ids) != 2 {
		t.Fatalf("expected both users still connected, got %v", ids)
	}
}

package link

import (
	"errors"
	"testing"
	"time"
)

func TestPipeDelivers(t *testing.T) {
	a, b := Pipe(4)
	if _, ok := b.TryReceive(); ok {
		t.Fatal("empty pipe should have nothing to receive")
	}
	for _, w := range []uint32{1, 2, 3} {
		if err := a.Send(w); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	for _, want := range []uint32{1, 2, 3} {
		got, ok := b.TryReceive()
		if !ok || got != want {
			t.Errorf("TryReceive = %d,%v want %d", got, ok, want)
		}
	}
	if _, ok := a.TryReceive(); ok {
		t.Error("words must not echo back to the sender")
	}
}

func TestPipeDropsOldest(t *testing.T) {
	a, b := Pipe(3)
	for w := uint32(1); w <= 5; w++ {
		a.Send(w)
	}
	if len(b.rx.buf) != 3 {
		t.Fatalf("queued = %d, want 3", len(b.rx.buf))
	}
	if b.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", b.Dropped())
	}
	for _, want := range []uint32{3, 4, 5} {
		if got, _ := b.TryReceive(); got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestPipeClose(t *testing.T) {
	a, b := Pipe(2)
	a.Send(7)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Send(8); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after close = %v, want ErrClosed; closing one end closes both", err)
	}
	if _, ok := b.TryReceive(); ok {
		t.Error("closed pipe should not deliver")
	}
}

func TestQueueDefaultSize(t *testing.T) {
	q := newQueue(0)
	if q.max != DefaultBuffer {
		t.Errorf("max = %d, want %d", q.max, DefaultBuffer)
	}
}

func TestRegistry(t *testing.T) {
	names := map[string]bool{}
	for _, d := range Drivers() {
		names[d.Name] = true
		if d.Description == "" {
			t.Errorf("driver %q has no description", d.Name)
		}
	}
	for _, want := range []string{"udp", "ws"} {
		if !names[want] || !Exists(want) {
			t.Errorf("driver %q not registered", want)
		}
	}

	if _, err := Open("carrier-pigeon", Config{}); err == nil {
		t.Error("Open of an unknown driver should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate driver")
		}
	}()
	Register("udp", "again", openUDP)
}

// receive polls c until a word arrives or the deadline passes.
func receive(t *testing.T, c Conn) uint32 {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w, ok := c.TryReceive(); ok {
			return w
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no word received")
	return 0
}

func TestUDPLoopback(t *testing.T) {
	host, err := DialUDP(Config{Listen: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("DialUDP host: %v", err)
	}
	defer host.Close()

	if err := host.Send(1); !errors.Is(err, ErrNoPeer) {
		t.Errorf("Send before a peer is known = %v, want ErrNoPeer", err)
	}

	joiner, err := Open("udp", Config{Listen: "127.0.0.1:0", Peer: host.LocalAddr().String()})
	if err != nil {
		t.Fatalf("Open udp: %v", err)
	}
	defer joiner.Close()

	if err := joiner.Send(0x0078011B); err != nil {
		t.Fatalf("joiner Send: %v", err)
	}
	if got := receive(t, host); got != 0x0078011B {
		t.Errorf("host got %#08x", got)
	}

	if err := host.Send(0x00FF00FF); err != nil {
		t.Fatalf("host Send: %v", err)
	}
	if got := receive(t, joiner); got != 0x00FF00FF {
		t.Errorf("joiner got %#08x", got)
	}
}

func TestUDPCloseIdempotent(t *testing.T) {
	c, err := DialUDP(Config{Listen: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := c.Send(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after close = %v, want ErrClosed", err)
	}
}

func TestWebsocketLoopback(t *testing.T) {
	host, err := ListenWS(Config{Listen: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("ListenWS: %v", err)
	}
	defer host.Close()

	joiner, err := Open("ws", Config{Peer: host.Addr().String()})
	if err != nil {
		t.Fatalf("Open ws: %v", err)
	}
	defer joiner.Close()

	if err := joiner.Send(42); err != nil {
		t.Fatalf("joiner Send: %v", err)
	}
	if got := receive(t, host); got != 42 {
		t.Errorf("host got %d", got)
	}

	if err := host.Send(43); err != nil {
		t.Fatalf("host Send: %v", err)
	}
	if got := receive(t, joiner); got != 43 {
		t.Errorf("joiner got %d", got)
	}
}

func TestWebsocketHostWithoutPeer(t *testing.T) {
	host, err := ListenWS(Config{Listen: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("ListenWS: %v", err)
	}
	defer host.Close()

	if host.Connected() {
		t.Error("no peer has dialed yet")
	}
	if err := host.Send(1); !errors.Is(err, ErrNoPeer) {
		t.Errorf("Send = %v, want ErrNoPeer", err)
	}
}

package link

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

func init() {
	Register("ws", "websocket with binary 4-byte frames; host with listen, join with peer", openWS)
}

// Path is where a hosting board serves its websocket.
const Path = "/link"

const wsWriteTimeout = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64,
	WriteBufferSize: 64,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSConn exchanges words as binary websocket frames. A hosting end serves
// one peer at a time on Path; a joining end dials the host.
type WSConn struct {
	q   *queue
	out chan uint32
	log *log.Logger

	mu   sync.Mutex
	peer *wsPeer

	ln  net.Listener
	srv *http.Server

	closed atomic.Bool
	wg     sync.WaitGroup
}

// wsPeer is one live websocket and the goroutines serving it.
type wsPeer struct {
	c    *websocket.Conn
	stop chan struct{}
	once sync.Once
}

func (p *wsPeer) close() {
	p.once.Do(func() {
		close(p.stop)
		p.c.Close()
	})
}

func openWS(cfg Config) (Conn, error) {
	if cfg.Peer != "" {
		return DialWS(cfg)
	}
	return ListenWS(cfg)
}

func newWSConn(cfg Config, role string) *WSConn {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &WSConn{
		q:   newQueue(buffer),
		out: make(chan uint32, buffer),
		log: loggerOr(cfg.Logger).With("link", "ws", "role", role),
	}
}

// ListenWS serves Path on cfg.Listen and waits for a peer to dial in.
func ListenWS(cfg Config) (*WSConn, error) {
	w := newWSConn(cfg, "host")

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen %q: %w", cfg.Listen, err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Path, w.handle)
	w.ln = ln
	w.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.log.Error("serve", "err", err)
		}
	}()

	w.log.Info("waiting for peer", "addr", ln.Addr())
	return w, nil
}

// DialWS connects to a hosting board at cfg.Peer.
func DialWS(cfg Config) (*WSConn, error) {
	w := newWSConn(cfg, "join")

	url := "ws://" + cfg.Peer + Path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	w.attach(c)
	w.log.Info("connected", "url", url)
	return w, nil
}

// Addr returns the listening address of a hosting end, or nil.
func (w *WSConn) Addr() net.Addr {
	if w.ln == nil {
		return nil
	}
	return w.ln.Addr()
}

// Connected reports whether a peer is attached.
func (w *WSConn) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.peer != nil
}

func (w *WSConn) handle(rw http.ResponseWriter, r *http.Request) {
	if w.Connected() {
		http.Error(rw, "link already has a peer", http.StatusConflict)
		return
	}
	c, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn("upgrade", "err", err)
		return
	}
	w.log.Info("peer connected", "remote", r.RemoteAddr)
	w.attach(c)
}

func (w *WSConn) attach(c *websocket.Conn) {
	p := &wsPeer{c: c, stop: make(chan struct{})}

	w.mu.Lock()
	if w.peer != nil || w.closed.Load() {
		w.mu.Unlock()
		c.Close()
		return
	}
	w.peer = p
	w.mu.Unlock()

	w.wg.Add(2)
	go w.readLoop(p)
	go w.writeLoop(p)
}

func (w *WSConn) detach(p *wsPeer) {
	w.mu.Lock()
	if w.peer == p {
		w.peer = nil
	}
	w.mu.Unlock()
	p.close()
}

func (w *WSConn) readLoop(p *wsPeer) {
	defer w.wg.Done()
	defer w.detach(p)
	for {
		mt, data, err := p.c.ReadMessage()
		if err != nil {
			if !w.closed.Load() {
				w.log.Info("peer disconnected", "err", err)
			}
			return
		}
		if mt != websocket.BinaryMessage || len(data) != wordSize {
			w.log.Debug("dropped frame", "type", mt, "size", len(data))
			continue
		}
		w.q.push(binary.BigEndian.Uint32(data))
	}
}

func (w *WSConn) writeLoop(p *wsPeer) {
	defer w.wg.Done()
	var b [wordSize]byte
	for {
		select {
		case <-p.stop:
			return
		case word := <-w.out:
			binary.BigEndian.PutUint32(b[:], word)
			_ = p.c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := p.c.WriteMessage(websocket.BinaryMessage, b[:]); err != nil {
				w.log.Debug("write", "err", err)
				w.detach(p)
				return
			}
		}
	}
}

// Send queues a word for the writer. A full queue drops the word.
func (w *WSConn) Send(word uint32) error {
	if w.closed.Load() {
		return ErrClosed
	}
	if !w.Connected() {
		return ErrNoPeer
	}
	select {
	case w.out <- word:
		return nil
	default:
		return errors.New("link: ws send queue full")
	}
}

// TryReceive returns the oldest received word, if any.
func (w *WSConn) TryReceive() (uint32, bool) {
	return w.q.pop()
}

// Close disconnects the peer and stops serving.
func (w *WSConn) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	var err error
	if w.srv != nil {
		err = w.srv.Close()
	}
	w.mu.Lock()
	p := w.peer
	w.peer = nil
	w.mu.Unlock()
	if p != nil {
		_ = p.c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteTimeout))
		p.close()
	}
	w.wg.Wait()
	return err
}

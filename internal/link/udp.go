package link

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

func init() {
	Register("udp", "4-byte datagrams between two addresses", openUDP)
}

// wordSize is the length of a word on the wire, big endian.
const wordSize = 4

// UDPConn exchanges words as single datagrams. Without a configured peer
// it answers whoever sent the most recent datagram.
type UDPConn struct {
	conn *net.UDPConn
	q    *queue
	log  *log.Logger

	mu   sync.RWMutex
	peer *net.UDPAddr

	closed atomic.Bool
	wg     sync.WaitGroup
}

func openUDP(cfg Config) (Conn, error) {
	return DialUDP(cfg)
}

// DialUDP binds cfg.Listen and, when set, targets cfg.Peer.
func DialUDP(cfg Config) (*UDPConn, error) {
	listen := cfg.Listen
	if listen == "" {
		listen = ":0"
	}
	laddr, err := net.ResolveUDPAddr("udp", listen)
	if err != nil {
		return nil, fmt.Errorf("resolve listen %q: %w", listen, err)
	}

	var raddr *net.UDPAddr
	if cfg.Peer != "" {
		raddr, err = net.ResolveUDPAddr("udp", cfg.Peer)
		if err != nil {
			return nil, fmt.Errorf("resolve peer %q: %w", cfg.Peer, err)
		}
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", laddr, err)
	}

	u := &UDPConn{
		conn: conn,
		q:    newQueue(cfg.Buffer),
		log:  loggerOr(cfg.Logger).With("link", "udp"),
		peer: raddr,
	}
	u.wg.Add(1)
	go u.readLoop()

	u.log.Info("listening", "addr", conn.LocalAddr(), "peer", cfg.Peer)
	return u, nil
}

// LocalAddr returns the bound address.
func (u *UDPConn) LocalAddr() net.Addr { return u.conn.LocalAddr() }

func (u *UDPConn) readLoop() {
	defer u.wg.Done()
	buf := make([]byte, 64)
	for {
		n, from, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			if u.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			u.log.Warn("read", "err", err)
			continue
		}
		if n != wordSize {
			u.log.Debug("dropped datagram", "from", from, "size", n)
			continue
		}

		u.mu.Lock()
		if u.peer == nil {
			u.peer = from
			u.log.Info("peer learned", "addr", from)
		}
		u.mu.Unlock()

		u.q.push(binary.BigEndian.Uint32(buf[:wordSize]))
	}
}

// Send writes one datagram to the peer.
func (u *UDPConn) Send(word uint32) error {
	if u.closed.Load() {
		return ErrClosed
	}
	u.mu.RLock()
	peer := u.peer
	u.mu.RUnlock()
	if peer == nil {
		return ErrNoPeer
	}

	var b [wordSize]byte
	binary.BigEndian.PutUint32(b[:], word)
	if _, err := u.conn.WriteToUDP(b[:], peer); err != nil {
		return fmt.Errorf("link: udp send: %w", err)
	}
	return nil
}

// TryReceive returns the oldest received word, if any.
func (u *UDPConn) TryReceive() (uint32, bool) {
	return u.q.pop()
}

// Close stops the reader and releases the socket.
func (u *UDPConn) Close() error {
	if u.closed.Swap(true) {
		return nil
	}
	err := u.conn.Close()
	u.wg.Wait()
	return err
}

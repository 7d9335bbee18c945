package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/kestreldns/rind/internal/pool"
)

// incomingDatagramSize is the per-read buffer size. Queries this server
// accepts are tiny (a single question, no RRs); 512 bytes matches the
// classic non-EDNS UDP message size.
const incomingDatagramSize = 512

// dispatchQueueDepth bounds the handoff channel between the single receive
// goroutine and the per-datagram worker goroutines it spawns.
const dispatchQueueDepth = 1024

var bufferPool = pool.New(func() *[]byte {
	buf := make([]byte, incomingDatagramSize)
	return &buf
})

type datagram struct {
	bufPtr *[]byte
	n      int
	peer   *net.UDPAddr
}

// UDPServer is a single-socket UDP listener: one receive goroutine feeds
// a bounded channel, and a dispatcher goroutine drains it and spawns one
// worker goroutine per datagram (not a fixed worker pool — each query is
// independent and short-lived, so per-datagram spawn keeps the model
// simple).
type UDPServer struct {
	Logger  *slog.Logger
	Handler *QueryHandler

	conn *net.UDPConn
	wg   sync.WaitGroup
}

// Run binds addr and serves until ctx is cancelled.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn

	ch := make(chan datagram, dispatchQueueDepth)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.recvLoop(ctx, ch)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchLoop(ctx, ch)
	}()

	if s.Logger != nil {
		s.Logger.Info("dns udp listening", "addr", conn.LocalAddr().String())
	}

	<-ctx.Done()
	return s.Stop(5 * time.Second)
}

// recvLoop reads datagrams off the socket and hands them to the
// dispatcher. Per the backpressure model (§4.4/§5), a full queue blocks
// the send rather than dropping the datagram: the stall naturally
// propagates back to the kernel socket buffer, since the next
// ReadFromUDP simply waits its turn.
func (s *UDPServer) recvLoop(ctx context.Context, out chan<- datagram) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			return
		}

		select {
		case out <- datagram{bufPtr: bufPtr, n: n, peer: peer}:
		case <-ctx.Done():
			bufferPool.Put(bufPtr)
			return
		}
	}
}

// dispatchLoop drains the channel and spawns one goroutine per datagram.
func (s *UDPServer) dispatchLoop(ctx context.Context, in <-chan datagram) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-in:
			if !ok {
				return
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handle(d)
			}()
		}
	}
}

func (s *UDPServer) handle(d datagram) {
	defer bufferPool.Put(d.bufPtr)

	payload := (*d.bufPtr)[:d.n]
	resp := s.Handler.Handle(d.peer.IP.String(), payload)
	if len(resp) == 0 {
		return
	}
	if _, err := s.conn.WriteToUDP(resp, d.peer); err != nil {
		s.Handler.Metrics.IncrementPacketErrors()
	}
}

// Stop closes the socket and waits up to timeout for all goroutines
// (receiver, dispatcher, in-flight per-datagram workers) to exit.
func (s *UDPServer) Stop(timeout time.Duration) error {
	if s.conn != nil {
		_ = s.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return nil
	}
}

package rawhttp

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// SocketHandler receives socket notifications. Nil fields are skipped. All
// callbacks run sequentially on the socket's reader goroutine and must not
// call Subscribe or Close on the same socket.
type SocketHandler struct {
	Data  func(chunk []byte) // A chunk read from the stream, owned by the handler
	Error func(err error)    // A read failure not caused by a local Close
	Close func()             // The stream ended; always the last notification
}

// Socket wraps one plain or TLS stream to a fixed target and delivers what it
// reads as chunks to subscribers, in arrival order.
type Socket struct {
	target Target
	opts   Options

	mu         sync.Mutex
	conn       net.Conn
	connected  bool
	closing    bool
	readerDone chan struct{}
	timing     Timing

	// dispatchMu serializes delivery so that queued chunks replayed by
	// Subscribe never interleave with chunks from the reader.
	dispatchMu sync.Mutex

	handlersMu sync.Mutex
	handlers   []*subscription
	nextID     uint64
	backlog    [][]byte
}

type subscription struct {
	id      uint64
	handler SocketHandler
}

// NewSocket creates an unconnected socket for target
func NewSocket(target Target, opts Options) *Socket {
	opts.SetDefaults()
	return &Socket{
		target: target,
		opts:   opts,
	}
}

// Connect dials the target and, for https, performs the TLS handshake. It
// returns immediately if the socket is already connected.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	conn, timing, err := s.dial(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})

	s.handlersMu.Lock()
	s.backlog = nil
	s.handlersMu.Unlock()

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.closing = false
	s.readerDone = done
	s.timing = timing
	s.mu.Unlock()

	go s.readLoop(conn, done)
	return nil
}

func (s *Socket) dial(ctx context.Context) (net.Conn, Timing, error) {
	var timing Timing

	ctx, cancel := context.WithTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: s.opts.ConnTimeout}

	var conn net.Conn
	var err error
	start := time.Now()

	if s.opts.ProxyURL != "" {
		conn, err = s.dialProxy(ctx, dialer)
		if err != nil {
			return nil, timing, err
		}
		timing.ProxyConnect = time.Since(start)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", s.target.Address())
		if err != nil {
			return nil, timing, NewConnectionError(err)
		}
		timing.TCPConnect = time.Since(start)
	}

	if !s.target.IsTLS() {
		return conn, timing, nil
	}

	tlsStart := time.Now()
	tlsConn := tls.Client(conn, s.opts.BuildTLSConfig(s.target.Host))
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, timing, NewTLSError(err)
	}
	timing.TLSHandshake = time.Since(tlsStart)

	return tlsConn, timing, nil
}

func (s *Socket) dialProxy(ctx context.Context, forward *net.Dialer) (net.Conn, error) {
	proxyURL, err := url.Parse(s.opts.ProxyURL)
	if err != nil {
		return nil, NewProxyError(errors.Wrap(err, "invalid proxy URL"))
	}

	d, err := proxy.FromURL(proxyURL, forward)
	if err != nil {
		return nil, NewProxyError(err)
	}

	var conn net.Conn
	if cd, ok := d.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", s.target.Address())
	} else {
		conn, err = d.Dial("tcp", s.target.Address())
	}
	if err != nil {
		return nil, NewProxyError(err)
	}
	return conn, nil
}

func (s *Socket) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	buf := make([]byte, s.opts.ReadBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.dispatchData(chunk)
		}
		if err != nil {
			s.handleReadError(conn, err)
			return
		}
	}
}

func (s *Socket) handleReadError(conn net.Conn, err error) {
	s.mu.Lock()
	closing := s.closing
	if s.conn == conn {
		s.conn = nil
		s.connected = false
	}
	s.mu.Unlock()

	if !closing {
		conn.Close()
		if !errors.Is(err, io.EOF) {
			s.dispatchError(NewTransportError(err))
		}
	}
	s.dispatchClose()
}

// Close closes the stream and waits for the reader to deliver the close
// notification. Closing an unconnected socket is a no-op.
func (s *Socket) Close() error {
	s.mu.Lock()
	conn := s.conn
	done := s.readerDone
	s.closing = true
	s.conn = nil
	s.connected = false
	s.readerDone = nil
	s.mu.Unlock()

	var err error
	if conn != nil {
		if cerr := conn.Close(); cerr != nil {
			err = NewTransportError(cerr)
		}
	}
	if done != nil {
		<-done
	}
	return err
}

// Write writes p to the stream
func (s *Socket) Write(p []byte) (int, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, NewNotConnectedError()
	}

	if s.opts.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
		defer conn.SetWriteDeadline(time.Time{})
	}

	n, err := conn.Write(p)
	if err != nil {
		return n, NewTransportError(err)
	}
	return n, nil
}

// Connected reports whether the stream is open
func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Timing returns how long the last Connect spent in each phase
func (s *Socket) Timing() Timing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timing
}

// Subscribe registers h and returns a function that removes it. Chunks read
// while no handler with a Data callback was registered are replayed to h
// before Subscribe returns.
func (s *Socket) Subscribe(h SocketHandler) (unsubscribe func()) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.handlersMu.Lock()
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, &subscription{id: id, handler: h})

	var queued [][]byte
	if h.Data != nil {
		queued = s.backlog
		s.backlog = nil
	}
	s.handlersMu.Unlock()

	for _, chunk := range queued {
		h.Data(chunk)
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// DiscardBacklog drops chunks queued while no data handler was registered and
// returns how many bytes were dropped
func (s *Socket) DiscardBacklog() int {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()

	n := 0
	for _, chunk := range s.backlog {
		n += len(chunk)
	}
	s.backlog = nil
	return n
}

func (s *Socket) remove(id uint64) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()

	for i, sub := range s.handlers {
		if sub.id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *Socket) snapshot() []SocketHandler {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()

	hs := make([]SocketHandler, len(s.handlers))
	for i, sub := range s.handlers {
		hs[i] = sub.handler
	}
	return hs
}

func (s *Socket) dispatchData(chunk []byte) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	delivered := false
	for _, h := range s.snapshot() {
		if h.Data != nil {
			h.Data(chunk)
			delivered = true
		}
	}

	if !delivered {
		s.handlersMu.Lock()
		s.backlog = append(s.backlog, chunk)
		s.handlersMu.Unlock()
	}
}

func (s *Socket) dispatchError(err error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	for _, h := range s.snapshot() {
		if h.Error != nil {
			h.Error(err)
		}
	}
}

func (s *Socket) dispatchClose() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	for _, h := range s.snapshot() {
		if h.Close != nil {
			h.Close()
		}
	}
}

package rawhttp

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/WhileEndless/go-sockhttp/pkg/headers"
)

// State is the lifecycle state of a Connection
type State int

const (
	StateUnconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Connection is one TCP or TLS session to a single origin. It carries at
// most one request at a time: callers must not overlap Send/Receive pairs,
// and concurrent use from several goroutines is not supported.
type Connection struct {
	id      string
	target  Target
	opts    Options
	log     zerolog.Logger
	clock   clock.Clock
	socket  *Socket
	headers *headers.OrderedHeaders

	mu      sync.Mutex
	state   State
	pending *pendingReceive
}

// NewConnection creates an unconnected Connection for target. It fails with
// ErrInvalidTarget when the URL has no hostname or is not http/https.
func NewConnection(target string, opts Options) (*Connection, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	opts.SetDefaults()

	id := uuid.NewString()
	c := &Connection{
		id:      id,
		target:  t,
		opts:    opts,
		clock:   opts.Clock,
		socket:  NewSocket(t, opts),
		headers: headers.NewOrderedHeaders(),
		log: opts.Logger.With().
			Str("conn_id", id).
			Str("host", t.Host).
			Int("port", t.Port).
			Logger(),
	}

	c.headers.Set("Host", t.HostHeader())
	c.socket.Subscribe(SocketHandler{
		Error: c.onSocketError,
		Close: c.onSocketClose,
	})

	return c, nil
}

// ID returns the connection identifier used in log lines
func (c *Connection) ID() string {
	return c.id
}

// Target returns the origin this connection talks to
func (c *Connection) Target() Target {
	return c.target
}

// Host returns the target hostname
func (c *Connection) Host() string {
	return c.target.Host
}

// Port returns the target port
func (c *Connection) Port() int {
	return c.target.Port
}

// Timeout returns the response wait budget
func (c *Connection) Timeout() time.Duration {
	return c.opts.Timeout
}

// State returns the current lifecycle state
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether the connection is open
func (c *Connection) Connected() bool {
	return c.State() == StateConnected
}

// Timing returns the phase timings of the last successful Connect
func (c *Connection) Timing() Timing {
	return c.socket.Timing()
}

// Connect opens the stream. It is a no-op when already connected.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected {
		c.mu.Unlock()
		return nil
	}
	prev := c.state
	c.state = StateConnecting
	c.mu.Unlock()

	if err := c.socket.Connect(ctx); err != nil {
		c.mu.Lock()
		c.state = prev
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("connect failed")
		return errors.Wrapf(err, "connecting to %s", c.target.Address())
	}

	c.mu.Lock()
	if c.socket.Connected() {
		c.state = StateConnected
	} else {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	c.log.Debug().
		Bool("tls", c.target.IsTLS()).
		Dur("elapsed", c.socket.Timing().Total()).
		Msg("connected")
	return nil
}

// Disconnect closes the stream. It is a no-op when not connected.
func (c *Connection) Disconnect() error {
	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	err := c.socket.Close()

	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()

	c.log.Debug().Msg("disconnected")
	return err
}

// SetHeader sets a default header sent with every request
func (c *Connection) SetHeader(name, value string) {
	c.headers.Set(name, value)
}

// RemoveHeader removes a default header
func (c *Connection) RemoveHeader(name string) {
	c.headers.Del(name)
}

// Header returns the value of a default header
func (c *Connection) Header(name string) string {
	return c.headers.Get(name)
}

// Headers returns the default headers in the order they are sent
func (c *Connection) Headers() []headers.Header {
	return c.headers.All()
}

// Subscribe registers a handler for the raw socket notifications. See
// SocketHandler for the calling rules.
func (c *Connection) Subscribe(h SocketHandler) (unsubscribe func()) {
	return c.socket.Subscribe(h)
}

// Send writes raw bytes to the stream
func (c *Connection) Send(p []byte) error {
	if !c.Connected() {
		return NewNotConnectedError()
	}
	if _, err := c.socket.Write(p); err != nil {
		c.log.Error().Err(err).Msg("write failed")
		return err
	}
	return nil
}

func (c *Connection) onSocketError(err error) {
	c.mu.Lock()
	p := c.pending
	c.mu.Unlock()

	c.log.Error().Err(err).Bool("pending", p != nil).Msg("transport error")

	if p != nil {
		p.finish(err)
		return
	}
	if c.opts.OnError != nil {
		c.opts.OnError(err)
	}
}

func (c *Connection) onSocketClose() {
	c.mu.Lock()
	if c.state == StateConnected {
		c.state = StateDisconnected
	}
	p := c.pending
	c.mu.Unlock()

	c.log.Debug().Msg("stream closed")

	if p != nil {
		p.streamEnded()
	}
}

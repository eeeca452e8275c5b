package rawhttp

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/WhileEndless/go-sockhttp/pkg/response"
)

// pendingReceive is one in-flight response wait. The socket reader feeds
// resp; the waiter, the timer and stream events race to settle it through
// finish, which takes effect once.
type pendingReceive struct {
	mu   sync.Mutex
	resp *response.Response

	timer       *clock.Timer
	unsubscribe func()

	once sync.Once
	done chan struct{}
	err  error
}

func (p *pendingReceive) finish(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *pendingReceive) settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *pendingReceive) onData(chunk []byte) {
	if p.settled() {
		return
	}

	p.mu.Lock()
	if p.resp.Done() {
		// settled by the timer or the stream; late bytes are not this response's
		p.mu.Unlock()
		return
	}
	done, err := p.resp.Feed(chunk)
	p.mu.Unlock()

	if err != nil {
		p.finish(errors.Wrap(err, "parsing response"))
		return
	}
	if done {
		p.finish(nil)
	}
}

// streamEnded settles the wait when the peer or the caller closed the stream.
// A response framed by connection close is complete at this point.
func (p *pendingReceive) streamEnded() {
	p.mu.Lock()
	r := p.resp
	_, hasLength := r.ContentLength()
	if !r.Done() && r.HeaderDone() && !hasLength {
		r.FinishAtEOF()
	}
	done := r.Done()
	p.mu.Unlock()

	if done {
		p.finish(nil)
		return
	}
	p.finish(NewClosedError(nil))
}

// expire applies the timeout fallback. It reports false, leaving the wait
// untouched, when a numeric Content-Length has been seen or the response is
// already complete.
func (p *pendingReceive) expire() bool {
	p.mu.Lock()
	if _, ok := p.resp.ContentLength(); ok || p.resp.Done() {
		p.mu.Unlock()
		return false
	}
	p.resp.Expire()
	p.finish(nil)
	p.mu.Unlock()

	return true
}

// Receive waits for one response to a request made with method. The wait
// ends when the response is complete, when the stream fails or closes, or
// when ctx is done. If no Content-Length has been seen once the connection
// Timeout elapses, the partial response is returned with Truncated set.
// Expiry and cancellation end only the wait; the stream stays open.
func (c *Connection) Receive(ctx context.Context, method string) (*response.Response, error) {
	p, err := c.beginReceive(method)
	if err != nil {
		return nil, err
	}
	return c.awaitReceive(ctx, p)
}

func (c *Connection) beginReceive(method string) (*pendingReceive, error) {
	p := &pendingReceive{
		resp: response.New(method),
		done: make(chan struct{}),
	}

	c.mu.Lock()
	if c.state == StateUnconnected {
		c.mu.Unlock()
		return nil, NewNotConnectedError()
	}
	c.pending = p
	c.mu.Unlock()

	p.timer = c.clock.Timer(c.opts.Timeout)
	p.unsubscribe = c.socket.Subscribe(SocketHandler{Data: p.onData})

	// The stream may have ended before we subscribed; its queued chunks
	// have been replayed by now.
	if !c.socket.Connected() {
		p.streamEnded()
	}

	return p, nil
}

func (c *Connection) endReceive(p *pendingReceive) {
	p.timer.Stop()
	p.unsubscribe()

	c.mu.Lock()
	if c.pending == p {
		c.pending = nil
	}
	c.mu.Unlock()
}

func (c *Connection) awaitReceive(ctx context.Context, p *pendingReceive) (*response.Response, error) {
	defer c.endReceive(p)

	timeout := p.timer.C
	for {
		select {
		case <-p.done:
			if p.err != nil {
				c.log.Debug().Err(p.err).Str("method", p.resp.Method()).Msg("receive failed")
				return nil, p.err
			}
			c.log.Debug().
				Str("method", p.resp.Method()).
				Int("status", p.resp.StatusCode).
				Int64("body_bytes", p.resp.Received()).
				Bool("truncated", p.resp.Truncated()).
				Msg("response received")
			return p.resp, nil
		case <-timeout:
			timeout = nil
			if p.expire() {
				c.log.Warn().
					Dur("timeout", c.opts.Timeout).
					Msg("no Content-Length before timeout, returning partial response")
			}
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "waiting for response")
		}
	}
}

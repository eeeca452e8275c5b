package rawhttp

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-sockhttp/pkg/response"
)

type receiveResult struct {
	resp *response.Response
	err  error
}

func TestTimeoutFiresAfterTimeoutAndNotBefore(t *testing.T) {
	srv := newScriptedServer(t, respond("HTTP/1.1 200 OK\r\nX-Framing: none\r\n\r\nabc"))

	const timeout = 5 * time.Second
	mock := clock.NewMock()
	c := newConnectedClient(t, srv.URL(), Options{Timeout: timeout, Clock: mock})

	p, err := c.beginReceive("GET")
	require.NoError(t, err)
	require.NoError(t, c.Send([]byte("GET / HTTP/1.1\r\nHost: test\r\n\r\n")))

	results := make(chan receiveResult, 1)
	go func() {
		resp, err := c.awaitReceive(context.Background(), p)
		results <- receiveResult{resp, err}
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.resp.Received() == 3
	}, 2*time.Second, 5*time.Millisecond)

	mock.Add(timeout - time.Millisecond)
	select {
	case <-results:
		t.Fatal("response settled before the timeout elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	mock.Add(time.Millisecond)
	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.True(t, r.resp.Truncated())
		body, err := r.resp.Raw()
		require.NoError(t, err)
		assert.Equal(t, "abc", string(body))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout did not settle the response")
	}
}

func TestTimeoutNeverFiresWithContentLength(t *testing.T) {
	srv := newScriptedServer(t, respond("HTTP/1.1 200 OK\r\nContent-Length: 6\r\n\r\nabc"))

	mock := clock.NewMock()
	c := newConnectedClient(t, srv.URL(), Options{Timeout: time.Second, Clock: mock})

	p, err := c.beginReceive("GET")
	require.NoError(t, err)
	require.NoError(t, c.Send([]byte("GET / HTTP/1.1\r\nHost: test\r\n\r\n")))

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan receiveResult, 1)
	go func() {
		resp, err := c.awaitReceive(ctx, p)
		results <- receiveResult{resp, err}
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.resp.HeaderDone()
	}, 2*time.Second, 5*time.Millisecond)

	mock.Add(time.Hour)
	select {
	case <-results:
		t.Fatal("response settled despite an unmet Content-Length")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	r := <-results
	assert.ErrorIs(t, r.err, context.Canceled)
}

func TestReceiveAfterStreamEnded(t *testing.T) {
	srv := newScriptedServer(t, respond())

	c := newConnectedClient(t, srv.URL(), Options{})
	require.NoError(t, c.Disconnect())

	_, err := c.Receive(context.Background(), "GET")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Nil(t, c.pending)
}

func TestLateChunkAfterExpiryKeepsPartialResponse(t *testing.T) {
	p := &pendingReceive{resp: response.New("GET"), done: make(chan struct{})}
	p.onData([]byte("HTTP/1.1 200 OK\r\nX-Framing: none\r\n\r\nabc"))

	// the timer has expired the response but not yet settled the wait
	p.mu.Lock()
	p.resp.Expire()
	p.mu.Unlock()

	p.onData([]byte("more"))
	p.finish(nil)

	<-p.done
	require.NoError(t, p.err)
	assert.True(t, p.resp.Truncated())
	body, err := p.resp.Raw()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}

func TestExpireSettlesBeforeLateChunk(t *testing.T) {
	p := &pendingReceive{resp: response.New("GET"), done: make(chan struct{})}
	p.onData([]byte("HTTP/1.1 200 OK\r\n\r\nabc"))

	require.True(t, p.expire())
	p.onData([]byte("more"))

	<-p.done
	require.NoError(t, p.err)
	assert.Equal(t, int64(3), p.resp.Received())
}

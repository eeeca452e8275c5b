package rawhttp

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSocket(t *testing.T, srv *scriptedServer) *Socket {
	t.Helper()

	target, err := ParseTarget(srv.URL())
	require.NoError(t, err)

	s := NewSocket(target, Options{})
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSocketReplaysBacklog(t *testing.T) {
	srv := newScriptedServer(t, func(conn net.Conn) {
		io.WriteString(conn, "early bytes")
		io.Copy(io.Discard, conn)
	})

	s := newTestSocket(t, srv)

	require.Eventually(t, func() bool {
		s.handlersMu.Lock()
		defer s.handlersMu.Unlock()
		n := 0
		for _, chunk := range s.backlog {
			n += len(chunk)
		}
		return n == len("early bytes")
	}, 2*time.Second, 5*time.Millisecond)

	var got []byte
	unsubscribe := s.Subscribe(SocketHandler{
		Data: func(chunk []byte) { got = append(got, chunk...) },
	})
	defer unsubscribe()

	// replayed synchronously by Subscribe
	assert.Equal(t, "early bytes", string(got))
}

func TestSocketDiscardBacklog(t *testing.T) {
	srv := newScriptedServer(t, func(conn net.Conn) {
		io.WriteString(conn, "stale")
		io.Copy(io.Discard, conn)
	})

	s := newTestSocket(t, srv)

	require.Eventually(t, func() bool {
		s.handlersMu.Lock()
		defer s.handlersMu.Unlock()
		return len(s.backlog) > 0
	}, 2*time.Second, 5*time.Millisecond)

	total := 0
	require.Eventually(t, func() bool {
		total += s.DiscardBacklog()
		return total == len("stale")
	}, 2*time.Second, 5*time.Millisecond)

	var got []byte
	unsubscribe := s.Subscribe(SocketHandler{
		Data: func(chunk []byte) { got = append(got, chunk...) },
	})
	defer unsubscribe()
	assert.Empty(t, got)
}

func TestSocketCloseNotifiesOnce(t *testing.T) {
	srv := newScriptedServer(t, func(conn net.Conn) {
		io.Copy(io.Discard, conn)
	})

	s := newTestSocket(t, srv)

	var mu sync.Mutex
	closes, errs := 0, 0
	s.Subscribe(SocketHandler{
		Error: func(error) { mu.Lock(); errs++; mu.Unlock() },
		Close: func() { mu.Lock(); closes++; mu.Unlock() },
	})

	require.NoError(t, s.Close())
	assert.False(t, s.Connected())
	assert.NoError(t, s.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, closes)
	assert.Zero(t, errs, "a local close is not a transport error")
}

func TestSocketUnsubscribe(t *testing.T) {
	srv := newScriptedServer(t, func(conn net.Conn) {
		io.Copy(io.Discard, conn)
	})

	s := newTestSocket(t, srv)

	unsubscribe := s.Subscribe(SocketHandler{Close: func() {}})
	assert.Len(t, s.snapshot(), 1)
	unsubscribe()
	unsubscribe()
	assert.Empty(t, s.snapshot())
}

func TestSocketWriteWhenClosed(t *testing.T) {
	target, err := ParseTarget("http://127.0.0.1:1/")
	require.NoError(t, err)

	s := NewSocket(target, Options{})
	_, err = s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, s.Close())
}

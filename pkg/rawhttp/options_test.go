package rawhttp

import (
	"crypto/tls"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, 30*time.Second, opts.ConnTimeout)
	assert.Equal(t, 30*time.Second, opts.WriteTimeout)
	assert.Equal(t, 32*1024, opts.ReadBufferSize)
	assert.NotNil(t, opts.Clock)
	assert.NotNil(t, opts.Logger)

	custom := Options{Timeout: time.Second}
	custom.SetDefaults()
	assert.Equal(t, time.Second, custom.Timeout)
}

func TestBuildTLSConfig(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantSNI    string
		wantVerify bool
	}{
		{
			name:    "default skips verification and sends SNI",
			opts:    Options{},
			wantSNI: "example.com",
		},
		{
			name:       "verify",
			opts:       Options{VerifyTLS: true},
			wantSNI:    "example.com",
			wantVerify: true,
		},
		{
			name: "SNI disabled",
			opts: Options{DisableSNI: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.opts.BuildTLSConfig("example.com")

			assert.Equal(t, uint16(tls.VersionTLS12), config.MinVersion)
			assert.Equal(t, uint16(tls.VersionTLS13), config.MaxVersion)
			assert.Equal(t, tt.wantSNI, config.ServerName)
			assert.Equal(t, !tt.wantVerify, config.InsecureSkipVerify)
			assert.Equal(t, []string{"http/1.1"}, config.NextProtos)
		})
	}
}

func TestTimingString(t *testing.T) {
	timing := Timing{
		TCPConnect:   20 * time.Millisecond,
		TLSHandshake: 50 * time.Millisecond,
	}

	assert.Equal(t, 70*time.Millisecond, timing.Total())
	s := timing.String()
	assert.Contains(t, s, "TCP Connect")
	assert.Contains(t, s, "TLS Handshake")
	assert.NotContains(t, s, "Proxy Connect")
}

func TestHTTPErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		err      *HTTPError
		sentinel error
	}{
		{NewInvalidTargetError(cause), ErrInvalidTarget},
		{NewNotConnectedError(), ErrNotConnected},
		{NewConnectionError(cause), ErrConnection},
		{NewTLSError(cause), ErrTLSHandshake},
		{NewProxyError(cause), ErrProxyConnection},
		{NewTransportError(cause), ErrTransport},
		{NewClosedError(nil), ErrConnectionClosed},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.sentinel)
	}

	assert.ErrorIs(t, NewTransportError(cause), cause)
	assert.NotErrorIs(t, NewTransportError(cause), ErrConnectionClosed)
	assert.Equal(t, "transport error: boom", NewTransportError(cause).Error())
}

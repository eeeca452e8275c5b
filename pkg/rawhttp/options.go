package rawhttp

import (
	"crypto/tls"
	"crypto/x509"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Options represents configuration options for a Connection
type Options struct {
	// Timeout options
	Timeout      time.Duration // Response wait budget before the no-length fallback (default: 5s)
	ConnTimeout  time.Duration // Dial and TLS handshake timeout (default: 30s)
	WriteTimeout time.Duration // Write timeout (default: 30s)

	// TLS options
	VerifyTLS     bool     // Verify the peer certificate chain (default: false)
	DisableSNI    bool     // Disable SNI (Server Name Indication)
	CustomCACerts [][]byte // Custom CA certificates in PEM format, used with VerifyTLS

	// Proxy options
	ProxyURL string // SOCKS5 proxy URL (e.g. "socks5://proxy:1080")

	// Socket options
	ReadBufferSize int // Size of each socket read (default: 32KB)

	Clock   clock.Clock     // Time source for the response timer (default: wall clock)
	Logger  *zerolog.Logger // Logger (default: disabled)
	OnError func(err error) // Called for transport errors when no response is awaited
}

// SetDefaults sets default values for unspecified options
func (o *Options) SetDefaults() {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}

	if o.ConnTimeout == 0 {
		o.ConnTimeout = 30 * time.Second
	}

	if o.WriteTimeout == 0 {
		o.WriteTimeout = 30 * time.Second
	}

	if o.ReadBufferSize == 0 {
		o.ReadBufferSize = 32 * 1024
	}

	if o.Clock == nil {
		o.Clock = clock.New()
	}

	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
}

// BuildTLSConfig builds a TLS configuration for the given server name.
// Negotiation is pinned to TLS 1.2-1.3. The certificate chain is not
// verified unless VerifyTLS is set.
func (o *Options) BuildTLSConfig(serverName string) *tls.Config {
	config := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		MaxVersion:         tls.VersionTLS13,
		InsecureSkipVerify: !o.VerifyTLS,
		NextProtos:         []string{"http/1.1"},
	}

	if !o.DisableSNI {
		config.ServerName = serverName
	}

	if len(o.CustomCACerts) > 0 {
		certPool := x509.NewCertPool()
		for _, cert := range o.CustomCACerts {
			certPool.AppendCertsFromPEM(cert)
		}
		config.RootCAs = certPool
	}

	return config
}

package rawhttp

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// Target is the origin a Connection talks to, fixed at construction
type Target struct {
	Scheme string // "http" or "https"
	Host   string // Hostname, IDNA-encoded to ASCII
	Port   int    // Explicit port, else 443 for https, else 80
	Path   string // Request URI of the parsed URL ("/" when empty)
}

// ParseTarget parses a target URL such as "https://example.com:8443/path"
func ParseTarget(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, NewInvalidTargetError(err)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return Target{}, NewInvalidTargetError(errors.Errorf("no hostname in %q", raw))
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Target{}, NewInvalidTargetError(errors.Errorf("unsupported scheme %q", u.Scheme))
	}

	port := 80
	if scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Target{}, NewInvalidTargetError(errors.Errorf("invalid port %q", p))
		}
	}

	return Target{
		Scheme: scheme,
		Host:   asciiHost(hostname),
		Port:   port,
		Path:   u.RequestURI(),
	}, nil
}

// asciiHost converts internationalized names to their ASCII form. IP
// literals and names idna rejects are kept as given.
func asciiHost(hostname string) string {
	if net.ParseIP(hostname) != nil {
		return hostname
	}
	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return strings.ToLower(hostname)
	}
	return ascii
}

// IsTLS reports whether the target uses TLS
func (t Target) IsTLS() bool {
	return t.Scheme == "https"
}

// Address returns the host:port pair to dial
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// HostHeader returns the Host header value: the hostname, with the port
// appended when it is not the scheme default.
func (t Target) HostHeader() string {
	defaultPort := 80
	if t.IsTLS() {
		defaultPort = 443
	}
	if t.Port != defaultPort {
		return t.Address()
	}
	if strings.Contains(t.Host, ":") {
		return "[" + t.Host + "]"
	}
	return t.Host
}

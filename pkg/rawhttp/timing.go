package rawhttp

import "time"

// Timing represents timing information for establishing a connection
type Timing struct {
	ProxyConnect time.Duration // Time spent dialing through the proxy (0 if no proxy)
	TCPConnect   time.Duration // Time spent on TCP connection establishment, DNS included
	TLSHandshake time.Duration // Time spent on TLS handshake (0 for HTTP)
}

// Total returns the time spent establishing the connection
func (t Timing) Total() time.Duration {
	return t.ProxyConnect + t.TCPConnect + t.TLSHandshake
}

// String returns a human-readable representation of timing information
func (t Timing) String() string {
	result := "Timing:\n"
	if t.ProxyConnect > 0 {
		result += "  Proxy Connect: " + t.ProxyConnect.String() + "\n"
	}
	if t.TCPConnect > 0 {
		result += "  TCP Connect: " + t.TCPConnect.String() + "\n"
	}
	if t.TLSHandshake > 0 {
		result += "  TLS Handshake: " + t.TLSHandshake.String() + "\n"
	}
	result += "  Total: " + t.Total().String()
	return result
}

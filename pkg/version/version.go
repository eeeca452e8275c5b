// Package version provides version information for sockhttp
package version

// Version is the current version of the sockhttp library
const Version = "1.0.0"

// UserAgent returns the default User-Agent sent by the rawget CLI
func UserAgent() string {
	return "sockhttp/" + Version
}

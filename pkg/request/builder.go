package request

import (
	"bytes"
)

// Build serializes the request: request line, one line per header, a blank
// line, then the body verbatim. Content-Length is never added automatically.
func (r *Request) Build() []byte {
	var buf bytes.Buffer

	path := r.Path
	if path == "" {
		path = "/"
	}
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}

	buf.WriteString(r.Method)
	buf.WriteString(" ")
	buf.WriteString(path)
	buf.WriteString(" ")
	buf.WriteString(version)
	buf.WriteString("\r\n")

	if r.Headers != nil {
		buf.Write(r.Headers.Build())
	}

	buf.WriteString("\r\n")

	if len(r.Body) > 0 {
		buf.Write(r.Body)
	}

	return buf.Bytes()
}

// BuildString serializes the request as a string
func (r *Request) BuildString() string {
	return string(r.Build())
}

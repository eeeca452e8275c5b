package request

import (
	"github.com/WhileEndless/go-sockhttp/pkg/headers"
)

// Request represents an outgoing HTTP/1.1 request
type Request struct {
	Method  string                  // HTTP method (GET, POST, etc.)
	Path    string                  // Request target, sent verbatim
	Version string                  // HTTP version, HTTP/1.1 when empty
	Headers *headers.OrderedHeaders // Headers written in insertion order
	Body    []byte                  // Written verbatim after the blank line
}

// New creates a Request with an empty header set
func New(method, path string, body []byte) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Version: "HTTP/1.1",
		Headers: headers.NewOrderedHeaders(),
		Body:    body,
	}
}

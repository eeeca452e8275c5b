// Package response assembles HTTP/1.1 responses from byte chunks delivered in
// arbitrary sizes by a stream socket.
package response

import (
	"bytes"
	"strings"

	"github.com/WhileEndless/go-sockhttp/pkg/compression"
	"github.com/WhileEndless/go-sockhttp/pkg/errors"
	"github.com/WhileEndless/go-sockhttp/pkg/headers"
)

// Response is one HTTP response under construction or completed. It is
// single-use: create one per request with New and feed it until Done.
type Response struct {
	StatusCode int            // Parsed from the status line
	Headers    headers.Fields // Received headers, numeric values coerced

	method string

	pending   []byte   // header bytes seen before the blank line
	fragments [][]byte // body fragments not yet joined
	received  int64    // total length of fragments
	body      []byte

	headerDone bool
	done       bool
	truncated  bool
}

// New creates an empty Response for a request made with the given method
func New(method string) *Response {
	return &Response{
		Headers: make(headers.Fields),
		method:  strings.ToUpper(method),
	}
}

// Method returns the request method this response answers
func (r *Response) Method() string {
	return r.method
}

// HeaderDone reports whether the status line and headers have been parsed
func (r *Response) HeaderDone() bool {
	return r.headerDone
}

// Done reports whether the response is terminal. A response completed by the
// wait timeout is done but Truncated.
func (r *Response) Done() bool {
	return r.done
}

// Truncated reports whether the response was ended by the wait timeout
// rather than by its declared length, a HEAD short-circuit or end of stream.
// The rest of a truncated body may still arrive on the connection.
func (r *Response) Truncated() bool {
	return r.truncated
}

// ContentLength returns the declared numeric Content-Length, if any
func (r *Response) ContentLength() (int64, bool) {
	return r.Headers.ContentLength()
}

// Received returns the number of body bytes accumulated so far
func (r *Response) Received() int64 {
	if r.done {
		return int64(len(r.body))
	}
	return r.received
}

// Raw returns the body. It fails with ErrBodyUnavailable before the response
// is done and always for HEAD responses.
func (r *Response) Raw() ([]byte, error) {
	if r.method == "HEAD" {
		return nil, errors.NewError(errors.ErrorTypeBodyUnavailable,
			"HEAD responses carry no body", "Raw", nil)
	}
	if !r.done {
		return nil, errors.NewError(errors.ErrorTypeBodyUnavailable,
			"response not finished", "Raw", nil)
	}
	return r.body, nil
}

// Text returns the body decoded with the named encoding. An empty name
// means "ascii".
func (r *Response) Text(encoding string) (string, error) {
	raw, err := r.Raw()
	if err != nil {
		return "", err
	}
	return decodeText(raw, encoding)
}

// DecodedBody returns the body with its Content-Encoding removed
func (r *Response) DecodedBody() ([]byte, error) {
	raw, err := r.Raw()
	if err != nil {
		return nil, err
	}
	return compression.DecompressEncoding(raw, r.Headers.GetString("Content-Encoding"))
}

// IsSuccessful returns true if the response has a 2xx status code
func (r *Response) IsSuccessful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response has a 3xx status code
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response has a 4xx status code
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response has a 5xx status code
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

func (r *Response) joinFragments() []byte {
	body := bytes.Join(r.fragments, nil)
	r.fragments = nil
	return body
}

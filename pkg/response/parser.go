package response

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-sockhttp/pkg/errors"
	"github.com/WhileEndless/go-sockhttp/pkg/headers"
)

var headerTerminator = []byte("\r\n\r\n")

// Feed consumes the next chunk of the byte stream and reports whether the
// response is complete. Chunk boundaries carry no meaning: the header block
// may span several chunks and the first body bytes may share a chunk with it.
// Feeding a finished response fails with ErrAlreadyFinished.
func (r *Response) Feed(chunk []byte) (bool, error) {
	if r.done {
		return true, errors.NewError(errors.ErrorTypeAlreadyFinished,
			"response already finished", "Feed", nil)
	}

	if r.headerDone {
		r.appendFragment(chunk)
		r.checkLength()
		return r.done, nil
	}

	r.pending = append(r.pending, chunk...)
	end := bytes.Index(r.pending, headerTerminator)
	if end == -1 {
		return false, nil
	}

	if err := r.parseHeader(r.pending[:end]); err != nil {
		return false, err
	}
	rest := r.pending[end+len(headerTerminator):]
	r.pending = nil
	r.headerDone = true

	if r.method == "HEAD" {
		r.done = true
		return true, nil
	}

	if cl, ok := r.ContentLength(); ok && int64(len(rest)) > cl {
		rest = rest[:cl]
	}
	if len(rest) > 0 {
		r.fragments = append(r.fragments, rest)
		r.received += int64(len(rest))
	}

	r.checkLength()
	return r.done, nil
}

// Expire ends the response with whatever body has arrived and marks it
// truncated. It is a no-op on a finished response.
func (r *Response) Expire() {
	if r.done {
		return
	}
	r.truncated = true
	r.pending = nil
	r.body = r.joinFragments()
	r.done = true
}

// FinishAtEOF ends a response whose body is delimited by the peer closing the
// stream. The body is everything received.
func (r *Response) FinishAtEOF() {
	if r.done {
		return
	}
	r.body = r.joinFragments()
	r.done = true
}

func (r *Response) appendFragment(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	fragment := make([]byte, len(chunk))
	copy(fragment, chunk)
	r.fragments = append(r.fragments, fragment)
	r.received += int64(len(fragment))
}

// checkLength completes the response once the declared length has arrived
func (r *Response) checkLength() {
	cl, ok := r.ContentLength()
	if !ok || r.received < cl {
		return
	}

	body := r.joinFragments()
	r.body = body[:cl]
	r.done = true
}

func (r *Response) parseHeader(block []byte) error {
	lines := strings.Split(string(block), "\r\n")

	status := strings.Split(lines[0], " ")
	if len(status) < 2 {
		return errors.NewError(errors.ErrorTypeMalformedResponse,
			"invalid status line", lines[0], block)
	}

	code, err := strconv.Atoi(status[1])
	if err != nil {
		return errors.NewError(errors.ErrorTypeMalformedResponse,
			"invalid status code", lines[0], block)
	}

	r.StatusCode = code
	r.Headers = headers.ParseFields(lines[1:])
	return nil
}

package rawhttp

import (
	"context"

	"github.com/WhileEndless/go-sockhttp/pkg/request"
	"github.com/WhileEndless/go-sockhttp/pkg/response"
)

// Client issues HTTP verbs over a single Connection, one request at a time.
type Client struct {
	*Connection
}

// NewClient creates a Client for target. Call Connect before issuing requests.
func NewClient(target string, opts Options) (*Client, error) {
	conn, err := NewConnection(target, opts)
	if err != nil {
		return nil, err
	}
	return &Client{Connection: conn}, nil
}

// Get sends a GET request for path
func (c *Client) Get(ctx context.Context, path string) (*response.Response, error) {
	return c.Do(ctx, "GET", path, nil)
}

// Head sends a HEAD request for path. The response never carries a body.
func (c *Client) Head(ctx context.Context, path string) (*response.Response, error) {
	return c.Do(ctx, "HEAD", path, nil)
}

// Post sends a POST request. The caller sets Content-Length.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*response.Response, error) {
	return c.Do(ctx, "POST", path, body)
}

// Put sends a PUT request. The caller sets Content-Length.
func (c *Client) Put(ctx context.Context, path string, body []byte) (*response.Response, error) {
	return c.Do(ctx, "PUT", path, body)
}

// Patch sends a PATCH request. The caller sets Content-Length.
func (c *Client) Patch(ctx context.Context, path string, body []byte) (*response.Response, error) {
	return c.Do(ctx, "PATCH", path, body)
}

// Delete sends a DELETE request with an optional body
func (c *Client) Delete(ctx context.Context, path string, body []byte) (*response.Response, error) {
	return c.Do(ctx, "DELETE", path, body)
}

// Do formats a request with the connection's default headers, sends it and
// waits for its response. The response parser is subscribed before the
// request is written so no reply bytes can be missed. Bytes still queued from
// an earlier response, such as the tail of one ended by the timeout, are
// discarded first.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*response.Response, error) {
	if !c.Connected() {
		return nil, NewNotConnectedError()
	}

	if n := c.socket.DiscardBacklog(); n > 0 {
		c.log.Debug().Int("bytes", n).Msg("discarded stale bytes before request")
	}

	req := request.New(method, path, body)
	req.Headers = c.headers.Clone()

	p, err := c.beginReceive(method)
	if err != nil {
		return nil, err
	}

	if err := c.Send(req.Build()); err != nil {
		c.endReceive(p)
		return nil, err
	}

	return c.awaitReceive(ctx, p)
}

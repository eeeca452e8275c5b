package headers

import (
	"sync"
)

// OrderedHeaders is an insertion-ordered header set used for outgoing requests.
// Names are stored exactly as given; "Host" and "host" are distinct entries.
type OrderedHeaders struct {
	mu     sync.RWMutex
	order  []string
	values map[string]string
}

// Header represents a single HTTP header
type Header struct {
	Name  string
	Value string
}

// NewOrderedHeaders creates a new OrderedHeaders instance
func NewOrderedHeaders() *OrderedHeaders {
	return &OrderedHeaders{
		order:  make([]string, 0),
		values: make(map[string]string),
	}
}

// Set adds or updates a header. Updating keeps the original position.
func (h *OrderedHeaders) Set(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.values[name]; !exists {
		h.order = append(h.order, name)
	}
	h.values[name] = value
}

// Get retrieves a header value
func (h *OrderedHeaders) Get(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.values[name]
}

// Has checks if a header exists
func (h *OrderedHeaders) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.values[name]
	return exists
}

// Del removes a header
func (h *OrderedHeaders) Del(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.values[name]; !exists {
		return
	}
	delete(h.values, name)

	for i, headerName := range h.order {
		if headerName == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// All returns all headers in insertion order
func (h *OrderedHeaders) All() []Header {
	h.mu.RLock()
	defer h.mu.RUnlock()

	headers := make([]Header, 0, len(h.order))
	for _, name := range h.order {
		headers = append(headers, Header{
			Name:  name,
			Value: h.values[name],
		})
	}
	return headers
}

// Clone returns an independent copy
func (h *OrderedHeaders) Clone() *OrderedHeaders {
	clone := NewOrderedHeaders()
	for _, header := range h.All() {
		clone.Set(header.Name, header.Value)
	}
	return clone
}

// Len returns the number of headers
func (h *OrderedHeaders) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.order)
}

package headers

import (
	"strconv"
)

// Value is a header value tagged at parse time as either a string or an integer.
type Value struct {
	raw     string
	num     int64
	numeric bool
}

// ParseValue classifies a trimmed header value. Values that parse fully as a
// base-10 integer become numeric; everything else stays a string.
func ParseValue(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{raw: s, num: n, numeric: true}
	}
	return Value{raw: s}
}

// IsNumber reports whether the value was coerced to an integer
func (v Value) IsNumber() bool {
	return v.numeric
}

// Int returns the numeric value and whether the value is numeric
func (v Value) Int() (int64, bool) {
	return v.num, v.numeric
}

// String returns the value as received
func (v Value) String() string {
	return v.raw
}

// Fields holds received response headers. Keys are case-preserving and
// matched exactly as transmitted.
type Fields map[string]Value

// Get returns the value for an exact header name
func (f Fields) Get(name string) (Value, bool) {
	v, ok := f[name]
	return v, ok
}

// GetString returns the string form of a header, or "" if absent
func (f Fields) GetString(name string) string {
	return f[name].raw
}

// Has reports whether a header with the exact name was received
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// ContentLength returns the numeric Content-Length header, if one was received.
// Negative values are treated as absent.
func (f Fields) ContentLength() (int64, bool) {
	v, ok := f["Content-Length"]
	if !ok || !v.numeric || v.num < 0 {
		return 0, false
	}
	return v.num, true
}

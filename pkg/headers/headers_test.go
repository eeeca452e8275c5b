package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		numeric bool
		num     int64
	}{
		{"5", true, 5},
		{"0", true, 0},
		{"-12", true, -12},
		{"keep-alive", false, 0},
		{"12abc", false, 0},
		{"", false, 0},
		{"text/html; charset=utf-8", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseValue(tt.in)
			assert.Equal(t, tt.numeric, v.IsNumber())
			n, ok := v.Int()
			assert.Equal(t, tt.numeric, ok)
			assert.Equal(t, tt.num, n)
			assert.Equal(t, tt.in, v.String())
		})
	}
}

func TestParseFields(t *testing.T) {
	fields := ParseFields([]string{
		"Content-Length: 42",
		"Connection:keep-alive",
		"X-Time: 12:30:00",
		"no colon here",
		"  Spaced  :  value  ",
		"",
		"After-Blank: ignored",
	})

	cl, ok := fields.ContentLength()
	require.True(t, ok)
	assert.Equal(t, int64(42), cl)

	conn, ok := fields.Get("Connection")
	require.True(t, ok)
	assert.False(t, conn.IsNumber())
	assert.Equal(t, "keep-alive", conn.String())

	assert.Equal(t, "12:30:00", fields.GetString("X-Time"))
	assert.Equal(t, "value", fields.GetString("Spaced"))
	assert.False(t, fields.Has("After-Blank"))
	assert.Len(t, fields, 4)
}

func TestFieldsAreCaseSensitive(t *testing.T) {
	fields := ParseFields([]string{"content-length: 10"})

	_, ok := fields.ContentLength()
	assert.False(t, ok)
	assert.True(t, fields.Has("content-length"))
	assert.False(t, fields.Has("Content-Length"))
}

func TestContentLengthNonNumeric(t *testing.T) {
	fields := ParseFields([]string{"Content-Length: abc"})

	_, ok := fields.ContentLength()
	assert.False(t, ok)
	assert.True(t, fields.Has("Content-Length"))
}

func TestOrderedHeadersOrderAndUpdate(t *testing.T) {
	h := NewOrderedHeaders()
	h.Set("Host", "example.com")
	h.Set("User-Agent", "test")
	h.Set("Accept", "*/*")
	h.Set("Host", "other.example")

	all := h.All()
	require.Len(t, all, 3)
	assert.Equal(t, Header{Name: "Host", Value: "other.example"}, all[0])
	assert.Equal(t, "User-Agent", all[1].Name)
	assert.Equal(t, "Accept", all[2].Name)

	h.Del("User-Agent")
	h.Del("Missing")
	assert.Equal(t, 2, h.Len())
	assert.False(t, h.Has("User-Agent"))
	assert.Equal(t, "Host: other.example\r\nAccept: */*\r\n", string(h.Build()))
}

func TestOrderedHeadersExactNames(t *testing.T) {
	h := NewOrderedHeaders()
	h.Set("Host", "a")
	h.Set("host", "b")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "a", h.Get("Host"))
	assert.Equal(t, "b", h.Get("host"))
}

func TestOrderedHeadersClone(t *testing.T) {
	h := NewOrderedHeaders()
	h.Set("A", "1")

	clone := h.Clone()
	clone.Set("B", "2")

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 2, clone.Len())
}

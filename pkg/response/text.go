package response

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/WhileEndless/go-sockhttp/pkg/errors"
)

// decodeText converts body bytes to a string. "ascii" clears the high bit of
// every byte; "latin1"/"binary" map bytes to U+0000..U+00FF; "hex" and
// "base64" encode the raw bytes; any other name is looked up as a WHATWG
// encoding label (utf-8, windows-1252, shift_jis, ...).
func decodeText(b []byte, encoding string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))

	switch name {
	case "", "ascii", "us-ascii":
		out := make([]byte, len(b))
		for i, c := range b {
			out[i] = c & 0x7f
		}
		return string(out), nil
	case "latin1", "binary":
		return decodeWith(b, charmap.ISO8859_1.NewDecoder().Bytes, encoding)
	case "utf8", "utf-8":
		return decodeWith(b, unicode.UTF8.NewDecoder().Bytes, encoding)
	case "hex":
		return hex.EncodeToString(b), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(b), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", errors.NewError(errors.ErrorTypeUnsupportedEncoding,
			"unknown encoding "+encoding, "Text", nil)
	}
	return decodeWith(b, enc.NewDecoder().Bytes, encoding)
}

func decodeWith(b []byte, decode func([]byte) ([]byte, error), encoding string) (string, error) {
	out, err := decode(b)
	if err != nil {
		return "", errors.NewError(errors.ErrorTypeUnsupportedEncoding,
			"decoding as "+encoding+": "+err.Error(), "Text", nil)
	}
	return string(out), nil
}

package headers

import (
	"bytes"
	"strings"
)

// ParseFields parses header lines (status line already removed) into Fields.
// Parsing stops at the first blank line. Each line is split on its first colon
// and both sides are trimmed; lines without a colon are ignored. A repeated
// name keeps the last value.
func ParseFields(lines []string) Fields {
	fields := make(Fields, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}

		colonPos := strings.Index(line, ":")
		if colonPos == -1 {
			continue
		}

		name := strings.TrimSpace(line[:colonPos])
		if name == "" {
			continue
		}
		fields[name] = ParseValue(strings.TrimSpace(line[colonPos+1:]))
	}

	return fields
}

// Build serializes headers as "Name: Value\r\n" lines in insertion order
func (h *OrderedHeaders) Build() []byte {
	var buf bytes.Buffer

	for _, header := range h.All() {
		buf.WriteString(header.Name)
		buf.WriteString(": ")
		buf.WriteString(header.Value)
		buf.WriteString("\r\n")
	}

	return buf.Bytes()
}

package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RawOutput holds the backend's output value undecoded.
type RawOutput json.RawMessage

// MarshalJSON emits the raw value, or null when empty.
func (o RawOutput) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}
	return []byte(o), nil
}

// UnmarshalJSON keeps a copy of the raw value.
func (o *RawOutput) UnmarshalJSON(data []byte) error {
	*o = append((*o)[:0], data...)
	return nil
}

// OutputOf encodes v as a RawOutput. Values that cannot be encoded become their
// string form.
func OutputOf(v any) RawOutput {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(err.Error())
	}
	return RawOutput(data)
}

// Text coerces the output to display text: JSON strings are unquoted,
// any other value is rendered as compact JSON, and a missing value is "".
func (o RawOutput) Text() string {
	trimmed := bytes.TrimSpace(o)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return strings.TrimSpace(string(trimmed))
	}
	return buf.String()
}

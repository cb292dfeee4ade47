// Package metadata holds the decoded metadata values produced by the
// extraction collaborators (EXIF, PDF info dictionaries, exiftool output)
package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBinary
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBinary:
		return "binary"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Value is a single metadata value. Exactly one variant is populated,
// selected by Kind
type Value struct {
	kind   Kind
	text   string
	number float64
	bytes  []byte
	fields Fields
}

// Text creates a text value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number creates a numeric value
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// Binary creates an opaque byte value
func Binary(b []byte) Value {
	return Value{kind: KindBinary, bytes: b}
}

// Structured creates a nested mapping value (e.g. GPS sub-directories)
func Structured(f Fields) Value {
	return Value{kind: KindStructured, fields: f}
}

func (v Value) Kind() Kind { return v.kind }

// TextValue returns the text variant and whether v is text
func (v Value) TextValue() (string, bool) {
	return v.text, v.kind == KindText
}

// NumberValue returns the numeric variant and whether v is a number
func (v Value) NumberValue() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// BinaryValue returns the byte variant and whether v is binary
func (v Value) BinaryValue() ([]byte, bool) {
	return v.bytes, v.kind == KindBinary
}

// StructuredValue returns the nested mapping and whether v is structured
func (v Value) StructuredValue() (Fields, bool) {
	return v.fields, v.kind == KindStructured
}

// IsEmpty reports whether the value carries nothing worth reporting:
// empty text, zero, zero-length bytes or an empty mapping
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindNumber:
		return v.number == 0
	case KindBinary:
		return len(v.bytes) == 0
	case KindStructured:
		return len(v.fields) == 0
	}
	return true
}

// String renders the value as display text. Binary values are never
// rendered raw
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.number)
	case KindBinary:
		return BinaryPlaceholder(len(v.bytes))
	case KindStructured:
		keys := v.fields.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+v.fields[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// MarshalJSON encodes text and numbers natively, nested mappings as
// objects and binary values as their placeholder string. The binary
// conversion is lossy: decoding the output yields the placeholder
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return json.Marshal(formatNumber(v.number))
		}
		return []byte(formatNumber(v.number)), nil
	case KindBinary:
		return json.Marshal(BinaryPlaceholder(len(v.bytes)))
	case KindStructured:
		if v.fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]Value(v.fields))
	}
	return nil, fmt.Errorf("metadata: unknown value kind %d", v.kind)
}

// BinaryPlaceholder is the text substituted for binary values on export
func BinaryPlaceholder(n int) string {
	return fmt.Sprintf("[Binary data: %d bytes]", n)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Fields maps metadata keys to values for one extraction result.
// A nil Fields means the source had no metadata block at all
type Fields map[string]Value

// Keys returns the field names in sorted order
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Plain converts the mapping into JSON-safe Go values: text as string,
// numbers as float64 (non-finite ones as text), binary as its placeholder
// and nested mappings recursively
func (f Fields) Plain() map[string]interface{} {
	out := make(map[string]interface{}, len(f))
	for key, value := range f {
		out[key] = value.plain()
	}
	return out
}

func (v Value) plain() interface{} {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return formatNumber(v.number)
		}
		return v.number
	case KindStructured:
		return v.fields.Plain()
	default:
		return v.String()
	}
}

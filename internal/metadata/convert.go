package metadata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FromInterface converts a decoded JSON value (as produced by a decoder
// with UseNumber enabled) into a Value. Lists are flattened to text
func FromInterface(v any) Value {
	switch t := v.(type) {
	case nil:
		return Text("")
	case string:
		return Text(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return Text(t.String())
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case bool:
		if t {
			return Text("true")
		}
		return Text("false")
	case []byte:
		return Binary(t)
	case map[string]any:
		return Structured(FromMap(t))
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, FromInterface(item).String())
		}
		return Text(strings.Join(parts, ", "))
	default:
		return Text(fmt.Sprint(t))
	}
}

// FromMap converts a decoded JSON object into Fields
func FromMap(m map[string]any) Fields {
	if m == nil {
		return nil
	}
	fields := make(Fields, len(m))
	for k, v := range m {
		fields[k] = FromInterface(v)
	}
	return fields
}

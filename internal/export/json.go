package export

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEncoder writes the mapping as an indented JSON object with sorted keys
type JSONEncoder struct{}

// Extension implements Encoder
func (JSONEncoder) Extension() string { return ".json" }

// Encode implements Encoder. Binary values are replaced by their
// placeholder text, so decoding the output does not restore them
func (JSONEncoder) Encode(w io.Writer, fields metadata.Fields) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(fields.Plain())
}

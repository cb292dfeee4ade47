package export

import (
	"encoding/csv"
	"io"

	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

// CSVEncoder writes one Field,Value row per key in sorted order
type CSVEncoder struct{}

// Extension implements Encoder
func (CSVEncoder) Extension() string { return ".csv" }

// Encode implements Encoder
func (CSVEncoder) Encode(w io.Writer, fields metadata.Fields) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Field", "Value"}); err != nil {
		return err
	}
	for _, key := range fields.Keys() {
		if err := writer.Write([]string{key, fields[key].String()}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

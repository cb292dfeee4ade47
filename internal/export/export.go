package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

// Format selects the export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatNone Format = "none"
)

// ErrUnknownFormat is returned for a format without an encoder
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps the interactive choice letters and format names to a Format
func ParseFormat(choice string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "j", "json":
		return FormatJSON, nil
	case "c", "csv":
		return FormatCSV, nil
	case "n", "none", "":
		return FormatNone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, choice)
}

// Encoder writes a metadata mapping in one output format
type Encoder interface {
	// Encode writes fields to w
	Encode(w io.Writer, fields metadata.Fields) error

	// Extension is the file suffix including the dot
	Extension() string
}

// Exporter writes metadata files into a single output directory
type Exporter struct {
	dir      string
	encoders map[Format]Encoder
}

// New creates an Exporter writing under dir
func New(dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		dir: dir,
		encoders: map[Format]Encoder{
			FormatJSON: JSONEncoder{},
			FormatCSV:  CSVEncoder{},
		},
	}
}

// Dir returns the output directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Export writes fields to <dir>/<baseName>.<ext>, overwriting any existing
// file, and returns the written path. FormatNone and an empty mapping are
// no-ops that return an empty path
func (e *Exporter) Export(fields metadata.Fields, baseName string, format Format) (string, error) {
	if format == FormatNone {
		return "", nil
	}
	if len(fields) == 0 {
		logger.Debugf("Nothing to export for %s", baseName)
		return "", nil
	}

	encoder, ok := e.encoders[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.dir, baseName+encoder.Extension())
	if err := writeFile(path, encoder, fields); err != nil {
		return "", err
	}

	logger.Infof("Exported %d fields to %s", len(fields), path)
	return path, nil
}

// writeFile creates (or truncates) path and encodes fields into it
func writeFile(path string, encoder Encoder, fields metadata.Fields) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := encoder.Encode(file, fields); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// BaseName derives the export base name "<stem>_metadata" from an input path
func BaseName(inputPath string) string {
	name := filepath.Base(inputPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return stem + "_metadata"
}

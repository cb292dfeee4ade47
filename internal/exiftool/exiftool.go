// Package exiftool runs the external exiftool binary and decodes its JSON
// output into metadata fields
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

var (
	// ErrNotInstalled is returned when the exiftool executable cannot be found
	ErrNotInstalled = errors.New("exiftool not installed or not in PATH")

	// ErrNoOutput is returned when exiftool succeeds but reports no entries
	ErrNoOutput = errors.New("exiftool returned no metadata")
)

// ExitError reports a non-zero exit status together with exiftool's stderr
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("exiftool exited with status %d", e.Code)
	}
	return fmt.Sprintf("exiftool exited with status %d: %s", e.Code, e.Stderr)
}

// Extractor invokes exiftool once per file
type Extractor struct {
	path string
}

// New creates an Extractor for the given executable name or path
func New(path string) *Extractor {
	if path == "" {
		path = "exiftool"
	}
	return &Extractor{path: path}
}

// Path returns the executable used by the extractor
func (e *Extractor) Path() string {
	return e.path
}

// Extract runs `exiftool -json <file>` and returns the first entry of the
// resulting array. Any failure returns a nil mapping and an error
func (e *Extractor) Extract(ctx context.Context, filePath string) (metadata.Fields, error) {
	// exiftool would read a leading dash as an option
	arg := filePath
	if strings.HasPrefix(arg, "-") {
		arg = "./" + arg
	}

	cmd := exec.CommandContext(ctx, e.path, "-json", arg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running %s -json %s", e.path, arg)

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrNotInstalled
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("failed to run exiftool: %w", err)
	}

	fields, err := Decode(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	logger.Debugf("exiftool returned %d fields for %s", len(fields), filePath)
	return fields, nil
}

// Decode parses exiftool's -json output: an array with one object per file
func Decode(data []byte) (metadata.Fields, error) {
	dec := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries []map[string]interface{}
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse exiftool output: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoOutput
	}

	return metadata.FromMap(entries[0]), nil
}

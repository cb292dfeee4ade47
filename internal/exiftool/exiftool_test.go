package exiftool

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

func TestDecode(t *testing.T) {
	out := []byte(`[{
  "SourceFile": "photo.jpg",
  "Make": "Canon",
  "ISO": 100,
  "ExposureTime": 0.004,
  "Keywords": ["travel", "beach"]
}]`)

	fields, err := Decode(out)
	require.NoError(t, err)

	assert.Equal(t, "Canon", fields["Make"].String())
	assert.Equal(t, metadata.KindNumber, fields["ISO"].Kind())
	assert.Equal(t, "100", fields["ISO"].String())
	assert.Equal(t, "0.004", fields["ExposureTime"].String())
	assert.Equal(t, "travel, beach", fields["Keywords"].String())
	assert.Equal(t, "photo.jpg", fields["SourceFile"].String())
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		output string
		is     error
	}{
		{name: "empty array", output: `[]`, is: ErrNoOutput},
		{name: "malformed", output: `not json`},
		{name: "object instead of array", output: `{"Make":"Canon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Decode([]byte(tt.output))
			require.Error(t, err)
			assert.Nil(t, fields)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestExtract_NotInstalled(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "no-such-exiftool"))

	fields, err := e.Extract(context.Background(), "photo.jpg")
	require.Error(t, err)
	assert.Nil(t, fields)
}

func TestExtract_MissingFromPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	e := New("exiftool-definitely-missing")

	_, err := e.Extract(context.Background(), "photo.jpg")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

// fakeTool writes a shell script standing in for exiftool
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "exiftool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestExtract_Success(t *testing.T) {
	tool := fakeTool(t, `echo '[{"SourceFile":"'"$2"'","FileType":"PDF"}]'`)

	fields, err := New(tool).Extract(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", fields["SourceFile"].String())
	assert.Equal(t, "PDF", fields["FileType"].String())
}

func TestExtract_DashPrefixedPath(t *testing.T) {
	tool := fakeTool(t, `echo '[{"SourceFile":"'"$2"'"}]'`)

	fields, err := New(tool).Extract(context.Background(), "-weird.jpg")
	require.NoError(t, err)
	assert.Equal(t, "./-weird.jpg", fields["SourceFile"].String())
}

func TestExtract_NonZeroExit(t *testing.T) {
	tool := fakeTool(t, "echo 'Error: File not found' >&2\nexit 1\n")

	_, err := New(tool).Extract(context.Background(), "missing.jpg")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "Error: File not found", exitErr.Stderr)
}

func TestExtract_MalformedOutput(t *testing.T) {
	tool := fakeTool(t, "echo 'garbage'\n")

	fields, err := New(tool).Extract(context.Background(), "photo.jpg")
	require.Error(t, err)
	assert.Nil(t, fields)
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, "exiftool", New("").Path())
}

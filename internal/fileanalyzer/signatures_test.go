package fileanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSignature(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     func(*testing.T) []byte
		wantMime string
		wantExt  string
	}{
		{name: "png", file: "a.png", data: pngBytes, wantMime: "image/png", wantExt: ".png"},
		{name: "jpeg", file: "a.jpg", data: plainJPEGBytes, wantMime: "image/jpeg", wantExt: ".jpg"},
		{
			name:     "pdf",
			file:     "a.pdf",
			data:     func(*testing.T) []byte { return buildPDF("") },
			wantMime: "application/pdf",
			wantExt:  ".pdf",
		},
		{
			name:     "plain text drops charset",
			file:     "a.txt",
			data:     func(*testing.T) []byte { return []byte("hello world\n") },
			wantMime: "text/plain",
			wantExt:  ".txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data(t))

			sig, err := DetectSignature(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, sig.MimeType)
			assert.Equal(t, tt.wantExt, sig.Extension)
		})
	}
}

func TestDetectSignature_MissingFile(t *testing.T) {
	_, err := DetectSignature(t.TempDir() + "/nope.png")
	assert.Error(t, err)
}

func TestIsExtensionMatch(t *testing.T) {
	jpeg := ContentSignature{MimeType: "image/jpeg", Extension: ".jpg"}
	png := ContentSignature{MimeType: "image/png", Extension: ".png"}
	tiff := ContentSignature{MimeType: "image/tiff", Extension: ".tiff"}

	tests := []struct {
		name string
		path string
		sig  ContentSignature
		want bool
	}{
		{name: "exact", path: "a.png", sig: png, want: true},
		{name: "case insensitive", path: "a.PNG", sig: png, want: true},
		{name: "jpeg alias", path: "a.jpeg", sig: jpeg, want: true},
		{name: "tif alias", path: "a.tif", sig: tiff, want: true},
		{name: "png named jpg", path: "a.jpg", sig: png, want: false},
		{name: "jpeg named pdf", path: "a.pdf", sig: jpeg, want: false},
		{name: "generic type", path: "a.pdf", sig: ContentSignature{MimeType: "application/octet-stream", Extension: ".bin"}, want: true},
		{name: "undetected", path: "a.pdf", sig: ContentSignature{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExtensionMatch(tt.path, tt.sig))
		})
	}
}

package fileanalyzer

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
)

// ContentSignature is the file type detected from the file's leading bytes
type ContentSignature struct {
	MimeType  string
	Extension string
}

// Generic MIME types that say nothing about the real format
var genericMimeTypes = map[string]bool{
	"application/octet-stream": true,
	"text/plain":               true,
}

// DetectSignature sniffs the file content with mimetype
func DetectSignature(filePath string) (ContentSignature, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return ContentSignature{}, err
	}

	// Drop parameters such as "; charset=utf-8"
	mime := mtype.String()
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	logger.Debugf("Signature match: %s (%s) for file %s", mime, mtype.Extension(), filePath)

	return ContentSignature{
		MimeType:  mime,
		Extension: strings.ToLower(mtype.Extension()),
	}, nil
}

// extension equivalences for formats with more than one common suffix
var equivalences = map[string][]string{
	".jpg":  {".jpg", ".jpeg", ".jpe", ".jfif"},
	".tiff": {".tiff", ".tif"},
	".tif":  {".tiff", ".tif"},
	".htm":  {".htm", ".html"},
	".html": {".htm", ".html"},
}

// IsExtensionMatch checks if the detected content type agrees with the file
// extension. Generic or undetected types are never reported as mismatches
func IsExtensionMatch(filePath string, sig ContentSignature) bool {
	if sig.Extension == "" || genericMimeTypes[sig.MimeType] {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == sig.Extension {
		return true
	}

	for _, equivalent := range equivalences[sig.Extension] {
		if ext == equivalent {
			return true
		}
	}

	return false
}

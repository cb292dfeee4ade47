package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-metadata-inspector/internal/fileanalyzer"
	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

// inspectFile collects the file-level facts shown before any metadata:
// size, modification time, sniffed content type and SHA3-256 fingerprint
func inspectFile(filePath string) (types.FileInfo, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return types.FileInfo{}, err
	}
	if stat.IsDir() {
		return types.FileInfo{}, fmt.Errorf("%s is a directory", filePath)
	}

	hash, err := generateSHA3Hash(filePath)
	if err != nil {
		return types.FileInfo{}, fmt.Errorf("failed to generate hash: %w", err)
	}

	info := types.FileInfo{
		Path:         filePath,
		Name:         filepath.Base(filePath),
		Extension:    strings.ToLower(filepath.Ext(filePath)),
		SizeBytes:    stat.Size(),
		ModifiedAt:   stat.ModTime(),
		SHA3Hash:     hash,
		ContentMatch: true,
		InspectedAt:  timeNow(),
	}

	// Sniffing is best effort; an unknown type is never a mismatch
	sig, err := fileanalyzer.DetectSignature(filePath)
	if err != nil {
		logger.Warningf("Content detection failed for %s: %v", filePath, err)
		return info, nil
	}
	info.MimeType = sig.MimeType
	info.ContentMatch = fileanalyzer.IsExtensionMatch(filePath, sig)

	return info, nil
}

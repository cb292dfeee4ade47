package fileanalyzer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/risk"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

// File types reported in Result.FileType
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
)

// ErrUnsupported is returned when no analyzer handles a file extension
var ErrUnsupported = errors.New("unsupported file type")

// FailureReason enumerates why a file could not be analyzed
type FailureReason int

const (
	// ReasonOpen means the file could not be opened or read
	ReasonOpen FailureReason = iota + 1
	// ReasonDecode means the content could not be decoded
	ReasonDecode
)

func (r FailureReason) String() string {
	switch r {
	case ReasonOpen:
		return "open"
	case ReasonDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Failure describes an analysis that did not produce metadata
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Result represents the analysis result for a file
type Result struct {
	FileType   string          // image or document
	Format     string          // Decoded container format (jpeg, png, pdf...)
	Rows       []types.Row     // Classified table rows
	Summary    types.Summary   // Source-specific summary flags
	Fields     metadata.Fields // Full mapping read by the decoding library
	PageCount  int             // Documents only
	Thumbnail  Thumbnail       // Images only
	Failure    *Failure        // Set when the file could not be decoded
	AnalyzedAt time.Time       // When analysis was performed
}

// Failed reports whether the analysis ended in a failure row
func (r *Result) Failed() bool {
	return r.Failure != nil
}

// failedResult builds the single Error row result used for every failure
func failedResult(fileType string, summary types.Summary, reason FailureReason, err error) *Result {
	return &Result{
		FileType:   fileType,
		Rows:       []types.Row{ErrorRow(err)},
		Summary:    summary,
		Fields:     metadata.Fields{},
		Failure:    &Failure{Reason: reason, Err: err},
		AnalyzedAt: timeNow(),
	}
}

// ErrorRow is the synthetic row shown when decoding fails
func ErrorRow(err error) types.Row {
	return types.Row{Label: "Error", Value: err.Error(), Risk: risk.High}
}

// Analyzer defines the interface for file analyzers
type Analyzer interface {
	// Analyze extracts and summarizes the metadata of a file. Failures are
	// reported through Result.Failure, never as a panic or error
	Analyze(filePath string) *Result

	// CanHandle checks if this analyzer can handle this file type
	CanHandle(filePath string) bool

	// Extensions lists the lower-cased extensions the analyzer accepts
	Extensions() []string
}

// Manager orchestrates the file analysis process
type Manager struct {
	analyzers []Analyzer
}

// NewManager creates a new analyzer manager with all available analyzers
func NewManager() *Manager {
	m := &Manager{
		analyzers: make([]Analyzer, 0),
	}

	m.RegisterAnalyzer(NewImageAnalyzer())
	m.RegisterAnalyzer(NewPDFAnalyzer())

	return m
}

// RegisterAnalyzer adds an analyzer to the manager
func (m *Manager) RegisterAnalyzer(analyzer Analyzer) {
	m.analyzers = append(m.analyzers, analyzer)
}

// Find returns the first registered analyzer that handles the file
func (m *Manager) Find(filePath string) (Analyzer, bool) {
	for _, analyzer := range m.analyzers {
		if analyzer.CanHandle(filePath) {
			return analyzer, true
		}
	}
	return nil, false
}

// Analyze runs the analyzer responsible for filePath
func (m *Manager) Analyze(filePath string) (*Result, error) {
	logger.Debugf("Analyzing file: %s", filePath)

	analyzer, ok := m.Find(filePath)
	if !ok {
		logger.Debugf("No applicable analyzer found for file: %s", filePath)
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, extensionOf(filePath))
	}

	result := analyzer.Analyze(filePath)
	if result.Failed() {
		logger.Debugf("Analysis of %s failed: %v", filePath, result.Failure)
	} else {
		logger.Debugf("Analysis of %s: type=%s, format=%s, fields=%d",
			filePath, result.FileType, result.Format, len(result.Fields))
	}

	return result, nil
}

// SupportedExtensions lists every extension handled by a registered analyzer
func (m *Manager) SupportedExtensions() []string {
	var exts []string
	for _, analyzer := range m.analyzers {
		exts = append(exts, analyzer.Extensions()...)
	}
	return exts
}

func extensionOf(filePath string) string {
	return strings.ToLower(filepath.Ext(filePath))
}

func hasExtension(filePath string, extensions []string) bool {
	ext := extensionOf(filePath)
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var timeNow = func() time.Time {
	return time.Now()
}

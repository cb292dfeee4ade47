package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/deploymenttheory/go-metadata-inspector/internal/console"
	"github.com/deploymenttheory/go-metadata-inspector/internal/exiftool"
	"github.com/deploymenttheory/go-metadata-inspector/internal/export"
	"github.com/deploymenttheory/go-metadata-inspector/internal/fileanalyzer"
	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
)

// Fields inspected by the binary blocks report
var binaryBlockFields = []string{"MakerNote", "UserComment"}

// Detail levels offered after the image table
const (
	detailRemaining = "r"
	detailThumbnail = "t"
	detailBinary    = "b"
	detailAll       = "a"
	detailSkip      = "skip"
)

const goodbye = "Thank you for using the Metadata Inspector!"

// Extractor runs the external metadata extraction tool for one file
type Extractor interface {
	Extract(ctx context.Context, filePath string) (metadata.Fields, error)
}

// Stats holds session statistics
type Stats struct {
	FilesProcessed int
	Errors         int
	StartTime      time.Time
	EndTime        time.Time
}

// Session runs the interactive inspection loop. It is strictly sequential:
// every file is fully handled, prompts included, before the next path is
// read
type Session struct {
	console   *console.Console
	prompter  *console.Prompter
	analyzers *fileanalyzer.Manager
	extractor Extractor
	exporter  *export.Exporter
	stats     Stats
}

// New creates a Session
func New(c *console.Console, p *console.Prompter, analyzers *fileanalyzer.Manager, extractor Extractor, exporter *export.Exporter) *Session {
	return &Session{
		console:   c,
		prompter:  p,
		analyzers: analyzers,
		extractor: extractor,
		exporter:  exporter,
	}
}

// IsQuit reports whether the input is one of the words ending the session
func IsQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// Run reads file paths until a quit word, end of input or ctx is done.
// Per-file problems are reported and never end the loop
func (s *Session) Run(ctx context.Context) error {
	s.stats.StartTime = timeNow()
	defer func() {
		s.stats.EndTime = timeNow()
		logger.Infof("Session ended: %d files processed, %d errors in %v",
			s.stats.FilesProcessed, s.stats.Errors, s.Duration())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := s.prompter.Ask("Enter the path of the file to analyze (or 'q' to quit)")
		if err != nil {
			return s.finish(err)
		}
		if input == "" {
			continue
		}
		if IsQuit(input) {
			return s.finish(nil)
		}

		if err := s.ProcessFile(ctx, input); err != nil {
			return s.finish(err)
		}
		s.console.Rule()
	}
}

// finish prints the goodbye line; end of input is a normal exit
func (s *Session) finish(err error) error {
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	s.console.Success(goodbye)
	return nil
}

// ProcessFile inspects one file and runs its follow-up prompts. The only
// errors returned come from reading answers; everything else is reported
// on the console
func (s *Session) ProcessFile(ctx context.Context, filePath string) error {
	logger.Debugf("Processing %s", filePath)

	if _, err := os.Stat(filePath); err != nil {
		logger.Debugf("Stat %s: %v", filePath, err)
		s.console.Error("File does not exist. Please check the path and try again.")
		s.stats.Errors++
		return nil
	}

	info, err := inspectFile(filePath)
	if err != nil {
		s.console.Error("Cannot read %s: %v", filePath, err)
		s.stats.Errors++
		return nil
	}
	if err := s.console.FileInfo(info); err != nil {
		logger.Errorf("Failed to render file info: %v", err)
	}

	external := s.extract(ctx, filePath)
	s.stats.FilesProcessed++

	result, err := s.analyzers.Analyze(filePath)
	if err != nil {
		if errors.Is(err, fileanalyzer.ErrUnsupported) {
			return s.processUnsupported(filePath, external)
		}
		s.console.Error("Analysis failed: %v", err)
		s.stats.Errors++
		return nil
	}
	if result.Failed() {
		s.stats.Errors++
	}

	switch result.FileType {
	case fileanalyzer.FileTypeImage:
		return s.processImage(filePath, result, external)
	case fileanalyzer.FileTypeDocument:
		return s.processDocument(filePath, result, external)
	default:
		logger.Warningf("Unexpected file type %q for %s", result.FileType, filePath)
		return s.processUnsupported(filePath, external)
	}
}

// extract runs the external tool. Any failure degrades to an empty mapping
func (s *Session) extract(ctx context.Context, filePath string) metadata.Fields {
	fields, err := s.extractor.Extract(ctx, filePath)
	if err == nil {
		return fields
	}

	var exitErr *exiftool.ExitError
	switch {
	case errors.Is(err, exiftool.ErrNotInstalled):
		s.console.Error("ExifTool not installed or not in PATH. Please install ExifTool.")
	case errors.As(err, &exitErr):
		s.console.Error("ExifTool error: %s", strings.TrimSpace(exitErr.Stderr))
	default:
		s.console.Error("Error extracting metadata with exiftool: %v", err)
	}
	return metadata.Fields{}
}

func (s *Session) processImage(filePath string, result *fileanalyzer.Result, external metadata.Fields) error {
	title := fmt.Sprintf("Image Metadata: %s", filepath.Base(filePath))
	if err := s.console.Table(title, result.Rows, result.Summary); err != nil {
		logger.Errorf("Failed to render table: %v", err)
	}

	if err := s.offerExternalDump(external); err != nil {
		return err
	}

	choice, err := s.prompter.Choose(
		"Do you want to see [R]emaining metadata, [T]humbnail, [B]inary data, or [A]ll?",
		[]string{detailRemaining, detailThumbnail, detailBinary, detailAll, detailSkip}, "")
	if err != nil {
		return err
	}

	if choice == detailRemaining || choice == detailAll {
		s.console.Dump("Full Metadata Dump", result.Fields)
	}
	if choice == detailThumbnail || choice == detailAll {
		s.reportThumbnail(result.Thumbnail)
	}
	if choice == detailBinary || choice == detailAll {
		s.console.BinaryBlocks(result.Fields, binaryBlockFields...)
	}

	return s.offerExport(filePath, external, result.Fields)
}

func (s *Session) processDocument(filePath string, result *fileanalyzer.Result, external metadata.Fields) error {
	title := fmt.Sprintf("PDF Metadata: %s (%d pages)", filepath.Base(filePath), result.PageCount)
	if err := s.console.Table(title, result.Rows, result.Summary); err != nil {
		logger.Errorf("Failed to render table: %v", err)
	}

	if err := s.offerExternalDump(external); err != nil {
		return err
	}

	show, err := s.prompter.Confirm("Show PDF library metadata dump?")
	if err != nil {
		return err
	}
	if show {
		s.console.Dump("PDF Library Metadata Dump", result.Fields)
	}

	return s.offerExport(filePath, external, result.Fields)
}

// processUnsupported falls back to the external tool's output alone
func (s *Session) processUnsupported(filePath string, external metadata.Fields) error {
	if len(external) == 0 {
		s.console.Error("Unsupported file type and ExifTool extraction failed.")
		s.console.Println("Supported types: " + strings.Join(s.analyzers.SupportedExtensions(), ", "))
		s.stats.Errors++
		return nil
	}

	s.console.Warn("Using ExifTool for unsupported file type: %s", strings.ToLower(filepath.Ext(filePath)))
	if err := s.console.JSON("ExifTool Metadata Dump", external.Plain()); err != nil {
		logger.Errorf("Failed to render dump: %v", err)
	}

	return s.offerExport(filePath, external, nil)
}

// offerExternalDump is only asked when the external tool produced data
func (s *Session) offerExternalDump(external metadata.Fields) error {
	if len(external) == 0 {
		return nil
	}

	show, err := s.prompter.Confirm("Show ExifTool full dump?")
	if err != nil {
		return err
	}
	if show {
		if err := s.console.JSON("ExifTool Full Metadata Dump", external.Plain()); err != nil {
			logger.Errorf("Failed to render dump: %v", err)
		}
	}
	return nil
}

// offerExport exports the external data when there is any, otherwise the
// decoding library's mapping
func (s *Session) offerExport(filePath string, external, library metadata.Fields) error {
	data := external
	if len(data) == 0 {
		data = library
	}
	if len(data) == 0 {
		s.console.Warn("No metadata to export")
		return nil
	}

	choice, err := s.prompter.Choose("Do you want to export metadata as json / csv / none?",
		[]string{"j", "c", "n"}, "")
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(choice)
	if err != nil {
		return err
	}

	path, err := s.exporter.Export(data, export.BaseName(filePath), format)
	if err != nil {
		s.console.Error("Error saving metadata: %v", err)
		s.stats.Errors++
		return nil
	}
	if path != "" {
		s.console.Success("Metadata saved as %s", path)
	}
	return nil
}

func (s *Session) reportThumbnail(thumb fileanalyzer.Thumbnail) {
	switch thumb.Status {
	case fileanalyzer.ThumbnailNoExif:
		s.console.Warn("No EXIF data found for thumbnail check.")
	case fileanalyzer.ThumbnailFound:
		s.console.Success("Embedded thumbnail found! (%s)", humanize.Bytes(uint64(thumb.Size)))
	case fileanalyzer.ThumbnailMissing:
		s.console.Warn("No embedded thumbnail found.")
	case fileanalyzer.ThumbnailError:
		s.console.Warn("Thumbnail extraction failed: %v", thumb.Err)
	default:
		// The image never decoded, so there is nothing to check
		logger.Debugf("Thumbnail check skipped")
	}
}

// Stats returns the session statistics
func (s *Session) Stats() Stats {
	return s.stats
}

// Duration returns how long the session ran, or has been running
func (s *Session) Duration() time.Duration {
	if s.stats.StartTime.IsZero() {
		return 0
	}
	if s.stats.EndTime.IsZero() {
		return timeNow().Sub(s.stats.StartTime)
	}
	return s.stats.EndTime.Sub(s.stats.StartTime)
}

var timeNow = func() time.Time {
	return time.Now()
}

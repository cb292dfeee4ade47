package fileanalyzer

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

var pdfExtensions = []string{".pdf"}

// maxInfoDepth bounds recursion into nested info dictionaries
const maxInfoDepth = 4

var disableConfigDir sync.Once

// readPDFContext is swapped in tests to exercise parser panics
var readPDFContext = api.ReadContext

// PDFAnalyzer reads the document information dictionary of PDF files
type PDFAnalyzer struct {
	conf *model.Configuration
}

// NewPDFAnalyzer creates a PDFAnalyzer with a relaxed, file-less pdfcpu
// configuration
func NewPDFAnalyzer() *PDFAnalyzer {
	disableConfigDir.Do(func() {
		// Keep pdfcpu from creating its config directory in the user's home
		model.ConfigPath = "disable"
	})

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &PDFAnalyzer{conf: conf}
}

// CanHandle checks for the .pdf extension
func (a *PDFAnalyzer) CanHandle(filePath string) bool {
	return hasExtension(filePath, pdfExtensions)
}

// Extensions returns the supported document extensions
func (a *PDFAnalyzer) Extensions() []string {
	return pdfExtensions
}

// Analyze reads the info dictionary and page count. Keys keep their
// leading "/" name marker in Result.Fields
func (a *PDFAnalyzer) Analyze(filePath string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warningf("Recovered while decoding %s: %v", filePath, r)
			result = failedResult(FileTypeDocument, types.DocumentSummary{}, ReasonDecode, fmt.Errorf("corrupt PDF: %v", r))
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		return failedResult(FileTypeDocument, types.DocumentSummary{}, ReasonOpen, err)
	}
	defer file.Close()

	ctx, err := readPDFContext(file, a.conf)
	if err != nil {
		return failedResult(FileTypeDocument, types.DocumentSummary{}, ReasonDecode, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return failedResult(FileTypeDocument, types.DocumentSummary{}, ReasonDecode, err)
	}

	fields, err := infoFields(ctx)
	if err != nil {
		return failedResult(FileTypeDocument, types.DocumentSummary{}, ReasonDecode, err)
	}

	rows, summary := SummarizeDocument(fields)

	return &Result{
		FileType:   FileTypeDocument,
		Format:     "pdf",
		Rows:       rows,
		Summary:    summary,
		Fields:     fields,
		PageCount:  ctx.PageCount,
		AnalyzedAt: timeNow(),
	}
}

// infoFields returns nil when the trailer has no Info entry
func infoFields(ctx *model.Context) (metadata.Fields, error) {
	if ctx.Info == nil {
		return nil, nil
	}

	dict, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, fmt.Errorf("failed to read document info: %w", err)
	}
	if dict == nil {
		return nil, nil
	}

	fields := make(metadata.Fields, len(dict))
	for key, obj := range dict {
		fields["/"+key] = pdfValue(ctx, obj, 0)
	}
	return fields, nil
}

// pdfValue converts a PDF object into the metadata value union
func pdfValue(ctx *model.Context, obj pdftypes.Object, depth int) metadata.Value {
	o, err := ctx.Dereference(obj)
	if err != nil {
		logger.Debugf("Unresolvable info entry %v: %v", obj, err)
		return metadata.Text("")
	}

	switch v := o.(type) {
	case nil:
		return metadata.Text("")
	case pdftypes.StringLiteral:
		s, err := pdftypes.StringLiteralToString(v)
		if err != nil {
			s = string(v)
		}
		return metadata.Text(s)
	case pdftypes.HexLiteral:
		s, err := pdftypes.HexLiteralToString(v)
		if err != nil {
			s = string(v)
		}
		return metadata.Text(s)
	case pdftypes.Name:
		return metadata.Text(string(v))
	case pdftypes.Integer:
		return metadata.Number(float64(int(v)))
	case pdftypes.Float:
		return metadata.Number(float64(v))
	case pdftypes.Boolean:
		return metadata.Text(strconv.FormatBool(bool(v)))
	case pdftypes.Dict:
		if depth >= maxInfoDepth {
			return metadata.Text(v.String())
		}
		nested := make(metadata.Fields, len(v))
		for key, child := range v {
			nested[key] = pdfValue(ctx, child, depth+1)
		}
		return metadata.Structured(nested)
	default:
		return metadata.Text(o.String())
	}
}

package fileanalyzer

import (
	"strings"

	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/risk"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

// DisplayTag strips the leading "/" name marker from a document info key
func DisplayTag(key string) string {
	return strings.TrimLeft(key, "/")
}

// SummarizeDocument builds one classified row per info entry. A nil
// mapping means the document has no info dictionary
func SummarizeDocument(fields metadata.Fields) ([]types.Row, types.DocumentSummary) {
	var summary types.DocumentSummary

	if fields == nil {
		return []types.Row{{Label: "No PDF Metadata", Value: "N/A", Risk: risk.Low}}, summary
	}

	rows := make([]types.Row, 0, len(fields))
	for _, key := range fields.Keys() {
		tag := DisplayTag(key)
		rows = append(rows, types.Row{
			Label: tag,
			Value: fields[key].String(),
			Risk:  risk.Classify(tag),
		})

		// First match only: a key naming both a creator and a producer
		// sets just the creator flag
		lower := strings.ToLower(tag)
		switch {
		case risk.ContainsAny(lower, "creator", "author"):
			summary.Creator = true
		case risk.ContainsAny(lower, "producer", "software"):
			summary.Producer = true
		case risk.ContainsAny(lower, "date", "time", "created", "modified"):
			summary.Timestamp = true
		}
	}

	return rows, summary
}

package fileanalyzer

import (
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/risk"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

// keyField is an EXIF tag promoted to the summary table with a fixed
// label and risk
type keyField struct {
	Tag   string
	Label string
	Risk  string
}

var imageKeyFields = []keyField{
	{Tag: "Make", Label: "Camera Make", Risk: risk.Device},
	{Tag: "Model", Label: "Camera Model", Risk: risk.Device},
	{Tag: "DateTime", Label: "Date Taken", Risk: risk.UserActivity},
	{Tag: "Software", Label: "Software Used", Risk: risk.Software},
}

// GPSField is the key under which GPS sub-directory tags are grouped
const GPSField = "GPSInfo"

// SummarizeImage builds the table rows and summary flags for EXIF fields.
// Only the key fields and GPS presence produce rows; everything else stays
// in the mapping for the full dump
func SummarizeImage(fields metadata.Fields) ([]types.Row, types.ImageSummary) {
	var summary types.ImageSummary

	if len(fields) == 0 {
		return []types.Row{{Label: "No EXIF Data", Value: "N/A", Risk: risk.Low}}, summary
	}

	rows := make([]types.Row, 0, len(imageKeyFields)+1)
	for _, kf := range imageKeyFields {
		value, ok := fields[kf.Tag]
		if !ok {
			continue
		}
		rows = append(rows, types.Row{Label: kf.Label, Value: value.String(), Risk: kf.Risk})

		switch kf.Tag {
		case "Make", "Model":
			summary.Camera = true
		case "DateTime":
			summary.Timestamp = true
		}
	}

	if gps, ok := fields[GPSField]; ok && !gps.IsEmpty() {
		summary.GPS = true
		rows = append(rows, types.Row{Label: "Location (GPS)", Value: "Available", Risk: risk.Location})
	} else {
		rows = append(rows, types.Row{Label: "Location (GPS)", Value: "Not available", Risk: risk.Low})
	}

	return rows, summary
}

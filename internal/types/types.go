package types

import (
	"time"
)

// Row is one line of the classified metadata table
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Risk  string `json:"risk"`
}

// Flag is a named summary boolean
type Flag struct {
	Name  string
	Value bool
}

// Summary is implemented by the per-source summary flag sets
type Summary interface {
	Flags() []Flag
}

// ImageSummary holds the flags derived from EXIF fields
type ImageSummary struct {
	GPS       bool
	Camera    bool
	Timestamp bool
}

// Flags returns the image flags in display order
func (s ImageSummary) Flags() []Flag {
	return []Flag{
		{Name: "gps", Value: s.GPS},
		{Name: "camera", Value: s.Camera},
		{Name: "timestamp", Value: s.Timestamp},
	}
}

// DocumentSummary holds the flags derived from document info keys
type DocumentSummary struct {
	Creator   bool
	Producer  bool
	Timestamp bool
}

// Flags returns the document flags in display order
func (s DocumentSummary) Flags() []Flag {
	return []Flag{
		{Name: "creator", Value: s.Creator},
		{Name: "producer", Value: s.Producer},
		{Name: "timestamp", Value: s.Timestamp},
	}
}

// FileInfo describes the inspected file itself
type FileInfo struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Extension    string    `json:"extension"`
	SizeBytes    int64     `json:"size_bytes"`
	ModifiedAt   time.Time `json:"modified_at"`
	MimeType     string    `json:"mime_type"`
	SHA3Hash     string    `json:"sha3_hash"`
	ContentMatch bool      `json:"content_match"`
	InspectedAt  time.Time `json:"inspected_at"`
}

package fileanalyzer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	// Container decoders used to validate the image before reading EXIF
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".gif", ".bmp"}

// decodeExif is swapped in tests to exercise decoder panics
var decodeExif = exif.Decode

// IFD pointer tags only locate sub-directories and carry no metadata
var pointerTags = map[string]bool{
	string(exif.ExifIFDPointer):             true,
	string(exif.GPSInfoIFDPointer):          true,
	string(exif.InteroperabilityIFDPointer): true,
}

// ThumbnailStatus is the outcome of the embedded thumbnail check
type ThumbnailStatus int

const (
	// ThumbnailUnchecked means the image could not be decoded at all
	ThumbnailUnchecked ThumbnailStatus = iota
	ThumbnailNoExif
	ThumbnailFound
	ThumbnailMissing
	ThumbnailError
)

// Thumbnail reports whether the EXIF block embeds a preview image
type Thumbnail struct {
	Status ThumbnailStatus
	Size   int
	Err    error
}

// ImageAnalyzer reads EXIF metadata from raster images
type ImageAnalyzer struct{}

// NewImageAnalyzer creates an ImageAnalyzer
func NewImageAnalyzer() *ImageAnalyzer {
	return &ImageAnalyzer{}
}

// CanHandle checks the file extension against the supported image types
func (a *ImageAnalyzer) CanHandle(filePath string) bool {
	return hasExtension(filePath, imageExtensions)
}

// Extensions returns the supported image extensions
func (a *ImageAnalyzer) Extensions() []string {
	return imageExtensions
}

// Analyze extracts EXIF metadata. The file handle is released before
// returning; the thumbnail check runs on the decoded EXIF block
func (a *ImageAnalyzer) Analyze(filePath string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warningf("Recovered while decoding %s: %v", filePath, r)
			result = failedResult(FileTypeImage, types.ImageSummary{}, ReasonDecode, fmt.Errorf("corrupt image: %v", r))
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		return failedResult(FileTypeImage, types.ImageSummary{}, ReasonOpen, err)
	}
	defer file.Close()

	_, format, err := image.DecodeConfig(file)
	if err != nil {
		return failedResult(FileTypeImage, types.ImageSummary{}, ReasonDecode, fmt.Errorf("cannot identify image file %s: %w", filePath, err))
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return failedResult(FileTypeImage, types.ImageSummary{}, ReasonOpen, err)
	}

	fields := metadata.Fields{}
	thumbnail := Thumbnail{Status: ThumbnailNoExif}

	x, err := decodeExif(file)
	switch {
	case x == nil:
		logger.Debugf("No EXIF block in %s: %v", filePath, err)
	default:
		if err != nil {
			logger.Warningf("Partial EXIF data in %s: %v", filePath, err)
		}
		fields = collectFields(x)
		if len(fields) > 0 {
			thumbnail = checkThumbnail(x)
		}
	}

	rows, summary := SummarizeImage(fields)

	return &Result{
		FileType:   FileTypeImage,
		Format:     format,
		Rows:       rows,
		Summary:    summary,
		Fields:     fields,
		Thumbnail:  thumbnail,
		AnalyzedAt: timeNow(),
	}
}

// fieldCollector implements exif.Walker
type fieldCollector struct {
	fields metadata.Fields
	gps    metadata.Fields
}

func (c *fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	key := string(name)
	switch {
	case pointerTags[key]:
	case strings.HasPrefix(key, "GPS"):
		c.gps[key] = tagValue(tag)
	default:
		c.fields[key] = tagValue(tag)
	}
	return nil
}

// collectFields flattens the decoded EXIF block into a mapping, grouping
// GPS tags under GPSField
func collectFields(x *exif.Exif) metadata.Fields {
	c := &fieldCollector{
		fields: metadata.Fields{},
		gps:    metadata.Fields{},
	}
	if err := x.Walk(c); err != nil {
		logger.Warningf("EXIF walk stopped early: %v", err)
	}

	if len(c.gps) > 0 {
		if lat, long, err := x.LatLong(); err == nil {
			c.gps["Latitude"] = metadata.Number(lat)
			c.gps["Longitude"] = metadata.Number(long)
		}
		c.fields[GPSField] = metadata.Structured(c.gps)
	}

	return c.fields
}

// tagValue converts a TIFF tag into the metadata value union
func tagValue(tag *tiff.Tag) metadata.Value {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return metadata.Text(tag.String())
		}
		return metadata.Text(strings.TrimRight(s, "\x00 "))
	case tiff.UndefVal:
		return metadata.Binary(tag.Val)
	case tiff.IntVal:
		if tag.Count == 1 {
			if v, err := tag.Int64(0); err == nil {
				return metadata.Number(float64(v))
			}
		}
	case tiff.RatVal:
		if tag.Count == 1 {
			if r, err := tag.Rat(0); err == nil {
				f, _ := r.Float64()
				return metadata.Number(f)
			}
		}
	case tiff.FloatVal:
		if tag.Count == 1 {
			if f, err := tag.Float(0); err == nil {
				return metadata.Number(f)
			}
		}
	}
	return metadata.Text(tag.String())
}

func checkThumbnail(x *exif.Exif) Thumbnail {
	thumb, err := x.JpegThumbnail()
	if err != nil {
		var notPresent exif.TagNotPresentError
		if errors.As(err, &notPresent) {
			return Thumbnail{Status: ThumbnailMissing}
		}
		return Thumbnail{Status: ThumbnailError, Err: err}
	}
	if len(thumb) == 0 {
		return Thumbnail{Status: ThumbnailMissing}
	}
	return Thumbnail{Status: ThumbnailFound, Size: len(thumb)}
}

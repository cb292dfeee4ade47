package fileanalyzer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TIFF field types
const (
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	data := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	return ifdEntry{tag: tag, typ: typeLong, count: 1, data: binary.LittleEndian.AppendUint32(nil, v)}
}

func rationalEntry(tag uint16, pairs ...uint32) ifdEntry {
	var data []byte
	for _, v := range pairs {
		data = binary.LittleEndian.AppendUint32(data, v)
	}
	return ifdEntry{tag: tag, typ: typeRational, count: uint32(len(pairs) / 2), data: data}
}

func ifdSize(n int) int {
	return 2 + 12*n + 4
}

func ifdDataSize(entries []ifdEntry) int {
	size := 0
	for _, e := range entries {
		if len(e.data) > 4 {
			size += len(e.data) + len(e.data)%2
		}
	}
	return size
}

// appendIFD writes a directory followed by its out-of-line values, which
// start at dataOffset. next is the offset of the following IFD, 0 for none
func appendIFD(buf []byte, entries []ifdEntry, dataOffset, next int) []byte {
	le := binary.LittleEndian
	var dir, data []byte

	dir = le.AppendUint16(dir, uint16(len(entries)))
	for _, e := range entries {
		dir = le.AppendUint16(dir, e.tag)
		dir = le.AppendUint16(dir, e.typ)
		dir = le.AppendUint32(dir, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			dir = append(dir, inline...)
			continue
		}
		dir = le.AppendUint32(dir, uint32(dataOffset+len(data)))
		data = append(data, e.data...)
		if len(data)%2 == 1 {
			data = append(data, 0)
		}
	}
	dir = le.AppendUint32(dir, uint32(next))

	buf = append(buf, dir...)
	return append(buf, data...)
}

// buildTIFF builds a little-endian TIFF structure with IFD0 and an
// optional GPS sub-IFD. Entries must be sorted by tag
func buildTIFF(ifd0 []ifdEntry, gps []ifdEntry) []byte {
	entries := append([]ifdEntry{}, ifd0...)
	if len(gps) > 0 {
		entries = append(entries, ifdEntry{tag: 0x8825, typ: typeLong, count: 1})
	}

	ifd0Offset := 8
	data0Offset := ifd0Offset + ifdSize(len(entries))
	gpsOffset := data0Offset + ifdDataSize(ifd0)

	if len(gps) > 0 {
		entries[len(entries)-1].data = binary.LittleEndian.AppendUint32(nil, uint32(gpsOffset))
	}

	buf := []byte{'I', 'I', 0x2A, 0x00}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ifd0Offset))
	buf = appendIFD(buf, entries, data0Offset, 0)
	if len(gps) > 0 {
		buf = appendIFD(buf, gps, gpsOffset+ifdSize(len(gps)), 0)
	}
	return buf
}

// thumbnailTIFF links IFD0 to an IFD1 whose JPEGInterchangeFormat tags
// locate thumb, which is stored right after IFD1
func thumbnailTIFF(ifd0 []ifdEntry, thumb []byte) []byte {
	ifd0Offset := 8
	data0Offset := ifd0Offset + ifdSize(len(ifd0))
	ifd1Offset := data0Offset + ifdDataSize(ifd0)
	thumbOffset := ifd1Offset + ifdSize(2)

	ifd1 := []ifdEntry{
		longEntry(0x0201, uint32(thumbOffset)),
		longEntry(0x0202, uint32(len(thumb))),
	}

	buf := []byte{'I', 'I', 0x2A, 0x00}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ifd0Offset))
	buf = appendIFD(buf, ifd0, data0Offset, ifd1Offset)
	buf = appendIFD(buf, ifd1, thumbOffset, 0)
	return append(buf, thumb...)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	return img
}

// jpegWithExif encodes a small JPEG and splices an APP1 EXIF segment in
// right after the SOI marker
func jpegWithExif(t *testing.T, tiffData []byte) []byte {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, jpeg.Encode(&body, testImage(), nil))
	raw := body.Bytes()

	payload := append([]byte("Exif\x00\x00"), tiffData...)
	segment := []byte{0xFF, 0xE1}
	segment = binary.BigEndian.AppendUint16(segment, uint16(len(payload)+2))
	segment = append(segment, payload...)

	out := append([]byte{}, raw[:2]...)
	out = append(out, segment...)
	return append(out, raw[2:]...)
}

func cameraTIFF() []byte {
	return buildTIFF([]ifdEntry{
		asciiEntry(0x010F, "Canon"),
		asciiEntry(0x0110, "Canon EOS 5D"),
		asciiEntry(0x0131, "GIMP 2.10"),
		asciiEntry(0x0132, "2024:01:02 03:04:05"),
	}, nil)
}

func gpsTIFF() []byte {
	return buildTIFF([]ifdEntry{
		asciiEntry(0x010F, "Apple"),
		asciiEntry(0x0110, "iPhone 12"),
	}, []ifdEntry{
		asciiEntry(0x0001, "N"),
		rationalEntry(0x0002, 48, 1, 51, 1, 30, 1),
		asciiEntry(0x0003, "E"),
		rationalEntry(0x0004, 2, 1, 17, 1, 40, 1),
	})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func plainJPEGBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

// buildPDF assembles a one-page PDF with a correct xref table. An empty
// info string omits the Info dictionary from the trailer
func buildPDF(info string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	if info != "" {
		objects = append(objects, info)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := fmt.Sprintf("/Size %d /Root 1 0 R", len(objects)+1)
	if info != "" {
		trailer += fmt.Sprintf(" /Info %d 0 R", len(objects))
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xrefOffset)

	return buf.Bytes()
}

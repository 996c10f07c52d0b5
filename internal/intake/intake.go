// Package intake validates incoming résumé files and normalizes their metadata.
package intake

import (
	"fmt"
	"math"
	"strconv"
)

// MaxFileSize is the advertised per-file upload cap.
const MaxFileSize = 10 << 20 // 10MB

// MIME types accepted for résumé uploads.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTXT  = "text/plain"
)

// kindByMime maps accepted MIME types to their display kind.
var kindByMime = map[string]string{
	MimePDF:  "PDF",
	MimeDOCX: "DOCX",
	MimeTXT:  "TXT",
}

// FileInfo is the normalized metadata for an accepted file.
type FileInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
	Kind      string `json:"kind"` // PDF, DOCX, or TXT
}

// Validate checks a candidate file against the accepted MIME types and the
// size cap. Rejections are per-file and non-fatal: a rejected file produces a
// RejectionError and no state anywhere else.
func Validate(name string, size int64, mimeType string) (*FileInfo, error) {
	kind, ok := kindByMime[mimeType]
	if !ok {
		return nil, &RejectionError{
			Name:   name,
			Reason: fmt.Sprintf("%s is not a supported file type", name),
		}
	}

	if size > MaxFileSize {
		return nil, &RejectionError{
			Name:   name,
			Reason: fmt.Sprintf("%s exceeds the %s upload limit", name, FormatSize(MaxFileSize)),
		}
	}

	return &FileInfo{
		Name:      name,
		Size:      size,
		SizeLabel: FormatSize(size),
		Kind:      kind,
	}, nil
}

// FormatSize renders a byte count as a human-readable string
// (1024-based units, up to two decimal places, trailing zeros trimmed).
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + units[i]
}

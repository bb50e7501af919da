package api

import (
	"time"

	"github.com/Diyakharel1/OCR-and-NLP-services/internal/ocr"
)

// BillScan is a processed bill upload kept in the scan history. This is
// collaborator-side convenience state; the extraction result itself is
// returned to the caller and owned by them.
type BillScan struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	RawText     string         `json:"raw_text"`
	Services    []ocr.LineItem `json:"services"`
	TotalPrice  *float64       `json:"total_price,omitempty"`
	Date        *string        `json:"date,omitempty"`
	StoredFile  string         `json:"stored_file"`
	CreatedAt   time.Time      `json:"created_at"`
}

package api

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Diyakharel1/OCR-and-NLP-services/internal/nlp"
	"github.com/Diyakharel1/OCR-and-NLP-services/internal/ocr"
)

// IDGenerator generates unique IDs for bill scans
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service orchestrates the two pipelines: bill image -> extraction ->
// structured parse, and feedback text -> analysis -> in-memory store.
type Service struct {
	extractor   ocr.TextExtractor
	analyzer    *nlp.Analyzer
	store       *nlp.Store
	db          DB
	files       Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor ocr.TextExtractor, analyzer *nlp.Analyzer, store *nlp.Store, db DB, files Storage) *Service {
	return &Service{
		extractor:   extractor,
		analyzer:    analyzer,
		store:       store,
		db:          db,
		files:       files,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor ocr.TextExtractor, analyzer *nlp.Analyzer, store *nlp.Store, db DB, files Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		extractor:   extractor,
		analyzer:    analyzer,
		store:       store,
		db:          db,
		files:       files,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up phone-generated filenames before storing
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`).ReplaceAllString(base, "")
	base = regexp.MustCompile(`\s+`).ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "bill"
	}
	return base + ext
}

// ProcessBill runs the full bill extraction pipeline: normalize the
// upload, run the OCR engine, parse the raw text, and persist the scan
// in the history. Text that yields no structured data is not an error;
// the result carries Success=false and nothing is persisted.
func (s *Service) ProcessBill(filename string, data []byte, contentType string) (*ocr.BillData, error) {
	pngData, err := ocr.PrepareImage(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	rawText, err := s.extractor.ExtractText(pngData)
	if err != nil {
		slog.Error("Text extraction failed",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	if strings.TrimSpace(rawText) == "" {
		return &ocr.BillData{
			Services: []ocr.LineItem{},
			Message:  "no text could be extracted from the image",
		}, nil
	}

	result := ocr.ParseBill(rawText)
	slog.Info("Parsed bill",
		"filename", filename,
		"services", len(result.Services),
		"has_total", result.TotalPrice != nil,
		"has_date", result.Date != nil,
	)

	if !result.Success {
		return &result, nil
	}

	id := s.idGenerator.Generate()
	savedPath, err := s.files.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	scan := &BillScan{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		RawText:     result.RawText,
		Services:    result.Services,
		TotalPrice:  result.TotalPrice,
		Date:        result.Date,
		StoredFile:  savedPath,
		CreatedAt:   s.timeSource.Now(),
	}
	if err := s.db.SaveBillScan(scan); err != nil {
		// Clean up file if database save fails
		s.files.Delete(savedPath)
		return nil, fmt.Errorf("saving bill scan: %w", err)
	}

	return &result, nil
}

// AnalyzeFeedback analyzes feedback text and records the result
func (s *Service) AnalyzeFeedback(text string) (*nlp.Analysis, error) {
	analysis, err := s.analyzer.Analyze(text)
	if err != nil {
		return nil, err
	}

	if err := s.store.Record(analysis, text); err != nil {
		return nil, fmt.Errorf("recording feedback: %w", err)
	}

	slog.Info("Analyzed feedback",
		"sentiment", analysis.Sentiment,
		"confidence", analysis.Confidence,
		"keywords", len(analysis.Keywords),
		"total_records", s.store.Count(),
	)
	return analysis, nil
}

// Insights aggregates all recorded feedback
func (s *Service) Insights() nlp.Insights {
	return s.store.Snapshot()
}

// ListBillScans returns the scan history
func (s *Service) ListBillScans() ([]*BillScan, error) {
	scans, err := s.db.ListBillScans()
	if err != nil {
		return nil, fmt.Errorf("listing bill scans: %w", err)
	}
	return scans, nil
}

// GetBillScan retrieves one scan by ID
func (s *Service) GetBillScan(id string) (*BillScan, error) {
	scan, err := s.db.GetBillScan(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill scan: %w", err)
	}
	return scan, nil
}

// GetBillScanFile retrieves the stored source image for a scan
func (s *Service) GetBillScanFile(id string) ([]byte, string, error) {
	scan, err := s.db.GetBillScan(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill scan: %w", err)
	}

	data, err := s.files.Get(scan.StoredFile)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill scan file: %w", err)
	}
	return data, scan.ContentType, nil
}

// DeleteBillScan removes a scan and its stored image
func (s *Service) DeleteBillScan(id string) error {
	scan, err := s.db.GetBillScan(id)
	if err != nil {
		return fmt.Errorf("getting bill scan for deletion: %w", err)
	}

	if err := s.files.Delete(scan.StoredFile); err != nil {
		slog.Warn("Failed to delete file", "filename", scan.StoredFile, "error", err)
	}

	if err := s.db.DeleteBillScan(id); err != nil {
		return fmt.Errorf("deleting bill scan: %w", err)
	}
	return nil
}

package ocr

import "errors"

// ErrInvalidImage indicates the uploaded bytes could not be decoded as a
// supported image or PDF.
var ErrInvalidImage = errors.New("invalid image")

// TextExtractor defines the interface for OCR engines. Implementations
// receive PNG data (see PrepareImage) and return the engine's raw text
// output verbatim, including line breaks.
type TextExtractor interface {
	// ExtractText reads all visible text from a bill image
	ExtractText(pngData []byte) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}

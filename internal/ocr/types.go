package ocr

import (
	"context"
	"strings"
)

// PageSeparator joins page texts in Result.FullText.
const PageSeparator = "\n\n"

// PageImage is one rasterized document page.
type PageImage struct {
	// Page is the 1-based page number in the source document.
	Page int
	Data []byte
}

// PageResult represents recognized text for a single page.
type PageResult struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Result is the aggregated recognition output for a document.
type Result struct {
	Success    bool         `json:"success"`
	Pages      []PageResult `json:"pages"`
	TotalPages int          `json:"total_pages"`
	FullText   string       `json:"full_text"`
}

// NewResult builds a Result from page texts given in document order.
func NewResult(texts []string) *Result {
	pages := make([]PageResult, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, PageResult{Page: i + 1, Text: text})
	}
	return &Result{
		Success:    true,
		Pages:      pages,
		TotalPages: len(pages),
		FullText:   strings.Join(texts, PageSeparator),
	}
}

// Rasterizer turns a document on disk into ordered page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string) ([]PageImage, error)
}

// Recognizer extracts text from a single page image.
type Recognizer interface {
	Recognize(ctx context.Context, page PageImage) (string, error)
}

// RasterizationError wraps a failure to convert the document into pages.
// Its message is the engine's message unchanged.
type RasterizationError struct {
	Err error
}

func (e *RasterizationError) Error() string { return e.Err.Error() }

func (e *RasterizationError) Unwrap() error { return e.Err }

// RecognitionError wraps a failure to recognize text on one page. Like
// RasterizationError its message is the engine's message unchanged.
type RecognitionError struct {
	Page int
	Err  error
}

func (e *RecognitionError) Error() string { return e.Err.Error() }

func (e *RecognitionError) Unwrap() error { return e.Err }

// Package tesseract recognizes page images with the Tesseract engine through
// gosseract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/go-taken/ocr-api/internal/ocr"
)

// Recognizer implements ocr.Recognizer with a fresh gosseract client per page.
type Recognizer struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewRecognizer constructs a Tesseract-backed recognizer. Languages are
// Tesseract trained-data names such as "eng" or "deu"; none means the engine
// default.
func NewRecognizer(languages ...string) *Recognizer {
	return &Recognizer{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

// Recognize returns the text Tesseract reads from the page image.
func (r *Recognizer) Recognize(ctx context.Context, page ocr.PageImage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := r.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(page.Data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(r.languages) > 0 {
		if err := c.SetLanguage(r.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

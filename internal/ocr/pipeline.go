package ocr

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/go-taken/ocr-api/internal/logging"
)

// Pipeline rasterizes a staged document and recognizes every page.
type Pipeline struct {
	rasterizer Rasterizer
	recognizer Recognizer
	workers    int
	logger     logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many pages are recognized concurrently. Values below
// two keep recognition strictly sequential.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets the logger used for stage diagnostics when the run context
// carries none.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline returns a Pipeline over the given engines.
func NewPipeline(rasterizer Rasterizer, recognizer Recognizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		rasterizer: rasterizer,
		recognizer: recognizer,
		workers:    1,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes the document at pdfPath. Any page failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Result, error) {
	log := logging.FromContext(ctx, p.logger).WithField("path", pdfPath)

	log.Debug("converting pdf to images")
	images, err := p.rasterizer.Rasterize(ctx, pdfPath)
	if err != nil {
		return nil, &RasterizationError{Err: err}
	}
	log.WithField("pages", len(images)).Debug("rasterized document")

	texts, err := p.recognizeAll(ctx, images)
	if err != nil {
		return nil, err
	}

	result := NewResult(texts)
	log.WithFields(logrus.Fields{
		"pages": result.TotalPages,
		"chars": len(result.FullText),
	}).Debug("recognition complete")
	return result, nil
}

func (p *Pipeline) recognizeAll(ctx context.Context, images []PageImage) ([]string, error) {
	texts := make([]string, len(images))

	if p.workers <= 1 {
		for i, img := range images {
			text, err := p.recognizePage(ctx, i+1, img)
			if err != nil {
				return nil, err
			}
			texts[i] = text
		}
		return texts, nil
	}

	// texts is indexed by page so completion order never leaks into the result
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := p.recognizePage(gctx, i+1, img)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

func (p *Pipeline) recognizePage(ctx context.Context, page int, img PageImage) (string, error) {
	log := logging.FromContext(ctx, p.logger).WithField("page", page)
	log.Debug("performing ocr on page")

	text, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		log.WithError(err).Debug("page recognition failed")
		return "", &RecognitionError{Page: page, Err: err}
	}
	log.WithField("chars", len(text)).Debug("page recognized")
	return text, nil
}

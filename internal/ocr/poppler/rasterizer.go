// Package poppler rasterizes PDF documents with pdftoppm from poppler-utils.
package poppler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/go-taken/ocr-api/internal/ocr"
)

const (
	DefaultBinary  = "pdftoppm"
	DefaultDPI     = 200
	DefaultTimeout = 2 * time.Minute
)

// Rasterizer wraps pdftoppm CLI invocation.
type Rasterizer struct {
	Binary string
	DPI    int
	// Timeout bounds rendering of a whole document.
	Timeout time.Duration
	// WorkDir holds per-document scratch directories; empty means os.TempDir.
	WorkDir string
}

// NewRasterizer returns a Rasterizer with sane defaults.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		Binary:  DefaultBinary,
		DPI:     DefaultDPI,
		Timeout: DefaultTimeout,
	}
}

// Rasterize renders every page of pdfPath to PNG, in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string) ([]ocr.PageImage, error) {
	if pdfPath == "" {
		return nil, errors.New("pdf path is required")
	}
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	pages := make([]ocr.PageImage, 0, pageCount)
	if pageCount == 0 {
		return pages, nil
	}

	tmpDir, err := os.MkdirTemp(r.WorkDir, "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create page dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for page := 1; page <= pageCount; page++ {
		data, err := renderPage(cmdCtx, binary, dpi, pdfPath, tmpDir, page)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", page, err)
		}
		pages = append(pages, ocr.PageImage{Page: page, Data: data})
	}
	return pages, nil
}

// renderPage renders one page with -singlefile so the output name is predictable.
func renderPage(ctx context.Context, binary string, dpi int, pdfPath, dir string, page int) ([]byte, error) {
	prefix := filepath.Join(dir, fmt.Sprintf("page-%d", page))
	pageStr := strconv.Itoa(page)

	cmd := exec.CommandContext(ctx, binary,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		prefix,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w - %s", err, stderr.String())
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}

// ResolveBinary looks the rasterizer binary up on PATH and returns its
// absolute path.
func ResolveBinary(binary string) (string, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("pdftoppm binary not found (%s): %w", binary, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// Package staging writes uploads to transient files for path-based tools.
package staging

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

const pattern = "ocr-input-*.pdf"

// Stager creates staged files inside a single directory.
type Stager struct {
	dir string
}

// New returns a Stager rooted at dir. An empty dir uses os.TempDir.
func New(dir string) *Stager {
	return &Stager{dir: dir}
}

// Dir returns the directory staged files are written to.
func (s *Stager) Dir() string {
	if s.dir == "" {
		return os.TempDir()
	}
	return s.dir
}

// Resource is a staged file. Callers must Release it once done.
type Resource struct {
	path string
	once sync.Once
	err  error
}

// Path returns the location of the staged file.
func (r *Resource) Path() string {
	return r.path
}

// Release deletes the staged file. It is safe to call more than once and a
// file that is already gone is not an error.
func (r *Resource) Release() error {
	r.once.Do(func() {
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.err = fmt.Errorf("remove staged file: %w", err)
		}
	})
	return r.err
}

// Stage writes data to a new uniquely named .pdf file.
func (s *Stager) Stage(data []byte) (*Resource, error) {
	tmpFile, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	res := &Resource{path: tmpFile.Name()}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		res.Release()
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		res.Release()
		return nil, fmt.Errorf("close staged file: %w", err)
	}
	return res, nil
}

// Package upload selects the uploaded document from a request body.
package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-taken/ocr-api/internal/formdata"
)

// DefaultFilename is used when the request does not name the file.
const DefaultFilename = "upload.pdf"

const multipartFormData = "multipart/form-data"

var (
	// ErrEmptyUpload reports a request without any body bytes.
	ErrEmptyUpload = errors.New("no file uploaded")
	// ErrNoFileFound reports a multipart body with no usable file part.
	ErrNoFileFound = errors.New("no file found in request")
	// ErrMalformedMultipart reports a multipart content type that cannot be decoded.
	ErrMalformedMultipart = errors.New("malformed multipart request")
)

// File is the uploaded document.
type File struct {
	Filename string
	Data     []byte
}

// Extract returns the uploaded file. Multipart bodies yield the first part that
// declares a filename; any other body is taken whole as the document.
func Extract(body []byte, contentType string) (File, error) {
	if len(body) == 0 {
		return File{}, ErrEmptyUpload
	}
	if !strings.Contains(contentType, multipartFormData) {
		return File{Filename: DefaultFilename, Data: body}, nil
	}

	boundary, err := formdata.Boundary(contentType)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrMalformedMultipart, err)
	}
	for _, part := range formdata.Decode(body, boundary) {
		name, ok := part.Filename()
		if !ok {
			continue
		}
		if len(part.Body) == 0 {
			return File{}, ErrNoFileFound
		}
		if name == "" {
			name = DefaultFilename
		}
		return File{Filename: name, Data: part.Body}, nil
	}
	return File{}, ErrNoFileFound
}

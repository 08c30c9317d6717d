// Package formdata decodes multipart/form-data request bodies that have already
// been read into memory.
package formdata

import (
	"bytes"
	"errors"
	"strings"
)

// ErrNoBoundary is returned when a multipart content type carries no usable
// boundary parameter.
var ErrNoBoundary = errors.New("multipart boundary not found")

const boundaryParam = "boundary="

var (
	crlf          = []byte("\r\n")
	headerBodySep = []byte("\r\n\r\n")
)

// Part is a single decoded form part.
type Part struct {
	// Headers holds lower-cased header names mapped to trimmed values. When the
	// content-disposition header names a file, the name is also stored under
	// the "filename" key.
	Headers map[string]string
	// Body aliases the request body; it is not copied.
	Body []byte
}

// Filename returns the part's filename and whether one was declared.
func (p Part) Filename() (string, bool) {
	name, ok := p.Headers["filename"]
	return name, ok
}

// Boundary extracts the boundary token from a multipart Content-Type value.
// The token ends at the next parameter separator and may be quoted.
func Boundary(contentType string) (string, error) {
	idx := strings.Index(contentType, boundaryParam)
	if idx == -1 {
		return "", ErrNoBoundary
	}
	value := contentType[idx+len(boundaryParam):]
	if end := strings.IndexByte(value, ';'); end != -1 {
		value = value[:end]
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"`)
	if value == "" {
		return "", ErrNoBoundary
	}
	return value, nil
}

// Decode splits body on the "--boundary" delimiter and returns the parts in
// body order. The preamble before the first delimiter and everything after the
// last one are discarded. Segments that are blank or lack a header/body
// separator are skipped.
func Decode(body []byte, boundary string) []Part {
	delim := []byte("--" + boundary)

	var parts []Part
	start := bytes.Index(body, delim)
	if start == -1 {
		return parts
	}
	start += len(delim)
	for {
		rel := bytes.Index(body[start:], delim)
		if rel == -1 {
			// body[start:] is the epilogue
			return parts
		}
		segment := body[start : start+rel]
		start += rel + len(delim)

		if part, ok := decodePart(segment); ok {
			parts = append(parts, part)
		}
	}
}

func decodePart(segment []byte) (Part, bool) {
	if len(bytes.TrimSpace(segment)) == 0 {
		return Part{}, false
	}
	sep := bytes.Index(segment, headerBodySep)
	if sep == -1 {
		return Part{}, false
	}

	headers := parseHeaders(segment[:sep])
	if disposition, ok := headers["content-disposition"]; ok {
		if name, ok := filenameParam(disposition); ok {
			headers["filename"] = name
		}
	}

	return Part{
		Headers: headers,
		Body:    bytes.TrimSuffix(segment[sep+len(headerBodySep):], crlf),
	}, true
}

func parseHeaders(block []byte) map[string]string {
	headers := make(map[string]string)
	// invalid UTF-8 is dropped rather than rejected
	text := strings.ToValidUTF8(string(block), "")
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return headers
}

func filenameParam(disposition string) (string, bool) {
	idx := strings.Index(disposition, "filename=")
	if idx == -1 {
		return "", false
	}
	value := strings.TrimSpace(disposition[idx+len("filename="):])
	if strings.HasPrefix(value, `"`) {
		value = value[1:]
		if end := strings.IndexByte(value, '"'); end != -1 {
			value = value[:end]
		}
		return value, true
	}
	if end := strings.IndexByte(value, ';'); end != -1 {
		value = value[:end]
	}
	return strings.TrimSpace(value), true
}

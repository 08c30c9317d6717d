package upload

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formPart struct {
	field    string
	filename string
	data     string
}

func buildMultipart(t *testing.T, parts ...formPart) ([]byte, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, w.WriteField(p.field, p.data))
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body.Bytes(), w.FormDataContentType()
}

func TestExtract_FilePartRegardlessOfPosition(t *testing.T) {
	orders := map[string][]formPart{
		"file first": {
			{field: "file", filename: "scan.pdf", data: "%PDF-scan"},
			{field: "lang", data: "eng"},
		},
		"file last": {
			{field: "lang", data: "eng"},
			{field: "note", data: "hello"},
			{field: "file", filename: "scan.pdf", data: "%PDF-scan"},
		},
		"file middle": {
			{field: "lang", data: "eng"},
			{field: "file", filename: "scan.pdf", data: "%PDF-scan"},
			{field: "note", data: "hello"},
		},
	}

	for name, parts := range orders {
		t.Run(name, func(t *testing.T) {
			body, contentType := buildMultipart(t, parts...)
			f, err := Extract(body, contentType)
			require.NoError(t, err)
			assert.Equal(t, "scan.pdf", f.Filename)
			assert.Equal(t, []byte("%PDF-scan"), f.Data)
		})
	}
}

func TestExtract_FirstFileWins(t *testing.T) {
	body, contentType := buildMultipart(t,
		formPart{field: "a", filename: "one.pdf", data: "first"},
		formPart{field: "b", filename: "two.pdf", data: "second"},
	)

	f, err := Extract(body, contentType)
	require.NoError(t, err)
	assert.Equal(t, "one.pdf", f.Filename)
	assert.Equal(t, []byte("first"), f.Data)
}

func TestExtract_NoFilePart(t *testing.T) {
	body, contentType := buildMultipart(t, formPart{field: "lang", data: "eng"})

	_, err := Extract(body, contentType)
	assert.ErrorIs(t, err, ErrNoFileFound)
}

func TestExtract_EmptyFilePart(t *testing.T) {
	body, contentType := buildMultipart(t, formPart{field: "file", filename: "empty.pdf"})

	_, err := Extract(body, contentType)
	assert.ErrorIs(t, err, ErrNoFileFound)
}

func TestExtract_EmptyFilenameDefaults(t *testing.T) {
	raw := "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"\"\r\n\r\ndata\r\n--b--\r\n"

	f, err := Extract([]byte(raw), "multipart/form-data; boundary=b")
	require.NoError(t, err)
	assert.Equal(t, DefaultFilename, f.Filename)
	assert.Equal(t, []byte("data"), f.Data)
}

func TestExtract_RawBody(t *testing.T) {
	body := []byte("%PDF-1.7 raw")

	f, err := Extract(body, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, DefaultFilename, f.Filename)
	assert.Equal(t, body, f.Data)

	f, err = Extract(body, "")
	require.NoError(t, err)
	assert.Equal(t, body, f.Data)
}

func TestExtract_EmptyBody(t *testing.T) {
	_, err := Extract(nil, "application/pdf")
	assert.ErrorIs(t, err, ErrEmptyUpload)

	_, err = Extract([]byte{}, "multipart/form-data; boundary=b")
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestExtract_MissingBoundary(t *testing.T) {
	_, err := Extract([]byte("--b\r\n\r\n"), "multipart/form-data")
	assert.ErrorIs(t, err, ErrMalformedMultipart)
}

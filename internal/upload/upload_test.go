package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestSaveImage(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "photo.png", "image/png", pngHeader)
	res, err := saver.Save(fh, "media", true)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.URL, "/uploads/media-"))
	assert.True(t, strings.HasSuffix(res.URL, ".png"))
	assert.Equal(t, "image", res.MediaType)
	assert.Equal(t, "photo.png", res.OriginalName)

	stored := filepath.Join(saver.Dir(), strings.TrimPrefix(res.URL, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveRejectsNonMediaWhenMediaOnly(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4"))
	_, err = saver.Save(fh, "media", true)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	// A media extension with a non-media MIME type is rejected too.
	fh = multipartFile(t, "fake.png", "application/octet-stream", []byte("not an image"))
	_, err = saver.Save(fh, "media", true)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestSaveAcceptsAnyFileForMessages(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4"))
	res, err := saver.Save(fh, "message", false)
	require.NoError(t, err)
	assert.Equal(t, "document", res.MediaType)
	assert.Equal(t, "notes.pdf", res.OriginalName)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "photo.png", "image/png", pngHeader)
	fh.Size = MaxFileSize + 1
	_, err = saver.Save(fh, "media", true)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

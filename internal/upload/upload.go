// Package upload stores multipart media files and hands back the relative
// URL the rest of the system consumes verbatim.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/google/uuid"
)

// MaxFileSize is the upload byte ceiling, large enough for short videos.
const MaxFileSize = 50 << 20 // 50MB

// mediaExtensions is the allowlist applied to post and story uploads.
// Messages accept any file type.
var mediaExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

// Saver writes uploaded files into a directory served under /uploads.
type Saver struct {
	dir string
}

// NewSaver creates the upload directory if needed.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Saver{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *Saver) Dir() string {
	return s.dir
}

// Result describes a stored upload.
type Result struct {
	URL          string // relative URL: /uploads/<name>
	MediaType    string // image, video, audio or document
	OriginalName string
}

// Save stores one multipart file under a generated name. When mediaOnly is
// true, only image and video files pass the extension and MIME allowlist.
// The prefix distinguishes media, story and message files in the directory.
func (s *Saver) Save(fh *multipart.FileHeader, prefix string, mediaOnly bool) (*Result, error) {
	if fh.Size > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds the 50MB limit", apperr.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = sniffContentType(fh)
	}

	if mediaOnly {
		if !mediaExtensions[ext] || !isMediaMIME(contentType) {
			return nil, fmt.Errorf("%w: only images and videos are allowed", apperr.ErrInvalidInput)
		}
	}

	name := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &Result{
		URL:          "/uploads/" + name,
		MediaType:    mediaKind(contentType),
		OriginalName: fh.Filename,
	}, nil
}

func isMediaMIME(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// mediaKind collapses a MIME type into the coarse kinds the message preview
// understands.
func mediaKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	default:
		return "document"
	}
}

func sniffContentType(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}

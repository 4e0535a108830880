// Package upload stores media files on local disk under one directory per kind.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is a media family accepted by the upload endpoint.
type Kind string

const (
	Image Kind = "image"
	Audio Kind = "audio"
	Video Kind = "video"
)

// DefaultMaxBytes is the largest accepted file.
const DefaultMaxBytes int64 = 100 << 20

var (
	ErrUnknownKind = errors.New("unknown upload kind")
	ErrMissingFile = errors.New("no file uploaded")
	ErrWrongType   = errors.New("file type does not match upload kind")
	ErrTooLarge    = errors.New("file too large")
)

// mediaTypes lists the stored extensions per kind with the type they are served as.
var mediaTypes = []struct {
	ext, contentType string
}{
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".png", "image/png"},
	{".gif", "image/gif"},
	{".webp", "image/webp"},
	{".avif", "image/avif"},
	{".mp3", "audio/mpeg"},
	{".wav", "audio/wav"},
	{".ogg", "audio/ogg"},
	{".m4a", "audio/mp4"},
	{".aac", "audio/aac"},
	{".flac", "audio/flac"},
	{".opus", "audio/opus"},
	{".mp4", "video/mp4"},
	{".webm", "video/webm"},
	{".mov", "video/quicktime"},
	{".mkv", "video/x-matroska"},
	{".ogv", "video/ogg"},
}

// ContentType returns the type a stored file is served as, or "" if its
// extension is not one Save produces.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	for _, m := range mediaTypes {
		if m.ext == ext {
			return m.contentType
		}
	}
	return ""
}

// ParseKind validates a kind taken from a URL.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Image, Audio, Video:
		return Kind(s), nil
	default:
		return "", ErrUnknownKind
	}
}

// Result describes a stored file. URL is the reference clients put into entity fields.
type Result struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
}

// Store writes uploads beneath Root and reports them under URLPrefix.
type Store struct {
	Root      string
	URLPrefix string
	MaxBytes  int64
}

// New creates a Store rooted at dir, creating the per-kind directories.
func New(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	for _, k := range []Kind{Image, Audio, Video} {
		if err := os.MkdirAll(filepath.Join(dir, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{Root: dir, URLPrefix: "/uploads", MaxBytes: maxBytes}, nil
}

// Save copies the multipart file to disk under a random name. The declared
// content type must belong to kind, and the stored extension is always one
// that serves as kind.
func (s *Store) Save(kind Kind, file multipart.File, header *multipart.FileHeader) (*Result, error) {
	if file == nil || header == nil {
		return nil, ErrMissingFile
	}
	if header.Size > s.MaxBytes {
		return nil, ErrTooLarge
	}
	ext, err := storedExtension(kind, header)
	if err != nil {
		return nil, err
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(s.Root, string(kind), name)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	written, err := io.Copy(out, io.LimitReader(file, s.MaxBytes+1))
	closeErr := out.Close()
	if err == nil && written > s.MaxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &Result{
		URL:          path.Join(s.URLPrefix, string(kind), name),
		Filename:     name,
		OriginalName: header.Filename,
		Size:         written,
	}, nil
}

// storedExtension keeps the client's extension when it serves as kind and
// otherwise derives one from the declared type.
func storedExtension(kind Kind, header *multipart.FileHeader) (string, error) {
	clientExt := strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentType(clientExt)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !inKind(kind, mediaType) {
		return "", ErrWrongType
	}
	if inKind(kind, ContentType(clientExt)) {
		return clientExt, nil
	}
	for _, m := range mediaTypes {
		if m.contentType == mediaType {
			return m.ext, nil
		}
	}
	return "", ErrWrongType
}

func inKind(kind Kind, mediaType string) bool {
	return strings.HasPrefix(mediaType, string(kind)+"/")
}

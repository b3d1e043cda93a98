// Package pdfinfo inspects local files before they are uploaded: declared
// media type, size and a page count read with the PDF parser.
package pdfinfo

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// MediaTypePDF is the declared media type of PDF documents.
	MediaTypePDF = "application/pdf"
	// MaxUploadSize is the largest file the backend accepts, 50 MiB.
	MaxUploadSize int64 = 50 * 1024 * 1024
)

// File describes a local file picked for upload.
type File struct {
	Name      string
	Path      string
	MediaType string
	Size      int64
	// Pages is the locally parsed page count, zero when it was not read.
	Pages int
}

// IsPDF reports whether the declared media type is PDF.
func (f File) IsPDF() bool {
	return f.MediaType == MediaTypePDF
}

// Inspect stats path and derives the declared media type from its extension,
// the way a browser fills in File.type. PDFs up to MaxUploadSize also get a
// local page count; larger files are rejected before upload anyway.
func Inspect(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, errors.New("no file selected")
	}
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", filepath.Base(path))
	}

	file := File{
		Name:      info.Name(),
		Path:      path,
		MediaType: MediaType(path),
		Size:      info.Size(),
	}
	if file.IsPDF() && file.Size <= MaxUploadSize {
		if pages, err := PageCount(path); err == nil {
			file.Pages = pages
		}
	}
	return file, nil
}

// MediaType maps the file extension to a media type without parameters.
// Unknown extensions yield an empty string.
func MediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	declared := mime.TypeByExtension(ext)
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mediaType
}

// PageCount opens the PDF and returns its number of pages.
func PageCount(path string) (pages int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()
	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()
	return reader.NumPage(), nil
}

// CleanPath normalizes a path typed or pasted into the terminal. Dropping a
// file onto most terminals pastes its path quoted or with escaped spaces.
func CleanPath(raw string) string {
	path := strings.TrimSpace(raw)
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		if (first == '\'' || first == '"') && first == last {
			path = path[1 : len(path)-1]
		}
	}
	path = strings.ReplaceAll(path, `\ `, " ")
	path = strings.TrimPrefix(path, "file://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

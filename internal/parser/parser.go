package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
)

// Options carries adapter-level defaults that are not recoverable from
// the document package itself.
type Options struct {
	// Placeholder dimensions reported for embedded images; the package
	// metadata read here does not carry real pixel sizes.
	ImageWidth  int
	ImageHeight int
}

// DefaultOptions matches the dimensions the H5P viewers were tuned for.
var DefaultOptions = Options{ImageWidth: 600, ImageHeight: 400}

// Parser converts raw document bytes into the paragraph/run model.
type Parser interface {
	Parse(r io.Reader, filename string) (*docmodel.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DOCXParser{Opts: opts}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

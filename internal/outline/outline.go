// Package outline imports category forests from operator-supplied outline
// documents. Every format maps nesting (heading levels, list nesting,
// indentation, parent columns) to parent/child categories.
package outline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// Parser converts raw outline bytes into a category forest. The forest is
// not validated; callers index it with categorytree.Build.
type Parser interface {
	Parse(r io.Reader, filename string) ([]*categorytree.Node, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".yaml":     true,
	".yml":      true,
	".json":     true,
}

// Options tunes parser construction.
type Options struct {
	// PDFFallbackPdftotext uses the pdftotext binary for PDFs without a
	// bookmark outline.
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	case ".json":
		return &JSONParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

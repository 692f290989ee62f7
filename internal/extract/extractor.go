// Package extract turns raw document sources into a single normalized text
// blob with a source tag, ready for chunking and embedding.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType reports a file extension the extractor cannot parse.
var ErrUnsupportedType = errors.New("unsupported file type")

// Document is one extracted text blob and the label of where it came from.
type Document struct {
	Text   string
	Source string
}

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its content as a Document.
// The source tag is the base filename. Supported formats: PDF, DOCX, XLSX,
// and plain text (.txt, .md). Returns an error if the file cannot be read
// or parsed.
func (e *Extractor) Extract(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext, filepath.Base(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"); source becomes the
// document's source tag.
func (e *Extractor) ExtractBytes(content []byte, ext, source string) (Document, error) {
	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".xlsx":
		text, err = extractExcel(content)
	case ".txt", ".md", "":
		text, err = extractPlain(content)
	default:
		return Document{}, fmt.Errorf("%w %q", ErrUnsupportedType, ext)
	}
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("no text extracted from %s", source)
	}
	return Document{Text: text, Source: source}, nil
}

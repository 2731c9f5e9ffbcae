// Package ingestion extracts plain text from uploaded resume files (TXT and PDF).
package ingestion

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Kind is a supported document type
type Kind string

// Supported document kinds
const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
)

// Document is the text extracted from an upload
type Document struct {
	Text  string
	Kind  Kind
	Pages int
	Hash  string // SHA256 hex digest of Text
}

// UnsupportedTypeError is returned for anything other than TXT or PDF
type UnsupportedTypeError struct {
	MediaType string
	Filename  string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (%s): only PDF/TXT is supported", e.MediaType, e.Filename)
}

// ExtractError is returned when a supported file cannot be read
type ExtractError struct {
	Kind  Kind
	Cause error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Kind, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// DetectKind resolves the document kind from the declared media type,
// falling back to the filename suffix.
func DetectKind(mediaType, filename string) (Kind, error) {
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		switch parsed {
		case "text/plain":
			return KindText, nil
		case "application/pdf":
			return KindPDF, nil
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	}

	return "", &UnsupportedTypeError{MediaType: mediaType, Filename: filename}
}

// Extract returns the trimmed text of an uploaded file.
// Plain text drops invalid UTF-8 bytes; PDF text is the page texts joined by "\n",
// with "" for any page that cannot be read.
func Extract(data []byte, mediaType, filename string) (*Document, error) {
	kind, err := DetectKind(mediaType, filename)
	if err != nil {
		return nil, err
	}

	doc := &Document{Kind: kind}
	switch kind {
	case KindPDF:
		pages, err := pdfPages(data)
		if err != nil {
			return nil, &ExtractError{Kind: kind, Cause: err}
		}
		doc.Pages = len(pages)
		doc.Text = strings.TrimSpace(strings.Join(pages, "\n"))
	default:
		doc.Pages = 1
		doc.Text = strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
	}

	doc.Hash = computeHash(doc.Text)
	return doc, nil
}

// ExtractFile reads a local file and extracts its text by filename suffix
func ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(data, "", filepath.Base(path))
}

func pdfPages(data []byte) (pages []string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, pageText(reader.Page(i)))
	}
	return pages, nil
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

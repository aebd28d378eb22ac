package pdfimport

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when a PDF has no pages or no data.
var ErrEmptyDocument = errors.New("empty pdf document")

// ExtractFile reads a PDF from disk and returns the plain text of each page.
func ExtractFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}
	return ExtractText(data)
}

// ExtractText returns the plain text of each page, in page order. Pages whose
// text cannot be decoded are returned as empty strings.
func ExtractText(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	n := reader.NumPage()
	if n == 0 {
		return nil, ErrEmptyDocument
	}
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

package pdftext

import (
	"fmt"
	"os/exec"
	"strings"
)

// Document exposes the per-page plain text of a paginated statement file.
// Pages are 1-based and returned in reading order. No layout or geometry
// information is available.
type Document interface {
	PageCount() int
	PageText(page int) (string, error)
}

// PDFDocument extracts text from a PDF using pdftotext (poppler-utils).
// The whole file is extracted once; pages are split on the form feed
// pdftotext emits between them.
type PDFDocument struct {
	path  string
	pages []string
}

// Open runs pdftotext over the file and caches per-page text.
func Open(path string) (*PDFDocument, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	return &PDFDocument{path: path, pages: splitPages(string(output))}, nil
}

// splitPages splits extracted text on the form feed pdftotext emits between
// pages, dropping the empty trailer after the final page's form feed.
func splitPages(output string) []string {
	pages := strings.Split(output, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

// PageCount returns the number of pages in the document.
func (d *PDFDocument) PageCount() int {
	return len(d.pages)
}

// PageText returns the plain text of the given 1-based page.
func (d *PDFDocument) PageText(page int) (string, error) {
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, len(d.pages))
	}
	return d.pages[page-1], nil
}

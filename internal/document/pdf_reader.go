package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for files that are neither PDF nor text
var ErrUnsupportedFormat = errors.New("unsupported document format")

// pageSeparator joins the text of consecutive PDF pages
const pageSeparator = "\n\n"

// SupportedExtension reports whether the loader can read files named like path
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// PDFReader loads document text. PDFs go through MuPDF, plain text and
// markdown files are read as they are.
type PDFReader struct {
	logger *zap.Logger
}

// NewPDFReader creates a new text loader
func NewPDFReader(logger *zap.Logger) *PDFReader {
	return &PDFReader{logger: logger}
}

// LoadText returns the full text of the document at path
func (r *PDFReader) LoadText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return r.loadPDF(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (r *PDFReader) loadPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		text, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.String("path", path),
				zap.Int("page", i),
				zap.Error(err))
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	r.logger.Debug("PDF text extracted",
		zap.String("path", path),
		zap.Int("pages", pageCount))

	return strings.Join(pages, pageSeparator), nil
}

// PageCount validates an uploaded PDF and returns its number of pages
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return count, nil
}

// Verify interface compliance
var _ port.TextLoader = (*PDFReader)(nil)

package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor separates the two ways a scanned PDF can carry content:
// embedded text (digital originals) and page images (scans needing OCR).
type PDFProcessor interface {
	// ExtractText pulls the embedded text layer; scans usually yield "".
	ExtractText(pdfData []byte) (string, error)

	// ExtractImageFiles writes the page images to a temp directory and
	// returns the directory plus the image paths in page order. The caller
	// removes the directory when done.
	ExtractImageFiles(pdfData []byte) (string, []string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var textBuilder bytes.Buffer
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

func (p *pdfProcessor) ExtractImageFiles(pdfData []byte) (string, []string, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to extract images: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(tempDir, entry.Name()))
	}
	// pdfcpu names extracted images by page; filename order is page order.
	sort.Strings(paths)

	return tempDir, paths, nil
}

package service

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/docufy/ocr-document-extraction/client"
	"github.com/docufy/ocr-document-extraction/dto"
	"github.com/docufy/ocr-document-extraction/utils"
)

// IDCardService runs the OCR engine on an uploaded ID card scan and parses
// the result into an IdentityRecord.
type IDCardService struct {
	engine       client.OCREngine
	pdfProcessor PDFProcessor
	parser       *utils.IDCardParser
	logger       *slog.Logger
}

func NewIDCardService(engine client.OCREngine, pdfProcessor PDFProcessor, logger *slog.Logger) *IDCardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IDCardService{
		engine:       engine,
		pdfProcessor: pdfProcessor,
		parser:       utils.NewIDCardParser(logger),
		logger:       logger,
	}
}

// RecognizeFile handles both images and PDFs. A multi-page PDF is recognized
// page by page and the highest-confidence record wins: ID scans are commonly
// bundled with unrelated pages.
func (s *IDCardService) RecognizeFile(fileData []byte, mimeType string) (dto.IdentityRecord, error) {
	if strings.Contains(mimeType, "pdf") {
		return s.recognizePDF(fileData)
	}

	imagePath, err := writeTempFile(fileData, mimeExtension(mimeType))
	if err != nil {
		return dto.IdentityRecord{}, err
	}
	defer os.Remove(imagePath)

	return s.recognizeImage(imagePath)
}

func (s *IDCardService) recognizePDF(pdfData []byte) (dto.IdentityRecord, error) {
	tempDir, pagePaths, err := s.pdfProcessor.ExtractImageFiles(pdfData)
	if err != nil {
		return dto.IdentityRecord{}, fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if len(pagePaths) == 0 {
		return dto.IdentityRecord{}, fmt.Errorf("no page images found in PDF")
	}

	var best dto.IdentityRecord
	recognizedAny := false
	for i, pagePath := range pagePaths {
		record, err := s.recognizeImage(pagePath)
		if err != nil {
			s.logger.Warn("page recognition failed", "page", i+1, "error", err)
			continue
		}
		if !recognizedAny || record.Confidence > best.Confidence {
			best = record
			recognizedAny = true
		}
	}

	if !recognizedAny {
		return dto.IdentityRecord{}, fmt.Errorf("recognition failed on all %d PDF pages", len(pagePaths))
	}
	return best, nil
}

// recognizeImage never fails on poor content: an empty OCR result still
// parses into a record with unset fields and zero confidence.
func (s *IDCardService) recognizeImage(imagePath string) (dto.IdentityRecord, error) {
	units, err := s.engine.Recognize(imagePath)
	if err != nil {
		return dto.IdentityRecord{}, fmt.Errorf("OCR recognition failed: %w", err)
	}
	return s.parser.Parse(units), nil
}

func writeTempFile(data []byte, ext string) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := tempFile.Write(data); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tempFile.Name(), nil
}

func mimeExtension(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	default:
		return ".img"
	}
}

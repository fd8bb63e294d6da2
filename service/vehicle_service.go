package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docufy/ocr-document-extraction/client"
	"github.com/docufy/ocr-document-extraction/dto"
	"github.com/docufy/ocr-document-extraction/utils"
)

// minClassificationConfidence gates both the filename-classifier override and
// the deduplicator: records below it are too uncertain to merge away.
const minClassificationConfidence = 0.3

// filenameOverrideConfidence is assigned when the filename hint replaces an
// uncertain text classification.
const filenameOverrideConfidence = 0.5

// minEmbeddedTextLength decides whether a PDF's text layer is real content or
// just scanner noise; below it the pages are rasterized and OCR'd instead.
const minEmbeddedTextLength = 50

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".bmp": true, ".tiff": true, ".tif": true,
}

// VehicleService processes vehicle document scans: OCR, classification,
// field extraction, duplicate-page removal, and cross-document merge.
type VehicleService struct {
	engine       client.OCREngine
	pdfProcessor PDFProcessor
	classifier   *utils.Classifier
	parser       *utils.VehicleParser
	qrDecoder    *InvoiceQRDecoder
	logger       *slog.Logger
}

func NewVehicleService(
	engine client.OCREngine,
	pdfProcessor PDFProcessor,
	classifier *utils.Classifier,
	logger *slog.Logger,
) *VehicleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VehicleService{
		engine:       engine,
		pdfProcessor: pdfProcessor,
		classifier:   classifier,
		parser:       utils.NewVehicleParser(logger),
		qrDecoder:    NewInvoiceQRDecoder(logger),
		logger:       logger,
	}
}

// ArchiveResult is one logical archive (a folder of scans for one vehicle):
// its deduplicated documents and the merged per-field summary.
type ArchiveResult struct {
	ArchiveName string
	Documents   []dto.DocumentRecord
	Merged      dto.VehicleInfo
}

// ProcessFile recognizes, classifies, and extracts a single document. It is
// total: any collaborator failure degrades to an unknown-type record instead
// of propagating.
func (s *VehicleService) ProcessFile(filePath string) dto.DocumentRecord {
	filenameType := s.classifier.ClassifyByFilename(filepath.Base(filePath))

	ocrText, imagePath, cleanup, err := s.readDocumentText(filePath)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		s.logger.Warn("document processing failed", "file", filePath, "error", err)
		return dto.DocumentRecord{
			FilePath:    filePath,
			DocType:     dto.DocTypeUnknown,
			Confidence:  0,
			VehicleInfo: dto.VehicleInfo{},
		}
	}

	docType, confidence := s.classifier.Classify(ocrText)
	if confidence < minClassificationConfidence && filenameType != dto.DocTypeUnknown {
		docType = filenameType
		confidence = filenameOverrideConfidence
	}

	info := s.parser.ExtractFromText(ocrText, docType)

	// Invoices carry their amount in a QR code too; use it when the text
	// cascade found nothing.
	if docType == dto.DocTypeInvoice && info.InvoiceAmount == "" && imagePath != "" {
		if amount, err := s.qrDecoder.DecodeAmount(imagePath); err == nil {
			info.InvoiceAmount = amount
		} else {
			s.logger.Debug("invoice QR fallback failed", "file", filePath, "error", err)
		}
	}

	s.logger.Info("processed document",
		"file", filepath.Base(filePath),
		"doc_type", string(docType),
		"confidence", confidence,
		"vin", info.VIN)

	return dto.DocumentRecord{
		FilePath:    filePath,
		DocType:     docType,
		Confidence:  confidence,
		OCRText:     ocrText,
		VehicleInfo: info,
	}
}

// readDocumentText produces the OCR text for one file. For PDFs the embedded
// text layer is preferred; scans fall back to rasterizing and OCR'ing the
// first page. imagePath points at the recognized image when one exists.
func (s *VehicleService) readDocumentText(filePath string) (text, imagePath string, cleanup func(), err error) {
	if strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		pdfData, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to read PDF: %w", err)
		}

		if embedded, err := s.pdfProcessor.ExtractText(pdfData); err == nil {
			if len(strings.TrimSpace(embedded)) >= minEmbeddedTextLength {
				return embedded, "", nil, nil
			}
		}

		tempDir, pagePaths, err := s.pdfProcessor.ExtractImageFiles(pdfData)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to rasterize PDF: %w", err)
		}
		cleanup = func() { os.RemoveAll(tempDir) }
		if len(pagePaths) == 0 {
			// Tolerated: an empty OCR result is a defined input.
			return "", "", cleanup, nil
		}

		units, err := s.engine.Recognize(pagePaths[0])
		if err != nil {
			return "", "", cleanup, fmt.Errorf("OCR recognition failed: %w", err)
		}
		return dto.JoinUnitText(units, "\n"), pagePaths[0], cleanup, nil
	}

	units, err := s.engine.Recognize(filePath)
	if err != nil {
		return "", "", nil, fmt.Errorf("OCR recognition failed: %w", err)
	}
	return dto.JoinUnitText(units, "\n"), filePath, nil, nil
}

// ProcessFolder processes every image/PDF directly inside dir (sorted by
// filename, which approximates physical page order), removes duplicate pages
// and merges the survivors into one summary.
func (s *VehicleService) ProcessFolder(dir, archiveName string) (ArchiveResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to read folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] || ext == ".pdf" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	documents := make([]dto.DocumentRecord, 0, len(files))
	for _, file := range files {
		documents = append(documents, s.ProcessFile(file))
	}

	documents = MergeDuplicates(documents)

	infos := make([]dto.VehicleInfo, 0, len(documents))
	for _, doc := range documents {
		infos = append(infos, doc.VehicleInfo)
	}

	return ArchiveResult{
		ArchiveName: archiveName,
		Documents:   documents,
		Merged:      dto.MergeVehicleInfo(infos...),
	}, nil
}

// MergeDuplicates collapses consecutive scans of the same physical document.
// It walks the filename-ordered sequence tracking the type and VIN of the
// last kept record: a repeat of the same type is a duplicate when both VINs
// are present and similar, or both absent (a cover-page repeat). Transfer
// pages are single-instance per archive, so a repeated one is always dropped.
// Unknown or low-confidence records are always kept and reset the state.
func MergeDuplicates(documents []dto.DocumentRecord) []dto.DocumentRecord {
	if len(documents) == 0 {
		return documents
	}

	merged := make([]dto.DocumentRecord, 0, len(documents))
	var currentType dto.DocType
	var currentVIN string

	for _, doc := range documents {
		if doc.DocType == dto.DocTypeUnknown || doc.Confidence < minClassificationConfidence {
			merged = append(merged, doc)
			currentType = ""
			currentVIN = ""
			continue
		}

		isDuplicate := false
		if currentType == doc.DocType {
			switch doc.DocType {
			case dto.DocTypeRegistration, dto.DocTypeLicense:
				docVIN := doc.VehicleInfo.VIN
				if docVIN != "" && currentVIN != "" {
					isDuplicate = vinsSimilar(docVIN, currentVIN, 2)
				} else if docVIN == "" && currentVIN == "" {
					isDuplicate = true
				}
			case dto.DocTypeRegistrationTransfer:
				isDuplicate = true
			}
		}

		if !isDuplicate {
			merged = append(merged, doc)
			currentType = doc.DocType
			currentVIN = doc.VehicleInfo.VIN
		}
	}

	return merged
}

// vinsSimilar tolerates a couple of OCR misreads between two VINs of equal
// length (Hamming distance ≤ maxDiff).
func vinsSimilar(vin1, vin2 string, maxDiff int) bool {
	if vin1 == "" || vin2 == "" || len(vin1) != len(vin2) {
		return false
	}

	diff := 0
	for i := 0; i < len(vin1); i++ {
		if vin1[i] != vin2[i] {
			diff++
		}
	}
	return diff <= maxDiff
}

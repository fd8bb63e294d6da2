package client

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/docufy/ocr-document-extraction/dto"
)

// TesseractClient runs OCR through a local Tesseract installation.
type TesseractClient struct {
	tessdataPrefix string
	languages      []string
}

// NewTesseractClient creates a Tesseract-backed engine. languages defaults to
// Simplified Chinese + English, which both supported document families need.
func NewTesseractClient(tessdataPrefix string, languages []string) *TesseractClient {
	if len(languages) == 0 {
		languages = []string{"chi_sim", "eng"}
	}
	return &TesseractClient{
		tessdataPrefix: tessdataPrefix,
		languages:      languages,
	}
}

func (tc *TesseractClient) Name() string { return "tesseract" }

// Recognize extracts per-line OCR units with confidences and boxes.
func (tc *TesseractClient) Recognize(imagePath string) ([]dto.OCRUnit, error) {
	c := gosseract.NewClient()
	defer c.Close()

	if tc.tessdataPrefix != "" {
		c.SetTessdataPrefix(tc.tessdataPrefix)
	}
	if err := c.SetLanguage(tc.languages...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// No line geometry available; fall back to the flat text result.
		text, textErr := c.Text()
		if textErr != nil {
			return nil, fmt.Errorf("OCR extraction failed: %w", textErr)
		}
		if text == "" {
			return nil, nil
		}
		return []dto.OCRUnit{{Text: text, Confidence: 0}}, nil
	}

	units := make([]dto.OCRUnit, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		units = append(units, dto.OCRUnit{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Box:        rectToQuad(box.Box),
		})
	}
	return units, nil
}

func (tc *TesseractClient) Close() error { return nil }

// rectToQuad converts Tesseract's axis-aligned rectangle to the quadrilateral
// shape the OCR result model uses (clockwise from top-left).
func rectToQuad(r image.Rectangle) [][2]int {
	return [][2]int{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}

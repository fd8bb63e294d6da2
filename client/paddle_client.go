package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/docufy/ocr-document-extraction/dto"
)

// PaddleClient talks to a PaddleOCR serving instance over its REST API.
// PaddleOCR handles Simplified Chinese noticeably better than Tesseract, so
// it is the default engine for both document families.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a client for the PaddleOCR HTTP API.
func NewPaddleClient(apiURL string) *PaddleClient {
	if apiURL == "" {
		apiURL = "http://paddleocr:8866/predict/ocr_system"
	}
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *PaddleClient) Name() string { return "paddleocr" }

// paddleResponse mirrors the serving API's shape: one result list per
// submitted image, each entry a text region with confidence and box.
type paddleResponse struct {
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		TextRegion [][]int `json:"text_region"`
	} `json:"results"`
}

// Recognize sends the image to the PaddleOCR API and converts the response
// into OCR units.
func (p *PaddleClient) Recognize(imagePath string) ([]dto.OCRUnit, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	payload := map[string]interface{}{
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := p.httpClient.Post(p.apiURL, "application/json", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}

	units := make([]dto.OCRUnit, 0, len(result.Results[0]))
	for _, line := range result.Results[0] {
		unit := dto.OCRUnit{
			Text:       line.Text,
			Confidence: line.Confidence,
		}
		if len(line.TextRegion) == 4 {
			box := make([][2]int, 4)
			for i, point := range line.TextRegion {
				if len(point) == 2 {
					box[i] = [2]int{point[0], point[1]}
				}
			}
			unit.Box = box
		}
		units = append(units, unit)
	}
	return units, nil
}

func (p *PaddleClient) Close() error { return nil }

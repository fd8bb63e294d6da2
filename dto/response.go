package dto

import "errors"

// Custom errors
var (
	ErrNoFilesUploaded = errors.New("at least one file is required")
	ErrUnknownEngine   = errors.New("unknown OCR engine")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// IDCardResponse is returned by the ID card recognition endpoint.
type IDCardResponse struct {
	Record  IdentityRecord `json:"record"`
	Display []DisplayField `json:"display"`
}

// VehicleExtractResponse is returned for a single vehicle document.
type VehicleExtractResponse struct {
	Document DocumentRecord `json:"document"`
}

// VehicleBatchResponse is returned for one logical archive (a set of scanned
// pages): the deduplicated per-document records plus the merged summary.
type VehicleBatchResponse struct {
	Documents   []DocumentRecord `json:"documents"`
	Merged      VehicleInfo      `json:"merged"`
	ProcessedAt string           `json:"processed_at"`
}

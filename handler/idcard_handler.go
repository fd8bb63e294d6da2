package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docufy/ocr-document-extraction/dto"
	"github.com/docufy/ocr-document-extraction/service"
)

// IDCardHandler handles ID card recognition requests
type IDCardHandler struct {
	idCardService *service.IDCardService
	logger        *slog.Logger
}

// NewIDCardHandler creates a new IDCardHandler instance
func NewIDCardHandler(idCardService *service.IDCardService, logger *slog.Logger) *IDCardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IDCardHandler{
		idCardService: idCardService,
		logger:        logger,
	}
}

// RecognizeIDCard handles the POST /idcard/recognize endpoint
func (h *IDCardHandler) RecognizeIDCard(c *gin.Context) {
	h.logger.Info("received ID card recognition request")

	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A file is required", err)
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = inferMimeType(file.Filename)
	}
	if !isValidMimeType(mimeType) {
		h.sendError(c, http.StatusBadRequest, "Invalid file type. Supported: PDF, PNG, JPEG", nil)
		return
	}

	reader, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read file data", err)
		return
	}

	record, err := h.idCardService.RecognizeFile(fileData, mimeType)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to recognize ID card", err)
		return
	}

	h.logger.Info("ID card recognition completed",
		"file", file.Filename,
		"side", record.Side,
		"confidence", record.Confidence)

	c.JSON(http.StatusOK, dto.IDCardResponse{
		Record:  record,
		Display: record.DisplayFields(),
	})
}

// sendError sends a structured error response
func (h *IDCardHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.logger.Error(message, "error", err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "IDCARD_RECOGNITION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

// isValidMimeType checks if the MIME type is supported
func isValidMimeType(mimeType string) bool {
	validTypes := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
		"image/jpg",
	}

	mimeType = strings.ToLower(mimeType)
	for _, valid := range validTypes {
		if strings.Contains(mimeType, valid) {
			return true
		}
	}
	return false
}

// inferMimeType infers MIME type from file extension
func inferMimeType(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".pdf") {
		return "application/pdf"
	} else if strings.HasSuffix(lower, ".png") {
		return "image/png"
	} else if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	return ""
}

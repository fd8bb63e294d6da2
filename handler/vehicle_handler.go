package handler

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docufy/ocr-document-extraction/dto"
	"github.com/docufy/ocr-document-extraction/service"
)

// VehicleHandler handles vehicle document extraction requests
type VehicleHandler struct {
	vehicleService *service.VehicleService
	exportService  *service.ExportService
	logger         *slog.Logger
}

// NewVehicleHandler creates a new VehicleHandler instance
func NewVehicleHandler(vehicleService *service.VehicleService, exportService *service.ExportService, logger *slog.Logger) *VehicleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VehicleHandler{
		vehicleService: vehicleService,
		exportService:  exportService,
		logger:         logger,
	}
}

// ExtractVehicle handles the POST /vehicle/extract endpoint
func (h *VehicleHandler) ExtractVehicle(c *gin.Context) {
	h.logger.Info("received vehicle extraction request")

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

	tempDir, err := os.MkdirTemp("", "vehicle_extract")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to create working directory", err)
		return
	}
	defer os.RemoveAll(tempDir)

	savedPath, err := h.saveUpload(c, file, tempDir)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to save uploaded file", err)
		return
	}

	document := h.vehicleService.ProcessFile(savedPath)
	document.FilePath = file.Filename

	h.logger.Info("vehicle extraction completed",
		"file", file.Filename,
		"doc_type", string(document.DocType))

	c.JSON(http.StatusOK, dto.VehicleExtractResponse{Document: document})
}

// ExtractVehicleBatch handles the POST /vehicle/batch endpoint. All uploaded
// files are treated as one archive: pages are processed in filename order,
// duplicates collapse, and the survivors merge into one summary. With
// ?export=xlsx the response is a downloadable workbook instead of JSON.
func (h *VehicleHandler) ExtractVehicleBatch(c *gin.Context) {
	h.logger.Info("received vehicle batch request")

	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		h.sendError(c, http.StatusBadRequest, dto.ErrNoFilesUploaded.Error(), nil)
		return
	}

	for _, file := range files {
		mimeType := file.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = inferMimeType(file.Filename)
		}
		if !isValidMimeType(mimeType) {
			h.sendError(c, http.StatusBadRequest,
				fmt.Sprintf("Invalid file type for %s. Supported: PDF, PNG, JPEG", file.Filename), nil)
			return
		}
	}

	tempDir, err := os.MkdirTemp("", "vehicle_batch")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to create working directory", err)
		return
	}
	defer os.RemoveAll(tempDir)

	for _, file := range files {
		if _, err := h.saveUpload(c, file, tempDir); err != nil {
			h.sendError(c, http.StatusInternalServerError, "Failed to save uploaded file", err)
			return
		}
	}

	archiveName := c.PostForm("archive_name")
	result, err := h.vehicleService.ProcessFolder(tempDir, archiveName)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to process documents", err)
		return
	}

	if c.Query("export") == "xlsx" {
		workbook, err := h.exportService.ExportArchives([]service.ArchiveResult{result})
		if err != nil {
			h.sendError(c, http.StatusInternalServerError, "Failed to export workbook", err)
			return
		}

		filename := "vehicle_extraction.xlsx"
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			workbook)
		return
	}

	h.logger.Info("vehicle batch completed",
		"uploaded", len(files),
		"kept", len(result.Documents))

	c.JSON(http.StatusOK, dto.VehicleBatchResponse{
		Documents:   result.Documents,
		Merged:      result.Merged,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// saveUpload writes one multipart file into dir under its original base name
// so the filename classifier and page ordering still see the client's names.
func (h *VehicleHandler) saveUpload(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", file.Filename, err)
	}
	return dst, nil
}

// sendError sends a structured error response
func (h *VehicleHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.logger.Error(message, "error", err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "VEHICLE_EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

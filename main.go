package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/docufy/ocr-document-extraction/client"
	"github.com/docufy/ocr-document-extraction/config"
	"github.com/docufy/ocr-document-extraction/handler"
	"github.com/docufy/ocr-document-extraction/service"
	"github.com/docufy/ocr-document-extraction/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize configuration
	cfg := config.LoadConfig()

	// Tesseract v5 finds its language data through this variable.
	os.Setenv("TESSDATA_PREFIX", cfg.TessdataPrefix)

	// Initialize the OCR engine
	engine, err := client.NewEngine(cfg.OCREngine, cfg)
	if err != nil {
		logger.Error("failed to initialize OCR engine", "engine", cfg.OCREngine, "error", err)
		os.Exit(1)
	}
	defer engine.Close()
	logger.Info("OCR engine initialized", "engine", engine.Name())

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	classifier := utils.NewClassifier(cfg.ClassifierWeakSignal)
	idCardService := service.NewIDCardService(engine, pdfProcessor, logger)
	vehicleService := service.NewVehicleService(engine, pdfProcessor, classifier, logger)
	exportService := service.NewExportService(logger)

	// Initialize handler layer
	idCardHandler := handler.NewIDCardHandler(idCardService, logger)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, exportService, logger)

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "OCR Document Extraction",
			"engine":  engine.Name(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		idcard := api.Group("/idcard")
		{
			idcard.POST("/recognize", idCardHandler.RecognizeIDCard)
		}

		vehicle := api.Group("/vehicle")
		{
			vehicle.POST("/extract", vehicleHandler.ExtractVehicle)
			vehicle.POST("/batch", vehicleHandler.ExtractVehicleBatch)
		}
	}

	// Start server
	logger.Info("starting OCR Document Extraction service", "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServerPort string

	// OCR engine selection
	OCREngine          string
	TessdataPrefix     string
	TesseractLanguages []string
	PaddleAPIURL       string

	// Classifier tuning
	ClassifierWeakSignal float64

	MaxFileSize int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	engine := os.Getenv("OCR_ENGINE")
	if engine == "" {
		engine = "paddleocr"
	}

	tessdataPrefix := os.Getenv("TESSDATA_PREFIX")
	if tessdataPrefix == "" {
		tessdataPrefix = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	languages := []string{"chi_sim", "eng"}
	if env := os.Getenv("TESSERACT_LANGUAGES"); env != "" {
		languages = strings.Split(env, ",")
	}

	return &Config{
		ServerPort:           serverPort,
		OCREngine:            engine,
		TessdataPrefix:       tessdataPrefix,
		TesseractLanguages:   languages,
		PaddleAPIURL:         os.Getenv("PADDLEOCR_API_URL"),
		ClassifierWeakSignal: envFloat("CLASSIFIER_WEAK_SIGNAL", 0.5),
		MaxFileSize:          32 * 1024 * 1024, // 32 MB
	}
}

func envFloat(key string, fallback float64) float64 {
	if env := os.Getenv(key); env != "" {
		if v, err := strconv.ParseFloat(env, 64); err == nil {
			return v
		}
	}
	return fallback
}

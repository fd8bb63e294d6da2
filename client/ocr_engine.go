package client

import (
	"fmt"
	"sort"

	"github.com/docufy/ocr-document-extraction/config"
	"github.com/docufy/ocr-document-extraction/dto"
)

// OCREngine is the single call shape every recognition backend implements.
// The extraction core depends only on this interface, never on a concrete
// engine.
type OCREngine interface {
	// Recognize runs OCR on the image file and returns the detected text
	// fragments in engine output order.
	Recognize(imagePath string) ([]dto.OCRUnit, error)

	// Name returns the registry name of the engine.
	Name() string

	// Close releases engine resources.
	Close() error
}

type engineFactory func(cfg *config.Config) (OCREngine, error)

// engineRegistry maps engine names to constructors.
var engineRegistry = map[string]engineFactory{
	"tesseract": func(cfg *config.Config) (OCREngine, error) {
		return NewTesseractClient(cfg.TessdataPrefix, cfg.TesseractLanguages), nil
	},
	"paddleocr": func(cfg *config.Config) (OCREngine, error) {
		return NewPaddleClient(cfg.PaddleAPIURL), nil
	},
}

// NewEngine builds the named OCR engine from config.
func NewEngine(name string, cfg *config.Config) (OCREngine, error) {
	factory, ok := engineRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dto.ErrUnknownEngine, name, ListEngines())
	}
	return factory(cfg)
}

// ListEngines returns the registered engine names, sorted.
func ListEngines() []string {
	names := make([]string, 0, len(engineRegistry))
	for name := range engineRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

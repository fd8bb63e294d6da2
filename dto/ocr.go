package dto

import "strings"

// OCRUnit is one text fragment detected by an OCR engine.
// Box holds the quadrilateral of the detected region as four [x,y] points;
// it is nil when the engine does not report geometry. Units keep the engine's
// output order, which is not guaranteed to be reading order.
type OCRUnit struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Box        [][2]int `json:"box,omitempty"`
}

// UnitTexts returns the text of each unit, in engine output order.
func UnitTexts(units []OCRUnit) []string {
	texts := make([]string, 0, len(units))
	for _, u := range units {
		texts = append(texts, u.Text)
	}
	return texts
}

// JoinUnitText concatenates unit texts with the given separator.
func JoinUnitText(units []OCRUnit, sep string) string {
	return strings.Join(UnitTexts(units), sep)
}

// MeanConfidence averages unit confidences; an empty slice yields 0.
func MeanConfidence(units []OCRUnit) float64 {
	if len(units) == 0 {
		return 0
	}
	var total float64
	for _, u := range units {
		total += u.Confidence
	}
	return total / float64(len(units))
}

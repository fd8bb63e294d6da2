package utils

import (
	"strings"

	"github.com/docufy/ocr-document-extraction/dto"
)

// DefaultWeakSignalWeight is the score added per keyword whose characters
// merely co-occur in the text. Weak enough that a single full keyword match
// (+2) always dominates, but worth tuning: common CJK characters can inflate
// it on short keywords.
const DefaultWeakSignalWeight = 0.5

// docTypeKeywords maps each document type to its identifying phrases.
var docTypeKeywords = map[dto.DocType][]string{
	dto.DocTypeRegistration:         {"注册登记", "机动车登记证书"},
	dto.DocTypeRegistrationTransfer: {"登记栏", "转移登记"},
	dto.DocTypeInvoice:              {"发票", "机动车销售统一发票", "增值税发票", "购车发票"},
	dto.DocTypeLicense:              {"行驶证", "机动车行驶证", "行驶证正页"},
}

// docTypeOrder fixes the tie-break order when several types score equally.
var docTypeOrder = []dto.DocType{
	dto.DocTypeRegistrationTransfer,
	dto.DocTypeRegistration,
	dto.DocTypeInvoice,
	dto.DocTypeLicense,
}

// Classifier infers a vehicle document type from noisy OCR text.
type Classifier struct {
	weakSignalWeight float64
}

func NewClassifier(weakSignalWeight float64) *Classifier {
	if weakSignalWeight <= 0 {
		weakSignalWeight = DefaultWeakSignalWeight
	}
	return &Classifier{weakSignalWeight: weakSignalWeight}
}

// Classify scores the text against each document type's keyword set and
// returns the winner with a confidence normalized to [0,1]. The registration
// certificate's final page (登记栏/转移登记) outranks its front page: both
// phrases often appear on the same scan and the transfer page is the one
// carrying the new owner.
func (c *Classifier) Classify(text string) (dto.DocType, float64) {
	scores := make(map[dto.DocType]float64)

	if strings.Contains(text, "登记栏") {
		scores[dto.DocTypeRegistrationTransfer] = 4
	} else if strings.Contains(text, "转移登记") || strings.Contains(text, "现机动车所有人") {
		scores[dto.DocTypeRegistrationTransfer] = 3
	}

	if _, scored := scores[dto.DocTypeRegistrationTransfer]; !scored {
		if strings.Contains(text, "注册登记") {
			scores[dto.DocTypeRegistration] = 4
		} else if strings.Contains(text, "机动车登记证书") {
			scores[dto.DocTypeRegistration] = 3
		}
	}

	for docType, keywords := range docTypeKeywords {
		if _, scored := scores[docType]; scored {
			continue
		}
		score := 0.0
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				score += 2
			} else if containsAnyChar(text, keyword) {
				score += c.weakSignalWeight
			}
		}
		if score > 0 {
			scores[docType] = score
		}
	}

	best := dto.DocTypeUnknown
	bestScore := 0.0
	for _, docType := range docTypeOrder {
		if score, ok := scores[docType]; ok && score > bestScore {
			best = docType
			bestScore = score
		}
	}
	if bestScore == 0 {
		return dto.DocTypeUnknown, 0.0
	}

	confidence := bestScore / 4.0
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence
}

// filenameHints map filename substrings to a type; used only as an override
// when text classification is too uncertain.
var filenameHints = []struct {
	docType    dto.DocType
	substrings []string
}{
	{dto.DocTypeRegistrationTransfer, []string{"登记栏", "登记尾", "transfer"}},
	{dto.DocTypeRegistration, []string{"登记", "registration", "djz"}},
	{dto.DocTypeInvoice, []string{"发票", "invoice", "fp"}},
	{dto.DocTypeLicense, []string{"行驶", "license", "xsz"}},
}

// ClassifyByFilename guesses the type from the filename. Returns
// DocTypeUnknown when no hint matches.
func (c *Classifier) ClassifyByFilename(filename string) dto.DocType {
	lower := strings.ToLower(filename)
	for _, hint := range filenameHints {
		for _, sub := range hint.substrings {
			if strings.Contains(lower, sub) {
				return hint.docType
			}
		}
	}
	return dto.DocTypeUnknown
}

// containsAnyChar reports whether any single character of the keyword occurs
// in the text. A deliberately weak signal for OCR output that shredded the
// keyword into fragments.
func containsAnyChar(text, keyword string) bool {
	for _, r := range keyword {
		if strings.ContainsRune(text, r) {
			return true
		}
	}
	return false
}

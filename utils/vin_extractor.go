package utils

import (
	"regexp"
	"strings"
)

// vinStrictPattern matches the VIN alphabet: 17 characters, no I/O/Q.
var vinStrictPattern = regexp.MustCompile(`[A-HJ-NPR-Z0-9]{17}`)

// vinLoosePattern admits I/O/Q so OCR-corrupted candidates can be corrected.
var vinLoosePattern = regexp.MustCompile(`[A-Z0-9]{17}`)

var vinExactPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// vinKeywords anchor the most reliable search tier, most specific first.
var vinKeywords = []string{
	"9.车辆识别代号/车架号",
	"车辆识别代号/车架号码",
	"车辆识别代号",
	"车架号码",
	"车架号",
	"VIN",
	"识别代号",
	"识别代码",
}

// preferredWMIPrefixes are manufacturer codes seen in the processed archives;
// they break ties when the text yields several plausible VINs.
var preferredWMIPrefixes = []string{"LSV", "WVW", "LFV", "LDC", "LHG", "LVS"}

var vinKeywordPatterns = buildVINKeywordPatterns()

func buildVINKeywordPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(vinKeywords))
	for _, kw := range vinKeywords {
		patterns = append(patterns,
			regexp.MustCompile(`(?i)`+regexp.QuoteMeta(kw)+`[:：\s/]*([A-Z0-9]{17})`))
	}
	return patterns
}

// ExtractVIN finds a 17-character vehicle identification number in OCR text,
// correcting the I/O/Q characters OCR engines commonly misread. Three tiers
// are tried in order: keyword-anchored match, direct full-text match against
// the strict VIN alphabet, and a loose match followed by correction. Returns
// "" when no tier produces a valid VIN.
func ExtractVIN(text string) string {
	// Newlines become spaces rather than vanishing, so fragments from
	// adjacent lines cannot fuse into a false 17-character run.
	clean := strings.ReplaceAll(text, "\n", " ")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.Join(strings.Fields(clean), " ")

	// Tier 1: a labeled VIN is the most trustworthy.
	for _, pattern := range vinKeywordPatterns {
		m := pattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		candidate := strings.ToUpper(m[1])
		if strings.ContainsAny(candidate, "IOQ") {
			if corrected := CorrectVINOCRErrors(candidate); corrected != "" && IsValidVINFormat(corrected) {
				return corrected
			}
		} else if IsValidVINFormat(candidate) {
			return candidate
		}
	}

	// Tier 2: bare strict-alphabet runs anywhere in the text.
	var validMatches []string
	for _, m := range vinStrictPattern.FindAllString(clean, -1) {
		if IsValidVINFormat(m) {
			validMatches = append(validMatches, m)
		}
	}
	if len(validMatches) > 0 {
		for _, m := range validMatches {
			if hasPreferredWMI(m) {
				return m
			}
		}
		return validMatches[0]
	}

	// Tier 3: loose runs that become valid once I/O/Q are substituted.
	var corrections []string
	for _, m := range vinLoosePattern.FindAllString(clean, -1) {
		if !IsValidVINFormat(m) {
			continue
		}
		corrected := CorrectVINOCRErrors(m)
		if corrected != "" && !strings.ContainsAny(corrected, "IOQ") {
			corrections = append(corrections, corrected)
		}
	}
	if len(corrections) > 0 {
		for _, c := range corrections {
			if hasPreferredWMI(c) {
				return c
			}
		}
		return corrections[0]
	}

	return ""
}

// IsValidVINFormat applies shape heuristics that separate real VINs from
// invoice numbers, phone numbers and unified social credit codes (which are
// 18 alphanumerics, so a one-character OCR drop leaves a 17-character look-alike).
func IsValidVINFormat(vin string) bool {
	if len(vin) != 17 {
		return false
	}

	letters, digits := 0, 0
	for i := 0; i < len(vin); i++ {
		c := vin[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letters++
		case c >= '0' && c <= '9':
			digits++
		}
	}

	if letters == 0 {
		return false
	}
	// WMIs start with a letter in practice; digit-leading 17-character runs
	// are almost always truncated social credit codes.
	if vin[0] >= '0' && vin[0] <= '9' {
		return false
	}
	if !containsLetter(vin[:3]) {
		return false
	}
	if letters < 3 || digits < 3 {
		return false
	}
	if (strings.HasPrefix(vin, "91") || strings.HasPrefix(vin, "92")) && allDigits(vin[2:6]) {
		return false
	}

	return true
}

// CorrectVINOCRErrors substitutes the characters the VIN alphabet forbids
// with their usual OCR misreads reversed: I→1, O→0, Q→0. Returns "" when the
// input is not 17 characters or the substituted form still fails the strict
// alphabet.
func CorrectVINOCRErrors(vin string) string {
	if len(vin) != 17 {
		return ""
	}

	corrected := []byte(vin)
	for i, c := range corrected {
		switch c {
		case 'I':
			corrected[i] = '1'
		case 'O', 'Q':
			corrected[i] = '0'
		}
	}

	result := string(corrected)
	if !vinExactPattern.MatchString(result) {
		return ""
	}
	return result
}

func hasPreferredWMI(vin string) bool {
	for _, prefix := range preferredWMIPrefixes {
		if strings.HasPrefix(vin, prefix) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

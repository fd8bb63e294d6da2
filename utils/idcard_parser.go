package utils

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docufy/ocr-document-extraction/dto"
)

// idNumberPattern matches an 18-character citizen ID number anywhere in text.
var idNumberPattern = regexp.MustCompile(
	`[1-9]\d{5}(18|19|20)\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])\d{3}[0-9Xx]`,
)

// idNumberExactPattern matches a complete ID number, nothing more.
var idNumberExactPattern = regexp.MustCompile(
	`^[1-9]\d{5}(18|19|20)\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])\d{3}[0-9Xx]$`,
)

// cnDatePattern matches dates like 1990年01月01日, tolerating stray spaces.
var cnDatePattern = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)

// validPeriodPattern matches validity ranges like 2015.01.01-2035.01.01 or
// 2015年01月01日至长期, with ./-/年月 separators.
var validPeriodPattern = regexp.MustCompile(
	`(\d{4}[.\-年]\d{2}[.\-月]\d{2}日?)\s*[-—至]\s*(\d{4}[.\-年]\d{2}[.\-月]\d{2}日?|长期)`,
)

// The 56 recognized ethnicity names. Order matters: longer names sharing a
// prefix with shorter ones (土家 before 土) must come first so the alternation
// picks the longer form.
var ethnicities = []string{
	"汉", "蒙古", "回", "藏", "维吾尔", "苗", "彝", "壮", "布依", "朝鲜",
	"满", "侗", "瑶", "白", "土家", "哈尼", "哈萨克", "傣", "黎", "傈僳",
	"佤", "畲", "高山", "拉祜", "水", "东乡", "纳西", "景颇", "柯尔克孜",
	"土", "达斡尔", "仫佬", "羌", "布朗", "撒拉", "毛南", "仡佬", "锡伯",
	"阿昌", "普米", "塔吉克", "怒", "乌孜别克", "俄罗斯", "鄂温克", "德昂",
	"保安", "裕固", "京", "塔塔尔", "独龙", "鄂伦春", "赫哲", "门巴",
	"珞巴", "基诺",
}

var ethnicityPattern = regexp.MustCompile("(" + strings.Join(ethnicities, "|") + ")族?")

var (
	backSideKeywords  = []string{"签发机关", "有效期", "中华人民共和国", "居民身份证"}
	frontSideKeywords = []string{"姓名", "性别", "民族", "住址", "公民身份号码"}

	// Field labels that must never be mistaken for a name.
	nameStopWords = []string{"姓名", "性别", "民族", "住址", "出生"}

	// Components an address line is expected to contain.
	addressKeywords = []string{"省", "市", "县", "区", "镇", "乡", "村", "路", "街", "号", "幢", "室"}
)

// ID number checksum per GB 11643: weighted sum of the first 17 digits,
// mod 11, mapped through the check-code table.
var (
	idChecksumWeights = []int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}
	idCheckCodes      = "10X98765432"
)

// IDCardParser turns OCR units from an ID card scan into an IdentityRecord.
// Parsing is total: malformed input yields a record with unset fields.
type IDCardParser struct {
	logger *slog.Logger
}

func NewIDCardParser(logger *slog.Logger) *IDCardParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &IDCardParser{logger: logger}
}

// Parse extracts structured identity fields from the OCR units of one image.
func (p *IDCardParser) Parse(units []dto.OCRUnit) dto.IdentityRecord {
	texts := dto.UnitTexts(units)
	fullText := strings.Join(texts, " ")

	record := dto.IdentityRecord{
		Side:       p.detectSide(texts),
		Confidence: dto.MeanConfidence(units),
		RawText:    texts,
	}

	if record.Side == dto.SideFront {
		p.parseFront(texts, fullText, &record)
	} else {
		p.parseBack(texts, fullText, &record)
	}

	p.logger.Debug("parsed id card",
		"side", record.Side,
		"units", len(units),
		"confidence", record.Confidence)

	return record
}

// detectSide scores front against back keywords; the presence of an ID number
// counts double for the front. A tie favors the front.
func (p *IDCardParser) detectSide(texts []string) string {
	joined := strings.Join(texts, "")

	backScore := 0
	for _, kw := range backSideKeywords {
		if strings.Contains(joined, kw) {
			backScore++
		}
	}
	frontScore := 0
	for _, kw := range frontSideKeywords {
		if strings.Contains(joined, kw) {
			frontScore++
		}
	}

	if idNumberPattern.MatchString(joined) {
		frontScore += 2
	}

	if frontScore >= backScore {
		return dto.SideFront
	}
	return dto.SideBack
}

func (p *IDCardParser) parseFront(texts []string, fullText string, record *dto.IdentityRecord) {
	compact := removeWhitespace(fullText)

	if id := idNumberPattern.FindString(compact); id != "" {
		record.IDNumber = strings.ToUpper(id)
		// Birth date and gender are encoded in the number itself.
		record.BirthDate = record.IDNumber[6:10] + "年" + record.IDNumber[10:12] + "月" + record.IDNumber[12:14] + "日"
		if (record.IDNumber[16]-'0')%2 == 1 {
			record.Gender = "男"
		} else {
			record.Gender = "女"
		}
	}

	record.Name = extractCardName(texts)

	if m := ethnicityPattern.FindString(fullText); m != "" {
		if !strings.HasSuffix(m, "族") {
			m += "族"
		}
		record.Ethnicity = m
	}

	record.Address = extractCardAddress(texts)

	if record.BirthDate == "" {
		if m := cnDatePattern.FindStringSubmatch(fullText); m != nil {
			record.BirthDate = m[1] + "年" + m[2] + "月" + m[3] + "日"
		}
	}

	if record.Gender == "" {
		if strings.Contains(fullText, "男") {
			record.Gender = "男"
		} else if strings.Contains(fullText, "女") {
			record.Gender = "女"
		}
	}
}

func (p *IDCardParser) parseBack(texts []string, fullText string, record *dto.IdentityRecord) {
	for i, text := range texts {
		if strings.Contains(text, "签发机关") {
			// The value may share the label's line or sit on the next one.
			content := strings.TrimSpace(strings.ReplaceAll(text, "签发机关", ""))
			if content != "" {
				record.IssuingAuthority = content
			} else if i+1 < len(texts) {
				record.IssuingAuthority = strings.TrimSpace(texts[i+1])
			}
			break
		}
	}
	if record.IssuingAuthority == "" {
		for _, text := range texts {
			if strings.Contains(text, "公安") || strings.Contains(text, "派出所") {
				record.IssuingAuthority = strings.TrimSpace(text)
				break
			}
		}
	}

	if m := validPeriodPattern.FindStringSubmatch(removeWhitespace(fullText)); m != nil {
		record.ValidPeriod = m[1] + "-" + m[2]
		return
	}
	for i, text := range texts {
		if strings.Contains(text, "有效期") {
			content := strings.ReplaceAll(text, "有效期限", "")
			content = strings.TrimSpace(strings.ReplaceAll(content, "有效期", ""))
			if content != "" {
				record.ValidPeriod = content
			} else if i+1 < len(texts) {
				record.ValidPeriod = strings.TrimSpace(texts[i+1])
			}
			break
		}
	}
}

// extractCardName prefers the line labeled 姓名; failing that, the first of
// the top three lines that is a bare 2-4 character CJK run.
func extractCardName(texts []string) string {
	for _, text := range texts {
		if strings.Contains(text, "姓名") {
			name := strings.TrimSpace(strings.ReplaceAll(text, "姓名", ""))
			if name != "" && utf8.RuneCountInString(name) <= 10 {
				return name
			}
		}
	}

	limit := len(texts)
	if limit > 3 {
		limit = 3
	}
	for _, text := range texts[:limit] {
		text = strings.TrimSpace(text)
		n := utf8.RuneCountInString(text)
		if n < 2 || n > 4 || !isAllCJK(text) {
			continue
		}
		stopped := false
		for _, stop := range nameStopWords {
			if text == stop {
				stopped = true
				break
			}
		}
		if !stopped {
			return text
		}
	}
	return ""
}

// extractCardAddress collects the 住址 line and subsequent lines that still
// look like address components, stopping at the ID number label or at the
// first line without an address keyword.
func extractCardAddress(texts []string) string {
	var parts []string
	inAddress := false

	for _, text := range texts {
		if strings.Contains(text, "住址") {
			inAddress = true
			if content := strings.TrimSpace(strings.ReplaceAll(text, "住址", "")); content != "" {
				parts = append(parts, content)
			}
			continue
		}
		if !inAddress {
			continue
		}
		if strings.Contains(text, "公民身份") || strings.Contains(text, "身份号码") {
			break
		}
		if containsAny(text, addressKeywords) {
			parts = append(parts, strings.TrimSpace(text))
		} else {
			break
		}
	}

	return strings.Join(parts, "")
}

// ValidateIDNumber checks the structure and GB 11643 checksum of an
// 18-character citizen ID number.
func ValidateIDNumber(idNumber string) bool {
	if len(idNumber) != 18 || !idNumberExactPattern.MatchString(idNumber) {
		return false
	}

	total := 0
	for i := 0; i < 17; i++ {
		c := idNumber[i]
		if c < '0' || c > '9' {
			return false
		}
		total += int(c-'0') * idChecksumWeights[i]
	}

	expected := idCheckCodes[total%11]
	actual := idNumber[17]
	if actual >= 'a' && actual <= 'z' {
		actual -= 'a' - 'A'
	}
	return actual == expected
}

func removeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func isAllCJK(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0x4e00 || r > 0x9fff {
			return false
		}
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

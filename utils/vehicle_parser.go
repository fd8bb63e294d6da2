package utils

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/docufy/ocr-document-extraction/dto"
)

// amountPatterns is an ordered cascade, most specific first: invoice total
// lines anchored on the 小写 (numerals) label, then generic amount labels,
// then bare currency marks, then a trailing 元. The first pattern whose
// capture parses as a number wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`车价合计.*?小写[:：\s]*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`价税合计.*?小写[:：\s]*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`合计金额.*?小写[:：\s]*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`小写[:：\s]*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`[金价总]额[:：￥¥]*\s*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`¥\s*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`￥\s*([0-9,，]+\.?\d*)`),
	regexp.MustCompile(`([0-9,，]+\.?\d*)\s*元`),
}

// Plate patterns: province character + issuing-office letter + 5 characters
// from the plate alphabet (I and O excluded), bare or behind the 号牌号码 label.
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[京津沪渝冀豫云辽黑湘皖鲁新苏浙赣鄂桂甘晋蒙陕吉闽贵粤青藏川宁琼使领][A-Z][A-HJ-NP-Z0-9]{5}`),
	regexp.MustCompile(`号牌号码[:：]\s*([京津沪渝冀豫云辽黑湘皖鲁新苏浙赣鄂桂甘晋蒙陕吉闽贵粤青藏川宁琼使领][A-Z][A-HJ-NP-Z0-9]{5})`),
}

var enginePattern = regexp.MustCompile(`发动机号码?[:：]\s*([A-Z0-9]{6,})`)

var registerDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`注册日期[:：]\s*(\d{4}年\d{1,2}月\d{1,2}日)`),
	regexp.MustCompile(`注册日期[:：]\s*(\d{4}-\d{1,2}-\d{1,2})`),
	regexp.MustCompile(`注册日期[:：]\s*(\d{4}/\d{1,2}/\d{1,2})`),
	regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日)`),
}

var cjkRunPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,40}`)
var cjkCharPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)

var ownerKeywords = []string{"所有人", "车主", "姓名", "买方"}

var buyerKeywords = []string{"买方", "购买方", "购方名称", "客户名称"}

var newOwnerKeywords = []string{
	"转入所有人", "现所有人", "现机动车所有人",
	"受让方", "姓名/名称", "姓名／名称", "姓名", "名称",
	"过户后车主", "转入车主",
}

var corporateMarkers = []string{"公司", "企业", "集团", "中心", "单位"}

var modelKeywords = []string{"品牌型号", "车辆型号", "型号"}

// modelTerminators are the section labels that end a 品牌型号 capture.
var modelTerminators = []string{"车辆识别代号", "发动机", "注册日期", "档案编号"}

// English column labels the license layout sometimes leaks into the model block.
var modelPlaceholderLabels = map[string]bool{
	"Use Character": true,
	"Model":         true,
	"VIN":           true,
	"Engine No.":    true,
	"Owner":         true,
	"Address":       true,
}

// nonNameWords filters short (≤4 character) owner candidates: place names,
// document boilerplate, and the technical-parameter labels OCR tends to
// misalign next to the owner field on a license.
var nonNameWords = map[string]bool{
	// place names
	"北京": true, "上海": true, "天津": true, "重庆": true, "广州": true,
	"深圳": true, "杭州": true, "南京": true, "成都": true, "西安": true,
	"武汉": true, "郑州": true, "长沙": true, "沈阳": true, "哈尔滨": true,
	"济南": true, "青岛": true, "大连": true, "厦门": true, "福州": true,
	"昆明": true, "兰州": true, "太原": true, "石家庄": true, "合肥": true,
	"南昌": true, "贵阳": true, "海口": true, "银川": true, "西宁": true,
	"拉萨": true, "呼和浩特": true, "乌鲁木齐": true, "朝阳区": true,
	"海淀区": true, "丰台区": true, "东城区": true, "西城区": true,
	// document boilerplate
	"单位": true, "企业": true, "公司": true, "集团": true, "有限": true,
	"股份": true, "信息": true, "摘要": true, "备注": true, "说明": true,
	"注意": true, "事项": true, "机动车": true, "车辆": true, "登记": true,
	"证书": true, "发票": true, "行驶": true, "住址": true, "地址": true,
	"联系": true, "电话": true, "转移": true, "登记证": true, "行驶证": true,
	"所有人": true, "车主": true, "姓名": true, "品牌": true, "型号": true,
	"类型": true, "用途": true,
	// license technical parameters
	"外廓尺寸": true, "外麻尺寸": true, "核定载人数": true, "核定载质量": true,
	"整备质量": true, "准牵引总质量": true, "总质量": true, "使用性质": true,
	"车辆类型": true, "品牌型号": true, "发动机号码": true, "注册日期": true,
	"发证日期": true, "检验记录": true, "档案编号": true,
}

// forbiddenInLongName rejects long (>4 character) candidates only when they
// are unambiguous document boilerplate; long strings are almost always real
// (often corporate) names.
var forbiddenInLongName = []string{
	"机动车", "登记证", "行驶证", "发票",
	"车辆类型", "品牌型号", "使用性质",
	"所有人", "车主", "车架号", "发动机号",
	"注册日期", "发证日期", "检验记录",
	"身份证明", "统一社会信用代码",
}

var nameRejectSubstrings = []string{"kg", "mm", "人", "质量", "尺寸", "载"}

// VehicleParser extracts structured fields from vehicle document OCR text.
// Every method is total: a field that cannot be found stays empty.
type VehicleParser struct {
	logger *slog.Logger
}

func NewVehicleParser(logger *slog.Logger) *VehicleParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &VehicleParser{logger: logger}
}

// ExtractFromText pulls the fields relevant to the document type. When the
// type is unknown it sniffs the content, and failing that attempts the full
// superset. The VIN is always attempted first and the engine number last,
// regardless of type.
func (p *VehicleParser) ExtractFromText(text string, docType dto.DocType) dto.VehicleInfo {
	var info dto.VehicleInfo

	info.VIN = ExtractVIN(text)

	switch {
	case docType == dto.DocTypeInvoice || strings.Contains(text, "发票"):
		info.InvoiceAmount = p.extractAmount(text)
		info.BuyerName = p.extractBuyerName(text)
	case docType == dto.DocTypeRegistrationTransfer || strings.Contains(text, "登记栏"):
		// Transfer page: only the new owner matters here.
		info.NewOwnerName = p.extractNewOwnerName(text)
	case docType == dto.DocTypeRegistration || strings.Contains(text, "注册登记"):
		info.OwnerName = p.extractOwnerName(text)
		info.RegisterDate = p.extractRegisterDate(text)
		info.VehicleModel = p.extractVehicleModel(text)
	case docType == dto.DocTypeLicense || strings.Contains(text, "行驶证"):
		info.PlateNumber = p.extractPlateNumber(text)
		info.OwnerName = p.extractOwnerName(text)
		info.VehicleModel = p.extractVehicleModel(text)
	default:
		info.InvoiceAmount = p.extractAmount(text)
		info.OwnerName = p.extractOwnerName(text)
		info.BuyerName = p.extractBuyerName(text)
		info.PlateNumber = p.extractPlateNumber(text)
		info.VehicleModel = p.extractVehicleModel(text)
	}

	info.EngineNumber = p.extractEngineNumber(text)

	p.logger.Debug("extracted vehicle info",
		"doc_type", string(docType),
		"vin", info.VIN,
		"owner", info.OwnerName)

	return info
}

// extractAmount walks the pattern cascade; an unparseable capture is skipped,
// not fatal.
func (p *VehicleParser) extractAmount(text string) string {
	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := strings.ReplaceAll(m[1], ",", "")
		amount = strings.ReplaceAll(amount, "，", "")
		if _, err := strconv.ParseFloat(amount, 64); err == nil {
			return amount
		}
	}
	return ""
}

func (p *VehicleParser) extractPlateNumber(text string) string {
	clean := strings.ReplaceAll(text, " ", "")
	clean = strings.ReplaceAll(clean, "\n", "")

	for _, pattern := range platePatterns {
		m := pattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1]
		}
		return m[0]
	}
	return ""
}

// extractOwnerName scans for owner labels, first on the labeled line itself,
// then up to 7 lines below it (OCR frequently misaligns label and value).
// Corporate names win over bare personal names. A second pass recovers the
// 所有人 label when OCR has shredded it into isolated 所 and 人 tokens.
func (p *VehicleParser) extractOwnerName(text string) string {
	lines := strings.Split(text, "\n")

	for _, keyword := range ownerKeywords {
		sameLine := regexp.MustCompile(regexp.QuoteMeta(keyword) + `[:：\s]*([\x{4e00}-\x{9fa5}]{2,40})`)
		for i, line := range lines {
			if !strings.Contains(line, keyword) {
				continue
			}
			if m := sameLine.FindStringSubmatch(line); m != nil {
				if p.isValidNameOrCompany(m[1]) {
					return m[1]
				}
			}
			if name := p.scanNameCandidates(lines, i+1, 7); name != "" {
				return name
			}
		}
	}

	// OCR sometimes splits 所有人 vertically; look for the fragments.
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if !isOwnerLabelFragment(stripped) {
			continue
		}
		for j := 1; j <= 3 && i+j < len(lines); j++ {
			next := strings.TrimSpace(lines[i+j])
			if !isOwnerLabelTail(next) {
				continue
			}
			if name := p.scanNameCandidates(lines, i+j+1, 7); name != "" {
				return name
			}
			break
		}
	}

	return ""
}

// scanNameCandidates walks up to window lines starting at start, returning
// the first corporate candidate immediately, else the first plain candidate.
func (p *VehicleParser) scanNameCandidates(lines []string, start, window int) string {
	var first string
	for k := 0; k < window && start+k < len(lines); k++ {
		line := strings.TrimSpace(lines[start+k])
		if line == "" || !cjkCharPattern.MatchString(line) {
			continue
		}
		name := cjkRunPattern.FindString(line)
		if name == "" || !p.isValidNameOrCompany(name) {
			continue
		}
		if containsAny(name, corporateMarkers) {
			return name
		}
		if first == "" {
			first = name
		}
	}
	return first
}

func isOwnerLabelFragment(line string) bool {
	if line == "所" || line == "所有" || line == "所 有" {
		return true
	}
	return utf8.RuneCountInString(line) <= 3 && strings.Contains(line, "所")
}

func isOwnerLabelTail(line string) bool {
	if line == "人" || line == "有人" || line == "所人" {
		return true
	}
	if line == "人数" || line == "载人" {
		return false
	}
	return line != "" && utf8.RuneCountInString(line) <= 3 && strings.Contains(line, "人")
}

func (p *VehicleParser) extractBuyerName(text string) string {
	for _, keyword := range buyerKeywords {
		pattern := regexp.MustCompile(regexp.QuoteMeta(keyword) + `[:：\s]*([\x{4e00}-\x{9fa5}]{2,40})`)
		if m := pattern.FindStringSubmatch(text); m != nil {
			if p.isValidNameOrCompany(m[1]) {
				return m[1]
			}
		}
	}
	return ""
}

// extractNewOwnerName reads the transfer-registration block. A candidate that
// merely echoes the original owner is rejected.
func (p *VehicleParser) extractNewOwnerName(text string) string {
	lines := strings.Split(text, "\n")

	for _, keyword := range newOwnerKeywords {
		sameLine := regexp.MustCompile(regexp.QuoteMeta(keyword) + `[:：\s]*([\x{4e00}-\x{9fa5}]{2,40})`)
		for i, line := range lines {
			if !strings.Contains(line, keyword) {
				continue
			}
			if m := sameLine.FindStringSubmatch(line); m != nil {
				if p.isValidNameOrCompany(m[1]) {
					return m[1]
				}
			}
			for j := 1; j <= 3 && i+j < len(lines); j++ {
				next := strings.TrimSpace(lines[i+j])
				if next == "" || !cjkCharPattern.MatchString(next) {
					continue
				}
				if name := cjkRunPattern.FindString(next); name != "" {
					if p.isValidNameOrCompany(name) && name != p.extractOwnerName(text) {
						return name
					}
				}
				// Stop at the first line carrying CJK text either way.
				break
			}
		}
	}
	return ""
}

// extractVehicleModel captures the block after a model label, cut at the next
// section label or a blank-line run, then picks the first line that looks
// like an actual model designation rather than a leaked English column label.
func (p *VehicleParser) extractVehicleModel(text string) string {
	for _, keyword := range modelKeywords {
		idx := strings.Index(text, keyword)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(text[idx+len(keyword):], ":： \t")

		cut := len(rest)
		for _, term := range modelTerminators {
			if i := strings.Index(rest, term); i >= 0 && i < cut {
				cut = i
			}
		}
		if i := strings.Index(rest, "\n\n"); i >= 0 && i < cut {
			cut = i
		}

		block := strings.TrimSpace(rest[:cut])
		if block == "" {
			continue
		}

		var blockLines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				blockLines = append(blockLines, line)
			}
		}

		for _, line := range blockLines {
			if modelPlaceholderLabels[line] {
				continue
			}
			if cjkCharPattern.MatchString(line) || (len(line) > 3 && strings.ContainsAny(line, "0123456789")) {
				return line
			}
		}
		if len(blockLines) > 0 {
			return blockLines[0]
		}
	}
	return ""
}

func (p *VehicleParser) extractEngineNumber(text string) string {
	if m := enginePattern.FindStringSubmatch(strings.ReplaceAll(text, " ", "")); m != nil {
		return m[1]
	}
	return ""
}

func (p *VehicleParser) extractRegisterDate(text string) string {
	for _, pattern := range registerDatePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// isValidName is the strict check for short (≤4 character) candidates: short
// strings are ambiguous, so anything overlapping the stoplist, ending in an
// administrative-unit character, or containing a technical-parameter fragment
// is rejected.
func (p *VehicleParser) isValidName(name string) bool {
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	if nonNameWords[name] {
		return false
	}
	for word := range nonNameWords {
		if strings.Contains(name, word) || strings.Contains(word, name) {
			return false
		}
	}
	for _, suffix := range []string{"市", "省", "区", "县", "镇", "村", "街", "路", "号"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return !containsAny(name, nameRejectSubstrings)
}

// isValidNameOrCompany applies the strict check to short candidates and a
// deliberately loose check to long ones.
func (p *VehicleParser) isValidNameOrCompany(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return false
	}
	if n <= 4 {
		return p.isValidName(name)
	}
	return !containsAny(name, forbiddenInLongName)
}

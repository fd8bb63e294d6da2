package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufy/ocr-document-extraction/dto"
)

func TestExtractFromInvoice(t *testing.T) {
	p := NewVehicleParser(nil)

	text := "机动车销售统一发票\n" +
		"买方:张伟\n" +
		"车架号:LSVNP60C8PN049942\n" +
		"价税合计(大写)壹拾万元整 小写:100000.00"

	info := p.ExtractFromText(text, dto.DocTypeInvoice)

	assert.Equal(t, "LSVNP60C8PN049942", info.VIN)
	assert.Equal(t, "100000.00", info.InvoiceAmount)
	assert.Equal(t, "张伟", info.BuyerName)
}

func TestExtractAmountCascade(t *testing.T) {
	p := NewVehicleParser(nil)

	// The specific invoice-total label wins over the later bare currency mark.
	info := p.ExtractFromText("发票 车价合计 小写:88500.50 定金 ¥1000", dto.DocTypeInvoice)
	assert.Equal(t, "88500.50", info.InvoiceAmount)

	// Thousands separators are stripped.
	info = p.ExtractFromText("发票 ¥ 123,456.00", dto.DocTypeInvoice)
	assert.Equal(t, "123456.00", info.InvoiceAmount)

	// Trailing 元 as the last resort.
	info = p.ExtractFromText("发票 成交价 99800 元", dto.DocTypeInvoice)
	assert.Equal(t, "99800", info.InvoiceAmount)

	info = p.ExtractFromText("发票 金额待定", dto.DocTypeInvoice)
	assert.Empty(t, info.InvoiceAmount)
}

func TestExtractOwnerSameLine(t *testing.T) {
	p := NewVehicleParser(nil)

	text := "机动车登记证书 注册登记\n机动车所有人：李明\n注册日期:2020年05月12日"

	info := p.ExtractFromText(text, dto.DocTypeRegistration)

	assert.Equal(t, "李明", info.OwnerName)
	assert.Equal(t, "2020年05月12日", info.RegisterDate)
}

func TestExtractOwnerPrefersCorporateName(t *testing.T) {
	p := NewVehicleParser(nil)

	// The label's value drifted below; a company on a later line outranks a
	// personal name on an earlier one.
	text := "所有人\n王芳\n北京运输有限公司"

	assert.Equal(t, "北京运输有限公司", p.extractOwnerName(text))
}

func TestExtractOwnerFromShreddedLabel(t *testing.T) {
	p := NewVehicleParser(nil)

	// Vertical label layout split 所有人 across lines.
	text := "所\n有\n人\n刘强"

	assert.Equal(t, "刘强", p.extractOwnerName(text))
}

func TestExtractOwnerRejectsParameterDebris(t *testing.T) {
	p := NewVehicleParser(nil)

	// Technical parameters misaligned next to the owner label must not be
	// mistaken for a name.
	text := "所有人\n载质量\n尺寸"

	assert.Empty(t, p.extractOwnerName(text))
}

func TestExtractNewOwner(t *testing.T) {
	p := NewVehicleParser(nil)

	text := "登记栏 转移登记\n现机动车所有人：陈晨"

	info := p.ExtractFromText(text, dto.DocTypeRegistrationTransfer)

	assert.Equal(t, "陈晨", info.NewOwnerName)
	assert.Empty(t, info.OwnerName)
}

func TestExtractNewOwnerRejectsOriginalOwnerEcho(t *testing.T) {
	p := NewVehicleParser(nil)

	// The transfer block merely repeats the current owner: no new owner.
	text := "机动车所有人：李明\n现机动车所有人\n李明"

	assert.Empty(t, p.extractNewOwnerName(text))
}

func TestExtractVehicleModel(t *testing.T) {
	p := NewVehicleParser(nil)

	text := "品牌型号:大众牌SVW71412BM\n车辆识别代号:LSVNP60C8PN049942"
	assert.Equal(t, "大众牌SVW71412BM", p.extractVehicleModel(text))

	// Leaked English column labels are skipped.
	text = "品牌型号\nModel\n大众牌SVW71412BM\n发动机号码:A123456"
	assert.Equal(t, "大众牌SVW71412BM", p.extractVehicleModel(text))

	assert.Empty(t, p.extractVehicleModel("注册日期:2020年05月12日"))
}

func TestExtractPlateNumber(t *testing.T) {
	p := NewVehicleParser(nil)

	info := p.ExtractFromText("机动车行驶证\n号牌号码: 京A12345", dto.DocTypeLicense)
	assert.Equal(t, "京A12345", info.PlateNumber)

	// OCR-inserted spaces inside the plate are tolerated.
	info = p.ExtractFromText("行驶证 沪B 6789 0", dto.DocTypeLicense)
	assert.Equal(t, "沪B67890", info.PlateNumber)
}

func TestExtractEngineNumber(t *testing.T) {
	p := NewVehicleParser(nil)

	info := p.ExtractFromText("发动机号码:A1B2C3D4", dto.DocTypeLicense)
	assert.Equal(t, "A1B2C3D4", info.EngineNumber)
}

func TestExtractFromUnknownTypeSniffsContent(t *testing.T) {
	p := NewVehicleParser(nil)

	// Content sniffing routes an unclassified scan to the transfer branch.
	text := "登记栏\n现机动车所有人：陈晨"
	info := p.ExtractFromText(text, dto.DocTypeUnknown)

	assert.Equal(t, "陈晨", info.NewOwnerName)
}

func TestExtractFromEmptyText(t *testing.T) {
	p := NewVehicleParser(nil)

	info := p.ExtractFromText("", dto.DocTypeUnknown)

	assert.True(t, info.IsEmpty())
}

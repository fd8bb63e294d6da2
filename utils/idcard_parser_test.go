package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufy/ocr-document-extraction/dto"
)

func frontUnits() []dto.OCRUnit {
	return []dto.OCRUnit{
		{Text: "姓名张三", Confidence: 0.95},
		{Text: "性别男", Confidence: 0.92},
		{Text: "民族汉", Confidence: 0.90},
		{Text: "住址北京市朝阳区", Confidence: 0.88},
		{Text: "公民身份号码11010119900101001X", Confidence: 0.93},
	}
}

func TestParseFrontSide(t *testing.T) {
	parser := NewIDCardParser(nil)

	record := parser.Parse(frontUnits())

	assert.Equal(t, dto.SideFront, record.Side)
	assert.Equal(t, "张三", record.Name)
	assert.Equal(t, "男", record.Gender)
	assert.Equal(t, "汉族", record.Ethnicity)
	assert.Equal(t, "北京市朝阳区", record.Address)
	assert.Equal(t, "11010119900101001X", record.IDNumber)
	assert.Equal(t, "1990年01月01日", record.BirthDate)
	assert.InDelta(t, 0.916, record.Confidence, 0.01)
}

func TestParseFrontGenderFromIDNumber(t *testing.T) {
	parser := NewIDCardParser(nil)

	// 17th digit even means female, regardless of any 男/女 in the text.
	record := parser.Parse([]dto.OCRUnit{
		{Text: "公民身份号码11010119900101004X", Confidence: 0.9},
	})

	assert.Equal(t, "女", record.Gender)
	assert.Equal(t, "1990年01月01日", record.BirthDate)
}

func TestParseBackSide(t *testing.T) {
	parser := NewIDCardParser(nil)

	record := parser.Parse([]dto.OCRUnit{
		{Text: "中华人民共和国", Confidence: 0.9},
		{Text: "居民身份证", Confidence: 0.9},
		{Text: "签发机关 北京市公安局朝阳分局", Confidence: 0.9},
		{Text: "有效期限 2015.01.01-2035.01.01", Confidence: 0.9},
	})

	assert.Equal(t, dto.SideBack, record.Side)
	assert.Equal(t, "北京市公安局朝阳分局", record.IssuingAuthority)
	assert.Equal(t, "2015.01.01-2035.01.01", record.ValidPeriod)
	assert.Empty(t, record.Name)
	assert.Empty(t, record.IDNumber)
}

func TestParseBackSideLongTermValidity(t *testing.T) {
	parser := NewIDCardParser(nil)

	record := parser.Parse([]dto.OCRUnit{
		{Text: "签发机关上海市公安局浦东分局", Confidence: 0.9},
		{Text: "有效期限 2020.03.15-长期", Confidence: 0.9},
	})

	assert.Equal(t, dto.SideBack, record.Side)
	assert.Equal(t, "上海市公安局浦东分局", record.IssuingAuthority)
	assert.Equal(t, "2020.03.15-长期", record.ValidPeriod)
}

func TestParseEmptyInput(t *testing.T) {
	parser := NewIDCardParser(nil)

	record := parser.Parse(nil)

	assert.Equal(t, dto.SideFront, record.Side)
	assert.Zero(t, record.Confidence)
	assert.Empty(t, record.Name)
	assert.Empty(t, record.IDNumber)
}

func TestParseNameFallbackWithoutLabel(t *testing.T) {
	parser := NewIDCardParser(nil)

	record := parser.Parse([]dto.OCRUnit{
		{Text: "欧阳娜娜", Confidence: 0.9},
		{Text: "公民身份号码110101199001010015", Confidence: 0.9},
	})

	assert.Equal(t, "欧阳娜娜", record.Name)
	assert.Equal(t, "110101199001010015", record.IDNumber)
}

func TestValidateIDNumber(t *testing.T) {
	assert.True(t, ValidateIDNumber("110101199001010015"))
	assert.True(t, ValidateIDNumber("11010119900101004X"))
	assert.True(t, ValidateIDNumber("11010119900101004x"))

	// wrong check digit
	assert.False(t, ValidateIDNumber("110101199001010016"))
	assert.False(t, ValidateIDNumber("11010119900101001X"))

	// structural failures
	assert.False(t, ValidateIDNumber(""))
	assert.False(t, ValidateIDNumber("1101011990010100"))
	assert.False(t, ValidateIDNumber("010101199001010015"))
	assert.False(t, ValidateIDNumber("110101199013010015"))
}

func TestDetectSidePrefersFrontOnIDNumber(t *testing.T) {
	parser := NewIDCardParser(nil)

	// One back keyword against a bare ID number: the number decides.
	record := parser.Parse([]dto.OCRUnit{
		{Text: "居民身份证", Confidence: 0.9},
		{Text: "110101199001010015", Confidence: 0.9},
	})

	assert.Equal(t, dto.SideFront, record.Side)
}

func TestDisplayFieldsSkipUnsetAndMetadata(t *testing.T) {
	record := dto.IdentityRecord{
		Name:       "张三",
		IDNumber:   "110101199001010015",
		Side:       dto.SideFront,
		Confidence: 0.9,
	}

	fields := record.DisplayFields()

	assert.Len(t, fields, 2)
	assert.Equal(t, dto.DisplayField{Label: "姓名", Value: "张三"}, fields[0])
	assert.Equal(t, dto.DisplayField{Label: "公民身份号码", Value: "110101199001010015"}, fields[1])
}

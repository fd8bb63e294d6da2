package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufy/ocr-document-extraction/dto"
)

func TestClassifyTransferPage(t *testing.T) {
	c := NewClassifier(0)

	docType, confidence := c.Classify("机动车登记证书 登记栏 转移登记 现机动车所有人")

	assert.Equal(t, dto.DocTypeRegistrationTransfer, docType)
	assert.Equal(t, 1.0, confidence)
}

func TestClassifyTransferOutranksRegistration(t *testing.T) {
	c := NewClassifier(0)

	// Both registration phrases appear, but the transfer page marker decides.
	docType, confidence := c.Classify("机动车登记证书 注册登记 登记栏")

	assert.Equal(t, dto.DocTypeRegistrationTransfer, docType)
	assert.GreaterOrEqual(t, confidence, 0.75)
}

func TestClassifyRegistrationPage(t *testing.T) {
	c := NewClassifier(0)

	docType, confidence := c.Classify("机动车登记证书 注册登记 机动车所有人")

	assert.Equal(t, dto.DocTypeRegistration, docType)
	assert.Equal(t, 1.0, confidence)
}

func TestClassifyInvoice(t *testing.T) {
	c := NewClassifier(0)

	docType, confidence := c.Classify("机动车销售统一发票 价税合计 小写:100000.00")

	assert.Equal(t, dto.DocTypeInvoice, docType)
	assert.GreaterOrEqual(t, confidence, 0.75)
}

func TestClassifyLicense(t *testing.T) {
	c := NewClassifier(0)

	docType, confidence := c.Classify("中华人民共和国机动车行驶证 号牌号码")

	assert.Equal(t, dto.DocTypeLicense, docType)
	assert.GreaterOrEqual(t, confidence, 0.75)
}

func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier(0)

	docType, confidence := c.Classify("")

	assert.Equal(t, dto.DocTypeUnknown, docType)
	assert.Zero(t, confidence)
}

func TestClassifyWeakSignalsStayWeak(t *testing.T) {
	c := NewClassifier(0)

	// Stray characters from a keyword never outweigh one full keyword match.
	docType, confidence := c.Classify("行驶证")

	assert.Equal(t, dto.DocTypeLicense, docType)
	assert.GreaterOrEqual(t, confidence, 0.5)
}

func TestClassifyByFilename(t *testing.T) {
	c := NewClassifier(0)

	assert.Equal(t, dto.DocTypeInvoice, c.ClassifyByFilename("发票1.jpg"))
	assert.Equal(t, dto.DocTypeInvoice, c.ClassifyByFilename("FP_2024.png"))
	assert.Equal(t, dto.DocTypeLicense, c.ClassifyByFilename("xsz_front.png"))
	assert.Equal(t, dto.DocTypeRegistration, c.ClassifyByFilename("登记证书.pdf"))
	assert.Equal(t, dto.DocTypeRegistrationTransfer, c.ClassifyByFilename("登记栏.jpg"))
	assert.Equal(t, dto.DocTypeUnknown, c.ClassifyByFilename("IMG_0001.jpg"))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufy/ocr-document-extraction/dto"
)

func record(docType dto.DocType, confidence float64, vin string) dto.DocumentRecord {
	return dto.DocumentRecord{
		DocType:     docType,
		Confidence:  confidence,
		VehicleInfo: dto.VehicleInfo{VIN: vin},
	}
}

func TestMergeDuplicatesCollapsesRescans(t *testing.T) {
	// Second license scan differs from the first by one OCR misread.
	docs := []dto.DocumentRecord{
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049947"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 1)
	assert.Equal(t, "LSVNP60C8PN049942", merged[0].VehicleInfo.VIN)
}

func TestMergeDuplicatesKeepsDistinctVINs(t *testing.T) {
	// Three character differences is another vehicle, not a rescan.
	docs := []dto.DocumentRecord{
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN111111"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 2)
}

func TestMergeDuplicatesBothVINsAbsent(t *testing.T) {
	docs := []dto.DocumentRecord{
		record(dto.DocTypeRegistration, 1.0, ""),
		record(dto.DocTypeRegistration, 1.0, ""),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 1)
}

func TestMergeDuplicatesMixedVINPresence(t *testing.T) {
	// One VIN present, one absent: not enough evidence to collapse.
	docs := []dto.DocumentRecord{
		record(dto.DocTypeRegistration, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeRegistration, 1.0, ""),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 2)
}

func TestMergeDuplicatesTransferAlwaysCollapses(t *testing.T) {
	docs := []dto.DocumentRecord{
		record(dto.DocTypeRegistrationTransfer, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeRegistrationTransfer, 1.0, "WVWZZZ3CZKE012345"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 1)
}

func TestMergeDuplicatesUnknownResetsState(t *testing.T) {
	// An unknown page between two identical licenses breaks the run: the
	// second license is a new document, not a rescan.
	docs := []dto.DocumentRecord{
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeUnknown, 0.0, ""),
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 3)
}

func TestMergeDuplicatesLowConfidenceAlwaysKept(t *testing.T) {
	docs := []dto.DocumentRecord{
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeLicense, 0.2, "LSVNP60C8PN049942"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 2)
}

func TestMergeDuplicatesDifferentTypesKept(t *testing.T) {
	docs := []dto.DocumentRecord{
		record(dto.DocTypeLicense, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeRegistration, 1.0, "LSVNP60C8PN049942"),
		record(dto.DocTypeInvoice, 1.0, "LSVNP60C8PN049942"),
	}

	merged := MergeDuplicates(docs)

	assert.Len(t, merged, 3)
}

func TestMergeDuplicatesEmpty(t *testing.T) {
	assert.Empty(t, MergeDuplicates(nil))
}

func TestVINsSimilar(t *testing.T) {
	assert.True(t, vinsSimilar("LSVNP60C8PN049942", "LSVNP60C8PN049942", 2))
	assert.True(t, vinsSimilar("LSVNP60C8PN049942", "LSVNP60C8PN049947", 2))
	assert.True(t, vinsSimilar("LSVNP60C8PN049942", "LSVNP60C8PN049917", 2))
	assert.False(t, vinsSimilar("LSVNP60C8PN049942", "LSVNP60C8PN011111", 2))
	assert.False(t, vinsSimilar("LSVNP60C8PN049942", "LSVNP60C8PN04994", 2))
	assert.False(t, vinsSimilar("", "", 2))
}

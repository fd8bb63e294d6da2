package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/docufy/ocr-document-extraction/dto"
)

func archiveFixture() ArchiveResult {
	return ArchiveResult{
		ArchiveName: "豫A12345档案",
		Documents: []dto.DocumentRecord{
			{
				DocType:     dto.DocTypeLicense,
				VehicleInfo: dto.VehicleInfo{VIN: "LSVNP60C8PN049942", OwnerName: "李明"},
			},
			{
				DocType:     dto.DocTypeRegistration,
				VehicleInfo: dto.VehicleInfo{VIN: "LSVNP60C8PN049942", NewOwnerName: "王芳"},
			},
			{
				DocType:     dto.DocTypeRegistrationTransfer,
				VehicleInfo: dto.VehicleInfo{VIN: "LSVNP60C8PN049942", NewOwnerName: "陈晨"},
			},
			{
				DocType:     dto.DocTypeInvoice,
				VehicleInfo: dto.VehicleInfo{VIN: "LSVNP60C8PN049942", InvoiceAmount: "88500.50"},
			},
		},
	}
}

func TestExportArchives(t *testing.T) {
	svc := NewExportService(nil)

	data, err := svc.ExportArchives([]ArchiveResult{archiveFixture()})
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	assert.NoError(t, err)
	assert.Equal(t, "序号", header)

	source, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "豫A12345档案", source)

	licenseVIN, _ := f.GetCellValue(sheet, "C2")
	registrationVIN, _ := f.GetCellValue(sheet, "D2")
	assert.Equal(t, "LSVNP60C8PN049942", licenseVIN)
	assert.Equal(t, "LSVNP60C8PN049942", registrationVIN)

	owner, _ := f.GetCellValue(sheet, "F2")
	assert.Equal(t, "李明", owner)

	// The transfer page's new owner outranks the registration page's.
	newOwner, _ := f.GetCellValue(sheet, "G2")
	assert.Equal(t, "陈晨", newOwner)

	amount, _ := f.GetCellValue(sheet, "H2")
	assert.Equal(t, "88500.50", amount)
}

func TestExportArchivesEmpty(t *testing.T) {
	svc := NewExportService(nil)

	data, err := svc.ExportArchives(nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	assert.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestFlattenArchiveVINMismatch(t *testing.T) {
	result := ArchiveResult{
		ArchiveName: "档案2",
		Documents: []dto.DocumentRecord{
			{DocType: dto.DocTypeLicense, VehicleInfo: dto.VehicleInfo{VIN: "LSVNP60C8PN049942"}},
			{DocType: dto.DocTypeRegistration, VehicleInfo: dto.VehicleInfo{VIN: "WVWZZZ3CZKE012345"}},
		},
	}

	row := flattenArchive(result)

	assert.True(t, vinMismatch(row.licenseVIN, row.registrationVIN))
	assert.False(t, vinMismatch(row.licenseVIN, row.licenseVIN))
	assert.False(t, vinMismatch("", row.registrationVIN))
}

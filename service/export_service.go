package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/docufy/ocr-document-extraction/dto"
)

var exportHeaders = []string{
	"序号",
	"来源文件",
	"车架号(行驶证)",
	"车架号(登记证)",
	"车架号(发票)",
	"车主(行驶证)",
	"新车主(登记证)",
	"交易金额(发票)",
}

var exportColumnWidths = []float64{6, 20, 22, 22, 22, 30, 30, 15}

// ExportService renders processed archives into an XLSX workbook, one row per
// archive, with the per-document VINs side by side so mismatches stand out.
type ExportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{logger: logger}
}

// exportRow is one archive flattened into the comparison columns.
type exportRow struct {
	source          string
	licenseVIN      string
	registrationVIN string
	invoiceVIN      string
	ownerName       string
	newOwnerName    string
	invoiceAmount   string
}

// ExportArchives writes the results as an XLSX workbook. Rows whose license
// and registration VINs disagree are highlighted.
func (s *ExportService) ExportArchives(results []ArchiveResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	mismatchStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "FF0000"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFE6E6"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mismatch style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, colName, colName, exportColumnWidths[i]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, result := range results {
		row := flattenArchive(result)
		rowNum := i + 2

		values := []interface{}{
			i + 1,
			row.source,
			row.licenseVIN,
			row.registrationVIN,
			row.invoiceVIN,
			row.ownerName,
			row.newOwnerName,
			row.invoiceAmount,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
			}
		}

		if vinMismatch(row.licenseVIN, row.registrationVIN) {
			start, _ := excelize.CoordinatesToCellName(3, rowNum)
			end, _ := excelize.CoordinatesToCellName(4, rowNum)
			if err := f.SetCellStyle(sheet, start, end, mismatchStyle); err != nil {
				return nil, fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
			s.logger.Warn("VIN mismatch between license and registration",
				"archive", row.source,
				"license_vin", row.licenseVIN,
				"registration_vin", row.registrationVIN)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("exported archives to workbook", "archives", len(results))
	return buf.Bytes(), nil
}

// flattenArchive picks, per document type, the first record carrying each
// field. The transfer page's new-owner name wins over the registration page's
// when both exist: it reflects the most recent ownership change.
func flattenArchive(result ArchiveResult) exportRow {
	row := exportRow{source: result.ArchiveName}
	if row.source == "" && len(result.Documents) > 0 {
		row.source = filepath.Base(filepath.Dir(result.Documents[0].FilePath))
	}

	var registrationNewOwner, transferNewOwner string

	for _, doc := range result.Documents {
		info := doc.VehicleInfo
		switch doc.DocType {
		case dto.DocTypeLicense:
			if row.licenseVIN == "" {
				row.licenseVIN = info.VIN
			}
			if row.ownerName == "" {
				row.ownerName = info.OwnerName
			}
		case dto.DocTypeRegistration:
			if row.registrationVIN == "" {
				row.registrationVIN = info.VIN
			}
			if registrationNewOwner == "" {
				registrationNewOwner = info.NewOwnerName
			}
		case dto.DocTypeRegistrationTransfer:
			if row.registrationVIN == "" {
				row.registrationVIN = info.VIN
			}
			if transferNewOwner == "" {
				transferNewOwner = info.NewOwnerName
			}
		case dto.DocTypeInvoice:
			if row.invoiceVIN == "" {
				row.invoiceVIN = info.VIN
			}
			if row.invoiceAmount == "" {
				row.invoiceAmount = info.InvoiceAmount
			}
		}
	}

	row.newOwnerName = transferNewOwner
	if row.newOwnerName == "" {
		row.newOwnerName = registrationNewOwner
	}
	return row
}

func vinMismatch(licenseVIN, registrationVIN string) bool {
	return licenseVIN != "" && registrationVIN != "" && licenseVIN != registrationVIN
}

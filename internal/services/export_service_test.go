package services

import (
	"bytes"
	"testing"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildClientWorkbook(t *testing.T) {
	client := &models.Client{
		Name:            "Maria Santos",
		Email:           "maria@example.com",
		DiveCount:       3,
		DiveDate:        "2026-08-15",
		InvoiceAmount:   100,
		Discount:        5,
		VATRate:         0.22,
		Nationality:     models.NationalityPortuguese,
		FirstEmailSent:  true,
		ManualEmailSent: false,
		AddedBy:         "admin",
	}
	service := NewExportService(newFakeClientRepo(client))

	data, fileName, err := service.BuildClientWorkbook()
	require.NoError(t, err)
	assert.Equal(t, ExportFileName, fileName)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExportSheetName}, f.GetSheetList())

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])

	row := rows[1]
	assert.Equal(t, "admin", row[0])
	assert.Equal(t, "Maria Santos", row[1])
	assert.Equal(t, "maria@example.com", row[2])
	assert.Equal(t, "3", row[3])
	assert.Equal(t, "2026/08/15", row[4])
	assert.Equal(t, models.NationalityPortuguese, row[5])
	assert.Equal(t, "Sim", row[6])
	assert.Equal(t, "Não", row[7])
	assert.Equal(t, "Não", row[8])

	// Money columns carry raw numbers; the euro rendering is a cell style.
	invoice, err := f.GetCellValue(ExportSheetName, "J2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "100", invoice)
	withVAT, err := f.GetCellValue(ExportSheetName, "K2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "122", withVAT)
	vat, err := f.GetCellValue(ExportSheetName, "L2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "22", vat)
	discount, err := f.GetCellValue(ExportSheetName, "M2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "5", discount)
}

func TestBuildClientWorkbookEmpty(t *testing.T) {
	service := NewExportService(newFakeClientRepo())

	data, _, err := service.BuildClientWorkbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeaders, rows[0])
}

func TestExportColumnWidthsFollowContent(t *testing.T) {
	client := &models.Client{
		Name:     "A Name Much Longer Than The Header Itself Indeed",
		Email:    "short@example.com",
		DiveDate: "2026-08-15",
	}
	service := NewExportService(newFakeClientRepo(client))

	data, _, err := service.BuildClientWorkbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	nameWidth, err := f.GetColWidth(ExportSheetName, "B")
	require.NoError(t, err)
	assert.InDelta(t, float64(len(client.Name))+exportColumnPadding, nameWidth, 0.01)
}

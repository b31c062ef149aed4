package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"

	"github.com/xuri/excelize/v2"
)

// Workbook layout. Headers stay in Portuguese: the spreadsheet is the
// shop-facing artifact and its format predates this backend.
const (
	ExportSheetName = "Clientes"
	ExportFileName  = "Clientes_Atlantic_Diving_Center.xlsx"

	euroNumberFormat = `#,##0.00" €"`
	// Column widths follow the longest cell value plus this padding.
	exportColumnPadding = 5.0
)

var exportHeaders = []string{
	"Adicionado por", "Nome", "Email", "Nº Mergulhos", "Data Mergulho",
	"Nacionalidade", "1º Email Enviado", "2º Email Enviado", "Email Manual",
	"Valor(€)", "Valor com Iva", "IVA", "Desconto",
}

// Money columns (1-based): Valor(€) .. Desconto.
const (
	firstMoneyColumn = 10
	lastMoneyColumn  = 13
)

// --- ExportService Interface ---
type ExportService interface {
	// BuildClientWorkbook renders every client into an xlsx workbook and
	// returns its bytes plus the download file name.
	BuildClientWorkbook() ([]byte, string, error)
}

type exportService struct {
	clientRepo repositories.ClientRepository
}

// NewExportService creates a new instance of ExportService.
func NewExportService(clientRepo repositories.ClientRepository) ExportService {
	return &exportService{clientRepo: clientRepo}
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// exportRow flattens one client into the workbook column order.
func exportRow(client *models.Client) []interface{} {
	diveDate := client.DiveDate
	if parsed, err := time.Parse("2006-01-02", client.DiveDate); err == nil {
		diveDate = parsed.Format("2006/01/02")
	}
	return []interface{}{
		client.AddedBy,
		client.Name,
		client.Email,
		client.DiveCount,
		diveDate,
		client.Nationality,
		yesNo(client.FirstEmailSent),
		yesNo(client.SecondEmailSent),
		yesNo(client.ManualEmailSent),
		client.InvoiceAmount,
		client.InvoiceAmount * (1 + client.VATRate),
		client.InvoiceAmount * client.VATRate,
		client.Discount,
	}
}

func cellDisplayWidth(value interface{}) float64 {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	default:
		s = fmt.Sprint(v)
	}
	return float64(len([]rune(s)))
}

func (s *exportService) BuildClientWorkbook() ([]byte, string, error) {
	clients, err := s.clientRepo.GetAllClients()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load clients for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name export sheet: %w", err)
	}

	widths := make([]float64, len(exportHeaders))
	setCell := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if w := cellDisplayWidth(value); w > widths[col-1] {
			widths[col-1] = w
		}
		return f.SetCellValue(ExportSheetName, cell, value)
	}

	for col, header := range exportHeaders {
		if err := setCell(col+1, 1, header); err != nil {
			return nil, "", fmt.Errorf("failed to write export header: %w", err)
		}
	}
	for i := range clients {
		for col, value := range exportRow(&clients[i]) {
			if err := setCell(col+1, i+2, value); err != nil {
				return nil, "", fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	lastRow := len(clients) + 1
	lastCell, err := excelize.CoordinatesToCellName(len(exportHeaders), lastRow)
	if err != nil {
		return nil, "", fmt.Errorf("failed to compute export range: %w", err)
	}

	alignment := &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	baseStyle, err := f.NewStyle(&excelize.Style{Alignment: alignment})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create base style: %w", err)
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", lastCell, baseStyle); err != nil {
		return nil, "", fmt.Errorf("failed to apply base style: %w", err)
	}

	if len(clients) > 0 {
		euroFormat := euroNumberFormat
		moneyStyle, err := f.NewStyle(&excelize.Style{Alignment: alignment, CustomNumFmt: &euroFormat})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create money style: %w", err)
		}
		firstMoneyCell, err := excelize.CoordinatesToCellName(firstMoneyColumn, 2)
		if err != nil {
			return nil, "", fmt.Errorf("failed to compute money range: %w", err)
		}
		lastMoneyCell, err := excelize.CoordinatesToCellName(lastMoneyColumn, lastRow)
		if err != nil {
			return nil, "", fmt.Errorf("failed to compute money range: %w", err)
		}
		if err := f.SetCellStyle(ExportSheetName, firstMoneyCell, lastMoneyCell, moneyStyle); err != nil {
			return nil, "", fmt.Errorf("failed to apply money style: %w", err)
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(ExportSheetName, name, name, width+exportColumnPadding); err != nil {
			return nil, "", fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), ExportFileName, nil
}

// Package export writes month views to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"controlgastos/internal/core"
	"controlgastos/internal/ledger"
)

var headers = []string{"Título", "Monto", "Vencimiento", "Estado", "Método", "Factura", "Categoría", "Notas"}

var statusLabels = map[string]string{
	"pending": "Pendiente",
	"paid":    "Pagado",
	"overdue": "Vencido",
}

// MonthXLSX writes the month view as an xlsx workbook: one row per
// payment plus a summary block with the KPI aggregates.
func MonthXLSX(w io.Writer, v ledger.MonthView) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(v.Year, v.Month)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, p := range v.Payments {
		status := p.Status
		if p.IsOverdue(time.Now()) {
			status = core.StatusOverdue
		}
		values := []any{
			p.DisplayTitle(),
			p.Amount.Decimal(),
			p.DueDate.String(),
			statusLabels[string(status)],
			p.Method,
			p.InvoiceNumber,
			p.Category,
			p.Notes,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	summaryRow := len(v.Payments) + 3
	summary := [][2]any{
		{"Total pendiente", v.TotalPending.Decimal()},
		{"Total pagado", v.TotalPaid.Decimal()},
		{"Vencidos", v.OverdueCount},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err := f.SetCellValue(sheet, labelCell, pair[0]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if err := f.SetCellValue(sheet, valueCell, pair[1]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Filename returns the suggested file name for a month export.
func Filename(year, month int) string {
	return fmt.Sprintf("pagos-%04d-%02d.xlsx", year, month)
}

func sheetName(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

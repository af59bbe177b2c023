package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"controlgastos/internal/core"
	"controlgastos/internal/ledger"
)

func TestMonthXLSX(t *testing.T) {
	payments := []core.Payment{
		{
			ID: "p1", CompanyID: "co-1", Title: "Luz",
			Amount:  core.Money{Cents: 4590},
			DueDate: core.NewDate(2025, 7, 10),
			Status:  core.StatusPaid,
		},
		{
			ID: "p2", CompanyID: "co-1",
			Reference: "Internet (Fac: A-1)",
			Amount:    core.Money{Cents: 2500},
			DueDate:   core.NewDate(2025, 7, 20),
			Status:    core.StatusPending,
		},
	}
	v := ledger.BuildMonthView(payments, 2025, 7, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := MonthXLSX(&buf, v); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "2025-07" {
		t.Fatalf("sheets: got %v", sheets)
	}

	got, err := f.GetCellValue("2025-07", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Luz" {
		t.Errorf("A2: got %q", got)
	}

	// The legacy reference payment exports its decoded title.
	got, err = f.GetCellValue("2025-07", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Internet" {
		t.Errorf("A3: got %q", got)
	}

	// Summary block sits two rows below the table.
	label, err := f.GetCellValue("2025-07", "A5")
	if err != nil {
		t.Fatal(err)
	}
	if label != "Total pendiente" {
		t.Errorf("A5: got %q", label)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(2025, 7); got != "pagos-2025-07.xlsx" {
		t.Errorf("got %q", got)
	}
}

package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

// writeXLSX builds a workbook with the raw transactions and the category
// summary, in the snapshot's deterministic ordering.
func (e *Exporter) writeXLSX(path string, req Request) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetTransactions)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1565C0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		NumFmt:    4, // #,##0.00
	})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	headers := []string{"Date", "Type", "Category", "Description", "Amount"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetTransactions, cell, h); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetTransactions, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, tx := range req.Transactions {
		row := i + 2
		f.SetCellValue(sheetTransactions, fmt.Sprintf("A%d", row), tx.Date.String())
		f.SetCellValue(sheetTransactions, fmt.Sprintf("B%d", row), string(tx.Type))
		f.SetCellValue(sheetTransactions, fmt.Sprintf("C%d", row), tx.Category)
		f.SetCellValue(sheetTransactions, fmt.Sprintf("D%d", row), tx.Description)
		f.SetCellValue(sheetTransactions, fmt.Sprintf("E%d", row), tx.Amount.Dollars())
	}
	if n := len(req.Transactions); n > 0 {
		if err := f.SetCellStyle(sheetTransactions,
			"E2", fmt.Sprintf("E%d", n+1), moneyStyle); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}
	f.SetColWidth(sheetTransactions, "A", "A", 12)
	f.SetColWidth(sheetTransactions, "B", "C", 14)
	f.SetColWidth(sheetTransactions, "D", "D", 30)
	f.SetColWidth(sheetTransactions, "E", "E", 14)

	if err := e.xlsxSummarySheet(f, req, headerStyle, moneyStyle); err != nil {
		return err
	}

	idx, err := f.GetSheetIndex(sheetTransactions)
	if err != nil {
		return fmt.Errorf("sheet index: %w", err)
	}
	f.SetActiveSheet(idx)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (e *Exporter) xlsxSummarySheet(f *excelize.File, req Request, headerStyle, moneyStyle int) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	snap := req.Snapshot

	f.SetCellValue(sheetSummary, "A1", fmt.Sprintf("Summary (%s)", req.PeriodLabel))
	f.MergeCell(sheetSummary, "A1", "C1")
	f.SetCellStyle(sheetSummary, "A1", "C1", headerStyle)

	kpis := []struct {
		label string
		value float64
	}{
		{"Income", snap.Income.Dollars()},
		{"Expense", snap.Expense.Dollars()},
		{"Net", snap.Net.Dollars()},
	}
	for i, k := range kpis {
		row := i + 2
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), k.label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), k.value)
	}
	f.SetCellStyle(sheetSummary, "B2", "B4", moneyStyle)

	f.SetCellValue(sheetSummary, "A6", "Category")
	f.SetCellValue(sheetSummary, "B6", "Amount")
	f.SetCellValue(sheetSummary, "C6", "% of expense")
	f.SetCellStyle(sheetSummary, "A6", "C6", headerStyle)

	row := 7
	for _, ct := range snap.Categories {
		pct := 0.0
		if snap.Expense.Cents > 0 {
			pct = float64(ct.Amount.Cents) / float64(snap.Expense.Cents) * 100
		}
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), ct.Category)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), ct.Amount.Dollars())
		f.SetCellValue(sheetSummary, fmt.Sprintf("C%d", row), fmt.Sprintf("%.1f%%", pct))
		row++
	}
	if row > 7 {
		f.SetCellStyle(sheetSummary, "B7", fmt.Sprintf("B%d", row-1), moneyStyle)
	}
	f.SetColWidth(sheetSummary, "A", "A", 20)
	f.SetColWidth(sheetSummary, "B", "B", 14)
	f.SetColWidth(sheetSummary, "C", "C", 14)
	return nil
}

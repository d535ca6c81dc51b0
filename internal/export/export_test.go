package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/santty1906/finanzas-pro-plus/internal/charts"
	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

func testRequest(formats ...Format) Request {
	txs := []core.Transaction{
		{Date: core.NewDate(2025, 9, 10), Type: core.Income, Category: "sales", Description: "invoice", Amount: core.Money{Cents: 100000}},
		{Date: core.NewDate(2025, 10, 3), Type: core.Expense, Category: "food", Amount: core.Money{Cents: -30000}},
		{Date: core.NewDate(2025, 10, 4), Type: core.Expense, Category: "rent", Amount: core.Money{Cents: -20000}},
	}
	s := metrics.Defaults()
	return Request{
		Transactions: txs,
		Snapshot:     metrics.Compute(txs, s),
		PeriodLabel:  "all",
		Settings:     s,
		ChartOptions: charts.Options{TopN: 6, MovingAvgWindow: 5},
		Formats:      formats,
	}
}

func TestExportBundle(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, "", log.New(log.DefaultConfig()))

	res := e.Export(testRequest(FormatPNG, FormatMD, FormatXLSX, FormatZIP))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	// 6 charts + report.md + workbook + bundle.
	if len(res.Written) != 9 {
		t.Fatalf("written %d files: %v", len(res.Written), res.Written)
	}
	for _, p := range res.Written {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "# Finance Report (all)") {
		t.Fatalf("report content: %s", md)
	}
}

func TestExportZIPEntries(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, "", log.New(log.DefaultConfig()))

	if res := e.Export(testRequest(FormatZIP)); len(res.Errors) != 0 {
		t.Fatalf("export: %v", res.Errors)
	}
	zr, err := zip.OpenReader(filepath.Join(dir, "report_bundle.zip"))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	// report.md plus one entry per chart, in the fixed order.
	if len(zr.File) != len(charts.Kinds)+1 {
		t.Fatalf("zip has %d entries", len(zr.File))
	}
	if zr.File[0].Name != "report.md" {
		t.Fatalf("first entry %q", zr.File[0].Name)
	}
	if zr.File[1].Name != "01_bar.png" {
		t.Fatalf("second entry %q", zr.File[1].Name)
	}
}

func TestExportXLSX(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, "", log.New(log.DefaultConfig()))

	if res := e.Export(testRequest(FormatXLSX)); len(res.Errors) != 0 {
		t.Fatalf("export: %v", res.Errors)
	}
	f, err := excelize.OpenFile(filepath.Join(dir, "transactions.xlsx"))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetTransactions, "A1")
	if err != nil || got != "Date" {
		t.Fatalf("A1 = %q, err %v", got, err)
	}
	cat, err := f.GetCellValue(sheetSummary, "A7")
	if err != nil || cat != "food" {
		t.Fatalf("top category cell = %q, err %v", cat, err)
	}
}

func TestExportPDFFontMissing(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, filepath.Join(dir, "missing.ttf"), log.New(log.DefaultConfig()))

	res := e.Export(testRequest(FormatPDF, FormatMD))
	if len(res.Errors) != 1 {
		t.Fatalf("expected one artifact error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0].Error(), "pdf:") {
		t.Fatalf("error not attributed to pdf: %v", res.Errors[0])
	}
	// The failed artifact must not block the report.
	if _, err := os.Stat(filepath.Join(dir, "report.md")); err != nil {
		t.Fatalf("report.md missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.pdf")); !os.IsNotExist(err) {
		t.Fatalf("partial pdf left behind")
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Fatalf("%s: got %q, err %v", f, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

package report

import (
	"strings"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

func tx(date core.Date, typ core.TransactionType, cat string, cents int64) core.Transaction {
	return core.Transaction{Date: date, Type: typ, Category: cat, Amount: core.Money{Cents: cents}}
}

func sampleData() Data {
	txs := []core.Transaction{
		tx(core.NewDate(2025, 9, 10), core.Income, "sales", 100000),
		tx(core.NewDate(2025, 10, 3), core.Expense, "food", -30000),
		tx(core.NewDate(2025, 10, 4), core.Expense, "rent", -20000),
	}
	s := metrics.Defaults()
	s.OpeningBalance = core.Money{Cents: 150000}
	snap := metrics.Compute(txs, s)
	return Data{
		PeriodLabel:    "all",
		Snapshot:       snap,
		OpeningBalance: s.OpeningBalance,
		ChartFiles:     []string{"01_bar.png", "02_donut.png"},
	}
}

func TestRenderSections(t *testing.T) {
	md, err := Render(sampleData())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Finance Report (all)",
		"**Income:** $1,000.00",
		"**Expense:** $500.00",
		"**Net:** $500.00",
		"- food: $300.00",
		"- rent: $200.00",
		"**Approximate break-even:** income of at least $500.00",
		"- 01_bar.png",
		"- 02_donut.png",
		"> Generated by finanzas-pro-plus",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	d := sampleData()
	first, err := Render(d)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Render(d)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if again != first {
			t.Fatalf("output changed between runs")
		}
	}
}

func TestRenderRunwayNA(t *testing.T) {
	// Positive net means no burn, so no runway estimate.
	md, err := Render(sampleData())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(md, "**Estimated runway:** n/a") {
		t.Fatalf("expected n/a runway:\n%s", md)
	}
}

func TestRenderRunwayApplicable(t *testing.T) {
	txs := []core.Transaction{
		tx(core.NewDate(2025, 10, 3), core.Expense, "rent", -50000),
	}
	s := metrics.Defaults()
	s.OpeningBalance = core.Money{Cents: 150000}
	snap := metrics.Compute(txs, s)
	md, err := Render(Data{PeriodLabel: "2025-10", Snapshot: snap, OpeningBalance: s.OpeningBalance})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(md, "**Estimated runway:** 2.0 months") {
		t.Fatalf("expected runway estimate:\n%s", md)
	}
}

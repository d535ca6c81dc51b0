package charts

import (
	"math"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

func tx(date core.Date, typ core.TransactionType, cat string, cents int64) core.Transaction {
	return core.Transaction{Date: date, Type: typ, Category: cat, Amount: core.Money{Cents: cents}}
}

func fixture() ([]core.Transaction, metrics.Snapshot) {
	txs := []core.Transaction{
		tx(core.NewDate(2025, 9, 25), core.Income, "sales", 90000),
		tx(core.NewDate(2025, 9, 26), core.Expense, "rent", -60000),
		tx(core.NewDate(2025, 9, 27), core.Expense, "marketing", -15000),
		tx(core.NewDate(2025, 10, 2), core.Expense, "rent", -60000),
		tx(core.NewDate(2025, 10, 3), core.Expense, "marketing", -12000),
		tx(core.NewDate(2025, 10, 4), core.Income, "services", 80000),
		tx(core.NewDate(2025, 10, 5), core.Expense, "salaries", -40000),
		tx(core.NewDate(2025, 10, 6), core.Expense, "supplies", -22000),
	}
	return txs, metrics.Compute(txs, metrics.Settings{})
}

func TestPrepareBar(t *testing.T) {
	_, snap := fixture()
	bar := PrepareBar(snap)
	if len(bar.Labels) != 2 || bar.Labels[0] != "Income" {
		t.Fatalf("labels: %+v", bar.Labels)
	}
	if bar.Values[0] != 1700 || bar.Values[1] != 2090 {
		t.Fatalf("values: %+v", bar.Values)
	}
	if bar.Net != -390 {
		t.Fatalf("net line: got %v", bar.Net)
	}
}

func TestPrepareDonutTopN(t *testing.T) {
	_, snap := fixture()
	donut := PrepareDonut(snap, 2)

	// rent and salaries are the two largest; the rest folds into "other".
	if len(donut.Slices) != 3 {
		t.Fatalf("expected 3 slices, got %+v", donut.Slices)
	}
	if donut.Slices[0].Label != "rent" || donut.Slices[1].Label != "salaries" {
		t.Fatalf("slice order: %+v", donut.Slices)
	}
	if donut.Slices[2].Label != OtherBucket {
		t.Fatalf("expected other bucket, got %q", donut.Slices[2].Label)
	}
	var pct float64
	for _, s := range donut.Slices {
		pct += s.Pct
	}
	if math.Abs(pct-100) > 1e-9 {
		t.Fatalf("slice percentages sum to %v", pct)
	}
}

func TestPrepareDonutEmpty(t *testing.T) {
	donut := PrepareDonut(metrics.Compute(nil, metrics.Settings{}), 6)
	if len(donut.Slices) != 0 {
		t.Fatalf("expected no slices, got %+v", donut.Slices)
	}
}

func TestPrepareFlow(t *testing.T) {
	_, snap := fixture()
	flow := PrepareFlow(snap, 3)

	if len(flow.Days) != len(snap.Daily) {
		t.Fatalf("days: got %d", len(flow.Days))
	}
	// Cumulative ends at the overall net.
	last := flow.Cumulative[len(flow.Cumulative)-1]
	if math.Abs(last-snap.Net.Dollars()) > 1e-9 {
		t.Fatalf("cumulative end %v, want %v", last, snap.Net.Dollars())
	}
	// First moving-average value equals the first net value.
	if flow.MovingAvg[0] != flow.Net[0] {
		t.Fatalf("moving avg start: %v vs %v", flow.MovingAvg[0], flow.Net[0])
	}
}

func TestMovingAverage(t *testing.T) {
	got := movingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if movingAverage(nil, 3) != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestPrepareWaterfall(t *testing.T) {
	_, snap := fixture()
	wf := PrepareWaterfall(snap)

	if len(wf.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %+v", wf.Steps)
	}
	sep, oct := wf.Steps[0], wf.Steps[1]
	if !sep.Rising || sep.Bottom != 0 || sep.Height != 150 {
		t.Fatalf("september step: %+v", sep)
	}
	// October net is -540: the bar floats down from September's running 150.
	if oct.Rising || oct.Value != -540 {
		t.Fatalf("october step: %+v", oct)
	}
	if oct.Bottom != 150-540 || oct.Height != 540 {
		t.Fatalf("october geometry: %+v", oct)
	}
}

func TestPrepareBoxplot(t *testing.T) {
	txs, snap := fixture()
	box := PrepareBoxplot(txs, snap)

	if len(box.Groups) != len(snap.Categories) {
		t.Fatalf("group count: got %d", len(box.Groups))
	}
	if box.Groups[0].Category != "rent" {
		t.Fatalf("group order: %+v", box.Groups)
	}
	if len(box.Groups[0].Values) != 2 || box.Groups[0].Values[0] != 600 {
		t.Fatalf("rent values: %+v", box.Groups[0].Values)
	}
}

func TestPreparePareto(t *testing.T) {
	_, snap := fixture()
	pareto := PreparePareto(snap)

	if len(pareto.Points) != len(snap.Categories) {
		t.Fatalf("point count: got %d", len(pareto.Points))
	}
	prev := 0.0
	for _, p := range pareto.Points {
		if p.CumulativePct < prev {
			t.Fatalf("cumulative pct decreased: %+v", pareto.Points)
		}
		prev = p.CumulativePct
	}
	if math.Abs(prev-100) > 1e-9 {
		t.Fatalf("cumulative pct ends at %v, want 100", prev)
	}
	// Descending by value.
	for i := 1; i < len(pareto.Points); i++ {
		if pareto.Points[i].Value > pareto.Points[i-1].Value {
			t.Fatalf("values not descending: %+v", pareto.Points)
		}
	}
}

func TestPreparePareto_Empty(t *testing.T) {
	pareto := PreparePareto(metrics.Compute(nil, metrics.Settings{}))
	if len(pareto.Points) != 0 {
		t.Fatalf("expected empty series, got %+v", pareto.Points)
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Fatalf("%q should be valid", k)
		}
	}
	if Kind("sparkline").Valid() {
		t.Fatalf("unknown kind should be invalid")
	}
}

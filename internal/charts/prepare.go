// Package charts shapes metric snapshots into per-chart series and renders
// them to PNG. Preparers are deterministic and ordering sensitive: ties are
// broken by the stable order of the underlying data.
package charts

import (
	"time"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

// Kind names one of the supported chart types.
type Kind string

const (
	KindBar       Kind = "bar"
	KindDonut     Kind = "donut"
	KindFlow      Kind = "flow"
	KindWaterfall Kind = "waterfall"
	KindBoxplot   Kind = "boxplot"
	KindPareto    Kind = "pareto"
)

// Kinds lists every chart type in export order.
var Kinds = []Kind{KindBar, KindDonut, KindFlow, KindWaterfall, KindBoxplot, KindPareto}

// Valid reports whether k names a known chart type.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// OtherBucket is the label of the aggregated tail in top-N groupings.
const OtherBucket = "other"

type (
	// BarSeries drives the income-vs-expense bar chart.
	BarSeries struct {
		Labels []string
		Values []float64 // dollars, same order as Labels
		Net    float64   // reference line
	}

	DonutSlice struct {
		Label string
		Value float64
		Pct   float64
	}

	// DonutSeries is the top-N category share chart.
	DonutSeries struct {
		Slices []DonutSlice
	}

	// FlowSeries is the daily net line with moving average and cumulative.
	FlowSeries struct {
		Days       []time.Time
		Net        []float64
		MovingAvg  []float64
		Cumulative []float64
		Window     int
	}

	WaterfallStep struct {
		Month  string
		Value  float64 // monthly net, signed
		Bottom float64 // where the floating bar starts
		Height float64 // positive bar height
		Rising bool
	}

	// WaterfallSeries sequences monthly nets into running-balance steps.
	WaterfallSeries struct {
		Steps []WaterfallStep
	}

	BoxGroup struct {
		Category string
		Values   []float64 // expense magnitudes, input order
	}

	// BoxplotSeries is the per-category expense distribution chart.
	BoxplotSeries struct {
		Groups []BoxGroup
	}

	ParetoPoint struct {
		Category      string
		Value         float64
		Pct           float64 // share of total expense
		CumulativePct float64
	}

	// ParetoSeries orders categories descending with cumulative percentage.
	ParetoSeries struct {
		Points []ParetoPoint
	}
)

// PrepareBar shapes the income/expense totals.
func PrepareBar(snap metrics.Snapshot) BarSeries {
	return BarSeries{
		Labels: []string{"Income", "Expense"},
		Values: []float64{snap.Income.Dollars(), snap.Expense.Dollars()},
		Net:    snap.Net.Dollars(),
	}
}

// PrepareDonut keeps the topN largest categories and folds the rest into a
// single "other" slice. Percentages are shares of total expense.
func PrepareDonut(snap metrics.Snapshot, topN int) DonutSeries {
	if topN <= 0 {
		topN = 6
	}
	total := snap.Expense.Dollars()
	if total == 0 {
		return DonutSeries{}
	}

	var out DonutSeries
	var rest float64
	for i, ct := range snap.Categories {
		v := ct.Amount.Dollars()
		if i < topN {
			out.Slices = append(out.Slices, DonutSlice{Label: ct.Category, Value: v, Pct: v / total * 100})
		} else {
			rest += v
		}
	}
	if rest > 0 {
		out.Slices = append(out.Slices, DonutSlice{Label: OtherBucket, Value: rest, Pct: rest / total * 100})
	}
	return out
}

// PrepareFlow builds the daily net series plus its moving average and
// running cumulative sum.
func PrepareFlow(snap metrics.Snapshot, window int) FlowSeries {
	if window < 1 {
		window = 1
	}
	out := FlowSeries{Window: window}
	var running float64
	for _, d := range snap.Daily {
		out.Days = append(out.Days, d.Date.Time)
		v := d.Net.Dollars()
		out.Net = append(out.Net, v)
		running += v
		out.Cumulative = append(out.Cumulative, running)
	}
	out.MovingAvg = movingAverage(out.Net, window)
	return out
}

// movingAverage is a trailing mean over up to window values.
func movingAverage(vals []float64, window int) []float64 {
	if len(vals) == 0 {
		return nil
	}
	out := make([]float64, len(vals))
	var sum float64
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// PrepareWaterfall sequences the monthly nets by date into floating bars
// whose bottoms track the running balance.
func PrepareWaterfall(snap metrics.Snapshot) WaterfallSeries {
	var out WaterfallSeries
	var running float64
	for _, m := range snap.Monthly {
		v := m.Net.Dollars()
		step := WaterfallStep{Month: m.Month, Value: v, Rising: v >= 0}
		if v >= 0 {
			step.Bottom = running
			step.Height = v
		} else {
			step.Bottom = running + v
			step.Height = -v
		}
		running += v
		out.Steps = append(out.Steps, step)
	}
	return out
}

// PrepareBoxplot groups individual expense magnitudes by category. Groups
// follow the snapshot's category order; values keep input order.
func PrepareBoxplot(txs []core.Transaction, snap metrics.Snapshot) BoxplotSeries {
	byCat := make(map[string][]float64)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		byCat[tx.Category] = append(byCat[tx.Category], tx.Amount.Abs().Dollars())
	}
	var out BoxplotSeries
	for _, ct := range snap.Categories {
		out.Groups = append(out.Groups, BoxGroup{Category: ct.Category, Values: byCat[ct.Category]})
	}
	return out
}

// PreparePareto orders categories by descending spend with cumulative
// percentages. The cumulative series is non-decreasing and ends at 100
// up to floating-point rounding.
func PreparePareto(snap metrics.Snapshot) ParetoSeries {
	total := snap.Expense.Dollars()
	if total == 0 {
		return ParetoSeries{}
	}
	var out ParetoSeries
	var cum float64
	for _, ct := range snap.Categories {
		v := ct.Amount.Dollars()
		pct := v / total * 100
		cum += pct
		out.Points = append(out.Points, ParetoPoint{
			Category:      ct.Category,
			Value:         v,
			Pct:           pct,
			CumulativePct: cum,
		})
	}
	return out
}

// Package metrics computes the financial summary every chart and report
// consumes. Compute is a pure function of the transaction list and the
// settings: identical input always yields a deeply equal Snapshot.
package metrics

import (
	"fmt"
	"sort"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
)

// Settings are the configurable thresholds of the engine. Zero values are
// replaced by Defaults() so a partially filled struct is usable.
type Settings struct {
	OpeningBalance   core.Money
	TargetSavingsPct float64            // % of income to save
	BufferMonths     float64            // months of expense to keep covered
	CategoryCapsPct  map[string]float64 // category -> max % of total expense
	GrowthAlertPct   float64            // MoM expense growth alert threshold
}

// Defaults returns the shipped threshold configuration.
func Defaults() Settings {
	return Settings{
		TargetSavingsPct: 10,
		BufferMonths:     3,
		GrowthAlertPct:   20,
	}
}

type (
	// CategoryTotal is one expense category with its positive total.
	CategoryTotal struct {
		Category string
		Amount   core.Money
	}

	// DayNet is the net flow of a single calendar day.
	DayNet struct {
		Date core.Date
		Net  core.Money
	}

	// MonthFlow aggregates one calendar month.
	MonthFlow struct {
		Month   string // "2006-01"
		Income  core.Money
		Expense core.Money // positive magnitude
		Net     core.Money
	}

	// Runway is months of funds left at the current average burn. It is not
	// applicable when the average monthly net is non-negative or there is
	// no monthly history, so callers must check Applicable before Months.
	Runway struct {
		Months     float64
		Applicable bool
	}

	// Alert flags a threshold breach worth the user's attention.
	Alert struct {
		Kind     AlertKind
		Category string // set for category-cap alerts
		Message  string
	}

	AlertKind string

	// Snapshot is the derived view of a transaction set. It is recomputed
	// on demand and never persisted independently of its source data.
	Snapshot struct {
		Transactions int

		Income  core.Money
		Expense core.Money // positive magnitude
		Net     core.Money

		Categories []CategoryTotal // expenses, descending, ties by first appearance
		Daily      []DayNet        // ascending by date
		Monthly    []MonthFlow     // ascending by month key

		AvgMonthlyNet core.Money
		BreakEven     core.Money // income needed to cover expenses
		Runway        Runway

		TargetSavingsPct float64
		ActualSavingsPct float64
		SavingsGapPct    float64 // target - actual; positive means short of target

		Alerts          []Alert
		Recommendations []string
	}
)

const (
	AlertCategoryCap   AlertKind = "category_cap"
	AlertExpenseGrowth AlertKind = "expense_growth"
	AlertExpenseDrop   AlertKind = "expense_drop"
)

// Compute derives a Snapshot from txs. The input slice is never mutated.
// An empty input yields zero totals and a not-applicable runway.
func Compute(txs []core.Transaction, s Settings) Snapshot {
	s = withDefaults(s)

	snap := Snapshot{
		Transactions:     len(txs),
		TargetSavingsPct: s.TargetSavingsPct,
	}

	catTotals := map[string]int64{}
	catOrder := map[string]int{}
	dayTotals := map[string]int64{}
	monthIncome := map[string]int64{}
	monthExpense := map[string]int64{}

	for i, tx := range txs {
		cents := tx.Amount.Cents
		if tx.Type == core.Income {
			snap.Income.Cents += cents
			monthIncome[tx.Date.MonthKey()] += cents
		} else {
			snap.Expense.Cents += -cents
			monthExpense[tx.Date.MonthKey()] += -cents
			if _, ok := catOrder[tx.Category]; !ok {
				catOrder[tx.Category] = i
			}
			catTotals[tx.Category] += -cents
		}
		dayTotals[tx.Date.String()] += cents
	}
	snap.Net = snap.Income.Sub(snap.Expense)
	snap.BreakEven = snap.Expense

	snap.Categories = sortedCategories(catTotals, catOrder)
	snap.Daily = sortedDaily(dayTotals)
	snap.Monthly = sortedMonthly(monthIncome, monthExpense)

	if n := len(snap.Monthly); n > 0 {
		var sum int64
		for _, m := range snap.Monthly {
			sum += m.Net.Cents
		}
		snap.AvgMonthlyNet = core.Money{Cents: sum / int64(n)}
	}

	snap.Runway = computeRunway(s.OpeningBalance, snap.Net, snap.AvgMonthlyNet, len(snap.Monthly))

	if snap.Income.Cents > 0 {
		snap.ActualSavingsPct = float64(snap.Net.Cents) / float64(snap.Income.Cents) * 100
	}
	snap.SavingsGapPct = s.TargetSavingsPct - snap.ActualSavingsPct

	snap.Alerts = computeAlerts(snap, s)
	snap.Recommendations = computeRecommendations(snap, s)
	return snap
}

func withDefaults(s Settings) Settings {
	d := Defaults()
	if s.TargetSavingsPct == 0 {
		s.TargetSavingsPct = d.TargetSavingsPct
	}
	if s.BufferMonths == 0 {
		s.BufferMonths = d.BufferMonths
	}
	if s.GrowthAlertPct == 0 {
		s.GrowthAlertPct = d.GrowthAlertPct
	}
	return s
}

func sortedCategories(totals map[string]int64, order map[string]int) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for cat, cents := range totals {
		out = append(out, CategoryTotal{Category: cat, Amount: core.Money{Cents: cents}})
	}
	// Descending by amount; ties keep first-appearance order so the result
	// is stable across runs.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return order[out[i].Category] < order[out[j].Category]
	})
	return out
}

func sortedDaily(totals map[string]int64) []DayNet {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DayNet, 0, len(keys))
	for _, k := range keys {
		d, _ := core.ParseDate(k)
		out = append(out, DayNet{Date: d, Net: core.Money{Cents: totals[k]}})
	}
	return out
}

func sortedMonthly(income, expense map[string]int64) []MonthFlow {
	keys := make(map[string]struct{}, len(income)+len(expense))
	for k := range income {
		keys[k] = struct{}{}
	}
	for k := range expense {
		keys[k] = struct{}{}
	}
	months := make([]string, 0, len(keys))
	for k := range keys {
		months = append(months, k)
	}
	sort.Strings(months)

	out := make([]MonthFlow, 0, len(months))
	for _, m := range months {
		inc := core.Money{Cents: income[m]}
		exp := core.Money{Cents: expense[m]}
		out = append(out, MonthFlow{Month: m, Income: inc, Expense: exp, Net: inc.Sub(exp)})
	}
	return out
}

func computeRunway(opening, net, avgMonthlyNet core.Money, months int) Runway {
	if months == 0 || avgMonthlyNet.Cents >= 0 {
		return Runway{}
	}
	funds := opening.Add(net)
	if funds.Cents <= 0 {
		return Runway{Applicable: true}
	}
	return Runway{
		Months:     float64(funds.Cents) / float64(-avgMonthlyNet.Cents),
		Applicable: true,
	}
}

func computeAlerts(snap Snapshot, s Settings) []Alert {
	var alerts []Alert

	// Month-over-month expense growth, compared against the previous month.
	if n := len(snap.Monthly); n >= 2 {
		last := snap.Monthly[n-1]
		prev := snap.Monthly[n-2]
		if prev.Expense.Cents > 0 {
			growth := (float64(last.Expense.Cents)/float64(prev.Expense.Cents) - 1) * 100
			if growth > s.GrowthAlertPct {
				alerts = append(alerts, Alert{
					Kind: AlertExpenseGrowth,
					Message: fmt.Sprintf("expenses grew %.1f%% vs %s; review one-off increases",
						growth, prev.Month),
				})
			} else if growth < -s.GrowthAlertPct {
				alerts = append(alerts, Alert{
					Kind: AlertExpenseDrop,
					Message: fmt.Sprintf("expenses dropped %.1f%% vs %s; keep it up",
						-growth, prev.Month),
				})
			}
		}
	}

	if snap.Expense.Cents == 0 || len(s.CategoryCapsPct) == 0 {
		return alerts
	}
	// Category caps are checked in the snapshot's category order so alert
	// output is deterministic.
	for _, ct := range snap.Categories {
		capPct, ok := s.CategoryCapsPct[ct.Category]
		if !ok {
			continue
		}
		usage := float64(ct.Amount.Cents) / float64(snap.Expense.Cents) * 100
		if usage > capPct {
			alerts = append(alerts, Alert{
				Kind:     AlertCategoryCap,
				Category: ct.Category,
				Message: fmt.Sprintf("%s is %.1f%% of total expense, above the %.1f%% cap; consider reducing",
					ct.Category, usage, capPct),
			})
		}
	}
	return alerts
}

func computeRecommendations(snap Snapshot, s Settings) []string {
	var recs []string

	// Propose cutting up to 20% of each top category until the savings gap
	// amount is covered.
	if snap.Income.Cents > 0 && snap.SavingsGapPct > 0 {
		gapCents := int64(float64(snap.Income.Cents) * snap.SavingsGapPct / 100)
		remaining := gapCents
		var cuts []string
		for i, ct := range snap.Categories {
			if i >= 3 || remaining <= 100 {
				break
			}
			cut := ct.Amount.Cents / 5
			if cut > remaining {
				cut = remaining
			}
			if cut <= 0 {
				continue
			}
			pct := float64(cut) / float64(ct.Amount.Cents) * 100
			cuts = append(cuts, fmt.Sprintf("%s: cut %s (~%.0f%% of that category)",
				ct.Category, core.Money{Cents: cut}.Format(), pct))
			remaining -= cut
		}
		if len(cuts) > 0 {
			recs = append(recs, fmt.Sprintf("to reach the %.1f%% savings target, save an extra %s:",
				s.TargetSavingsPct, core.Money{Cents: gapCents}.Format()))
			recs = append(recs, cuts...)
		}
	}

	if snap.Net.Cents < 0 {
		recs = append(recs, fmt.Sprintf("running a %s deficit; break even with income of at least %s or reduce expenses",
			snap.Net.Abs().Format(), snap.BreakEven.Format()))
	}
	return recs
}

// TopCategories returns the n largest expense categories.
func (s Snapshot) TopCategories(n int) []CategoryTotal {
	if n > len(s.Categories) {
		n = len(s.Categories)
	}
	return s.Categories[:n]
}

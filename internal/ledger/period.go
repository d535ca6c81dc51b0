package ledger

import (
	"fmt"
	"time"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
)

// Period selects a slice of the ledger: everything, one calendar month, or
// an inclusive date range.
type Period struct {
	Month string // "2006-01"; empty means no month filter
	Start core.Date
	End   core.Date
}

// All matches every transaction.
var All = Period{}

// ParsePeriod builds a Period from the month / start / end tokens used by
// both the CLI flags and the HTTP query parameters. Month wins when set.
func ParsePeriod(month, start, end string) (Period, error) {
	var p Period
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return Period{}, fmt.Errorf("month %q: %w", month, core.ErrInvalidDate)
		}
		p.Month = month
		return p, nil
	}
	if start != "" {
		d, err := core.ParseDate(start)
		if err != nil {
			return Period{}, fmt.Errorf("start %q: %w", start, err)
		}
		p.Start = d
	}
	if end != "" {
		d, err := core.ParseDate(end)
		if err != nil {
			return Period{}, fmt.Errorf("end %q: %w", end, err)
		}
		p.End = d
	}
	return p, nil
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d core.Date) bool {
	if p.Month != "" {
		return d.MonthKey() == p.Month
	}
	if !p.Start.IsZero() && d.Before(p.Start.Time) {
		return false
	}
	if !p.End.IsZero() && d.After(p.End.Time) {
		return false
	}
	return true
}

// IsAll reports whether the period places no restriction.
func (p Period) IsAll() bool {
	return p.Month == "" && p.Start.IsZero() && p.End.IsZero()
}

// Label renders the period for report titles and export file names. Open
// range ends stay blank: "2025-09-01.." or "..2025-12-31".
func (p Period) Label() string {
	switch {
	case p.Month != "":
		return p.Month
	case !p.Start.IsZero() || !p.End.IsZero():
		var start, end string
		if !p.Start.IsZero() {
			start = p.Start.String()
		}
		if !p.End.IsZero() {
			end = p.End.String()
		}
		return start + ".." + end
	default:
		return "all"
	}
}

// Filter returns the transactions inside p, preserving input order.
func Filter(txs []core.Transaction, p Period) []core.Transaction {
	if p.IsAll() {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if p.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

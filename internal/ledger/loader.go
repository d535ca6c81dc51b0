// Package ledger owns the transaction list: loading it from CSV, appending
// to it, merging imports and slicing it by period. The loaded slice is the
// single source of truth for metrics, charts and reports.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
)

// Header is the fixed CSV schema. Column order is validated on load.
var Header = []string{"date", "type", "category", "description", "amount"}

// RowError records a skipped CSV row. Row is 1-based and counts the header.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

var ErrBadHeader = errors.New("unexpected csv header")

// Load reads every row of the CSV at path. Malformed rows are skipped and
// collected as RowErrors so a single bad row never aborts the whole load;
// only file-level failures return a non-nil error.
func Load(path string) ([]core.Transaction, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	txs, warns, err := Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return txs, warns, nil
}

// Read parses transactions from an open CSV stream.
func Read(r io.Reader) ([]core.Transaction, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width is validated per record

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrBadHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		txs   []core.Transaction
		warns []RowError
	)
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			warns = append(warns, RowError{Row: row, Reason: err.Error()})
			continue
		}
		tx, err := parseRecord(rec)
		if err != nil {
			warns = append(warns, RowError{Row: row, Reason: err.Error()})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, warns, nil
}

func checkHeader(got []string) error {
	if len(got) != len(Header) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrBadHeader, len(got), len(Header))
	}
	for i, want := range Header {
		if strings.ToLower(strings.TrimSpace(got[i])) != want {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, got[i], want)
		}
	}
	return nil
}

func parseRecord(rec []string) (core.Transaction, error) {
	if len(rec) != len(Header) {
		return core.Transaction{}, fmt.Errorf("got %d fields, want %d", len(rec), len(Header))
	}
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", rec[0], err)
	}
	typ, err := core.ParseTransactionType(rec[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", rec[1], err)
	}
	category := strings.TrimSpace(rec[2])
	if category == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	cents, err := core.ParseSignedCents(rec[4])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", rec[4], err)
	}
	if cents == 0 {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", rec[4], core.ErrInvalidAmount)
	}
	// Unsigned CSV amounts inherit their sign from the type column. A sign
	// written out explicitly must agree with it.
	signed := strings.HasPrefix(strings.TrimSpace(rec[4]), "-")
	if signed && typ == core.Income {
		return core.Transaction{}, core.ErrSignMismatch
	}
	if typ == core.Expense && cents > 0 {
		cents = -cents
	}

	tx := core.Transaction{
		Date:        date,
		Type:        typ,
		Category:    category,
		Description: strings.TrimSpace(rec[3]),
		Amount:      core.Money{Cents: cents},
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

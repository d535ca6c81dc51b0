package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
)

// EnsureFile creates the ledger CSV with its header when it does not exist.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append validates tx and adds it to the end of the ledger file.
func Append(path string, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := EnsureFile(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record(tx)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Import merges every valid row of the CSV at source into the ledger at
// target, skipping rows already present (full-tuple match). It returns the
// number of rows added plus the parse warnings from the source file.
func Import(target, source string) (int, []RowError, error) {
	if err := EnsureFile(target); err != nil {
		return 0, nil, err
	}
	existing, _, err := Load(target)
	if err != nil {
		return 0, nil, fmt.Errorf("load target: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, tx := range existing {
		seen[dedupKey(tx)] = struct{}{}
	}

	incoming, warns, err := Load(source)
	if err != nil {
		return 0, nil, fmt.Errorf("load source: %w", err)
	}

	added := 0
	for _, tx := range incoming {
		key := dedupKey(tx)
		if _, dup := seen[key]; dup {
			continue
		}
		if err := Append(target, tx); err != nil {
			return added, warns, fmt.Errorf("append imported row: %w", err)
		}
		seen[key] = struct{}{}
		added++
	}
	return added, warns, nil
}

func record(tx core.Transaction) []string {
	// Amounts are stored unsigned; the type column carries the sign.
	cents := tx.Amount.Abs().Cents
	return []string{
		tx.Date.String(),
		string(tx.Type),
		tx.Category,
		tx.Description,
		strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100),
	}
}

func dedupKey(tx core.Transaction) string {
	return tx.Date.String() + "|" + string(tx.Type) + "|" + tx.Category + "|" +
		tx.Description + "|" + strconv.FormatInt(tx.Amount.Cents, 10)
}

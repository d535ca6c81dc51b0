package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
)

// csvSource serves transactions straight from the ledger CSV file. Reads
// reload the file each time so external edits are picked up; malformed rows
// are logged and skipped rather than failing the whole read.
type csvSource struct {
	path string
	log  *log.Logger
}

func newCSVSource(path string, logger *log.Logger) (*csvSource, error) {
	if err := ledger.EnsureFile(path); err != nil {
		return nil, fmt.Errorf("ensure ledger file: %w", err)
	}
	return &csvSource{path: path, log: logger}, nil
}

func (s *csvSource) List(ctx context.Context, p ledger.Period) ([]core.Transaction, error) {
	txs, rowErrs, err := ledger.Load(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	for _, re := range rowErrs {
		s.log.WarnContext(ctx, "skipping malformed ledger row",
			log.FieldFile, s.path, log.FieldRow, re.Row, log.FieldError, re.Reason)
	}

	txs = ledger.Filter(txs, p)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date.Time)
	})
	return txs, nil
}

func (s *csvSource) Append(ctx context.Context, tx core.Transaction) error {
	if err := ledger.Append(s.path, tx); err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}
	s.log.InfoContext(ctx, "transaction appended",
		log.FieldCategory, tx.Category, log.FieldAmountCents, tx.Amount.Cents)
	return nil
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func tx(date core.Date, typ core.TransactionType, cat, desc string, cents int64) core.Transaction {
	return core.Transaction{Date: date, Type: typ, Category: cat, Description: desc, Amount: core.Money{Cents: cents}}
}

func TestAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, tx(core.NewDate(2025, 10, 3), core.Expense, "food", "groceries", -30000))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}
	if _, err := repo.Append(ctx, tx(core.NewDate(2025, 10, 1), core.Income, "sales", "", 100000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.List(ctx, ledger.All)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions", len(got))
	}
	// Ordered by date regardless of insertion order.
	if got[0].Type != core.Income || got[1].Category != "food" {
		t.Fatalf("order: %+v", got)
	}
	if got[1].Amount.Cents != -30000 || got[1].Description != "groceries" {
		t.Fatalf("round trip: %+v", got[1])
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	// Positive amount on an expense row.
	bad := tx(core.NewDate(2025, 10, 3), core.Expense, "food", "", 30000)
	if _, err := repo.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestListByPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []core.Transaction{
		tx(core.NewDate(2025, 9, 25), core.Income, "sales", "", 50000),
		tx(core.NewDate(2025, 10, 3), core.Expense, "food", "", -30000),
		tx(core.NewDate(2025, 10, 20), core.Expense, "rent", "", -20000),
		tx(core.NewDate(2025, 11, 2), core.Income, "sales", "", 40000),
	}
	for _, s := range seed {
		if _, err := repo.Append(ctx, s); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	month, _ := ledger.ParsePeriod("2025-10", "", "")
	got, err := repo.List(ctx, month)
	if err != nil {
		t.Fatalf("list month: %v", err)
	}
	if len(got) != 2 || got[0].Category != "food" {
		t.Fatalf("month filter: %+v", got)
	}

	rng, _ := ledger.ParsePeriod("", "2025-10-10", "2025-11-30")
	got, err = repo.List(ctx, rng)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(got) != 2 || got[0].Category != "rent" {
		t.Fatalf("range filter: %+v", got)
	}
}

func TestImportLedgerIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	txs := []core.Transaction{
		tx(core.NewDate(2025, 10, 3), core.Expense, "food", "groceries", -30000),
		tx(core.NewDate(2025, 10, 4), core.Income, "sales", "", 100000),
	}
	added, err := repo.ImportLedger(ctx, txs)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 2 {
		t.Fatalf("added %d, want 2", added)
	}

	// Re-importing the same rows adds nothing.
	added, err = repo.ImportLedger(ctx, txs)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if added != 0 {
		t.Fatalf("re-import added %d, want 0", added)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d", n)
	}
}

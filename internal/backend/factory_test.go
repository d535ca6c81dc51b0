package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
)

func sampleTx() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2025, 10, 3),
		Type:     core.Expense,
		Category: "food",
		Amount:   core.Money{Cents: -30000},
	}
}

func TestCreateBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	factory := NewFactory(log.New(log.DefaultConfig()))
	ctx := context.Background()

	configs := []Config{
		{Type: CSVBackend, CSVPath: filepath.Join(dir, "ledger.csv")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "ledger.db")},
		{Type: MemoryBackend},
	}
	for _, cfg := range configs {
		t.Run(string(cfg.Type), func(t *testing.T) {
			result, err := factory.CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("create backend: %v", err)
			}
			if result.Cleanup != nil {
				defer result.Cleanup()
			}

			if err := result.Source.Append(ctx, sampleTx()); err != nil {
				t.Fatalf("append: %v", err)
			}
			got, err := result.Source.List(ctx, ledger.All)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 1 || got[0].Category != "food" || got[0].Amount.Cents != -30000 {
				t.Fatalf("round trip: %+v", got)
			}

			// Period that excludes the transaction.
			other, _ := ledger.ParsePeriod("2024-01", "", "")
			got, err = result.Source.List(ctx, other)
			if err != nil {
				t.Fatalf("list period: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty period, got %+v", got)
			}
		})
	}
}

func TestCreateBackendInvalid(t *testing.T) {
	factory := NewFactory(log.New(log.DefaultConfig()))

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := factory.CreateBackend(context.Background(), Config{Type: CSVBackend}); err == nil {
		t.Fatalf("expected error for missing csv path")
	}
}

func TestBackendTypeValidation(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Fatalf("%s should be valid", bt)
		}
	}
	if BackendType("redis").IsValid() {
		t.Fatalf("unknown type should be invalid")
	}

	err := Config{Type: "redis"}.Validate()
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
	for _, name := range GetBackendTypeStrings() {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should list %q: %v", name, err)
		}
	}
}

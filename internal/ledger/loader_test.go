package ledger

import (
	"strings"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
)

const sampleCSV = `date,type,category,description,amount
2025-09-25,income,sales,Basic package,900
2025-09-26,expense,rent,Office rent,600
2025-09-27,expense,marketing,Ads,150
2025-10-01,income,services,Consulting,800
`

func TestRead(t *testing.T) {
	txs, warns, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("expected no warnings, got %v", warns)
	}
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txs))
	}
	if txs[0].Type != core.Income || txs[0].Amount.Cents != 90000 {
		t.Fatalf("first tx wrong: %+v", txs[0])
	}
	// Expense amounts are normalized to negative cents.
	if txs[1].Amount.Cents != -60000 {
		t.Fatalf("expense not negative: %+v", txs[1])
	}
	// File order is preserved.
	if txs[3].Category != "services" {
		t.Fatalf("order not preserved: %+v", txs[3])
	}
}

func TestReadCollectsRowErrors(t *testing.T) {
	csv := `date,type,category,description,amount
2025-09-25,income,sales,ok,900
not-a-date,income,sales,bad date,900
2025-09-26,transfer,sales,bad type,900
2025-09-27,expense,,no category,900
2025-09-28,expense,food,bad amount,abc
2025-09-29,income,sales,negative income,-900
2025-09-30,expense,rent,ok,600
`
	txs, warns, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 valid transactions, got %d", len(txs))
	}
	if len(warns) != 5 {
		t.Fatalf("expected 5 warnings, got %d: %v", len(warns), warns)
	}
	// Row numbers are 1-based and count the header.
	if warns[0].Row != 3 {
		t.Fatalf("first warning row: got %d, want 3", warns[0].Row)
	}
	for _, w := range warns {
		if w.Reason == "" {
			t.Fatalf("warning without reason: %+v", w)
		}
	}
}

func TestReadOneBadRowAmongN(t *testing.T) {
	csv := `date,type,category,description,amount
2025-09-25,income,sales,a,100
2025-09-26,expense,rent,b,50
garbage row
2025-09-27,expense,food,c,25
`
	txs, warns, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 3 || len(warns) != 1 {
		t.Fatalf("got %d txs, %d warnings; want 3 and 1", len(txs), len(warns))
	}
}

func TestReadRejectsBadHeader(t *testing.T) {
	_, _, err := Read(strings.NewReader("fecha,tipo,categoria,descripcion,monto\n"))
	if err == nil {
		t.Fatalf("expected header error")
	}
	_, _, err = Read(strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected error on empty file")
	}
}

func TestReadSignedAmounts(t *testing.T) {
	csv := `date,type,category,description,amount
2025-09-25,expense,food,already signed,-300
2025-09-26,income,sales,explicit plus,+1000
`
	txs, warns, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if txs[0].Amount.Cents != -30000 || txs[1].Amount.Cents != 100000 {
		t.Fatalf("signed amounts mishandled: %+v", txs)
	}
}

package core

import "testing"

func TestParseSignedCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"900", 90000, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"1,234.56", 123456, true},
		{"1.234,56", 123456, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{" 2.50 ", 250, true},
		{"-300", -30000, true},
		{"+1000", 100000, true},
		{"-12.34", -1234, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSignedCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{100, "$1.00"},
		{123456, "$1,234.56"},
		{-30000, "-$300.00"},
		{100000000, "$1,000,000.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 100000}
	b := Money{Cents: 50000}
	if a.Sub(b).Cents != 50000 {
		t.Fatalf("sub: got %d", a.Sub(b).Cents)
	}
	if a.Add(b.Neg()).Cents != 50000 {
		t.Fatalf("add neg: got %d", a.Add(b.Neg()).Cents)
	}
	if (Money{Cents: -42}).Abs().Cents != 42 {
		t.Fatalf("abs failed")
	}
}

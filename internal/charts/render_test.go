package charts

import (
	"bytes"
	"testing"

	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderAllKinds(t *testing.T) {
	txs, snap := fixture()
	r := NewRenderer()
	opts := Options{Title: "2025-10", TopN: 6, MovingAvgWindow: 5}

	for _, kind := range Kinds {
		png, err := r.Render(kind, txs, snap, opts)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !bytes.HasPrefix(png, pngMagic) {
			t.Fatalf("%s: output is not a PNG", kind)
		}
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	snap := metrics.Compute(nil, metrics.Settings{})
	r := NewRenderer()

	// Empty data must render a placeholder figure, not fail.
	for _, kind := range Kinds {
		png, err := r.Render(kind, nil, snap, Options{})
		if err != nil {
			t.Fatalf("%s on empty data: %v", kind, err)
		}
		if !bytes.HasPrefix(png, pngMagic) {
			t.Fatalf("%s: output is not a PNG", kind)
		}
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, snap := fixture()
	if _, err := NewRenderer().Render(Kind("histogram"), nil, snap, Options{}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

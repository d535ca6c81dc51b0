package backend

import (
	"context"
	"sort"
	"sync"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
)

// memorySource keeps the ledger in memory. Used in tests and for trying the
// server out without touching disk.
type memorySource struct {
	mu  sync.RWMutex
	txs []core.Transaction
}

func newMemorySource(seed []core.Transaction) *memorySource {
	s := &memorySource{}
	s.txs = append(s.txs, seed...)
	return s
}

func (s *memorySource) List(_ context.Context, p ledger.Period) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, 0, len(s.txs))
	out = append(out, ledger.Filter(s.txs, p)...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

func (s *memorySource) Append(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

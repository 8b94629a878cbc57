package storage

import (
	"context"
	"sync"

	"github.com/rl1809/stockledger/internal/core/domain"
)

// MemoryDivergenceLog keeps divergences for the life of the process only.
type MemoryDivergenceLog struct {
	mu      sync.Mutex
	entries []domain.Divergence
}

func NewMemoryDivergenceLog() *MemoryDivergenceLog {
	return &MemoryDivergenceLog{}
}

func (l *MemoryDivergenceLog) Record(_ context.Context, d domain.Divergence) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, d)
	return nil
}

func (l *MemoryDivergenceLog) List(_ context.Context) ([]domain.Divergence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Divergence, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *MemoryDivergenceLog) Clear(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return nil
}

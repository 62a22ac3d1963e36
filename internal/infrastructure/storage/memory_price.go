package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

type memoryPriceRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []entity.PriceRecord
}

// NewMemoryPriceRepository builds an in-memory price history, used in tests.
func NewMemoryPriceRepository() repository.PriceRepository {
	return &memoryPriceRepository{nextID: 1}
}

// SavePrice appends one observation.
func (m *memoryPriceRepository) SavePrice(ctx context.Context, record entity.PriceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, record)
	return nil
}

// LastPrice returns the most recent price for the (source, name) pair.
func (m *memoryPriceRepository) LastPrice(ctx context.Context, source entity.Source, productName string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		latest entity.PriceRecord
		found  bool
	)
	for _, r := range m.records {
		if r.Source != string(source) || r.ProductName != productName {
			continue
		}
		if !found || !r.RecordedAt.Before(latest.RecordedAt) {
			latest = r
			found = true
		}
	}
	if !found {
		return 0, false, nil
	}
	return latest.Price, true, nil
}

// ListRecords returns recorded history newest first. limit <= 0 returns all.
func (m *memoryPriceRepository) ListRecords(ctx context.Context, limit int) ([]entity.PriceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.PriceRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

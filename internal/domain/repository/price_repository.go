package repository

import (
	"context"

	"github.com/yourusername/price-watcher/internal/domain/entity"
)

// PriceRepository is the append-only price history store.
type PriceRepository interface {
	// SavePrice appends one observation to the history.
	SavePrice(ctx context.Context, record entity.PriceRecord) error

	// LastPrice returns the most recently recorded price for the
	// (source, productName) pair. found is false when no row exists.
	LastPrice(ctx context.Context, source entity.Source, productName string) (price float64, found bool, err error)

	// ListRecords returns recorded history, newest first.
	// limit <= 0 returns everything.
	ListRecords(ctx context.Context, limit int) ([]entity.PriceRecord, error)
}

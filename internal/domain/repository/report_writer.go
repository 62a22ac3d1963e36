package repository

import (
	"context"

	"github.com/yourusername/price-watcher/internal/domain/entity"
)

// ReportWriter renders price history to a file.
type ReportWriter interface {
	// Write creates (or replaces) the report at path.
	Write(ctx context.Context, path string, records []entity.PriceRecord) error
}

package repository

import (
	"context"

	"github.com/yourusername/price-watcher/internal/domain/entity"
)

// Fetcher produces current price observations for one storefront.
type Fetcher interface {
	// Source identifies the storefront this fetcher reads.
	Source() entity.Source

	// Fetch returns zero or more products currently listed. An empty
	// result is normal (target model not listed); an error means every
	// fetch attempt failed this cycle.
	Fetch(ctx context.Context) ([]entity.Product, error)
}

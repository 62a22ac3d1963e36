package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

// CheckUseCase records fetched prices and decides whether to alert.
type CheckUseCase interface {
	// RecordAndCheck appends the observation to history and reports whether
	// the price is alert-worthy and whether it is a new low for its
	// (source, name) pair. The prior price is read before the new row is
	// written, so the comparison reflects the last distinct observation.
	RecordAndCheck(ctx context.Context, product entity.Product, targetPrice float64) (alert bool, isNewLow bool, err error)
}

type checkUseCase struct {
	prices repository.PriceRepository
	now    func() time.Time
}

// NewCheckUseCase builds the comparator on top of a price history store.
func NewCheckUseCase(prices repository.PriceRepository) CheckUseCase {
	return &checkUseCase{prices: prices, now: time.Now}
}

// ShouldAlert reports whether price is at or below the target threshold.
// A target of zero or below means alerting is disabled.
func ShouldAlert(price, targetPrice float64) bool {
	if targetPrice <= 0 {
		return false
	}
	return price <= targetPrice
}

// ErrInvalidProduct rejects observations that violate the data model:
// unknown source or negative price.
var ErrInvalidProduct = errors.New("invalid product observation")

func (u *checkUseCase) RecordAndCheck(ctx context.Context, product entity.Product, targetPrice float64) (bool, bool, error) {
	if !product.Source.Valid() {
		return false, false, fmt.Errorf("%w: unknown source %q", ErrInvalidProduct, product.Source)
	}
	if product.Price < 0 {
		return false, false, fmt.Errorf("%w: negative price %.2f", ErrInvalidProduct, product.Price)
	}

	previous, found, err := u.prices.LastPrice(ctx, product.Source, product.Name)
	if err != nil {
		return false, false, fmt.Errorf("failed to read last price: %w", err)
	}

	record := entity.PriceRecord{
		Source:        string(product.Source),
		ProductName:   product.Name,
		SKU:           product.SKU,
		Price:         product.Price,
		URL:           product.URL,
		OriginalPrice: product.OriginalPrice,
		RecordedAt:    u.now().UTC(),
	}
	if err := u.prices.SavePrice(ctx, record); err != nil {
		return false, false, fmt.Errorf("failed to save price record: %w", err)
	}

	alert := ShouldAlert(product.Price, targetPrice)
	isNewLow := !found || product.Price < previous
	return alert, isNewLow, nil
}

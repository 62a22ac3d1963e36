package usecase

import (
	"context"
	"fmt"

	"github.com/yourusername/price-watcher/internal/domain/repository"
)

// ReportUseCase exports the recorded price history.
type ReportUseCase interface {
	// Export writes up to limit history rows (newest first, limit <= 0
	// means all) to a report at path and returns the number of rows written.
	Export(ctx context.Context, path string, limit int) (int, error)
}

type reportUseCase struct {
	prices repository.PriceRepository
	writer repository.ReportWriter
}

// NewReportUseCase builds the history exporter.
func NewReportUseCase(prices repository.PriceRepository, writer repository.ReportWriter) ReportUseCase {
	return &reportUseCase{prices: prices, writer: writer}
}

func (u *reportUseCase) Export(ctx context.Context, path string, limit int) (int, error) {
	records, err := u.prices.ListRecords(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list price history: %w", err)
	}
	if err := u.writer.Write(ctx, path, records); err != nil {
		return 0, fmt.Errorf("failed to write report: %w", err)
	}
	return len(records), nil
}

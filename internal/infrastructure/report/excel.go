package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

var reportHeaders = []string{
	"Recorded At (UTC)", "Source", "Product", "SKU", "Price (USD)", "Original Price (USD)", "URL",
}

type excelReportWriter struct{}

// NewExcelReportWriter builds the .xlsx history exporter.
func NewExcelReportWriter() repository.ReportWriter {
	return &excelReportWriter{}
}

// Write renders the records (expected newest first) into a single-sheet
// workbook at path, creating parent directories as needed.
func (w *excelReportWriter) Write(ctx context.Context, path string, records []entity.PriceRecord) error {
	if path == "" {
		return fmt.Errorf("report path must not be empty")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, r := range records {
		var original any
		if r.OriginalPrice != nil {
			original = *r.OriginalPrice
		} else {
			original = ""
		}
		values := []any{
			r.RecordedAt.UTC().Format(time.RFC3339),
			r.Source,
			r.ProductName,
			r.SKU,
			r.Price,
			original,
			r.URL,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

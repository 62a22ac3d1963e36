package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/infrastructure/report"
	"github.com/yourusername/price-watcher/internal/infrastructure/storage"
	"github.com/yourusername/price-watcher/internal/usecase"
)

// report dumps the recorded price history into an .xlsx workbook at
// REPORT_PATH (REPORT_LIMIT caps the row count, 0 means everything).
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration loading error: %v", err)
	}

	prices, err := storage.NewSQLitePriceRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage initialization error: %v", err)
	}

	exporter := usecase.NewReportUseCase(prices, report.NewExcelReportWriter())

	rows, err := exporter.Export(context.Background(), cfg.ReportPath, cfg.ReportLimit)
	if err != nil {
		log.Fatalf("report export error: %v", err)
	}

	log.WithFields(logrus.Fields{
		"path": cfg.ReportPath,
		"rows": rows,
	}).Info("report written")
}

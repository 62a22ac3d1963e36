package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/repository"
	"github.com/yourusername/price-watcher/internal/infrastructure/fetcher"
	"github.com/yourusername/price-watcher/internal/infrastructure/notifier"
	"github.com/yourusername/price-watcher/internal/infrastructure/storage"
	"github.com/yourusername/price-watcher/internal/scheduler"
	"github.com/yourusername/price-watcher/internal/usecase"
)

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

	checker := usecase.NewCheckUseCase(prices)

	fetchers := []repository.Fetcher{
		fetcher.NewBestBuyFetcher(cfg, log),
		fetcher.NewAppleRefurbishedFetcher(cfg, log),
	}
	notifiers := []repository.Notifier{
		notifier.NewEmailNotifier(cfg, log),
		notifier.NewTelegramNotifier(cfg, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"target_price": cfg.TargetPriceUSD,
		"db_path":      cfg.DBPath,
	}).Info("price watcher started")

	scheduler.New(cfg, log, checker, fetchers, notifiers).Run(ctx)

	log.Info("shutdown complete")
}

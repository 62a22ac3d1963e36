package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
	"github.com/yourusername/price-watcher/internal/usecase"
)

// Scheduler runs fetch-compare-notify cycles on a fixed interval with
// randomized jitter. A single loop goroutine drives every cycle, so at most
// one cycle is ever in flight.
type Scheduler struct {
	cfg       *config.Config
	log       *logrus.Logger
	checker   usecase.CheckUseCase
	fetchers  []repository.Fetcher
	notifiers []repository.Notifier
	jitter    func(max time.Duration) time.Duration
}

// New wires the scheduler.
func New(
	cfg *config.Config,
	log *logrus.Logger,
	checker usecase.CheckUseCase,
	fetchers []repository.Fetcher,
	notifiers []repository.Notifier,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		log:       log,
		checker:   checker,
		fetchers:  fetchers,
		notifiers: notifiers,
		jitter:    uniformJitter,
	}
}

// uniformJitter picks a delay uniformly from [0, max).
func uniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}

// Run blocks until ctx is cancelled. The first cycle runs immediately and
// without jitter; later cycles wait for the ticker plus a random delay.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.cfg.CheckInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	s.log.WithFields(logrus.Fields{
		"interval":   interval,
		"jitter_max": s.cfg.JitterMax,
	}).Info("scheduler started")

	s.RunCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			if !s.sleepJitter(ctx) {
				s.log.Info("scheduler stopping")
				return
			}
			s.RunCycle(ctx)
		}
	}
}

// sleepJitter waits the randomized pre-cycle delay. Returns false when ctx
// was cancelled during the wait.
func (s *Scheduler) sleepJitter(ctx context.Context) bool {
	delay := s.jitter(s.cfg.JitterMax)
	if delay <= 0 {
		return true
	}
	s.log.WithField("delay", delay.Round(time.Millisecond)).Debug("jitter before cycle")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// RunCycle performs one fetch-compare-notify pass. A failing fetcher is
// logged and skipped; a storage failure aborts the rest of the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) {
	log := s.log.WithField("run_id", uuid.NewString())
	target := s.cfg.TargetPriceUSD

	if target <= 0 {
		log.Warn("target price not set, alerts disabled")
	}

	var products []entity.Product
	for _, f := range s.fetchers {
		fetched, err := f.Fetch(ctx)
		if err != nil {
			log.WithError(err).WithField("source", f.Source()).Warn("fetch failed")
			continue
		}
		if len(fetched) == 0 {
			log.WithField("source", f.Source()).Info("no price retrieved")
			continue
		}
		for _, p := range fetched {
			log.WithFields(logrus.Fields{
				"source":  p.Source,
				"product": truncate(p.Name, 60),
				"price":   p.Price,
			}).Info("price fetched")
		}
		products = append(products, fetched...)
	}

	for _, p := range products {
		alert, isNewLow, err := s.checker.RecordAndCheck(ctx, p, target)
		if err != nil {
			log.WithError(err).Error("recording price failed, aborting cycle")
			return
		}

		switch {
		case alert:
			log.WithFields(logrus.Fields{
				"product": truncate(p.Name, 60),
				"price":   p.Price,
				"target":  target,
			}).Info("price at or below target")
			s.notify(ctx, log, entity.Alert{
				Product:     p,
				TargetPrice: target,
				IsNewLow:    isNewLow,
			})
		case isNewLow && target > 0:
			log.WithFields(logrus.Fields{
				"price":  p.Price,
				"target": target,
			}).Info("new price low, still above target")
		}
	}
}

// notify fans the alert out to every channel. Channels are independent:
// one failing or being unconfigured never stops the others.
func (s *Scheduler) notify(ctx context.Context, log *logrus.Entry, alert entity.Alert) {
	for _, n := range s.notifiers {
		outcome, err := n.Send(ctx, alert)
		entry := log.WithFields(logrus.Fields{
			"notifier": n.Name(),
			"outcome":  outcome.String(),
		})
		switch outcome {
		case entity.OutcomeSent:
			entry.Info("alert delivered")
		case entity.OutcomeSkipped:
			entry.Warn("notifier not configured")
		case entity.OutcomeFailed:
			entry.WithError(err).Error("alert delivery failed")
		}
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

package repository

import (
	"context"

	"github.com/yourusername/price-watcher/internal/domain/entity"
)

// Notifier delivers price alerts over one channel.
type Notifier interface {
	// Name identifies the channel in logs.
	Name() string

	// Send delivers the alert. A channel without credentials returns
	// OutcomeSkipped with a nil error.
	Send(ctx context.Context, alert entity.Alert) (entity.Outcome, error)
}

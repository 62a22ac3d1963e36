package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/price-watcher/internal/domain/entity"
)

func TestSourceValid(t *testing.T) {
	assert.True(t, entity.SourceBestBuy.Valid())
	assert.True(t, entity.SourceAppleRefurbished.Valid())
	assert.False(t, entity.Source("ebay").Valid())
	assert.False(t, entity.Source("").Valid())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "sent", entity.OutcomeSent.String())
	assert.Equal(t, "failed", entity.OutcomeFailed.String())
	assert.Equal(t, "skipped", entity.OutcomeSkipped.String())
}

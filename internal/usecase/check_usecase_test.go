package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/infrastructure/storage"
	"github.com/yourusername/price-watcher/internal/usecase"
)

type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) SavePrice(ctx context.Context, record entity.PriceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPriceRepository) LastPrice(ctx context.Context, source entity.Source, productName string) (float64, bool, error) {
	args := m.Called(ctx, source, productName)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockPriceRepository) ListRecords(ctx context.Context, limit int) ([]entity.PriceRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]entity.PriceRecord)
	return records, args.Error(1)
}

func product(price float64) entity.Product {
	return entity.Product{
		Source: entity.SourceBestBuy,
		Name:   "MacBook Pro 14",
		SKU:    "6602748",
		Price:  price,
		URL:    "https://example.com/p",
	}
}

func record(t *testing.T, u usecase.CheckUseCase, price, target float64) (bool, bool) {
	t.Helper()
	alert, isNewLow, err := u.RecordAndCheck(t.Context(), product(price), target)
	require.NoError(t, err)
	return alert, isNewLow
}

func TestShouldAlert(t *testing.T) {
	t.Run("DisabledThreshold", func(t *testing.T) {
		assert.False(t, usecase.ShouldAlert(100, 0))
		assert.False(t, usecase.ShouldAlert(100, -5))
	})

	t.Run("AtOrBelowThreshold", func(t *testing.T) {
		assert.True(t, usecase.ShouldAlert(1500, 1500))
		assert.True(t, usecase.ShouldAlert(1499.99, 1500))
	})

	t.Run("AboveThreshold", func(t *testing.T) {
		assert.False(t, usecase.ShouldAlert(1500.01, 1500))
	})
}

func TestRecordAndCheck(t *testing.T) {
	t.Run("FirstObservationIsNewLow", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())

		alert, isNewLow := record(t, u, 2000, 1500)
		assert.False(t, alert)
		assert.True(t, isNewLow)
	})

	t.Run("DropToTargetAlertsAndIsNewLow", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())
		record(t, u, 1800, 1500)

		alert, isNewLow := record(t, u, 1500, 1500)
		assert.True(t, alert)
		assert.True(t, isNewLow)
	})

	t.Run("BelowTargetButAbovePriorIsNotNewLow", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())
		record(t, u, 1400, 1500)

		alert, isNewLow := record(t, u, 1450, 1500)
		assert.True(t, alert)
		assert.False(t, isNewLow)
	})

	t.Run("DisabledThresholdNeverAlerts", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())

		alert, isNewLow := record(t, u, 100, 0)
		assert.False(t, alert)
		assert.True(t, isNewLow)
	})

	t.Run("EqualPriceIsNotNewLow", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())
		record(t, u, 1800, 1500)

		_, isNewLow := record(t, u, 1800, 1500)
		assert.False(t, isNewLow)
	})

	t.Run("ComparesAgainstPriorObservationNotCurrent", func(t *testing.T) {
		u := usecase.NewCheckUseCase(storage.NewMemoryPriceRepository())
		record(t, u, 1800, 0)
		record(t, u, 1600, 0)

		// 1700 is below the first observation but above the latest.
		_, isNewLow := record(t, u, 1700, 0)
		assert.False(t, isNewLow)
	})

	t.Run("EveryCheckAppendsExactlyOneRow", func(t *testing.T) {
		repo := storage.NewMemoryPriceRepository()
		u := usecase.NewCheckUseCase(repo)

		record(t, u, 1800, 1500)
		record(t, u, 1500, 1500) // alert
		record(t, u, 1900, 0)    // alerts disabled

		records, err := repo.ListRecords(t.Context(), 0)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("RecordKeepsProductFields", func(t *testing.T) {
		repo := storage.NewMemoryPriceRepository()
		u := usecase.NewCheckUseCase(repo)
		record(t, u, 1650, 1500)

		records, err := repo.ListRecords(t.Context(), 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, string(entity.SourceBestBuy), records[0].Source)
		assert.Equal(t, "MacBook Pro 14", records[0].ProductName)
		assert.Equal(t, "6602748", records[0].SKU)
		assert.Equal(t, 1650.0, records[0].Price)
		assert.False(t, records[0].RecordedAt.IsZero())
	})

	t.Run("RejectsInvalidObservation", func(t *testing.T) {
		repo := new(MockPriceRepository)
		u := usecase.NewCheckUseCase(repo)

		p := product(1500)
		p.Source = "ebay"
		_, _, err := u.RecordAndCheck(t.Context(), p, 1500)
		require.ErrorIs(t, err, usecase.ErrInvalidProduct)

		p = product(-1)
		_, _, err = u.RecordAndCheck(t.Context(), p, 1500)
		require.ErrorIs(t, err, usecase.ErrInvalidProduct)

		repo.AssertNotCalled(t, "SavePrice", mock.Anything, mock.Anything)
	})

	t.Run("ReadErrorPropagates", func(t *testing.T) {
		repo := new(MockPriceRepository)
		repo.On("LastPrice", mock.Anything, entity.SourceBestBuy, "MacBook Pro 14").
			Return(0.0, false, errors.New("disk gone"))
		u := usecase.NewCheckUseCase(repo)

		_, _, err := u.RecordAndCheck(t.Context(), product(1500), 1500)
		require.Error(t, err)
		repo.AssertNotCalled(t, "SavePrice", mock.Anything, mock.Anything)
	})

	t.Run("SaveErrorPropagates", func(t *testing.T) {
		repo := new(MockPriceRepository)
		repo.On("LastPrice", mock.Anything, entity.SourceBestBuy, "MacBook Pro 14").
			Return(0.0, false, nil)
		repo.On("SavePrice", mock.Anything, mock.Anything).
			Return(errors.New("disk full"))
		u := usecase.NewCheckUseCase(repo)

		_, _, err := u.RecordAndCheck(t.Context(), product(1500), 1500)
		require.Error(t, err)
	})
}

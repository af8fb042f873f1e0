package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

// countingStore wraps the memory store to observe snapshot fetches.
type countingStore struct {
	*memory.Store
	betweenCalls int64
}

func (c *countingStore) ListByUserBetween(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error) {
	atomic.AddInt64(&c.betweenCalls, 1)
	return c.Store.ListByUserBetween(ctx, userID, from, to)
}

func seed(t *testing.T, s store.TransactionStore, userID int64, desc string, cents int64, typ core.TxType, date core.Date) {
	t.Helper()
	_, err := s.Append(context.Background(), core.Transaction{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    "x",
		Type:        typ,
		Date:        date,
		UserID:      userID,
	})
	require.NoError(t, err)
}

func TestPredictUsesTrailingYearOnly(t *testing.T) {
	s := memory.NewStore()
	svc := NewForecastService(s, 16, time.Minute)
	today := core.NewDate(2025, 6, 1)

	// An old pair outside the window plus a recent monthly pair inside it.
	seed(t, s, 1, "Gym membership", 3000, core.Spending, core.NewDate(2023, 1, 1))
	seed(t, s, 1, "Gym membership", 3000, core.Spending, core.NewDate(2023, 2, 1))
	seed(t, s, 1, "Netflix subscription", 1299, core.Spending, core.NewDate(2025, 4, 1))
	seed(t, s, 1, "Netflix subscription", 1299, core.Spending, core.NewDate(2025, 5, 1))

	result, err := svc.Predict(context.Background(), 1, today)
	require.NoError(t, err)
	require.Len(t, result.Forecast, 1)
	assert.Equal(t, "netflix", result.Forecast[0].SeriesKey)
}

func TestPredictCachesPerUserAndDay(t *testing.T) {
	cs := &countingStore{Store: memory.NewStore()}
	svc := NewForecastService(cs, 16, time.Minute)
	ctx := context.Background()
	today := core.NewDate(2025, 6, 1)

	seed(t, cs, 1, "Spotify", 999, core.Spending, core.NewDate(2025, 4, 1))
	seed(t, cs, 1, "Spotify", 999, core.Spending, core.NewDate(2025, 5, 1))

	first, err := svc.Predict(ctx, 1, today)
	require.NoError(t, err)
	second, err := svc.Predict(ctx, 1, today)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&cs.betweenCalls))

	// A different day is a cache miss.
	_, err = svc.Predict(ctx, 1, today.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&cs.betweenCalls))

	// So is an explicit invalidation.
	svc.Invalidate(1)
	_, err = svc.Predict(ctx, 1, today.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&cs.betweenCalls))
}

func TestPredictEmptyHistory(t *testing.T) {
	svc := NewForecastService(memory.NewStore(), 16, time.Minute)

	result, err := svc.Predict(context.Background(), 42, core.NewDate(2025, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, result.Forecast)
	assert.Zero(t, result.TotalIncome.Cents)
	assert.Zero(t, result.TotalSpending.Cents)
	assert.Zero(t, result.NetSavings.Cents)
}

func TestSummarizeTrailingThirtyDays(t *testing.T) {
	s := memory.NewStore()
	svc := NewForecastService(s, 16, time.Minute)
	today := core.NewDate(2025, 6, 30)

	seed(t, s, 1, "Salary", 250000, core.Income, core.NewDate(2025, 6, 25))
	seed(t, s, 1, "Groceries", 8000, core.Spending, core.NewDate(2025, 6, 20))
	// Outside the window.
	seed(t, s, 1, "Groceries", 9000, core.Spending, core.NewDate(2025, 4, 1))

	summary, err := svc.Summarize(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), summary.TotalIncome.Cents)
	assert.Equal(t, int64(8000), summary.TotalSpending.Cents)
	assert.Equal(t, int64(242000), summary.NetSavings.Cents)
}

func TestSummaryAndForecastScopedToUser(t *testing.T) {
	s := memory.NewStore()
	svc := NewForecastService(s, 16, time.Minute)
	today := core.NewDate(2025, 6, 30)

	seed(t, s, 1, "Salary", 250000, core.Income, core.NewDate(2025, 6, 25))
	seed(t, s, 2, "Salary", 990000, core.Income, core.NewDate(2025, 6, 25))

	summary, err := svc.Summarize(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), summary.TotalIncome.Cents)
}

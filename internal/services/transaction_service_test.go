package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/classifier"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type fakePublisher struct {
	published []int64
	err       error
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id, _, _ int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

func newTransactionService(t *testing.T, pub SyncPublisher, inv CacheInvalidator) (*TransactionService, *memory.Store) {
	t.Helper()
	model, err := classifier.Default()
	require.NoError(t, err)
	s := memory.NewStore()
	return NewTransactionService(s, model, pub, inv), s
}

func TestCreateClassifiesSpending(t *testing.T) {
	svc, _ := newTransactionService(t, nil, nil)

	tx, err := svc.Create(context.Background(), 1, NewTransaction{
		Description: "Coffee with friends",
		Amount:      core.Money{Cents: 450},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "food", tx.Category)
	assert.NotZero(t, tx.ID)
}

func TestCreateIncomeCategory(t *testing.T) {
	svc, _ := newTransactionService(t, nil, nil)

	tx, err := svc.Create(context.Background(), 1, NewTransaction{
		Description: "Monthly salary",
		Amount:      core.Money{Cents: 250000},
		Type:        core.Income,
		Date:        core.NewDate(2025, 3, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, IncomeCategory, tx.Category)
}

func TestCreateKeepsExplicitCategory(t *testing.T) {
	svc, _ := newTransactionService(t, nil, nil)

	tx, err := svc.Create(context.Background(), 1, NewTransaction{
		Description: "Mystery box",
		Amount:      core.Money{Cents: 999},
		Category:    "gifts",
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "gifts", tx.Category)
}

func TestCreateValidation(t *testing.T) {
	svc, s := newTransactionService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, NewTransaction{
		Description: "",
		Amount:      core.Money{Cents: 100},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	assert.ErrorIs(t, err, core.ErrEmptyDescription)

	_, err = svc.Create(ctx, 1, NewTransaction{
		Description: "Coffee",
		Amount:      core.Money{Cents: 0},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = svc.Create(ctx, 1, NewTransaction{
		Description: "Coffee",
		Amount:      core.Money{Cents: 100},
		Type:        core.TxType("transfer"),
		Date:        core.NewDate(2025, 3, 10),
	})
	assert.ErrorIs(t, err, core.ErrInvalidType)

	// Nothing persisted on any failed path.
	txs, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCreatePublishFailureIsNonFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, s := newTransactionService(t, pub, nil)

	tx, err := svc.Create(context.Background(), 1, NewTransaction{
		Description: "Coffee",
		Amount:      core.Money{Cents: 450},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)

	txs, err := s.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestCreatePublishesSyncMessage(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTransactionService(t, pub, nil)

	tx, err := svc.Create(context.Background(), 1, NewTransaction{
		Description: "Coffee",
		Amount:      core.Money{Cents: 450},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{tx.ID}, pub.published)
}

func TestCreateInvalidatesForecastCache(t *testing.T) {
	model, err := classifier.Default()
	require.NoError(t, err)
	s := memory.NewStore()
	forecasts := NewForecastService(s, 16, time.Minute)
	svc := NewTransactionService(s, model, nil, forecasts)
	ctx := context.Background()
	today := core.NewDate(2025, 3, 15)

	// Two rent payments establish a monthly series.
	for _, d := range []core.Date{core.NewDate(2025, 1, 1), core.NewDate(2025, 2, 1)} {
		_, err := svc.Create(ctx, 1, NewTransaction{
			Description: "Rent payment",
			Amount:      core.Money{Cents: 50000},
			Type:        core.Spending,
			Date:        d,
		})
		require.NoError(t, err)
	}

	first, err := forecasts.Predict(ctx, 1, today)
	require.NoError(t, err)
	require.Len(t, first.Forecast, 1)

	// A third payment changes the series; the cached result must go.
	_, err = svc.Create(ctx, 1, NewTransaction{
		Description: "Rent payment",
		Amount:      core.Money{Cents: 56000},
		Type:        core.Spending,
		Date:        core.NewDate(2025, 3, 1),
	})
	require.NoError(t, err)

	second, err := forecasts.Predict(ctx, 1, today)
	require.NoError(t, err)
	require.Len(t, second.Forecast, 1)
	assert.NotEqual(t, first.Forecast[0].PredictedAmount, second.Forecast[0].PredictedAmount)
}

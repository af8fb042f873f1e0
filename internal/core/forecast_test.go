package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(description string, cents int64, typ TxType, date Date) Transaction {
	return Transaction{
		Description: description,
		Amount:      Money{Cents: cents},
		Type:        typ,
		Date:        date,
	}
}

func TestForecast_MonthlyRent(t *testing.T) {
	txs := []Transaction{
		tx("Monthly rent", 50000, Spending, NewDate(2025, 1, 1)),
		tx("Monthly rent", 50000, Spending, NewDate(2025, 2, 1)),
	}
	today := NewDate(2025, 2, 15)

	result := Forecast(txs, today)

	require.Len(t, result.Forecast, 1)
	entry := result.Forecast[0]
	assert.Equal(t, "rent", entry.SeriesKey)
	assert.Equal(t, Spending, entry.Type)
	// 31 days between occurrences; 30/31 floors to 0, clamped to 1.
	assert.Equal(t, 1, entry.ExpectedOccurrences)
	assert.Equal(t, NewDate(2025, 3, 4).String(), entry.PredictedDate.String())
	assert.Equal(t, int64(50000), entry.TotalEstimate.Cents)

	assert.Equal(t, int64(0), result.TotalIncome.Cents)
	assert.Equal(t, int64(50000), result.TotalSpending.Cents)
	assert.Equal(t, int64(-50000), result.NetSavings.Cents)
}

func TestForecast_SingleTransactionIsNotASeries(t *testing.T) {
	txs := []Transaction{
		tx("Coffee", 500, Spending, NewDate(2025, 5, 1)),
	}

	result := Forecast(txs, NewDate(2025, 5, 10))

	assert.Empty(t, result.Forecast)
	assert.Equal(t, int64(0), result.TotalIncome.Cents)
	assert.Equal(t, int64(0), result.TotalSpending.Cents)
	assert.Equal(t, int64(0), result.NetSavings.Cents)
}

func TestForecast_MonthlySalary(t *testing.T) {
	txs := []Transaction{
		tx("Salary", 150000, Income, NewDate(2025, 4, 1)),
		tx("Salary", 150000, Income, NewDate(2025, 5, 1)),
	}
	today := NewDate(2025, 5, 10)

	result := Forecast(txs, today)

	require.Len(t, result.Forecast, 1)
	entry := result.Forecast[0]
	assert.Equal(t, "salary", entry.SeriesKey)
	assert.Equal(t, Income, entry.Type)
	assert.Equal(t, 1, entry.ExpectedOccurrences)
	assert.Equal(t, int64(150000), result.TotalIncome.Cents)
	assert.Equal(t, int64(150000), result.NetSavings.Cents)
}

func TestForecast_EmptyInput(t *testing.T) {
	result := Forecast(nil, NewDate(2025, 1, 1))

	assert.NotNil(t, result.Forecast)
	assert.Empty(t, result.Forecast)
	assert.Equal(t, int64(0), result.TotalIncome.Cents)
	assert.Equal(t, int64(0), result.TotalSpending.Cents)
	assert.Equal(t, int64(0), result.NetSavings.Cents)
}

func TestForecast_WeeklySeriesRepeatsWithinHorizon(t *testing.T) {
	txs := []Transaction{
		tx("Groceries at Billa", 4000, Spending, NewDate(2025, 6, 1)),
		tx("Lidl groceries", 5000, Spending, NewDate(2025, 6, 8)),
		tx("groceries", 6000, Spending, NewDate(2025, 6, 15)),
	}
	today := NewDate(2025, 6, 16)

	result := Forecast(txs, today)

	require.Len(t, result.Forecast, 1)
	entry := result.Forecast[0]
	assert.Equal(t, "groceries", entry.SeriesKey)
	// Mean interval 7 days: 30/7 floors to 4 expected occurrences.
	assert.Equal(t, 4, entry.ExpectedOccurrences)
	assert.Equal(t, int64(5000), entry.PredictedAmount.Cents)
	assert.Equal(t, int64(20000), entry.TotalEstimate.Cents)
	assert.Equal(t, NewDate(2025, 6, 22).String(), entry.PredictedDate.String())
}

func TestForecast_SameDayRepeatsAreNoise(t *testing.T) {
	day := NewDate(2025, 3, 3)
	txs := []Transaction{
		tx("Spotify", 999, Spending, day),
		tx("Spotify", 999, Spending, day),
		tx("Spotify", 999, Spending, day),
	}

	result := Forecast(txs, day)

	assert.Empty(t, result.Forecast)
}

func TestForecast_SparseSeriesIsDropped(t *testing.T) {
	txs := []Transaction{
		tx("Car insurance", 30000, Spending, NewDate(2024, 1, 10)),
		tx("Car insurance", 30000, Spending, NewDate(2024, 7, 10)),
	}

	result := Forecast(txs, NewDate(2024, 7, 15))

	// 182-day interval exceeds the 90-day recurrence ceiling.
	assert.Empty(t, result.Forecast)
	assert.Equal(t, int64(0), result.TotalSpending.Cents)
}

func TestForecast_OutOfHorizonSeriesExcludedFromTotals(t *testing.T) {
	txs := []Transaction{
		// 60-day interval, last seen long before today: predicted date
		// still lands past today+30, so no entry and no totals.
		tx("Gym membership", 8000, Spending, NewDate(2025, 1, 1)),
		tx("Gym membership", 8000, Spending, NewDate(2025, 3, 2)),
		// A healthy monthly series for contrast.
		tx("Monthly rent", 50000, Spending, NewDate(2025, 3, 1)),
		tx("Monthly rent", 50000, Spending, NewDate(2025, 3, 31)),
	}
	today := NewDate(2025, 3, 31)

	result := Forecast(txs, today)

	require.Len(t, result.Forecast, 1)
	assert.Equal(t, "rent", result.Forecast[0].SeriesKey)
	assert.Equal(t, int64(50000), result.TotalSpending.Cents)
}

func TestForecast_SeriesSplitByType(t *testing.T) {
	// Same normalized key but opposite types must never merge.
	txs := []Transaction{
		tx("freelance invoice", 100000, Income, NewDate(2025, 2, 1)),
		tx("freelance invoice", 100000, Income, NewDate(2025, 3, 1)),
		tx("freelance invoice", 2000, Spending, NewDate(2025, 2, 15)),
		tx("freelance invoice", 2000, Spending, NewDate(2025, 3, 15)),
	}
	today := NewDate(2025, 3, 20)

	result := Forecast(txs, today)

	require.Len(t, result.Forecast, 2)
	assert.Equal(t, int64(100000), result.TotalIncome.Cents)
	assert.Equal(t, int64(2000), result.TotalSpending.Cents)
	assert.Equal(t, int64(98000), result.NetSavings.Cents)
}

func TestForecast_Properties(t *testing.T) {
	txs := []Transaction{
		tx("Monthly rent", 50000, Spending, NewDate(2025, 1, 1)),
		tx("Monthly rent", 50000, Spending, NewDate(2025, 2, 1)),
		tx("Salary", 150000, Income, NewDate(2025, 1, 5)),
		tx("Salary", 152000, Income, NewDate(2025, 2, 5)),
		tx("Lidl groceries", 4500, Spending, NewDate(2025, 2, 1)),
		tx("Billa groceries", 5500, Spending, NewDate(2025, 2, 8)),
		tx("One-off purchase", 9900, Spending, NewDate(2025, 2, 10)),
	}
	today := NewDate(2025, 2, 15)
	horizon := today.AddDays(HorizonDays)

	result := Forecast(txs, today)

	for _, entry := range result.Forecast {
		assert.GreaterOrEqual(t, entry.ExpectedOccurrences, 1, "series %s", entry.SeriesKey)
		assert.False(t, entry.PredictedDate.After(horizon.Time),
			"series %s predicted %s beyond horizon %s", entry.SeriesKey, entry.PredictedDate, horizon)
	}
	assert.Equal(t, result.TotalIncome.Cents-result.TotalSpending.Cents, result.NetSavings.Cents)

	// The one-off purchase has no partner and must not appear.
	for _, entry := range result.Forecast {
		assert.NotEqual(t, "one-off purchase", entry.SeriesKey)
	}
}

func TestForecast_DeterministicOrdering(t *testing.T) {
	txs := []Transaction{
		tx("Spotify", 999, Spending, NewDate(2025, 1, 1)),
		tx("Spotify", 999, Spending, NewDate(2025, 2, 1)),
		tx("Netflix", 1999, Spending, NewDate(2025, 1, 1)),
		tx("Netflix", 1999, Spending, NewDate(2025, 2, 1)),
		tx("Salary", 150000, Income, NewDate(2025, 1, 1)),
		tx("Salary", 150000, Income, NewDate(2025, 2, 1)),
	}
	today := NewDate(2025, 2, 10)

	first := Forecast(txs, today)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Forecast(txs, today))
	}
}

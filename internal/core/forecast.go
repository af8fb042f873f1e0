package core

import (
	"math"
	"sort"
)

// HorizonDays is the forward window for forecasting: predicted occurrences
// must fall within this many days of "today" to be reported.
const HorizonDays = 30

// maxIntervalDays is the largest mean interval still treated as recurring.
// Sparser series cannot be extrapolated with any confidence.
const maxIntervalDays = 90

type (
	// ForecastEntry is one predicted recurring payment stream.
	ForecastEntry struct {
		SeriesKey           string `json:"series_key"`
		Type                TxType `json:"type"`
		PredictedDate       Date   `json:"predicted_date"`
		PredictedAmount     Money  `json:"predicted_amount"`
		ExpectedOccurrences int    `json:"expected_occurrences"`
		TotalEstimate       Money  `json:"total_estimate"`
	}

	// ForecastResult aggregates all predicted streams within the horizon.
	// NetSavings is always exactly TotalIncome - TotalSpending.
	ForecastResult struct {
		Forecast      []ForecastEntry `json:"forecast"`
		TotalIncome   Money           `json:"total_income"`
		TotalSpending Money           `json:"total_spending"`
		NetSavings    Money           `json:"net_savings"`
	}

	seriesKey struct {
		label string
		typ   TxType
	}

	series struct {
		members []Transaction // sorted by date ascending
	}
)

// Forecast projects recurring transaction series forward over the next
// HorizonDays days. Transactions are grouped into series by normalized
// description and type; each series with at least two members and a
// plausible mean interval contributes one forecast entry, provided its next
// predicted occurrence falls within the horizon. Totals accumulate only over
// emitted entries. An empty input yields an empty, all-zero result.
func Forecast(txs []Transaction, today Date) ForecastResult {
	result := ForecastResult{Forecast: []ForecastEntry{}}

	groups := make(map[seriesKey]*series)
	for _, tx := range txs {
		key := seriesKey{label: Normalize(tx.Description), typ: tx.Type}
		s, ok := groups[key]
		if !ok {
			s = &series{}
			groups[key] = s
		}
		s.members = append(s.members, tx)
	}

	horizon := today.AddDays(HorizonDays)

	for key, s := range groups {
		// Recurrence cannot be estimated from a single observation.
		if len(s.members) < 2 {
			continue
		}
		sort.Slice(s.members, func(i, j int) bool {
			return s.members[i].Date.Before(s.members[j].Date.Time)
		})

		interval, ok := meanIntervalDays(s.members)
		if !ok {
			continue
		}

		avgAmount := meanAmount(s.members)
		occurrences := HorizonDays / interval
		if occurrences < 1 {
			occurrences = 1
		}
		lastDate := s.members[len(s.members)-1].Date
		predicted := lastDate.AddDays(interval)
		if predicted.After(horizon.Time) {
			// Out of window: the series is dropped entirely and does
			// not contribute to the totals.
			continue
		}

		entry := ForecastEntry{
			SeriesKey:           key.label,
			Type:                key.typ,
			PredictedDate:       predicted,
			PredictedAmount:     avgAmount,
			ExpectedOccurrences: occurrences,
			TotalEstimate:       Money{Cents: avgAmount.Cents * int64(occurrences)},
		}
		result.Forecast = append(result.Forecast, entry)

		if key.typ == Income {
			result.TotalIncome.Cents += entry.TotalEstimate.Cents
		} else {
			result.TotalSpending.Cents += entry.TotalEstimate.Cents
		}
	}

	// Map iteration order is random; emit entries deterministically.
	sort.Slice(result.Forecast, func(i, j int) bool {
		a, b := result.Forecast[i], result.Forecast[j]
		if !a.PredictedDate.Equal(b.PredictedDate.Time) {
			return a.PredictedDate.Before(b.PredictedDate.Time)
		}
		if a.SeriesKey != b.SeriesKey {
			return a.SeriesKey < b.SeriesKey
		}
		return a.Type < b.Type
	})

	result.NetSavings = Money{Cents: result.TotalIncome.Cents - result.TotalSpending.Cents}
	return result
}

// meanIntervalDays returns the mean consecutive-date delta rounded to whole
// days. Reports false for degenerate series: no deltas, same-day repeats
// (interval rounds to zero) or intervals too sparse to extrapolate.
func meanIntervalDays(members []Transaction) (int, bool) {
	var sum, n int
	for i := 1; i < len(members); i++ {
		sum += members[i].Date.DaysSince(members[i-1].Date)
		n++
	}
	if n == 0 {
		return 0, false
	}
	interval := int(math.Round(float64(sum) / float64(n)))
	if interval == 0 || interval > maxIntervalDays {
		return 0, false
	}
	return interval, true
}

// meanAmount returns the mean amount in cents, half-up rounded.
func meanAmount(members []Transaction) Money {
	var sum int64
	for _, tx := range members {
		sum += tx.Amount.Cents
	}
	n := int64(len(members))
	return Money{Cents: (sum + n/2) / n}
}

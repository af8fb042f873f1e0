package core

// Summary is a pure historical rollup of a transaction window: totals by
// type plus a spending-by-category breakdown. It performs no recurrence
// detection and is served under its own endpoint, never mixed with the
// forecast shape.
type Summary struct {
	TotalIncome        Money            `json:"total_income"`
	TotalSpending      Money            `json:"total_spending"`
	NetSavings         Money            `json:"net_savings"`
	SpendingByCategory map[string]Money `json:"spending_by_category"`
}

// Summarize sums the given transactions by type. Transactions without a
// category bucket under "uncategorized". Type is the only discriminant:
// income rows never count toward spending, whatever their category says.
func Summarize(txs []Transaction) Summary {
	s := Summary{SpendingByCategory: map[string]Money{}}
	for _, tx := range txs {
		if tx.Type == Income {
			s.TotalIncome.Cents += tx.Amount.Cents
			continue
		}
		s.TotalSpending.Cents += tx.Amount.Cents
		category := tx.Category
		if category == "" {
			category = "uncategorized"
		}
		bucket := s.SpendingByCategory[category]
		bucket.Cents += tx.Amount.Cents
		s.SpendingByCategory[category] = bucket
	}
	s.NetSavings = Money{Cents: s.TotalIncome.Cents - s.TotalSpending.Cents}
	return s
}

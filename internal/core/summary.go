package core

import "github.com/shopspring/decimal"

// Stats totals a period by transaction type.
type Stats struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Balance is income minus expense.
func (s Stats) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	// Percent of the largest amount in the same breakdown, 0-100.
	Percent int `json:"percent"`
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"` // 1-12
	Stats      Stats            `json:"stats"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

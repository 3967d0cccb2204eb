// Package views derives read models from a transaction snapshot. Every
// function is pure and safe to call on any snapshot.
package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"cozypocket/internal/core"
)

// Daily returns the records dated exactly on date, latest time of day first.
func Daily(txs []core.Transaction, date core.Date) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.Date.Equal(date) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return core.MinuteOfDay(out[i].Time) > core.MinuteOfDay(out[j].Time)
	})
	return out
}

// Monthly sums income and expense over the calendar month containing date.
func Monthly(txs []core.Transaction, date core.Date) core.Stats {
	stats := core.Stats{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if !tx.Date.SameMonth(date) {
			continue
		}
		switch tx.Type {
		case core.Income:
			stats.Income = stats.Income.Add(tx.Amount)
		case core.Expense:
			stats.Expense = stats.Expense.Add(tx.Amount)
		}
	}
	return stats
}

// DaySet is the set of dates with at least one record.
type DaySet map[core.Date]struct{}

func (d DaySet) Has(date core.Date) bool {
	_, ok := d[date]
	return ok
}

// Days indexes txs by date so calendar rendering does not rescan the
// collection for every cell.
func Days(txs []core.Transaction) DaySet {
	set := make(DaySet, len(txs))
	for _, tx := range txs {
		set[tx.Date] = struct{}{}
	}
	return set
}

func HasTransactions(txs []core.Transaction, date core.Date) bool {
	for _, tx := range txs {
		if tx.Date.Equal(date) {
			return true
		}
	}
	return false
}

// Breakdown totals one type per category for the month containing date,
// largest first.
func Breakdown(txs []core.Transaction, date core.Date, t core.Type) []core.CategoryAmount {
	byCat := map[string]*core.CategoryAmount{}
	var order []string
	for _, tx := range txs {
		if tx.Type != t || !tx.Date.SameMonth(date) {
			continue
		}
		ca, ok := byCat[tx.CategoryID]
		if !ok {
			ca = &core.CategoryAmount{CategoryID: tx.CategoryID, Amount: decimal.Zero}
			byCat[tx.CategoryID] = ca
			order = append(order, tx.CategoryID)
		}
		ca.Amount = ca.Amount.Add(tx.Amount)
		ca.Count++
	}

	out := make([]core.CategoryAmount, 0, len(order))
	for _, id := range order {
		out = append(out, *byCat[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Abs().GreaterThan(out[j].Amount.Abs())
	})
	if len(out) > 0 {
		top := out[0].Amount.Abs()
		for i := range out {
			if top.IsPositive() {
				out[i].Percent = int(out[i].Amount.Abs().Mul(decimal.NewFromInt(100)).Div(top).Round(0).IntPart())
			}
		}
	}
	return out
}

// Overview bundles the monthly totals and expense breakdown.
func Overview(txs []core.Transaction, date core.Date) core.MonthOverview {
	return core.MonthOverview{
		Year:       date.Year(),
		Month:      int(date.Month()),
		Stats:      Monthly(txs, date),
		ByCategory: Breakdown(txs, date, core.Expense),
	}
}

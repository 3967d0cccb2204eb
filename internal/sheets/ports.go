// Package sheets turns the transaction collection into a spreadsheet
// table and defines the port exporters implement.
package sheets

import (
	"context"
	"sort"

	"cozypocket/internal/core"
	"cozypocket/internal/taxonomy"
)

// Exporter replaces the remote table with the given transactions.
type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) error
}

// Header is the first row of every exported table.
var Header = []string{"ID", "Date", "Time", "Type", "Amount", "Category", "Subcategory", "Name", "Merchant", "Payment", "Note", "Tags"}

// Rows renders txs newest first, header included. Cells are plain strings
// so the sheet receives them verbatim.
func Rows(txs []core.Transaction) [][]any {
	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return core.MinuteOfDay(a.Time) > core.MinuteOfDay(b.Time)
	})

	rows := make([][]any, 0, len(sorted)+1)
	head := make([]any, len(Header))
	for i, h := range Header {
		head[i] = h
	}
	rows = append(rows, head)

	for _, tx := range sorted {
		cat := taxonomy.Resolve(tx.CategoryID)
		sub := ""
		if s, ok := cat.Subcategory(tx.SubCategoryID); ok {
			sub = s.Name
		}
		rows = append(rows, []any{
			tx.ID,
			tx.Date.String(),
			tx.Time,
			string(tx.Type),
			tx.Amount.StringFixed(2),
			cat.Name,
			sub,
			tx.Name,
			tx.Merchant,
			tx.PaymentMethod.Label(),
			tx.Note,
			tx.Tags,
		})
	}
	return rows
}

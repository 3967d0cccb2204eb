package http

import (
	"strings"

	"github.com/shopspring/decimal"

	"cozypocket/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formatMoney renders an amount with a currency prefix, e.g. "$1,250".
func formatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := core.FormatAmount(d.Abs())
	whole, frac, hasFrac := strings.Cut(s, ".")
	whole = groupThousands(whole)
	if hasFrac {
		whole += "." + frac
	}
	if neg {
		return "-$" + whole
	}
	return "$" + whole
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

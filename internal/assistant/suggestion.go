package assistant

import (
	"github.com/shopspring/decimal"

	"cozypocket/internal/core"
	"cozypocket/internal/taxonomy"
)

// Suggestion is the assistant's best guess for a transaction. Every field
// is optional; zero values mean "no opinion".
type Suggestion struct {
	Amount        decimal.NullDecimal `json:"amount"`
	Type          core.Type           `json:"type,omitempty"`
	CategoryID    string              `json:"categoryId,omitempty"`
	SubCategoryID string              `json:"subCategoryId,omitempty"`
	Merchant      string              `json:"merchant,omitempty"`
	Note          string              `json:"note,omitempty"`
	PaymentMethod core.PaymentMethod  `json:"paymentMethod,omitempty"`
	Date          core.Date           `json:"date"`
}

func (s Suggestion) IsEmpty() bool {
	return !s.Amount.Valid && s.Type == "" && s.CategoryID == "" && s.SubCategoryID == "" &&
		s.Merchant == "" && s.Note == "" && s.PaymentMethod == "" && s.Date.IsZero()
}

// Sanitize drops anything that does not resolve against the taxonomy or the
// model's enums, so callers can apply the result field by field.
func (s Suggestion) Sanitize() Suggestion {
	if s.Amount.Valid && s.Amount.Decimal.IsZero() {
		s.Amount = decimal.NullDecimal{}
	}
	if s.Type != "" && !s.Type.Valid() {
		s.Type = ""
	}
	if s.PaymentMethod != "" && !s.PaymentMethod.Valid() {
		s.PaymentMethod = ""
	}

	t := s.Type
	if t == "" {
		t = core.Expense
	}
	if s.CategoryID != "" {
		c, ok := taxonomy.Match(t, s.CategoryID)
		if !ok && s.Type == "" {
			// No type given: the category may still be an income one.
			if c, ok = taxonomy.Match(core.Income, s.CategoryID); ok {
				s.Type = core.Income
			}
		}
		if ok {
			s.CategoryID = c.ID
		} else {
			s.CategoryID = ""
		}
	}
	if s.SubCategoryID != "" {
		if _, ok := taxonomy.Subcategory(s.CategoryID, s.SubCategoryID); !ok {
			s.SubCategoryID = ""
		}
	}
	return s
}

package form

import (
	"cozypocket/internal/assistant"
	"cozypocket/internal/core"
	"cozypocket/internal/taxonomy"
)

// ApplySuggestion overwrites the fields the assistant had an opinion on.
// An empty suggestion leaves the form exactly as it was. The type only
// changes while creating, and a category that does not fit the resulting
// type is ignored.
func (f Form) ApplySuggestion(s assistant.Suggestion) Form {
	s = s.Sanitize()
	if s.IsEmpty() {
		return f
	}

	if s.Type.Valid() && s.Type != f.Type && f.Mode == Create {
		f = f.SwitchType(s.Type)
	}
	if s.Amount.Valid {
		f.Amount = s.Amount.Decimal.String()
	}
	if s.CategoryID != "" && taxonomy.ValidFor(f.Type, s.CategoryID) {
		if s.CategoryID != f.CategoryID {
			f.SubCategoryID = ""
		}
		f.CategoryID = s.CategoryID
		if s.SubCategoryID != "" && f.Type == core.Expense {
			f.SubCategoryID = s.SubCategoryID
		}
		f.Level = LevelCategory
	}
	if s.Merchant != "" {
		f.Merchant = s.Merchant
	}
	if s.Note != "" {
		f.Note = s.Note
	}
	if s.PaymentMethod.Valid() {
		f.PaymentMethod = s.PaymentMethod
	}
	if !s.Date.IsZero() {
		f.Date = s.Date
	}
	f.Error = ""
	return f
}

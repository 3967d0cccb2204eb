package form

import (
	"net/url"
	"strings"

	"cozypocket/internal/core"
)

// Field names used in the rendered HTML form.
const (
	FieldMode          = "mode"
	FieldID            = "id"
	FieldType          = "type"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldSubcategory   = "subcategory"
	FieldName          = "name"
	FieldNote          = "note"
	FieldMerchant      = "merchant"
	FieldTags          = "tags"
	FieldDate          = "date"
	FieldTime          = "time"
	FieldPayment       = "payment"
	FieldLevel         = "level"
	FieldConfirmDelete = "confirm_delete"
)

// Values encodes the form state as HTML form fields.
func (f Form) Values() url.Values {
	v := url.Values{}
	v.Set(FieldMode, string(f.Mode))
	v.Set(FieldID, f.ID)
	v.Set(FieldType, string(f.Type))
	v.Set(FieldAmount, f.Amount)
	v.Set(FieldCategory, f.CategoryID)
	v.Set(FieldSubcategory, f.SubCategoryID)
	v.Set(FieldName, f.Name)
	v.Set(FieldNote, f.Note)
	v.Set(FieldMerchant, f.Merchant)
	v.Set(FieldTags, f.Tags)
	v.Set(FieldDate, f.Date.String())
	v.Set(FieldTime, f.Time)
	v.Set(FieldPayment, string(f.PaymentMethod))
	v.Set(FieldLevel, string(f.Level))
	if f.ConfirmingDelete {
		v.Set(FieldConfirmDelete, "1")
	}
	return v
}

// FromValues rebuilds an open form from submitted fields. Unknown or
// malformed values fall back to safe defaults instead of failing, except
// for the date which is required to render the form at all.
func FromValues(v url.Values) (Form, error) {
	f := Form{
		Mode:          Create,
		ID:            strings.TrimSpace(v.Get(FieldID)),
		Amount:        strings.TrimSpace(v.Get(FieldAmount)),
		CategoryID:    strings.TrimSpace(v.Get(FieldCategory)),
		SubCategoryID: strings.TrimSpace(v.Get(FieldSubcategory)),
		Name:          v.Get(FieldName),
		Note:          v.Get(FieldNote),
		Merchant:      v.Get(FieldMerchant),
		Tags:          v.Get(FieldTags),
		Time:          strings.TrimSpace(v.Get(FieldTime)),
		Level:         LevelCategory,
		Open:          true,
	}
	if Mode(v.Get(FieldMode)) == Edit && f.ID != "" {
		f.Mode = Edit
	}
	if t, err := core.ParseType(v.Get(FieldType)); err == nil {
		f.Type = t
	} else {
		f.Type = core.Expense
	}
	if p, err := core.ParsePaymentMethod(v.Get(FieldPayment)); err == nil {
		f.PaymentMethod = p
	} else {
		f.PaymentMethod = core.Cash
	}
	if Level(v.Get(FieldLevel)) == LevelSubcategory {
		f.Level = LevelSubcategory
	}
	f.ConfirmingDelete = v.Get(FieldConfirmDelete) != "" && f.Mode == Edit

	d, err := core.ParseDate(v.Get(FieldDate))
	if err != nil {
		return f, err
	}
	f.Date = d
	return f, nil
}

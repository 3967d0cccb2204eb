// Package form is the entry form state machine behind the add/edit modal.
//
// A Form is a plain value. Each user event is a method that moves it to
// its next state; the HTTP layer rebuilds the value from submitted fields
// on every request via FromValues and renders it back out.
package form

import (
	"context"
	"errors"
	"strings"
	"time"

	"cozypocket/internal/core"
	"cozypocket/internal/taxonomy"
)

type Mode string

const (
	Create Mode = "create"
	Edit   Mode = "edit"
)

// Level is the depth of the category picker.
type Level string

const (
	LevelCategory    Level = "category"
	LevelSubcategory Level = "subcategory"
)

// ErrNotEditing is returned by delete operations outside edit mode.
var ErrNotEditing = errors.New("delete is only available while editing")

// Mutator is the subset of the transaction store the form writes through.
type Mutator interface {
	Add(ctx context.Context, tx core.Transaction) core.Transaction
	Update(ctx context.Context, tx core.Transaction) bool
	Delete(ctx context.Context, id string) bool
}

type Form struct {
	Mode          Mode
	ID            string
	Type          core.Type
	Amount        string
	CategoryID    string
	SubCategoryID string
	Name          string
	Note          string
	Merchant      string
	Tags          string
	Date          core.Date
	Time          string
	PaymentMethod core.PaymentMethod

	Level            Level
	ConfirmingDelete bool
	Open             bool
	Error            string
}

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Result describes what a completed submit or delete did.
type Result struct {
	Action      Action
	Transaction core.Transaction
	// Applied is false when the store ignored the change because the record
	// no longer exists.
	Applied bool
}

// NewCreate opens an empty expense form on date, stamped with now's time.
func NewCreate(date core.Date, now time.Time) Form {
	return Form{
		Mode:          Create,
		Type:          core.Expense,
		CategoryID:    taxonomy.DefaultCategory(core.Expense),
		Date:          date,
		Time:          core.Clock(now),
		PaymentMethod: core.Cash,
		Level:         LevelCategory,
		Open:          true,
	}
}

// NewEdit opens the form seeded from an existing record.
func NewEdit(tx core.Transaction) Form {
	f := Form{
		Mode:          Edit,
		ID:            tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount.String(),
		CategoryID:    tx.CategoryID,
		SubCategoryID: tx.SubCategoryID,
		Name:          tx.Name,
		Note:          tx.Note,
		Merchant:      tx.Merchant,
		Tags:          tx.Tags,
		Date:          tx.Date,
		Time:          tx.Time,
		PaymentMethod: tx.PaymentMethod,
		Level:         LevelCategory,
		Open:          true,
	}
	if !f.Type.Valid() {
		f.Type = core.Expense
	}
	if !f.PaymentMethod.Valid() {
		f.PaymentMethod = core.Cash
	}
	return f
}

func (f Form) Title() string {
	if f.Mode == Edit {
		return "Edit entry"
	}
	return "New entry"
}

// ShowTabs reports whether the expense/income switch is offered.
func (f Form) ShowTabs() bool {
	return f.Mode == Create
}

// Category resolves the selected category, falling back for unknown ids.
func (f Form) Category() taxonomy.Category {
	return taxonomy.Resolve(f.CategoryID)
}

// Choices are the categories the picker shows at the top level.
func (f Form) Choices() []taxonomy.Category {
	return taxonomy.ForType(f.Type)
}

// SwitchType changes the active tab. While creating, the category resets
// to the new type's default; while editing the tab is fixed.
func (f Form) SwitchType(t core.Type) Form {
	if f.Mode != Create || !t.Valid() {
		return f
	}
	f.Type = t
	f.CategoryID = taxonomy.DefaultCategory(t)
	f.SubCategoryID = ""
	f.Level = LevelCategory
	f.Error = ""
	return f
}

// SelectCategory picks a top-level category. Expense categories with
// subcategories drill down into the subcategory grid.
func (f Form) SelectCategory(id string) Form {
	c, ok := taxonomy.Lookup(id)
	if !ok || c.Type != f.Type {
		return f
	}
	if f.CategoryID != id {
		f.SubCategoryID = ""
	}
	f.CategoryID = id
	if f.Type == core.Expense && c.HasSubcategories() {
		f.Level = LevelSubcategory
	} else {
		f.Level = LevelCategory
	}
	return f
}

// SelectSubcategory picks a subcategory of the current category and
// returns to the top-level grid.
func (f Form) SelectSubcategory(id string) Form {
	if f.Type != core.Expense {
		return f
	}
	if _, ok := taxonomy.Subcategory(f.CategoryID, id); !ok {
		return f
	}
	f.SubCategoryID = id
	f.Level = LevelCategory
	return f
}

// Back leaves the subcategory grid, keeping the current selection.
func (f Form) Back() Form {
	f.Level = LevelCategory
	return f
}

func (f Form) CyclePaymentMethod() Form {
	f.PaymentMethod = f.PaymentMethod.Next()
	return f
}

func (f Form) SetPaymentMethod(p core.PaymentMethod) Form {
	if p.Valid() {
		f.PaymentMethod = p
	}
	return f
}

// Transaction builds the record the form describes. The amount must parse
// to a non-zero number.
func (f Form) Transaction() (core.Transaction, error) {
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	if f.Date.IsZero() {
		return core.Transaction{}, core.ErrInvalidDate
	}
	if f.Time != "" {
		if _, err := core.ParseClock(f.Time); err != nil {
			return core.Transaction{}, err
		}
	}
	category := f.CategoryID
	if !taxonomy.ValidFor(f.Type, category) {
		category = taxonomy.DefaultCategory(f.Type)
	}
	tx := core.Transaction{
		ID:            f.ID,
		Type:          f.Type,
		Amount:        amount,
		CategoryID:    category,
		SubCategoryID: f.SubCategoryID,
		Name:          f.Name,
		Note:          f.Note,
		Merchant:      f.Merchant,
		Tags:          f.Tags,
		Date:          f.Date,
		Time:          f.Time,
		PaymentMethod: f.PaymentMethod,
	}
	if _, ok := taxonomy.Subcategory(category, tx.SubCategoryID); !ok {
		tx.SubCategoryID = ""
	}
	return tx.Normalize(), nil
}

// Submit validates and writes the form. On a validation error the form
// stays open with Error set and the error is returned; on success the form
// closes.
func (f Form) Submit(ctx context.Context, m Mutator) (Form, Result, error) {
	tx, err := f.Transaction()
	if err != nil {
		f.Error = validationMessage(err)
		return f, Result{}, err
	}

	var res Result
	switch f.Mode {
	case Edit:
		res = Result{Action: Updated, Transaction: tx, Applied: m.Update(ctx, tx)}
	default:
		tx.ID = ""
		res = Result{Action: Created, Transaction: m.Add(ctx, tx), Applied: true}
	}
	return f.close(), res, nil
}

// RequestDelete asks for confirmation.
func (f Form) RequestDelete() (Form, error) {
	if f.Mode != Edit {
		return f, ErrNotEditing
	}
	f.ConfirmingDelete = true
	return f, nil
}

func (f Form) CancelDelete() Form {
	f.ConfirmingDelete = false
	return f
}

// ConfirmDelete removes the record. It requires a prior RequestDelete.
func (f Form) ConfirmDelete(ctx context.Context, m Mutator) (Form, Result, error) {
	if f.Mode != Edit {
		return f, Result{}, ErrNotEditing
	}
	if !f.ConfirmingDelete {
		return f, Result{}, errors.New("delete not confirmed")
	}
	applied := m.Delete(ctx, f.ID)
	return f.close(), Result{Action: Deleted, Transaction: core.Transaction{ID: f.ID}, Applied: applied}, nil
}

// AssistantText joins the free-text fields sent to the parsing assistant.
func (f Form) AssistantText() string {
	var parts []string
	for _, s := range []string{f.Name, f.Merchant, f.Note, f.Tags} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (f Form) close() Form {
	f.Open = false
	f.ConfirmingDelete = false
	f.Error = ""
	return f
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Enter an amount other than zero."
	case errors.Is(err, core.ErrInvalidDate):
		return "Pick a valid date."
	case errors.Is(err, core.ErrInvalidTime):
		return "Time must look like 08:30."
	default:
		return err.Error()
	}
}

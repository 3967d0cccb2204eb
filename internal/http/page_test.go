package http

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozypocket/internal/calendar"
	"cozypocket/internal/core"
	"cozypocket/internal/form"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"12", "$12"},
		{"12.5", "$12.50"},
		{"999", "$999"},
		{"1250", "$1,250"},
		{"1234567.891", "$1,234,567.89"},
		{"-12.5", "-$12.50"},
		{"-1000", "-$1,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestCellClasses(t *testing.T) {
	d := calendar.Day{InMonth: true}
	assert.Equal(t, "day", cellClasses(d))

	d = calendar.Day{InMonth: false, Selected: true, Today: true, Sunday: true, Marked: true}
	assert.Equal(t, "day outside selected today sunday marked", cellClasses(d))
}

func TestNewItemView(t *testing.T) {
	tx := core.Transaction{
		ID:            "1",
		Type:          core.Expense,
		Amount:        decimal.NewFromInt(12),
		CategoryID:    "food",
		SubCategoryID: "lunch",
		Name:          "Ramen",
		Merchant:      "Ichiran",
		Tags:          "work",
		Date:          core.NewDate(2026, time.January, 17),
		Time:          "12:30",
		PaymentMethod: core.CreditCard,
	}
	item := newItemView(tx)
	assert.Equal(t, "Ramen", item.Title)
	assert.Equal(t, "Food · Lunch", item.Subtitle)
	assert.Equal(t, "Ichiran · #work", item.Detail)
	assert.Equal(t, "$12", item.Amount)
	assert.False(t, item.Income)
	assert.Equal(t, core.CreditCard.Label(), item.Payment)

	t.Run("falls back to subcategory title", func(t *testing.T) {
		bare := tx
		bare.Name, bare.Merchant, bare.Tags = "", "", ""
		item := newItemView(bare)
		assert.Equal(t, "Lunch", item.Title)
		assert.Empty(t, item.Subtitle)
		assert.Equal(t, "No details", item.Detail)
	})

	t.Run("unknown category resolves to other", func(t *testing.T) {
		odd := tx
		odd.CategoryID = "vanished"
		odd.SubCategoryID = ""
		item := newItemView(odd)
		assert.NotEmpty(t, item.Color)
		assert.Equal(t, "Ramen", item.Title)
	})
}

func TestHiddenFieldsSkipVisibleInputs(t *testing.T) {
	f := form.NewCreate(core.NewDate(2026, time.January, 17), time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC))
	f.Amount = "5"

	hidden := hiddenFields(f.Values())
	names := map[string]string{}
	for _, h := range hidden {
		names[h.Name] = h.Value
	}
	assert.Equal(t, "create", names[form.FieldMode])
	assert.Equal(t, "expense", names[form.FieldType])
	assert.NotContains(t, names, form.FieldAmount)
	assert.NotContains(t, names, form.FieldDate)
	assert.NotContains(t, names, form.FieldConfirmDelete)

	edit, err := form.NewEdit(core.Transaction{ID: "7", Type: core.Expense, Amount: decimal.NewFromInt(1),
		CategoryID: "food", Date: core.NewDate(2026, time.January, 17)}).RequestDelete()
	require.NoError(t, err)
	values := edit.Values()
	hidden = hiddenFields(values)
	last := hidden[len(hidden)-1]
	assert.Equal(t, hiddenField{Name: form.FieldConfirmDelete, Value: "1"}, last)

	round, err := form.FromValues(values)
	require.NoError(t, err)
	assert.True(t, round.ConfirmingDelete)
}

func TestNavigate(t *testing.T) {
	today := core.NewDate(2026, time.January, 17)
	cur := calendar.NewCursor(today).Jump(core.NewDate(2026, time.March, 31))

	assert.Equal(t, "2026-02-28", navigate(cur, NavPrev, today).Selected().String())
	assert.Equal(t, "2026-04-30", navigate(cur, NavNext, today).Selected().String())
	assert.Equal(t, "2026-01-17", navigate(cur, NavToday, today).Selected().String())
	assert.Equal(t, "2026-03-31", navigate(cur, "sideways", today).Selected().String())
}

func TestBuildFormViewPicking(t *testing.T) {
	f := form.NewCreate(core.NewDate(2026, time.January, 17), time.Now()).SelectCategory("food")
	v := buildFormView(f, true)

	assert.True(t, v.Picking)
	assert.True(t, v.ShowTabs)
	assert.True(t, v.AssistantEnabled)
	require.NotEmpty(t, v.Subcategories)
	assert.Equal(t, "breakfast", v.Subcategories[0].ID)
	for _, c := range v.Choices {
		if c.ID == "food" {
			assert.True(t, c.Selected)
		}
	}
}

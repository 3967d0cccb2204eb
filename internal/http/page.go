package http

import (
	"net/url"
	"strings"

	"cozypocket/internal/calendar"
	"cozypocket/internal/core"
	"cozypocket/internal/form"
	"cozypocket/internal/taxonomy"
	"cozypocket/internal/views"
)

// Navigation values accepted by the day panel.
const (
	NavPrev  = "prev"
	NavNext  = "next"
	NavToday = "today"
)

type pageView struct {
	Day              dayView
	AssistantEnabled bool
}

type dayView struct {
	Date      string
	Label     string
	Title     string
	Prev      string
	Next      string
	Weekdays  []string
	Weeks     []weekView
	Income    string
	Expense   string
	Balance   string
	Negative  bool
	Breakdown []breakdownRow
	Items     []itemView
}

type weekView struct {
	Days []dayCell
}

type dayCell struct {
	Date    string
	Number  int
	Classes string
}

type breakdownRow struct {
	Name    string
	Color   string
	Amount  string
	Count   int
	Percent int
}

type itemView struct {
	ID       string
	Title    string
	Subtitle string
	Detail   string
	Amount   string
	Income   bool
	Color    string
	Icon     string
	Time     string
	Payment  string
}

// navigate applies a panel navigation request to the cursor.
func navigate(cur calendar.Cursor, nav string, today core.Date) calendar.Cursor {
	switch nav {
	case NavPrev:
		return cur.PrevMonth()
	case NavNext:
		return cur.NextMonth()
	case NavToday:
		return cur.Today(today)
	default:
		return cur
	}
}

func buildDayView(txs []core.Transaction, selected, today core.Date) dayView {
	days := views.Days(txs)
	grid := calendar.BuildGrid(selected, today, days.Has)
	stats := views.Monthly(txs, selected)

	v := dayView{
		Date:     selected.String(),
		Label:    selected.Format("Monday, January 2"),
		Title:    grid.Title(),
		Prev:     grid.Prev().String(),
		Next:     grid.Next().String(),
		Weekdays: calendar.WeekdayLabels(),
		Income:   formatMoney(stats.Income),
		Expense:  formatMoney(stats.Expense),
		Balance:  formatMoney(stats.Balance()),
		Negative: stats.Balance().IsNegative(),
	}
	for _, w := range grid.Weeks {
		var wv weekView
		for _, d := range w {
			wv.Days = append(wv.Days, dayCell{Date: d.Date.String(), Number: d.Date.Day(), Classes: cellClasses(d)})
		}
		v.Weeks = append(v.Weeks, wv)
	}
	for _, ca := range views.Breakdown(txs, selected, core.Expense) {
		c := taxonomy.Resolve(ca.CategoryID)
		v.Breakdown = append(v.Breakdown, breakdownRow{
			Name:    c.Name,
			Color:   c.Color,
			Amount:  formatMoney(ca.Amount),
			Count:   ca.Count,
			Percent: ca.Percent,
		})
	}
	for _, tx := range views.Daily(txs, selected) {
		v.Items = append(v.Items, newItemView(tx))
	}
	return v
}

func cellClasses(d calendar.Day) string {
	classes := []string{"day"}
	if !d.InMonth {
		classes = append(classes, "outside")
	}
	if d.Selected {
		classes = append(classes, "selected")
	}
	if d.Today {
		classes = append(classes, "today")
	}
	if d.Saturday {
		classes = append(classes, "saturday")
	}
	if d.Sunday {
		classes = append(classes, "sunday")
	}
	if d.Marked {
		classes = append(classes, "marked")
	}
	return strings.Join(classes, " ")
}

func newItemView(tx core.Transaction) itemView {
	c := taxonomy.Resolve(tx.CategoryID)
	category := c.Name
	if sub, ok := taxonomy.Subcategory(tx.CategoryID, tx.SubCategoryID); ok {
		category += " · " + sub.Name
	}

	item := itemView{
		ID:      tx.ID,
		Title:   tx.DisplayTitle(taxonomy.Names{}),
		Amount:  formatMoney(tx.Amount),
		Income:  tx.Type == core.Income,
		Color:   c.Color,
		Icon:    string(c.Icon),
		Time:    tx.Time,
		Payment: tx.PaymentMethod.Label(),
	}
	if tx.Name != "" {
		item.Subtitle = category
	}

	var detail []string
	if tx.Merchant != "" {
		detail = append(detail, tx.Merchant)
	}
	if tx.Note != "" {
		detail = append(detail, tx.Note)
	}
	if tx.Tags != "" {
		detail = append(detail, "#"+tx.Tags)
	}
	item.Detail = strings.Join(detail, " · ")
	if item.Detail == "" {
		item.Detail = "No details"
	}
	return item
}

type formView struct {
	Form             form.Form
	Title            string
	ShowTabs         bool
	Hidden           []hiddenField
	Choices          []choiceView
	Subcategories    []choiceView
	CategoryName     string
	Payment          string
	Picking          bool
	AssistantEnabled bool
}

type hiddenField struct {
	Name  string
	Value string
}

type choiceView struct {
	ID       string
	Name     string
	Color    string
	Icon     string
	Selected bool
}

// visibleFields are rendered as inputs; everything else in Form.Values
// travels as hidden state.
var visibleFields = map[string]bool{
	form.FieldAmount:   true,
	form.FieldName:     true,
	form.FieldNote:     true,
	form.FieldMerchant: true,
	form.FieldTags:     true,
	form.FieldDate:     true,
	form.FieldTime:     true,
}

func buildFormView(f form.Form, assistantEnabled bool) formView {
	v := formView{
		Form:             f,
		Title:            f.Title(),
		ShowTabs:         f.ShowTabs(),
		Hidden:           hiddenFields(f.Values()),
		Payment:          f.PaymentMethod.Label(),
		Picking:          f.Level == form.LevelSubcategory,
		AssistantEnabled: assistantEnabled,
	}

	current := f.Category()
	v.CategoryName = taxonomy.DisplayName(f.CategoryID, f.SubCategoryID)
	for _, c := range f.Choices() {
		v.Choices = append(v.Choices, choiceView{
			ID:       c.ID,
			Name:     c.Name,
			Color:    c.Color,
			Icon:     string(c.Icon),
			Selected: c.ID == current.ID,
		})
	}
	if v.Picking {
		for _, s := range current.Subcategories {
			v.Subcategories = append(v.Subcategories, choiceView{
				ID:       s.ID,
				Name:     s.Name,
				Color:    current.Color,
				Icon:     string(s.Icon),
				Selected: s.ID == f.SubCategoryID,
			})
		}
	}
	return v
}

func hiddenFields(values url.Values) []hiddenField {
	order := []string{
		form.FieldMode, form.FieldID, form.FieldType, form.FieldCategory,
		form.FieldSubcategory, form.FieldPayment, form.FieldLevel, form.FieldConfirmDelete,
	}
	var out []hiddenField
	for _, name := range order {
		if visibleFields[name] || !values.Has(name) {
			continue
		}
		out = append(out, hiddenField{Name: name, Value: values.Get(name)})
	}
	return out
}

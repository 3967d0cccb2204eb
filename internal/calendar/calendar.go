// Package calendar implements the selected-date cursor and the month grid.
package calendar

import (
	"time"

	"cozypocket/internal/core"
)

// Cursor is the selected date. The zero value is not useful; use NewCursor.
type Cursor struct {
	selected core.Date
}

func NewCursor(today core.Date) Cursor {
	return Cursor{selected: today}
}

func (c Cursor) Selected() core.Date {
	return c.selected
}

// NextMonth moves one month forward. A day that does not exist in the
// target month clamps to its last day (Jan 31 -> Feb 28).
func (c Cursor) NextMonth() Cursor {
	return Cursor{selected: c.selected.AddMonths(1)}
}

// PrevMonth is the mirror of NextMonth.
func (c Cursor) PrevMonth() Cursor {
	return Cursor{selected: c.selected.AddMonths(-1)}
}

func (c Cursor) Jump(d core.Date) Cursor {
	if d.IsZero() {
		return c
	}
	return Cursor{selected: d}
}

func (c Cursor) Today(today core.Date) Cursor {
	return Cursor{selected: today}
}

type Day struct {
	Date     core.Date
	InMonth  bool
	Selected bool
	Today    bool
	Weekend  bool
	Saturday bool
	Sunday   bool
	Marked   bool
}

type Week [7]Day

type Grid struct {
	Month    core.Date // first day of the displayed month
	Selected core.Date
	Weeks    []Week
}

// BuildGrid lays out the month of selected as whole Monday-first weeks,
// from the Monday on or before the 1st to the Sunday on or after the last
// day. marked reports whether a day has entries; it may be nil.
func BuildGrid(selected, today core.Date, marked func(core.Date) bool) Grid {
	first := selected.FirstOfMonth()
	last := selected.LastOfMonth()
	start := first.AddDays(-mondayOffset(first.Weekday()))
	end := last.AddDays(6 - mondayOffset(last.Weekday()))

	g := Grid{Month: first, Selected: selected}
	var week Week
	i := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		wd := d.Weekday()
		week[i] = Day{
			Date:     d,
			InMonth:  d.SameMonth(first),
			Selected: d.Equal(selected),
			Today:    d.Equal(today),
			Weekend:  d.IsWeekend(),
			Saturday: wd == time.Saturday,
			Sunday:   wd == time.Sunday,
			Marked:   marked != nil && marked(d),
		}
		i++
		if i == 7 {
			g.Weeks = append(g.Weeks, week)
			week = Week{}
			i = 0
		}
	}
	return g
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeekdayLabels are the column headers, Monday first.
func WeekdayLabels() []string {
	return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
}

// Title renders the displayed month, e.g. "January 2026".
func (g Grid) Title() string {
	return g.Month.Format("January 2006")
}

func (g Grid) Prev() core.Date {
	return g.Selected.AddMonths(-1)
}

func (g Grid) Next() core.Date {
	return g.Selected.AddMonths(1)
}

// Package taxonomy is the static category tree used to classify
// transactions. Expense categories carry subcategories, income categories
// do not. Every lookup resolves, falling back to Fallback for unknown ids.
package taxonomy

import (
	"strings"

	"cozypocket/internal/core"
)

// Icon is an icon identifier understood by the UI layer.
type Icon string

type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon Icon   `json:"icon"`
}

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          Icon          `json:"icon"`
	Color         string        `json:"color"`
	Type          core.Type     `json:"type"`
	Subcategories []SubCategory `json:"subcategories,omitempty"`
}

// HasSubcategories reports whether picking this category needs a second step.
func (c Category) HasSubcategories() bool {
	return len(c.Subcategories) > 0
}

func (c Category) Subcategory(id string) (SubCategory, bool) {
	for _, s := range c.Subcategories {
		if s.ID == id {
			return s, true
		}
	}
	return SubCategory{}, false
}

// Fallback is shown for references that no longer resolve.
var Fallback = Category{ID: "other", Name: "Other", Icon: "MoreHorizontal", Color: "#94A3B8"}

const (
	DefaultExpenseCategory = "food"
	DefaultIncomeCategory  = "salary"
)

var index map[string]Category

func init() {
	index = make(map[string]Category, len(expense)+len(income))
	for _, c := range expense {
		c.Type = core.Expense
		index[c.ID] = c
	}
	for _, c := range income {
		c.Type = core.Income
		index[c.ID] = c
	}
}

// Expense returns the expense categories in display order.
func Expense() []Category {
	return withType(expense, core.Expense)
}

// Income returns the income categories in display order.
func Income() []Category {
	return withType(income, core.Income)
}

// All returns expense categories followed by income categories.
func All() []Category {
	return append(Expense(), Income()...)
}

func ForType(t core.Type) []Category {
	if t == core.Income {
		return Income()
	}
	return Expense()
}

func DefaultCategory(t core.Type) string {
	if t == core.Income {
		return DefaultIncomeCategory
	}
	return DefaultExpenseCategory
}

func Lookup(id string) (Category, bool) {
	c, ok := index[id]
	if !ok {
		return Category{}, false
	}
	return clone(c), true
}

// Resolve never fails; unknown ids map to Fallback.
func Resolve(id string) Category {
	if c, ok := Lookup(id); ok {
		return c
	}
	return Fallback
}

func Subcategory(categoryID, subID string) (SubCategory, bool) {
	c, ok := index[categoryID]
	if !ok {
		return SubCategory{}, false
	}
	return c.Subcategory(subID)
}

// ValidFor reports whether categoryID belongs to the set for t.
func ValidFor(t core.Type, categoryID string) bool {
	c, ok := index[categoryID]
	return ok && c.Type == t
}

// DisplayName renders "Category · Subcategory", or just the category name.
func DisplayName(categoryID, subID string) string {
	c := Resolve(categoryID)
	if s, ok := c.Subcategory(subID); ok {
		return c.Name + " · " + s.Name
	}
	return c.Name
}

// Names adapts the package lookups to core.CategoryNamer.
type Names struct{}

func (Names) CategoryName(id string) string {
	return Resolve(id).Name
}

func (Names) SubcategoryName(categoryID, subID string) (string, bool) {
	s, ok := Subcategory(categoryID, subID)
	return s.Name, ok
}

// IDs lists category ids for t, optionally with their subcategory ids as
// "category/sub" pairs.
func IDs(t core.Type, withSubs bool) []string {
	var out []string
	for _, c := range ForType(t) {
		out = append(out, c.ID)
		if !withSubs {
			continue
		}
		for _, s := range c.Subcategories {
			out = append(out, c.ID+"/"+s.ID)
		}
	}
	return out
}

// Match finds a category of type t by id or case-insensitive name.
func Match(t core.Type, ref string) (Category, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Category{}, false
	}
	if c, ok := index[ref]; ok && c.Type == t {
		return clone(c), true
	}
	for _, c := range ForType(t) {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return Category{}, false
}

func withType(src []Category, t core.Type) []Category {
	out := make([]Category, len(src))
	for i, c := range src {
		c.Type = t
		out[i] = clone(c)
	}
	return out
}

func clone(c Category) Category {
	if c.Subcategories != nil {
		c.Subcategories = append([]SubCategory(nil), c.Subcategories...)
	}
	return c
}

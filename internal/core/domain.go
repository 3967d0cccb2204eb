package core

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Expense Type = "expense"
	Income  Type = "income"
)

const (
	Cash       PaymentMethod = "cash"
	CreditCard PaymentMethod = "credit_card"
	EPayment   PaymentMethod = "e_payment"
	Transfer   PaymentMethod = "transfer"
)

type (
	// Type tells expenses and income apart.
	Type string

	PaymentMethod string

	Transaction struct {
		ID            string          `json:"id"`
		Type          Type            `json:"type"`
		Amount        decimal.Decimal `json:"amount"`
		CategoryID    string          `json:"categoryId"`
		SubCategoryID string          `json:"subCategoryId,omitempty"`
		Name          string          `json:"name,omitempty"`
		Note          string          `json:"note,omitempty"`
		Merchant      string          `json:"merchant,omitempty"`
		Tags          string          `json:"tags,omitempty"`
		Date          Date            `json:"date"`
		Time          string          `json:"time"`
		PaymentMethod PaymentMethod   `json:"paymentMethod"`
	}

	// CategoryNamer resolves display names for category references.
	// Unknown ids must still yield a usable name.
	CategoryNamer interface {
		CategoryName(categoryID string) string
		SubcategoryName(categoryID, subCategoryID string) (string, bool)
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidTime          = errors.New("invalid time")
	ErrEmptyCategory        = errors.New("empty category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// PaymentMethods lists the methods in the order the entry form cycles them.
var PaymentMethods = []PaymentMethod{Cash, CreditCard, EPayment, Transfer}

var legacyTypes = map[string]Type{
	"支出": Expense,
	"收入": Income,
}

var legacyPaymentMethods = map[string]PaymentMethod{
	"現金":   Cash,
	"信用卡":  CreditCard,
	"電子支付": EPayment,
	"轉帳":   Transfer,
}

var paymentLabels = map[PaymentMethod]string{
	Cash:       "Cash",
	CreditCard: "Credit card",
	EPayment:   "E-payment",
	Transfer:   "Transfer",
}

// ParseType maps stored or submitted values to a Type. Empty input is
// treated as an expense, matching records written before the field existed.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	switch Type(strings.ToLower(s)) {
	case "", Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	if t, ok := legacyTypes[s]; ok {
		return t, nil
	}
	return "", ErrInvalidType
}

func (t Type) Valid() bool {
	return t == Expense || t == Income
}

func (t Type) String() string {
	return string(t)
}

// UnmarshalJSON decodes legacy labels and keeps unknown values as-is, so
// one bad record cannot fail the whole blob. Normalize turns them into
// expenses.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseType(s); err == nil {
		*t = parsed
		return nil
	}
	*t = Type(s)
	return nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	pm := PaymentMethod(strings.ToLower(s))
	if pm.Valid() {
		return pm, nil
	}
	if legacy, ok := legacyPaymentMethods[s]; ok {
		return legacy, nil
	}
	return "", ErrInvalidPaymentMethod
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// Label is the human readable name of the method.
func (p PaymentMethod) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return string(p)
}

// Next returns the method after p in PaymentMethods, wrapping around.
func (p PaymentMethod) Next() PaymentMethod {
	for i, m := range PaymentMethods {
		if m == p {
			return PaymentMethods[(i+1)%len(PaymentMethods)]
		}
	}
	return PaymentMethods[0]
}

// UnmarshalJSON keeps unknown values as-is so Normalize can repair them
// instead of failing the whole blob.
func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParsePaymentMethod(s); err == nil {
		*p = parsed
		return nil
	}
	*p = PaymentMethod(s)
	return nil
}

// Normalize repairs a record into its canonical shape: trimmed text,
// a zero-padded HH:MM time, a known type and payment method, and no
// subcategory on income.
func (t Transaction) Normalize() Transaction {
	if !t.Type.Valid() {
		t.Type = Expense
	}
	if !t.PaymentMethod.Valid() {
		t.PaymentMethod = Cash
	}
	t.CategoryID = strings.TrimSpace(t.CategoryID)
	t.SubCategoryID = strings.TrimSpace(t.SubCategoryID)
	if t.Type == Income {
		t.SubCategoryID = ""
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Note = strings.TrimSpace(t.Note)
	t.Merchant = strings.TrimSpace(t.Merchant)
	t.Tags = strings.TrimSpace(t.Tags)
	t.Time = strings.TrimSpace(t.Time)
	if clock, err := ParseClock(t.Time); err == nil {
		t.Time = Clock(clock)
	}
	return t
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Time != "" {
		if _, err := ParseClock(t.Time); err != nil {
			return err
		}
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if !t.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// DisplayTitle is the first non-empty of name, merchant, subcategory name
// and category name.
func (t Transaction) DisplayTitle(names CategoryNamer) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Merchant != "" {
		return t.Merchant
	}
	if t.SubCategoryID != "" {
		if n, ok := names.SubcategoryName(t.CategoryID, t.SubCategoryID); ok {
			return n
		}
	}
	return names.CategoryName(t.CategoryID)
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type stubNames struct{}

func (stubNames) CategoryName(id string) string {
	if id == "food" {
		return "Food"
	}
	return "Other"
}

func (stubNames) SubcategoryName(cat, sub string) (string, bool) {
	if cat == "food" && sub == "lunch" {
		return "Lunch", true
	}
	return "", false
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"expense", Expense, true},
		{"INCOME", Income, true},
		{"", Expense, true},
		{"支出", Expense, true},
		{"收入", Income, true},
		{"transfer", "", false},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q expected ErrInvalidType, got %v", tc.in, err)
		}
	}
}

func TestPaymentMethodNextCycles(t *testing.T) {
	p := Cash
	seen := []PaymentMethod{p}
	for i := 0; i < len(PaymentMethods); i++ {
		p = p.Next()
		seen = append(seen, p)
	}
	want := []PaymentMethod{Cash, CreditCard, EPayment, Transfer, Cash}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("step %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if PaymentMethod("cheque").Next() != Cash {
		t.Fatalf("unknown method should restart at cash")
	}
}

func TestTransactionUnmarshalLegacy(t *testing.T) {
	raw := `{"id":"1","amount":458,"categoryId":"food","subCategoryId":"lunch","date":"2026-01-17","time":"12:30","paymentMethod":"電子支付"}`
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tx = tx.Normalize()
	if tx.Type != Expense {
		t.Fatalf("missing type should default to expense, got %q", tx.Type)
	}
	if tx.PaymentMethod != EPayment {
		t.Fatalf("expected e_payment, got %q", tx.PaymentMethod)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(458)) {
		t.Fatalf("expected 458, got %s", tx.Amount)
	}
	if !tx.Date.Equal(NewDate(2026, time.January, 17)) {
		t.Fatalf("unexpected date %s", tx.Date)
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestTransactionRoundTripKeepsFields(t *testing.T) {
	in := Transaction{
		ID:            "42",
		Type:          Income,
		Amount:        decimal.RequireFromString("52000"),
		CategoryID:    "salary",
		Date:          NewDate(2026, time.March, 1),
		Time:          "09:00",
		PaymentMethod: Transfer,
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Transaction
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Type != in.Type || !out.Amount.Equal(in.Amount) || !out.Date.Equal(in.Date) {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestNormalizeIncomeDropsSubcategory(t *testing.T) {
	tx := Transaction{Type: Income, CategoryID: "salary", SubCategoryID: "lunch", PaymentMethod: "bogus"}
	tx = tx.Normalize()
	if tx.SubCategoryID != "" {
		t.Fatalf("income should not carry a subcategory")
	}
	if tx.PaymentMethod != Cash {
		t.Fatalf("unknown payment method should become cash, got %q", tx.PaymentMethod)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:          Expense,
		Amount:        decimal.NewFromInt(10),
		CategoryID:    "food",
		Date:          NewDate(2026, time.January, 1),
		Time:          "08:15",
		PaymentMethod: Cash,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Type = "gift" }, ErrInvalidType},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Time = "25:99" }, ErrInvalidTime},
		{func(tx *Transaction) { tx.CategoryID = " " }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.PaymentMethod = "cheque" }, ErrInvalidPaymentMethod},
	}
	for i, tc := range cases {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestDisplayTitleFallbackChain(t *testing.T) {
	base := Transaction{CategoryID: "food", SubCategoryID: "lunch"}
	cases := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"name wins", Transaction{Name: "Pizza", Merchant: "LOPIA", CategoryID: "food"}, "Pizza"},
		{"merchant next", Transaction{Merchant: "LOPIA", CategoryID: "food", SubCategoryID: "lunch"}, "LOPIA"},
		{"subcategory next", base, "Lunch"},
		{"category last", Transaction{CategoryID: "food"}, "Food"},
		{"unknown category", Transaction{CategoryID: "nope"}, "Other"},
	}
	for _, tc := range cases {
		if got := tc.tx.DisplayTitle(stubNames{}); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestDateAddMonthsClamps(t *testing.T) {
	cases := []struct {
		from Date
		n    int
		want Date
	}{
		{NewDate(2026, time.January, 31), 1, NewDate(2026, time.February, 28)},
		{NewDate(2028, time.January, 31), 1, NewDate(2028, time.February, 29)},
		{NewDate(2026, time.March, 31), -1, NewDate(2026, time.February, 28)},
		{NewDate(2026, time.December, 15), 1, NewDate(2027, time.January, 15)},
		{NewDate(2026, time.January, 10), -1, NewDate(2025, time.December, 10)},
	}
	for _, tc := range cases {
		if got := tc.from.AddMonths(tc.n); !got.Equal(tc.want) {
			t.Fatalf("%s %+d: expected %s, got %s", tc.from, tc.n, tc.want, got)
		}
	}
}

func TestDateOfIgnoresZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	instant := time.Date(2026, time.May, 2, 0, 30, 0, 0, loc)
	if got := DateOf(instant); got.String() != "2026-05-02" {
		t.Fatalf("expected wall-clock day, got %s", got)
	}
}

func TestNormalizePadsTime(t *testing.T) {
	cases := map[string]string{
		"9:05":   "09:05",
		" 7:00 ": "07:00",
		"23:59":  "23:59",
		"":       "",
		"noon":   "noon",
	}
	for in, want := range cases {
		got := Transaction{Time: in}.Normalize().Time
		if got != want {
			t.Errorf("Normalize time %q = %q, want %q", in, got, want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	if MinuteOfDay("9:05") >= MinuteOfDay("10:00") {
		t.Fatalf("9:05 should order before 10:00")
	}
	if got := MinuteOfDay("23:59"); got != 23*60+59 {
		t.Fatalf("MinuteOfDay(23:59) = %d", got)
	}
	if MinuteOfDay("") != -1 || MinuteOfDay("25:00") != -1 {
		t.Fatalf("unreadable times should give -1")
	}
}

func TestTransactionUnmarshalUnknownType(t *testing.T) {
	var tx Transaction
	raw := `{"id":"1","type":"loan","amount":30,"categoryId":"food","date":"2026-01-17","paymentMethod":"cash"}`
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("unknown type should decode, got %v", err)
	}
	if tx.Type.Valid() {
		t.Fatalf("expected the raw value to be kept, got %q", tx.Type)
	}
	if tx = tx.Normalize(); tx.Type != Expense {
		t.Fatalf("expected expense after Normalize, got %q", tx.Type)
	}
}

package ledger

import (
	"github.com/shopspring/decimal"

	"cozypocket/internal/core"
)

// Seed is the starter dataset shown when nothing has been stored yet. Dates
// are relative to today so a fresh install always has something to show.
func Seed(today core.Date) []core.Transaction {
	yesterday := today.AddDays(-1)
	dayBefore := today.AddDays(-2)

	exp := func(id string, amount int64, cat, sub, name, merchant string, d core.Date, at string, pm core.PaymentMethod) core.Transaction {
		return core.Transaction{
			ID: id, Type: core.Expense, Amount: decimal.NewFromInt(amount),
			CategoryID: cat, SubCategoryID: sub, Name: name, Merchant: merchant,
			Date: d, Time: at, PaymentMethod: pm,
		}
	}

	lunch := exp("1", 458, "food", "lunch", "Pizza lunch", "LOPIA", today, "12:30", core.EPayment)
	lunch.Note = "Half and half"
	lunch.Tags = "lunch"

	latte := exp("4", 120, "food", "drink", "Latte", "Starbucks", today, "15:20", core.CreditCard)
	latte.Tags = "afternoon tea"

	salary := core.Transaction{
		ID: "5", Type: core.Income, Amount: decimal.NewFromInt(52000),
		CategoryID: "salary", Name: "Monthly salary", Note: "Payroll deposit",
		Date: yesterday, Time: "09:00", PaymentMethod: core.Transfer,
	}

	dinner := exp("8", 1200, "social", "treating", "Dinner with friends", "Din Tai Fung", yesterday, "19:45", core.Cash)
	dinner.Tags = "friends"

	return []core.Transaction{
		lunch,
		exp("2", 85, "food", "breakfast", "Egg crepe and milk tea", "Breakfast bar", today, "08:15", core.Cash),
		exp("3", 30, "transport", "mrt", "Metro", "", today, "08:45", core.EPayment),
		latte,
		salary,
		exp("6", 890, "daily", "consumables", "Supermarket run", "PX Mart", yesterday, "18:30", core.EPayment),
		exp("7", 250, "transport", "taxi", "Taxi home", "Uber", yesterday, "22:15", core.CreditCard),
		dinner,
		exp("9", 390, "entertainment", "streaming", "Netflix", "", dayBefore, "10:00", core.CreditCard),
		exp("10", 2480, "shopping", "clothes", "Windbreaker", "Uniqlo", dayBefore, "14:30", core.CreditCard),
		exp("11", 1500, "medical", "checkup", "Dental cleaning", "Anxin Clinic", dayBefore, "16:00", core.Cash),
	}
}

// Package models defines the client-side records held by the session store:
// users, transactions, categories, and transaction groups.
package models

import "time"

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction is a single income or expense record.
//
// GroupID is empty for personal transactions; otherwise it references a
// Group held by the same store. Date is the server-assigned timestamp.
type Transaction struct {
	ID          string
	Amount      float64
	Description string
	Category    string
	Date        time.Time
	Type        TransactionType
	GroupID     string
	CreatedBy   string
}

// IsPersonal reports whether the transaction belongs to no group.
func (t Transaction) IsPersonal() bool {
	return t.GroupID == ""
}

// InMonth reports whether the transaction's date falls inside the given
// calendar month and year.
func (t Transaction) InMonth(month time.Month, year int) bool {
	return t.Date.Month() == month && t.Date.Year() == year
}

// Category is read-only reference data: a named label scoped to one
// transaction type.
type Category struct {
	ID   string
	Name string
	Type TransactionType
}

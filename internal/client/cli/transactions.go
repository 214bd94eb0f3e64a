package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/services"
)

func (a *App) AddTransaction(ctx context.Context) {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return
	}

	kind, err := GetSimpleText(a.reader, "Type (expense/income):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	txType := models.TransactionType(strings.ToLower(kind))
	if txType != models.TransactionTypeExpense && txType != models.TransactionTypeIncome {
		fmt.Fprintln(a.out, "Type must be 'expense' or 'income'.")
		return
	}

	amountText, err := GetSimpleText(a.reader, "Amount:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil || amount <= 0 {
		fmt.Fprintln(a.out, "Amount must be a positive number.")
		return
	}

	description, err := GetSimpleText(a.reader, "Description:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	a.printCategories()
	category, err := GetSimpleText(a.reader, "Category:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	groupID, err := GetSimpleText(a.reader, "Group id (blank for personal):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	a.store.AddTransaction(ctx, services.TransactionInput{
		Amount:      amount,
		Description: description,
		Category:    category,
		Type:        txType,
		GroupID:     groupID,
	})
}

func (a *App) ListTransactions() {
	a.printTransactions(a.store.Transactions())
}

// ListMonth prints the transactions of one calendar month with totals.
func (a *App) ListMonth(args []string) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	if len(args) >= 1 {
		m, err := strconv.Atoi(args[0])
		if err != nil || m < 1 || m > 12 {
			fmt.Fprintln(a.out, "Usage: month <1-12> [year]")
			return
		}
		month = m
	}
	if len(args) >= 2 {
		y, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(a.out, "Usage: month <1-12> [year]")
			return
		}
		year = y
	}

	txs := a.store.TransactionsByMonth(time.Month(month), year)
	a.printTransactions(txs)

	var income, expense float64
	for _, t := range txs {
		switch t.Type {
		case models.TransactionTypeIncome:
			income += t.Amount
		case models.TransactionTypeExpense:
			expense += t.Amount
		}
	}
	fmt.Fprintf(a.out, "Income: %.2f  Expense: %.2f  Net: %.2f\n", income, expense, income-expense)
}

// UpdateTransaction prompts per field; a blank answer keeps the current
// value and stays off the wire.
func (a *App) UpdateTransaction(ctx context.Context, id string) {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return
	}

	var patch services.TransactionPatch

	amountText, err := GetSimpleText(a.reader, "New amount (blank to keep):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if amountText != "" {
		amount, err := strconv.ParseFloat(amountText, 64)
		if err != nil || amount <= 0 {
			fmt.Fprintln(a.out, "Amount must be a positive number.")
			return
		}
		patch.Amount = &amount
	}

	description, err := GetSimpleText(a.reader, "New description (blank to keep):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if description != "" {
		patch.Description = &description
	}

	category, err := GetSimpleText(a.reader, "New category (blank to keep):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if category != "" {
		patch.Category = &category
	}

	kind, err := GetSimpleText(a.reader, "New type (blank to keep):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if kind != "" {
		txType := models.TransactionType(strings.ToLower(kind))
		if txType != models.TransactionTypeExpense && txType != models.TransactionTypeIncome {
			fmt.Fprintln(a.out, "Type must be 'expense' or 'income'.")
			return
		}
		patch.Type = &txType
	}

	if patch.Amount == nil && patch.Description == nil && patch.Category == nil && patch.Type == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return
	}

	a.store.UpdateTransaction(ctx, id, patch)
}

func (a *App) DeleteTransaction(ctx context.Context, id string) {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return
	}
	a.store.DeleteTransaction(ctx, id)
}

func (a *App) printTransactions(txs []models.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return
	}
	for _, t := range txs {
		scope := "personal"
		if !t.IsPersonal() {
			scope = "group " + t.GroupID
		}
		fmt.Fprintf(a.out, "%-12s %s %-7s %10.2f  %-12s %s (%s)\n",
			t.ID, t.Date.Format("2006-01-02"), t.Type, t.Amount, t.Category, t.Description, scope)
	}
}

func (a *App) printCategories() {
	categories := a.store.Categories()
	if len(categories) == 0 {
		return
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	fmt.Fprintln(a.out, "Known categories:", strings.Join(names, ", "))
}

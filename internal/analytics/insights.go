package analytics

import (
	"context"
	"fmt"
	"sort"

	"fintrack/internal/core"
)

// MonthInsights is the derived aggregate for one calendar month. A nil
// *MonthInsights means the month has no data at all; callers must check
// before use.
type MonthInsights struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	TotalIncome   core.Money `json:"total_income"`
	TotalExpenses core.Money `json:"total_expenses"`
	Balance       core.Money `json:"balance"`
	// SavingsRate is (balance / income) as a percentage, 0 when there is
	// no income regardless of expenses.
	SavingsRate float64 `json:"savings_rate"`

	// TopExpenseCategories holds at most the 5 largest expense rows,
	// descending by total, ties keeping the store's row order.
	TopExpenseCategories []core.CategorySummary `json:"top_expense_categories"`
	// ExpenseDistribution maps every expense category to its total.
	ExpenseDistribution map[string]core.Money `json:"expense_distribution"`

	// TransactionCount is the month's total transaction count, both kinds.
	TransactionCount int `json:"transaction_count"`
}

// CategoryInsights computes the month's income/expense totals, balance,
// savings rate and expense rankings. Returns nil when the month has no rows.
func (e *Engine) CategoryInsights(ctx context.Context, year, month int) (*MonthInsights, error) {
	rows, err := e.store.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("monthly summary %d-%02d: %w", year, month, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	insights := &MonthInsights{
		Year:                year,
		Month:               month,
		ExpenseDistribution: make(map[string]core.Money),
	}

	var expenses []core.CategorySummary
	for _, row := range rows {
		insights.TransactionCount += row.Count
		switch row.Kind {
		case core.Income:
			insights.TotalIncome.Cents += row.Total.Cents
		case core.Expense:
			insights.TotalExpenses.Cents += row.Total.Cents
			insights.ExpenseDistribution[row.Category] = row.Total
			expenses = append(expenses, row)
		}
	}

	insights.Balance = core.Money{Cents: insights.TotalIncome.Cents - insights.TotalExpenses.Cents}
	if insights.TotalIncome.Cents > 0 {
		insights.SavingsRate = insights.Balance.Units() / insights.TotalIncome.Units() * 100
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Total.Cents > expenses[j].Total.Cents
	})
	if len(expenses) > 5 {
		expenses = expenses[:5]
	}
	insights.TopExpenseCategories = expenses

	return insights, nil
}

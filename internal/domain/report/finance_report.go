package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// FinancialAggregate summarises revenue against expenses for a period
type FinancialAggregate struct {
	TotalRevenue     float64             `json:"total_revenue"`
	TotalExpenses    float64             `json:"total_expenses"`
	NetProfit        float64             `json:"net_profit"`
	ProfitMargin     float64             `json:"profit_margin"`
	RevenueByMonth   []MonthlyFinancials `json:"revenue_by_month"`
	ExpenseBreakdown []ExpenseCategory   `json:"expense_breakdown"`
}

// MonthlyFinancials is one calendar month (YYYY-MM) of revenue and expenses
type MonthlyFinancials struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// ExpenseCategory is one category's share of expenses
type ExpenseCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type monthAccumulator struct {
	revenue  decimal.Decimal
	expenses decimal.Decimal
}

// AggregateFinancial folds completed sales and expenses into a FinancialAggregate.
// Sales in any other status are ignored.
func AggregateFinancial(sales []SaleRecord, expenses []ExpenseRecord, settings Settings) FinancialAggregate {
	months := make(map[string]*monthAccumulator)
	month := func(key string) *monthAccumulator {
		acc, ok := months[key]
		if !ok {
			acc = &monthAccumulator{}
			months[key] = acc
		}
		return acc
	}

	revenue := decimal.Zero
	for _, s := range sales {
		if s.Status != SaleStatusCompleted {
			continue
		}
		revenue = revenue.Add(s.TotalAmount)
		if key := settings.monthKey(s.CreatedAt); key != "" {
			acc := month(key)
			acc.revenue = acc.revenue.Add(s.TotalAmount)
		}
	}

	totalExpenses := decimal.Zero
	categories := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
		label := settings.categoryLabel(e.Category)
		categories[label] = categories[label].Add(e.Amount)
		if key := settings.monthKey(e.CreatedAt); key != "" {
			acc := month(key)
			acc.expenses = acc.expenses.Add(e.Amount)
		}
	}

	netProfit := revenue.Sub(totalExpenses)
	return FinancialAggregate{
		TotalRevenue:     toFloat64(revenue),
		TotalExpenses:    toFloat64(totalExpenses),
		NetProfit:        toFloat64(netProfit),
		ProfitMargin:     toFloat64(percentOf(netProfit, revenue)),
		RevenueByMonth:   monthlySeries(months),
		ExpenseBreakdown: expenseShares(categories, totalExpenses),
	}
}

func monthlySeries(months map[string]*monthAccumulator) []MonthlyFinancials {
	result := make([]MonthlyFinancials, 0, len(months))
	for key, acc := range months {
		result = append(result, MonthlyFinancials{
			Month:    key,
			Revenue:  toFloat64(acc.revenue),
			Expenses: toFloat64(acc.expenses),
			Profit:   toFloat64(acc.revenue.Sub(acc.expenses)),
		})
	}
	slices.SortFunc(result, func(a, b MonthlyFinancials) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return result
}

func expenseShares(categories map[string]decimal.Decimal, total decimal.Decimal) []ExpenseCategory {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := categories[b].Cmp(categories[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	result := make([]ExpenseCategory, 0, len(names))
	for _, name := range names {
		result = append(result, ExpenseCategory{
			Category:   name,
			Amount:     toFloat64(categories[name]),
			Percentage: toFloat64(percentOf(categories[name], total)),
		})
	}
	return result
}

// Snapshot returns the scalar totals carried into a following period's report
func (a FinancialAggregate) Snapshot() PeriodSnapshot {
	return PeriodSnapshot{
		"total_revenue":  a.TotalRevenue,
		"total_expenses": a.TotalExpenses,
		"net_profit":     a.NetProfit,
		"profit_margin":  a.ProfitMargin,
	}
}

// IsEmpty reports whether the period had neither revenue nor expenses
func (a FinancialAggregate) IsEmpty() bool {
	return len(a.RevenueByMonth) == 0 && a.TotalRevenue == 0 && a.TotalExpenses == 0
}

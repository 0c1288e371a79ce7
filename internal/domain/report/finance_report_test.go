package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(amount float64, category string, at time.Time) ExpenseRecord {
	return ExpenseRecord{Amount: dec(amount), Category: category, CreatedAt: at}
}

func TestAggregateFinancial(t *testing.T) {
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	pending := sale(999, jan1)
	pending.Status = SaleStatusPending
	sales := []SaleRecord{sale(800, jan1.Add(time.Hour)), sale(400, feb), pending}
	expenses := []ExpenseRecord{
		expense(300, "Alquiler", jan1.Add(time.Hour)),
		expense(200, "", feb),
		expense(100, "Servicios", feb),
	}

	agg := AggregateFinancial(sales, expenses, DefaultSettings())

	assert.Equal(t, 1200.0, agg.TotalRevenue)
	assert.Equal(t, 600.0, agg.TotalExpenses)
	assert.Equal(t, 600.0, agg.NetProfit)
	assert.Equal(t, 50.0, agg.ProfitMargin)

	assert.Equal(t, []MonthlyFinancials{
		{Month: "2026-01", Revenue: 800, Expenses: 300, Profit: 500},
		{Month: "2026-02", Revenue: 400, Expenses: 300, Profit: 100},
	}, agg.RevenueByMonth)

	require.Len(t, agg.ExpenseBreakdown, 3)
	assert.Equal(t, "Alquiler", agg.ExpenseBreakdown[0].Category)
	assert.Equal(t, 50.0, agg.ExpenseBreakdown[0].Percentage)
	assert.Equal(t, "Sin categoría", agg.ExpenseBreakdown[1].Category)
}

func TestAggregateFinancial_NegativeProfit(t *testing.T) {
	agg := AggregateFinancial(
		[]SaleRecord{sale(100, jan1)},
		[]ExpenseRecord{expense(150, "Compras", jan1)},
		DefaultSettings(),
	)

	assert.Equal(t, -50.0, agg.NetProfit)
	assert.Equal(t, -50.0, agg.ProfitMargin)
}

func TestAggregateFinancial_ZeroRevenue(t *testing.T) {
	agg := AggregateFinancial(nil, []ExpenseRecord{expense(10, "Compras", jan1)}, DefaultSettings())

	assert.Equal(t, 0.0, agg.ProfitMargin)
	assert.Equal(t, -10.0, agg.NetProfit)
	require.Len(t, agg.RevenueByMonth, 1)
	assert.Equal(t, -10.0, agg.RevenueByMonth[0].Profit)
}

func TestAggregateFinancial_Empty(t *testing.T) {
	agg := AggregateFinancial(nil, nil, DefaultSettings())

	assert.True(t, agg.IsEmpty())
	assert.NotNil(t, agg.RevenueByMonth)
	assert.NotNil(t, agg.ExpenseBreakdown)
	assert.Equal(t, 0.0, agg.ProfitMargin)
}

package report

// TrendSet maps metric names to percentage deltas against the previous period
type TrendSet map[string]float64

// PeriodSnapshot holds the previous period's top-level scalars
type PeriodSnapshot map[string]float64

// Pct returns the percentage change from prev to curr.
// A metric appearing from nothing reports +100, and two zero values report 0.
func Pct(curr, prev float64) float64 {
	if prev > 0 {
		return (curr - prev) / prev * 100
	}
	if curr > 0 {
		return 100
	}
	return 0
}

// SalesTrends compares two sales aggregates
func SalesTrends(curr, prev SalesAggregate) TrendSet {
	return TrendSet{
		"sales_pct":  Pct(curr.TotalSales, prev.TotalSales),
		"orders_pct": Pct(float64(curr.TotalOrders), float64(prev.TotalOrders)),
		"aov_pct":    Pct(curr.AverageOrderValue, prev.AverageOrderValue),
	}
}

// FinancialTrends compares two financial aggregates
func FinancialTrends(curr, prev FinancialAggregate) TrendSet {
	return TrendSet{
		"revenue_pct":  Pct(curr.TotalRevenue, prev.TotalRevenue),
		"expenses_pct": Pct(curr.TotalExpenses, prev.TotalExpenses),
		"profit_pct":   Pct(curr.NetProfit, prev.NetProfit),
		"margin_pct":   Pct(curr.ProfitMargin, prev.ProfitMargin),
	}
}

// CustomerTrends compares two customer aggregates
func CustomerTrends(curr, prev CustomerAggregate) TrendSet {
	return TrendSet{
		"new_customers_pct":    Pct(float64(curr.NewCustomers), float64(prev.NewCustomers)),
		"active_customers_pct": Pct(float64(curr.ActiveCustomers), float64(prev.ActiveCustomers)),
	}
}

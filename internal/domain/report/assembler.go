package report

import (
	"maps"
	"slices"
	"time"
)

// Report is an assembled payload for one family
type Report interface {
	ReportFamily() Family
	IsEmpty() bool
}

// Period is an inclusive date range
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Envelope carries the fields shared by every assembled report
type Envelope struct {
	Family         Family         `json:"family"`
	Period         *Period        `json:"period,omitempty"`
	ComparedTo     *Period        `json:"compared_to,omitempty"`
	Trends         TrendSet       `json:"trends"`
	PreviousPeriod PeriodSnapshot `json:"previous_period"`
}

// ReportFamily returns the family of the report
func (e Envelope) ReportFamily() Family {
	return e.Family
}

// SalesReport is the sales aggregate with its trends
type SalesReport struct {
	SalesAggregate
	Envelope
}

// InventoryReport is the inventory snapshot. It carries no trends.
type InventoryReport struct {
	InventoryAggregate
	Envelope
}

// CustomerReport is the customer aggregate with its trends
type CustomerReport struct {
	CustomerAggregate
	Envelope
}

// FinancialReport is the financial aggregate with its trends
type FinancialReport struct {
	FinancialAggregate
	Envelope
}

// AssembleSales builds the sales payload. The aggregates are copied, never modified.
func AssembleSales(filter Filter, curr, prev SalesAggregate) SalesReport {
	curr.TopProducts = slices.Clone(curr.TopProducts)
	curr.SalesByDate = slices.Clone(curr.SalesByDate)
	curr.SalesByCategory = slices.Clone(curr.SalesByCategory)
	return SalesReport{
		SalesAggregate: curr,
		Envelope:       newEnvelope(FamilySales, filter, SalesTrends(curr, prev), prev.Snapshot()),
	}
}

// AssembleInventory builds the inventory payload
func AssembleInventory(filter Filter, curr InventoryAggregate) InventoryReport {
	curr.StockLevels = slices.Clone(curr.StockLevels)
	curr.CategoryBreakdown = slices.Clone(curr.CategoryBreakdown)

	env := Envelope{
		Family:         FamilyInventory,
		Trends:         TrendSet{},
		PreviousPeriod: PeriodSnapshot{},
	}
	if filter.HasDateRange() {
		env.Period = &Period{Start: filter.StartDate, End: filter.EndDate}
	}
	return InventoryReport{InventoryAggregate: curr, Envelope: env}
}

// AssembleCustomers builds the customer payload
func AssembleCustomers(filter Filter, curr, prev CustomerAggregate) CustomerReport {
	curr.TopCustomers = slices.Clone(curr.TopCustomers)
	curr.CustomerSegments = slices.Clone(curr.CustomerSegments)
	return CustomerReport{
		CustomerAggregate: curr,
		Envelope:          newEnvelope(FamilyCustomers, filter, CustomerTrends(curr, prev), prev.Snapshot()),
	}
}

// AssembleFinancial builds the financial payload
func AssembleFinancial(filter Filter, curr, prev FinancialAggregate) FinancialReport {
	curr.RevenueByMonth = slices.Clone(curr.RevenueByMonth)
	curr.ExpenseBreakdown = slices.Clone(curr.ExpenseBreakdown)
	return FinancialReport{
		FinancialAggregate: curr,
		Envelope:           newEnvelope(FamilyFinancial, filter, FinancialTrends(curr, prev), prev.Snapshot()),
	}
}

func newEnvelope(family Family, filter Filter, trends TrendSet, previous PeriodSnapshot) Envelope {
	prev := filter.Previous()
	return Envelope{
		Family:         family,
		Period:         &Period{Start: filter.StartDate, End: filter.EndDate},
		ComparedTo:     &Period{Start: prev.StartDate, End: prev.EndDate},
		Trends:         trends,
		PreviousPeriod: maps.Clone(previous),
	}
}

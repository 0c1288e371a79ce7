package report

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer segments
const (
	SegmentVIP     = "VIP"
	SegmentRegular = "Regular"
	SegmentNew     = "Nuevo"
)

// CustomerAggregate summarises customer activity for a period
type CustomerAggregate struct {
	TotalCustomers        int               `json:"total_customers"`
	NewCustomers          int               `json:"new_customers"`
	ActiveCustomers       int               `json:"active_customers"`
	TopCustomers          []CustomerSpend   `json:"top_customers"`
	CustomerLifetimeValue float64           `json:"customer_lifetime_value"`
	CustomerSegments      []CustomerSegment `json:"customer_segments"`
}

// CustomerSpend is a customer's spend within the period
type CustomerSpend struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	TotalSpent float64   `json:"total_spent"`
	Orders     int       `json:"orders"`
}

// CustomerSegment counts the customers falling into one segment
type CustomerSegment struct {
	Segment    string  `json:"segment"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type customerAccumulator struct {
	id     uuid.UUID
	name   string
	spent  decimal.Decimal
	orders int
}

// AggregateCustomers summarises customers and their embedded sales.
// Only sales inside the filter's date range and matching its branch and POS count as activity.
//
// CustomerLifetimeValue is the top customers' spend divided by the total customer count,
// and VIP/Regular segments are counted over the top customers only.
func AggregateCustomers(customers []CustomerRecord, filter Filter, settings Settings) CustomerAggregate {
	agg := CustomerAggregate{TotalCustomers: len(customers)}

	ranked := make([]*customerAccumulator, 0, len(customers))
	for _, c := range customers {
		if filter.Contains(c.CreatedAt) {
			agg.NewCustomers++
		}

		acc := &customerAccumulator{id: c.ID, name: c.Name}
		for _, s := range c.Sales {
			if !filter.Contains(s.CreatedAt) || !filter.MatchesLocation(s) {
				continue
			}
			acc.spent = acc.spent.Add(s.TotalAmount)
			acc.orders++
		}
		if acc.orders > 0 {
			agg.ActiveCustomers++
		}
		ranked = append(ranked, acc)
	}

	slices.SortFunc(ranked, func(a, b *customerAccumulator) int {
		if c := b.spent.Cmp(a.spent); c != 0 {
			return c
		}
		if c := cmp.Compare(a.name, b.name); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})
	if n := settings.topN(); len(ranked) > n {
		ranked = ranked[:n]
	}

	vipThreshold := settings.vipThreshold()
	regularThreshold := settings.regularThreshold()
	topSpend := decimal.Zero
	vip, regular := 0, 0

	agg.TopCustomers = make([]CustomerSpend, 0, len(ranked))
	for _, c := range ranked {
		topSpend = topSpend.Add(c.spent)
		switch {
		case c.spent.GreaterThan(vipThreshold):
			vip++
		case c.spent.GreaterThan(regularThreshold):
			regular++
		}
		agg.TopCustomers = append(agg.TopCustomers, CustomerSpend{
			CustomerID: c.id,
			Name:       c.name,
			TotalSpent: toFloat64(c.spent),
			Orders:     c.orders,
		})
	}

	total := decimal.NewFromInt(int64(agg.TotalCustomers))
	agg.CustomerLifetimeValue = toFloat64(ratio(topSpend, total))
	agg.CustomerSegments = []CustomerSegment{
		newSegment(SegmentVIP, vip, total),
		newSegment(SegmentRegular, regular, total),
		newSegment(SegmentNew, agg.NewCustomers, total),
	}
	return agg
}

func newSegment(name string, count int, total decimal.Decimal) CustomerSegment {
	return CustomerSegment{
		Segment:    name,
		Count:      count,
		Percentage: toFloat64(percentOf(decimal.NewFromInt(int64(count)), total)),
	}
}

// Snapshot returns the scalar totals carried into a following period's report
func (a CustomerAggregate) Snapshot() PeriodSnapshot {
	return PeriodSnapshot{
		"total_customers":         float64(a.TotalCustomers),
		"new_customers":           float64(a.NewCustomers),
		"active_customers":        float64(a.ActiveCustomers),
		"customer_lifetime_value": a.CustomerLifetimeValue,
	}
}

// IsEmpty reports whether no customers matched
func (a CustomerAggregate) IsEmpty() bool {
	return a.TotalCustomers == 0
}

package report

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesAggregate summarises sales for a period
type SalesAggregate struct {
	TotalSales        float64         `json:"total_sales"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue float64         `json:"average_order_value"`
	TopProducts       []ProductSales  `json:"top_products"`
	SalesByDate       []DailySales    `json:"sales_by_date"`
	SalesByCategory   []CategorySales `json:"sales_by_category"`
}

// ProductSales is a product's contribution to sales
type ProductSales struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Sales     float64   `json:"sales"`
	Quantity  float64   `json:"quantity"`
}

// DailySales is one calendar day of sales
type DailySales struct {
	Date   string  `json:"date"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// CategorySales is a category's share of sales
type CategorySales struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Percentage float64 `json:"percentage"`
}

type productAccumulator struct {
	id       uuid.UUID
	name     string
	sales    decimal.Decimal
	quantity decimal.Decimal
}

type dayAccumulator struct {
	sales  decimal.Decimal
	orders int
}

// AggregateSales folds sales and their items into a SalesAggregate.
// Products not present in lookup are reported under the unknown product label.
func AggregateSales(sales []SaleRecord, items []SaleItemRecord, lookup ProductLookup, settings Settings) SalesAggregate {
	totalSales := decimal.Zero
	days := make(map[string]*dayAccumulator)
	for _, s := range sales {
		amount := s.TotalAmount
		totalSales = totalSales.Add(amount)

		key := settings.dayKey(s.CreatedAt)
		if key == "" {
			continue
		}
		day, ok := days[key]
		if !ok {
			day = &dayAccumulator{}
			days[key] = day
		}
		day.sales = day.sales.Add(amount)
		day.orders++
	}

	products := make(map[uuid.UUID]*productAccumulator)
	categories := make(map[string]decimal.Decimal)
	for _, item := range items {
		lineTotal := item.LineTotal()
		product, known := lookup[item.ProductID]

		acc, ok := products[item.ProductID]
		if !ok {
			name := settings.unknownProductLabel()
			if known && product.Name != "" {
				name = product.Name
			}
			acc = &productAccumulator{id: item.ProductID, name: name}
			products[item.ProductID] = acc
		}
		acc.sales = acc.sales.Add(lineTotal)
		acc.quantity = acc.quantity.Add(item.Quantity)

		category := settings.categoryLabel(product.Category)
		categories[category] = categories[category].Add(lineTotal)
	}

	totalOrders := len(sales)
	return SalesAggregate{
		TotalSales:        toFloat64(totalSales),
		TotalOrders:       totalOrders,
		AverageOrderValue: toFloat64(ratio(totalSales, decimal.NewFromInt(int64(totalOrders)))),
		TopProducts:       topProducts(products, settings.topN()),
		SalesByDate:       dailySeries(days),
		SalesByCategory:   categoryShares(categories, totalSales),
	}
}

// ScopeItems keeps the items whose product satisfies the filter's product and category scope
func ScopeItems(items []SaleItemRecord, lookup ProductLookup, filter Filter) []SaleItemRecord {
	if !filter.HasItemScope() {
		return items
	}
	scoped := make([]SaleItemRecord, 0, len(items))
	for _, item := range items {
		product, ok := lookup[item.ProductID]
		if !ok {
			product = ProductRecord{ID: item.ProductID}
		}
		if filter.MatchesProduct(product) {
			scoped = append(scoped, item)
		}
	}
	return scoped
}

func topProducts(products map[uuid.UUID]*productAccumulator, n int) []ProductSales {
	ranked := make([]*productAccumulator, 0, len(products))
	for _, p := range products {
		ranked = append(ranked, p)
	}
	slices.SortFunc(ranked, func(a, b *productAccumulator) int {
		if c := b.sales.Cmp(a.sales); c != 0 {
			return c
		}
		if c := cmp.Compare(a.name, b.name); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	result := make([]ProductSales, 0, len(ranked))
	for _, p := range ranked {
		result = append(result, ProductSales{
			ProductID: p.id,
			Name:      p.name,
			Sales:     toFloat64(p.sales),
			Quantity:  toFloat64(p.quantity),
		})
	}
	return result
}

func dailySeries(days map[string]*dayAccumulator) []DailySales {
	result := make([]DailySales, 0, len(days))
	for date, day := range days {
		result = append(result, DailySales{
			Date:   date,
			Sales:  toFloat64(day.sales),
			Orders: day.orders,
		})
	}
	slices.SortFunc(result, func(a, b DailySales) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return result
}

func categoryShares(categories map[string]decimal.Decimal, totalSales decimal.Decimal) []CategorySales {
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

	result := make([]CategorySales, 0, len(names))
	for _, name := range names {
		result = append(result, CategorySales{
			Category:   name,
			Sales:      toFloat64(categories[name]),
			Percentage: toFloat64(percentOf(categories[name], totalSales)),
		})
	}
	return result
}

// Snapshot returns the scalar totals carried into a following period's report
func (a SalesAggregate) Snapshot() PeriodSnapshot {
	return PeriodSnapshot{
		"total_sales":         a.TotalSales,
		"total_orders":        float64(a.TotalOrders),
		"average_order_value": a.AverageOrderValue,
	}
}

// IsEmpty reports whether the period had no sales
func (a SalesAggregate) IsEmpty() bool {
	return a.TotalOrders == 0
}

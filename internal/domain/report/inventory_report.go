package report

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock level statuses
const (
	StockStatusLow    = "low"
	StockStatusNormal = "normal"
)

// InventoryAggregate is a point-in-time stock summary
type InventoryAggregate struct {
	TotalProducts     int             `json:"total_products"`
	LowStockItems     int             `json:"low_stock_items"`
	OutOfStockItems   int             `json:"out_of_stock_items"`
	TotalValue        float64         `json:"total_value"`
	StockLevels       []StockLevel    `json:"stock_levels"`
	CategoryBreakdown []CategoryStock `json:"category_breakdown"`
}

// StockLevel is a product's stock position.
// Status is "low" for zero stock as well, while the summary counts zero stock as out of stock.
type StockLevel struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Stock  float64   `json:"stock"`
	Status string    `json:"status"`
}

// CategoryStock is the stock held in one category
type CategoryStock struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
}

type categoryStockAccumulator struct {
	count int
	value decimal.Decimal
}

// AggregateInventory summarises the given products' stock
func AggregateInventory(products []ProductRecord, settings Settings) InventoryAggregate {
	defaultMinStock := settings.defaultMinStock()

	agg := InventoryAggregate{
		TotalProducts: len(products),
		StockLevels:   make([]StockLevel, 0, len(products)),
	}
	totalValue := decimal.Zero
	categories := make(map[string]*categoryStockAccumulator)

	for _, p := range products {
		minStock := defaultMinStock
		if p.MinStock.Valid {
			minStock = p.MinStock.Decimal
		}
		stock := p.StockQuantity

		if stock.IsPositive() && stock.LessThanOrEqual(minStock) {
			agg.LowStockItems++
		}
		if stock.IsZero() {
			agg.OutOfStockItems++
		}

		value := p.SalePrice.Mul(stock)
		totalValue = totalValue.Add(value)

		status := StockStatusNormal
		if stock.IsZero() || stock.LessThanOrEqual(minStock) {
			status = StockStatusLow
		}
		agg.StockLevels = append(agg.StockLevels, StockLevel{
			ID:     p.ID,
			Name:   p.Name,
			Stock:  toFloat64(stock),
			Status: status,
		})

		label := settings.categoryLabel(p.Category)
		acc, ok := categories[label]
		if !ok {
			acc = &categoryStockAccumulator{}
			categories[label] = acc
		}
		acc.count++
		acc.value = acc.value.Add(value)
	}

	agg.TotalValue = toFloat64(totalValue)
	agg.CategoryBreakdown = categoryStock(categories)
	return agg
}

func categoryStock(categories map[string]*categoryStockAccumulator) []CategoryStock {
	result := make([]CategoryStock, 0, len(categories))
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := categories[b].value.Cmp(categories[a].value); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, name := range names {
		result = append(result, CategoryStock{
			Category: name,
			Count:    categories[name].count,
			Value:    toFloat64(categories[name].value),
		})
	}
	return result
}

// IsEmpty reports whether no products matched
func (a InventoryAggregate) IsEmpty() bool {
	return a.TotalProducts == 0
}

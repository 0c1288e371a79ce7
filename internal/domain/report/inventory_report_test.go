package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateInventory_ZeroStockAsymmetry(t *testing.T) {
	p := product("Harina", "Panadería", 0)
	p.MinStock = decimal.NewNullDecimal(dec(5))

	agg := AggregateInventory([]ProductRecord{p}, DefaultSettings())

	assert.Equal(t, 1, agg.OutOfStockItems)
	assert.Equal(t, 0, agg.LowStockItems)
	require.Len(t, agg.StockLevels, 1)
	assert.Equal(t, StockStatusLow, agg.StockLevels[0].Status)
}

func TestAggregateInventory_Counters(t *testing.T) {
	low := product("Leche", "Lácteos", 3)
	low.SalePrice = dec(2)
	atMin := product("Queso", "Lácteos", 10)
	atMin.SalePrice = dec(5)
	healthy := product("Arroz", "", 50)
	healthy.SalePrice = dec(1.5)
	custom := product("Sal", "", 4)
	custom.MinStock = decimal.NewNullDecimal(dec(2))

	agg := AggregateInventory([]ProductRecord{low, atMin, healthy, custom}, DefaultSettings())

	assert.Equal(t, 4, agg.TotalProducts)
	assert.Equal(t, 2, agg.LowStockItems)
	assert.Equal(t, 0, agg.OutOfStockItems)
	assert.Equal(t, 6.0+50.0+75.0+4.0, agg.TotalValue)

	statuses := map[string]string{}
	for _, level := range agg.StockLevels {
		statuses[level.Name] = level.Status
	}
	assert.Equal(t, map[string]string{
		"Leche": StockStatusLow,
		"Queso": StockStatusLow,
		"Arroz": StockStatusNormal,
		"Sal":   StockStatusNormal,
	}, statuses)
}

func TestAggregateInventory_DefaultMinStockFromSettings(t *testing.T) {
	p := product("Aceite", "", 15)
	settings := DefaultSettings()
	settings.DefaultMinStock = decimal.NewNullDecimal(decimal.NewFromInt(20))

	agg := AggregateInventory([]ProductRecord{p}, settings)

	assert.Equal(t, 1, agg.LowStockItems)
	assert.Equal(t, StockStatusLow, agg.StockLevels[0].Status)
}

func TestAggregateInventory_CategoryBreakdown(t *testing.T) {
	a := product("A", "Bebidas", 2)
	a.SalePrice = dec(10)
	b := product("B", "Bebidas", 1)
	b.SalePrice = dec(10)
	c := product("C", "", 100)
	c.SalePrice = dec(1)

	agg := AggregateInventory([]ProductRecord{a, b, c}, DefaultSettings())

	assert.Equal(t, []CategoryStock{
		{Category: "Sin categoría", Count: 1, Value: 100},
		{Category: "Bebidas", Count: 2, Value: 30},
	}, agg.CategoryBreakdown)
}

func TestAggregateInventory_Empty(t *testing.T) {
	agg := AggregateInventory(nil, DefaultSettings())

	assert.True(t, agg.IsEmpty())
	assert.Equal(t, 0.0, agg.TotalValue)
	assert.NotNil(t, agg.StockLevels)
	assert.NotNil(t, agg.CategoryBreakdown)
}

package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	jan1  = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 = time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
)

func januaryFilter() Filter {
	return Filter{StartDate: jan1, EndDate: jan31}
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func sale(amount float64, at time.Time) SaleRecord {
	return SaleRecord{
		ID:          uuid.New(),
		TotalAmount: dec(amount),
		Status:      SaleStatusCompleted,
		CreatedAt:   at,
	}
}

func item(saleID, productID uuid.UUID, qty, price float64) SaleItemRecord {
	return SaleItemRecord{
		SaleID:    saleID,
		ProductID: productID,
		Quantity:  dec(qty),
		UnitPrice: dec(price),
	}
}

func product(name, category string, stock float64) ProductRecord {
	return ProductRecord{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		StockQuantity: dec(stock),
		SalePrice:     dec(1),
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

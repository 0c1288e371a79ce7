package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses as they appear after normalisation
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
)

// SaleRecord is an immutable snapshot of a sale transaction.
// CreatedAt is the zero time when the store had no timestamp for the row.
type SaleRecord struct {
	ID            uuid.UUID
	TotalAmount   decimal.Decimal
	Status        string
	PaymentMethod string
	CreatedAt     time.Time
	CustomerID    *uuid.UUID
	BranchID      *uuid.UUID
	POSID         *uuid.UUID
}

// SaleItemRecord is a line of a sale
type SaleItemRecord struct {
	SaleID     uuid.UUID
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.NullDecimal
}

// LineTotal returns TotalPrice, or Quantity * UnitPrice when the row carried none
func (i SaleItemRecord) LineTotal() decimal.Decimal {
	if i.TotalPrice.Valid {
		return i.TotalPrice.Decimal
	}
	return i.Quantity.Mul(i.UnitPrice)
}

// ProductRecord is a product with its current stock position
type ProductRecord struct {
	ID            uuid.UUID
	Name          string
	CategoryID    *uuid.UUID
	Category      string
	StockQuantity decimal.Decimal
	MinStock      decimal.NullDecimal
	SalePrice     decimal.Decimal
	BranchID      *uuid.UUID
}

// CustomerRecord is a customer with the sales joined for it
type CustomerRecord struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Sales     []SaleRecord
}

// ExpenseRecord is a single expense entry
type ExpenseRecord struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Category  string
	CreatedAt time.Time
	BranchID  *uuid.UUID
}

// ProductLookup indexes products by id for naming and category attribution
type ProductLookup map[uuid.UUID]ProductRecord

// NewProductLookup builds a lookup from a product list. Later duplicates win.
func NewProductLookup(products []ProductRecord) ProductLookup {
	lookup := make(ProductLookup, len(products))
	for _, p := range products {
		lookup[p.ID] = p
	}
	return lookup
}

// SaleIDs returns the ids of the given sales in input order
func SaleIDs(sales []SaleRecord) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
	}
	return ids
}

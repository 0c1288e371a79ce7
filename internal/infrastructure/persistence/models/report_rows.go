package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos-admin/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// SaleRow maps the sales table. Nullable columns reflect rows written by older clients.
type SaleRow struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TotalAmount   decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Status        string              `gorm:"type:varchar(20);index"`
	PaymentMethod string              `gorm:"type:varchar(30)"`
	CustomerID    *uuid.UUID          `gorm:"type:uuid;index"`
	BranchID      *uuid.UUID          `gorm:"type:uuid;index"`
	POSID         *uuid.UUID          `gorm:"column:pos_id;type:uuid"`
	CreatedAt     *time.Time          `gorm:"index"`
}

func (SaleRow) TableName() string {
	return "sales"
}

// ToRecord converts the row to its canonical record
func (m SaleRow) ToRecord() report.SaleRecord {
	return report.SaleRecord{
		ID:            m.ID,
		TotalAmount:   orZero(m.TotalAmount),
		Status:        NormalizeStatus(m.Status),
		PaymentMethod: NormalizeStatus(m.PaymentMethod),
		CreatedAt:     orZeroTime(m.CreatedAt),
		CustomerID:    m.CustomerID,
		BranchID:      m.BranchID,
		POSID:         m.POSID,
	}
}

// SaleItemRow maps the sale_items table.
// Price is the legacy name of UnitPrice and is only read when UnitPrice is NULL.
type SaleItemRow struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	SaleID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Quantity   decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	UnitPrice  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Price      decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	TotalPrice decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

func (SaleItemRow) TableName() string {
	return "sale_items"
}

// ToRecord converts the row to its canonical record
func (m SaleItemRow) ToRecord() report.SaleItemRecord {
	item := report.SaleItemRecord{
		SaleID:    m.SaleID,
		ProductID: m.ProductID,
		Quantity:  nonNegative(orZero(m.Quantity)),
		UnitPrice: nonNegative(orZero(firstValid(m.UnitPrice, m.Price))),
	}
	if m.TotalPrice.Valid {
		item.TotalPrice = decimal.NewNullDecimal(m.TotalPrice.Decimal)
	} else {
		item.TotalPrice = decimal.NewNullDecimal(item.Quantity.Mul(item.UnitPrice))
	}
	return item
}

// CategoryRow maps the categories table
type CategoryRow struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(100);not null"`
}

func (CategoryRow) TableName() string {
	return "categories"
}

// ProductRow maps the products table.
// Stock is the legacy name of StockQuantity and is only read when StockQuantity is NULL.
// CategoryName is filled from a join and never migrated.
type ProductRow struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name          string              `gorm:"type:varchar(200)"`
	CategoryID    *uuid.UUID          `gorm:"type:uuid;index"`
	StockQuantity decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Stock         decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	MinStock      decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	SalePrice     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	BranchID      *uuid.UUID          `gorm:"type:uuid;index"`
	CategoryName  *string             `gorm:"->;-:migration;column:category_name"`
}

func (ProductRow) TableName() string {
	return "products"
}

// ToRecord converts the row to its canonical record
func (m ProductRow) ToRecord() report.ProductRecord {
	p := report.ProductRecord{
		ID:            m.ID,
		Name:          NormalizeLabel(m.Name),
		CategoryID:    m.CategoryID,
		StockQuantity: nonNegative(orZero(firstValid(m.StockQuantity, m.Stock))),
		SalePrice:     nonNegative(orZero(m.SalePrice)),
		BranchID:      m.BranchID,
	}
	if m.CategoryName != nil {
		p.Category = NormalizeLabel(*m.CategoryName)
	}
	if m.MinStock.Valid {
		p.MinStock = decimal.NewNullDecimal(nonNegative(m.MinStock.Decimal))
	}
	return p
}

// CustomerRow maps the customers table with the sales joined for it
type CustomerRow struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:varchar(200)"`
	CreatedAt *time.Time `gorm:"index"`
	Sales     []SaleRow  `gorm:"foreignKey:CustomerID"`
}

func (CustomerRow) TableName() string {
	return "customers"
}

// ToRecord converts the row and its sales to canonical records
func (m CustomerRow) ToRecord() report.CustomerRecord {
	c := report.CustomerRecord{
		ID:        m.ID,
		Name:      NormalizeLabel(m.Name),
		CreatedAt: orZeroTime(m.CreatedAt),
		Sales:     make([]report.SaleRecord, 0, len(m.Sales)),
	}
	for _, s := range m.Sales {
		c.Sales = append(c.Sales, s.ToRecord())
	}
	return c
}

// ExpenseRow maps the expenses table
type ExpenseRow struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Amount    decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Category  string              `gorm:"type:varchar(100)"`
	BranchID  *uuid.UUID          `gorm:"type:uuid;index"`
	CreatedAt *time.Time          `gorm:"index"`
}

func (ExpenseRow) TableName() string {
	return "expenses"
}

// ToRecord converts the row to its canonical record
func (m ExpenseRow) ToRecord() report.ExpenseRecord {
	return report.ExpenseRecord{
		ID:        m.ID,
		Amount:    orZero(m.Amount),
		Category:  NormalizeLabel(m.Category),
		CreatedAt: orZeroTime(m.CreatedAt),
		BranchID:  m.BranchID,
	}
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos-admin/backend/internal/domain/report"
	"github.com/pos-admin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const defaultSaleItemBatchSize = 500

// GormRecordSource implements report.RecordSource using GORM
type GormRecordSource struct {
	db        *gorm.DB
	batchSize int
}

// NewGormRecordSource creates a new GormRecordSource
func NewGormRecordSource(db *gorm.DB) *GormRecordSource {
	return &GormRecordSource{db: db, batchSize: defaultSaleItemBatchSize}
}

// FetchSales returns the sales created within the filter range.
// Product and category filters keep the sales having at least one matching item.
func (r *GormRecordSource) FetchSales(ctx context.Context, filter report.Filter) ([]report.SaleRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleRow{})
	query = applySaleFilter(query, "sales", filter)

	if filter.HasItemScope() {
		query = query.Where("sales.id IN (?)", r.scopedSaleIDs(ctx, filter))
	}

	var rows []models.SaleRow
	if err := query.Order("sales.created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	sales := make([]report.SaleRecord, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, row.ToRecord())
	}
	return sales, nil
}

// FetchSaleItems returns the items of the given sales, querying in batches
func (r *GormRecordSource) FetchSaleItems(ctx context.Context, saleIDs []uuid.UUID) ([]report.SaleItemRecord, error) {
	items := make([]report.SaleItemRecord, 0, len(saleIDs))
	for start := 0; start < len(saleIDs); start += r.batchSize {
		end := min(start+r.batchSize, len(saleIDs))

		var rows []models.SaleItemRow
		err := r.db.WithContext(ctx).
			Where("sale_id IN ?", saleIDs[start:end]).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			items = append(items, row.ToRecord())
		}
	}
	return items, nil
}

// FetchProducts returns the products matching the product, category and branch filters.
// Products carry no date, so the range is ignored.
func (r *GormRecordSource) FetchProducts(ctx context.Context, filter report.Filter) ([]report.ProductRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductRow{}).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if filter.ProductID != nil {
		query = query.Where("products.id = ?", *filter.ProductID)
	}
	if filter.Category != "" {
		query = query.Where(categoryMatch("products.category_id", "categories.name"), filter.Category, filter.Category)
	}
	if filter.BranchID != nil {
		query = query.Where("products.branch_id = ?", *filter.BranchID)
	}

	var rows []models.ProductRow
	if err := query.Order("products.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]report.ProductRecord, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.ToRecord())
	}
	return products, nil
}

// FetchCustomers returns the customers matching the customer filter,
// each with its sales inside the range preloaded.
func (r *GormRecordSource) FetchCustomers(ctx context.Context, filter report.Filter) ([]report.CustomerRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CustomerRow{}).
		Preload("Sales", func(db *gorm.DB) *gorm.DB {
			scoped := filter
			scoped.CustomerID = nil
			return applySaleFilter(db, "sales", scoped).Order("sales.created_at ASC")
		})

	if filter.CustomerID != nil {
		query = query.Where("customers.id = ?", *filter.CustomerID)
	}

	var rows []models.CustomerRow
	if err := query.Order("customers.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	customers := make([]report.CustomerRecord, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.ToRecord())
	}
	return customers, nil
}

// FetchExpenses returns the expenses within the range matching branch and category
func (r *GormRecordSource) FetchExpenses(ctx context.Context, filter report.Filter) ([]report.ExpenseRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseRow{})

	if filter.HasDateRange() {
		query = query.Where("expenses.created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}
	if filter.BranchID != nil {
		query = query.Where("expenses.branch_id = ?", *filter.BranchID)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(expenses.category) = LOWER(?)", filter.Category)
	}

	var rows []models.ExpenseRow
	if err := query.Order("expenses.created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	expenses := make([]report.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, row.ToRecord())
	}
	return expenses, nil
}

// scopedSaleIDs selects the ids of sales having an item within the product and category filters
func (r *GormRecordSource) scopedSaleIDs(ctx context.Context, filter report.Filter) *gorm.DB {
	sub := r.db.WithContext(ctx).
		Model(&models.SaleItemRow{}).
		Select("sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if filter.ProductID != nil {
		sub = sub.Where("sale_items.product_id = ?", *filter.ProductID)
	}
	if filter.Category != "" {
		sub = sub.Where(categoryMatch("products.category_id", "categories.name"), filter.Category, filter.Category)
	}
	return sub
}

// applySaleFilter adds the range and sale dimension filters for the given table
func applySaleFilter(query *gorm.DB, table string, filter report.Filter) *gorm.DB {
	if filter.HasDateRange() {
		query = query.Where(table+".created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}
	if filter.Status != "" {
		query = query.Where("LOWER("+table+".status) = ?", models.NormalizeStatus(filter.Status))
	}
	if filter.CustomerID != nil {
		query = query.Where(table+".customer_id = ?", *filter.CustomerID)
	}
	if filter.BranchID != nil {
		query = query.Where(table+".branch_id = ?", *filter.BranchID)
	}
	if filter.POSID != nil {
		query = query.Where(table+".pos_id = ?", *filter.POSID)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("LOWER("+table+".payment_method) = ?", models.NormalizeStatus(filter.PaymentMethod))
	}
	return query
}

// categoryMatch matches a category given either as id or as case-insensitive name
func categoryMatch(idColumn, nameColumn string) string {
	return "(CAST(" + idColumn + " AS TEXT) = ? OR LOWER(" + nameColumn + ") = LOWER(?))"
}

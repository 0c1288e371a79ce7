package report

import (
	"context"

	"github.com/google/uuid"
)

// RecordSource fetches canonical records for report computation.
// Implementations must ignore optional filters they cannot express rather than fail.
type RecordSource interface {
	FetchSales(ctx context.Context, filter Filter) ([]SaleRecord, error)
	FetchSaleItems(ctx context.Context, saleIDs []uuid.UUID) ([]SaleItemRecord, error)
	FetchProducts(ctx context.Context, filter Filter) ([]ProductRecord, error)
	FetchCustomers(ctx context.Context, filter Filter) ([]CustomerRecord, error)
	FetchExpenses(ctx context.Context, filter Filter) ([]ExpenseRecord, error)
}

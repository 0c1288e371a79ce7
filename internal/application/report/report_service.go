package report

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pos-admin/backend/internal/domain/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/pos-admin/backend/internal/application/report"

// ReportService computes report payloads from a record source
type ReportService struct {
	source       report.RecordSource
	settings     report.Settings
	cache        ReportCache
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	metrics      Metrics
	logger       *zap.Logger
	tracer       trace.Tracer
}

// Option configures a ReportService
type Option func(*ReportService)

// WithSettings replaces the aggregation settings
func WithSettings(settings report.Settings) Option {
	return func(s *ReportService) {
		s.settings = settings
	}
}

// WithCache enables payload caching for ttl. A zero ttl disables caching.
func WithCache(cache ReportCache, ttl time.Duration) Option {
	return func(s *ReportService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithFetchTimeout bounds the record fetches of one computation
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *ReportService) {
		s.fetchTimeout = timeout
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics Metrics) Option {
	return func(s *ReportService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewReportService creates a new ReportService
func NewReportService(source report.RecordSource, logger *zap.Logger, opts ...Option) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		source:   source,
		settings: report.DefaultSettings(),
		metrics:  nopMetrics{},
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the aggregation settings in use
func (s *ReportService) Settings() report.Settings {
	return s.settings
}

// ComputeReport computes the payload of one report family
func (s *ReportService) ComputeReport(ctx context.Context, family report.Family, filter report.Filter) (report.Report, error) {
	switch family {
	case report.FamilySales:
		return s.ComputeSales(ctx, filter)
	case report.FamilyInventory:
		return s.ComputeInventory(ctx, filter)
	case report.FamilyCustomers:
		return s.ComputeCustomers(ctx, filter)
	case report.FamilyFinancial:
		return s.ComputeFinancial(ctx, filter)
	default:
		return nil, report.NewInvalidFilterError("unknown report family " + string(family))
	}
}

// ComputeDashboard computes every report family for the same filter concurrently.
// The first failure cancels the remaining computations.
func (s *ReportService) ComputeDashboard(ctx context.Context, filter report.Filter) (map[report.Family]report.Report, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	reports := make(map[report.Family]report.Report, len(report.Families))
	for _, family := range report.Families {
		g.Go(func() error {
			rep, err := s.ComputeReport(gctx, family, filter)
			if err != nil {
				return err
			}
			mu.Lock()
			reports[family] = rep
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ComputeSales computes the sales report and its trends against the previous period
func (s *ReportService) ComputeSales(ctx context.Context, filter report.Filter) (report.SalesReport, error) {
	return computeCached(ctx, s, report.FamilySales, filter, func(ctx context.Context) (report.SalesReport, error) {
		var (
			sales     []report.SaleRecord
			items     []report.SaleItemRecord
			products  []report.ProductRecord
			prevSales []report.SaleRecord
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if sales, err = s.fetchSales(gctx, report.FamilySales, filter); err != nil {
				return err
			}
			items, err = s.fetchSaleItems(gctx, report.FamilySales, report.SaleIDs(sales))
			return err
		})
		g.Go(func() error {
			var err error
			// the lookup is unscoped so every sold product resolves to a name
			products, err = s.fetchProducts(gctx, report.FamilySales, report.Filter{})
			return err
		})
		g.Go(func() error {
			var err error
			prevSales, err = s.fetchSales(gctx, report.FamilySales, filter.Previous())
			return err
		})
		if err := g.Wait(); err != nil {
			return report.SalesReport{}, err
		}

		lookup := report.NewProductLookup(products)
		items = report.ScopeItems(items, lookup, filter)

		curr := report.AggregateSales(sales, items, lookup, s.settings)
		prev := report.AggregateSales(prevSales, nil, nil, s.settings)
		return report.AssembleSales(filter, curr, prev), nil
	})
}

// ComputeInventory computes the point-in-time inventory report
func (s *ReportService) ComputeInventory(ctx context.Context, filter report.Filter) (report.InventoryReport, error) {
	return computeCached(ctx, s, report.FamilyInventory, filter, func(ctx context.Context) (report.InventoryReport, error) {
		products, err := s.fetchProducts(ctx, report.FamilyInventory, filter)
		if err != nil {
			return report.InventoryReport{}, err
		}
		return report.AssembleInventory(filter, report.AggregateInventory(products, s.settings)), nil
	})
}

// ComputeCustomers computes the customer report and its trends against the previous period
func (s *ReportService) ComputeCustomers(ctx context.Context, filter report.Filter) (report.CustomerReport, error) {
	return computeCached(ctx, s, report.FamilyCustomers, filter, func(ctx context.Context) (report.CustomerReport, error) {
		prevFilter := filter.Previous()

		var customers, prevCustomers []report.CustomerRecord
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			customers, err = s.fetchCustomers(gctx, filter)
			return err
		})
		g.Go(func() error {
			var err error
			prevCustomers, err = s.fetchCustomers(gctx, prevFilter)
			return err
		})
		if err := g.Wait(); err != nil {
			return report.CustomerReport{}, err
		}

		curr := report.AggregateCustomers(customers, filter, s.settings)
		prev := report.AggregateCustomers(prevCustomers, prevFilter, s.settings)
		return report.AssembleCustomers(filter, curr, prev), nil
	})
}

// ComputeFinancial computes the financial report over completed sales and expenses
func (s *ReportService) ComputeFinancial(ctx context.Context, filter report.Filter) (report.FinancialReport, error) {
	return computeCached(ctx, s, report.FamilyFinancial, filter, func(ctx context.Context) (report.FinancialReport, error) {
		current := filter.WithStatus(report.SaleStatusCompleted)
		previous := current.Previous()
		// category names a product category; it scopes sales, never expense categories
		currentExpenses, previousExpenses := current, previous
		currentExpenses.Category, previousExpenses.Category = "", ""

		var (
			sales, prevSales       []report.SaleRecord
			expenses, prevExpenses []report.ExpenseRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sales, err = s.fetchSales(gctx, report.FamilyFinancial, current)
			return err
		})
		g.Go(func() error {
			var err error
			prevSales, err = s.fetchSales(gctx, report.FamilyFinancial, previous)
			return err
		})
		g.Go(func() error {
			var err error
			expenses, err = s.fetchExpenses(gctx, currentExpenses)
			return err
		})
		g.Go(func() error {
			var err error
			prevExpenses, err = s.fetchExpenses(gctx, previousExpenses)
			return err
		})
		if err := g.Wait(); err != nil {
			return report.FinancialReport{}, err
		}

		curr := report.AggregateFinancial(sales, expenses, s.settings)
		prev := report.AggregateFinancial(prevSales, prevExpenses, s.settings)
		return report.AssembleFinancial(filter, curr, prev), nil
	})
}

// computeCached validates the filter, serves a cached payload when one is fresh,
// and otherwise runs compute and stores its result.
func computeCached[T report.Report](
	ctx context.Context,
	s *ReportService,
	family report.Family,
	filter report.Filter,
	compute func(context.Context) (T, error),
) (T, error) {
	var zero T
	if err := validateFilter(family, filter); err != nil {
		return zero, err
	}

	ctx, span := s.tracer.Start(ctx, "report.compute",
		trace.WithAttributes(
			attribute.String("report.family", string(family)),
			attribute.String("report.start_date", filter.StartDate.Format(time.RFC3339)),
			attribute.String("report.end_date", filter.EndDate.Format(time.RFC3339)),
		),
	)
	defer span.End()

	start := time.Now()
	key := CacheKey(family, filter)

	if cached, ok := s.cachedReport(ctx, key); ok {
		var rep T
		if err := json.Unmarshal(cached, &rep); err == nil {
			span.SetAttributes(attribute.Bool("report.cache_hit", true))
			s.metrics.ObserveCompute(ctx, string(family), true, time.Since(start))
			s.logger.Debug("Report served from cache",
				zap.String("family", string(family)),
				zap.String("cache_key", key),
			)
			return rep, nil
		}
		s.logger.Warn("Discarding undecodable cached report", zap.String("cache_key", key))
	}

	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	rep, err := compute(fetchCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("Report computation failed",
			zap.String("family", string(family)),
			zap.Error(err),
		)
		return zero, err
	}

	s.storeReport(ctx, key, rep)

	elapsed := time.Since(start)
	span.SetAttributes(attribute.Bool("report.cache_hit", false))
	s.metrics.ObserveCompute(ctx, string(family), false, elapsed)
	s.logger.Info("Report computed",
		zap.String("family", string(family)),
		zap.Time("start_date", filter.StartDate),
		zap.Time("end_date", filter.EndDate),
		zap.Bool("empty", rep.IsEmpty()),
		zap.Duration("duration", elapsed),
	)
	return rep, nil
}

func validateFilter(family report.Family, filter report.Filter) error {
	if family.RequiresDateRange() && !filter.HasDateRange() {
		return report.NewInvalidFilterError("start_date and end_date are required for " + string(family) + " reports")
	}
	return filter.Validate()
}

func (s *ReportService) cachedReport(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache lookup failed", zap.String("cache_key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *ReportService) storeReport(ctx context.Context, key string, rep report.Report) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		s.logger.Warn("Failed to encode report for cache", zap.String("cache_key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache report", zap.String("cache_key", key), zap.Error(err))
	}
}

func (s *ReportService) fetchSales(ctx context.Context, family report.Family, filter report.Filter) ([]report.SaleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "report.fetch_sales")
	defer span.End()

	sales, err := s.source.FetchSales(ctx, filter)
	if err != nil {
		return nil, s.fetchFailed(ctx, span, family, "sales", err)
	}
	s.metrics.AddRowsFetched(ctx, string(family), "sales", len(sales))
	return sales, nil
}

func (s *ReportService) fetchSaleItems(ctx context.Context, family report.Family, saleIDs []uuid.UUID) ([]report.SaleItemRecord, error) {
	if len(saleIDs) == 0 {
		return []report.SaleItemRecord{}, nil
	}
	ctx, span := s.tracer.Start(ctx, "report.fetch_sale_items",
		trace.WithAttributes(attribute.Int("report.sale_count", len(saleIDs))),
	)
	defer span.End()

	items, err := s.source.FetchSaleItems(ctx, saleIDs)
	if err != nil {
		return nil, s.fetchFailed(ctx, span, family, "sale_items", err)
	}
	s.metrics.AddRowsFetched(ctx, string(family), "sale_items", len(items))
	return items, nil
}

func (s *ReportService) fetchProducts(ctx context.Context, family report.Family, filter report.Filter) ([]report.ProductRecord, error) {
	ctx, span := s.tracer.Start(ctx, "report.fetch_products")
	defer span.End()

	products, err := s.source.FetchProducts(ctx, filter)
	if err != nil {
		return nil, s.fetchFailed(ctx, span, family, "products", err)
	}
	s.metrics.AddRowsFetched(ctx, string(family), "products", len(products))
	return products, nil
}

func (s *ReportService) fetchCustomers(ctx context.Context, filter report.Filter) ([]report.CustomerRecord, error) {
	ctx, span := s.tracer.Start(ctx, "report.fetch_customers")
	defer span.End()

	customers, err := s.source.FetchCustomers(ctx, filter)
	if err != nil {
		return nil, s.fetchFailed(ctx, span, report.FamilyCustomers, "customers", err)
	}
	s.metrics.AddRowsFetched(ctx, string(report.FamilyCustomers), "customers", len(customers))
	return customers, nil
}

func (s *ReportService) fetchExpenses(ctx context.Context, filter report.Filter) ([]report.ExpenseRecord, error) {
	ctx, span := s.tracer.Start(ctx, "report.fetch_expenses")
	defer span.End()

	expenses, err := s.source.FetchExpenses(ctx, filter)
	if err != nil {
		return nil, s.fetchFailed(ctx, span, report.FamilyFinancial, "expenses", err)
	}
	s.metrics.AddRowsFetched(ctx, string(report.FamilyFinancial), "expenses", len(expenses))
	return expenses, nil
}

// fetchFailed records a record source failure and wraps it once as a FetchError
func (s *ReportService) fetchFailed(ctx context.Context, span trace.Span, family report.Family, source string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.IncFetchFailure(ctx, string(family), source)

	var fetchErr *report.FetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return report.NewFetchError(source, err)
}

package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrFamily     = attribute.Key("family")
	AttrCache      = attribute.Key("cache")
	AttrSource     = attribute.Key("source")
	AttrHTTPMethod = attribute.Key("method")
	AttrHTTPRoute  = attribute.Key("route")
	AttrHTTPStatus = attribute.Key("status")
)

// Metrics records report and HTTP outcomes on OpenTelemetry instruments
type Metrics struct {
	reportDuration *Histogram
	reportsServed  *Counter
	fetchFailures  *Counter
	rowsFetched    *Counter

	httpDuration *Histogram
	httpRequests *Counter
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.reportDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "report.compute.duration",
		Description: "Time to serve a report, from cache or computed.",
		Unit:        "s",
		Boundaries:  ReportDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.reportsServed, err = NewCounter(meter, "report.served", "Reports served, by family and cache outcome.", "{report}"); err != nil {
		return nil, err
	}
	if m.fetchFailures, err = NewCounter(meter, "report.fetch.failures", "Record source fetches that failed.", "{fetch}"); err != nil {
		return nil, err
	}
	if m.rowsFetched, err = NewCounter(meter, "report.rows.fetched", "Records read from the record source.", "{row}"); err != nil {
		return nil, err
	}
	if m.httpDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "http.request.duration",
		Description: "Duration of HTTP requests in seconds.",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.httpRequests, err = NewCounter(meter, "http.requests", "HTTP requests by route and status code.", "{request}"); err != nil {
		return nil, err
	}
	return &m, nil
}

func cacheLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// ObserveCompute records one served report
func (m *Metrics) ObserveCompute(ctx context.Context, family string, cacheHit bool, duration time.Duration) {
	attrs := []attribute.KeyValue{AttrFamily.String(family), AttrCache.String(cacheLabel(cacheHit))}
	m.reportDuration.RecordDuration(ctx, duration, attrs...)
	m.reportsServed.Inc(ctx, attrs...)
}

// IncFetchFailure counts a failed fetch of source
func (m *Metrics) IncFetchFailure(ctx context.Context, family, source string) {
	m.fetchFailures.Inc(ctx, AttrFamily.String(family), AttrSource.String(source))
}

// AddRowsFetched counts records read from source
func (m *Metrics) AddRowsFetched(ctx context.Context, family, source string, rows int) {
	m.rowsFetched.Add(ctx, int64(rows), AttrFamily.String(family), AttrSource.String(source))
}

// ObserveHTTP records one HTTP request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTP(ctx context.Context, method, route string, status int, duration time.Duration) {
	m.httpDuration.RecordDuration(ctx, duration, AttrHTTPMethod.String(method), AttrHTTPRoute.String(route))
	m.httpRequests.Inc(ctx,
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
		AttrHTTPStatus.String(strconv.Itoa(status)),
	)
}

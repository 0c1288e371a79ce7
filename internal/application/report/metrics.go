package report

import (
	"context"
	"time"
)

// Metrics records report computation outcomes
type Metrics interface {
	ObserveCompute(ctx context.Context, family string, cacheHit bool, duration time.Duration)
	IncFetchFailure(ctx context.Context, family, source string)
	AddRowsFetched(ctx context.Context, family, source string, rows int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveCompute(context.Context, string, bool, time.Duration) {}
func (nopMetrics) IncFetchFailure(context.Context, string, string) {}
func (nopMetrics) AddRowsFetched(context.Context, string, string, int) {}

package cache

import (
	"context"
	"time"
)

// ReportCache stores encoded report payloads with a time to live.
// A miss is reported as (nil, false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Stats counts lookups since the cache was created
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

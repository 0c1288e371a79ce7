package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pos-admin/backend/internal/domain/report"
)

// ReportCache stores assembled report payloads for a bounded staleness window.
// It is owned by the caller and passed into the service.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const cacheKeyPrefix = "report:"

// CacheKey derives the cache key for a family and filter
func CacheKey(family report.Family, filter report.Filter) string {
	raw, _ := json.Marshal(filter)
	sum := sha256.Sum256(raw)
	return cacheKeyPrefix + string(family) + ":" + hex.EncodeToString(sum[:])
}

// internal/pkg/sequence/sequence.go
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Document number prefixes used by the inventory core.
const (
	PrefixSKU             = "INV"
	PrefixPurchaseOrder   = "PO"
	PrefixStockAdjustment = "ADJ"
)

// Generator hands out sequence numbers scoped per tenant, per prefix, per
// local day. Implementations must be race-safe: two concurrent calls for the
// same key never return the same number.
type Generator interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix string, day time.Time) (int64, error)
}

// Number formats a document number as <PREFIX>-<YYYYMMDD>-<NNNN> with the
// sequence zero-padded to four digits.
func Number(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}

func key(tenantID uuid.UUID, prefix string, day time.Time) string {
	return fmt.Sprintf("seq:%s:%s:%s", tenantID, prefix, day.Format("20060102"))
}

// RedisGenerator implements Generator on a Redis atomic counter. Counter
// keys expire two days after first use; by then the day they cover is over.
type RedisGenerator struct {
	client *redis.Client
}

// NewRedisGenerator creates a Generator backed by the given Redis client.
func NewRedisGenerator(client *redis.Client) *RedisGenerator {
	return &RedisGenerator{client: client}
}

// Next atomically increments and returns the counter for the key.
func (g *RedisGenerator) Next(ctx context.Context, tenantID uuid.UUID, prefix string, day time.Time) (int64, error) {
	k := key(tenantID, prefix, day)
	n, err := g.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", k, err)
	}
	if n == 1 {
		// Best effort; a missing expiry only leaves a stale counter behind.
		g.client.Expire(ctx, k, 48*time.Hour)
	}
	return n, nil
}

// MemoryGenerator implements Generator with an in-process map. Used by tests
// and by the in-memory persistence mode.
type MemoryGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryGenerator creates an empty in-process Generator.
func NewMemoryGenerator() *MemoryGenerator {
	return &MemoryGenerator{counters: make(map[string]int64)}
}

// Next increments and returns the counter for the key.
func (g *MemoryGenerator) Next(_ context.Context, tenantID uuid.UUID, prefix string, day time.Time) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := key(tenantID, prefix, day)
	g.counters[k]++
	return g.counters[k], nil
}

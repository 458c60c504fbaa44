package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/pkg/logger"
	"github.com/rohanmalik/boutique-backend/pkg/redis"
)

type inflightStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	CheckoutInflightKey(userID string) string
	CounterKey(name string) string
}

var _ inflightStore = (*redis.Client)(nil)

// Guard serializes checkout submissions per customer. The TTL caps how long a
// crashed submit can block the next attempt.
type Guard struct {
	store inflightStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewGuard builds the redis-backed re-entrancy guard.
func NewGuard(store inflightStore, ttl time.Duration, logg *logger.Logger) (*Guard, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Guard{store: store, ttl: ttl, logg: logg}, nil
}

// Acquire claims the in-flight slot for the customer. A false return means
// another submit is already running.
func (g *Guard) Acquire(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := g.store.CheckoutInflightKey(userID.String())
	return g.store.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
}

// Release frees the slot. Failures are logged and swallowed; the TTL cleans up.
func (g *Guard) Release(ctx context.Context, userID uuid.UUID) {
	key := g.store.CheckoutInflightKey(userID.String())
	if err := g.store.Del(ctx, key); err != nil && g.logg != nil {
		g.logg.Warn(g.logg.WithField(ctx, "key", key), "release checkout guard failed")
	}
}

// NextOrderNumber issues a date-prefixed sequential order number backed by a
// redis counter.
func (g *Guard) NextOrderNumber(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")
	seq, err := g.store.Incr(ctx, g.store.CounterKey("orders:"+day))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%06d", day, seq), nil
}

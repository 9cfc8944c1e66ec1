package gateway

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// ChargeCache holds the reference rate plan charge. The first successful
// load is kept for the life of the cache; failures are not cached, and
// concurrent first loads share one remote query.
type ChargeCache struct {
	load func(ctx context.Context, conn contracts.Connection) domain.Result[*domain.RatePlanCharge]

	mu     sync.RWMutex
	charge *domain.RatePlanCharge
	group  singleflight.Group
}

func NewChargeCache(load func(context.Context, contracts.Connection) domain.Result[*domain.RatePlanCharge]) *ChargeCache {
	return &ChargeCache{load: load}
}

func (c *ChargeCache) Get(ctx context.Context, conn contracts.Connection) domain.Result[*domain.RatePlanCharge] {
	c.mu.RLock()
	charge := c.charge
	c.mu.RUnlock()
	if charge != nil {
		return domain.Success(charge)
	}

	v, _, _ := c.group.Do("charge", func() (any, error) {
		c.mu.RLock()
		cached := c.charge
		c.mu.RUnlock()
		if cached != nil {
			return domain.Success(cached), nil
		}
		r := c.load(ctx, conn)
		if r.IsSuccess() {
			c.mu.Lock()
			c.charge = r.Value()
			c.mu.Unlock()
		}
		return r, nil
	})
	return v.(domain.Result[*domain.RatePlanCharge])
}

// Reset forgets the cached charge.
func (c *ChargeCache) Reset() {
	c.mu.Lock()
	c.charge = nil
	c.mu.Unlock()
}

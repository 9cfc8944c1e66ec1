package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.ConnectionPool = (*Pool[contracts.Connection])(nil)

// Factory creates, checks and disposes of pooled clients
type Factory[C comparable] interface {
	Make(ctx context.Context) (C, error)
	Validate(ctx context.Context, c C) bool
	Destroy(c C)
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Active    int
	Idle      int
	MaxActive int
	MaxIdle   int
	MinIdle   int
	Created   int64
	Destroyed int64
}

// Pool lends clients to one caller at a time. At most MaxActive clients are
// checked out at once; returned clients wait in a LIFO idle set of at most
// MaxIdle entries.
type Pool[C comparable] struct {
	cfg     Config
	factory Factory[C]
	logger  pslog.Logger
	metrics *poolMetrics
	slots   *semaphore.Weighted

	mu       sync.Mutex
	idle     []C
	borrowed map[C]int
	active   int
	closed   bool

	created   atomic.Int64
	destroyed atomic.Int64
}

func New[C comparable](cfg Config, factory Factory[C], logger pslog.Logger) (*Pool[C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	p := &Pool[C]{
		cfg:      cfg,
		factory:  factory,
		logger:   logger,
		slots:    semaphore.NewWeighted(int64(cfg.MaxActive)),
		borrowed: make(map[C]int),
	}
	p.metrics = newPoolMetrics(logger, p)
	return p, nil
}

func (p *Pool[C]) Logger() pslog.Logger { return p.logger }

// Borrow checks a client out of the pool, reusing the most recently returned
// idle client that passes validation and creating one otherwise.
func (p *Pool[C]) Borrow(ctx context.Context) (C, error) {
	var zero C
	if p.isClosed() {
		return zero, domain.ErrPoolClosed
	}
	if err := p.acquire(ctx); err != nil {
		return zero, err
	}

	c, err := p.obtain(ctx)
	if err != nil {
		p.slots.Release(1)
		return zero, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.destroy(ctx, c)
		p.slots.Release(1)
		return zero, domain.ErrPoolClosed
	}
	p.borrowed[c]++
	p.active++
	p.mu.Unlock()
	return c, nil
}

func (p *Pool[C]) acquire(ctx context.Context) error {
	if p.cfg.WhenExhausted == Fail {
		if !p.slots.TryAcquire(1) {
			return domain.ErrPoolExhausted
		}
		return nil
	}

	waitCtx := ctx
	if p.cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.cfg.MaxWait)
		defer cancel()
	}
	if err := p.slots.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: waited %s", domain.ErrPoolExhausted, p.cfg.MaxWait)
		}
		return fmt.Errorf("failed to borrow connection: %w", err)
	}
	return nil
}

func (p *Pool[C]) obtain(ctx context.Context) (C, error) {
	for {
		c, ok := p.popIdle()
		if !ok {
			break
		}
		if !p.cfg.TestOnBorrow || p.factory.Validate(ctx, c) {
			return c, nil
		}
		p.metrics.add(ctx, p.metrics.validationFailures)
		p.logger.Debug("pool.borrow.invalid_idle")
		p.destroy(ctx, c)
	}

	var zero C
	c, err := p.factory.Make(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to create connection: %w", err)
	}
	p.created.Add(1)
	p.metrics.add(ctx, p.metrics.created)
	if p.cfg.TestOnBorrow && !p.factory.Validate(ctx, c) {
		p.metrics.add(ctx, p.metrics.validationFailures)
		p.destroy(ctx, c)
		return zero, domain.ErrValidationFailed
	}
	return c, nil
}

func (p *Pool[C]) popIdle() (C, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero C
	n := len(p.idle)
	if n == 0 {
		return zero, false
	}
	c := p.idle[n-1]
	p.idle[n-1] = zero
	p.idle = p.idle[:n-1]
	return c, true
}

// Return puts a borrowed client back. Clients beyond MaxIdle, and every
// client returned after Close, are destroyed.
func (p *Pool[C]) Return(c C) error {
	p.mu.Lock()
	if !p.release(c) {
		p.mu.Unlock()
		return domain.ErrNotBorrowed
	}
	if p.closed {
		p.mu.Unlock()
		p.slots.Release(1)
		p.destroy(context.Background(), c)
		return domain.ErrPoolClosed
	}
	if len(p.idle) >= p.cfg.MaxIdle {
		p.mu.Unlock()
		p.slots.Release(1)
		p.destroy(context.Background(), c)
		return nil
	}
	p.idle = append(p.idle, c)
	p.mu.Unlock()
	p.slots.Release(1)
	return nil
}

// Invalidate destroys a borrowed client instead of returning it.
func (p *Pool[C]) Invalidate(c C) error {
	p.mu.Lock()
	if !p.release(c) {
		p.mu.Unlock()
		return domain.ErrNotBorrowed
	}
	p.mu.Unlock()
	p.slots.Release(1)
	p.destroy(context.Background(), c)
	return nil
}

// release drops one checkout of c. Callers hold p.mu.
func (p *Pool[C]) release(c C) bool {
	n := p.borrowed[c]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(p.borrowed, c)
	} else {
		p.borrowed[c] = n - 1
	}
	p.active--
	return true
}

// Prewarm creates clients until MinIdle of them are idle.
func (p *Pool[C]) Prewarm(ctx context.Context) error {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return domain.ErrPoolClosed
		}
		missing := p.cfg.MinIdle - len(p.idle)
		p.mu.Unlock()
		if missing <= 0 {
			return nil
		}

		c, err := p.factory.Make(ctx)
		if err != nil {
			return fmt.Errorf("failed to prewarm pool: %w", err)
		}
		p.created.Add(1)
		p.metrics.add(ctx, p.metrics.created)

		p.mu.Lock()
		if p.closed || len(p.idle) >= p.cfg.MaxIdle {
			p.mu.Unlock()
			p.destroy(ctx, c)
			continue
		}
		p.idle = append(p.idle, c)
		p.mu.Unlock()
	}
}

// Close destroys the idle clients and rejects further borrows. Clients still
// checked out are destroyed as they come back.
func (p *Pool[C]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, c := range idle {
		p.destroy(context.Background(), c)
	}
	p.logger.Info("pool.closed", "destroyed_idle", len(idle))
	return nil
}

func (p *Pool[C]) NumActive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Pool[C]) NumIdle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

func (p *Pool[C]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Active:    p.active,
		Idle:      len(p.idle),
		MaxActive: p.cfg.MaxActive,
		MaxIdle:   p.cfg.MaxIdle,
		MinIdle:   p.cfg.MinIdle,
		Created:   p.created.Load(),
		Destroyed: p.destroyed.Load(),
	}
}

func (p *Pool[C]) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool[C]) destroy(ctx context.Context, c C) {
	p.factory.Destroy(c)
	p.destroyed.Add(1)
	p.metrics.add(ctx, p.metrics.destroyed)
}

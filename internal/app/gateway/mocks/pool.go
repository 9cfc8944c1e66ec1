package mocks

import (
	"context"
	"sync"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
)

var _ contracts.ConnectionPool = (*Pool)(nil)

// Conn is an inert connection handed out by Pool. Calling it panics, which
// is the point: with a mocked Gateway nothing should.
type Conn struct {
	contracts.Connection
}

// Pool lends a single Conn and counts borrows and returns. BorrowErr, when
// set, fails every borrow.
type Pool struct {
	BorrowErr error

	mu       sync.Mutex
	conn     *Conn
	borrows  int
	returns  int
	borrowed bool
}

func NewPool() *Pool {
	return &Pool{conn: &Conn{}}
}

func (p *Pool) Borrow(ctx context.Context) (contracts.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.BorrowErr != nil {
		return nil, p.BorrowErr
	}
	p.borrows++
	p.borrowed = true
	return p.conn, nil
}

func (p *Pool) Return(conn contracts.Connection) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.returns++
	p.borrowed = false
	return nil
}

func (p *Pool) Invalidate(conn contracts.Connection) error {
	return p.Return(conn)
}

func (p *Pool) NumActive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.borrowed {
		return 1
	}
	return 0
}

func (p *Pool) NumIdle() int {
	return 1 - p.NumActive()
}

// Balanced reports whether every borrow was returned.
func (p *Pool) Balanced() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.borrows == p.returns
}

func (p *Pool) Borrows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.borrows
}

package pool

import (
	"fmt"
	"strings"
	"time"
)

// WhenExhausted decides what Borrow does when MaxActive clients are out.
type WhenExhausted int

const (
	Block WhenExhausted = iota
	Fail
)

func (w WhenExhausted) String() string {
	if w == Fail {
		return "fail"
	}
	return "block"
}

func ParseWhenExhausted(s string) (WhenExhausted, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return Block, nil
	case "fail":
		return Fail, nil
	default:
		return Block, fmt.Errorf("unknown exhausted action %q (want block or fail)", s)
	}
}

type Config struct {
	MinIdle       int
	MaxIdle       int
	MaxActive     int
	WhenExhausted WhenExhausted
	// MaxWait bounds a blocking Borrow. Zero waits as long as the context allows.
	MaxWait      time.Duration
	TestOnBorrow bool
}

func DefaultConfig() Config {
	return Config{
		MinIdle:       0,
		MaxIdle:       8,
		MaxActive:     8,
		WhenExhausted: Block,
		TestOnBorrow:  true,
	}
}

// Validate enforces 0 <= MinIdle <= MaxIdle <= MaxActive and MaxActive > 0.
func (c Config) Validate() error {
	if c.MaxActive <= 0 {
		return fmt.Errorf("pool max-active must be positive, got %d", c.MaxActive)
	}
	if c.MinIdle < 0 || c.MaxIdle < 0 {
		return fmt.Errorf("pool idle bounds must not be negative")
	}
	if c.MinIdle > c.MaxIdle {
		return fmt.Errorf("pool min-idle (%d) exceeds max-idle (%d)", c.MinIdle, c.MaxIdle)
	}
	if c.MaxIdle > c.MaxActive {
		return fmt.Errorf("pool max-idle (%d) exceeds max-active (%d)", c.MaxIdle, c.MaxActive)
	}
	if c.MaxWait < 0 {
		return fmt.Errorf("pool max-wait must not be negative")
	}
	return nil
}

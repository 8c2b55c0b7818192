// Package engine defines the strategy engine interface and its configuration.
package engine

import (
	"context"
	"time"

	"github.com/trendlab/trendfollow/internal/types"
)

// Default loop timings.
const (
	DefaultTickInterval      = 2 * time.Second
	DefaultIdleInterval      = 5 * time.Second
	DefaultErrorCooldown     = 5 * time.Second
	DefaultHeartbeatInterval = 60 * time.Second
	DefaultOrderTimeout      = 2 * time.Second
)

// Config holds the engine loop timings. Zero values are replaced with the
// defaults above.
type Config struct {
	// TickInterval is the sleep between evaluation ticks.
	TickInterval time.Duration `yaml:"tick_interval"`
	// IdleInterval is the sleep while the run flag is off.
	IdleInterval time.Duration `yaml:"idle_interval"`
	// ErrorCooldown is the sleep after an unexpected tick error.
	ErrorCooldown time.Duration `yaml:"error_cooldown"`
	// HeartbeatInterval is how often the alive log line is emitted.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	// OrderTimeout bounds a single order placement call.
	OrderTimeout time.Duration `yaml:"order_timeout"`
}

// ApplyDefaults fills unset fields with the default timings.
func (c *Config) ApplyDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}

	if c.IdleInterval <= 0 {
		c.IdleInterval = DefaultIdleInterval
	}

	if c.ErrorCooldown <= 0 {
		c.ErrorCooldown = DefaultErrorCooldown
	}

	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}

	if c.OrderTimeout <= 0 {
		c.OrderTimeout = DefaultOrderTimeout
	}
}

// StrategyEngine is the polling strategy core.
type StrategyEngine interface {
	// Run drives the strategy until the context is cancelled. It never
	// returns under normal operation.
	Run(ctx context.Context) error
	// Snapshot returns a deep copy of the runtime state for the status
	// surface.
	Snapshot() *types.RuntimeState
}

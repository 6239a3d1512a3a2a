package batch

import (
	"fmt"
	"time"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// Default engine tuning. The delay and cooldown values are operational knobs
// inherited from production, not correctness constants; adjust per vendor.
const (
	DefaultMaxAttempts       = 3
	DefaultBaseDelay         = 5 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultGroupCooldown     = 1 * time.Second
	DefaultGroupSize         = 10
)

// Config holds the engine's tuning. Explicitly constructed and injected;
// there is no global configuration state in this package.
type Config struct {
	// MaxAttempts is the per-item attempt ceiling, including the first attempt.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; attempt n waits
	// BaseDelay * BackoffMultiplier^(n-1).
	BaseDelay         time.Duration
	BackoffMultiplier float64
	// GroupCooldown is the fixed pause between consecutive groups.
	GroupCooldown time.Duration
	// GroupSizes maps analysis depth to concurrent fan-out per group.
	GroupSizes map[models.AnalysisDepth]int
	// DefaultGroupSize applies to depths missing from GroupSizes.
	DefaultGroupSize int
}

// DefaultConfig returns the production defaults: smaller groups for deeper
// (slower, vendor-heavier) analysis tiers.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       DefaultMaxAttempts,
		BaseDelay:         DefaultBaseDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
		GroupCooldown:     DefaultGroupCooldown,
		GroupSizes: map[models.AnalysisDepth]int{
			models.DepthLight: 8,
			models.DepthDeep:  5,
			models.DepthXRay:  3,
		},
		DefaultGroupSize: DefaultGroupSize,
	}
}

// Validate reports configuration programmer errors.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base delay must be >= 0, got %s", c.BaseDelay)
	}
	if c.BackoffMultiplier < 1 {
		return fmt.Errorf("backoff multiplier must be >= 1, got %g", c.BackoffMultiplier)
	}
	if c.GroupCooldown < 0 {
		return fmt.Errorf("group cooldown must be >= 0, got %s", c.GroupCooldown)
	}
	if c.DefaultGroupSize < 1 {
		return fmt.Errorf("default group size must be >= 1, got %d", c.DefaultGroupSize)
	}
	for depth, size := range c.GroupSizes {
		if size < 1 {
			return fmt.Errorf("group size for depth %s must be >= 1, got %d", depth, size)
		}
	}
	return nil
}

// GroupSize returns the configured fan-out for a depth, falling back to the
// default size for unknown depths.
func (c Config) GroupSize(depth models.AnalysisDepth) int {
	if size, ok := c.GroupSizes[depth]; ok {
		return size
	}
	return c.DefaultGroupSize
}

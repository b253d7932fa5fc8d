package workplace

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultCooldownTicks is the post-outcome countdown duration in ticks.
	DefaultCooldownTicks = 10

	// DefaultTickInterval is the cooldown tick period.
	DefaultTickInterval = 1 * time.Second

	// DefaultPollInterval is the reconciliation poller period.
	DefaultPollInterval = 2 * time.Second

	// DefaultCacheFreshFor is the assignment cache staleness window.
	DefaultCacheFreshFor = 5 * time.Minute

	// DefaultStartupTimeout bounds the initial fetches performed by Start.
	DefaultStartupTimeout = 15 * time.Second
)

// Config is the configuration for the Coordinator.
//
// All duration fields accept standard Go duration strings like "2s", "5m"
// when unmarshalled from YAML.
type Config struct {
	// CooldownTicks is how many ticks the post-outcome cooldown lasts.
	// The clerk cannot be handed a new assignment until it reaches zero.
	CooldownTicks int `yaml:"cooldownTicks"`

	// TickInterval is the cooldown tick period. One tick per second matches
	// the countdown shown to the clerk.
	TickInterval time.Duration `yaml:"tickInterval"`

	// PollInterval is how often the reconciliation poller re-requests the
	// current assignment while none is held.
	PollInterval time.Duration `yaml:"pollInterval"`

	// CacheFreshFor is how long a fetched assignment is served from the
	// cache without a network call. Explicit invalidation (mutation settle,
	// bridge events, cooldown expiry) bypasses it.
	CacheFreshFor time.Duration `yaml:"cacheFreshFor"`

	// StartupTimeout bounds the initial clerk/status/assignment fetches
	// performed by Start. Zero disables the timeout.
	StartupTimeout time.Duration `yaml:"startupTimeout"`
}

// SetDefaults fills in missing configuration values with defaults.
func SetDefaults(cfg *Config) {
	if cfg.CooldownTicks == 0 {
		cfg.CooldownTicks = DefaultCooldownTicks
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.CacheFreshFor == 0 {
		cfg.CacheFreshFor = DefaultCacheFreshFor
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
}

// Validate checks the configuration for invalid values.
//
// Returns:
//   - error: Wrapped ErrInvalidConfig describing the first invalid field
func (c *Config) Validate() error {
	if c.CooldownTicks < 0 {
		return fmt.Errorf("%w: cooldownTicks must not be negative, got %d", ErrInvalidConfig, c.CooldownTicks)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("%w: tickInterval must not be negative, got %s", ErrInvalidConfig, c.TickInterval)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("%w: pollInterval must not be negative, got %s", ErrInvalidConfig, c.PollInterval)
	}
	if c.CacheFreshFor < 0 {
		return fmt.Errorf("%w: cacheFreshFor must not be negative, got %s", ErrInvalidConfig, c.CacheFreshFor)
	}
	if c.StartupTimeout < 0 {
		return fmt.Errorf("%w: startupTimeout must not be negative, got %s", ErrInvalidConfig, c.StartupTimeout)
	}

	return nil
}

// ValidateWithWarnings logs warnings for configurations that are valid but
// likely unintended.
func (c *Config) ValidateWithWarnings(logger Logger) {
	if c.PollInterval > 0 && c.PollInterval < 500*time.Millisecond {
		logger.Warn("pollInterval is very short; the remote service will see one fetch per interval",
			"poll_interval", c.PollInterval,
		)
	}
	if c.CacheFreshFor > 0 && c.CacheFreshFor < c.PollInterval {
		logger.Warn("cacheFreshFor is shorter than pollInterval; every manual read will hit the network",
			"cache_fresh_for", c.CacheFreshFor,
			"poll_interval", c.PollInterval,
		)
	}
	if c.TickInterval > 0 && c.TickInterval != DefaultTickInterval {
		logger.Warn("tickInterval differs from one second; cooldown ticks will not match a per-second countdown display",
			"tick_interval", c.TickInterval,
		)
	}
}

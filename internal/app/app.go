package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/lucasew/decimate/internal/eviction"
	_ "github.com/lucasew/decimate/internal/eviction/atime"
	"github.com/lucasew/decimate/internal/eviction/policy"
	"github.com/lucasew/decimate/internal/eviction/policy/minbytes"
	"github.com/lucasew/decimate/internal/eviction/policy/minfree"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/lucasew/decimate/internal/repository"
	"github.com/lucasew/decimate/internal/space"
	"github.com/spf13/afero"
)

type Config struct {
	CacheDir         string
	FreeThreshold    float64
	MinFreeBytes     uint64
	Commit           bool
	EvictPercent     int
	EvictionStrategy string
	Interval         time.Duration

	// Progress, when set, is attached to the deletion loop of every pass.
	Progress func(total int) eviction.Progress

	// Fs and Prober replace the operating system filesystem and volume
	// statistics. Both default to the real thing.
	Fs     afero.Fs
	Prober space.Prober
}

// Validate checks the values a user can get wrong.
func (c Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache directory is required")
	}
	if math.IsNaN(c.FreeThreshold) || c.FreeThreshold < 0 || c.FreeThreshold > 100 {
		return fmt.Errorf("free threshold must be between 0 and 100, got %v", c.FreeThreshold)
	}
	if c.EvictPercent < 1 || c.EvictPercent > 100 {
		return fmt.Errorf("evict percent must be between 1 and 100, got %d", c.EvictPercent)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	return nil
}

// NewManager wires the repository, strategy and policies described by cfg.
func NewManager(ctx context.Context, cfg Config) (*eviction.Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strat, err := eviction.GetStrategy(cfg.EvictionStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize eviction strategy: %w", err)
	}

	repo, err := repository.NewLocalRepository(cfg.CacheDir, cfg.Fs)
	if err != nil {
		return nil, err
	}

	decimator, err := eviction.NewDecimator(repo, strat, cfg.EvictPercent)
	if err != nil {
		return nil, err
	}
	decimator.NewProgress = cfg.Progress

	monitor := space.NewMonitor(cfg.Prober)

	// Setup Policies
	policies := []policy.Policy{
		&minfree.Policy{
			Path:             repo.Root,
			ThresholdPercent: cfg.FreeThreshold,
			Monitor:          monitor,
		},
	}

	if cfg.MinFreeBytes > 0 {
		logging.FromContext(ctx).Debug("Adding MinFreeBytes policy", "min_free", cfg.MinFreeBytes)
		policies = append(policies, &minbytes.Policy{
			Path:         repo.Root,
			MinFreeBytes: cfg.MinFreeBytes,
			Monitor:      monitor,
		})
	}

	return eviction.NewManager(decimator, policies, cfg.Interval, cfg.Commit), nil
}

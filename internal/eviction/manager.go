package eviction

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/eviction/policy"
	"github.com/lucasew/decimate/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is used by Start when no positive interval was configured.
const DefaultInterval = time.Minute

// Manager gates the decimator behind a set of pressure policies.
type Manager struct {
	decimator *Decimator
	policies  []policy.Policy
	interval  time.Duration
	commit    bool
	group     singleflight.Group
}

// NewManager creates a new Manager.
func NewManager(decimator *Decimator, policies []policy.Policy, interval time.Duration, commit bool) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{
		decimator: decimator,
		policies:  policies,
		interval:  interval,
		commit:    commit,
	}
}

// Start runs a pass immediately and then once per interval until ctx is done.
// Failed passes are logged and retried on the next tick.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Manager) tick(ctx context.Context) {
	if _, err := m.RunOnce(ctx); err != nil {
		errutil.ReportError(ctx, err, "Eviction pass failed")
	}
}

// RunOnce checks the policies and, if any of them reports pressure, runs one
// decimation pass. Calls that overlap an in-flight pass share its result.
func (m *Manager) RunOnce(ctx context.Context) (Result, error) {
	v, err, shared := m.group.Do("pass", func() (any, error) {
		return m.run(ctx)
	})
	if shared {
		logging.FromContext(ctx).Debug("Joined eviction pass already in progress")
	}
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (m *Manager) run(ctx context.Context) (Result, error) {
	if m.decimator == nil {
		return Result{}, fmt.Errorf("decimator not initialized")
	}

	log := logging.FromContext(ctx)

	triggered := false
	for _, p := range m.policies {
		pressure, err := p.UnderPressure(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to check capacity policy: %w", err)
		}
		if pressure {
			triggered = true
			break
		}
	}

	if !triggered {
		log.Info("Enough free space, nothing to evict")
		return Result{}, nil
	}

	log.Info("Free space below threshold, starting eviction", "commit", m.commit)
	res, err := m.decimator.Decimate(ctx, m.commit)
	if err != nil {
		return Result{}, err
	}
	res.Triggered = true

	log.Info("Eviction pass finished",
		"scanned", res.Scanned,
		"selected", res.Selected,
		"removed", res.Removed,
		"failed", res.Failed,
		"commit", res.Committed,
	)
	return res, nil
}

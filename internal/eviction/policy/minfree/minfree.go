package minfree

import (
	"context"

	"github.com/lucasew/decimate/internal/space"
)

// DefaultThreshold is the free-space percentage at or below which eviction runs.
const DefaultThreshold = 10.0

// Policy triggers eviction when the free share of the volume hosting Path is
// at or below ThresholdPercent.
type Policy struct {
	Path             string
	ThresholdPercent float64
	Monitor          *space.Monitor
}

func (p *Policy) UnderPressure(ctx context.Context) (bool, error) {
	monitor := p.Monitor
	if monitor == nil {
		monitor = space.NewMonitor(nil)
	}

	reading, err := monitor.FreePercent(ctx, p.Path)
	if err != nil {
		return false, err
	}

	// Equality counts as pressure: only strictly more free space skips eviction.
	return reading.FreePercent <= p.ThresholdPercent, nil
}

package minbytes

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/lucasew/decimate/internal/space"
)

// Policy triggers eviction when the available bytes on the volume hosting
// Path are at or below MinFreeBytes.
type Policy struct {
	Path         string
	MinFreeBytes uint64
	Monitor      *space.Monitor
}

func (p *Policy) UnderPressure(ctx context.Context) (bool, error) {
	monitor := p.Monitor
	if monitor == nil {
		monitor = space.NewMonitor(nil)
	}

	reading, err := monitor.Read(ctx, p.Path)
	if err != nil {
		return false, err
	}

	logging.FromContext(ctx).Debug("Free bytes check",
		slog.String("path", p.Path),
		slog.String("free", humanize.IBytes(reading.FreeBytes)),
		slog.Uint64("free_bytes", reading.FreeBytes),
		slog.Uint64("min_required", p.MinFreeBytes),
	)

	return reading.FreeBytes <= p.MinFreeBytes, nil
}

package space

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/shirou/gopsutil/v4/disk"
)

var errNoCapacity = errors.New("volume reports zero total capacity")

// Reading is a point-in-time view of the volume hosting a path.
type Reading struct {
	FreeBytes   uint64
	TotalBytes  uint64
	FreePercent float64
}

// Prober reports the available and total bytes of the volume hosting path.
type Prober interface {
	Usage(ctx context.Context, path string) (free, total uint64, err error)
}

// DiskProber queries the operating system through gopsutil.
// Free is the space available to unprivileged users.
type DiskProber struct{}

func (DiskProber) Usage(ctx context.Context, path string) (uint64, uint64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, 0, err
	}
	return usage.Free, usage.Total, nil
}

// Monitor computes free-space readings. It keeps no state between calls.
type Monitor struct {
	prober Prober
}

// NewMonitor returns a Monitor backed by p, or by DiskProber when p is nil.
func NewMonitor(p Prober) *Monitor {
	if p == nil {
		p = DiskProber{}
	}
	return &Monitor{prober: p}
}

// Read queries the volume hosting path and returns available/total*100.
func (m *Monitor) Read(ctx context.Context, path string) (Reading, error) {
	free, total, err := m.prober.Usage(ctx, path)
	if err != nil {
		return Reading{}, &errutil.FilesystemAccessError{Op: "statfs", Path: path, Err: err}
	}
	if total == 0 {
		return Reading{}, &errutil.FilesystemAccessError{Op: "statfs", Path: path, Err: errNoCapacity}
	}

	return Reading{
		FreeBytes:   free,
		TotalBytes:  total,
		FreePercent: float64(free) / float64(total) * 100.0,
	}, nil
}

// FreePercent is Read followed by the informational free-space log line.
func (m *Monitor) FreePercent(ctx context.Context, path string) (Reading, error) {
	r, err := m.Read(ctx, path)
	if err != nil {
		return Reading{}, err
	}

	logging.FromContext(ctx).Info("Disk space checked",
		"path", path,
		"free_percent", fmt.Sprintf("%.2f", r.FreePercent),
		"free", humanize.IBytes(r.FreeBytes),
		"total", humanize.IBytes(r.TotalBytes),
	)

	return r, nil
}

package eviction

import (
	"context"
	"time"
)

// FileRecord holds what a scan learned about one regular file.
type FileRecord struct {
	Path       string
	AccessTime time.Time
}

// Plan is the outcome of a scan: every record ranked coldest first, and how
// many of them are to be removed.
type Plan struct {
	Ranked      []FileRecord
	VictimCount int
}

// Victims returns the prefix of Ranked selected for removal.
func (p *Plan) Victims() []FileRecord {
	return p.Ranked[:p.VictimCount]
}

// Result summarizes one eviction pass.
type Result struct {
	// Triggered reports whether any policy found the cache under pressure.
	Triggered bool
	Committed bool
	Scanned   int
	Selected  int
	Removed   int
	Failed    int
}

// Store is the cache directory as seen by the decimator.
type Store interface {
	// Walk calls fn for every regular file under the cache root.
	// Unreadable entries are skipped by the store itself.
	Walk(ctx context.Context, fn func(FileRecord) error) error

	// Delete removes the file at path.
	Delete(ctx context.Context, path string) error
}

// Strategy orders records so that the first ones are evicted first.
type Strategy interface {
	// Rank sorts records in place. The order must be deterministic for
	// a given input.
	Rank(records []FileRecord)
}

// Progress receives one tick per processed victim.
type Progress interface {
	Add(n int) error
}

package policy

import "context"

// Policy decides whether the cache is under space pressure.
type Policy interface {
	// UnderPressure reports whether an eviction pass should run.
	// An error means the volume could not be inspected and is fatal for the pass.
	UnderPressure(ctx context.Context) (bool, error)
}

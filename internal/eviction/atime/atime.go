package atime

import (
	"slices"
	"strings"

	"github.com/lucasew/decimate/internal/eviction"
)

// Name is the registry key of this strategy.
const Name = "atime"

// Strategy ranks files by last access time, oldest first. Files accessed at
// the same instant are ordered by path.
type Strategy struct{}

func init() {
	eviction.Register(Name, func() eviction.Strategy {
		return New()
	})
}

func New() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Rank(records []eviction.FileRecord) {
	slices.SortFunc(records, func(a, b eviction.FileRecord) int {
		if c := a.AccessTime.Compare(b.AccessTime); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

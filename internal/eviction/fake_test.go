package eviction_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/lucasew/decimate/internal/eviction"
	"github.com/lucasew/decimate/internal/logging"
)

// memStore is an in-memory eviction.Store.
type memStore struct {
	mu      sync.Mutex
	records []eviction.FileRecord
	deleted []string
	failOn  map[string]error
	walks   int
}

func (s *memStore) Walk(ctx context.Context, fn func(eviction.FileRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.walks++
	for _, r := range s.records {
		if slices.Contains(s.deleted, r.Path) {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *memStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failOn[path]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *memStore) deletedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deleted)
}

// sequentialStore returns a store of n files whose access times are 1..n
// seconds after the epoch, listed in reverse order.
func sequentialStore(n int) *memStore {
	s := &memStore{}
	for i := n; i >= 1; i-- {
		s.records = append(s.records, eviction.FileRecord{
			Path:       fmt.Sprintf("/cache/f%02d", i),
			AccessTime: time.Unix(int64(i), 0),
		})
	}
	return s
}

// testLogger writes text logs without timestamps so outputs can be compared.
func testLogger(t *testing.T, buf *bytes.Buffer) context.Context {
	t.Helper()
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return logging.WithLogger(t.Context(), slog.New(h))
}

type staticPolicy struct {
	mu       sync.Mutex
	pressure bool
	err      error
	calls    int
}

func (p *staticPolicy) UnderPressure(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.pressure, p.err
}

func (p *staticPolicy) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type countingProgress struct {
	total int
	ticks int
}

func (c *countingProgress) Add(n int) error {
	c.ticks += n
	return nil
}

// Package dedupe tracks candidate keys already seen during one scrape.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool
	// Size returns the number of keys currently remembered.
	Size() int
}

// inMemoryDeduper keeps keys in a map. In bounded mode the oldest key is
// evicted first, using order as a ring buffer.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	next    int
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates a deduper. By default it is unbounded.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}

	if d.maxSize <= 0 {
		return false
	}
	if len(d.order) < d.maxSize {
		d.order = append(d.order, key)
		return false
	}
	delete(d.seen, d.order[d.next])
	d.order[d.next] = key
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

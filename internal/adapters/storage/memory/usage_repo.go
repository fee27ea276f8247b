package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"imperium/internal/domain/usage"
)

type usageBucket struct {
	start  time.Time
	counts map[usage.Outcome]int
}

// usageRepo guarda contadores por minuto. La memoria queda acotada por la
// retención: como mucho retention/BucketSize buckets de len(Outcomes) enteros.
type usageRepo struct {
	mu        sync.Mutex
	retention time.Duration
	now       func() time.Time
	buckets   map[int64]*usageBucket
}

type UsageOption func(*usageRepo)

// WithUsageRetention cambia la ventana de historial (default usage.DefaultRetention).
func WithUsageRetention(d time.Duration) UsageOption {
	return func(r *usageRepo) {
		if d > 0 {
			r.retention = d
		}
	}
}

func WithUsageClock(now func() time.Time) UsageOption {
	return func(r *usageRepo) { r.now = now }
}

func NewUsageRepo(opts ...UsageOption) usage.Repository {
	r := &usageRepo{
		retention: usage.DefaultRetention,
		now:       time.Now,
		buckets:   make(map[int64]*usageBucket),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *usageRepo) maxBuckets() int {
	return int(r.retention/usage.BucketSize) + 1
}

func (r *usageRepo) Create(ctx context.Context, rec usage.Record) error {
	if rec.ID == "" {
		return errors.New("usage record id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := usage.BucketStart(r.now().Add(-r.retention))
	start := usage.BucketStart(rec.OccurredAt)
	if start.Before(cutoff) {
		// Fuera de la retención: se descarta.
		return nil
	}

	key := start.Unix()
	b, ok := r.buckets[key]
	if !ok {
		r.pruneLocked(cutoff)
		b = &usageBucket{start: start, counts: map[usage.Outcome]int{}}
		r.buckets[key] = b
		r.capLocked()
	}
	b.counts[rec.Outcome]++
	return nil
}

func (r *usageRepo) Summarize(ctx context.Context, since *time.Time) (usage.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := usage.Summary{ByOutcome: map[usage.Outcome]int{}}
	for _, b := range r.buckets {
		if since != nil && b.start.Before(usage.BucketStart(*since)) {
			continue
		}
		for o, n := range b.counts {
			sum.Total += n
			sum.ByOutcome[o] += n
		}
	}
	return sum, nil
}

func (r *usageRepo) Prune(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pruneLocked(usage.BucketStart(before)), nil
}

func (r *usageRepo) pruneLocked(before time.Time) int {
	n := 0
	for k, b := range r.buckets {
		if b.start.Before(before) {
			delete(r.buckets, k)
			n++
		}
	}
	return n
}

// capLocked descarta los buckets más viejos si hay más de maxBuckets
// (por ejemplo con registros fechados en el futuro).
func (r *usageRepo) capLocked() {
	extra := len(r.buckets) - r.maxBuckets()
	if extra <= 0 {
		return
	}
	keys := make([]int64, 0, len(r.buckets))
	for k := range r.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys[:extra] {
		delete(r.buckets, k)
	}
}

// Len es la cantidad de buckets en memoria.
func (r *usageRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

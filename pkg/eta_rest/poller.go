package eta_rest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent caps the in-flight requests per cycle. The embedded
// HTTP stack of the controller cannot sustain a full fan-out: 18+
// simultaneous requests were observed to time out across the board.
const DefaultMaxConcurrent = 3

// ErrCycleRunning is returned when a poll cycle is requested while the
// previous one has not finished. The caller skips the cycle.
var ErrCycleRunning = errors.New("eta_rest: poll cycle already running")

type PollStats struct {
	Succeeded int
	Failed    int
}

// Snapshot maps point uri to its most recently known value.
type Snapshot map[string]Value

// Poller runs poll cycles over a fixed set of selected points and owns the
// resulting snapshot. Within a cycle all points are fetched concurrently,
// bounded by the concurrency cap; the merged snapshot is swapped in
// atomically so readers never observe a half-built one.
type Poller struct {
	client Client
	uris   []string
	sem    *semaphore.Weighted
	logger *zap.Logger

	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64

	running atomic.Bool
}

func NewPoller(client Client, uris []string, maxConcurrent int64, logger *zap.Logger) *Poller {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Poller{
		client:   client,
		uris:     append([]string(nil), uris...),
		sem:      semaphore.NewWeighted(maxConcurrent),
		logger:   logger,
		snapshot: Snapshot{},
	}
}

type fetchResult struct {
	uri   string
	value *Value
	err   error
}

// Poll runs a single refresh cycle. Failed fetches keep the point's entry
// from the previous snapshot and never abort the cycle; a cycle where every
// fetch fails still publishes (the previous values, unchanged). Overlapping
// cycles are refused with ErrCycleRunning.
func (p *Poller) Poll(ctx context.Context) (Snapshot, PollStats, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, PollStats{}, ErrCycleRunning
	}
	defer p.running.Store(false)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	prev := p.snapshot
	p.mu.Unlock()

	results := make([]fetchResult, len(p.uris))
	var wg sync.WaitGroup
	for i, uri := range p.uris {
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			if err := p.sem.Acquire(ctx, 1); err != nil {
				results[i] = fetchResult{uri: uri, err: err}
				return
			}
			defer p.sem.Release(1)
			value, err := p.client.ReadValue(ctx, uri)
			results[i] = fetchResult{uri: uri, value: value, err: err}
		}(i, uri)
	}
	wg.Wait()

	merged := make(Snapshot, len(p.uris))
	var stats PollStats
	for _, r := range results {
		if r.err != nil || r.value == nil {
			stats.Failed++
			if old, ok := prev[r.uri]; ok {
				merged[r.uri] = old
			}
			p.logger.Warn("point fetch failed, keeping previous value",
				zap.String("uri", r.uri), zap.Error(r.err))
			continue
		}
		stats.Succeeded++
		merged[r.uri] = *r.value
	}
	if stats.Succeeded == 0 && len(p.uris) > 0 {
		p.logger.Warn("all point fetches failed, snapshot unchanged",
			zap.Int("points", len(p.uris)))
	}

	p.mu.Lock()
	// a cycle abandoned by the caller must not clobber a newer snapshot
	if p.generation == gen {
		p.snapshot = merged
	}
	p.mu.Unlock()

	return merged, stats, nil
}

// Snapshot returns a copy of the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(Snapshot, len(p.snapshot))
	for uri, v := range p.snapshot {
		out[uri] = v
	}
	return out
}

// URIs returns the selected point uris this poller refreshes.
func (p *Poller) URIs() []string {
	return append([]string(nil), p.uris...)
}

package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/danmuck/seedhunt/internal/observability"
	"github.com/rs/zerolog"
)

// Sample is one throughput report, emitted each time the running total
// crosses a multiple of the report interval.
type Sample struct {
	At      time.Time
	Total   uint64
	Delta   uint64
	Elapsed time.Duration
	Rate    uint64
}

// Aggregator consumes worker progress counts and reports throughput.
// Observe and Run are single-consumer; Total and Rate are safe from any
// goroutine.
type Aggregator struct {
	interval uint64
	now      func() time.Time
	log      zerolog.Logger

	total     uint64
	points    uint64
	prevTotal uint64
	prevAt    time.Time

	lastTotal atomic.Uint64
	lastRate  atomic.Uint64
}

func NewAggregator(interval uint64, logger zerolog.Logger) *Aggregator {
	if interval == 0 {
		interval = 1
	}
	return &Aggregator{
		interval: interval,
		now:      time.Now,
		log:      logger,
	}
}

// Reset zeroes the running totals and restarts the rate clock.
func (a *Aggregator) Reset() {
	a.total = 0
	a.points = 0
	a.prevTotal = 0
	a.prevAt = a.now()
	a.lastTotal.Store(0)
	a.lastRate.Store(0)
}

// Observe adds n to the running total and returns a sample when an
// interval boundary was crossed.
func (a *Aggregator) Observe(n uint64) (Sample, bool) {
	if a.prevAt.IsZero() {
		a.prevAt = a.now()
	}
	a.total += n
	a.lastTotal.Store(a.total)
	observability.RecordCandidates(n)

	np := a.total / a.interval
	if np <= a.points {
		return Sample{}, false
	}
	at := a.now()
	elapsed := at.Sub(a.prevAt)
	ms := uint64(elapsed.Milliseconds())
	if ms == 0 {
		ms = 1
	}
	delta := a.total - a.prevTotal
	s := Sample{
		At:      at,
		Total:   a.total,
		Delta:   delta,
		Elapsed: elapsed,
		Rate:    delta * 1000 / ms,
	}
	a.points = np
	a.prevAt = at
	a.prevTotal = a.total
	a.lastRate.Store(s.Rate)
	observability.RecordRate(s.Rate)

	a.log.Info().
		Time("at", at).
		Uint64("total", s.Total).
		Uint64("rate", s.Rate).
		Msgf("%d %d/s", s.Total, s.Rate)
	return s, true
}

// Run consumes progress until ctx is cancelled or in is closed and returns
// the running total. Counts still buffered in in when ctx is cancelled are
// drained without blocking.
func (a *Aggregator) Run(ctx context.Context, in <-chan uint64) uint64 {
	a.Reset()
	for {
		select {
		case <-ctx.Done():
			a.drain(in)
			return a.total
		case n, ok := <-in:
			if !ok {
				return a.total
			}
			a.Observe(n)
		}
	}
}

func (a *Aggregator) drain(in <-chan uint64) {
	for {
		select {
		case n, ok := <-in:
			if !ok {
				return
			}
			a.Observe(n)
		default:
			return
		}
	}
}

// Total is the running total as of the last observed message.
func (a *Aggregator) Total() uint64 {
	return a.lastTotal.Load()
}

// Rate is the throughput of the most recent sample, in candidates per second.
func (a *Aggregator) Rate() uint64 {
	return a.lastRate.Load()
}

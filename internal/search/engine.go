package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/seedhunt/internal/candidate"
	"github.com/danmuck/seedhunt/internal/verify"
	"github.com/danmuck/seedhunt/internal/wordlist"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PhraseLength is the fixed mnemonic length searched.
const PhraseLength = 12

var ErrInvalidConfig = errors.New("search: invalid config")

// Reason is why a search ended.
type Reason string

const (
	ReasonFound       Reason = "found"
	ReasonExhausted   Reason = "exhausted"
	ReasonTimeout     Reason = "timeout"
	ReasonInterrupted Reason = "interrupted"
)

// Config is the immutable search setup shared by every worker.
type Config struct {
	Known       []string
	Head        bool
	Verify      verify.Params
	Workers     int
	ReportEvery uint64
	Timeout     time.Duration
	Words       wordlist.List
}

// Missing is the number of words the search must recover.
func (c Config) Missing() int {
	return PhraseLength - len(c.Known)
}

func (c Config) Validate() error {
	if len(c.Known) < 1 || len(c.Known) >= PhraseLength {
		return fmt.Errorf("%w: need 1..%d known words, got %d", ErrInvalidConfig, PhraseLength-1, len(c.Known))
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrInvalidWorkers, c.Workers)
	}
	if c.ReportEvery == 0 {
		return fmt.Errorf("%w: report interval must be positive", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if err := c.Words.Check(c.Known); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.Verify.Validate()
}

// Result is the engine's final report.
type Result struct {
	Reason  Reason
	Phrase  string
	Missing []string
	Tried   uint64
	Elapsed time.Duration
}

// Snapshot is a point-in-time view of a running search.
type Snapshot struct {
	State     string    `json:"state"`
	Workers   int       `json:"workers"`
	Active    int64     `json:"active_workers"`
	Missing   int       `json:"missing_words"`
	Total     uint64    `json:"total"`
	Rate      uint64    `json:"rate_per_second"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Reason    Reason    `json:"reason,omitempty"`
}

// Engine runs one recovery search.
type Engine struct {
	cfg    Config
	ranges []Range
	agg    *Aggregator
	log    zerolog.Logger

	active    atomic.Int64
	startedAt atomic.Pointer[time.Time]
	reason    atomic.Pointer[Reason]
}

func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	if cfg.Words.Len() == 0 {
		cfg.Words = wordlist.English()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ranges, err := Partition(cfg.Workers, cfg.Words.Len())
	if err != nil {
		return nil, err
	}
	known := make([]string, len(cfg.Known))
	copy(known, cfg.Known)
	cfg.Known = known
	return &Engine{
		cfg:    cfg,
		ranges: ranges,
		agg:    NewAggregator(cfg.ReportEvery, logger),
		log:    logger,
	}, nil
}

// Ranges returns the static partition assigned to workers.
func (e *Engine) Ranges() []Range {
	out := make([]Range, len(e.ranges))
	copy(out, e.ranges)
	return out
}

// Snapshot is safe to call concurrently with Run.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:   "idle",
		Workers: len(e.ranges),
		Active:  e.active.Load(),
		Missing: e.cfg.Missing(),
		Total:   e.agg.Total(),
		Rate:    e.agg.Rate(),
	}
	if at := e.startedAt.Load(); at != nil {
		s.State = "running"
		s.StartedAt = *at
	}
	if r := e.reason.Load(); r != nil {
		s.State = "done"
		s.Reason = *r
	}
	return s
}

// Run blocks until a worker matches, every partition is exhausted, the
// optional timeout fires, or parent is cancelled.
func (e *Engine) Run(parent context.Context) (Result, error) {
	start := time.Now()
	e.startedAt.Store(&start)

	workers, err := e.buildWorkers()
	if err != nil {
		return Result{}, err
	}

	limited := parent
	if e.cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		limited, cancelTimeout = context.WithTimeout(parent, e.cfg.Timeout)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(limited)
	defer cancel()

	e.log.Info().
		Int("workers", len(workers)).
		Int("missing", e.cfg.Missing()).
		Str("space", candidate.SpaceSize(e.cfg.Missing(), e.cfg.Words.Len()).String()).
		Str("scheme", e.cfg.Verify.Scheme.String()).
		Str("network", e.cfg.Verify.Network.String()).
		Str("path", e.cfg.Verify.Path.String()).
		Str("target", e.cfg.Verify.Target).
		Dur("timeout", e.cfg.Timeout).
		Msg("search started")

	progress := make(chan uint64, 4*len(workers))
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		e.agg.Run(ctx, progress)
	}()

	var (
		matchOnce sync.Once
		match     WorkerResult
		tried     atomic.Uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w.progress = progress
		e.active.Add(1)
		g.Go(func() error {
			defer e.active.Add(-1)
			res, err := w.Run(gctx)
			tried.Add(res.Tried)
			if err != nil {
				return err
			}
			if res.Outcome == OutcomeMatched {
				matchOnce.Do(func() {
					match = res
				})
				cancel()
			}
			return nil
		})
	}
	runErr := g.Wait()
	cancel()
	close(progress)
	<-aggDone

	res := Result{
		Tried:   tried.Load(),
		Elapsed: time.Since(start),
	}
	switch {
	case match.Outcome == OutcomeMatched:
		res.Reason = ReasonFound
		res.Phrase = match.Phrase
		res.Missing = match.Missing
	case runErr != nil:
		return res, runErr
	case parent.Err() != nil:
		res.Reason = ReasonInterrupted
	case errors.Is(limited.Err(), context.DeadlineExceeded):
		res.Reason = ReasonTimeout
	default:
		res.Reason = ReasonExhausted
	}
	e.reason.Store(&res.Reason)

	e.log.Info().
		Str("reason", string(res.Reason)).
		Uint64("tried", res.Tried).
		Dur("elapsed", res.Elapsed).
		Msg("search finished")
	return res, nil
}

func (e *Engine) buildWorkers() ([]*Worker, error) {
	workers := make([]*Worker, 0, len(e.ranges))
	for i, r := range e.ranges {
		v, err := verify.NewVerifier(e.cfg.Verify)
		if err != nil {
			return nil, err
		}
		w, err := NewWorker(WorkerConfig{
			ID:          i,
			Range:       r,
			Width:       e.cfg.Missing(),
			Radix:       e.cfg.Words.Len(),
			Assembler:   candidate.NewAssembler(e.cfg.Known, e.cfg.Head, e.cfg.Words),
			Verifier:    v,
			ReportEvery: e.cfg.ReportEvery,
			Logger:      e.log,
		})
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}

// MissingWords joins recovered words for display.
func (r Result) MissingWords() string {
	return strings.Join(r.Missing, " ")
}

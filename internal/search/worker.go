package search

import (
	"context"
	"fmt"

	"github.com/danmuck/seedhunt/internal/candidate"
	"github.com/danmuck/seedhunt/internal/observability"
	"github.com/danmuck/seedhunt/internal/verify"
	"github.com/rs/zerolog"
)

// Outcome is a worker's terminal state.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeExhausted
	OutcomeMatched
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeMatched:
		return "matched"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// WorkerResult is what a worker reports when it stops.
type WorkerResult struct {
	ID      int
	Outcome Outcome
	Phrase  string
	Missing []string
	Tried   uint64
}

// Verifier is the per-candidate check a worker drives.
type Verifier interface {
	Verify(phrase string) (bool, error)
}

var _ Verifier = (*verify.Verifier)(nil)

// Worker searches one partition of the outer digit.
type Worker struct {
	ID    int
	Range Range

	odo      *candidate.Odometer
	asm      *candidate.Assembler
	verifier Verifier
	progress chan<- uint64
	every    uint64
	log      zerolog.Logger

	pending   uint64
	nextFlush uint64
}

// WorkerConfig wires a worker to its partition and collaborators.
type WorkerConfig struct {
	ID          int
	Range       Range
	Width       int
	Radix       int
	Assembler   *candidate.Assembler
	Verifier    Verifier
	Progress    chan<- uint64
	ReportEvery uint64
	Logger      zerolog.Logger
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	odo, err := candidate.NewOdometer(cfg.Width, cfg.Radix, cfg.Range.Start, cfg.Range.End)
	if err != nil {
		return nil, fmt.Errorf("search: worker %d: %w", cfg.ID, err)
	}
	every := cfg.ReportEvery
	if every == 0 {
		every = 1
	}
	return &Worker{
		ID:        cfg.ID,
		Range:     cfg.Range,
		odo:       odo,
		asm:       cfg.Assembler,
		verifier:  cfg.Verifier,
		progress:  cfg.Progress,
		every:     every,
		nextFlush: every,
		log:       cfg.Logger.With().Int("worker", cfg.ID).Str("range", cfg.Range.String()).Logger(),
	}, nil
}

// Run drives generate -> assemble -> verify until the partition is
// exhausted, a match is found, or ctx is cancelled. A verifier error is
// returned as-is and stops the worker.
func (w *Worker) Run(ctx context.Context) (WorkerResult, error) {
	res := WorkerResult{ID: w.ID, Outcome: OutcomeRunning}
	observability.WorkerStarted()
	defer func() {
		w.flush(ctx)
		observability.WorkerStopped(res.Outcome.String())
	}()

	w.log.Debug().Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			res.Outcome = OutcomeCancelled
			w.log.Debug().Uint64("tried", res.Tried).Msg("worker cancelled")
			return res, nil
		default:
		}

		if !w.odo.Next() {
			res.Outcome = OutcomeExhausted
			w.log.Info().Uint64("tried", res.Tried).Msg("worker partition exhausted")
			return res, nil
		}

		phrase := w.asm.Phrase(w.odo.Position())
		matched, err := w.verifier.Verify(phrase)
		res.Tried++
		w.pending++
		if err != nil {
			return res, fmt.Errorf("search: worker %d: %w", w.ID, err)
		}
		if matched {
			res.Outcome = OutcomeMatched
			res.Phrase = phrase
			res.Missing = w.asm.Missing(phrase, w.odo.Width())
			w.log.Info().Str("phrase", phrase).Msg("got mnemonic")
			return res, nil
		}
		if w.pending >= w.nextFlush {
			w.report()
		}
	}
}

// report sends the pending count without blocking. A full channel keeps the
// count pending and pushes the next attempt out by one interval.
func (w *Worker) report() {
	if w.progress == nil {
		w.pending = 0
		return
	}
	select {
	case w.progress <- w.pending:
		w.pending = 0
		w.nextFlush = w.every
	default:
		w.nextFlush = w.pending + w.every
		w.log.Debug().Uint64("pending", w.pending).Msg("progress channel full")
	}
}

// flush hands off the remaining count on exit. It waits for room in the
// channel unless ctx is already done.
func (w *Worker) flush(ctx context.Context) {
	if w.pending == 0 || w.progress == nil {
		w.pending = 0
		return
	}
	select {
	case w.progress <- w.pending:
		w.pending = 0
	case <-ctx.Done():
		w.log.Debug().Uint64("pending", w.pending).Msg("dropped final progress")
	}
}

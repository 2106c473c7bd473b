package search

import (
	"context"
	"errors"
	"testing"

	"github.com/danmuck/seedhunt/internal/candidate"
	"github.com/danmuck/seedhunt/internal/testutil/testlog"
	"github.com/danmuck/seedhunt/internal/wordlist"
	"github.com/rs/zerolog"
)

type verifierFunc func(phrase string) (bool, error)

func (f verifierFunc) Verify(phrase string) (bool, error) {
	return f(phrase)
}

func newTestWorker(t *testing.T, r Range, width int, v Verifier, progress chan<- uint64, every uint64) *Worker {
	t.Helper()
	w, err := NewWorker(WorkerConfig{
		ID:          1,
		Range:       r,
		Width:       width,
		Radix:       wordlist.Size,
		Assembler:   candidate.NewAssembler([]string{"known"}, false, wordlist.English()),
		Verifier:    v,
		Progress:    progress,
		ReportEvery: every,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	return w
}

func TestWorkerExhaustsPartition(t *testing.T) {
	testlog.Start(t)

	var seen []string
	v := verifierFunc(func(phrase string) (bool, error) {
		seen = append(seen, phrase)
		return false, nil
	})
	progress := make(chan uint64, 16)
	w := newTestWorker(t, Range{Start: 10, End: 14}, 1, v, progress, 3)

	res, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Outcome != OutcomeExhausted {
		t.Fatalf("unexpected outcome: %s", res.Outcome)
	}
	if res.Tried != 4 || len(seen) != 4 {
		t.Fatalf("unexpected tried=%d seen=%d", res.Tried, len(seen))
	}
	words := wordlist.English()
	if seen[0] != "known "+words.Word(10) || seen[3] != "known "+words.Word(13) {
		t.Fatalf("unexpected candidates: %v", seen)
	}

	close(progress)
	var reported uint64
	for n := range progress {
		reported += n
	}
	if reported != 4 {
		t.Fatalf("unexpected reported total: %d", reported)
	}
}

func TestWorkerStopsOnMatch(t *testing.T) {
	testlog.Start(t)

	words := wordlist.English()
	target := "known " + words.Word(20) + " " + words.Word(7)
	v := verifierFunc(func(phrase string) (bool, error) {
		return phrase == target, nil
	})
	w := newTestWorker(t, Range{Start: 20, End: 21}, 2, v, nil, 100)

	res, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Outcome != OutcomeMatched || res.Phrase != target {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Missing) != 2 || res.Missing[0] != words.Word(20) || res.Missing[1] != words.Word(7) {
		t.Fatalf("unexpected missing words: %v", res.Missing)
	}
	if res.Tried != 8 {
		t.Fatalf("unexpected tried: %d", res.Tried)
	}
}

func TestWorkerObservesCancellation(t *testing.T) {
	testlog.Start(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	v := verifierFunc(func(string) (bool, error) {
		calls++
		if calls == 5 {
			cancel()
		}
		return false, nil
	})
	w := newTestWorker(t, Range{Start: 0, End: wordlist.Size}, 2, v, nil, 100)

	res, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("unexpected outcome: %s", res.Outcome)
	}
	if res.Tried != 5 {
		t.Fatalf("expected exit on the iteration after cancel, tried=%d", res.Tried)
	}
}

func TestWorkerReturnsVerifierError(t *testing.T) {
	testlog.Start(t)

	boom := errors.New("boom")
	v := verifierFunc(func(string) (bool, error) {
		return false, boom
	})
	w := newTestWorker(t, Range{Start: 0, End: 1}, 1, v, nil, 1)

	if _, err := w.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected verifier error, got %v", err)
	}
}

func TestWorkerKeepsCountWhenProgressChannelFull(t *testing.T) {
	testlog.Start(t)

	lastCall := make(chan struct{})
	calls := 0
	v := verifierFunc(func(string) (bool, error) {
		calls++
		if calls == 10 {
			close(lastCall)
		}
		return false, nil
	})
	progress := make(chan uint64, 1)
	w := newTestWorker(t, Range{Start: 0, End: 10}, 1, v, progress, 2)

	type outcome struct {
		res WorkerResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := w.Run(context.Background())
		done <- outcome{res, err}
	}()

	<-lastCall
	if got := <-progress; got != 2 {
		t.Fatalf("unexpected first report: %d", got)
	}
	// Reports at 4, 6 and 8 hit a full channel; their counts stay pending.
	if got := <-progress; got != 8 {
		t.Fatalf("expected carried-over count 8, got %d", got)
	}

	out := <-done
	if out.err != nil {
		t.Fatalf("run: %v", out.err)
	}
	if out.res.Outcome != OutcomeExhausted || out.res.Tried != 10 {
		t.Fatalf("unexpected result: %+v", out.res)
	}
	if w.pending != 0 {
		t.Fatalf("expected nothing pending after flush, got %d", w.pending)
	}
}

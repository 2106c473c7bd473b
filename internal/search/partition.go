package search

import (
	"errors"
	"fmt"
)

var ErrInvalidWorkers = errors.New("search: invalid worker count")

// Range is a half-open interval [Start, End) over the outer digit.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Contains(d int) bool {
	return d >= r.Start && d < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Partition splits [0, base) into contiguous, disjoint ranges, one per
// worker. Worker counts above base are clamped so every range is non-empty.
// The first base%workers ranges are one wider than the rest.
func Partition(workers, base int) ([]Range, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if base < 1 {
		return nil, fmt.Errorf("search: invalid partition base %d", base)
	}
	if workers > base {
		workers = base
	}
	size, extra := base/workers, base%workers
	out := make([]Range, workers)
	start := 0
	for i := range out {
		end := start + size
		if i < extra {
			end++
		}
		out[i] = Range{Start: start, End: end}
		start = end
	}
	out[workers-1].End = base
	return out, nil
}

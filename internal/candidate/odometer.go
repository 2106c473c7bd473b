package candidate

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/danmuck/seedhunt/internal/wordlist"
)

var ErrInvalidOdometer = errors.New("candidate: invalid odometer")

// Odometer enumerates digit vectors in mixed-radix order.
//
// Digit 0 is the most-significant (outer) digit; the last digit is the
// least-significant and moves on every step. The odometer stops once the
// outer digit reaches end.
type Odometer struct {
	digits  []int
	radix   int
	end     int
	started bool
}

// NewOdometer starts at [start, 0, ..., 0] and stops when the outer digit reaches end.
func NewOdometer(width, radix, start, end int) (*Odometer, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: width=%d", ErrInvalidOdometer, width)
	}
	pos := make([]int, width)
	pos[0] = start
	return ResumeOdometer(pos, radix, end)
}

// ResumeOdometer restarts enumeration from an arbitrary digit vector.
func ResumeOdometer(pos []int, radix, end int) (*Odometer, error) {
	if len(pos) < 1 {
		return nil, fmt.Errorf("%w: empty position", ErrInvalidOdometer)
	}
	if radix < 2 {
		return nil, fmt.Errorf("%w: radix=%d", ErrInvalidOdometer, radix)
	}
	if end < 0 || end > radix {
		return nil, fmt.Errorf("%w: end=%d radix=%d", ErrInvalidOdometer, end, radix)
	}
	for i, d := range pos {
		if d < 0 || d >= radix {
			return nil, fmt.Errorf("%w: digit[%d]=%d radix=%d", ErrInvalidOdometer, i, d, radix)
		}
	}
	digits := make([]int, len(pos))
	copy(digits, pos)
	return &Odometer{digits: digits, radix: radix, end: end}, nil
}

// Next steps to the following vector. The first call yields the starting
// vector without stepping.
func (o *Odometer) Next() bool {
	if !o.started {
		o.started = true
		return o.digits[0] < o.end
	}
	if o.digits[0] >= o.end {
		return false
	}
	o.step()
	return o.digits[0] < o.end
}

// Position is the current vector. Callers must not retain or modify it.
func (o *Odometer) Position() []int {
	return o.digits
}

// Outer is the current most-significant digit.
func (o *Odometer) Outer() int {
	return o.digits[0]
}

func (o *Odometer) Width() int {
	return len(o.digits)
}

func (o *Odometer) step() {
	for i := len(o.digits) - 1; i >= 0; i-- {
		o.digits[i]++
		if o.digits[i] < o.radix || i == 0 {
			return
		}
		o.digits[i] = 0
	}
}

// Render writes the words for pos into dst, separated by single spaces.
func Render(dst *strings.Builder, pos []int, words wordlist.List) {
	for i, idx := range pos {
		if i > 0 {
			dst.WriteByte(' ')
		}
		dst.WriteString(words.Word(idx))
	}
}

// RenderString is Render into a fresh string.
func RenderString(pos []int, words wordlist.List) string {
	var b strings.Builder
	Render(&b, pos, words)
	return b.String()
}

// SpaceSize is radix^width.
func SpaceSize(width, radix int) *big.Int {
	return new(big.Int).Exp(big.NewInt(int64(radix)), big.NewInt(int64(width)), nil)
}

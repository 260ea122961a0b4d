package repertoire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/discochess/repertoire/internal/match"
	"github.com/discochess/repertoire/internal/search"
)

// Result is the outcome of WinningStatistics.
//
// The zero Result (no moves, probability 0, sample size 0) means no line
// both met the minimum sample size and won a game for White. It does not
// mean no moves were legal.
type Result struct {
	// Moves is the best line from the start of the game.
	Moves []string

	// WhiteWins is the number of games along Moves won by White.
	WhiteWins int

	// SampleSize is the number of games that followed Moves.
	SampleSize int

	// Qualified is false only for the zero Result.
	Qualified bool
}

// Probability returns White's win rate along Moves, or 0 when no games
// followed them.
func (r Result) Probability() float64 {
	if r.SampleSize == 0 {
		return 0
	}
	return float64(r.WhiteWins) / float64(r.SampleSize)
}

// Interval returns the Wilson score interval of Probability at the given
// two-sided confidence level, such as 0.95.
func (r Result) Interval(confidence float64) (lo, hi float64) {
	return match.WilsonInterval(r.WhiteWins, r.SampleSize, confidence)
}

// Movetext formats Moves with move numbers, e.g. "1. e4 e5 2. Nf3".
func (r Result) Movetext() string {
	var b strings.Builder
	for i, m := range r.Moves {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i%2 == 0 {
			b.WriteString(strconv.Itoa(i/2 + 1))
			b.WriteString(". ")
		}
		b.WriteString(m)
	}
	return b.String()
}

// String returns a one-line summary such as "1. e4 e5: 2/3 (66.7%)".
func (r Result) String() string {
	if !r.Qualified {
		return "no qualifying line"
	}
	line := r.Movetext()
	if line == "" {
		line = "(start)"
	}
	return fmt.Sprintf("%s: %d/%d (%.1f%%)", line, r.WhiteWins, r.SampleSize, r.Probability()*100)
}

// resultFromSearch converts an internal search.Result to a public Result.
func resultFromSearch(r search.Result) Result {
	return Result{
		Moves:      r.Moves,
		WhiteWins:  r.WhiteWins,
		SampleSize: r.SampleSize,
		Qualified:  r.Qualified,
	}
}

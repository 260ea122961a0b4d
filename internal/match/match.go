// Package match filters a corpus by move prefix and tallies game outcomes.
package match

import "github.com/discochess/repertoire/internal/record"

// Tally counts game outcomes from White's point of view.
type Tally struct {
	WhiteWins int
	BlackWins int
	Draws     int
}

// Total returns the number of games counted.
func (t Tally) Total() int {
	return t.WhiteWins + t.BlackWins + t.Draws
}

// WhiteWinRate returns WhiteWins/Total, or 0 for an empty tally.
func (t Tally) WhiteWinRate() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.WhiteWins) / float64(total)
}

// Follows reports whether game g opened with moves. Only the first
// record.MaxPlies moves are compared.
func Follows(g *record.Game, moves []string) bool {
	for i, m := range moves {
		ply := i + 1
		if ply > record.MaxPlies {
			break
		}
		if g.Move(ply) != m {
			return false
		}
	}
	return true
}

// GamesFollowing returns the games of corpus that opened with moves,
// in corpus order.
func GamesFollowing(corpus record.Corpus, moves []string) []*record.Game {
	var out []*record.Game
	for i := range corpus {
		if Follows(&corpus[i], moves) {
			out = append(out, &corpus[i])
		}
	}
	return out
}

// Partition groups games by their move at ply, preserving order within
// each group. For a set of games following a prefix of length ply-1, the
// group for move m is the set following prefix+[m]. Plies beyond
// record.MaxPlies all report record.Sentinel; use Narrow there.
func Partition(games []*record.Game, ply int) map[string][]*record.Game {
	groups := make(map[string][]*record.Game)
	for _, g := range games {
		m := g.Move(ply)
		groups[m] = append(groups[m], g)
	}
	return groups
}

// Narrow returns the subset of games whose move at ply equals move.
// Plies beyond record.MaxPlies are not compared and keep every game.
func Narrow(games []*record.Game, ply int, move string) []*record.Game {
	if ply > record.MaxPlies {
		return games
	}
	var out []*record.Game
	for _, g := range games {
		if g.Move(ply) == move {
			out = append(out, g)
		}
	}
	return out
}

// All returns pointers to every game of corpus.
func All(corpus record.Corpus) []*record.Game {
	out := make([]*record.Game, len(corpus))
	for i := range corpus {
		out[i] = &corpus[i]
	}
	return out
}

// OutcomeTally classifies each game by its Result tag. Anything other
// than a decisive "1-0" or "0-1", including unknown or unfinished
// results, counts as a draw.
func OutcomeTally(games []*record.Game) Tally {
	var t Tally
	for _, g := range games {
		switch g.Result {
		case record.ResultWhiteWins:
			t.WhiteWins++
		case record.ResultBlackWins:
			t.BlackWins++
		default:
			t.Draws++
		}
	}
	return t
}

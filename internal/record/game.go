// Package record defines the fixed-shape per-game record produced by the
// PGN parser and read by the matcher and search engine.
package record

import "strconv"

const (
	// Sentinel marks a tag or move slot that was absent from the input.
	Sentinel = "-"

	// MaxMoveNumber is the last full-move number captured from a move block.
	MaxMoveNumber = 20

	// MaxPlies is the number of move slots in a Game.
	MaxPlies = 2 * MaxMoveNumber
)

// Tag keys recognised by the parser. Keys are matched case-insensitively.
const (
	TagEvent    = "event"
	TagWhite    = "white"
	TagBlack    = "black"
	TagResult   = "result"
	TagWhiteElo = "whiteelo"
	TagBlackElo = "blackelo"
	TagOpening  = "opening"
)

// Result tag values with a decisive meaning.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
)

// Game is one parsed game. The zero value is not useful; use New.
type Game struct {
	Event    string
	White    string
	Black    string
	Result   string
	WhiteElo string
	BlackElo string
	Opening  string

	// moves[p-1] holds the move token for ply p.
	moves [MaxPlies]string
}

// New returns a Game with every tag and move slot set to Sentinel.
func New() Game {
	g := Game{
		Event:    Sentinel,
		White:    Sentinel,
		Black:    Sentinel,
		Result:   Sentinel,
		WhiteElo: Sentinel,
		BlackElo: Sentinel,
		Opening:  Sentinel,
	}
	for i := range g.moves {
		g.moves[i] = Sentinel
	}
	return g
}

// Move returns the token recorded for ply (1..MaxPlies).
// Plies outside that range report Sentinel.
func (g *Game) Move(ply int) string {
	if ply < 1 || ply > MaxPlies {
		return Sentinel
	}
	return g.moves[ply-1]
}

// SetMove records the token for ply. It reports false if ply is out of range.
func (g *Game) SetMove(ply int, move string) bool {
	if ply < 1 || ply > MaxPlies {
		return false
	}
	g.moves[ply-1] = move
	return true
}

// Moves returns the recorded tokens up to the first unset slot.
func (g *Game) Moves() []string {
	var out []string
	for _, m := range g.moves {
		if m == Sentinel {
			break
		}
		out = append(out, m)
	}
	return out
}

// Tag returns the value of a recognised tag key and whether the key is known.
func (g *Game) Tag(key string) (string, bool) {
	p := g.tagField(key)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetTag sets a recognised tag. Unknown keys are ignored and report false.
func (g *Game) SetTag(key, value string) bool {
	p := g.tagField(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (g *Game) tagField(key string) *string {
	switch key {
	case TagEvent:
		return &g.Event
	case TagWhite:
		return &g.White
	case TagBlack:
		return &g.Black
	case TagResult:
		return &g.Result
	case TagWhiteElo:
		return &g.WhiteElo
	case TagBlackElo:
		return &g.BlackElo
	case TagOpening:
		return &g.Opening
	}
	return nil
}

// SlotName returns the addressing name of a ply: w1..w20 for White's
// (odd) plies and b1..b20 for Black's (even) plies.
func SlotName(ply int) string {
	if ply%2 == 1 {
		return "w" + strconv.Itoa((ply+1)/2)
	}
	return "b" + strconv.Itoa(ply/2)
}

// Corpus is an ordered, read-only collection of games.
type Corpus []Game

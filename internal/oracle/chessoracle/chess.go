// Package chessoracle implements oracle.Oracle with github.com/notnil/chess.
//
// Moves are exchanged in Standard Algebraic Notation, the notation used by
// PGN move blocks, so oracle output can be compared directly with parsed
// move slots.
package chessoracle

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/discochess/repertoire/internal/oracle"
)

// Compile-time check that Oracle implements oracle.Oracle.
var _ oracle.Oracle = (*Oracle)(nil)

// IllegalMoveError reports the first move of a history that could not be
// played. It unwraps to oracle.ErrIllegalMove.
type IllegalMoveError struct {
	Ply  int
	Move string
	Err  error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("ply %d: %s %q: %v", e.Ply, oracle.ErrIllegalMove, e.Move, e.Err)
}

func (e *IllegalMoveError) Unwrap() error { return oracle.ErrIllegalMove }

// Oracle replays histories with notnil/chess.
type Oracle struct {
	startFEN string
	notation chess.Notation
}

// Option configures an Oracle.
type Option func(*Oracle) error

// WithStartFEN replays histories from the given position instead of the
// standard initial position.
func WithStartFEN(fen string) Option {
	return func(o *Oracle) error {
		if _, err := chess.FEN(fen); err != nil {
			return fmt.Errorf("parsing start FEN: %w", err)
		}
		o.startFEN = fen
		return nil
	}
}

// WithUCI exchanges moves in UCI notation (e2e4) instead of SAN.
func WithUCI() Option {
	return func(o *Oracle) error {
		o.notation = chess.UCINotation{}
		return nil
	}
}

// New creates a chess oracle.
func New(opts ...Option) (*Oracle, error) {
	o := &Oracle{notation: chess.AlgebraicNotation{}}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MovesFrom returns the legal moves after history, encoded in the oracle's
// notation, in move-generator order.
func (o *Oracle) MovesFrom(history []string) ([]string, error) {
	pos, err := o.start()
	if err != nil {
		return nil, err
	}

	for i, s := range history {
		mv, err := o.notation.Decode(pos, s)
		if err != nil {
			return nil, &IllegalMoveError{Ply: i + 1, Move: s, Err: err}
		}
		pos = pos.Update(mv)
	}

	valid := pos.ValidMoves()
	moves := make([]string, len(valid))
	for i, mv := range valid {
		moves[i] = o.notation.Encode(pos, mv)
	}
	return moves, nil
}

// start returns a fresh copy of the starting position. Positions cache
// their move lists internally, so they are never shared between calls.
func (o *Oracle) start() (*chess.Position, error) {
	if o.startFEN == "" {
		return chess.StartingPosition(), nil
	}
	fenOpt, err := chess.FEN(o.startFEN)
	if err != nil {
		return nil, err
	}
	return chess.NewGame(fenOpt).Position(), nil
}

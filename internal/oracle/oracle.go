// Package oracle defines the legal-move generator boundary used by the
// position counter and the search engine.
package oracle

import "errors"

// ErrIllegalMove indicates a history that cannot be replayed from the
// starting position.
var ErrIllegalMove = errors.New("oracle: illegal move in history")

// Oracle enumerates legal continuations.
//
// MovesFrom returns the legal moves from the position reached by replaying
// history from the starting position. Implementations must be pure and
// deterministic: the same history always yields the same moves in the same
// order, and calls may run concurrently. The returned slice must not be
// retained or modified by the caller across calls.
type Oracle interface {
	MovesFrom(history []string) ([]string, error)
}

// Func adapts an ordinary function to the Oracle interface.
type Func func(history []string) ([]string, error)

// Compile-time check that Func implements Oracle.
var _ Oracle = Func(nil)

// MovesFrom calls f(history).
func (f Func) MovesFrom(history []string) ([]string, error) {
	return f(history)
}

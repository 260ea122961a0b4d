// Package staticoracle provides in-memory oracles for testing.
package staticoracle

import (
	"strconv"
	"strings"
	"sync"

	"github.com/discochess/repertoire/internal/oracle"
)

// Compile-time check that Tree implements oracle.Oracle.
var _ oracle.Oracle = (*Tree)(nil)

// Tree is an oracle backed by an explicit move tree. Children are reported
// in the order they were first added.
type Tree struct {
	mu       sync.RWMutex
	children map[string][]string
	errs     map[string]error
}

// New creates an empty tree. The root has no moves until lines are added.
func New() *Tree {
	return &Tree{
		children: map[string][]string{"": nil},
		errs:     make(map[string]error),
	}
}

// AddLine registers every prefix of line as a reachable history.
func (t *Tree) AddLine(line ...string) *Tree {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, m := range line {
		parent := key(line[:i])
		if !contains(t.children[parent], m) {
			t.children[parent] = append(t.children[parent], m)
		}
		child := key(line[:i+1])
		if _, ok := t.children[child]; !ok {
			t.children[child] = nil
		}
	}
	return t
}

// SetError makes MovesFrom(history) fail with err.
func (t *Tree) SetError(err error, history ...string) *Tree {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs[key(history)] = err
	return t
}

// MovesFrom returns the children of history. Histories that were never
// added report oracle.ErrIllegalMove.
func (t *Tree) MovesFrom(history []string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	k := key(history)
	if err, ok := t.errs[k]; ok {
		return nil, err
	}
	moves, ok := t.children[k]
	if !ok {
		return nil, oracle.ErrIllegalMove
	}
	return append([]string(nil), moves...), nil
}

// Constant returns an oracle with the same branching factor at every
// position. Moves are named by their depth and index ("d1m0", "d1m1", ...),
// so sibling subtrees have distinct but predictable tokens.
func Constant(branching int) oracle.Oracle {
	return oracle.Func(func(history []string) ([]string, error) {
		prefix := "d" + strconv.Itoa(len(history)+1) + "m"
		moves := make([]string, branching)
		for i := range moves {
			moves[i] = prefix + strconv.Itoa(i)
		}
		return moves, nil
	})
}

func key(history []string) string {
	return strings.Join(history, " ")
}

func contains(moves []string, m string) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}

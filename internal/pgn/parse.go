// Package pgn implements a lenient reader for game-record text.
//
// The input is a sequence of blocks separated by blank lines. Blocks are
// consumed in pairs: a tag block of [Key "Value"] lines followed by a move
// block of whitespace-separated tokens. The reader is deliberately forgiving:
// unknown tags are ignored and missing tags or moves are left as
// record.Sentinel. Only structural damage is reported as an error.
package pgn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/discochess/repertoire/internal/record"
)

var (
	// ErrMalformedBlockPairing indicates the text does not split into
	// complete (tag block, move block) pairs.
	ErrMalformedBlockPairing = errors.New("pgn: unpaired block")

	// ErrMalformedTagLine indicates a tag line with no value after its key.
	ErrMalformedTagLine = errors.New("pgn: malformed tag line")
)

// ParseError describes where parsing failed. It unwraps to one of the
// package sentinel errors.
type ParseError struct {
	// Game is the 1-based index of the game being parsed.
	Game int
	// Line is the offending input, if any.
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Line != "" {
		msg += fmt.Sprintf(": %q", e.Line)
	}
	if e.Game > 0 {
		msg = fmt.Sprintf("game %d: %s", e.Game, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseCorpus parses every game in text.
// Text containing no blocks yields an empty corpus.
func ParseCorpus(text string) (record.Corpus, error) {
	blocks := splitBlocks(text)
	if len(blocks)%2 != 0 {
		return nil, &ParseError{Game: len(blocks)/2 + 1, Err: ErrMalformedBlockPairing}
	}

	corpus := make(record.Corpus, 0, len(blocks)/2)
	for i := 0; i+1 < len(blocks); i += 2 {
		g, err := ParseGame(blocks[i], blocks[i+1])
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Game = i/2 + 1
			}
			return nil, err
		}
		corpus = append(corpus, g)
	}
	return corpus, nil
}

// ParseGame builds one game from its tag block and move block.
//
// A token captured after a move-number marker is discarded when it equals
// the game's Result tag. This keeps a trailing "1-0" out of the move slots
// of short games, at the cost of also discarding a real move that happens
// to be spelled the same as the result.
func ParseGame(tagBlock, moveBlock string) (record.Game, error) {
	g := record.New()

	for _, line := range strings.Split(tagBlock, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, err := parseTagLine(line)
		if err != nil {
			return record.Game{}, &ParseError{Line: line, Err: err}
		}
		g.SetTag(strings.ToLower(key), value)
	}

	parseMoves(&g, strings.Fields(moveBlock))
	return g, nil
}

// parseTagLine strips the surrounding brackets and all quotes from a tag
// line and splits it at the first space.
func parseTagLine(line string) (key, value string, err error) {
	line = strings.Trim(line, "[]")
	line = strings.ReplaceAll(line, `"`, "")
	key, value, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", ErrMalformedTagLine
	}
	return key, value, nil
}

func parseMoves(g *record.Game, tokens []string) {
	moveNumber := 1
	marker := "1."
	for i, tok := range tokens {
		if moveNumber > record.MaxMoveNumber {
			return
		}
		if tok != marker {
			continue
		}
		white := 2*moveNumber - 1
		if t := tokenAt(tokens, i+1); t != "" && t != g.Result {
			g.SetMove(white, t)
		}
		if t := tokenAt(tokens, i+2); t != "" && t != g.Result {
			g.SetMove(white+1, t)
		}
		moveNumber++
		marker = strconv.Itoa(moveNumber) + "."
	}
}

func tokenAt(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

// splitBlocks splits text into blocks of consecutive non-blank lines.
// Runs of blank lines count as a single separator.
func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

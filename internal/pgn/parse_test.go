package pgn

import (
	"errors"
	"reflect"
	"testing"

	"github.com/discochess/repertoire/internal/record"
)

const twoGames = `[Event "Rated Blitz game"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[WhiteElo "1850"]
[BlackElo "1790"]
[Opening "King's Pawn Game"]
[Site "https://lichess.org/abc"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0

[Event "Casual"]
[Result "0-1"]

1. d4 d5 2. c4 0-1
`

func TestParseCorpus(t *testing.T) {
	corpus, err := ParseCorpus(twoGames)
	if err != nil {
		t.Fatalf("ParseCorpus() error = %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("len(corpus) = %d, want 2", len(corpus))
	}

	g := corpus[0]
	if g.Event != "Rated Blitz game" {
		t.Errorf("Event = %q, want %q", g.Event, "Rated Blitz game")
	}
	if g.Opening != "King's Pawn Game" {
		t.Errorf("Opening = %q, want %q", g.Opening, "King's Pawn Game")
	}
	if g.WhiteElo != "1850" || g.BlackElo != "1790" {
		t.Errorf("Elo = %q/%q, want 1850/1790", g.WhiteElo, g.BlackElo)
	}
	if got, want := g.Moves(), []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Moves() = %v, want %v", got, want)
	}

	g = corpus[1]
	if g.White != record.Sentinel {
		t.Errorf("White = %q, want sentinel", g.White)
	}
	// The trailing result after 2. c4 is not captured as Black's move.
	if got, want := g.Moves(), []string{"d4", "d5", "c4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Moves() = %v, want %v", got, want)
	}
	if got := g.Move(4); got != record.Sentinel {
		t.Errorf("Move(4) = %q, want sentinel", got)
	}
}

func TestParseCorpus_Idempotent(t *testing.T) {
	a, err := ParseCorpus(twoGames)
	if err != nil {
		t.Fatalf("ParseCorpus() error = %v", err)
	}
	b, err := ParseCorpus(twoGames)
	if err != nil {
		t.Fatalf("ParseCorpus() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("ParseCorpus() is not idempotent")
	}
}

func TestParseCorpus_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "  \n\t\n"} {
		corpus, err := ParseCorpus(text)
		if err != nil {
			t.Fatalf("ParseCorpus(%q) error = %v", text, err)
		}
		if len(corpus) != 0 {
			t.Errorf("ParseCorpus(%q) returned %d games, want 0", text, len(corpus))
		}
	}
}

func TestParseCorpus_UnpairedBlock(t *testing.T) {
	text := twoGames + "\n[Event \"dangling\"]\n"
	_, err := ParseCorpus(text)
	if !errors.Is(err, ErrMalformedBlockPairing) {
		t.Fatalf("ParseCorpus() error = %v, want ErrMalformedBlockPairing", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseCorpus() error type = %T, want *ParseError", err)
	}
	if pe.Game != 3 {
		t.Errorf("ParseError.Game = %d, want 3", pe.Game)
	}
}

func TestParseCorpus_MalformedTagLine(t *testing.T) {
	text := "[Event \"ok\"]\n[Broken]\n\n1. e4 e5\n"
	_, err := ParseCorpus(text)
	if !errors.Is(err, ErrMalformedTagLine) {
		t.Fatalf("ParseCorpus() error = %v, want ErrMalformedTagLine", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseCorpus() error type = %T, want *ParseError", err)
	}
	if pe.Game != 1 || pe.Line != "[Broken]" {
		t.Errorf("ParseError = %+v, want game 1 line [Broken]", pe)
	}
}

func TestParseCorpus_MultipleBlankLines(t *testing.T) {
	text := "[Result \"1-0\"]\n\n\n\n1. e4 1-0\r\n\r\n[Result \"*\"]\n\n1. d4 d5\n"
	corpus, err := ParseCorpus(text)
	if err != nil {
		t.Fatalf("ParseCorpus() error = %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("len(corpus) = %d, want 2", len(corpus))
	}
	if got := corpus[0].Move(1); got != "e4" {
		t.Errorf("Move(1) = %q, want e4", got)
	}
	if got := corpus[1].Result; got != "*" {
		t.Errorf("Result = %q, want *", got)
	}
}

func TestParseGame_Tags(t *testing.T) {
	tests := []struct {
		name     string
		tagBlock string
		check    func(record.Game) bool
	}{
		{
			name:     "case folded key",
			tagBlock: `[WHITE "carol"]`,
			check:    func(g record.Game) bool { return g.White == "carol" },
		},
		{
			name:     "last occurrence wins",
			tagBlock: "[Result \"1-0\"]\n[Result \"0-1\"]",
			check:    func(g record.Game) bool { return g.Result == "0-1" },
		},
		{
			name:     "unknown key ignored",
			tagBlock: `[TimeControl "180+0"]`,
			check:    func(g record.Game) bool { return g.Event == record.Sentinel },
		},
		{
			name:     "value keeps inner spaces",
			tagBlock: `[Opening "Sicilian Defense: Najdorf Variation"]`,
			check:    func(g record.Game) bool { return g.Opening == "Sicilian Defense: Najdorf Variation" },
		},
		{
			name:     "empty quoted value",
			tagBlock: `[Event ""]`,
			check:    func(g record.Game) bool { return g.Event == "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGame(tt.tagBlock, "")
			if err != nil {
				t.Fatalf("ParseGame() error = %v", err)
			}
			if !tt.check(g) {
				t.Errorf("ParseGame() = %+v", g)
			}
		})
	}
}

func TestParseGame_Moves(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		moveBlock string
		want      []string
	}{
		{
			name:      "full pairs",
			result:    "1/2-1/2",
			moveBlock: "1. e4 c5 2. Nf3 d6 1/2-1/2",
			want:      []string{"e4", "c5", "Nf3", "d6"},
		},
		{
			name:      "white wins on move",
			result:    "1-0",
			moveBlock: "1. f3 e5 2. g4 Qh4# 3. 1-0",
			want:      []string{"f3", "e5", "g4", "Qh4#"},
		},
		{
			name:      "move block wrapped over lines",
			result:    "*",
			moveBlock: "1. e4 e5\n2. Nf3\tNc6",
			want:      []string{"e4", "e5", "Nf3", "Nc6"},
		},
		{
			name:      "out of order numbers are skipped",
			result:    "*",
			moveBlock: "2. d4 d5 1. e4 e5",
			want:      []string{"e4", "e5"},
		},
		{
			name:      "missing first marker captures nothing",
			result:    "*",
			moveBlock: "e4 e5 2. Nf3 Nc6",
			want:      nil,
		},
		{
			name:      "truncated after marker",
			result:    "*",
			moveBlock: "1. e4",
			want:      []string{"e4"},
		},
		{
			name:      "annotations are skipped",
			result:    "*",
			moveBlock: "1. e4 e5 {good} 2. Nf3 Nc6",
			want:      []string{"e4", "e5", "Nf3", "Nc6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGame(`[Result "`+tt.result+`"]`, tt.moveBlock)
			if err != nil {
				t.Fatalf("ParseGame() error = %v", err)
			}
			if got := g.Moves(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Moves() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A move spelled exactly like the result tag is dropped as well. This is a
// known limitation of the trailing-result rule.
func TestParseGame_ResultLookalikeDropped(t *testing.T) {
	g, err := ParseGame(`[Result "e5"]`, "1. e4 e5 2. Nf3 Nc6")
	if err != nil {
		t.Fatalf("ParseGame() error = %v", err)
	}
	if got := g.Move(2); got != record.Sentinel {
		t.Errorf("Move(2) = %q, want sentinel", got)
	}
	if got := g.Move(3); got != "Nf3" {
		t.Errorf("Move(3) = %q, want Nf3", got)
	}
}

func TestParseGame_MoveCap(t *testing.T) {
	var block string
	for n := 1; n <= 25; n++ {
		block += itoa(n) + ". Nf3 Nf6 " + itoa(n) + ".5 "
	}
	g, err := ParseGame(`[Result "*"]`, block)
	if err != nil {
		t.Fatalf("ParseGame() error = %v", err)
	}
	if got := len(g.Moves()); got != record.MaxPlies {
		t.Errorf("len(Moves()) = %d, want %d", got, record.MaxPlies)
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Game: 2, Line: "[Oops]", Err: ErrMalformedTagLine}
	want := `game 2: pgn: malformed tag line: "[Oops]"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return itoa(n/10) + string(rune('0'+n%10))
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const corpusText = `[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 e5 2. Nf3 1-0

[White "carol"]
[Black "dave"]
[Result "0-1"]

1. e4 e5 0-1

[White "erin"]
[Black "frank"]
[Result "1-0"]

1. e4 c5 1-0
`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) string {
	t.Helper()

	// Flag variables persist between runs in one process.
	dataDir, verbose, parallelism, startFEN, showMetrics = "./data", false, 1, "", false
	countDepth, bestDepth, bestMinGames, bestJSON, followLimit, statsGames = 1, 1, 1, false, 20, false
	registry = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) error = %v\n%s", args, err, out.String())
	}
	return out.String()
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.pgn"), []byte(corpusText), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return dir
}

func TestCount(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"count"}, "20"},
		{[]string{"count", "--depth", "2"}, "400"},
		{[]string{"count", "e4", "e5"}, "29"},
		{[]string{"count", "--depth", "3", "--parallel", "4"}, "8902"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := strings.TrimSpace(execute(t, tt.args...)); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBest(t *testing.T) {
	dir := writeCorpus(t)

	out := execute(t, "best", "sample.pgn", "-d", dir, "--depth", "2", "--min-games", "2")
	if !strings.Contains(out, "Line:   1. e4 e5") || !strings.Contains(out, "1/2 White wins (50.0%)") {
		t.Errorf("output = %q", out)
	}
}

func TestBest_JSON(t *testing.T) {
	dir := writeCorpus(t)

	out := execute(t, "best", "sample.pgn", "-d", dir, "--depth", "1", "--min-games", "4", "--json")

	var got bestOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if got.Qualified || len(got.Moves) != 0 || got.SampleSize != 0 {
		t.Errorf("result = %+v, want the zero result", got)
	}
}

func TestFollow(t *testing.T) {
	dir := writeCorpus(t)

	out := execute(t, "follow", "sample.pgn", "e4", "e5", "-d", dir)
	if !strings.HasPrefix(out, "2 of 3 games: +1 -1 =0") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "alice") || !strings.Contains(out, "carol") || strings.Contains(out, "erin") {
		t.Errorf("output lists the wrong games: %q", out)
	}
}

func TestStats(t *testing.T) {
	dir := writeCorpus(t)

	out := execute(t, "stats", "-d", dir, "--games")
	if !strings.Contains(out, "Corpora:        1") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "sample.pgn") || !strings.Contains(out, "2/1/0") {
		t.Errorf("output missing tally: %q", out)
	}
}

func TestMetrics(t *testing.T) {
	out := execute(t, "count", "--depth", "2", "--metrics")
	if !strings.Contains(out, "repertoire_counts_total 1") {
		t.Errorf("output missing metrics: %q", out)
	}
}

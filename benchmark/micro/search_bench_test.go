package micro

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"testing"

	"github.com/discochess/repertoire"
)

// syntheticCorpus plays n random games of plies half-moves from the initial
// position using the client's legal moves and renders them as PGN.
func syntheticCorpus(b *testing.B, client *repertoire.Client, n, plies int) string {
	b.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	results := []string{"1-0", "0-1", "1/2-1/2"}

	var sb strings.Builder
	for g := 0; g < n; g++ {
		result := results[rng.IntN(len(results))]
		fmt.Fprintf(&sb, "[Event \"Synthetic %d\"]\n[Result \"%s\"]\n\n", g, result)

		var history []string
		for ply := 0; ply < plies; ply++ {
			moves, err := client.LegalMoves(history)
			if err != nil {
				b.Fatalf("LegalMoves() error = %v", err)
			}
			if len(moves) == 0 {
				break
			}
			// Favour the first few moves so prefixes are shared.
			m := moves[rng.IntN(min(len(moves), 3))]
			if ply%2 == 0 {
				fmt.Fprintf(&sb, "%d. ", ply/2+1)
			}
			sb.WriteString(m + " ")
			history = append(history, m)
		}
		sb.WriteString(result + "\n\n")
	}
	return sb.String()
}

func benchmarkClient(b *testing.B, opts ...repertoire.Option) *repertoire.Client {
	b.Helper()
	client, err := repertoire.New(opts...)
	if err != nil {
		b.Fatalf("creating client: %v", err)
	}
	b.Cleanup(func() { client.Close() })
	return client
}

// BenchmarkParseCorpus measures parsing of 1000 ten-ply games.
func BenchmarkParseCorpus(b *testing.B) {
	client := benchmarkClient(b)
	text := syntheticCorpus(b, client, 1000, 10)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.ParseCorpus(text); err != nil {
			b.Fatalf("ParseCorpus() error = %v", err)
		}
	}
}

// BenchmarkCountPositions measures perft(3) with and without the oracle
// cache and root parallelism.
func BenchmarkCountPositions(b *testing.B) {
	cases := []struct {
		name string
		opts []repertoire.Option
	}{
		{"uncached", []repertoire.Option{repertoire.WithOracleCacheSize(0)}},
		{"cached", nil},
		{"parallel", []repertoire.Option{repertoire.WithOracleCacheSize(0), repertoire.WithParallelism(8)}},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			client := benchmarkClient(b, tc.opts...)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := client.CountPositions(ctx, nil, 3); err != nil {
					b.Fatalf("CountPositions() error = %v", err)
				}
			}
		})
	}
}

// BenchmarkWinningStatistics measures a depth-3 search over a synthetic
// corpus.
func BenchmarkWinningStatistics(b *testing.B) {
	for _, parallelism := range []int{1, 8} {
		b.Run(fmt.Sprintf("parallel=%d", parallelism), func(b *testing.B) {
			client := benchmarkClient(b, repertoire.WithParallelism(parallelism))
			corpus, err := client.ParseCorpus(syntheticCorpus(b, client, 2000, 8))
			if err != nil {
				b.Fatalf("ParseCorpus() error = %v", err)
			}
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := client.WinningStatistics(ctx, corpus, 3, 5); err != nil {
					b.Fatalf("WinningStatistics() error = %v", err)
				}
			}
		})
	}
}

// BenchmarkWinningStatistics_RealCorpus searches a corpus from DATA_DIR.
// Set DATA_DIR and CORPUS (a file name inside it) to run.
func BenchmarkWinningStatistics_RealCorpus(b *testing.B) {
	dataDir, name := os.Getenv("DATA_DIR"), os.Getenv("CORPUS")
	if dataDir == "" || name == "" {
		b.Skip("DATA_DIR or CORPUS not set; skipping benchmark")
	}

	opt, err := repertoire.WithDataDir(dataDir)
	if err != nil {
		b.Fatalf("opening data directory: %v", err)
	}
	client := benchmarkClient(b, opt, repertoire.WithParallelism(8))
	ctx := context.Background()

	corpus, err := client.LoadCorpus(ctx, name)
	if err != nil {
		b.Fatalf("LoadCorpus() error = %v", err)
	}
	b.Logf("corpus %s: %d games", name, len(corpus))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.WinningStatistics(ctx, corpus, 2, 100); err != nil {
			b.Fatalf("WinningStatistics() error = %v", err)
		}
	}
}

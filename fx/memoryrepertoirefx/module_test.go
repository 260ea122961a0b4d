package memoryrepertoirefx

import (
	"context"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/store/memstore"
)

func TestModule(t *testing.T) {
	var (
		client *repertoire.Client
		store  *memstore.Store
	)
	app := fxtest.New(t,
		fx.Supply(zaptest.NewLogger(t)),
		Module,
		fx.Populate(&client, &store),
	)
	app.RequireStart()
	defer app.RequireStop()

	store.SetCorpus("a.pgn", []byte("[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1\n"))

	tally, err := func() (repertoire.Tally, error) {
		corpus, err := client.LoadCorpus(context.Background(), "a.pgn")
		if err != nil {
			return repertoire.Tally{}, err
		}
		return client.Tally(corpus, []string{"f3", "e5", "g4"}), nil
	}()
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if tally.BlackWins != 1 || tally.Total() != 1 {
		t.Errorf("Tally() = %+v, want one black win", tally)
	}
}

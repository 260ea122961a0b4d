package cachedoracle

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/oracle/staticoracle"
)

// countingOracle records how often it is consulted.
type countingOracle struct {
	next  oracle.Oracle
	calls atomic.Int64
}

func (c *countingOracle) MovesFrom(history []string) ([]string, error) {
	c.calls.Add(1)
	return c.next.MovesFrom(history)
}

func TestOracle_CacheHit(t *testing.T) {
	under := &countingOracle{next: staticoracle.New().AddLine("e4", "e5").AddLine("d4")}
	o, err := New(under, 10, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := o.MovesFrom(nil)
		if err != nil {
			t.Fatalf("MovesFrom() error = %v", err)
		}
		if want := []string{"e4", "d4"}; !reflect.DeepEqual(got, want) {
			t.Errorf("MovesFrom() = %v, want %v", got, want)
		}
	}

	if n := under.calls.Load(); n != 1 {
		t.Errorf("underlying called %d times, want 1", n)
	}
	st := o.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Size != 1 {
		t.Errorf("Stats() = %+v, want 2 hits, 1 miss, size 1", st)
	}
}

func TestOracle_DistinctHistories(t *testing.T) {
	under := &countingOracle{next: staticoracle.New().AddLine("e4", "e5")}
	o, err := New(under, 10, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := o.MovesFrom(nil); err != nil {
		t.Fatalf("MovesFrom(root) error = %v", err)
	}
	got, err := o.MovesFrom([]string{"e4"})
	if err != nil {
		t.Fatalf("MovesFrom(e4) error = %v", err)
	}
	if want := []string{"e5"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MovesFrom(e4) = %v, want %v", got, want)
	}
	if n := under.calls.Load(); n != 2 {
		t.Errorf("underlying called %d times, want 2", n)
	}
}

func TestOracle_ErrorsNotCached(t *testing.T) {
	boom := errors.New("boom")
	under := &countingOracle{next: staticoracle.New().SetError(boom)}
	o, err := New(under, 10, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := o.MovesFrom(nil); err != boom {
			t.Fatalf("MovesFrom() error = %v, want %v", err, boom)
		}
	}
	if n := under.calls.Load(); n != 2 {
		t.Errorf("underlying called %d times, want 2", n)
	}
	if st := o.Stats(); st.Size != 0 {
		t.Errorf("Stats().Size = %d, want 0", st.Size)
	}
}

func TestNew_DefaultSize(t *testing.T) {
	o, err := New(staticoracle.Constant(1), 0, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.cache == nil {
		t.Fatal("cache not created")
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

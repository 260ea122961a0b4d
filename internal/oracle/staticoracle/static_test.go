package staticoracle

import (
	"errors"
	"reflect"
	"testing"

	"github.com/discochess/repertoire/internal/oracle"
)

func TestTree_MovesFrom(t *testing.T) {
	tree := New().
		AddLine("e4", "e5").
		AddLine("e4", "c5").
		AddLine("d4")

	tests := []struct {
		history []string
		want    []string
	}{
		{nil, []string{"e4", "d4"}},
		{[]string{"e4"}, []string{"e5", "c5"}},
		{[]string{"e4", "e5"}, nil},
		{[]string{"d4"}, nil},
	}

	for _, tt := range tests {
		got, err := tree.MovesFrom(tt.history)
		if err != nil {
			t.Fatalf("MovesFrom(%v) error = %v", tt.history, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MovesFrom(%v) = %v, want %v", tt.history, got, tt.want)
		}
	}
}

func TestTree_UnknownHistory(t *testing.T) {
	tree := New().AddLine("e4")
	_, err := tree.MovesFrom([]string{"h4"})
	if !errors.Is(err, oracle.ErrIllegalMove) {
		t.Errorf("MovesFrom() error = %v, want ErrIllegalMove", err)
	}
}

func TestTree_SetError(t *testing.T) {
	boom := errors.New("boom")
	tree := New().AddLine("e4", "e5").SetError(boom, "e4")

	if _, err := tree.MovesFrom([]string{"e4"}); err != boom {
		t.Errorf("MovesFrom() error = %v, want %v", err, boom)
	}
	if _, err := tree.MovesFrom(nil); err != nil {
		t.Errorf("MovesFrom(root) error = %v", err)
	}
}

func TestConstant(t *testing.T) {
	o := Constant(2)
	got, err := o.MovesFrom([]string{"d1m0"})
	if err != nil {
		t.Fatalf("MovesFrom() error = %v", err)
	}
	if want := []string{"d2m0", "d2m1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MovesFrom() = %v, want %v", got, want)
	}
}

package session

import (
	"testing"

	"github.com/vovakirdan/tui-soccer/internal/entity"
)

func TestRosterOrderAndIdempotence(t *testing.T) {
	r := NewRoster()

	if !r.Add(entity.Descriptor{ID: "a", Name: "Ann"}) {
		t.Error("first add should change the roster")
	}
	r.Add(entity.Descriptor{ID: "b"})
	r.Add(entity.Descriptor{ID: "c"})
	if r.Add(entity.Descriptor{ID: "a", Name: "Imposter"}) {
		t.Error("duplicate add should be ignored")
	}

	list := r.List()
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("List() = %+v", list)
	}
	if list[0].Name != "Ann" {
		t.Errorf("duplicate add overwrote the entry: %+v", list[0])
	}

	if !r.Remove("b") || r.Remove("b") {
		t.Error("Remove should report presence once")
	}
	if got := r.List(); len(got) != 2 || got[1].ID != "c" {
		t.Errorf("after remove, List() = %+v", got)
	}
	if r.Names()["a"] != "Ann" {
		t.Errorf("Names() = %v", r.Names())
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d", r.Len())
	}
}

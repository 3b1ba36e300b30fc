package lr1

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotRestore(t *testing.T) {
	g := load(t, "testdata/expr.grammar")
	tables := build(t, g)

	snap := tables.Snapshot(g)
	if snap.Fingerprint != g.Fingerprint() {
		t.Errorf("Fingerprint = %q, want %q", snap.Fingerprint, g.Fingerprint())
	}
	if len(snap.States) != tables.NumStates() {
		t.Fatalf("len(States) = %d, want %d", len(snap.States), tables.NumStates())
	}

	restored, err := Restore(g, snap)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !reflect.DeepEqual(restored.Action, tables.Action) {
		t.Error("restored action table differs")
	}
	if !reflect.DeepEqual(restored.Goto, tables.Goto) {
		t.Error("restored goto table differs")
	}
	if !reflect.DeepEqual(restored.Transitions, tables.Transitions) {
		t.Error("restored transitions differ")
	}
	for i := range tables.States {
		if restored.States[i].Key() != tables.States[i].Key() {
			t.Errorf("restored state %d differs", i)
		}
	}

	tree, err := NewParser(g, restored).ConstructTree(scan(t, "a * (b + c)"))
	if err != nil {
		t.Fatalf("ConstructTree() with restored tables error = %v", err)
	}
	if tree.Label != "E" {
		t.Errorf("root = %s, want E", tree.Label)
	}
}

func TestRestoreStale(t *testing.T) {
	expr := load(t, "testdata/expr.grammar")
	other := load(t, "testdata/optional.grammar")

	snap := build(t, other).Snapshot(other)
	if _, err := Restore(expr, snap); !errors.Is(err, ErrStaleSnapshot) {
		t.Errorf("Restore() error = %v, want ErrStaleSnapshot", err)
	}
}

func TestRestoreInvalid(t *testing.T) {
	g := load(t, "testdata/expr.grammar")

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"unknown terminal", func(s *Snapshot) { s.States[0].Actions["nope"] = "s1" }},
		{"bad action", func(s *Snapshot) { s.States[0].Actions["id"] = "x1" }},
		{"shift out of range", func(s *Snapshot) { s.States[0].Actions["id"] = "s9999" }},
		{"goto on terminal", func(s *Snapshot) { s.States[0].Goto["id"] = 1 }},
		{"index out of order", func(s *Snapshot) { s.States[1].Index = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := build(t, g).Snapshot(g)
			tt.mutate(snap)
			if _, err := Restore(g, snap); err == nil {
				t.Error("Restore() error = nil, want an error")
			}
		})
	}
}

func TestRestoreInconsistentTables(t *testing.T) {
	g := load(t, "testdata/expr.grammar")

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"reduce on empty stack", func(s *Snapshot) { s.States[0].Actions["id"] = "r1" }},
		{"accept on empty stack", func(s *Snapshot) { s.States[0].Actions["id"] = "acc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := build(t, g).Snapshot(g)
			tt.mutate(snap)
			tables, err := Restore(g, snap)
			if err != nil {
				t.Fatalf("Restore() error = %v", err)
			}

			_, err = NewParser(g, tables).ConstructTree(scan(t, "a"))
			if err == nil {
				t.Fatal("ConstructTree() error = nil, want an error")
			}
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				t.Errorf("ConstructTree() error = %v, want a table error", err)
			}
		})
	}
}

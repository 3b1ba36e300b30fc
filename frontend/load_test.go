package frontend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lr1"
)

func TestLoadGrammarPath(t *testing.T) {
	f, err := Load(Options{GrammarPath: "testdata/expr.grammar"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.Tables().NumStates(); got != 22 {
		t.Errorf("NumStates() = %d, want 22", got)
	}
	if result := f.Analyze("a + b * (c)"); !result.OK() {
		t.Errorf("Analyze() errors = %v", result.Errors())
	}
}

func TestLoadMissingGrammar(t *testing.T) {
	if _, err := Load(Options{GrammarPath: "testdata/missing.grammar"}); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestLoadCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "tables.json")
	opts := Options{GrammarPath: "testdata/expr.grammar", CachePath: cache}

	built, err := Load(opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(cache); err != nil {
		t.Fatalf("cache not written: %v", err)
	}

	restored, err := Load(opts)
	if err != nil {
		t.Fatalf("Load() from cache error = %v", err)
	}
	if restored.Tables().NumStates() != built.Tables().NumStates() {
		t.Errorf("restored %d states, want %d", restored.Tables().NumStates(), built.Tables().NumStates())
	}
	if result := restored.Analyze("a * b"); !result.OK() {
		t.Errorf("Analyze() with restored tables errors = %v", result.Errors())
	}
}

func TestLoadStaleCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "tables.yaml")

	other, err := grammar.Parse("other", strings.NewReader("%token a\nS : a\n"))
	if err != nil {
		t.Fatal(err)
	}
	otherTables, err := lr1.BuildTables(other)
	if err != nil {
		t.Fatal(err)
	}
	if err := format.WriteSnapshot(cache, otherTables.Snapshot(other)); err != nil {
		t.Fatal(err)
	}

	f, err := Load(Options{GrammarPath: "testdata/expr.grammar", CachePath: cache})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap, err := format.ReadSnapshot(cache)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}
	if snap.Fingerprint != f.Grammar().Fingerprint() {
		t.Error("stale cache was not rewritten")
	}
}

func TestLoadConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambiguous.grammar")
	if err := os.WriteFile(path, []byte("%token id +\nE : E + E | id\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Options{GrammarPath: path}); err == nil {
		t.Error("Load() error = nil, want conflict error")
	}

	f, err := Load(Options{GrammarPath: path, AllowConflicts: true})
	if err != nil {
		t.Fatalf("Load(AllowConflicts) error = %v", err)
	}
	if len(f.Tables().Conflicts) != 1 {
		t.Errorf("got %d conflicts, want 1", len(f.Tables().Conflicts))
	}
}

func TestLoadStart(t *testing.T) {
	f, err := Load(Options{GrammarPath: "testdata/expr.grammar", Start: "F"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result := f.Analyze("(a + b)"); !result.OK() || result.Tree.Label != "F" {
		t.Errorf("Analyze() = %v, want tree rooted at F", result.Errors())
	}
	if result := f.Analyze("a + b"); result.SyntaxErr == nil {
		t.Error("Analyze(a + b) with start F succeeded, want syntax error")
	}
}

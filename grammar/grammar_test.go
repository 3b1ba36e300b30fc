package grammar

import (
	"errors"
	"os"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func mustLoad(t *testing.T, path string) *Grammar {
	t.Helper()
	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", path, err)
	}
	return g
}

func mustParse(t *testing.T, text string) *Grammar {
	t.Helper()
	g, err := Parse("test", strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return g
}

func names(g *Grammar, syms []Symbol) []string {
	result := make([]string, len(syms))
	for i, sym := range syms {
		result[i] = g.Name(sym)
	}
	sort.Strings(result)
	return result
}

func TestLoadExpr(t *testing.T) {
	g := mustLoad(t, "testdata/expr.grammar")

	if got, want := g.TokenList(), []string{"id", "+", "*", "(", ")"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TokenList() = %v, want %v", got, want)
	}

	want := map[string][][]string{
		"E": {{"E", "+", "T"}, {"T"}},
		"T": {{"T", "*", "F"}, {"F"}},
		"F": {{"(", "E", ")"}, {"id"}},
	}
	if got := g.Productions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Productions() = %v, want %v", got, want)
	}

	if g.Name(g.Start) != "E" {
		t.Errorf("Start = %s, want E", g.Name(g.Start))
	}
	if g.Name(g.Augmented) != "E'" {
		t.Errorf("Augmented = %s, want E'", g.Name(g.Augmented))
	}
	p := g.Production(0)
	if p.Head != g.Augmented || len(p.Body) != 1 || p.Body[0] != g.Start {
		t.Errorf("Production(0) = %s, want E' -> E", g.FormatProduction(0))
	}
	if g.NumProductions() != 7 {
		t.Errorf("NumProductions() = %d, want 7", g.NumProductions())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.grammar")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestClassification(t *testing.T) {
	// "x" is used before it is declared as a token.
	g := mustParse(t, "S : x S | y\n%token x\n%token y\n")

	for _, tt := range []struct {
		name     string
		terminal bool
	}{
		{"x", true},
		{"y", true},
		{"S", false},
		{"#", true},
		{"ε", true},
	} {
		sym, ok := g.Lookup(tt.name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", tt.name)
		}
		if g.IsTerminal(sym) != tt.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.name, g.IsTerminal(sym), tt.terminal)
		}
	}
}

func TestParseDirectives(t *testing.T) {
	g := mustParse(t, `
# comment
// another comment
{
%token a '|' ':'
%start B
A : a
B : A '|' A
  | A ':' A
  | ε
}
`)
	if g.Name(g.Start) != "B" {
		t.Errorf("Start = %s, want B", g.Name(g.Start))
	}
	want := [][]string{{"A", "|", "A"}, {"A", ":", "A"}, {}}
	if got := g.Productions()["B"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Productions()[B] = %v, want %v", got, want)
	}
}

func TestRepeatedHeadsAppend(t *testing.T) {
	g := mustParse(t, "%token a b\nS : a\nS : b\n")
	if got := len(g.Productions()["S"]); got != 2 {
		t.Errorf("len(Productions()[S]) = %d, want 2", got)
	}
}

func TestAugmentedNameIsUnique(t *testing.T) {
	g := mustParse(t, "%token a\nS : S' | a\nS' : a\n")
	if g.Name(g.Augmented) != "S''" {
		t.Errorf("Augmented = %s, want S''", g.Name(g.Augmented))
	}
}

func TestConfigurationErrors(t *testing.T) {
	_, err := Load("testdata/broken.grammar")
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("Load() error = %v, want ErrorList", err)
	}

	want := []struct {
		line    int
		message string
	}{
		{2, `undefined symbol "X"`},
		{3, "missing ':'"},
		{4, "declared as a token and defined as a production"},
		{5, "no terminating derivation"},
	}
	if len(list) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(list), len(want), list)
	}
	for i, w := range want {
		if list[i].Line != w.line {
			t.Errorf("error[%d].Line = %d, want %d", i, list[i].Line, w.line)
		}
		if !strings.Contains(list[i].Message, w.message) {
			t.Errorf("error[%d].Message = %q, want it to contain %q", i, list[i].Message, w.message)
		}
	}
}

func TestUndefinedStart(t *testing.T) {
	_, err := Parse("test", strings.NewReader("%token a\n%start Missing\nS : a\n"))
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("Parse() error = %v, want ErrorList", err)
	}
	if !strings.Contains(list[0].Message, "undefined start symbol") {
		t.Errorf("Message = %q", list[0].Message)
	}
}

func TestWithStart(t *testing.T) {
	g, err := Load("testdata/expr.grammar", WithStart("T"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := g.Name(g.Start); got != "T" {
		t.Errorf("Start = %s, want T", got)
	}
	if body := g.Production(0).Body; len(body) != 1 || body[0] != g.Start {
		t.Errorf("augmented body = %v, want [T]", body)
	}

	if _, err := Load("testdata/expr.grammar", WithStart("id")); err == nil {
		t.Error("WithStart(terminal) error = nil, want error")
	}
}

func TestEmptyGrammar(t *testing.T) {
	_, err := Parse("test", strings.NewReader("%token a\n"))
	if err == nil {
		t.Fatal("Parse() error = nil, want an error")
	}
}

func TestFirstOfTerminal(t *testing.T) {
	g := mustLoad(t, "testdata/expr.grammar")
	for _, name := range g.TokenList() {
		sym, _ := g.Lookup(name)
		got := g.First(sym)
		if len(got) != 1 || got[0] != sym {
			t.Errorf("First(%s) = %v, want {%s}", name, names(g, got), name)
		}
	}
}

func TestFirstSets(t *testing.T) {
	tests := []struct {
		path string
		want map[string][]string
	}{
		{
			"testdata/expr.grammar",
			map[string][]string{
				"E": {"(", "id"},
				"T": {"(", "id"},
				"F": {"(", "id"},
			},
		},
		{
			"testdata/nullable.grammar",
			map[string][]string{
				"S": {"a", "b", "c", "d"},
				"A": {"a", "ε"},
				"B": {"b", "ε"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			g := mustLoad(t, tt.path)
			if got := g.FirstSets(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FirstSets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstMutualRecursion(t *testing.T) {
	g := mustParse(t, "%token a b\nA : B a | a\nB : A b | b\n")
	want := map[string][]string{
		"A": {"a", "b"},
		"B": {"a", "b"},
	}
	if got := g.FirstSets(); !reflect.DeepEqual(got, want) {
		t.Errorf("FirstSets() = %v, want %v", got, want)
	}
}

func TestFirstOfSequence(t *testing.T) {
	g := mustLoad(t, "testdata/nullable.grammar")
	sym := func(name string) Symbol {
		s, ok := g.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		return s
	}

	tests := []struct {
		name     string
		seq      []string
		fallback string
		want     []string
	}{
		{"empty", nil, "#", []string{"#"}},
		{"terminal first", []string{"c", "A"}, "#", []string{"c"}},
		{"nullable prefix", []string{"A", "c"}, "#", []string{"a", "c"}},
		{"all nullable", []string{"A", "B"}, "d", []string{"a", "b", "d"}},
		{"non-nullable", []string{"S", "A"}, "#", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seq []Symbol
			for _, name := range tt.seq {
				seq = append(seq, sym(name))
			}
			got := names(g, g.FirstOfSequence(seq, sym(tt.fallback)).Sorted())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FirstOfSequence(%v, %s) = %v, want %v", tt.seq, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestNullable(t *testing.T) {
	g := mustLoad(t, "testdata/nullable.grammar")
	for name, want := range map[string]bool{"S": false, "A": true, "B": true, "a": false} {
		sym, _ := g.Lookup(name)
		if got := g.Nullable(sym); got != want {
			t.Errorf("Nullable(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestEBNF(t *testing.T) {
	g := mustLoad(t, "testdata/nullable.grammar")
	want := `N_S = N_A N_B "c" | "d" .
N_A = [ "a" N_A ] .
N_B = [ "b" ] .
`
	if got := g.EBNF(); got != want {
		t.Errorf("EBNF() =\n%s\nwant\n%s", got, want)
	}
	if err := g.VerifyEBNF(); err != nil {
		t.Errorf("VerifyEBNF() error = %v", err)
	}
}

func TestVerifyEBNFUnreachable(t *testing.T) {
	g := mustParse(t, "%token a\nS : a\nOrphan : a\n")
	if err := g.VerifyEBNF(); err == nil {
		t.Error("VerifyEBNF() error = nil, want unreachable production error")
	}
}

func TestFingerprint(t *testing.T) {
	a := mustLoad(t, "testdata/expr.grammar")
	b := mustLoad(t, "testdata/expr.grammar")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Fingerprint differs for the same grammar")
	}
	c := mustLoad(t, "testdata/nullable.grammar")
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("Fingerprint equal for different grammars")
	}
}

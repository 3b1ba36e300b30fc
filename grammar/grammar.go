// Package grammar loads context-free grammars from a line-oriented text
// format and computes their FIRST sets.
//
// The format:
//
//	// comment
//	%token id num + *
//	%start E
//	E : E + T | T
//	T : T * F
//	  | F
//	F : ( E ) | id
//	Opt : ε | id
//
// A production line is a head, a colon and one or more alternatives
// separated by a lone "|". A line starting with "|" adds alternatives to the
// previous head. Names declared with %token are terminals; every other name
// must be the head of some production. The body "ε" is empty and "#" is the
// end marker. A name wrapped in single quotes ('|', ':') is taken literally,
// which is how grammars refer to terminals that collide with the notation.
// Blank lines and lines starting with "{", "}", "#" or "//" are ignored.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cfront.grammar")

const (
	EmptyName = "ε"
	EndName   = "#"
)

// Symbol is an interned grammar symbol. Symbols are only meaningful
// together with the Grammar that produced them.
type Symbol int

const NoSymbol Symbol = -1

// SymbolSet is an unordered set of symbols.
type SymbolSet map[Symbol]struct{}

func (s SymbolSet) Add(sym Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

func (s SymbolSet) Has(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

func (s SymbolSet) Sorted() []Symbol {
	result := make([]Symbol, 0, len(s))
	for sym := range s {
		result = append(result, sym)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

type Production struct {
	Index int
	Head  Symbol
	Body  []Symbol
	Line  int
}

// Grammar is an immutable, validated grammar. Production 0 is the augmented
// production Augmented -> Start.
type Grammar struct {
	// Empty, End and Augmented are the grammar's marker symbols.
	Empty     Symbol
	End       Symbol
	Augmented Symbol
	Start     Symbol

	source      string
	names       []string
	index       map[string]Symbol
	terminal    []bool
	tokens      []Symbol
	productions []Production
	byHead      map[Symbol][]int
	first       []SymbolSet
}

func (g *Grammar) Source() string {
	return g.source
}

func (g *Grammar) Lookup(name string) (Symbol, bool) {
	sym, ok := g.index[name]
	return sym, ok
}

func (g *Grammar) Name(sym Symbol) string {
	if sym < 0 || int(sym) >= len(g.names) {
		return fmt.Sprintf("<symbol %d>", int(sym))
	}
	return g.names[sym]
}

// IsTerminal reports whether sym is a declared terminal or the end or empty
// marker.
func (g *Grammar) IsTerminal(sym Symbol) bool {
	return sym >= 0 && int(sym) < len(g.terminal) && g.terminal[sym]
}

func (g *Grammar) NumSymbols() int {
	return len(g.names)
}

// Terminals returns the declared terminals followed by the end marker.
func (g *Grammar) Terminals() []Symbol {
	result := make([]Symbol, 0, len(g.tokens)+1)
	result = append(result, g.tokens...)
	return append(result, g.End)
}

// Nonterminals returns every nonterminal except the augmented start symbol,
// in order of first definition.
func (g *Grammar) Nonterminals() []Symbol {
	var result []Symbol
	seen := make(map[Symbol]bool)
	for _, p := range g.productions[1:] {
		if !seen[p.Head] {
			seen[p.Head] = true
			result = append(result, p.Head)
		}
	}
	return result
}

// TokenList returns the declared terminal names in declaration order.
func (g *Grammar) TokenList() []string {
	result := make([]string, len(g.tokens))
	for i, sym := range g.tokens {
		result[i] = g.names[sym]
	}
	return result
}

func (g *Grammar) NumProductions() int {
	return len(g.productions)
}

func (g *Grammar) Production(i int) Production {
	return g.productions[i]
}

// ProductionsOf returns the indices of the productions with the given head.
func (g *Grammar) ProductionsOf(head Symbol) []int {
	return g.byHead[head]
}

// Productions returns the loaded productions keyed by head name. Empty
// bodies are empty slices. The augmented production is not included.
func (g *Grammar) Productions() map[string][][]string {
	result := make(map[string][][]string)
	for _, p := range g.productions[1:] {
		head := g.names[p.Head]
		result[head] = append(result[head], g.symbolNames(p.Body))
	}
	return result
}

func (g *Grammar) symbolNames(syms []Symbol) []string {
	result := make([]string, len(syms))
	for i, sym := range syms {
		result[i] = g.names[sym]
	}
	return result
}

// First returns the FIRST set of sym in symbol order.
func (g *Grammar) First(sym Symbol) []Symbol {
	return g.first[sym].Sorted()
}

// FirstSets returns the FIRST set of every nonterminal keyed by name, each
// set sorted by name.
func (g *Grammar) FirstSets() map[string][]string {
	result := make(map[string][]string)
	for _, head := range g.Nonterminals() {
		names := g.symbolNames(g.First(head))
		sort.Strings(names)
		result[g.names[head]] = names
	}
	return result
}

func (g *Grammar) FormatProduction(i int) string {
	p := g.productions[i]
	var b strings.Builder
	b.WriteString(g.names[p.Head])
	b.WriteString(" ->")
	if len(p.Body) == 0 {
		b.WriteString(" ")
		b.WriteString(EmptyName)
	}
	for _, sym := range p.Body {
		b.WriteString(" ")
		b.WriteString(g.names[sym])
	}
	return b.String()
}

func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%%token %s\n", strings.Join(g.TokenList(), " "))
	fmt.Fprintf(&b, "%%start %s\n", g.names[g.Start])
	for i := range g.productions {
		fmt.Fprintf(&b, "%3d  %s\n", i, g.FormatProduction(i))
	}
	return b.String()
}

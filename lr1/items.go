// Package lr1 builds canonical LR(1) parsing tables for a grammar and drives
// a shift-reduce parser over them.
package lr1

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/cfront/grammar"
)

// Item is an LR(1) item: production Prod with the dot before Body[Dot],
// paired with one lookahead terminal.
type Item struct {
	Prod      int
	Dot       int
	Lookahead grammar.Symbol
}

func (it Item) Compare(other Item) int {
	switch {
	case it.Prod != other.Prod:
		return it.Prod - other.Prod
	case it.Dot != other.Dot:
		return it.Dot - other.Dot
	}
	return int(it.Lookahead) - int(other.Lookahead)
}

// Format renders the item as "[A -> α · β, a]".
func (it Item) Format(g *grammar.Grammar) string {
	p := g.Production(it.Prod)
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(g.Name(p.Head))
	b.WriteString(" ->")
	for i, sym := range p.Body {
		if i == it.Dot {
			b.WriteString(" ·")
		}
		b.WriteString(" ")
		b.WriteString(g.Name(sym))
	}
	if it.Dot >= len(p.Body) {
		b.WriteString(" ·")
	}
	b.WriteString(", ")
	b.WriteString(g.Name(it.Lookahead))
	b.WriteString("]")
	return b.String()
}

// ItemSet is a sorted, duplicate-free set of items. Two item sets are equal
// when their keys are equal.
type ItemSet struct {
	items []Item
	key   string
}

func newItemSet(items []Item) ItemSet {
	sort.Slice(items, func(i, j int) bool { return items[i].Compare(items[j]) < 0 })

	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%d.%d.%d;", it.Prod, it.Dot, it.Lookahead)
	}
	return ItemSet{items: items, key: b.String()}
}

func (s ItemSet) Items() []Item {
	return s.items
}

func (s ItemSet) Len() int {
	return len(s.items)
}

func (s ItemSet) Key() string {
	return s.key
}

func (s ItemSet) Format(g *grammar.Grammar) string {
	var b strings.Builder
	for _, it := range s.items {
		b.WriteString(it.Format(g))
		b.WriteString("\n")
	}
	return b.String()
}

type seqKey struct {
	prod int
	dot  int
}

// closer computes closures over one grammar. It memoizes the FIRST set of
// each production suffix.
type closer struct {
	g      *grammar.Grammar
	suffix map[seqKey]grammar.SymbolSet
}

func newCloser(g *grammar.Grammar) *closer {
	return &closer{g: g, suffix: make(map[seqKey]grammar.SymbolSet)}
}

// lookaheads returns FIRST(β a) for the item [A -> α · B β, a].
func (c *closer) lookaheads(it Item) []grammar.Symbol {
	k := seqKey{it.Prod, it.Dot + 1}
	first, ok := c.suffix[k]
	if !ok {
		body := c.g.Production(it.Prod).Body
		first = c.g.FirstOfSequence(body[it.Dot+1:], c.g.Empty)
		c.suffix[k] = first
	}

	result := make([]grammar.Symbol, 0, len(first))
	for sym := range first {
		if sym == c.g.Empty {
			result = append(result, it.Lookahead)
			continue
		}
		result = append(result, sym)
	}
	return result
}

// Closure expands kernel with every item reachable by expanding the
// nonterminal after a dot, until no new item can be added.
func (c *closer) Closure(kernel []Item) ItemSet {
	seen := make(map[Item]bool, len(kernel))
	work := make([]Item, 0, len(kernel))
	for _, it := range kernel {
		if !seen[it] {
			seen[it] = true
			work = append(work, it)
		}
	}

	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]

		body := c.g.Production(it.Prod).Body
		if it.Dot >= len(body) {
			continue
		}
		next := body[it.Dot]
		if c.g.IsTerminal(next) {
			continue
		}
		lookaheads := c.lookaheads(it)
		for _, prod := range c.g.ProductionsOf(next) {
			for _, la := range lookaheads {
				item := Item{Prod: prod, Dot: 0, Lookahead: la}
				if !seen[item] {
					seen[item] = true
					work = append(work, item)
				}
			}
		}
	}

	items := make([]Item, 0, len(seen))
	for it := range seen {
		items = append(items, it)
	}
	return newItemSet(items)
}

// Goto advances the dot over x in every item of s that allows it and
// returns the closure of the result, which is empty when no item does.
func (c *closer) Goto(s ItemSet, x grammar.Symbol) ItemSet {
	var kernel []Item
	for _, it := range s.items {
		body := c.g.Production(it.Prod).Body
		if it.Dot < len(body) && body[it.Dot] == x {
			kernel = append(kernel, Item{Prod: it.Prod, Dot: it.Dot + 1, Lookahead: it.Lookahead})
		}
	}
	if len(kernel) == 0 {
		return newItemSet(nil)
	}
	return c.Closure(kernel)
}

// nextSymbols returns the symbols that appear after a dot in s, in
// ascending order.
func (c *closer) nextSymbols(s ItemSet) []grammar.Symbol {
	seen := make(map[grammar.Symbol]bool)
	var symbols []grammar.Symbol
	for _, it := range s.items {
		body := c.g.Production(it.Prod).Body
		if it.Dot >= len(body) || seen[body[it.Dot]] {
			continue
		}
		seen[body[it.Dot]] = true
		symbols = append(symbols, body[it.Dot])
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

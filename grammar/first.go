package grammar

// computeFirst fills g.first by iterating to a fixpoint. Sets only grow, so
// left and mutual recursion terminate.
func (g *Grammar) computeFirst() {
	g.first = make([]SymbolSet, len(g.names))
	for sym := range g.names {
		g.first[sym] = make(SymbolSet)
		if g.terminal[sym] {
			g.first[sym].Add(Symbol(sym))
		}
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range g.productions {
			target := g.first[prod.Head]
			nullable := true
			for _, sym := range prod.Body {
				for s := range g.first[sym] {
					if s != g.Empty && target.Add(s) {
						changed = true
					}
				}
				if !g.first[sym].Has(g.Empty) {
					nullable = false
					break
				}
			}
			if nullable && target.Add(g.Empty) {
				changed = true
			}
		}
	}
}

// Nullable reports whether sym can derive the empty string.
func (g *Grammar) Nullable(sym Symbol) bool {
	return g.first[sym].Has(g.Empty)
}

// FirstOfSequence returns the terminals that can begin seq. If every symbol
// of seq can derive the empty string, fallback is included instead of the
// empty marker.
func (g *Grammar) FirstOfSequence(seq []Symbol, fallback Symbol) SymbolSet {
	result := make(SymbolSet)
	for _, sym := range seq {
		if g.terminal[sym] && sym != g.Empty {
			result.Add(sym)
			return result
		}
		first := g.first[sym]
		for s := range first {
			if s != g.Empty {
				result.Add(s)
			}
		}
		if !first.Has(g.Empty) {
			return result
		}
	}
	result.Add(fallback)
	return result
}

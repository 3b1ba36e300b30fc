package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

// EBNF renders the grammar in the notation read by golang.org/x/exp/ebnf.
// Nonterminals become productions named "N_<name>" and terminals become
// string tokens. A head with an empty alternative is wrapped in an option.
func (g *Grammar) EBNF() string {
	names := g.ebnfNames()

	var b strings.Builder
	for _, head := range g.Nonterminals() {
		var alternatives []string
		optional := false
		for _, i := range g.byHead[head] {
			body := g.productions[i].Body
			if len(body) == 0 {
				optional = true
				continue
			}
			parts := make([]string, len(body))
			for j, sym := range body {
				if g.terminal[sym] {
					parts[j] = strconv.Quote(g.names[sym])
				} else {
					parts[j] = names[sym]
				}
			}
			alternatives = append(alternatives, strings.Join(parts, " "))
		}

		expr := strings.Join(alternatives, " | ")
		if optional && expr != "" {
			expr = "[ " + expr + " ]"
		}
		if expr == "" {
			fmt.Fprintf(&b, "%s = .\n", names[head])
		} else {
			fmt.Fprintf(&b, "%s = %s .\n", names[head], expr)
		}
	}
	return b.String()
}

func (g *Grammar) ebnfNames() map[Symbol]string {
	names := make(map[Symbol]string)
	taken := make(map[string]bool)
	for _, head := range g.Nonterminals() {
		base := "N_" + sanitize(g.names[head])
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		taken[name] = true
		names[head] = name
	}
	return names
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

// VerifyEBNF parses the EBNF rendering back and checks it with ebnf.Verify:
// every production must be defined and reachable from the start symbol.
func (g *Grammar) VerifyEBNF() error {
	text := g.EBNF()
	parsed, err := ebnf.Parse(g.source+".ebnf", strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parse ebnf: %w", err)
	}
	return ebnf.Verify(parsed, g.ebnfNames()[g.Start])
}

// Fingerprint returns a stable hash of the declared tokens, the start
// symbol and the productions in order.
func (g *Grammar) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%%token %s\n", strings.Join(g.TokenList(), " "))
	fmt.Fprintf(h, "%%start %s\n", g.names[g.Start])
	for i := range g.productions {
		fmt.Fprintf(h, "%s\n", g.FormatProduction(i))
	}
	return hex.EncodeToString(h.Sum(nil))
}

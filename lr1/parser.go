package lr1

import (
	"fmt"
	"strings"

	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lexer"
)

// SyntaxError reports the token for which the parser found no action.
type SyntaxError struct {
	Token    lexer.Token
	State    int
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString(e.Token.Pos().String())
	if e.Token.Kind == lexer.KindEnd {
		b.WriteString(": unexpected end of input")
	} else {
		fmt.Fprintf(&b, ": unexpected %q", e.Token.Value)
	}
	fmt.Fprintf(&b, " in state %d", e.State)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected one of %s", strings.Join(e.Expected, " "))
	}
	return b.String()
}

// Parser is a table-driven shift-reduce parser. It holds no per-parse
// state and is safe for concurrent use.
type Parser struct {
	grammar *grammar.Grammar
	tables  *Tables
}

func NewParser(g *grammar.Grammar, tables *Tables) *Parser {
	return &Parser{grammar: g, tables: tables}
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Tables() *Tables {
	return p.tables
}

// ConstructTree parses tokens and returns the parse tree. Whitespace and
// comment tokens are skipped. The end marker is appended unless tokens
// already end with one. Parsing stops at the first token without an action.
func (p *Parser) ConstructTree(tokens []lexer.Token) (*TreeNode, error) {
	input := lexer.Terminals(tokens)
	if len(input) == 0 || input[len(input)-1].Kind != lexer.KindEnd {
		input = append(input, lexer.EndToken(endPosition(input)))
	}

	g := p.grammar
	states := []int{0}
	var nodes []*TreeNode

	for i := 0; ; {
		tok := input[i]
		top := states[len(states)-1]

		sym, ok := g.Lookup(tok.Terminal())
		if !ok || !g.IsTerminal(sym) {
			return nil, p.syntaxError(tok, top)
		}
		action, ok := p.tables.Action[top][sym]
		if !ok {
			return nil, p.syntaxError(tok, top)
		}

		switch action.Kind {
		case Shift:
			states = append(states, action.Target)
			nodes = append(nodes, newLeaf(tok))
			i++

		case Reduce:
			prod := g.Production(action.Target)
			k := len(prod.Body)
			if k > len(nodes) {
				return nil, fmt.Errorf("reduce by production %d in state %d needs %d symbols, stack has %d", action.Target, top, k, len(nodes))
			}
			children := make([]*TreeNode, k)
			copy(children, nodes[len(nodes)-k:])
			nodes = nodes[:len(nodes)-k]
			states = states[:len(states)-k]

			nodes = append(nodes, &TreeNode{Label: g.Name(prod.Head), Children: children})
			next, ok := p.tables.Goto[states[len(states)-1]][prod.Head]
			if !ok {
				return nil, fmt.Errorf("no goto from state %d on %s", states[len(states)-1], g.Name(prod.Head))
			}
			states = append(states, next)

		case Accept:
			if len(nodes) != 1 {
				return nil, fmt.Errorf("accept in state %d with %d symbols on the stack", top, len(nodes))
			}
			return nodes[0], nil

		default:
			return nil, fmt.Errorf("invalid action %v in state %d", action, top)
		}
	}
}

func (p *Parser) syntaxError(tok lexer.Token, state int) *SyntaxError {
	return &SyntaxError{
		Token:    tok,
		State:    state,
		Expected: p.tables.Expected(p.grammar, state),
	}
}

func endPosition(tokens []lexer.Token) lexer.Position {
	if len(tokens) == 0 {
		return lexer.Position{Row: 1, Column: 1}
	}
	return tokens[len(tokens)-1].Span.End
}

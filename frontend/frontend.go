// Package frontend runs source text through the scanner and the LR(1)
// parser and keeps the results for documents and watched files.
package frontend

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cfront.frontend")

//go:embed minic.grammar
var DefaultGrammarText string

const DefaultGrammarName = "minic.grammar"

// DefaultGrammar loads the embedded minic grammar.
func DefaultGrammar(opts ...grammar.Option) (*grammar.Grammar, error) {
	return grammar.Parse(DefaultGrammarName, strings.NewReader(DefaultGrammarText), opts...)
}

// Result is the outcome of analysing one source text. Lexical errors do not
// stop the parse; the terminals that did scan are parsed regardless.
type Result struct {
	Tokens    []lexer.Token
	Terminals []lexer.Token
	LexErrors []*lexer.Error
	Tree      *lr1.TreeNode
	SyntaxErr error
}

// Errors returns the lexical errors followed by the syntax error, if any.
func (r *Result) Errors() []error {
	errs := make([]error, 0, len(r.LexErrors)+1)
	for _, err := range r.LexErrors {
		errs = append(errs, err)
	}
	if r.SyntaxErr != nil {
		errs = append(errs, r.SyntaxErr)
	}
	return errs
}

func (r *Result) OK() bool {
	return len(r.LexErrors) == 0 && r.SyntaxErr == nil
}

// TokenAt returns the token covering the 1-based row and column.
func (r *Result) TokenAt(row, column int) (lexer.Token, bool) {
	for _, tok := range r.Tokens {
		start, end := tok.Span.Start, tok.Span.End
		if row < start.Row || row > end.Row {
			continue
		}
		if row == start.Row && column < start.Column {
			continue
		}
		if row == end.Row && column >= end.Column {
			continue
		}
		return tok, true
	}
	return lexer.Token{}, false
}

type Frontend struct {
	grammar *grammar.Grammar
	tables  *lr1.Tables
	parser  *lr1.Parser
}

func New(g *grammar.Grammar, tables *lr1.Tables) *Frontend {
	return &Frontend{
		grammar: g,
		tables:  tables,
		parser:  lr1.NewParser(g, tables),
	}
}

// Build builds the LR(1) tables for g and returns a Frontend over them.
func Build(g *grammar.Grammar, opts ...lr1.Option) (*Frontend, error) {
	tables, err := lr1.BuildTables(g, opts...)
	if err != nil {
		return nil, fmt.Errorf("build tables: %w", err)
	}
	return New(g, tables), nil
}

func (f *Frontend) Grammar() *grammar.Grammar {
	return f.grammar
}

func (f *Frontend) Tables() *lr1.Tables {
	return f.tables
}

// Analyze scans and parses src.
func (f *Frontend) Analyze(src string) *Result {
	result := &Result{}

	c := lexer.NewCursor(src)
	for !c.IsEOF() {
		tok, err := c.AdvanceToken()
		if err != nil {
			var lexErr *lexer.Error
			if errors.As(err, &lexErr) {
				result.LexErrors = append(result.LexErrors, lexErr)
			}
			continue
		}
		result.Tokens = append(result.Tokens, tok)
	}
	end, _ := c.AdvanceToken()

	result.Terminals = append(lexer.Terminals(result.Tokens), end)
	result.Tree, result.SyntaxErr = f.parser.ConstructTree(result.Terminals)
	result.Terminals = result.Terminals[:len(result.Terminals)-1]

	log.Debugf("analyzed %d tokens, %d lexical errors", len(result.Tokens), len(result.LexErrors))
	return result
}

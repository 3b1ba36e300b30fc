package grammar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type rawAlternative struct {
	body []string
	line int
}

type rawRule struct {
	head         string
	line         int
	alternatives []rawAlternative
}

// Option adjusts how a grammar is read.
type Option func(*parser)

// WithStart selects the start symbol, overriding any %start directive.
func WithStart(name string) Option {
	return func(p *parser) {
		p.startOverride = name
	}
}

// Load reads and validates the grammar file at path.
func Load(path string, opts ...Option) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(path, f, opts...)
}

// Parse reads a grammar from r. name is used in error messages. Errors in
// the grammar text are returned together as an ErrorList.
func Parse(name string, r io.Reader, opts ...Option) (*Grammar, error) {
	p := &parser{source: name, heads: make(map[string]*rawRule)}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.read(r); err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}

	g := p.build()
	if len(p.errs) > 0 {
		p.errs.sort()
		return nil, p.errs
	}

	g.computeFirst()
	log.Debugf("loaded %s: %d terminals, %d productions", name, len(g.tokens), len(g.productions))
	return g, nil
}

type parser struct {
	source    string
	tokens    []string
	startName string
	startLine int

	startOverride string
	rules         []*rawRule
	heads         map[string]*rawRule
	last          *rawRule
	errs          ErrorList
}

func (p *parser) errorf(line int, format string, args ...any) {
	p.errs.add(p.source, line, format, args...)
}

func (p *parser) read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		p.parseLine(line, strings.TrimSpace(scanner.Text()))
	}
	return scanner.Err()
}

func (p *parser) parseLine(line int, text string) {
	switch {
	case text == "":
		return
	case strings.HasPrefix(text, "{"), strings.HasPrefix(text, "}"):
		return
	case strings.HasPrefix(text, "//"), strings.HasPrefix(text, "#"):
		return
	case strings.HasPrefix(text, "%"):
		p.parseDirective(line, text)
		return
	case strings.HasPrefix(text, "|"):
		if p.last == nil {
			p.errorf(line, "alternative without a preceding production")
			return
		}
		p.addAlternatives(p.last, line, strings.Fields(text))
		return
	}

	head, body, ok := strings.Cut(text, ":")
	if !ok {
		p.errorf(line, "missing ':' in production %q", text)
		return
	}
	head = strings.TrimSpace(head)
	if head == "" {
		p.errorf(line, "production without a head")
		return
	}
	if strings.ContainsAny(head, " \t") {
		p.errorf(line, "invalid production head %q", head)
		return
	}
	head = unquote(head)
	if head == EmptyName || head == EndName {
		p.errorf(line, "reserved symbol %q used as a production head", head)
		return
	}

	rule, ok := p.heads[head]
	if !ok {
		rule = &rawRule{head: head, line: line}
		p.heads[head] = rule
		p.rules = append(p.rules, rule)
	}
	p.last = rule
	p.addAlternatives(rule, line, append([]string{"|"}, strings.Fields(body)...))
}

// addAlternatives splits fields on lone "|" separators. fields must start
// with a separator.
func (p *parser) addAlternatives(rule *rawRule, line int, fields []string) {
	for _, field := range fields {
		if field == "|" {
			rule.alternatives = append(rule.alternatives, rawAlternative{line: line})
			continue
		}
		if field == EmptyName {
			continue
		}
		alt := &rule.alternatives[len(rule.alternatives)-1]
		alt.body = append(alt.body, unquote(field))
	}
}

func (p *parser) parseDirective(line int, text string) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "%token":
		for _, name := range fields[1:] {
			name = unquote(name)
			if name == EmptyName || name == EndName {
				p.errorf(line, "reserved symbol %q declared as a token", name)
				continue
			}
			p.tokens = append(p.tokens, name)
		}
	case "%start":
		if len(fields) != 2 {
			p.errorf(line, "%%start takes exactly one symbol")
			return
		}
		p.startName = unquote(fields[1])
		p.startLine = line
	default:
		p.errorf(line, "unknown directive %s", fields[0])
	}
}

func unquote(field string) string {
	if len(field) >= 3 && field[0] == '\'' && field[len(field)-1] == '\'' {
		return field[1 : len(field)-1]
	}
	return field
}

// build interns every symbol against the final token list and validates
// the result.
func (p *parser) build() *Grammar {
	g := &Grammar{
		source: p.source,
		index:  make(map[string]Symbol),
		byHead: make(map[Symbol][]int),
	}
	g.Empty = g.intern(EmptyName, true)
	g.End = g.intern(EndName, true)

	for _, name := range p.tokens {
		if _, ok := g.index[name]; ok {
			continue
		}
		g.tokens = append(g.tokens, g.intern(name, true))
	}

	for _, rule := range p.rules {
		if _, ok := g.index[rule.head]; ok {
			p.errorf(rule.line, "%q is declared as a token and defined as a production", rule.head)
			continue
		}
		g.intern(rule.head, false)
	}

	if len(p.rules) == 0 {
		p.errorf(0, "grammar has no productions")
		return g
	}

	startName := p.startName
	if p.startOverride != "" {
		startName = p.startOverride
		p.startLine = 0
	}
	if startName == "" {
		startName = p.rules[0].head
	}
	start, ok := g.index[startName]
	if !ok || g.terminal[start] {
		p.errorf(p.startLine, "undefined start symbol %q", startName)
		return g
	}
	g.Start = start

	augmented := startName + "'"
	for {
		if _, taken := g.index[augmented]; !taken {
			break
		}
		augmented += "'"
	}
	g.Augmented = g.intern(augmented, false)
	g.addProduction(g.Augmented, []Symbol{g.Start}, 0)

	for _, rule := range p.rules {
		head := g.index[rule.head]
		if g.terminal[head] {
			continue
		}
		for _, alt := range rule.alternatives {
			body := make([]Symbol, 0, len(alt.body))
			for _, name := range alt.body {
				sym, ok := g.index[name]
				if !ok {
					p.errorf(alt.line, "undefined symbol %q in production for %s", name, rule.head)
					continue
				}
				body = append(body, sym)
			}
			g.addProduction(head, body, alt.line)
		}
	}

	p.checkProductive(g)
	return g
}

func (g *Grammar) intern(name string, terminal bool) Symbol {
	sym := Symbol(len(g.names))
	g.names = append(g.names, name)
	g.terminal = append(g.terminal, terminal)
	g.index[name] = sym
	return sym
}

func (g *Grammar) addProduction(head Symbol, body []Symbol, line int) {
	index := len(g.productions)
	g.productions = append(g.productions, Production{
		Index: index,
		Head:  head,
		Body:  body,
		Line:  line,
	})
	g.byHead[head] = append(g.byHead[head], index)
}

// checkProductive reports every nonterminal that cannot derive a string of
// terminals.
func (p *parser) checkProductive(g *Grammar) {
	productive := make([]bool, len(g.names))
	for sym, terminal := range g.terminal {
		productive[sym] = terminal
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range g.productions {
			if productive[prod.Head] {
				continue
			}
			all := true
			for _, sym := range prod.Body {
				if !productive[sym] {
					all = false
					break
				}
			}
			if all {
				productive[prod.Head] = true
				changed = true
			}
		}
	}

	for _, rule := range p.rules {
		sym := g.index[rule.head]
		if !g.terminal[sym] && !productive[sym] {
			p.errorf(rule.line, "nonterminal %s has no terminating derivation", rule.head)
		}
	}
}

package lr1

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/cfront/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cfront.lr1")

type ActionKind int

const (
	Shift ActionKind = iota + 1
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "Unknown"
}

// Action is one cell of the action table. Target is the next state for a
// shift and the production index for a reduce.
type Action struct {
	Kind   ActionKind
	Target int
}

// String renders the action in the compact "s4", "r2", "acc" notation.
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return "s" + strconv.Itoa(a.Target)
	case Reduce:
		return "r" + strconv.Itoa(a.Target)
	case Accept:
		return "acc"
	}
	return "?"
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	if s == "acc" {
		return Action{Kind: Accept}, nil
	}
	if len(s) < 2 {
		return Action{}, fmt.Errorf("invalid action %q", s)
	}
	target, err := strconv.Atoi(s[1:])
	if err != nil {
		return Action{}, fmt.Errorf("invalid action %q: %w", s, err)
	}
	switch s[0] {
	case 's':
		return Action{Kind: Shift, Target: target}, nil
	case 'r':
		return Action{Kind: Reduce, Target: target}, nil
	}
	return Action{}, fmt.Errorf("invalid action %q", s)
}

// Conflict records an action that lost to an earlier one in the same cell.
type Conflict struct {
	State    int
	Terminal string
	Kept     Action
	Rejected Action
}

// Kind names the pair of action kinds in conflict, such as "shift/reduce".
func (c Conflict) Kind() string {
	kept, rejected := c.Kept.Kind, c.Rejected.Kind
	switch {
	case kept == Accept || rejected == Accept:
		other := kept
		if kept == Accept {
			other = rejected
		}
		return "accept/" + other.String()
	case kept == Reduce && rejected == Reduce:
		return "reduce/reduce"
	}
	return "shift/reduce"
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d on %q: %s conflict (kept %s, rejected %s)",
		c.State, c.Terminal, c.Kind(), c.Kept, c.Rejected)
}

// ConflictError is returned when the grammar is not LR(1).
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return "grammar is not LR(1): " + e.Conflicts[0].String()
	}
	return fmt.Sprintf("grammar is not LR(1): %s (and %d more conflicts)",
		e.Conflicts[0], len(e.Conflicts)-1)
}

// Tables holds the canonical collection and the parsing tables derived
// from it. States are numbered in discovery order. Tables are read-only once
// built and may be shared by any number of parsers.
type Tables struct {
	States      []ItemSet
	Action      []map[grammar.Symbol]Action
	Goto        []map[grammar.Symbol]int
	Transitions []map[grammar.Symbol]int
	Conflicts   []Conflict
}

func (t *Tables) NumStates() int {
	return len(t.Action)
}

// Expected returns the terminals that have an action in state, sorted by
// name.
func (t *Tables) Expected(g *grammar.Grammar, state int) []string {
	var result []string
	for sym := range t.Action[state] {
		result = append(result, g.Name(sym))
	}
	sort.Strings(result)
	return result
}

type options struct {
	allowConflicts bool
}

type Option func(*options)

// AllowConflicts accepts grammars with conflicts. The first action
// registered for a cell wins.
func AllowConflicts() Option {
	return func(o *options) {
		o.allowConflicts = true
	}
}

// BuildTables computes the canonical LR(1) collection of g and its action
// and goto tables. Items in a state are visited in sorted order, so the
// tables and recorded conflicts are the same on every run. If the grammar
// has conflicts the tables are returned together with a *ConflictError
// unless AllowConflicts is given.
func BuildTables(g *grammar.Grammar, opts ...Option) (*Tables, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := newCloser(g)
	t := &Tables{}

	index := make(map[string]int)
	add := func(s ItemSet) int {
		if i, ok := index[s.key]; ok {
			return i
		}
		i := len(t.States)
		index[s.key] = i
		t.States = append(t.States, s)
		t.Transitions = append(t.Transitions, make(map[grammar.Symbol]int))
		return i
	}

	add(c.Closure([]Item{{Prod: 0, Dot: 0, Lookahead: g.End}}))
	for i := 0; i < len(t.States); i++ {
		for _, x := range c.nextSymbols(t.States[i]) {
			t.Transitions[i][x] = add(c.Goto(t.States[i], x))
		}
	}

	t.Action = make([]map[grammar.Symbol]Action, len(t.States))
	t.Goto = make([]map[grammar.Symbol]int, len(t.States))
	for i, s := range t.States {
		t.Action[i] = make(map[grammar.Symbol]Action)
		t.Goto[i] = make(map[grammar.Symbol]int)

		for _, it := range s.items {
			body := g.Production(it.Prod).Body
			if it.Dot >= len(body) {
				if it.Prod == 0 && it.Lookahead == g.End {
					t.register(g, i, g.End, Action{Kind: Accept})
				} else {
					t.register(g, i, it.Lookahead, Action{Kind: Reduce, Target: it.Prod})
				}
				continue
			}
			x := body[it.Dot]
			if g.IsTerminal(x) {
				t.register(g, i, x, Action{Kind: Shift, Target: t.Transitions[i][x]})
			} else {
				t.Goto[i][x] = t.Transitions[i][x]
			}
		}
	}

	log.Infof("built %d states for %s", len(t.States), g.Source())
	for _, conflict := range t.Conflicts {
		log.Warningf("%s", conflict)
	}

	if len(t.Conflicts) > 0 && !o.allowConflicts {
		return t, &ConflictError{Conflicts: t.Conflicts}
	}
	return t, nil
}

func (t *Tables) register(g *grammar.Grammar, state int, terminal grammar.Symbol, action Action) {
	existing, ok := t.Action[state][terminal]
	if !ok {
		t.Action[state][terminal] = action
		return
	}
	if existing == action {
		return
	}
	t.Conflicts = append(t.Conflicts, Conflict{
		State:    state,
		Terminal: g.Name(terminal),
		Kept:     existing,
		Rejected: action,
	})
}

// Format renders the action and goto tables one state per line.
func (t *Tables) Format(g *grammar.Grammar) string {
	var b strings.Builder
	for i := range t.Action {
		fmt.Fprintf(&b, "%4d ", i)
		for _, sym := range g.Terminals() {
			if a, ok := t.Action[i][sym]; ok {
				fmt.Fprintf(&b, " %s:%s", g.Name(sym), a)
			}
		}
		for _, sym := range g.Nonterminals() {
			if target, ok := t.Goto[i][sym]; ok {
				fmt.Fprintf(&b, " %s=%d", g.Name(sym), target)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

package lr1

import (
	"errors"
	"fmt"

	"github.com/dhamidi/cfront/grammar"
)

// ErrStaleSnapshot is returned by Restore when a snapshot was built from a
// different grammar.
var ErrStaleSnapshot = errors.New("tables snapshot does not match grammar")

// Snapshot is the persisted form of Tables. Symbols are named by their text
// so a snapshot stays readable; states are keyed by index.
type Snapshot struct {
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint"`
	Start       string          `json:"start" yaml:"start"`
	States      []StateSnapshot `json:"states" yaml:"states"`
	Conflicts   []string        `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

type StateSnapshot struct {
	Index   int               `json:"index" yaml:"index"`
	Items   []ItemSnapshot    `json:"items,omitempty" yaml:"items,omitempty"`
	Actions map[string]string `json:"actions" yaml:"actions"`
	Goto    map[string]int    `json:"goto,omitempty" yaml:"goto,omitempty"`
}

type ItemSnapshot struct {
	Production int    `json:"production" yaml:"production"`
	Dot        int    `json:"dot" yaml:"dot"`
	Lookahead  string `json:"lookahead" yaml:"lookahead"`
}

// Snapshot captures t for persistence. Conflicts are kept as text only.
func (t *Tables) Snapshot(g *grammar.Grammar) *Snapshot {
	snap := &Snapshot{
		Fingerprint: g.Fingerprint(),
		Start:       g.Name(g.Start),
		States:      make([]StateSnapshot, len(t.Action)),
	}

	for i := range t.Action {
		state := StateSnapshot{
			Index:   i,
			Actions: make(map[string]string, len(t.Action[i])),
			Goto:    make(map[string]int, len(t.Goto[i])),
		}
		if i < len(t.States) {
			for _, it := range t.States[i].items {
				state.Items = append(state.Items, ItemSnapshot{
					Production: it.Prod,
					Dot:        it.Dot,
					Lookahead:  g.Name(it.Lookahead),
				})
			}
		}
		for sym, action := range t.Action[i] {
			state.Actions[g.Name(sym)] = action.String()
		}
		for sym, target := range t.Goto[i] {
			state.Goto[g.Name(sym)] = target
		}
		snap.States[i] = state
	}

	for _, conflict := range t.Conflicts {
		snap.Conflicts = append(snap.Conflicts, conflict.String())
	}
	return snap
}

// Restore rebuilds tables for g from snap. Transitions are recovered from
// the shift and goto entries.
func Restore(g *grammar.Grammar, snap *Snapshot) (*Tables, error) {
	if snap.Fingerprint != g.Fingerprint() {
		return nil, ErrStaleSnapshot
	}

	n := len(snap.States)
	t := &Tables{
		States:      make([]ItemSet, n),
		Action:      make([]map[grammar.Symbol]Action, n),
		Goto:        make([]map[grammar.Symbol]int, n),
		Transitions: make([]map[grammar.Symbol]int, n),
	}

	lookup := func(name string, terminal bool) (grammar.Symbol, error) {
		sym, ok := g.Lookup(name)
		if !ok || g.IsTerminal(sym) != terminal {
			return grammar.NoSymbol, fmt.Errorf("unknown symbol %q", name)
		}
		return sym, nil
	}
	checkState := func(target int) error {
		if target < 0 || target >= n {
			return fmt.Errorf("state %d out of range", target)
		}
		return nil
	}

	for i, state := range snap.States {
		if state.Index != i {
			return nil, fmt.Errorf("state %d: index %d out of order", i, state.Index)
		}
		t.Action[i] = make(map[grammar.Symbol]Action, len(state.Actions))
		t.Goto[i] = make(map[grammar.Symbol]int, len(state.Goto))
		t.Transitions[i] = make(map[grammar.Symbol]int)

		items := make([]Item, 0, len(state.Items))
		for _, it := range state.Items {
			la, err := lookup(it.Lookahead, true)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			if it.Production < 0 || it.Production >= g.NumProductions() {
				return nil, fmt.Errorf("state %d: production %d out of range", i, it.Production)
			}
			items = append(items, Item{Prod: it.Production, Dot: it.Dot, Lookahead: la})
		}
		t.States[i] = newItemSet(items)

		for name, text := range state.Actions {
			sym, err := lookup(name, true)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			action, err := ParseAction(text)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			switch action.Kind {
			case Shift:
				if err := checkState(action.Target); err != nil {
					return nil, fmt.Errorf("state %d: %w", i, err)
				}
				t.Transitions[i][sym] = action.Target
			case Reduce:
				if action.Target < 0 || action.Target >= g.NumProductions() {
					return nil, fmt.Errorf("state %d: production %d out of range", i, action.Target)
				}
			}
			t.Action[i][sym] = action
		}

		for name, target := range state.Goto {
			sym, err := lookup(name, false)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			if err := checkState(target); err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			t.Goto[i][sym] = target
			t.Transitions[i][sym] = target
		}
	}

	return t, nil
}

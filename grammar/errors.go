package grammar

import (
	"fmt"
	"sort"
)

// Error is a grammar configuration error.
type Error struct {
	Source  string
	Line    int
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Source != "":
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
	return e.Message
}

// ErrorList collects every configuration error found while loading a
// grammar.
type ErrorList []*Error

func (l *ErrorList) add(source string, line int, format string, args ...any) {
	*l = append(*l, &Error{Source: source, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (l ErrorList) sort() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Line < l[j].Line })
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

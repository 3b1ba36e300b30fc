package lexer

import "fmt"

type ErrorKind int

const (
	ErrUnterminatedComment ErrorKind = iota + 1
	ErrIdentifier
	ErrNumber
	ErrChar
	ErrString
	ErrUnknown
)

var errorKindNames = map[ErrorKind]string{
	ErrUnterminatedComment: "comment",
	ErrIdentifier:          "identifier",
	ErrNumber:              "number",
	ErrChar:                "character",
	ErrString:              "string",
	ErrUnknown:             "unknown",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is a lexical error. Span starts where the offending lexeme began and
// Text holds every character consumed while scanning it.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
	Text    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Span.Start, e.Message, e.Text)
}

func (e *Error) Row() int {
	return e.Span.Start.Row
}

func (e *Error) Column() int {
	return e.Span.Start.Column
}

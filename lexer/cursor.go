// Package lexer turns C-like source text into a position-tagged token
// stream.
//
// A Cursor produces one token per call. Each lexeme family is recognized by
// its own state machine that decides token boundaries with one character of
// lookahead: a lexeme ends as soon as the next character cannot extend it
// and is whitespace, an operator character or a delimiter. Any other
// character glued onto a lexeme makes it malformed; the cursor then consumes
// up to the next boundary and reports the whole run as one *Error. Errors
// never invalidate the cursor, so callers may keep scanning.
package lexer

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const eof = -1

type Cursor struct {
	input  string
	pos    int
	row    int
	column int
}

func NewCursor(input string) *Cursor {
	return &Cursor{
		input:  input,
		row:    1,
		column: 1,
	}
}

func (c *Cursor) Position() Position {
	return Position{
		Offset: c.pos,
		Row:    c.row,
		Column: c.column,
	}
}

func (c *Cursor) IsEOF() bool {
	return c.pos >= len(c.input)
}

func (c *Cursor) first() rune {
	if c.pos >= len(c.input) {
		return eof
	}
	ch, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return ch
}

func (c *Cursor) second() rune {
	if c.pos >= len(c.input) {
		return eof
	}
	_, size := utf8.DecodeRuneInString(c.input[c.pos:])
	if c.pos+size >= len(c.input) {
		return eof
	}
	ch, _ := utf8.DecodeRuneInString(c.input[c.pos+size:])
	return ch
}

func (c *Cursor) advance() rune {
	if c.pos >= len(c.input) {
		return eof
	}
	ch, size := utf8.DecodeRuneInString(c.input[c.pos:])
	c.pos += size
	if ch == '\n' {
		c.row++
		c.column = 1
	} else {
		c.column++
	}
	return ch
}

func (c *Cursor) skipToBoundary() {
	for !c.IsEOF() && !isBoundary(c.first()) {
		c.advance()
	}
}

// AdvanceToken scans the next lexeme. At end of input it returns the end
// marker token. On a lexical error the returned error is a *Error and the
// cursor is positioned just past the offending run.
func (c *Cursor) AdvanceToken() (Token, error) {
	start := c.Position()
	if c.IsEOF() {
		return EndToken(start), nil
	}

	ch := c.first()
	switch {
	case ch == '/' && c.second() == '/':
		return c.lineComment(start), nil
	case ch == '/' && c.second() == '*':
		return c.blockComment(start)
	case isWhitespace(ch):
		return c.whitespace(start), nil
	case isIdentStart(ch):
		return c.ident(start)
	case isDigit(ch):
		return c.number(start)
	case ch == '\'':
		return c.character(start)
	case ch == '"':
		return c.str(start)
	case isOperatorStart(ch):
		return c.operator(start), nil
	case isDelimiter(ch):
		return c.delimiter(start), nil
	}
	return c.unknown(start)
}

func (c *Cursor) token(kind Kind, start Position) Token {
	end := c.Position()
	return Token{
		Kind:  kind,
		Span:  Span{Start: start, End: end},
		Value: c.input[start.Offset:end.Offset],
	}
}

func (c *Cursor) fail(kind ErrorKind, message string, start Position) *Error {
	end := c.Position()
	return &Error{
		Kind:    kind,
		Message: message,
		Span:    Span{Start: start, End: end},
		Text:    c.input[start.Offset:end.Offset],
	}
}

func (c *Cursor) lineComment(start Position) Token {
	c.advance()
	c.advance()
	for !c.IsEOF() && c.first() != '\n' {
		c.advance()
	}
	return c.token(KindComment, start)
}

func (c *Cursor) blockComment(start Position) (Token, error) {
	c.advance()
	c.advance()
	for !c.IsEOF() {
		if c.first() == '*' && c.second() == '/' {
			c.advance()
			c.advance()
			return c.token(KindComment, start), nil
		}
		c.advance()
	}
	return Token{}, c.fail(ErrUnterminatedComment, "unterminated comment", start)
}

func (c *Cursor) whitespace(start Position) Token {
	for !c.IsEOF() && isWhitespace(c.first()) {
		c.advance()
	}
	return c.token(KindWhitespace, start)
}

func (c *Cursor) ident(start Position) (Token, error) {
	c.advance()
	for !c.IsEOF() {
		ch := c.first()
		if isIdentContinue(ch) {
			c.advance()
			continue
		}
		if isBoundary(ch) {
			break
		}
		c.skipToBoundary()
		return Token{}, c.fail(ErrIdentifier, "malformed identifier", start)
	}
	literal := c.input[start.Offset:c.pos]
	return c.token(LookupKeyword(literal), start), nil
}

func (c *Cursor) number(start Position) (Token, error) {
	state := numStart
	for !c.IsEOF() {
		ch := c.first()
		if next, ok := state.step(ch); ok {
			c.advance()
			state = next
			continue
		}
		if isBoundary(ch) {
			break
		}
		c.skipToBoundary()
		return Token{}, c.fail(ErrNumber, "malformed "+state.family(), start)
	}
	kind, ok := state.accepting()
	if !ok {
		return Token{}, c.fail(ErrNumber, "malformed "+state.family(), start)
	}
	return c.token(kind, start), nil
}

func (c *Cursor) character(start Position) (Token, error) {
	c.advance()

	switch ch := c.first(); {
	case ch == eof || ch == '\n':
		return Token{}, c.fail(ErrChar, "unterminated character literal", start)
	case ch == '\'':
		c.advance()
		return Token{}, c.fail(ErrChar, "empty character literal", start)
	case ch == '\\':
		c.advance()
		code := c.first()
		if !isEscape(code) {
			if code != eof && code != '\n' {
				c.advance()
			}
			c.skipLiteral('\'')
			return Token{}, c.fail(ErrChar, "invalid escape sequence", start)
		}
		c.advance()
	default:
		c.advance()
	}

	if c.first() != '\'' {
		if c.skipLiteral('\'') {
			return Token{}, c.fail(ErrChar, "multi-character literal", start)
		}
		return Token{}, c.fail(ErrChar, "unterminated character literal", start)
	}
	c.advance()
	return c.token(KindCharLit, start), nil
}

// str scans a string literal. A backslash followed by a newline continues
// the literal on the next line; both characters are left out of the value.
func (c *Cursor) str(start Position) (Token, error) {
	var value strings.Builder
	value.WriteRune(c.advance())

	for {
		ch := c.first()
		switch {
		case ch == eof || ch == '\n':
			return Token{}, c.fail(ErrString, "unterminated string literal", start)
		case ch == '"':
			value.WriteRune(c.advance())
			return Token{
				Kind:  KindStringLit,
				Span:  Span{Start: start, End: c.Position()},
				Value: value.String(),
			}, nil
		case ch == '\\':
			c.advance()
			code := c.first()
			switch {
			case code == '\n':
				c.advance()
				continue
			case code == '\r' && c.second() == '\n':
				c.advance()
				c.advance()
				continue
			case code == eof:
				return Token{}, c.fail(ErrString, "unterminated string literal", start)
			case !isEscape(code):
				c.advance()
				c.skipLiteral('"')
				return Token{}, c.fail(ErrString, "invalid escape sequence", start)
			}
			value.WriteRune('\\')
			value.WriteRune(c.advance())
		default:
			value.WriteRune(c.advance())
		}
	}
}

// skipLiteral consumes the rest of a malformed literal up to and including
// the closing quote. It stops before a newline or at EOF and reports
// whether the quote was found.
func (c *Cursor) skipLiteral(quote rune) bool {
	for {
		switch ch := c.first(); {
		case ch == eof || ch == '\n':
			return false
		case ch == quote:
			c.advance()
			return true
		case ch == '\\':
			c.advance()
			if next := c.first(); next != eof {
				c.advance()
			}
		default:
			c.advance()
		}
	}
}

func (c *Cursor) operator(start Position) Token {
	c.advance()
	for !c.IsEOF() {
		_, size := utf8.DecodeRuneInString(c.input[c.pos:])
		if _, ok := operators[c.input[start.Offset:c.pos+size]]; !ok {
			break
		}
		c.advance()
	}
	return c.token(operators[c.input[start.Offset:c.pos]], start)
}

func (c *Cursor) delimiter(start Position) Token {
	var kind Kind
	switch c.advance() {
	case ';':
		kind = KindSemicolon
	case ',':
		kind = KindComma
	case '{':
		kind = KindLBrace
	case '}':
		kind = KindRBrace
	}
	return c.token(kind, start)
}

func (c *Cursor) unknown(start Position) (Token, error) {
	c.advance()
	c.skipToBoundary()
	return Token{}, c.fail(ErrUnknown, "unrecognized characters", start)
}

// Tokenize scans src to the end, collecting tokens and lexical errors
// separately. The end marker is not included.
func Tokenize(src string) ([]Token, []*Error) {
	var tokens []Token
	var errs []*Error

	c := NewCursor(src)
	for !c.IsEOF() {
		tok, err := c.AdvanceToken()
		if err != nil {
			var lexErr *Error
			if errors.As(err, &lexErr) {
				errs = append(errs, lexErr)
			}
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, errs
}

// Terminals drops whitespace and comments.
func Terminals(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		result = append(result, tok)
	}
	return result
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isOperatorStart(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '&', '|', '!', '^', '?', ':', '>', '<', '=', '(', ')', '[', ']', '%':
		return true
	}
	return false
}

func isDelimiter(ch rune) bool {
	return ch == '{' || ch == '}' || ch == ';' || ch == ','
}

func isBoundary(ch rune) bool {
	return isWhitespace(ch) || isOperatorStart(ch) || isDelimiter(ch)
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isEscape(ch rune) bool {
	switch ch {
	case 'n', 't', '\\', 'r', '\'', '"':
		return true
	}
	return false
}

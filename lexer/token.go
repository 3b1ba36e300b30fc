package lexer

import "fmt"

// Position is a location in source text. Row and Column are 1-based;
// Offset is a byte offset. The zero Position means "no position".
type Position struct {
	Offset int
	Row    int
	Column int
}

func (p Position) IsValid() bool {
	return p.Row > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Compare orders positions by offset, then row and column.
func (p Position) Compare(q Position) int {
	switch {
	case p.Offset != q.Offset:
		return cmpInt(p.Offset, q.Offset)
	case p.Row != q.Row:
		return cmpInt(p.Row, q.Row)
	default:
		return cmpInt(p.Column, q.Column)
	}
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type Kind int

const (
	KindInvalid Kind = iota

	KindComment
	KindWhitespace

	KindIdent

	// Keywords
	KindBreak
	KindCase
	KindChar
	KindConst
	KindContinue
	KindDefault
	KindDo
	KindDouble
	KindElse
	KindFloat
	KindFor
	KindIf
	KindInt
	KindLong
	KindReturn
	KindShort
	KindStatic
	KindStruct
	KindSwitch
	KindTypedef
	KindVoid
	KindWhile

	// Numbers
	KindInteger
	KindFloatLit
	KindExponent

	KindCharLit
	KindStringLit

	// Operators
	KindPlus
	KindIncrement
	KindPlusAssign
	KindMinus
	KindDecrement
	KindMinusAssign
	KindStar
	KindStarAssign
	KindSlash
	KindSlashAssign
	KindPercent
	KindPercentAssign
	KindXor
	KindXorAssign
	KindNot
	KindNE
	KindAssign
	KindEQ
	KindLT
	KindLE
	KindShl
	KindShlAssign
	KindGT
	KindGE
	KindShr
	KindShrAssign
	KindBitAnd
	KindAnd
	KindAndAssign
	KindBitOr
	KindOr
	KindOrAssign
	KindQuestion
	KindColon

	// Punctuation
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace
	KindComma
	KindSemicolon

	// Markers
	KindEmpty
	KindEnd

	KindNonTerminal
)

var kindNames = map[Kind]string{
	KindInvalid:       "Invalid",
	KindComment:       "Comment",
	KindWhitespace:    "Whitespace",
	KindIdent:         "Identifier",
	KindBreak:         "break",
	KindCase:          "case",
	KindChar:          "char",
	KindConst:         "const",
	KindContinue:      "continue",
	KindDefault:       "default",
	KindDo:            "do",
	KindDouble:        "double",
	KindElse:          "else",
	KindFloat:         "float",
	KindFor:           "for",
	KindIf:            "if",
	KindInt:           "int",
	KindLong:          "long",
	KindReturn:        "return",
	KindShort:         "short",
	KindStatic:        "static",
	KindStruct:        "struct",
	KindSwitch:        "switch",
	KindTypedef:       "typedef",
	KindVoid:          "void",
	KindWhile:         "while",
	KindInteger:       "Integer",
	KindFloatLit:      "Float",
	KindExponent:      "Exponent",
	KindCharLit:       "Character",
	KindStringLit:     "String",
	KindPlus:          "+",
	KindIncrement:     "++",
	KindPlusAssign:    "+=",
	KindMinus:         "-",
	KindDecrement:     "--",
	KindMinusAssign:   "-=",
	KindStar:          "*",
	KindStarAssign:    "*=",
	KindSlash:         "/",
	KindSlashAssign:   "/=",
	KindPercent:       "%",
	KindPercentAssign: "%=",
	KindXor:           "^",
	KindXorAssign:     "^=",
	KindNot:           "!",
	KindNE:            "!=",
	KindAssign:        "=",
	KindEQ:            "==",
	KindLT:            "<",
	KindLE:            "<=",
	KindShl:           "<<",
	KindShlAssign:     "<<=",
	KindGT:            ">",
	KindGE:            ">=",
	KindShr:           ">>",
	KindShrAssign:     ">>=",
	KindBitAnd:        "&",
	KindAnd:           "&&",
	KindAndAssign:     "&=",
	KindBitOr:         "|",
	KindOr:            "||",
	KindOrAssign:      "|=",
	KindQuestion:      "?",
	KindColon:         ":",
	KindLParen:        "(",
	KindRParen:        ")",
	KindLBracket:      "[",
	KindRBracket:      "]",
	KindLBrace:        "{",
	KindRBrace:        "}",
	KindComma:         ",",
	KindSemicolon:     ";",
	KindEmpty:         "ε",
	KindEnd:           "#",
	KindNonTerminal:   "NonTerminal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k Kind) IsKeyword() bool {
	return k >= KindBreak && k <= KindWhile
}

func (k Kind) IsNumber() bool {
	return k >= KindInteger && k <= KindExponent
}

func (k Kind) IsOperator() bool {
	return k >= KindPlus && k <= KindColon
}

func (k Kind) IsPunctuation() bool {
	return k >= KindLParen && k <= KindSemicolon
}

// IsTrivia reports whether tokens of this kind are dropped before parsing.
func (k Kind) IsTrivia() bool {
	return k == KindComment || k == KindWhitespace
}

func (k Kind) IsTerminal() bool {
	return k != KindNonTerminal && k != KindInvalid
}

// Terminal names used by grammar files for token families whose text varies.
const (
	TerminalIdent  = "id"
	TerminalNumber = "num"
	TerminalChar   = "char_lit"
	TerminalString = "string_lit"
	TerminalEmpty  = "ε"
	TerminalEnd    = "#"
)

// Terminal returns the grammar terminal name for tokens of this kind.
// Keywords, operators and punctuation are named by their text.
func (k Kind) Terminal() string {
	switch {
	case k == KindIdent:
		return TerminalIdent
	case k.IsNumber():
		return TerminalNumber
	case k == KindCharLit:
		return TerminalChar
	case k == KindStringLit:
		return TerminalString
	case k == KindEmpty:
		return TerminalEmpty
	case k == KindEnd:
		return TerminalEnd
	case k.IsKeyword(), k.IsOperator(), k.IsPunctuation():
		return kindNames[k]
	}
	return ""
}

// Token is an immutable lexeme. Tokens are comparable and can be used as
// map keys; Compare gives a total order.
type Token struct {
	Kind  Kind
	Value string
	Span  Span
}

func NewNonTerminal(name string) Token {
	return Token{Kind: KindNonTerminal, Value: name}
}

// EndToken returns the end-of-input marker positioned at pos.
func EndToken(pos Position) Token {
	return Token{Kind: KindEnd, Value: TerminalEnd, Span: Span{Start: pos, End: pos}}
}

func (t Token) Pos() Position {
	return t.Span.Start
}

// Terminal returns the grammar terminal name of the token, or the value of
// a nonterminal token.
func (t Token) Terminal() string {
	if t.Kind == KindNonTerminal {
		return t.Value
	}
	return t.Kind.Terminal()
}

func (t Token) Compare(u Token) int {
	if t.Kind != u.Kind {
		return cmpInt(int(t.Kind), int(u.Kind))
	}
	if t.Value != u.Value {
		if t.Value < u.Value {
			return -1
		}
		return 1
	}
	return t.Span.Start.Compare(u.Span.Start)
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Kind, t.Value)
}

var keywords = map[string]Kind{
	"break":    KindBreak,
	"case":     KindCase,
	"char":     KindChar,
	"const":    KindConst,
	"continue": KindContinue,
	"default":  KindDefault,
	"do":       KindDo,
	"double":   KindDouble,
	"else":     KindElse,
	"float":    KindFloat,
	"for":      KindFor,
	"if":       KindIf,
	"int":      KindInt,
	"long":     KindLong,
	"return":   KindReturn,
	"short":    KindShort,
	"static":   KindStatic,
	"struct":   KindStruct,
	"switch":   KindSwitch,
	"typedef":  KindTypedef,
	"void":     KindVoid,
	"while":    KindWhile,
}

func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdent
}

// operators is prefix-closed: every prefix of an entry is itself an entry,
// which lets the scanner extend greedily without backtracking.
var operators = map[string]Kind{
	"+":   KindPlus,
	"++":  KindIncrement,
	"+=":  KindPlusAssign,
	"-":   KindMinus,
	"--":  KindDecrement,
	"-=":  KindMinusAssign,
	"*":   KindStar,
	"*=":  KindStarAssign,
	"/":   KindSlash,
	"/=":  KindSlashAssign,
	"%":   KindPercent,
	"%=":  KindPercentAssign,
	"^":   KindXor,
	"^=":  KindXorAssign,
	"!":   KindNot,
	"!=":  KindNE,
	"=":   KindAssign,
	"==":  KindEQ,
	"<":   KindLT,
	"<=":  KindLE,
	"<<":  KindShl,
	"<<=": KindShlAssign,
	">":   KindGT,
	">=":  KindGE,
	">>":  KindShr,
	">>=": KindShrAssign,
	"&":   KindBitAnd,
	"&&":  KindAnd,
	"&=":  KindAndAssign,
	"|":   KindBitOr,
	"||":  KindOr,
	"|=":  KindOrAssign,
	"?":   KindQuestion,
	":":   KindColon,
	"(":   KindLParen,
	")":   KindRParen,
	"[":   KindLBracket,
	"]":   KindRBracket,
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

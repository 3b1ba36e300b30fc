package lexer

// numState is a state of the numeric literal recognizer.
type numState int

const (
	numStart numState = iota
	numZero
	numOctal
	numHexPrefix
	numHex
	numBinPrefix
	numBin
	numDecimal
	numDot
	numFraction
	numExpMark
	numExpSign
	numExponent
)

var numStateNames = map[numState]string{
	numStart:     "Start",
	numZero:      "Zero",
	numOctal:     "Octal",
	numHexPrefix: "HexPrefix",
	numHex:       "Hex",
	numBinPrefix: "BinPrefix",
	numBin:       "Bin",
	numDecimal:   "Decimal",
	numDot:       "Dot",
	numFraction:  "Fraction",
	numExpMark:   "ExpMark",
	numExpSign:   "ExpSign",
	numExponent:  "Exponent",
}

func (s numState) String() string {
	if name, ok := numStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

type numEdge struct {
	accept func(rune) bool
	next   numState
}

// numTransitions lists the outgoing edges of each state. Edges are tried in
// order; a character matching no edge ends the literal.
var numTransitions = map[numState][]numEdge{
	numStart: {
		{isZero, numZero},
		{isNonZeroDigit, numDecimal},
	},
	numZero: {
		{isNonZeroOctal, numOctal},
		{isHexMark, numHexPrefix},
		{isBinMark, numBinPrefix},
		{isDot, numDot},
	},
	numOctal:     {{isOctalDigit, numOctal}},
	numHexPrefix: {{isHexDigit, numHex}},
	numHex:       {{isHexDigit, numHex}},
	numBinPrefix: {{isBinDigit, numBin}},
	numBin:       {{isBinDigit, numBin}},
	numDecimal: {
		{isDigit, numDecimal},
		{isDot, numDot},
		{isExpMark, numExpMark},
	},
	numDot: {{isDigit, numFraction}},
	numFraction: {
		{isDigit, numFraction},
		{isExpMark, numExpMark},
	},
	numExpMark: {
		{isSign, numExpSign},
		{isDigit, numExponent},
	},
	numExpSign:  {{isDigit, numExponent}},
	numExponent: {{isDigit, numExponent}},
}

// numAccepting maps the states a literal may end in to the kind produced.
var numAccepting = map[numState]Kind{
	numZero:     KindInteger,
	numOctal:    KindInteger,
	numHex:      KindInteger,
	numBin:      KindInteger,
	numDecimal:  KindInteger,
	numFraction: KindFloatLit,
	numExponent: KindExponent,
}

func (s numState) step(ch rune) (numState, bool) {
	for _, edge := range numTransitions[s] {
		if edge.accept(ch) {
			return edge.next, true
		}
	}
	return s, false
}

func (s numState) accepting() (Kind, bool) {
	kind, ok := numAccepting[s]
	return kind, ok
}

// family names the literal family a state belongs to, for error messages.
func (s numState) family() string {
	switch s {
	case numOctal:
		return "octal literal"
	case numHexPrefix, numHex:
		return "hex literal"
	case numBinPrefix, numBin:
		return "binary literal"
	case numDot, numFraction:
		return "float literal"
	case numExpMark, numExpSign, numExponent:
		return "exponent literal"
	}
	return "integer literal"
}

func isZero(ch rune) bool         { return ch == '0' }
func isNonZeroDigit(ch rune) bool { return ch >= '1' && ch <= '9' }
func isNonZeroOctal(ch rune) bool { return ch >= '1' && ch <= '7' }
func isOctalDigit(ch rune) bool   { return ch >= '0' && ch <= '7' }
func isBinDigit(ch rune) bool     { return ch == '0' || ch == '1' }
func isHexMark(ch rune) bool      { return ch == 'x' || ch == 'X' }
func isBinMark(ch rune) bool      { return ch == 'b' || ch == 'B' }
func isExpMark(ch rune) bool      { return ch == 'e' || ch == 'E' }
func isDot(ch rune) bool          { return ch == '.' }
func isSign(ch rune) bool         { return ch == '+' || ch == '-' }

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

package frontend

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
)

var buildMinic = sync.OnceValues(func() (*Frontend, error) {
	g, err := DefaultGrammar()
	if err != nil {
		return nil, err
	}
	return Build(g)
})

func minic(t *testing.T) *Frontend {
	t.Helper()
	f, err := buildMinic()
	if err != nil {
		t.Fatalf("building minic frontend: %v", err)
	}
	return f
}

func TestDefaultGrammarIsConflictFree(t *testing.T) {
	f := minic(t)
	if n := len(f.Tables().Conflicts); n != 0 {
		t.Errorf("minic has %d conflicts, want 0", n)
	}
	if f.Grammar().Name(f.Grammar().Start) != "Program" {
		t.Errorf("start = %s, want Program", f.Grammar().Name(f.Grammar().Start))
	}
}

func TestAnalyzePrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"declaration", "int x;"},
		{"initializers", "int a[10], b = 1, c;\nfloat y = 1.5e3;\n"},
		{"struct", "struct point {\n  int x;\n  int y;\n  char name[16];\n};\n"},
		{"prototype", "int add(int a, int b);\nvoid reset(void);\nint tick();\n"},
		{"main", `int main(void) {
    int x = 1;
    while (x < 10) { x += 1; }
    return x;
}
`},
		{"control flow", `/* counts up */
static int f(int n) {
    for (i = 0; i < n; i++) {
        if (i == 2) {
            continue;
        } else if (i > 5) {
            break;
        } else {
            g(i, "s", 'c');
        }
    }
    do { n--; } while (n > 0 && !done);
    x = a[2] * -b % 0x1F;
    return;
}
`},
		{"empty for", "void spin() { for (;;) { } }"},
		{"comments", "// header\nint /* inline */ x; // trailing\n"},
	}

	f := minic(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Analyze(tt.src)
			if !result.OK() {
				t.Fatalf("Analyze() errors = %v", result.Errors())
			}
			if result.Tree.Label != "Program" {
				t.Errorf("root = %s, want Program", result.Tree.Label)
			}
			leaves := result.Tree.Leaves()
			if !reflect.DeepEqual(leaves, result.Terminals) {
				t.Errorf("leaves = %v, want %v", leaves, result.Terminals)
			}
		})
	}
}

func TestAnalyzeContinuesAfterLexicalError(t *testing.T) {
	result := minic(t).Analyze("int x = 1 @;")

	if len(result.LexErrors) != 1 {
		t.Fatalf("got %d lexical errors, want 1", len(result.LexErrors))
	}
	if lexErr := result.LexErrors[0]; lexErr.Kind != lexer.ErrUnknown || lexErr.Text != "@" {
		t.Errorf("lexical error = %v, want unknown @", lexErr)
	}
	if result.SyntaxErr != nil {
		t.Errorf("SyntaxErr = %v, want nil", result.SyntaxErr)
	}
	if result.Tree == nil {
		t.Fatal("Tree = nil, want parse of remaining terminals")
	}
	if result.OK() {
		t.Error("OK() = true with a lexical error")
	}
	if n := len(result.Errors()); n != 1 {
		t.Errorf("len(Errors()) = %d, want 1", n)
	}
}

func TestAnalyzeSyntaxError(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		value  string
		row    int
		column int
	}{
		{"missing params", "int main( { }", "{", 1, 11},
		{"missing semicolon", "int x\nint y;", "int", 2, 1},
		{"unexpected end", "int f() {", "#", 1, 10},
	}

	f := minic(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Analyze(tt.src)
			var syntaxErr *lr1.SyntaxError
			if !errors.As(result.SyntaxErr, &syntaxErr) {
				t.Fatalf("SyntaxErr = %v, want *lr1.SyntaxError", result.SyntaxErr)
			}
			pos := syntaxErr.Token.Pos()
			if syntaxErr.Token.Value != tt.value || pos.Row != tt.row || pos.Column != tt.column {
				t.Errorf("error at %q %d:%d, want %q %d:%d",
					syntaxErr.Token.Value, pos.Row, pos.Column, tt.value, tt.row, tt.column)
			}
			if result.Tree != nil {
				t.Error("Tree != nil after syntax error")
			}
		})
	}
}

func TestTokenAt(t *testing.T) {
	result := minic(t).Analyze("int x;\n  return")

	tests := []struct {
		row, column int
		want        lexer.Kind
		ok          bool
	}{
		{1, 1, lexer.KindInt, true},
		{1, 3, lexer.KindInt, true},
		{1, 4, lexer.KindWhitespace, true},
		{1, 5, lexer.KindIdent, true},
		{2, 3, lexer.KindReturn, true},
		{2, 9, 0, false},
		{3, 1, 0, false},
	}

	for _, tt := range tests {
		tok, ok := result.TokenAt(tt.row, tt.column)
		if ok != tt.ok {
			t.Errorf("TokenAt(%d, %d) ok = %v, want %v", tt.row, tt.column, ok, tt.ok)
			continue
		}
		if ok && tok.Kind != tt.want {
			t.Errorf("TokenAt(%d, %d) = %v, want %v", tt.row, tt.column, tok.Kind, tt.want)
		}
	}
}

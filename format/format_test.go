package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
)

const exprGrammar = `%token id + * ( )
E : E + T | T
T : T * F | F
F : ( E ) | id
`

func setup(t *testing.T) (*grammar.Grammar, *lr1.Tables) {
	t.Helper()
	g, err := grammar.Parse("expr", strings.NewReader(exprGrammar))
	if err != nil {
		t.Fatalf("grammar.Parse() error = %v", err)
	}
	tables, err := lr1.BuildTables(g)
	if err != nil {
		t.Fatalf("BuildTables() error = %v", err)
	}
	return g, tables
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"YAML", YAML, false},
		{"table", Table, false},
		{"line", Line, false},
		{"text", Text, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	if got := FromPath("tables.JSON"); got != JSON {
		t.Errorf("FromPath(tables.JSON) = %q, want %q", got, JSON)
	}
	if got := FromPath("tables.yml"); got != YAML {
		t.Errorf("FromPath(tables.yml) = %q, want %q", got, YAML)
	}
}

func TestTokenEncoderTable(t *testing.T) {
	tokens, _ := lexer.Tokenize("int x;")
	var buf bytes.Buffer
	if err := NewTokenEncoder(&buf, Table).Encode(tokens); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Row", "Column", "Value", "TokenKind", "int", "Identifier", `" "`} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenEncoderLine(t *testing.T) {
	tokens, _ := lexer.Tokenize("a\n+ 1")
	var buf bytes.Buffer
	if err := NewTokenEncoder(&buf, Line).Encode(lexer.Terminals(tokens)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "1\t1\tIdentifier\ta\n2\t1\t+\t+\n2\t3\tInteger\t1\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTokenEncoderJSON(t *testing.T) {
	tokens, _ := lexer.Tokenize("x = 'c';")
	var buf bytes.Buffer
	if err := NewTokenEncoder(&buf, JSON).Encode(lexer.Terminals(tokens)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got []tokenData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	terminals := make([]string, len(got))
	for i, tok := range got {
		terminals[i] = tok.Terminal
	}
	if want := []string{"id", "=", "char_lit", ";"}; !reflect.DeepEqual(terminals, want) {
		t.Errorf("terminals = %v, want %v", terminals, want)
	}
}

func TestTreeEncoder(t *testing.T) {
	g, tables := setup(t)
	tokens, _ := lexer.Tokenize("a + b")
	tree, err := lr1.NewParser(g, tables).ConstructTree(tokens)
	if err != nil {
		t.Fatalf("ConstructTree() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf, JSON).Encode(tree); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var root treeNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if root.Label != "E" || len(root.Children) != 3 {
		t.Fatalf("root = %s with %d children, want E with 3", root.Label, len(root.Children))
	}
	if root.Span == nil || root.Span.Start.Column != 1 || root.Span.End.Column != 6 {
		t.Errorf("root span = %+v, want columns 1 to 6", root.Span)
	}
	if plus := root.Children[1]; plus.Value != "+" {
		t.Errorf("middle child value = %q, want +", plus.Value)
	}

	buf.Reset()
	if err := NewTreeEncoder(&buf, YAML).Encode(tree); err != nil {
		t.Fatalf("Encode(yaml) error = %v", err)
	}
	if !strings.Contains(buf.String(), "label: E") {
		t.Errorf("yaml output missing root label:\n%s", buf.String())
	}

	buf.Reset()
	if err := NewTreeEncoder(&buf, Text).Encode(tree); err != nil {
		t.Fatalf("Encode(text) error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "E\n") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, tables := setup(t)

	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeSnapshot(&buf, tables.Snapshot(g), format); err != nil {
				t.Fatalf("EncodeSnapshot() error = %v", err)
			}
			snap, err := DecodeSnapshot(&buf, format)
			if err != nil {
				t.Fatalf("DecodeSnapshot() error = %v", err)
			}
			restored, err := lr1.Restore(g, snap)
			if err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if !reflect.DeepEqual(restored.Action, tables.Action) {
				t.Error("action table differs after round trip")
			}
			if !reflect.DeepEqual(restored.Goto, tables.Goto) {
				t.Error("goto table differs after round trip")
			}
		})
	}
}

func TestWriteReadSnapshot(t *testing.T) {
	g, tables := setup(t)
	path := t.TempDir() + "/tables.yaml"

	if err := WriteSnapshot(path, tables.Snapshot(g)); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}
	if snap.Fingerprint != g.Fingerprint() {
		t.Errorf("Fingerprint = %q, want %q", snap.Fingerprint, g.Fingerprint())
	}
}

func TestActionTable(t *testing.T) {
	g, tables := setup(t)
	out := ActionTable(g, tables)
	for _, want := range []string{"State", "acc", "s1", "E", "#"} {
		if !strings.Contains(out, want) {
			t.Errorf("action table missing %q", want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	g, tables := setup(t)
	_, lexErrs := lexer.Tokenize("a + 0x")
	tokens, _ := lexer.Tokenize("a + *")
	_, syntaxErr := lr1.NewParser(g, tables).ConstructTree(tokens)

	errs := []error{lexErrs[0], syntaxErr, errors.New("plain")}
	var buf bytes.Buffer
	WriteDiagnostics(&buf, "input.c", errs, false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		`input.c:1:5: lexical error: malformed hex literal "0x"`,
		`input.c:1:5: syntax error: unexpected "*", expected one of ( id`,
		`input.c: plain`,
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("diagnostics =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

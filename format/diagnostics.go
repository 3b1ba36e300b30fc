package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
)

// Diagnostic is one error located in a source file.
type Diagnostic struct {
	Row     int
	Column  int
	Kind    string
	Message string
}

// NewDiagnostic locates err if it is a lexical or syntax error. Other errors
// get no position and no kind.
func NewDiagnostic(err error) Diagnostic {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return Diagnostic{
			Row:     lexErr.Row(),
			Column:  lexErr.Column(),
			Kind:    "lexical",
			Message: fmt.Sprintf("%s %q", lexErr.Message, lexErr.Text),
		}
	}

	var syntaxErr *lr1.SyntaxError
	if errors.As(err, &syntaxErr) {
		pos := syntaxErr.Token.Pos()
		return Diagnostic{
			Row:     pos.Row,
			Column:  pos.Column,
			Kind:    "syntax",
			Message: syntaxMessage(syntaxErr),
		}
	}

	return Diagnostic{Message: err.Error()}
}

func syntaxMessage(err *lr1.SyntaxError) string {
	var msg string
	if err.Token.Kind == lexer.KindEnd {
		msg = "unexpected end of input"
	} else {
		msg = fmt.Sprintf("unexpected %q", err.Token.Value)
	}
	if len(err.Expected) > 0 {
		msg += ", expected one of " + strings.Join(err.Expected, " ")
	}
	return msg
}

// WriteDiagnostics prints one line per error as
// "file:row:col: kind error: message".
// Styled output colors the location.
func WriteDiagnostics(w io.Writer, file string, errs []error, styled bool) {
	for _, err := range errs {
		d := NewDiagnostic(err)
		location := file
		if d.Row > 0 {
			location = fmt.Sprintf("%s:%d:%d", file, d.Row, d.Column)
		}
		if styled {
			location = errorStyle.Render(location)
		}
		if d.Kind == "" {
			fmt.Fprintf(w, "%s: %s\n", location, d.Message)
			continue
		}
		fmt.Fprintf(w, "%s: %s error: %s\n", location, d.Kind, d.Message)
	}
}

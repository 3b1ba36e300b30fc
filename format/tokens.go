package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dhamidi/cfront/lexer"
	"gopkg.in/yaml.v3"
)

var (
	colorHeader = lipgloss.Color("#7C3AED")
	colorMuted  = lipgloss.Color("#6B7280")
	colorError  = lipgloss.Color("#EF4444")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// TokenEncoder writes a token listing. The table format shows row, column,
// value and kind like an editor's token panel.
type TokenEncoder struct {
	w      io.Writer
	format Format
}

func NewTokenEncoder(w io.Writer, format Format) *TokenEncoder {
	return &TokenEncoder{w: w, format: format}
}

func (e *TokenEncoder) Encode(tokens []lexer.Token) error {
	text, err := e.MarshalText(tokens)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText(tokens []lexer.Token) ([]byte, error) {
	switch e.format {
	case Table:
		return []byte(tokenTable(tokens) + "\n"), nil
	case Line, Text:
		return []byte(tokenLines(tokens)), nil
	case JSON:
		data, err := json.MarshalIndent(tokensToData(tokens), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case YAML:
		return yaml.Marshal(tokensToData(tokens))
	}
	return nil, fmt.Errorf("tokens: unsupported format %q", e.format)
}

func tokenTable(tokens []lexer.Token) string {
	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{
			strconv.Itoa(tok.Span.Start.Row),
			strconv.Itoa(tok.Span.Start.Column),
			displayValue(tok),
			tok.Kind.String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < 2:
				return mutedStyle
			}
			return cellStyle
		}).
		Headers("Row", "Column", "Value", "TokenKind").
		Rows(rows...)

	return t.Render()
}

func tokenLines(tokens []lexer.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d\t%d\t%s\t%s\n", tok.Span.Start.Row, tok.Span.Start.Column, tok.Kind, displayValue(tok))
	}
	return sb.String()
}

// displayValue quotes values that would break a one-line listing.
func displayValue(tok lexer.Token) string {
	if tok.Kind == lexer.KindWhitespace || strings.ContainsAny(tok.Value, "\n\t\r") {
		return strconv.Quote(tok.Value)
	}
	return tok.Value
}

type tokenData struct {
	Row      int    `json:"row" yaml:"row"`
	Column   int    `json:"column" yaml:"column"`
	Kind     string `json:"kind" yaml:"kind"`
	Terminal string `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Value    string `json:"value" yaml:"value"`
}

func tokensToData(tokens []lexer.Token) []tokenData {
	result := make([]tokenData, len(tokens))
	for i, tok := range tokens {
		result[i] = tokenData{
			Row:      tok.Span.Start.Row,
			Column:   tok.Span.Start.Column,
			Kind:     tok.Kind.String(),
			Terminal: tok.Terminal(),
			Value:    tok.Value,
		}
	}
	return result
}

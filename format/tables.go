package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lr1"
	"gopkg.in/yaml.v3"
)

// EncodeSnapshot writes snap as JSON or YAML.
func EncodeSnapshot(w io.Writer, snap *lr1.Snapshot, format Format) error {
	return EncodeData(w, snap, format)
}

func DecodeSnapshot(r io.Reader, format Format) (*lr1.Snapshot, error) {
	var snap lr1.Snapshot
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("snapshot: unsupported format %q", format)
	}
	return &snap, nil
}

// WriteSnapshot stores snap at path, choosing the encoding by extension.
// Missing parent directories are created.
func WriteSnapshot(path string, snap *lr1.Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap, FromPath(path)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (*lr1.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := DecodeSnapshot(f, FromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

// ActionTable renders the action and goto tables with one row per state
// and one column per symbol.
func ActionTable(g *grammar.Grammar, t *lr1.Tables) string {
	terminals := g.Terminals()
	nonterminals := g.Nonterminals()

	headers := []string{"State"}
	for _, sym := range terminals {
		headers = append(headers, g.Name(sym))
	}
	for _, sym := range nonterminals {
		headers = append(headers, g.Name(sym))
	}

	rows := make([][]string, 0, t.NumStates())
	for i := 0; i < t.NumStates(); i++ {
		row := []string{strconv.Itoa(i)}
		for _, sym := range terminals {
			cell := ""
			if action, ok := t.Action[i][sym]; ok {
				cell = action.String()
			}
			row = append(row, cell)
		}
		for _, sym := range nonterminals {
			cell := ""
			if target, ok := t.Goto[i][sym]; ok {
				cell = strconv.Itoa(target)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	firstGoto := 1 + len(terminals)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0, col >= firstGoto:
				return mutedStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

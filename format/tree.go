package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
	"gopkg.in/yaml.v3"
)

type TreeEncoder struct {
	w      io.Writer
	format Format
}

func NewTreeEncoder(w io.Writer, format Format) *TreeEncoder {
	return &TreeEncoder{w: w, format: format}
}

func (e *TreeEncoder) Encode(node *lr1.TreeNode) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node *lr1.TreeNode) ([]byte, error) {
	switch e.format {
	case JSON:
		data, err := json.MarshalIndent(treeToData(node), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case YAML:
		return yaml.Marshal(treeToData(node))
	case Text, Line, Table:
		return []byte(node.StringWithPositions()), nil
	}
	return nil, fmt.Errorf("tree: unsupported format %q", e.format)
}

type treeNode struct {
	Label    string      `json:"label" yaml:"label"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`
	Span     *spanData   `json:"span,omitempty" yaml:"span,omitempty"`
	Children []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type spanData struct {
	Start positionData `json:"start" yaml:"start"`
	End   positionData `json:"end" yaml:"end"`
}

type positionData struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

func newSpanData(span lexer.Span) *spanData {
	if !span.Start.IsValid() {
		return nil
	}
	return &spanData{
		Start: positionData{Row: span.Start.Row, Column: span.Start.Column},
		End:   positionData{Row: span.End.Row, Column: span.End.Column},
	}
}

// treeToData derives the span of an internal node from its children.
func treeToData(n *lr1.TreeNode) *treeNode {
	tn := &treeNode{Label: n.Label}
	if n.Token != nil {
		tn.Value = n.Token.Value
		tn.Span = newSpanData(n.Token.Span)
	}
	if len(n.Children) == 0 {
		return tn
	}

	tn.Children = make([]*treeNode, len(n.Children))
	for i, child := range n.Children {
		tn.Children[i] = treeToData(child)
	}
	var first, last *spanData
	for _, child := range tn.Children {
		if child.Span == nil {
			continue
		}
		if first == nil {
			first = child.Span
		}
		last = child.Span
	}
	if first != nil {
		tn.Span = &spanData{Start: first.Start, End: last.End}
	}
	return tn
}

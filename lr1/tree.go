package lr1

import (
	"strings"

	"github.com/dhamidi/cfront/lexer"
)

// TreeNode is a node of a concrete parse tree. Leaves wrap the shifted
// token; internal nodes are labeled with the head of the reduced production
// and keep the body's nodes as ordered children. A node reduced from an
// empty production has neither token nor children.
type TreeNode struct {
	Label    string
	Token    *lexer.Token
	Children []*TreeNode
}

func newLeaf(tok lexer.Token) *TreeNode {
	return &TreeNode{Label: tok.Terminal(), Token: &tok}
}

func (n *TreeNode) IsLeaf() bool {
	return n.Token != nil
}

// Leaves returns the tokens of the tree's leaves from left to right.
func (n *TreeNode) Leaves() []lexer.Token {
	var result []lexer.Token
	n.Walk(func(node *TreeNode) bool {
		if node.Token != nil {
			result = append(result, *node.Token)
		}
		return true
	})
	return result
}

// Walk visits n and its descendants depth-first, left to right. Children
// of a node are skipped when fn returns false for it.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Span covers the leaves of the node. It is the zero Span for a node
// without leaves.
func (n *TreeNode) Span() lexer.Span {
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return lexer.Span{}
	}
	return lexer.Span{Start: leaves[0].Span.Start, End: leaves[len(leaves)-1].Span.End}
}

func (n *TreeNode) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *TreeNode) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *TreeNode) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Label)
	if n.Token != nil {
		if n.Token.Value != n.Label {
			b.WriteString(" ")
			b.WriteString(n.Token.Value)
		}
		if showPositions {
			b.WriteString(" [")
			b.WriteString(n.Token.Pos().String())
			b.WriteString("]")
		}
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}

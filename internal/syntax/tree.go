package syntax

import "strings"

// Token is one lexed token with its source position.
type Token struct {
	Kind TokenKind
	Text string
	Line int // 1-based
	Col  int // 1-based
}

// Element is either a *Node or a *Leaf.
type Element interface {
	element()
}

// Node is an interior syntax-tree node with a tagged kind.
type Node struct {
	Kind     NodeKind
	Children []Element
}

func (*Node) element() {}

// Leaf wraps a single token.
type Leaf struct {
	Token Token
}

func (*Leaf) element() {}

// NewNode builds a node from the given children.
func NewNode(kind NodeKind, children ...Element) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewLeaf builds a leaf around a token.
func NewLeaf(tok Token) *Leaf {
	return &Leaf{Token: tok}
}

// AddChild appends a child element.
func (n *Node) AddChild(child Element) {
	n.Children = append(n.Children, child)
}

// MatchesKind reports whether the node carries the given kind.
func (n *Node) MatchesKind(kind NodeKind) bool {
	return n.Kind == kind
}

// MatchesKindAnyOf reports whether the node carries any of the given kinds.
func (n *Node) MatchesKindAnyOf(kinds ...NodeKind) bool {
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// LastNodeChild returns the last child that is a *Node, or nil.
func (n *Node) LastNodeChild() *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if child, ok := n.Children[i].(*Node); ok {
			return child
		}
	}
	return nil
}

// FirstNodeChild returns the first child that is a *Node, or nil.
func (n *Node) FirstNodeChild() *Node {
	for _, child := range n.Children {
		if node, ok := child.(*Node); ok {
			return node
		}
	}
	return nil
}

// FirstLeafOfKind returns the first direct leaf child with the given token
// kind, or nil.
func (n *Node) FirstLeafOfKind(kind TokenKind) *Leaf {
	for _, child := range n.Children {
		if leaf, ok := child.(*Leaf); ok && leaf.Token.Kind == kind {
			return leaf
		}
	}
	return nil
}

// LeftmostLeaf returns the first leaf in the subtree, or nil for a subtree
// with no leaves.
func LeftmostLeaf(el Element) *Leaf {
	switch e := el.(type) {
	case *Leaf:
		return e
	case *Node:
		for _, child := range e.Children {
			if leaf := LeftmostLeaf(child); leaf != nil {
				return leaf
			}
		}
	}
	return nil
}

// SpanText reconstructs an approximate source span of the subtree by
// joining its leaf texts. Used for human-readable output only.
func SpanText(el Element) string {
	var parts []string
	collectLeafTexts(el, &parts)
	return strings.Join(parts, " ")
}

func collectLeafTexts(el Element, out *[]string) {
	switch e := el.(type) {
	case *Leaf:
		if e.Token.Text != "" {
			*out = append(*out, e.Token.Text)
		}
	case *Node:
		for _, child := range e.Children {
			collectLeafTexts(child, out)
		}
	}
}

// StripOuterQuotes removes one pair of surrounding double quotes if present.
func StripOuterQuotes(text string) string {
	text = strings.TrimPrefix(text, "\"")
	return strings.TrimSuffix(text, "\"")
}

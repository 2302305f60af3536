package syntax

// Accessors for the handful of named constructs the symbol-table builder
// reads without visiting. Each returns nil when the construct is malformed
// (e.g. produced by error recovery); callers treat nil as "skip".

// DeclaredNameLeaf returns the first direct identifier leaf of a named
// declaration (module, package, class, interface, gate instance,
// net/register variable).
func DeclaredNameLeaf(node *Node) *Leaf {
	return node.FirstLeafOfKind(TokenIdentifier)
}

// HeaderID returns the identifier node of a function or task header:
// either an unqualified-id, or a qualified-id for an out-of-line
// definition.
func HeaderID(header *Node) *Node {
	for _, child := range header.Children {
		if node, ok := child.(*Node); ok &&
			node.MatchesKindAnyOf(KindUnqualifiedID, KindQualifiedID) {
			return node
		}
	}
	return nil
}

// GenerateClauseBody returns the body of a generate-if or generate-else
// clause: its last node child (a generate block, a single item, or a
// nested conditional construct).
func GenerateClauseBody(clause *Node) *Node {
	return clause.LastNodeChild()
}

// BeginLabel returns the begin-label leaf of a generate block
// ("begin : label"), or nil when the block is unlabeled.
func BeginLabel(block *Node) *Leaf {
	if !block.MatchesKind(KindGenerateBlock) {
		return nil
	}
	sawColon := false
	for _, child := range block.Children {
		leaf, ok := child.(*Leaf)
		if !ok {
			// The label can only appear before the first nested item.
			return nil
		}
		switch {
		case leaf.Token.Kind == TokenColon:
			sawColon = true
		case sawColon && leaf.Token.Kind == TokenIdentifier:
			return leaf
		case leaf.Token.Kind == TokenKeyword && leaf.Token.Text == "begin":
			continue
		default:
			return nil
		}
	}
	return nil
}

// IncludeFilenameLeaf returns the quoted filename leaf of a
// preprocessor-include node.
func IncludeFilenameLeaf(include *Node) *Leaf {
	return include.FirstLeafOfKind(TokenString)
}

// CountChildrenOfKind counts direct node children of the given kind.
// The builder uses this to pre-reserve sibling slots for named actuals.
func CountChildrenOfKind(node *Node, kind NodeKind) int {
	count := 0
	for _, child := range node.Children {
		if n, ok := child.(*Node); ok && n.Kind == kind {
			count++
		}
	}
	return count
}

package syntax

// Visitor is implemented by tree consumers. The walker calls VisitNode for
// interior nodes and VisitLeaf for tokens; a VisitNode implementation
// decides whether to descend by calling Walker.DescendChildren.
type Visitor interface {
	VisitNode(node *Node)
	VisitLeaf(leaf *Leaf)
}

// Context is the stack of ancestor nodes of the element currently being
// visited, innermost last.
type Context struct {
	stack []*Node
}

func (c *Context) push(node *Node) {
	c.stack = append(c.stack, node)
}

func (c *Context) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// Empty reports whether there are no ancestors.
func (c *Context) Empty() bool {
	return len(c.stack) == 0
}

// Top returns the innermost ancestor, or nil.
func (c *Context) Top() *Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// DirectParentIs reports whether the innermost ancestor has the given kind.
func (c *Context) DirectParentIs(kind NodeKind) bool {
	top := c.Top()
	return top != nil && top.Kind == kind
}

// DirectParentIsOneOf reports whether the innermost ancestor has any of the
// given kinds.
func (c *Context) DirectParentIsOneOf(kinds ...NodeKind) bool {
	top := c.Top()
	if top == nil {
		return false
	}
	return top.MatchesKindAnyOf(kinds...)
}

// DirectParentsAre matches the innermost ancestors against the given kind
// sequence, innermost first.
func (c *Context) DirectParentsAre(kinds ...NodeKind) bool {
	if len(kinds) > len(c.stack) {
		return false
	}
	for i, kind := range kinds {
		if c.stack[len(c.stack)-1-i].Kind != kind {
			return false
		}
	}
	return true
}

// NearestParentMatching returns the innermost ancestor satisfying the
// predicate, or nil.
func (c *Context) NearestParentMatching(pred func(*Node) bool) *Node {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if pred(c.stack[i]) {
			return c.stack[i]
		}
	}
	return nil
}

// NearestParentWithKind returns the innermost ancestor of the given kind,
// or nil.
func (c *Context) NearestParentWithKind(kind NodeKind) *Node {
	return c.NearestParentMatching(func(n *Node) bool { return n.Kind == kind })
}

// Walker maintains the ancestor context while a Visitor traverses a tree.
// The visitor's VisitNode must call DescendChildren to continue into a
// node's subtree; the walker guarantees the context stack is restored on
// every exit path.
type Walker struct {
	ctx Context
}

// Context exposes the current ancestor stack.
func (w *Walker) Context() *Context {
	return &w.ctx
}

// DescendChildren pushes node onto the context stack and visits each of
// its children in order.
func (w *Walker) DescendChildren(node *Node, v Visitor) {
	w.ctx.push(node)
	defer w.ctx.pop()
	for _, child := range node.Children {
		switch c := child.(type) {
		case *Node:
			v.VisitNode(c)
		case *Leaf:
			v.VisitLeaf(c)
		}
	}
}

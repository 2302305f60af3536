// Package analysis builds a hierarchical symbol table from parsed
// SystemVerilog sources and resolves the identifier references collected
// along the way. Building and resolving are separate passes: the builder
// records declarations and unresolved reference trees per scope, and the
// resolver later binds each reference component to a scope-tree node or
// reports a diagnostic.
package analysis

import (
	"fmt"
	"strings"

	"github.com/mtikekar/verible/internal/diag"
	"github.com/mtikekar/verible/internal/project"
	"github.com/mtikekar/verible/internal/syntax"
)

// SymbolKind is the metatype of a declared symbol. It doubles as the
// constraint a reference can place on what it expects to resolve to.
type SymbolKind int

const (
	KindUnspecified SymbolKind = iota
	KindRoot
	KindModule
	KindPackage
	KindClass
	KindInterface
	KindGenerate
	KindFunction
	KindTask
	KindParameter
	KindTypeAlias
	KindDataNetVariableInstance
	// KindCallable is a lookup-time wildcard satisfied by either a
	// function or a task.
	KindCallable
)

var symbolKindNames = map[SymbolKind]string{
	KindUnspecified:             "<unspecified>",
	KindRoot:                    "<root>",
	KindModule:                  "module",
	KindPackage:                 "package",
	KindClass:                   "class",
	KindInterface:               "interface",
	KindGenerate:                "generate",
	KindFunction:                "function",
	KindTask:                    "task",
	KindParameter:               "parameter",
	KindTypeAlias:               "typedef",
	KindDataNetVariableInstance: "data/net/var/instance",
	KindCallable:                "<callable>",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "<unknown>"
}

// ReferenceType classifies how one reference component is looked up.
type ReferenceType int

const (
	// RefUnqualified names are searched upward through parent scopes.
	RefUnqualified ReferenceType = iota
	// RefImmediate names resolve in the anchoring scope only, without
	// upward search (the outer of an out-of-line definition).
	RefImmediate
	// RefDirectMember names resolve inside the scope of the resolved
	// parent reference ("::" access, and named parameters).
	RefDirectMember
	// RefMemberOfTypeOfParent names resolve inside the scope of the
	// declared type of the resolved parent reference ("." access).
	RefMemberOfTypeOfParent
)

// Sigils used when printing reference paths.
var referenceTypeSigils = map[ReferenceType]string{
	RefUnqualified:          "@",
	RefImmediate:            "!",
	RefDirectMember:         "::",
	RefMemberOfTypeOfParent: ".",
}

func (t ReferenceType) String() string {
	if sigil, ok := referenceTypeSigils[t]; ok {
		return sigil
	}
	return "?"
}

// ReferenceComponent is one atom in a reference path.
type ReferenceComponent struct {
	Identifier string
	RefType    ReferenceType

	// Metatype constrains what the resolved symbol may be;
	// KindUnspecified accepts anything.
	Metatype SymbolKind

	// ResolvedSymbol is set at most once, by the resolver or by the
	// builder for self-references. It is a view into the scope tree,
	// never owned.
	ResolvedSymbol *SymbolTableNode
}

// MatchesMetatype checks the found symbol kind against this component's
// expectation. KindCallable accepts functions and tasks.
func (rc *ReferenceComponent) MatchesMetatype(found SymbolKind) error {
	switch rc.Metatype {
	case KindUnspecified:
		return nil
	case KindCallable:
		if found == KindFunction || found == KindTask {
			return nil
		}
	default:
		if rc.Metatype == found {
			return nil
		}
	}
	return diag.New(diag.CategoryMetatypeMismatch,
		"Expecting reference %q to resolve to a %s, but found a %s.",
		rc.Identifier, rc.Metatype, found)
}

// PathComponent renders this component as sigil + identifier, plus the
// metatype constraint when one is specified.
func (rc *ReferenceComponent) PathComponent() string {
	s := rc.RefType.String() + rc.Identifier
	if rc.Metatype != KindUnspecified {
		s += "[" + rc.Metatype.String() + "]"
	}
	return s
}

func (rc *ReferenceComponent) String() string {
	if rc.ResolvedSymbol == nil {
		return rc.PathComponent() + " -> <unresolved>"
	}
	return rc.PathComponent() + " -> " + rc.ResolvedSymbol.FullPath()
}

func (rc *ReferenceComponent) verifyRoot(root *SymbolTableNode) error {
	if rc.ResolvedSymbol != nil && rc.ResolvedSymbol.Root() != root {
		return fmt.Errorf("resolved symbol for %q points outside this symbol table", rc.Identifier)
	}
	return nil
}

// ReferenceComponentNode is a node in a reference tree. Children either
// chain deeper in the name or branch as siblings (named ports, named
// parameters).
type ReferenceComponentNode struct {
	Component ReferenceComponent
	Parent    *ReferenceComponentNode
	Children  []*ReferenceComponentNode
}

// IsLeaf reports whether this node has no children.
func (n *ReferenceComponentNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// ApplyPreOrder visits this node, then each child subtree in order.
func (n *ReferenceComponentNode) ApplyPreOrder(fn func(*ReferenceComponentNode)) {
	fn(n)
	for _, child := range n.Children {
		child.ApplyPreOrder(fn)
	}
}

// FullPath renders the components from the tree root down to this node.
func (n *ReferenceComponentNode) FullPath() string {
	if n.Parent == nil {
		return n.Component.PathComponent()
	}
	return n.Parent.FullPath() + n.Component.PathComponent()
}

// reserveChildren guarantees capacity for extra more children so that
// subsequent appends cannot relocate existing sibling slots.
func reserveChildren(n *ReferenceComponentNode, extra int) {
	if cap(n.Children)-len(n.Children) >= extra {
		return
	}
	grown := make([]*ReferenceComponentNode, len(n.Children), len(n.Children)+extra)
	copy(grown, n.Children)
	n.Children = grown
}

// checkedNewChild appends a child and verifies that the sibling slots did
// not move; once any sibling's address has been handed out, relocation
// would corrupt it. The builder pre-reserves capacity at every branch
// point, so a relocation here is a programming error.
func checkedNewChild(parent *ReferenceComponentNode, component ReferenceComponent) *ReferenceComponentNode {
	child := &ReferenceComponentNode{Component: component, Parent: parent}
	var savedSlot **ReferenceComponentNode
	if len(parent.Children) > 0 {
		savedSlot = &parent.Children[0]
	}
	parent.Children = append(parent.Children, child)
	if len(parent.Children) > 1 && savedSlot != &parent.Children[0] {
		panic(fmt.Sprintf(
			"reallocation invalidated pointers to reference nodes at %s; pre-reserve child nodes",
			parent.FullPath()))
	}
	return child
}

// DependentReferences owns one reference component tree. The root is nil
// until the first component is pushed.
type DependentReferences struct {
	Root *ReferenceComponentNode
}

// Empty reports whether no components have been collected.
func (d *DependentReferences) Empty() bool {
	return d.Root == nil
}

// LastLeaf returns the deepest leftmost node of the tree, or nil.
func (d *DependentReferences) LastLeaf() *ReferenceComponentNode {
	if d.Root == nil {
		return nil
	}
	node := d.Root
	for !node.IsLeaf() {
		node = node.Children[0]
	}
	return node
}

// PushReferenceComponent grows the chain one level deeper at the
// deepest leftmost leaf.
func (d *DependentReferences) PushReferenceComponent(component ReferenceComponent) {
	if d.Root == nil {
		d.Root = &ReferenceComponentNode{Component: component}
		return
	}
	checkedNewChild(d.LastLeaf(), component)
}

func (d *DependentReferences) verifyRoot(root *SymbolTableNode) error {
	if d.Root == nil {
		return nil
	}
	var firstErr error
	d.Root.ApplyPreOrder(func(n *ReferenceComponentNode) {
		if err := n.Component.verifyRoot(root); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

func (d *DependentReferences) String() string {
	if d.Root == nil {
		return "(empty-ref)"
	}
	var sb strings.Builder
	printRefTree(&sb, d.Root, 0)
	return strings.TrimRight(sb.String(), "\n")
}

// DeclarationTypeInfo records the declared type of a typed symbol: the
// type's syntax origin, and for user-defined types a pointer to the last
// node of the reference chain naming the type. A nil UserDefinedType
// means a primitive or implicit type.
type DeclarationTypeInfo struct {
	SyntaxOrigin    syntax.Element
	UserDefinedType *ReferenceComponentNode
}

func (d *DeclarationTypeInfo) verifyRoot(root *SymbolTableNode) error {
	if d.UserDefinedType == nil {
		return nil
	}
	var firstErr error
	d.UserDefinedType.ApplyPreOrder(func(n *ReferenceComponentNode) {
		if err := n.Component.verifyRoot(root); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

func (d *DeclarationTypeInfo) String() string {
	source := "(unknown)"
	if d.SyntaxOrigin != nil {
		source = fmt.Sprintf("%q", truncate(syntax.SpanText(d.SyntaxOrigin), 25))
	}
	typeRef := "(primitive)"
	if d.UserDefinedType != nil {
		typeRef = d.UserDefinedType.Component.String()
	}
	return fmt.Sprintf("type-info { source: %s, type ref: %s }", source, typeRef)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// SymbolInfo is the record stored at a scope node.
type SymbolInfo struct {
	Metatype SymbolKind

	// FileOrigin is the source file that introduced this symbol. It
	// follows include transitions.
	FileOrigin *project.SourceFile

	// SyntaxOrigin points into the external parser's tree for the
	// declaring construct.
	SyntaxOrigin syntax.Element

	// DeclaredType is meaningful for typed symbols (nets, variables,
	// instances, parameters, function return types).
	DeclaredType DeclarationTypeInfo

	// LocalReferencesToBind are the reference trees anchored in this
	// scope, in collection order.
	LocalReferencesToBind []*DependentReferences

	// anonymousScopeNames owns the generated names of synthesized child
	// scopes; their addresses are stable for this symbol's lifetime.
	anonymousScopeNames []string
}

// CreateAnonymousScope mints a unique scope name of the form
// "%anon-<base>-<n>". The leading "%" cannot start a user identifier,
// so generated names never collide with declared ones.
func (s *SymbolInfo) CreateAnonymousScope(base string) string {
	name := fmt.Sprintf("%%anon-%s-%d", base, len(s.anonymousScopeNames))
	s.anonymousScopeNames = append(s.anonymousScopeNames, name)
	return name
}

func (s *SymbolInfo) verifyRoot(root *SymbolTableNode) error {
	if err := s.DeclaredType.verifyRoot(root); err != nil {
		return err
	}
	for _, ref := range s.LocalReferencesToBind {
		if err := ref.verifyRoot(root); err != nil {
			return err
		}
	}
	return nil
}

func (s *SymbolInfo) resolve(context *SymbolTableNode, diags *[]diag.Diagnostic) {
	for _, ref := range s.LocalReferencesToBind {
		ref.Resolve(context, diags)
	}
}

func (s *SymbolInfo) resolveLocally(context *SymbolTableNode) {
	for _, ref := range s.LocalReferencesToBind {
		ref.ResolveLocally(context)
	}
}

// SymbolTableNode is one scope. The node is the symbol's identity: a
// symbol record lives and dies with its scope node.
type SymbolTableNode struct {
	key      *string
	parent   *SymbolTableNode
	children map[string]*SymbolTableNode
	// childOrder preserves insertion order for deterministic traversal.
	childOrder []string

	Info SymbolInfo
}

// Key returns the declared name, or nil at the root.
func (n *SymbolTableNode) Key() *string {
	return n.key
}

// Parent returns the enclosing scope, or nil at the root.
func (n *SymbolTableNode) Parent() *SymbolTableNode {
	return n.parent
}

// Root walks to the top of the scope tree.
func (n *SymbolTableNode) Root() *SymbolTableNode {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Find looks up a direct child by name, without upward search.
func (n *SymbolTableNode) Find(name string) *SymbolTableNode {
	return n.children[name]
}

// TryEmplace inserts a child scope if the name is free and returns the
// resident node either way, with an inserted flag. Reinsertion never
// replaces: the caller diagnoses it.
func (n *SymbolTableNode) TryEmplace(name string, info SymbolInfo) (*SymbolTableNode, bool) {
	if existing, ok := n.children[name]; ok {
		return existing, false
	}
	if n.children == nil {
		n.children = make(map[string]*SymbolTableNode)
	}
	key := name
	child := &SymbolTableNode{key: &key, parent: n, Info: info}
	n.children[name] = child
	n.childOrder = append(n.childOrder, name)
	return child, true
}

// ChildNames returns direct child names in insertion order.
func (n *SymbolTableNode) ChildNames() []string {
	return n.childOrder
}

// ApplyPreOrder visits this scope, then each child subtree in insertion
// order.
func (n *SymbolTableNode) ApplyPreOrder(fn func(*SymbolTableNode)) {
	fn(n)
	for _, name := range n.childOrder {
		n.children[name].ApplyPreOrder(fn)
	}
}

const rootName = "$root"

// FullPath renders "$root::A::B".
func (n *SymbolTableNode) FullPath() string {
	if n.parent == nil {
		return rootName
	}
	return n.parent.FullPath() + "::" + *n.key
}

// SymbolTable is the scope tree plus the project used to open included
// files. The tree outlives every pointer handed out from it.
type SymbolTable struct {
	project *project.Project
	root    SymbolTableNode
}

// NewSymbolTable creates an empty table. The project may be nil, in
// which case `include directives are ignored.
func NewSymbolTable(proj *project.Project) *SymbolTable {
	st := &SymbolTable{project: proj}
	st.root.Info.Metatype = KindRoot
	return st
}

// Root returns the mutable root scope.
func (st *SymbolTable) Root() *SymbolTableNode {
	return &st.root
}

// Build parses every translation unit in the project and amends the
// symbol table with each one. All findings are collected, never raised.
func (st *SymbolTable) Build() []diag.Diagnostic {
	if st.project == nil {
		return nil
	}
	var diags []diag.Diagnostic
	for _, unit := range st.project.TranslationUnits() {
		parseFileAndBuildSymbolTable(unit, st, st.project, &diags)
	}
	return diags
}

// BuildSingleTranslationUnit opens one file by name and amends the
// symbol table with it.
func (st *SymbolTable) BuildSingleTranslationUnit(name string) []diag.Diagnostic {
	var diags []diag.Diagnostic
	unit, err := st.project.OpenTranslationUnit(name)
	if err != nil {
		return []diag.Diagnostic{diag.New(diag.CategoryIncludeFailure, "%s", err)}
	}
	parseFileAndBuildSymbolTable(unit, st, st.project, &diags)
	return diags
}

func parseFileAndBuildSymbolTable(source *project.SourceFile, st *SymbolTable,
	proj *project.Project, diags *[]diag.Diagnostic) {
	if err := source.Parse(); err != nil {
		*diags = append(*diags, diag.New(diag.CategoryParseFailure, "%s", err))
		// Continue: error recovery may have left a partial syntax tree.
	}
	*diags = append(*diags, BuildSymbolTable(source, st, proj)...)
}

// Resolve binds every reference tree in every scope, pre-order. Already
// resolved components are skipped, so resolved pointers are stable
// across repeated calls; components that failed to bind are re-examined
// and re-diagnosed (deduplication is left to the caller).
func (st *SymbolTable) Resolve() []diag.Diagnostic {
	var diags []diag.Diagnostic
	st.root.ApplyPreOrder(func(node *SymbolTableNode) {
		node.Info.resolve(node, &diags)
	})
	return diags
}

// ResolveLocallyOnly binds only the root component of each reference
// tree, against exactly its anchoring scope, without upward search.
func (st *SymbolTable) ResolveLocallyOnly() {
	st.root.ApplyPreOrder(func(node *SymbolTableNode) {
		node.Info.resolveLocally(node)
	})
}

// CheckIntegrity verifies that every resolved-symbol and
// user-defined-type pointer reachable from this table points back into
// this table's own scope tree.
func (st *SymbolTable) CheckIntegrity() error {
	root := &st.root
	var firstErr error
	st.root.ApplyPreOrder(func(node *SymbolTableNode) {
		if err := node.Info.verifyRoot(root); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

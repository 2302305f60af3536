package analysis

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/mtikekar/verible/internal/diag"
	"github.com/mtikekar/verible/internal/project"
	"github.com/mtikekar/verible/internal/syntax"
)

// BuildSymbolTable amends the symbol table by analyzing one parsed
// source file. Returned diagnostics are in encounter order.
func BuildSymbolTable(source *project.SourceFile, symbolTable *SymbolTable,
	proj *project.Project) []diag.Diagnostic {
	text := source.TextStructure()
	if text == nil || text.SyntaxTree == nil {
		return nil
	}
	b := &builder{
		source:       source,
		project:      proj,
		currentScope: symbolTable.Root(),
	}
	b.VisitNode(text.SyntaxTree)
	return b.diagnostics
}

// save stores a context scalar's prior value and returns the restore
// function; callers defer it so every mutation is paired with a restore
// on every exit path.
func save[T any](slot *T, value T) func() {
	prev := *slot
	*slot = value
	return func() { *slot = prev }
}

// builder is the per-file syntax-tree walker. It declares scopes for
// declarations and records trees of unresolved references anchored in
// the scope where they textually appear.
type builder struct {
	walker syntax.Walker

	// source is the origin of declared symbols. It changes while
	// traversing `include files.
	source *project.SourceFile

	project *project.Project

	// currentScope is where encountered declarations register their
	// symbols, never nil. No stack is needed: scope nodes link to their
	// parents, and scoped descents save/restore this pointer.
	currentScope *SymbolTableNode

	// referenceBuilders is a stack: nested reference contexts (a type
	// inside a type, a call inside a call) collect into separate trees.
	referenceBuilders []*DependentReferences

	// referenceBranchPoint is the node under which sibling-style
	// references (named ports, named parameters) attach.
	referenceBranchPoint *ReferenceComponentNode

	// declarationTypeInfo is non-nil only while traversing a subtree
	// that is collecting the declared type of an enclosing declaration.
	declarationTypeInfo *DeclarationTypeInfo

	// lastHierarchyOperator is the "::" or "." most recently seen,
	// consulted to classify the next identifier.
	lastHierarchyOperator *syntax.Token

	diagnostics []diag.Diagnostic
}

func (b *builder) context() *syntax.Context {
	return b.walker.Context()
}

func (b *builder) descend(node *syntax.Node) {
	b.walker.DescendChildren(node, b)
}

func (b *builder) descendInScope(node *syntax.Node, scope *SymbolTableNode) {
	defer save(&b.currentScope, scope)()
	b.descend(node)
}

// beginCapture pushes a fresh reference tree; endCapture commits it to
// the current scope's reference list if anything was collected. The two
// always pair via defer.
func (b *builder) beginCapture() {
	b.referenceBuilders = append(b.referenceBuilders, &DependentReferences{})
}

func (b *builder) endCapture() {
	top := b.referenceBuilders[len(b.referenceBuilders)-1]
	b.referenceBuilders = b.referenceBuilders[:len(b.referenceBuilders)-1]
	if !top.Empty() {
		b.currentScope.Info.LocalReferencesToBind =
			append(b.currentScope.Info.LocalReferencesToBind, top)
	}
}

func (b *builder) captureRef() *DependentReferences {
	return b.referenceBuilders[len(b.referenceBuilders)-1]
}

func (b *builder) VisitNode(node *syntax.Node) {
	log.WithField("kind", node.Kind).Trace("visit node")
	switch node.Kind {
	case syntax.KindModuleDeclaration:
		b.declareScopedElement(node, KindModule)
	case syntax.KindInterfaceDeclaration:
		b.declareScopedElement(node, KindInterface)
	case syntax.KindPackageDeclaration:
		b.declareScopedElement(node, KindPackage)
	case syntax.KindClassDeclaration:
		b.declareScopedElement(node, KindClass)
	case syntax.KindGenerateIfClause:
		b.declareGenerateIf(node)
	case syntax.KindGenerateElseClause:
		b.declareGenerateElse(node)
	case syntax.KindFunctionDeclaration, syntax.KindFunctionPrototype:
		b.declareRoutine(node)
	case syntax.KindFunctionHeader:
		b.setupFunctionHeader(node)
	case syntax.KindTaskDeclaration, syntax.KindTaskPrototype:
		b.declareRoutine(node)
		// Task headers need no special setup: tasks have no return type.
	case syntax.KindPortList:
		b.declarePorts(node)
	case syntax.KindPortItem, syntax.KindPortDeclaration,
		syntax.KindNetDeclaration, syntax.KindDataDeclaration,
		syntax.KindTypedefDeclaration:
		b.declareData(node)
	case syntax.KindParamDeclaration:
		b.declareData(node)
	case syntax.KindDataType:
		b.descendDataType(node)
	case syntax.KindReferenceCallBase:
		b.descendReferenceExpression(node)
	case syntax.KindActualParameterList:
		b.descendActualParameterList(node)
	case syntax.KindPortActualList:
		b.descendPortActualList(node)
	case syntax.KindNetVariable:
		b.declareNetOrRegister(node)
	case syntax.KindRegisterVariable:
		b.declareNetOrRegister(node)
	case syntax.KindGateInstance:
		b.declareInstance(node)
	case syntax.KindQualifiedID:
		b.handleQualifiedID(node)
	case syntax.KindPreprocessorInclude:
		b.enterIncludeFile(node)
	default:
		b.descend(node)
	}
}

func (b *builder) VisitLeaf(leaf *syntax.Leaf) {
	switch leaf.Token.Kind {
	case syntax.TokenIdentifier:
		b.handleIdentifier(leaf)
	case syntax.TokenScopeRes, syntax.TokenDot:
		b.lastHierarchyOperator = &leaf.Token
	}
}

// handleIdentifier consults the ancestor context to decide whether the
// identifier declares a symbol, and what kind, or whether it extends a
// reference under capture.
func (b *builder) handleIdentifier(leaf *syntax.Leaf) {
	ctx := b.context()
	text := leaf.Token.Text

	if ctx.DirectParentIs(syntax.KindParamType) {
		b.emplaceTypedElementInCurrentScope(leaf, text, KindParameter)
		return
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindPortDeclaration) ||
		ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindPortItem) {
		// Declares a (non-parameter) port of a module, function or task.
		b.emplaceTypedElementInCurrentScope(leaf, text, KindDataNetVariableInstance)
		return
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindTypedefDeclaration) {
		b.emplaceTypedElementInCurrentScope(leaf, text, KindTypeAlias)
		return
	}

	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindFunctionHeader) {
		// Declaring the function was deferred to this point so that its
		// return type could first be captured as a reference in the
		// enclosing scope. Out-of-line definitions take the qualified-id
		// path instead.
		declSyntax := ctx.NearestParentMatching(func(n *syntax.Node) bool {
			return n.MatchesKindAnyOf(syntax.KindFunctionDeclaration, syntax.KindFunctionPrototype)
		})
		if declSyntax == nil {
			return
		}
		declaredFunction := b.emplaceTypedElementInCurrentScope(declSyntax, text, KindFunction)
		// The function scope takes over for its port interface and body.
		b.currentScope = declaredFunction
		return
	}

	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindTaskHeader) {
		declSyntax := ctx.NearestParentMatching(func(n *syntax.Node) bool {
			return n.MatchesKindAnyOf(syntax.KindTaskDeclaration, syntax.KindTaskPrototype)
		})
		if declSyntax == nil {
			return
		}
		declaredTask := b.emplaceElementInCurrentScope(declSyntax, text, KindTask)
		b.currentScope = declaredTask
		return
	}

	// Instances already planted a resolved self-reference.
	if ctx.DirectParentIs(syntax.KindGateInstance) {
		return
	}

	// Capture only referencing identifiers, omit declarative ones.
	if len(b.referenceBuilders) == 0 {
		return
	}
	ref := b.captureRef()

	newRef := ReferenceComponent{
		Identifier: text,
		RefType:    b.inferReferenceType(),
		Metatype:   b.inferMetaType(),
	}

	// Named ports and named parameters become siblings of the branch
	// point rather than deeper links of the chain.
	if ctx.DirectParentIsOneOf(syntax.KindActualNamedPort, syntax.KindParamByName) {
		if b.referenceBranchPoint == nil {
			return
		}
		checkedNewChild(b.referenceBranchPoint, newRef)
		return
	}

	ref.PushReferenceComponent(newRef)
	if b.referenceBranchPoint == nil {
		// The first reference component of a type becomes the node that
		// named parameter references branch from.
		b.referenceBranchPoint = ref.Root
	}
}

// inferReferenceType classifies the identifier about to be recorded,
// from its context and the hierarchy operator most recently seen.
func (b *builder) inferReferenceType() ReferenceType {
	ctx := b.context()
	ref := b.captureRef()
	if ref.Empty() || b.lastHierarchyOperator == nil {
		// The root component of a chain is unqualified, except the
		// outer of an out-of-line definition, which must be resolved
		// immediately.
		if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindQualifiedID,
			syntax.KindFunctionHeader) ||
			ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindQualifiedID,
				syntax.KindTaskHeader) {
			return RefImmediate
		}
		return RefUnqualified
	}
	if ctx.DirectParentIs(syntax.KindParamByName) {
		// Named parameters are written ".PARAM" but branch off a base
		// reference that already names the scope to search, so no
		// type-of indirection applies.
		return RefDirectMember
	}
	if b.lastHierarchyOperator.Kind == syntax.TokenDot {
		return RefMemberOfTypeOfParent
	}
	return RefDirectMember
}

// inferMetaType returns the symbol kind the context requires of the
// referenced identifier, or KindUnspecified.
func (b *builder) inferMetaType() SymbolKind {
	ctx := b.context()
	ref := b.captureRef()
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindQualifiedID,
		syntax.KindFunctionHeader) {
		if ref.Empty() {
			return KindClass
		}
		return KindFunction
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindQualifiedID,
		syntax.KindTaskHeader) {
		if ref.Empty() {
			return KindClass
		}
		return KindTask
	}
	if ctx.DirectParentIs(syntax.KindActualNamedPort) {
		return KindDataNetVariableInstance
	}
	if ctx.DirectParentIs(syntax.KindParamByName) {
		return KindParameter
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindLocalRoot,
		syntax.KindFunctionCall) {
		// Bare call like "function_name(...)".
		return KindCallable
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindQualifiedID,
		syntax.KindLocalRoot, syntax.KindFunctionCall) {
		// Qualified call like "pkg_or_class::function_name(...)";
		// only the last component needs to be callable.
		qualifiedID := ctx.NearestParentWithKind(syntax.KindQualifiedID)
		unqualifiedID := ctx.NearestParentWithKind(syntax.KindUnqualifiedID)
		if qualifiedID != nil && qualifiedID.LastNodeChild() == unqualifiedID {
			return KindCallable
		}
	}
	if ctx.DirectParentsAre(syntax.KindUnqualifiedID, syntax.KindMethodCallExtension) {
		// Method call like "obj.method_name(...)".
		return KindCallable
	}
	return KindUnspecified
}

// emplaceElementInCurrentScope declares a named scope-owning element
// (module, package, class, task, ...).
func (b *builder) emplaceElementInCurrentScope(element syntax.Element, name string,
	kind SymbolKind) *SymbolTableNode {
	node, inserted := b.currentScope.TryEmplace(name, SymbolInfo{
		Metatype:     kind,
		FileOrigin:   b.source,
		SyntaxOrigin: element,
	})
	if !inserted {
		b.diagnoseSymbolAlreadyExists(name)
	}
	return node
}

// emplaceTypedElementInCurrentScope declares a named element carrying
// the declared type currently under capture (nets, parameters,
// variables, instances, functions via their return types).
func (b *builder) emplaceTypedElementInCurrentScope(element syntax.Element, name string,
	kind SymbolKind) *SymbolTableNode {
	declaredType := DeclarationTypeInfo{}
	if b.declarationTypeInfo != nil {
		declaredType = *b.declarationTypeInfo
	}
	node, inserted := b.currentScope.TryEmplace(name, SymbolInfo{
		Metatype:     kind,
		FileOrigin:   b.source,
		SyntaxOrigin: element,
		DeclaredType: declaredType,
	})
	if !inserted {
		b.diagnoseSymbolAlreadyExists(name)
	}
	return node
}

func (b *builder) diagnoseSymbolAlreadyExists(name string) {
	b.diagnostics = append(b.diagnostics, diag.New(diag.CategoryDuplicateSymbol,
		"Symbol %q is already defined in the %s scope.", name, b.currentScope.FullPath()))
}

// declareScopedElement declares a named scope and traverses the
// construct's subtree inside it.
func (b *builder) declareScopedElement(node *syntax.Node, kind SymbolKind) {
	nameLeaf := syntax.DeclaredNameLeaf(node)
	if nameLeaf == nil {
		b.descend(node)
		return
	}
	scope := b.emplaceElementInCurrentScope(node, nameLeaf.Token.Text, kind)
	b.descendInScope(node, scope)
}

func (b *builder) scopeNameFromGenerateBody(body *syntax.Node) string {
	if body != nil && body.MatchesKind(syntax.KindGenerateBlock) {
		if label := syntax.BeginLabel(body); label != nil {
			return label.Token.Text
		}
	}
	return b.currentScope.Info.CreateAnonymousScope("generate")
}

func (b *builder) declareGenerateIf(generateIf *syntax.Node) {
	body := syntax.GenerateClauseBody(generateIf)
	name := b.scopeNameFromGenerateBody(body)
	scope := b.emplaceElementInCurrentScope(generateIf, name, KindGenerate)
	b.descendInScope(generateIf, scope)
}

func (b *builder) declareGenerateElse(generateElse *syntax.Node) {
	body := syntax.GenerateClauseBody(generateElse)
	if body == nil {
		return
	}
	if body.MatchesKind(syntax.KindConditionalGenerateConstruct) {
		// Chained else-if: flatten by not creating a scope here; the
		// nested if-clause creates one directly under the current scope.
		b.descend(body)
		return
	}
	name := b.scopeNameFromGenerateBody(body)
	scope := b.emplaceElementInCurrentScope(generateElse, name, KindGenerate)
	b.descendInScope(generateElse, scope)
}

// declareRoutine reserves the current scope on the stack without
// changing it yet; the switch into the routine's own scope is deferred
// to the header's identifier (or qualified-id) visit, after the return
// type has been captured in the enclosing scope.
func (b *builder) declareRoutine(node *syntax.Node) {
	defer save(&b.currentScope, b.currentScope)()
	b.descend(node)
}

// setupFunctionHeader captures the declared function's return type.
func (b *builder) setupFunctionHeader(header *syntax.Node) {
	var declTypeInfo DeclarationTypeInfo
	defer save(&b.declarationTypeInfo, &declTypeInfo)()
	b.descend(header)
	// declTypeInfo was copied into the symbol at the identifier visit.
}

// declarePorts skips port lists on out-of-line definition sites: the
// prototype is the source of truth for port names.
func (b *builder) declarePorts(portList *syntax.Node) {
	for _, headerKind := range []syntax.NodeKind{syntax.KindFunctionHeader, syntax.KindTaskHeader} {
		header := b.context().NearestParentWithKind(headerKind)
		if header == nil {
			continue
		}
		if id := syntax.HeaderID(header); id != nil && id.MatchesKind(syntax.KindQualifiedID) {
			return
		}
	}
	b.descend(portList)
}

// declareData opens a declared-type capture slot for one declaration
// statement (data, net, port, parameter, typedef) and traverses it.
func (b *builder) declareData(node *syntax.Node) {
	var declTypeInfo DeclarationTypeInfo
	defer save(&b.declarationTypeInfo, &declTypeInfo)()
	b.descend(node)
}

// descendDataType traverses a data-type subtree, collecting type
// references from the current context. If an enclosing declaration is
// collecting its declared type, the type's syntax origin and deepest
// user-defined-type reference are recorded on the way out.
//
// A generalized type could look like "A#(.B(1))::C#(.D(E#(.F(0))))::G";
// nested types collect into their own reference trees.
func (b *builder) descendDataType(dataType *syntax.Node) {
	b.beginCapture()
	defer b.endCapture()

	func() {
		// Clearing the slot prevents nested types from re-capturing:
		// in "A_type#(B_type)", B_type begets its own chain in the
		// current context but is not the declared type.
		defer save(&b.declarationTypeInfo, (*DeclarationTypeInfo)(nil))()
		// Named parameter identifiers branch as parallel children from
		// the first reference component encountered below.
		defer save(&b.referenceBranchPoint, (*ReferenceComponentNode)(nil))()
		b.descend(dataType)
	}()

	if b.declarationTypeInfo != nil {
		if syntax.LeftmostLeaf(dataType) != nil {
			b.declarationTypeInfo.SyntaxOrigin = dataType
			// A leafless type subtree (implicit type) keeps no origin.
		}
		if !b.captureRef().Empty() {
			// Some user-defined type was referenced.
			b.declarationTypeInfo.UserDefinedType = b.captureRef().LastLeaf()
		}
	}
}

// descendReferenceExpression captures expressions referenced from the
// current scope; subexpressions collect into their own trees first.
func (b *builder) descendReferenceExpression(reference *syntax.Node) {
	b.beginCapture()
	defer b.endCapture()
	b.descend(reference)
}

func (b *builder) descendActualParameterList(node *syntax.Node) {
	if b.referenceBranchPoint != nil {
		// Pre-allocate siblings to guarantee pointer stability.
		reserveChildren(b.referenceBranchPoint,
			syntax.CountChildrenOfKind(node, syntax.KindParamByName))
	}
	b.descend(node)
}

func (b *builder) descendPortActualList(node *syntax.Node) {
	if b.referenceBranchPoint != nil {
		// Pre-allocate siblings to guarantee pointer stability.
		reserveChildren(b.referenceBranchPoint,
			syntax.CountChildrenOfKind(node, syntax.KindActualNamedPort))
	}
	b.descend(node)
}

// declareNetOrRegister declares one net or register variable with the
// declared type of the enclosing declaration statement.
func (b *builder) declareNetOrRegister(variable *syntax.Node) {
	nameLeaf := syntax.DeclaredNameLeaf(variable)
	if nameLeaf != nil {
		b.emplaceTypedElementInCurrentScope(variable, nameLeaf.Token.Text,
			KindDataNetVariableInstance)
	}
	b.descend(variable)
}

// declareInstance declares one gate/module instance and seeds a
// self-reference whose root is already resolved to the new symbol, so
// that named ports attach as siblings and later resolve against the
// instance's type scope.
func (b *builder) declareInstance(instance *syntax.Node) {
	nameLeaf := syntax.DeclaredNameLeaf(instance)
	if nameLeaf == nil {
		b.descend(instance)
		return
	}
	instanceName := nameLeaf.Token.Text
	newInstance := b.emplaceTypedElementInCurrentScope(instance, instanceName,
		KindDataNetVariableInstance)

	b.beginCapture()
	defer b.endCapture()
	b.captureRef().PushReferenceComponent(ReferenceComponent{
		Identifier:     instanceName,
		RefType:        RefUnqualified,
		Metatype:       KindDataNetVariableInstance,
		ResolvedSymbol: newInstance,
	})
	defer save(&b.referenceBranchPoint, b.captureRef().Root)()

	// No scope change: named ports resolve later through the declared
	// type's scope.
	b.descend(instance)
}

// lookupOrInjectOutOfLineDefinition resolves "outer::inner" of an
// out-of-line function or task definition. The outer class must resolve
// immediately in the current scope. The inner symbol is looked up in
// the outer scope and, if missing, injected there with a non-fatal
// diagnostic; if present with a different metatype, the definition is
// rejected.
func (b *builder) lookupOrInjectOutOfLineDefinition(qualifiedID *syntax.Node,
	kind SymbolKind, declSyntax *syntax.Node) (*SymbolTableNode, error) {
	b.beginCapture()
	defer b.endCapture()
	b.descend(qualifiedID)

	ref := b.captureRef()
	if ref.Root == nil || len(ref.Root.Children) != 1 {
		return nil, diag.New(diag.CategoryParseFailure,
			"out-of-line definition name %q must have exactly two components",
			syntax.SpanText(qualifiedID))
	}

	// The base must resolve now; do not inject class names into the
	// current scope.
	outerScope, err := ref.ResolveOnlyBaseLocally(b.currentScope)
	if err != nil {
		return nil, err
	}

	innerRef := &ref.Root.Children[0].Component
	innerKey := innerRef.Identifier

	innerSymbol, inserted := outerScope.TryEmplace(innerKey, SymbolInfo{
		Metatype:     kind,
		FileOrigin:   b.source,
		SyntaxOrigin: declSyntax,
	})
	if inserted {
		// Injection succeeded: the prototype was missing. Non-fatal.
		b.diagnostics = append(b.diagnostics,
			diagnoseMemberSymbolResolutionFailure(innerKey, outerScope))
	} else {
		originalKind := innerSymbol.Info.Metatype
		if originalKind != kind {
			return nil, diag.New(diag.CategoryOutOfLineRedefinitionConflict,
				"%s %s cannot be redefined out-of-line as a %s",
				originalKind, innerSymbol.FullPath(), kind)
		}
	}
	// This self-reference resolves immediately.
	innerRef.ResolvedSymbol = innerSymbol
	return innerSymbol, nil
}

func (b *builder) descendThroughOutOfLineDefinition(qualifiedID *syntax.Node,
	kind SymbolKind, declSyntax *syntax.Node) {
	innerSymbol, err := b.lookupOrInjectOutOfLineDefinition(qualifiedID, kind, declSyntax)
	if err != nil {
		// Skip the entire definition: there is no place to add its
		// local symbols.
		var d diag.Diagnostic
		if errors.As(err, &d) {
			b.diagnostics = append(b.diagnostics, d)
		} else {
			b.diagnostics = append(b.diagnostics,
				diag.New(diag.CategoryParseFailure, "%s", err))
		}
		return
	}
	// The routine declaration saved the scope; the rest of the
	// definition builds inside the inner symbol.
	b.currentScope = innerSymbol
	b.descend(qualifiedID)
}

func (b *builder) handleQualifiedID(qualifiedID *syntax.Node) {
	top := b.context().Top()
	switch {
	case top != nil && top.Kind == syntax.KindFunctionHeader:
		declSyntax := b.context().NearestParentMatching(func(n *syntax.Node) bool {
			return n.MatchesKindAnyOf(syntax.KindFunctionDeclaration, syntax.KindFunctionPrototype)
		})
		b.descendThroughOutOfLineDefinition(qualifiedID, KindFunction, declSyntax)
	case top != nil && top.Kind == syntax.KindTaskHeader:
		declSyntax := b.context().NearestParentMatching(func(n *syntax.Node) bool {
			return n.MatchesKindAnyOf(syntax.KindTaskDeclaration, syntax.KindTaskPrototype)
		})
		b.descendThroughOutOfLineDefinition(qualifiedID, KindTask, declSyntax)
	default:
		// A reference, not an out-of-line definition.
		b.descend(qualifiedID)
	}
}

// enterIncludeFile opens the included file through the project, parses
// it, and traverses its syntax tree with the current scope unchanged so
// that include semantics are textually transparent. Re-inclusion is not
// deduplicated here; that policy belongs to the caller.
func (b *builder) enterIncludeFile(include *syntax.Node) {
	filenameLeaf := syntax.IncludeFilenameLeaf(include)
	if filenameLeaf == nil {
		return
	}
	filename := syntax.StripOuterQuotes(filenameLeaf.Token.Text)
	log.WithField("file", filename).Debug("entering include file")

	if b.project == nil {
		return
	}
	includedFile, err := b.project.OpenIncludedFile(filename)
	if err != nil {
		b.diagnostics = append(b.diagnostics,
			diag.New(diag.CategoryIncludeFailure, "%s", err))
		return
	}
	if err := includedFile.Parse(); err != nil {
		b.diagnostics = append(b.diagnostics,
			diag.New(diag.CategoryIncludeFailure, "%s", err))
		// Don't attempt to traverse a partial include.
		return
	}

	tree := includedFile.TextStructure().SyntaxTree
	if tree == nil {
		return
	}
	defer save(&b.source, includedFile)()
	b.VisitNode(tree)
}

package analysis

import (
	"github.com/mtikekar/verible/internal/diag"
	"github.com/mtikekar/verible/internal/syntax"
)

// lookupSymbolUpwards searches this scope and then each enclosing scope;
// the first match wins.
func lookupSymbolUpwards(context *SymbolTableNode, name string) *SymbolTableNode {
	for scope := context; scope != nil; scope = scope.Parent() {
		if found := scope.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func diagnoseUnqualifiedSymbolResolutionFailure(name string,
	context *SymbolTableNode) diag.Diagnostic {
	return diag.New(diag.CategoryUnresolvedUnqualified,
		"Unable to resolve symbol %q from context %s.", name, context.FullPath())
}

func diagnoseMemberSymbolResolutionFailure(name string,
	context *SymbolTableNode) diag.Diagnostic {
	contextName := rootName
	if context.Parent() != nil {
		contextName = *context.Key()
	}
	return diag.New(diag.CategoryUnresolvedMember,
		"No member symbol %q in parent scope (%s) %s.",
		name, context.Info.Metatype, contextName)
}

func resolveUnqualifiedName(component *ReferenceComponent, context *SymbolTableNode,
	diags *[]diag.Diagnostic) {
	resolved := lookupSymbolUpwards(context, component.Identifier)
	if resolved == nil {
		*diags = append(*diags,
			diagnoseUnqualifiedSymbolResolutionFailure(component.Identifier, context))
		return
	}
	if err := component.MatchesMetatype(resolved.Info.Metatype); err != nil {
		*diags = append(*diags, err.(diag.Diagnostic))
		return
	}
	component.ResolvedSymbol = resolved
}

func resolveDirectMember(component *ReferenceComponent, context *SymbolTableNode,
	diags *[]diag.Diagnostic) {
	found := context.Find(component.Identifier)
	if found == nil {
		*diags = append(*diags,
			diagnoseMemberSymbolResolutionFailure(component.Identifier, context))
		return
	}
	if err := component.MatchesMetatype(found.Info.Metatype); err != nil {
		*diags = append(*diags, err.(diag.Diagnostic))
		return
	}
	component.ResolvedSymbol = found
}

// resolveReferenceComponentNode resolves one component. Parent nodes are
// already resolved (or not) by the time a child is visited, guaranteed
// by pre-order traversal; an unresolved parent leaves the child silently
// unresolved.
func resolveReferenceComponentNode(node *ReferenceComponentNode,
	context *SymbolTableNode, diags *[]diag.Diagnostic) {
	component := &node.Component
	if component.ResolvedSymbol != nil {
		return // already bound
	}

	switch component.RefType {
	case RefUnqualified:
		resolveUnqualifiedName(component, context, diags)

	case RefImmediate:
		resolveDirectMember(component, context, diags)

	case RefDirectMember:
		parentScope := node.Parent.Component.ResolvedSymbol
		if parentScope == nil {
			return // leave this subtree unresolved
		}
		resolveDirectMember(component, parentScope, diags)

	case RefMemberOfTypeOfParent:
		parentScope := node.Parent.Component.ResolvedSymbol
		if parentScope == nil {
			return // leave this subtree unresolved
		}
		typeInfo := &parentScope.Info.DeclaredType
		if typeInfo.UserDefinedType == nil {
			// Primitive types do not have members.
			*diags = append(*diags, diag.New(diag.CategoryTypeHasNoMembers,
				"Type of parent reference %s (%s) does not have any members.",
				node.Parent.FullPath(), typeOriginText(typeInfo)))
			return
		}
		// The type's scope is not an ancestor of this reference node,
		// so it is not guaranteed to have been resolved yet.
		typeScope := typeInfo.UserDefinedType.Component.ResolvedSymbol
		if typeScope == nil {
			return
		}
		resolveDirectMember(component, typeScope, diags)
	}
}

func typeOriginText(typeInfo *DeclarationTypeInfo) string {
	if typeInfo.SyntaxOrigin == nil {
		return "(unknown)"
	}
	return syntax.SpanText(typeInfo.SyntaxOrigin)
}

// Resolve binds the whole tree, root first, then children (pre-order):
// parent components must resolve before their dependents.
func (d *DependentReferences) Resolve(context *SymbolTableNode, diags *[]diag.Diagnostic) {
	if d.Root == nil {
		return
	}
	d.Root.ApplyPreOrder(func(node *ReferenceComponentNode) {
		resolveReferenceComponentNode(node, context, diags)
	})
}

// ResolveLocally attempts only the root component, against exactly the
// anchoring scope, without upward search or diagnostics.
func (d *DependentReferences) ResolveLocally(context *SymbolTableNode) {
	if d.Root == nil {
		return
	}
	node := d.Root
	if node.Component.ResolvedSymbol != nil {
		return // already bound
	}
	if node.Component.RefType != RefUnqualified {
		return
	}
	if found := context.Find(node.Component.Identifier); found != nil {
		node.Component.ResolvedSymbol = found
	}
}

// ResolveOnlyBaseLocally resolves the root component in the given scope
// without upward search, returning the resolved scope. Used for
// out-of-line definition bases, where the context must stay mutable for
// injection.
func (d *DependentReferences) ResolveOnlyBaseLocally(context *SymbolTableNode) (*SymbolTableNode, error) {
	base := &d.Root.Component
	found := context.Find(base.Identifier)
	if found == nil {
		return nil, diagnoseMemberSymbolResolutionFailure(base.Identifier, context)
	}
	if err := base.MatchesMetatype(found.Info.Metatype); err != nil {
		return nil, err
	}
	base.ResolvedSymbol = found
	return found, nil
}

// ReferenceComponentMapView indexes a node's direct children by
// identifier, for tests and tooling.
func ReferenceComponentMapView(node *ReferenceComponentNode) map[string]*ReferenceComponentNode {
	view := make(map[string]*ReferenceComponentNode, len(node.Children))
	for _, child := range node.Children {
		view[child.Component.Identifier] = child
	}
	return view
}

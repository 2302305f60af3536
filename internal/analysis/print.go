package analysis

import (
	"fmt"
	"io"
	"strings"
)

const printIndent = 4

// PrintSymbolDefinitions dumps every scope with its metatype, file
// origin, and declared type where applicable.
func (st *SymbolTable) PrintSymbolDefinitions(w io.Writer) {
	printDefinitions(w, &st.root, 0)
}

func printDefinitions(w io.Writer, node *SymbolTableNode, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(w, "%s%s\n", pad, nodeDisplayName(node))
	node.Info.printDefinition(w, indent+printIndent)
	for _, name := range node.ChildNames() {
		printDefinitions(w, node.Find(name), indent+printIndent)
	}
}

func nodeDisplayName(node *SymbolTableNode) string {
	if node.Parent() == nil {
		return rootName
	}
	return *node.Key()
}

func (s *SymbolInfo) printDefinition(w io.Writer, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(w, "%smetatype: %s\n", pad, s.Metatype)
	if s.FileOrigin != nil {
		fmt.Fprintf(w, "%sfile: %s\n", pad, s.FileOrigin.ResolvedPath())
	}
	// The declared type only makes sense for elements with potentially
	// user-defined types, not for language elements like modules.
	if s.Metatype == KindDataNetVariableInstance {
		fmt.Fprintf(w, "%s%s\n", pad, &s.DeclaredType)
	}
}

// PrintSymbolReferences dumps each scope's reference list with resolved
// targets, or "<unresolved>" for references that did not bind.
func (st *SymbolTable) PrintSymbolReferences(w io.Writer) {
	printReferences(w, &st.root, 0)
}

func printReferences(w io.Writer, node *SymbolTableNode, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(w, "%s%s refs:\n", pad, nodeDisplayName(node))
	for _, ref := range node.Info.LocalReferencesToBind {
		printRefTree(w, ref.Root, indent+printIndent)
	}
	for _, name := range node.ChildNames() {
		printReferences(w, node.Find(name), indent+printIndent)
	}
}

func printRefTree(w io.Writer, node *ReferenceComponentNode, indent int) {
	if node == nil {
		return
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), node.Component.String())
	for _, child := range node.Children {
		printRefTree(w, child, indent+2)
	}
}

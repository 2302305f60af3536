// Package facts flattens a symbol table into relational JSON tables for
// downstream tooling. The tables are derived data: the scope tree stays
// the source of truth, and rows are emitted in deterministic pre-order.
package facts

import (
	"github.com/mtikekar/verible/internal/analysis"
)

// SymbolRow is one declared symbol.
type SymbolRow struct {
	// Path is the full scope path, e.g. "$root::m::w".
	Path string `json:"path"`

	// Metatype is the symbol kind, e.g. "module".
	Metatype string `json:"metatype"`

	// File is the resolved path of the declaring file.
	File string `json:"file,omitempty"`

	// DeclaredType names the user-defined declared type reference, if any.
	DeclaredType string `json:"declared_type,omitempty"`
}

// ReferenceRow is one reference component occurrence.
type ReferenceRow struct {
	// Scope is the full path of the anchoring scope.
	Scope string `json:"scope"`

	// Ref is the printed reference path down to this component,
	// e.g. "@c.f".
	Ref string `json:"ref"`

	// Resolved is the full path of the bound symbol, empty when the
	// component did not resolve.
	Resolved string `json:"resolved,omitempty"`
}

// Tables is the exported fact set.
type Tables struct {
	Symbols    []SymbolRow    `json:"symbols"`
	References []ReferenceRow `json:"references"`
}

// FromSymbolTable extracts fact tables from a (typically resolved)
// symbol table.
func FromSymbolTable(st *analysis.SymbolTable) Tables {
	tables := Tables{
		Symbols:    []SymbolRow{},
		References: []ReferenceRow{},
	}
	st.Root().ApplyPreOrder(func(node *analysis.SymbolTableNode) {
		row := SymbolRow{
			Path:     node.FullPath(),
			Metatype: node.Info.Metatype.String(),
		}
		if node.Info.FileOrigin != nil {
			row.File = node.Info.FileOrigin.ResolvedPath()
		}
		if userType := node.Info.DeclaredType.UserDefinedType; userType != nil {
			row.DeclaredType = userType.Component.Identifier
		}
		tables.Symbols = append(tables.Symbols, row)

		for _, ref := range node.Info.LocalReferencesToBind {
			if ref.Root == nil {
				continue
			}
			scopePath := node.FullPath()
			ref.Root.ApplyPreOrder(func(refNode *analysis.ReferenceComponentNode) {
				row := ReferenceRow{
					Scope: scopePath,
					Ref:   refNode.FullPath(),
				}
				if refNode.Component.ResolvedSymbol != nil {
					row.Resolved = refNode.Component.ResolvedSymbol.FullPath()
				}
				tables.References = append(tables.References, row)
			})
		}
	})
	return tables
}

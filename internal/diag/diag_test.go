package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticFormatting(t *testing.T) {
	d := New(CategoryDuplicateSymbol, "Symbol %q is already defined in the %s scope.", "w", "$root::m")
	assert.Equal(t, `Symbol "w" is already defined in the $root::m scope.`, d.Error())
	assert.Equal(t, `[duplicate-symbol] Symbol "w" is already defined in the $root::m scope.`, d.String())
}

func TestCategoryNames(t *testing.T) {
	names := map[Category]string{
		CategoryDuplicateSymbol:               "duplicate-symbol",
		CategoryUnresolvedUnqualified:         "unresolved-unqualified",
		CategoryUnresolvedMember:              "unresolved-member",
		CategoryMetatypeMismatch:              "metatype-mismatch",
		CategoryTypeHasNoMembers:              "type-has-no-members",
		CategoryOutOfLineRedefinitionConflict: "out-of-line-redefinition-conflict",
		CategoryIncludeFailure:                "include-failure",
		CategoryParseFailure:                  "parse-failure",
	}
	for category, want := range names {
		assert.Equal(t, want, category.String())
	}
}

func TestCountByCategory(t *testing.T) {
	diags := []Diagnostic{
		New(CategoryDuplicateSymbol, "a"),
		New(CategoryDuplicateSymbol, "b"),
		New(CategoryIncludeFailure, "c"),
	}
	counts := CountByCategory(diags)
	assert.Equal(t, 2, counts[CategoryDuplicateSymbol])
	assert.Equal(t, 1, counts[CategoryIncludeFailure])
	assert.Equal(t, 0, counts[CategoryUnresolvedMember])
}

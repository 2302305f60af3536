package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtikekar/verible/internal/facts"
)

func TestValidateGoodTables(t *testing.T) {
	v, err := NewFactsValidator()
	require.NoError(t, err)

	tables := facts.Tables{
		Symbols: []facts.SymbolRow{
			{Path: "$root", Metatype: "<root>"},
			{Path: "$root::m", Metatype: "module", File: "/tmp/test.sv"},
			{Path: "$root::m::c", Metatype: "data/net/var/instance",
				File: "/tmp/test.sv", DeclaredType: "C"},
		},
		References: []facts.ReferenceRow{
			{Scope: "$root::m", Ref: "@c", Resolved: "$root::m::c"},
			{Scope: "$root::m", Ref: "@c.f"},
		},
	}

	require.NoError(t, v.Validate(tables))
	assert.Nil(t, v.ValidationErrors(tables))
}

func TestValidateEmptyTables(t *testing.T) {
	v, err := NewFactsValidator()
	require.NoError(t, err)

	tables := facts.Tables{
		Symbols:    []facts.SymbolRow{},
		References: []facts.ReferenceRow{},
	}
	require.NoError(t, v.Validate(tables))
}

func TestValidateRejectsMissingFields(t *testing.T) {
	v, err := NewFactsValidator()
	require.NoError(t, err)

	// No tables at all: both lists are required fields, so they are missing.
	require.Error(t, v.ValidateJSON([]byte(`{}`)))
}

func TestValidateRejectsEmptyPath(t *testing.T) {
	v, err := NewFactsValidator()
	require.NoError(t, err)

	bad := facts.Tables{
		Symbols:    []facts.SymbolRow{{Path: "", Metatype: "module"}},
		References: []facts.ReferenceRow{},
	}
	require.Error(t, v.Validate(bad))
	assert.NotEmpty(t, v.ValidationErrors(bad))
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	v, err := NewFactsValidator()
	require.NoError(t, err)

	withExtra := []byte(`{"symbols": [], "references": [], "bogus": 1}`)
	require.Error(t, v.ValidateJSON(withExtra))
}

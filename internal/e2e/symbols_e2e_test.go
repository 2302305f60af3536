package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtikekar/verible/internal/analysis"
	"github.com/mtikekar/verible/internal/diag"
	"github.com/mtikekar/verible/internal/facts"
	"github.com/mtikekar/verible/internal/project"
	"github.com/mtikekar/verible/internal/validator"
)

// TestFullPipeline drives the whole flow the CLI uses: project setup,
// parsing, symbol table construction with an include, reference
// resolution, printing, fact export, and contract validation.
func TestFullPipeline(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}

	write("types.svh", "typedef int word_t;\n")
	write("pkg.sv", "package common;\n`include \"types.svh\"\nint max_count;\nendpackage\n")
	write("leaf.sv", "module counter(input logic clk, input logic rst);\nwire busy;\nendmodule\n")
	write("top.sv", `
module top;
  logic clk_sig;
  logic rst_sig;
  counter u_counter(.clk(clk_sig), .rst(rst_sig));
  initial common::max_count = 10;
endmodule
`)

	proj := project.New(dir, nil)
	for _, unit := range []string{"pkg.sv", "leaf.sv", "top.sv"} {
		_, err := proj.OpenTranslationUnit(unit)
		require.NoError(t, err)
	}

	st := analysis.NewSymbolTable(proj)
	buildDiags := st.Build()
	require.Empty(t, buildDiags)

	resolveDiags := st.Resolve()
	require.Empty(t, resolveDiags)
	require.NoError(t, st.CheckIntegrity())

	// The included typedef landed in the package scope, attributed to
	// the include file.
	common := st.Root().Find("common")
	require.NotNil(t, common)
	wordT := common.Find("word_t")
	require.NotNil(t, wordT)
	assert.True(t, strings.HasSuffix(wordT.Info.FileOrigin.ResolvedPath(), "types.svh"))

	// Named ports bound through the instance's type.
	clk := st.Root().Find("counter").Find("clk")
	require.NotNil(t, clk)

	var defs, refs strings.Builder
	st.PrintSymbolDefinitions(&defs)
	st.PrintSymbolReferences(&refs)
	assert.Contains(t, defs.String(), "u_counter")
	assert.Contains(t, refs.String(),
		"@u_counter[data/net/var/instance] -> $root::top::u_counter")
	assert.Contains(t, refs.String(), ".clk[data/net/var/instance] -> $root::counter::clk")
	assert.Contains(t, refs.String(), "::max_count -> $root::common::max_count")

	tables := facts.FromSymbolTable(st)
	v, err := validator.NewFactsValidator()
	require.NoError(t, err)
	require.NoError(t, v.Validate(tables))

	var sawPort bool
	for _, row := range tables.References {
		if row.Ref == "@u_counter[data/net/var/instance].clk[data/net/var/instance]" {
			sawPort = true
			assert.Equal(t, "$root::counter::clk", row.Resolved)
		}
	}
	assert.True(t, sawPort, "expected the named-port reference row")
}

// TestPipelineCollectsAllDiagnosticCategories feeds one project that
// trips several distinct failure modes and checks they are all reported
// without aborting the pass.
func TestPipelineCollectsAllDiagnosticCategories(t *testing.T) {
	dir := t.TempDir()
	src := `
module m;
  wire w;
  wire w;
  int prim;
  initial prim.f = 0;
  initial ghost = 1;
` + "`include \"missing.svh\"\n" + `
endmodule
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.sv"), []byte(src), 0o644))

	proj := project.New(dir, nil)
	_, err := proj.OpenTranslationUnit("m.sv")
	require.NoError(t, err)

	st := analysis.NewSymbolTable(proj)
	all := st.Build()
	all = append(all, st.Resolve()...)

	counts := diag.CountByCategory(all)
	assert.Equal(t, 1, counts[diag.CategoryDuplicateSymbol])
	assert.Equal(t, 1, counts[diag.CategoryIncludeFailure])
	assert.Equal(t, 1, counts[diag.CategoryTypeHasNoMembers])
	assert.Equal(t, 1, counts[diag.CategoryUnresolvedUnqualified])

	// The pass kept going: the module and its survivors exist.
	require.NotNil(t, st.Root().Find("m"))
	require.NotNil(t, st.Root().Find("m").Find("prim"))
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtikekar/verible/internal/syntax"
)

func mustParse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := Parse("test.sv", src)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

// nodesOfKind collects all nodes of the given kind in the subtree.
func nodesOfKind(root *syntax.Node, kind syntax.NodeKind) []*syntax.Node {
	var out []*syntax.Node
	var walk func(el syntax.Element)
	walk = func(el syntax.Element) {
		node, ok := el.(*syntax.Node)
		if !ok {
			return
		}
		if node.Kind == kind {
			out = append(out, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(root)
	return out
}

func TestParseModuleShape(t *testing.T) {
	tree := mustParse(t, "module m; wire w; endmodule")
	require.Equal(t, syntax.KindDescriptionList, tree.Kind)

	modules := nodesOfKind(tree, syntax.KindModuleDeclaration)
	require.Len(t, modules, 1)
	name := syntax.DeclaredNameLeaf(modules[0])
	require.NotNil(t, name)
	assert.Equal(t, "m", name.Token.Text)

	nets := nodesOfKind(tree, syntax.KindNetVariable)
	require.Len(t, nets, 1)
	assert.Equal(t, "w", syntax.DeclaredNameLeaf(nets[0]).Token.Text)
}

func TestParseModulePortList(t *testing.T) {
	tree := mustParse(t, "module m(input logic clk, output int q); endmodule")
	ports := nodesOfKind(tree, syntax.KindPortDeclaration)
	require.Len(t, ports, 2)

	ids := nodesOfKind(ports[0], syntax.KindUnqualifiedID)
	require.Len(t, ids, 1)
	assert.Equal(t, "clk", syntax.DeclaredNameLeaf(ids[0]).Token.Text)
}

func TestParseFunctionHeaderShapes(t *testing.T) {
	tree := mustParse(t, "function int add(int a, int b); return a + b; endfunction")

	headers := nodesOfKind(tree, syntax.KindFunctionHeader)
	require.Len(t, headers, 1)
	id := syntax.HeaderID(headers[0])
	require.NotNil(t, id)
	assert.Equal(t, syntax.KindUnqualifiedID, id.Kind)

	items := nodesOfKind(tree, syntax.KindPortItem)
	assert.Len(t, items, 2)
}

func TestParseOutOfLineFunctionHeader(t *testing.T) {
	tree := mustParse(t, "function int C::g(); return 0; endfunction")

	headers := nodesOfKind(tree, syntax.KindFunctionHeader)
	require.Len(t, headers, 1)
	id := syntax.HeaderID(headers[0])
	require.NotNil(t, id)
	require.Equal(t, syntax.KindQualifiedID, id.Kind)

	ids := nodesOfKind(id, syntax.KindUnqualifiedID)
	require.Len(t, ids, 2)
	assert.Equal(t, "C", syntax.DeclaredNameLeaf(ids[0]).Token.Text)
	assert.Equal(t, "g", syntax.DeclaredNameLeaf(ids[1]).Token.Text)

	// The return type is its own subtree, before the name.
	types := nodesOfKind(headers[0], syntax.KindDataType)
	require.Len(t, types, 1)
}

func TestParseExternPrototype(t *testing.T) {
	tree := mustParse(t, "class C; extern function int g(); extern task run(); endclass")
	assert.Len(t, nodesOfKind(tree, syntax.KindFunctionPrototype), 1)
	assert.Len(t, nodesOfKind(tree, syntax.KindTaskPrototype), 1)
	assert.Len(t, nodesOfKind(tree, syntax.KindFunctionDeclaration), 0)
}

func TestParseInstanceWithNamedPorts(t *testing.T) {
	tree := mustParse(t, "module top; leaf_m u1(.clk(c1), .d(c2)); endmodule")

	instances := nodesOfKind(tree, syntax.KindGateInstance)
	require.Len(t, instances, 1)
	assert.Equal(t, "u1", syntax.DeclaredNameLeaf(instances[0]).Token.Text)

	actuals := nodesOfKind(tree, syntax.KindPortActualList)
	require.Len(t, actuals, 1)
	assert.Equal(t, 2,
		syntax.CountChildrenOfKind(actuals[0], syntax.KindActualNamedPort))
}

func TestParseTypeWithNamedParameters(t *testing.T) {
	tree := mustParse(t, "module top; m_t #(.N(2), .M(3)) u1(); endmodule")

	params := nodesOfKind(tree, syntax.KindActualParameterList)
	require.Len(t, params, 1)
	assert.Equal(t, 2,
		syntax.CountChildrenOfKind(params[0], syntax.KindParamByName))

	// The parameter list belongs to the data type.
	types := nodesOfKind(tree, syntax.KindDataType)
	require.Len(t, types, 1)
	assert.Len(t, nodesOfKind(types[0], syntax.KindActualParameterList), 1)
}

func TestParseGenerateChain(t *testing.T) {
	tree := mustParse(t, `
module m;
if (1) begin : blk
  wire x;
end else if (0) begin
  wire y;
end else begin : last
  wire z;
end
endmodule`)

	constructs := nodesOfKind(tree, syntax.KindConditionalGenerateConstruct)
	require.Len(t, constructs, 2)

	// The outer else clause directly wraps the nested construct.
	elses := nodesOfKind(tree, syntax.KindGenerateElseClause)
	require.Len(t, elses, 2)
	outerBody := syntax.GenerateClauseBody(elses[0])
	require.NotNil(t, outerBody)
	assert.Equal(t, syntax.KindConditionalGenerateConstruct, outerBody.Kind)

	blocks := nodesOfKind(tree, syntax.KindGenerateBlock)
	require.Len(t, blocks, 3)
	require.NotNil(t, syntax.BeginLabel(blocks[0]))
	assert.Equal(t, "blk", syntax.BeginLabel(blocks[0]).Token.Text)
	assert.Nil(t, syntax.BeginLabel(blocks[1]))
	require.NotNil(t, syntax.BeginLabel(blocks[2]))
	assert.Equal(t, "last", syntax.BeginLabel(blocks[2]).Token.Text)
}

func TestParseIncludeDirective(t *testing.T) {
	tree := mustParse(t, "module m;\n`include \"defs.svh\"\nendmodule")

	includes := nodesOfKind(tree, syntax.KindPreprocessorInclude)
	require.Len(t, includes, 1)
	filename := syntax.IncludeFilenameLeaf(includes[0])
	require.NotNil(t, filename)
	assert.Equal(t, `"defs.svh"`, filename.Token.Text)
	assert.Equal(t, "defs.svh", syntax.StripOuterQuotes(filename.Token.Text))
}

func TestParseReferenceShapes(t *testing.T) {
	tree := mustParse(t, "module m; initial begin x = 1; p::y = 2; c.f = 3; g(); c.m1(); end endmodule")

	refs := nodesOfKind(tree, syntax.KindReferenceCallBase)
	assert.Len(t, refs, 5)

	assert.Len(t, nodesOfKind(tree, syntax.KindQualifiedID), 1)
	assert.Len(t, nodesOfKind(tree, syntax.KindHierarchyExtension), 1)
	assert.Len(t, nodesOfKind(tree, syntax.KindFunctionCall), 1)
	assert.Len(t, nodesOfKind(tree, syntax.KindMethodCallExtension), 1)
}

func TestParseQualifiedCall(t *testing.T) {
	tree := mustParse(t, "module m; initial x = q::f(); endmodule")

	calls := nodesOfKind(tree, syntax.KindFunctionCall)
	require.Len(t, calls, 1)
	roots := nodesOfKind(calls[0], syntax.KindLocalRoot)
	require.Len(t, roots, 1)
	qualified := nodesOfKind(roots[0], syntax.KindQualifiedID)
	require.Len(t, qualified, 1)
}

func TestParseTypedef(t *testing.T) {
	tree := mustParse(t, "package p; typedef int word_t; endpackage")

	typedefs := nodesOfKind(tree, syntax.KindTypedefDeclaration)
	require.Len(t, typedefs, 1)
	ids := nodesOfKind(typedefs[0], syntax.KindUnqualifiedID)
	require.Len(t, ids, 1)
	assert.Equal(t, "word_t", syntax.DeclaredNameLeaf(ids[0]).Token.Text)
}

func TestParseParameterDeclaration(t *testing.T) {
	tree := mustParse(t, "module m; parameter int N = 1; localparam W = 4; endmodule")

	params := nodesOfKind(tree, syntax.KindParamDeclaration)
	require.Len(t, params, 2)
	paramTypes := nodesOfKind(tree, syntax.KindParamType)
	require.Len(t, paramTypes, 2)

	// The declared name is a direct leaf of the param-type node.
	nameLeaf := paramTypes[0].FirstLeafOfKind(syntax.TokenIdentifier)
	require.NotNil(t, nameLeaf)
	assert.Equal(t, "N", nameLeaf.Token.Text)
}

func TestParseErrorRecovery(t *testing.T) {
	tree, err := Parse("test.sv", "module m; wire w; endmodule\nmodule ((( ;")
	require.Error(t, err)
	require.NotNil(t, tree)

	// The healthy module survived in the partial tree.
	modules := nodesOfKind(tree, syntax.KindModuleDeclaration)
	require.NotEmpty(t, modules)
	assert.Equal(t, "m", syntax.DeclaredNameLeaf(modules[0]).Token.Text)
}

func TestParseDimensionsAreExpressions(t *testing.T) {
	tree := mustParse(t, "module m; logic [W-1:0] bus; endmodule")

	// W is a reference inside the dimension, not part of the type chain.
	types := nodesOfKind(tree, syntax.KindDataType)
	require.Len(t, types, 1)
	refs := nodesOfKind(types[0], syntax.KindReferenceCallBase)
	require.Len(t, refs, 1)
	assert.Len(t, nodesOfKind(types[0], syntax.KindQualifiedID), 0)
}

func TestLexBasics(t *testing.T) {
	toks := Lex("module m_1; // comment\nwire w; /* block */ p::x = 8'hFF;")
	kinds := make([]syntax.TokenKind, 0, len(toks))
	texts := make([]string, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []syntax.TokenKind{
		syntax.TokenKeyword, syntax.TokenIdentifier, syntax.TokenSemicolon,
		syntax.TokenKeyword, syntax.TokenIdentifier, syntax.TokenSemicolon,
		syntax.TokenIdentifier, syntax.TokenScopeRes, syntax.TokenIdentifier,
		syntax.TokenAssign, syntax.TokenNumber, syntax.TokenSemicolon,
		syntax.TokenEOF,
	}, kinds)
	assert.Equal(t, []string{
		"module", "m_1", ";",
		"wire", "w", ";",
		"p", "::", "x",
		"=", "8'hFF", ";",
		"",
	}, texts)
}

func TestLexPositions(t *testing.T) {
	toks := Lex("wire w;\nwire v;")
	require.GreaterOrEqual(t, len(toks), 7)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[3].Line) // second "wire"
	assert.Equal(t, 1, toks[3].Col)
	assert.Equal(t, 6, toks[4].Col) // "v"
}

func TestLexStringsAndDirectives(t *testing.T) {
	toks := Lex("`include \"a/b.svh\"\n`timescale 1ns\nx")
	assert.Equal(t, syntax.TokenInclude, toks[0].Kind)
	assert.Equal(t, syntax.TokenString, toks[1].Kind)
	assert.Equal(t, `"a/b.svh"`, toks[1].Text)
	assert.Equal(t, syntax.TokenDirective, toks[2].Kind)
	assert.Equal(t, "`timescale", toks[2].Text)
}

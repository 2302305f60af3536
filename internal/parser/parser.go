package parser

import (
	"errors"
	"fmt"

	"github.com/mtikekar/verible/internal/syntax"
)

// Parse lexes and parses one SystemVerilog source text into a concrete
// syntax tree rooted at a description-list node. Parse errors are
// collected and joined; the returned tree is the best-effort partial
// parse and is non-nil even when an error is returned.
func Parse(filename, src string) (*syntax.Node, error) {
	p := &parser{toks: Lex(src), file: filename}
	root := syntax.NewNode(syntax.KindDescriptionList)
	for !p.at(syntax.TokenEOF) {
		before := p.pos
		if item := p.parseItem(false); item != nil {
			root.AddChild(item)
		}
		if p.pos == before {
			p.errorf(p.peek(), "unexpected token %q", p.peek().Text)
			p.pos++
		}
	}
	return root, errors.Join(p.errs...)
}

type parser struct {
	toks []syntax.Token
	pos  int
	file string
	errs []error
}

func (p *parser) peek() syntax.Token {
	if p.pos >= len(p.toks) {
		return syntax.Token{Kind: syntax.TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(offset int) syntax.Token {
	if p.pos+offset >= len(p.toks) {
		return syntax.Token{Kind: syntax.TokenEOF}
	}
	return p.toks[p.pos+offset]
}

func (p *parser) at(kind syntax.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) atKeyword(word string) bool {
	tok := p.peek()
	return tok.Kind == syntax.TokenKeyword && tok.Text == word
}

func (p *parser) atPrimitiveType() bool {
	tok := p.peek()
	return tok.Kind == syntax.TokenKeyword && primitiveTypes[tok.Text]
}

// leaf consumes the current token unconditionally.
func (p *parser) leaf() *syntax.Leaf {
	tok := p.peek()
	p.pos++
	return syntax.NewLeaf(tok)
}

// expect consumes a token of the given kind, or records an error and
// returns nil without consuming.
func (p *parser) expect(kind syntax.TokenKind) *syntax.Leaf {
	if p.at(kind) {
		return p.leaf()
	}
	p.errorf(p.peek(), "expected %s, found %q", kind, p.peek().Text)
	return nil
}

func (p *parser) expectKeyword(word string) *syntax.Leaf {
	if p.atKeyword(word) {
		return p.leaf()
	}
	p.errorf(p.peek(), "expected %q, found %q", word, p.peek().Text)
	return nil
}

func (p *parser) errorf(tok syntax.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errs = append(p.errs, fmt.Errorf("%s:%d:%d: %s", p.file, tok.Line, tok.Col, msg))
}

func addIfNotNil(n *syntax.Node, leaf *syntax.Leaf) {
	if leaf != nil {
		n.AddChild(leaf)
	}
}

// parseItem parses one description, module item, class item, or (when
// inFunction is set) function-body item. Returns nil on tokens it skips.
func (p *parser) parseItem(inFunction bool) *syntax.Node {
	tok := p.peek()
	switch tok.Kind {
	case syntax.TokenInclude:
		return p.parseInclude()
	case syntax.TokenDirective:
		p.pos++ // unsupported directive, transparent
		return nil
	case syntax.TokenKeyword:
		switch tok.Text {
		case "module":
			return p.parseModuleLike(syntax.KindModuleDeclaration, "endmodule")
		case "interface":
			return p.parseModuleLike(syntax.KindInterfaceDeclaration, "endinterface")
		case "package":
			return p.parsePackage()
		case "class":
			return p.parseClass()
		case "function":
			return p.parseRoutine(routineFunction, nil)
		case "task":
			return p.parseRoutine(routineTask, nil)
		case "extern":
			return p.parseExtern()
		case "wire":
			return p.parseNetDecl()
		case "parameter", "localparam":
			return p.parseParamDecl()
		case "typedef":
			return p.parseTypedef()
		case "initial":
			return p.parseInitial()
		case "generate", "endgenerate":
			p.pos++ // generate regions are transparent
			return nil
		case "if":
			if inFunction {
				return p.parseStatement()
			}
			return p.parseConditionalGenerate()
		case "begin":
			if inFunction {
				return p.parseSeqBlock()
			}
		case "return":
			if inFunction {
				return p.parseStatement()
			}
		default:
			if p.atPrimitiveType() {
				return p.parseDataDecl()
			}
		}
	case syntax.TokenIdentifier, syntax.TokenDot:
		if inFunction {
			if p.startsDeclaration() {
				return p.parseDataDecl()
			}
			return p.parseStatement()
		}
		return p.parseDataDecl()
	}
	return nil
}

// startsDeclaration disambiguates "my_t x;" from "x = 1;" and "f(y);" in
// statement position by scanning the leading identifier chain.
func (p *parser) startsDeclaration() bool {
	if !p.at(syntax.TokenIdentifier) {
		return false
	}
	i := 1
	for p.peekAt(i).Kind == syntax.TokenScopeRes &&
		p.peekAt(i+1).Kind == syntax.TokenIdentifier {
		i += 2
	}
	switch p.peekAt(i).Kind {
	case syntax.TokenIdentifier, syntax.TokenHash:
		return true
	}
	return false
}

func (p *parser) parseBodyUntil(endKeyword string, inFunction bool) []syntax.Element {
	var items []syntax.Element
	for !p.atKeyword(endKeyword) && !p.at(syntax.TokenEOF) {
		before := p.pos
		if item := p.parseItem(inFunction); item != nil {
			items = append(items, item)
		}
		if p.pos == before {
			p.errorf(p.peek(), "unexpected token %q", p.peek().Text)
			p.pos++
		}
	}
	return items
}

func (p *parser) parseModuleLike(kind syntax.NodeKind, endKeyword string) *syntax.Node {
	n := syntax.NewNode(kind, p.leaf()) // module / interface
	addIfNotNil(n, p.expect(syntax.TokenIdentifier))
	if p.at(syntax.TokenLParen) {
		n.AddChild(p.parsePortList(syntax.KindPortDeclaration))
	}
	addIfNotNil(n, p.expect(syntax.TokenSemicolon))
	n.Children = append(n.Children, p.parseBodyUntil(endKeyword, false)...)
	addIfNotNil(n, p.expectKeyword(endKeyword))
	p.parseOptionalEndLabel(n)
	return n
}

func (p *parser) parsePackage() *syntax.Node {
	n := syntax.NewNode(syntax.KindPackageDeclaration, p.leaf())
	addIfNotNil(n, p.expect(syntax.TokenIdentifier))
	addIfNotNil(n, p.expect(syntax.TokenSemicolon))
	n.Children = append(n.Children, p.parseBodyUntil("endpackage", false)...)
	addIfNotNil(n, p.expectKeyword("endpackage"))
	p.parseOptionalEndLabel(n)
	return n
}

func (p *parser) parseClass() *syntax.Node {
	n := syntax.NewNode(syntax.KindClassDeclaration, p.leaf())
	addIfNotNil(n, p.expect(syntax.TokenIdentifier))
	addIfNotNil(n, p.expect(syntax.TokenSemicolon))
	n.Children = append(n.Children, p.parseBodyUntil("endclass", false)...)
	addIfNotNil(n, p.expectKeyword("endclass"))
	p.parseOptionalEndLabel(n)
	return n
}

// parseOptionalEndLabel consumes a trailing ": name" after an end keyword.
func (p *parser) parseOptionalEndLabel(n *syntax.Node) {
	if p.at(syntax.TokenColon) && p.peekAt(1).Kind == syntax.TokenIdentifier {
		n.AddChild(p.leaf())
		n.AddChild(p.leaf())
	}
}

func (p *parser) parseExtern() *syntax.Node {
	externLeaf := p.leaf()
	switch {
	case p.atKeyword("function"):
		return p.parseRoutine(routineFunctionProto, externLeaf)
	case p.atKeyword("task"):
		return p.parseRoutine(routineTaskProto, externLeaf)
	}
	p.errorf(p.peek(), "expected function or task after extern")
	return nil
}

type routineForm int

const (
	routineFunction routineForm = iota
	routineFunctionProto
	routineTask
	routineTaskProto
)

func (f routineForm) headerKind() syntax.NodeKind {
	if f == routineFunction || f == routineFunctionProto {
		return syntax.KindFunctionHeader
	}
	return syntax.KindTaskHeader
}

func (f routineForm) isProto() bool {
	return f == routineFunctionProto || f == routineTaskProto
}

func (f routineForm) isFunction() bool {
	return f == routineFunction || f == routineFunctionProto
}

// parseRoutine parses a function or task declaration or extern prototype.
// The routine name can be an unqualified id or a qualified "C::m" id for
// out-of-line definitions; the return type (functions only) is whatever
// sits between the keyword and the name.
func (p *parser) parseRoutine(form routineForm, externLeaf *syntax.Leaf) *syntax.Node {
	header := syntax.NewNode(form.headerKind(), p.leaf()) // function / task
	for p.atKeyword("automatic") || p.atKeyword("static") {
		header.AddChild(p.leaf())
	}

	nameStart := p.findRoutineName()
	if nameStart > p.pos && form.isFunction() {
		header.AddChild(p.parseDataType())
	}
	// Anything left before the name that the type did not consume is
	// skipped with a diagnostic (e.g. unsupported signing keywords).
	for p.pos < nameStart {
		p.errorf(p.peek(), "unexpected token %q in routine header", p.peek().Text)
		p.pos++
	}
	if p.at(syntax.TokenIdentifier) {
		header.AddChild(p.parseIDChain())
	} else {
		p.errorf(p.peek(), "expected routine name, found %q", p.peek().Text)
	}
	if p.at(syntax.TokenLParen) {
		header.AddChild(p.parsePortList(syntax.KindPortItem))
	}
	addIfNotNil(header, p.expect(syntax.TokenSemicolon))

	if form.isProto() {
		proto := syntax.NewNode(protoKind(form))
		if externLeaf != nil {
			proto.AddChild(externLeaf)
		}
		proto.AddChild(header)
		return proto
	}

	declKind, endKeyword := syntax.KindFunctionDeclaration, "endfunction"
	if !form.isFunction() {
		declKind, endKeyword = syntax.KindTaskDeclaration, "endtask"
	}
	decl := syntax.NewNode(declKind, header)
	decl.Children = append(decl.Children, p.parseBodyUntil(endKeyword, true)...)
	addIfNotNil(decl, p.expectKeyword(endKeyword))
	p.parseOptionalEndLabel(decl)
	return decl
}

func protoKind(form routineForm) syntax.NodeKind {
	if form == routineFunctionProto {
		return syntax.KindFunctionPrototype
	}
	return syntax.KindTaskPrototype
}

// findRoutineName locates the token index where the routine name starts:
// the trailing identifier chain immediately before the first "(" or ";".
func (p *parser) findRoutineName() int {
	stop := p.pos
	for stop < len(p.toks) {
		k := p.toks[stop].Kind
		if k == syntax.TokenLParen || k == syntax.TokenSemicolon || k == syntax.TokenEOF {
			break
		}
		stop++
	}
	i := stop - 1
	if i < p.pos || p.toks[i].Kind != syntax.TokenIdentifier {
		return stop
	}
	for i-2 >= p.pos &&
		p.toks[i-1].Kind == syntax.TokenScopeRes &&
		p.toks[i-2].Kind == syntax.TokenIdentifier {
		i -= 2
	}
	return i
}

// parseIDChain parses "a" into an unqualified-id, or "a::b::c" into a
// qualified-id of unqualified-ids separated by "::" leaves.
func (p *parser) parseIDChain() *syntax.Node {
	first := syntax.NewNode(syntax.KindUnqualifiedID, p.leaf())
	if !p.at(syntax.TokenScopeRes) {
		return first
	}
	qualified := syntax.NewNode(syntax.KindQualifiedID, first)
	for p.at(syntax.TokenScopeRes) {
		qualified.AddChild(p.leaf()) // "::"
		if p.at(syntax.TokenIdentifier) {
			qualified.AddChild(syntax.NewNode(syntax.KindUnqualifiedID, p.leaf()))
		} else {
			p.errorf(p.peek(), "expected identifier after ::")
			break
		}
	}
	return qualified
}

// parsePortList parses "(...)" where each item is either a module-style
// port declaration or a function/task port item, per itemKind.
func (p *parser) parsePortList(itemKind syntax.NodeKind) *syntax.Node {
	list := syntax.NewNode(syntax.KindPortList, p.leaf()) // "("
	for !p.at(syntax.TokenRParen) && !p.at(syntax.TokenEOF) {
		before := p.pos
		list.AddChild(p.parsePortListItem(itemKind))
		if p.at(syntax.TokenComma) {
			list.AddChild(p.leaf())
		}
		if p.pos == before {
			p.errorf(p.peek(), "unexpected token %q in port list", p.peek().Text)
			p.pos++
		}
	}
	addIfNotNil(list, p.expect(syntax.TokenRParen))
	return list
}

func (p *parser) parsePortListItem(itemKind syntax.NodeKind) *syntax.Node {
	item := syntax.NewNode(itemKind)
	for p.atKeyword("input") || p.atKeyword("output") || p.atKeyword("inout") ||
		p.atKeyword("wire") {
		item.AddChild(p.leaf())
	}
	switch {
	case p.atPrimitiveType():
		item.AddChild(p.parseDataType())
	case p.at(syntax.TokenIdentifier) && p.peekAt(1).Kind == syntax.TokenIdentifier:
		item.AddChild(p.parseDataType())
	case p.at(syntax.TokenIdentifier) && p.peekAt(1).Kind == syntax.TokenScopeRes:
		item.AddChild(p.parseDataType())
	}
	if p.at(syntax.TokenIdentifier) {
		item.AddChild(syntax.NewNode(syntax.KindUnqualifiedID, p.leaf()))
	} else {
		p.errorf(p.peek(), "expected port name, found %q", p.peek().Text)
	}
	p.parseDimensions(item)
	return item
}

// parseDimensions parses bracketed dimensions such as "[3:0]" or
// "[W-1:0]". Expressions inside dimensions are full subtrees so that any
// identifiers they reference are collected as their own reference chains.
func (p *parser) parseDimensions(n *syntax.Node) {
	for p.at(syntax.TokenLBracket) {
		n.AddChild(p.leaf())
		for !p.at(syntax.TokenRBracket) && !p.at(syntax.TokenEOF) {
			if p.at(syntax.TokenColon) {
				n.AddChild(p.leaf())
				continue
			}
			before := p.pos
			n.AddChild(p.parseExpression())
			if p.pos == before {
				p.errorf(p.peek(), "unexpected token %q in dimensions", p.peek().Text)
				p.pos++
			}
		}
		addIfNotNil(n, p.expect(syntax.TokenRBracket))
	}
}

func (p *parser) parseNetDecl() *syntax.Node {
	n := syntax.NewNode(syntax.KindNetDeclaration, p.leaf()) // "wire"
	p.parseDimensions(n)
	for {
		if p.at(syntax.TokenIdentifier) {
			netVar := syntax.NewNode(syntax.KindNetVariable, p.leaf())
			p.parseDimensions(netVar)
			if p.at(syntax.TokenAssign) {
				netVar.AddChild(p.leaf())
				netVar.AddChild(p.parseExpression())
			}
			n.AddChild(netVar)
		} else {
			p.errorf(p.peek(), "expected net name, found %q", p.peek().Text)
			break
		}
		if p.at(syntax.TokenComma) {
			n.AddChild(p.leaf())
			continue
		}
		break
	}
	addIfNotNil(n, p.expect(syntax.TokenSemicolon))
	return n
}

// parseDataDecl parses a data declaration: a data type followed by either
// register variables or gate/module instances.
func (p *parser) parseDataDecl() *syntax.Node {
	decl := syntax.NewNode(syntax.KindDataDeclaration, p.parseDataType())
	if p.at(syntax.TokenIdentifier) && p.peekAt(1).Kind == syntax.TokenLParen {
		decl.AddChild(p.parseGateInstanceList())
	} else {
		p.parseRegisterVariables(decl)
	}
	addIfNotNil(decl, p.expect(syntax.TokenSemicolon))
	return decl
}

func (p *parser) parseGateInstanceList() *syntax.Node {
	list := syntax.NewNode(syntax.KindGateInstanceList)
	for {
		if !p.at(syntax.TokenIdentifier) {
			p.errorf(p.peek(), "expected instance name, found %q", p.peek().Text)
			break
		}
		instance := syntax.NewNode(syntax.KindGateInstance, p.leaf())
		instance.AddChild(p.parsePortActualList())
		list.AddChild(instance)
		if p.at(syntax.TokenComma) {
			list.AddChild(p.leaf())
			continue
		}
		break
	}
	return list
}

func (p *parser) parseRegisterVariables(decl *syntax.Node) {
	for {
		if !p.at(syntax.TokenIdentifier) {
			p.errorf(p.peek(), "expected variable name, found %q", p.peek().Text)
			return
		}
		rv := syntax.NewNode(syntax.KindRegisterVariable, p.leaf())
		p.parseDimensions(rv)
		if p.at(syntax.TokenAssign) {
			rv.AddChild(p.leaf())
			rv.AddChild(p.parseExpression())
		}
		decl.AddChild(rv)
		if p.at(syntax.TokenComma) {
			decl.AddChild(p.leaf())
			continue
		}
		return
	}
}

// parseDataType parses a primitive keyword type or a (possibly qualified)
// user-defined type reference, with optional packed dimensions and an
// optional "#(...)" actual-parameter list.
func (p *parser) parseDataType() *syntax.Node {
	dt := syntax.NewNode(syntax.KindDataType)
	switch {
	case p.atPrimitiveType():
		dt.AddChild(p.leaf())
	case p.at(syntax.TokenIdentifier):
		dt.AddChild(p.parseIDChain())
	default:
		// Implicit type: leave the node empty.
		return dt
	}
	p.parseDimensions(dt)
	if p.at(syntax.TokenHash) {
		dt.AddChild(p.parseActualParameterList())
	}
	return dt
}

func (p *parser) parseActualParameterList() *syntax.Node {
	list := syntax.NewNode(syntax.KindActualParameterList, p.leaf()) // "#"
	addIfNotNil(list, p.expect(syntax.TokenLParen))
	p.parseActualArgs(list, syntax.KindParamByName)
	addIfNotNil(list, p.expect(syntax.TokenRParen))
	return list
}

func (p *parser) parsePortActualList() *syntax.Node {
	list := syntax.NewNode(syntax.KindPortActualList, p.leaf()) // "("
	p.parseActualArgs(list, syntax.KindActualNamedPort)
	addIfNotNil(list, p.expect(syntax.TokenRParen))
	return list
}

// parseActualArgs parses the comma-separated items of an actual list.
// ".name(expr)" items become namedKind nodes, anything else a positional
// expression.
func (p *parser) parseActualArgs(list *syntax.Node, namedKind syntax.NodeKind) {
	for !p.at(syntax.TokenRParen) && !p.at(syntax.TokenEOF) {
		before := p.pos
		if p.at(syntax.TokenDot) {
			named := syntax.NewNode(namedKind, p.leaf()) // "."
			addIfNotNil(named, p.expect(syntax.TokenIdentifier))
			addIfNotNil(named, p.expect(syntax.TokenLParen))
			if !p.at(syntax.TokenRParen) {
				named.AddChild(p.parseExpression())
			}
			addIfNotNil(named, p.expect(syntax.TokenRParen))
			list.AddChild(named)
		} else {
			list.AddChild(p.parseExpression())
		}
		if p.at(syntax.TokenComma) {
			list.AddChild(p.leaf())
		}
		if p.pos == before {
			p.errorf(p.peek(), "unexpected token %q in actual list", p.peek().Text)
			p.pos++
		}
	}
}

func (p *parser) parseParamDecl() *syntax.Node {
	decl := syntax.NewNode(syntax.KindParamDeclaration, p.leaf()) // parameter/localparam
	paramType := syntax.NewNode(syntax.KindParamType)
	switch {
	case p.atPrimitiveType():
		paramType.AddChild(p.parseDataType())
	case p.at(syntax.TokenIdentifier) && p.peekAt(1).Kind == syntax.TokenIdentifier:
		paramType.AddChild(p.parseDataType())
	case p.at(syntax.TokenIdentifier) && p.peekAt(1).Kind == syntax.TokenScopeRes:
		paramType.AddChild(p.parseDataType())
	}
	addIfNotNil(paramType, p.expect(syntax.TokenIdentifier))
	decl.AddChild(paramType)
	if p.at(syntax.TokenAssign) {
		decl.AddChild(p.leaf())
		decl.AddChild(p.parseExpression())
	}
	addIfNotNil(decl, p.expect(syntax.TokenSemicolon))
	return decl
}

func (p *parser) parseTypedef() *syntax.Node {
	n := syntax.NewNode(syntax.KindTypedefDeclaration, p.leaf()) // typedef
	n.AddChild(p.parseDataType())
	if p.at(syntax.TokenIdentifier) {
		n.AddChild(syntax.NewNode(syntax.KindUnqualifiedID, p.leaf()))
	} else {
		p.errorf(p.peek(), "expected typedef name, found %q", p.peek().Text)
	}
	p.parseDimensions(n)
	addIfNotNil(n, p.expect(syntax.TokenSemicolon))
	return n
}

func (p *parser) parseInitial() *syntax.Node {
	n := syntax.NewNode(syntax.KindInitialStatement, p.leaf()) // initial
	if p.atKeyword("begin") {
		n.AddChild(p.parseSeqBlock())
	} else if stmt := p.parseStatement(); stmt != nil {
		n.AddChild(stmt)
	}
	return n
}

func (p *parser) parseSeqBlock() *syntax.Node {
	block := syntax.NewNode(syntax.KindSeqBlock, p.leaf()) // begin
	if p.at(syntax.TokenColon) && p.peekAt(1).Kind == syntax.TokenIdentifier {
		block.AddChild(p.leaf())
		block.AddChild(p.leaf())
	}
	block.Children = append(block.Children, p.parseBodyUntil("end", true)...)
	addIfNotNil(block, p.expectKeyword("end"))
	p.parseOptionalEndLabel(block)
	return block
}

func (p *parser) parseStatement() *syntax.Node {
	switch {
	case p.atKeyword("return"):
		stmt := syntax.NewNode(syntax.KindStatement, p.leaf())
		if !p.at(syntax.TokenSemicolon) {
			stmt.AddChild(p.parseExpression())
		}
		addIfNotNil(stmt, p.expect(syntax.TokenSemicolon))
		return stmt
	case p.atKeyword("if"):
		stmt := syntax.NewNode(syntax.KindStatement, p.leaf())
		addIfNotNil(stmt, p.expect(syntax.TokenLParen))
		stmt.AddChild(p.parseExpression())
		addIfNotNil(stmt, p.expect(syntax.TokenRParen))
		if body := p.parseStatementOrBlock(); body != nil {
			stmt.AddChild(body)
		}
		if p.atKeyword("else") {
			stmt.AddChild(p.leaf())
			if body := p.parseStatementOrBlock(); body != nil {
				stmt.AddChild(body)
			}
		}
		return stmt
	case p.atKeyword("begin"):
		return p.parseSeqBlock()
	}

	if !p.at(syntax.TokenIdentifier) {
		p.errorf(p.peek(), "expected statement, found %q", p.peek().Text)
		return nil
	}
	stmt := syntax.NewNode(syntax.KindStatement, p.parseReferenceCallBase())
	if p.at(syntax.TokenAssign) ||
		(p.at(syntax.TokenOperator) && p.peek().Text == "<=") {
		// Blocking or nonblocking assignment.
		stmt.AddChild(p.leaf())
		stmt.AddChild(p.parseExpression())
	}
	addIfNotNil(stmt, p.expect(syntax.TokenSemicolon))
	return stmt
}

func (p *parser) parseStatementOrBlock() *syntax.Node {
	if p.atKeyword("begin") {
		return p.parseSeqBlock()
	}
	return p.parseStatement()
}

// parseReferenceCallBase parses a reference expression: a local root
// (unqualified or qualified id, optionally called), followed by any
// number of member and method-call extensions.
func (p *parser) parseReferenceCallBase() *syntax.Node {
	ref := syntax.NewNode(syntax.KindReferenceCallBase)
	root := syntax.NewNode(syntax.KindLocalRoot, p.parseIDChain())
	if p.at(syntax.TokenLParen) {
		call := syntax.NewNode(syntax.KindFunctionCall, root, p.leaf())
		p.parseCallArgs(call)
		addIfNotNil(call, p.expect(syntax.TokenRParen))
		ref.AddChild(call)
	} else {
		ref.AddChild(root)
	}
	for {
		p.parseDimensions(ref)
		if !p.at(syntax.TokenDot) {
			return ref
		}
		dot := p.leaf()
		if !p.at(syntax.TokenIdentifier) {
			p.errorf(p.peek(), "expected identifier after .")
			return ref
		}
		id := syntax.NewNode(syntax.KindUnqualifiedID, p.leaf())
		if p.at(syntax.TokenLParen) {
			ext := syntax.NewNode(syntax.KindMethodCallExtension, dot, id, p.leaf())
			p.parseCallArgs(ext)
			addIfNotNil(ext, p.expect(syntax.TokenRParen))
			ref.AddChild(ext)
		} else {
			ref.AddChild(syntax.NewNode(syntax.KindHierarchyExtension, dot, id))
		}
	}
}

func (p *parser) parseCallArgs(call *syntax.Node) {
	for !p.at(syntax.TokenRParen) && !p.at(syntax.TokenEOF) {
		before := p.pos
		call.AddChild(p.parseExpression())
		if p.at(syntax.TokenComma) {
			call.AddChild(p.leaf())
		}
		if p.pos == before {
			p.errorf(p.peek(), "unexpected token %q in call arguments", p.peek().Text)
			p.pos++
		}
	}
}

func (p *parser) parseExpression() *syntax.Node {
	expr := syntax.NewNode(syntax.KindExpression)
	p.parseOperand(expr)
	for p.at(syntax.TokenOperator) {
		expr.AddChild(p.leaf())
		p.parseOperand(expr)
	}
	return expr
}

func (p *parser) parseOperand(expr *syntax.Node) {
	switch p.peek().Kind {
	case syntax.TokenNumber, syntax.TokenString:
		expr.AddChild(p.leaf())
	case syntax.TokenIdentifier:
		expr.AddChild(p.parseReferenceCallBase())
	case syntax.TokenLParen:
		expr.AddChild(p.leaf())
		expr.AddChild(p.parseExpression())
		addIfNotNil(expr, p.expect(syntax.TokenRParen))
	case syntax.TokenOperator:
		// Unary operator.
		expr.AddChild(p.leaf())
		p.parseOperand(expr)
	default:
		p.errorf(p.peek(), "expected expression, found %q", p.peek().Text)
	}
}

// parseConditionalGenerate parses "if (...) body [else ...]" as a
// conditional generate construct. A chained "else if" nests another
// conditional construct directly in the else clause.
func (p *parser) parseConditionalGenerate() *syntax.Node {
	construct := syntax.NewNode(syntax.KindConditionalGenerateConstruct)
	ifClause := syntax.NewNode(syntax.KindGenerateIfClause, p.leaf()) // if
	addIfNotNil(ifClause, p.expect(syntax.TokenLParen))
	ifClause.AddChild(p.parseExpression())
	addIfNotNil(ifClause, p.expect(syntax.TokenRParen))
	if body := p.parseGenerateBody(); body != nil {
		ifClause.AddChild(body)
	}
	construct.AddChild(ifClause)

	if p.atKeyword("else") {
		elseClause := syntax.NewNode(syntax.KindGenerateElseClause, p.leaf())
		if p.atKeyword("if") {
			elseClause.AddChild(p.parseConditionalGenerate())
		} else if body := p.parseGenerateBody(); body != nil {
			elseClause.AddChild(body)
		}
		construct.AddChild(elseClause)
	}
	return construct
}

func (p *parser) parseGenerateBody() *syntax.Node {
	if !p.atKeyword("begin") {
		return p.parseItem(false)
	}
	block := syntax.NewNode(syntax.KindGenerateBlock, p.leaf()) // begin
	if p.at(syntax.TokenColon) && p.peekAt(1).Kind == syntax.TokenIdentifier {
		block.AddChild(p.leaf())
		block.AddChild(p.leaf())
	}
	block.Children = append(block.Children, p.parseBodyUntil("end", false)...)
	addIfNotNil(block, p.expectKeyword("end"))
	p.parseOptionalEndLabel(block)
	return block
}

func (p *parser) parseInclude() *syntax.Node {
	n := syntax.NewNode(syntax.KindPreprocessorInclude, p.leaf()) // `include
	addIfNotNil(n, p.expect(syntax.TokenString))
	return n
}

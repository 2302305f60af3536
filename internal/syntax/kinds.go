package syntax

// NodeKind tags interior nodes of the concrete syntax tree.
// The enumeration is closed; the symbol-table builder dispatches on it
// exhaustively and anything it does not recognize is descended through.
type NodeKind int

const (
	KindDescriptionList NodeKind = iota
	KindModuleDeclaration
	KindInterfaceDeclaration
	KindPackageDeclaration
	KindClassDeclaration
	KindFunctionDeclaration
	KindFunctionPrototype
	KindFunctionHeader
	KindTaskDeclaration
	KindTaskPrototype
	KindTaskHeader
	KindPortList
	KindPortItem
	KindPortDeclaration
	KindNetDeclaration
	KindNetVariable
	KindDataDeclaration
	KindRegisterVariable
	KindGateInstanceList
	KindGateInstance
	KindParamDeclaration
	KindParamType
	KindTypedefDeclaration
	KindDataType
	KindReferenceCallBase
	KindLocalRoot
	KindUnqualifiedID
	KindQualifiedID
	KindHierarchyExtension
	KindFunctionCall
	KindMethodCallExtension
	KindActualParameterList
	KindParamByName
	KindPortActualList
	KindActualNamedPort
	KindConditionalGenerateConstruct
	KindGenerateIfClause
	KindGenerateElseClause
	KindGenerateBlock
	KindInitialStatement
	KindSeqBlock
	KindStatement
	KindExpression
	KindPreprocessorInclude
)

var nodeKindNames = map[NodeKind]string{
	KindDescriptionList:              "description-list",
	KindModuleDeclaration:            "module-declaration",
	KindInterfaceDeclaration:         "interface-declaration",
	KindPackageDeclaration:           "package-declaration",
	KindClassDeclaration:             "class-declaration",
	KindFunctionDeclaration:          "function-declaration",
	KindFunctionPrototype:            "function-prototype",
	KindFunctionHeader:               "function-header",
	KindTaskDeclaration:              "task-declaration",
	KindTaskPrototype:                "task-prototype",
	KindTaskHeader:                   "task-header",
	KindPortList:                     "port-list",
	KindPortItem:                     "port-item",
	KindPortDeclaration:              "port-declaration",
	KindNetDeclaration:               "net-declaration",
	KindNetVariable:                  "net-variable",
	KindDataDeclaration:              "data-declaration",
	KindRegisterVariable:             "register-variable",
	KindGateInstanceList:             "gate-instance-list",
	KindGateInstance:                 "gate-instance",
	KindParamDeclaration:             "param-declaration",
	KindParamType:                    "param-type",
	KindTypedefDeclaration:           "typedef-declaration",
	KindDataType:                     "data-type",
	KindReferenceCallBase:            "reference-call-base",
	KindLocalRoot:                    "local-root",
	KindUnqualifiedID:                "unqualified-id",
	KindQualifiedID:                  "qualified-id",
	KindHierarchyExtension:           "hierarchy-extension",
	KindFunctionCall:                 "function-call",
	KindMethodCallExtension:          "method-call-extension",
	KindActualParameterList:          "actual-parameter-list",
	KindParamByName:                  "param-by-name",
	KindPortActualList:               "port-actual-list",
	KindActualNamedPort:              "actual-named-port",
	KindConditionalGenerateConstruct: "conditional-generate-construct",
	KindGenerateIfClause:             "generate-if-clause",
	KindGenerateElseClause:           "generate-else-clause",
	KindGenerateBlock:                "generate-block",
	KindInitialStatement:             "initial-statement",
	KindSeqBlock:                     "seq-block",
	KindStatement:                    "statement",
	KindExpression:                   "expression",
	KindPreprocessorInclude:          "preprocessor-include",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown-node-kind"
}

// TokenKind tags leaf tokens of the concrete syntax tree.
type TokenKind int

const (
	TokenError TokenKind = iota
	TokenEOF
	TokenIdentifier
	TokenNumber
	TokenString
	TokenKeyword
	TokenScopeRes // "::"
	TokenDot      // "."
	TokenComma
	TokenSemicolon
	TokenColon
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenHash
	TokenAssign
	TokenOperator
	TokenInclude   // "`include"
	TokenDirective // any other backtick directive
)

var tokenKindNames = map[TokenKind]string{
	TokenError:      "error",
	TokenEOF:        "eof",
	TokenIdentifier: "identifier",
	TokenNumber:     "number",
	TokenString:     "string",
	TokenKeyword:    "keyword",
	TokenScopeRes:   "::",
	TokenDot:        ".",
	TokenComma:      ",",
	TokenSemicolon:  ";",
	TokenColon:      ":",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenHash:       "#",
	TokenAssign:     "=",
	TokenOperator:   "operator",
	TokenInclude:    "`include",
	TokenDirective:  "directive",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown-token-kind"
}

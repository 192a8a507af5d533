package ast

// Kind is the closed set of node shapes the rewriter inspects. Grammar types
// outside this set map to KindOther and keep their raw type in Node.Type.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindComment
	KindIdentifier
	KindPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindMemberExpression
	KindSubscriptExpression
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFunctionExpression
	KindGeneratorFunction
	KindArrowFunction
	KindMethodDefinition
	KindFormalParameters
	KindRequiredParameter
	KindOptionalParameter
	KindStatementBlock
	KindExpressionStatement
	KindLexicalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindCallExpression
	KindArguments
	KindParenthesizedExpression
	KindPair
	KindComputedPropertyName
	KindAssignmentPattern
	KindObjectAssignmentPattern
	KindObjectPattern
	KindArrayPattern
	KindPairPattern
	KindRestPattern
	KindImportStatement
	KindImportClause
	KindNamedImports
	KindImportSpecifier
	KindNamespaceImport
	KindString
	KindForStatement
	KindForInStatement
	KindCatchClause
	KindSwitchBody
	KindClassDeclaration
	KindClass
)

var kindNames = [...]string{
	KindOther:                              "other",
	KindProgram:                            "program",
	KindComment:                            "comment",
	KindIdentifier:                         "identifier",
	KindPropertyIdentifier:                 "property_identifier",
	KindShorthandPropertyIdentifierPattern: "shorthand_property_identifier_pattern",
	KindMemberExpression:                   "member_expression",
	KindSubscriptExpression:                "subscript_expression",
	KindFunctionDeclaration:                "function_declaration",
	KindGeneratorFunctionDeclaration:       "generator_function_declaration",
	KindFunctionExpression:                 "function_expression",
	KindGeneratorFunction:                  "generator_function",
	KindArrowFunction:                      "arrow_function",
	KindMethodDefinition:                   "method_definition",
	KindFormalParameters:                   "formal_parameters",
	KindRequiredParameter:                  "required_parameter",
	KindOptionalParameter:                  "optional_parameter",
	KindStatementBlock:                     "statement_block",
	KindExpressionStatement:                "expression_statement",
	KindLexicalDeclaration:                 "lexical_declaration",
	KindVariableDeclaration:                "variable_declaration",
	KindVariableDeclarator:                 "variable_declarator",
	KindAssignmentExpression:               "assignment_expression",
	KindAugmentedAssignmentExpression:      "augmented_assignment_expression",
	KindCallExpression:                     "call_expression",
	KindArguments:                          "arguments",
	KindParenthesizedExpression:            "parenthesized_expression",
	KindPair:                               "pair",
	KindComputedPropertyName:               "computed_property_name",
	KindAssignmentPattern:                  "assignment_pattern",
	KindObjectAssignmentPattern:            "object_assignment_pattern",
	KindObjectPattern:                      "object_pattern",
	KindArrayPattern:                       "array_pattern",
	KindPairPattern:                        "pair_pattern",
	KindRestPattern:                        "rest_pattern",
	KindImportStatement:                    "import_statement",
	KindImportClause:                       "import_clause",
	KindNamedImports:                       "named_imports",
	KindImportSpecifier:                    "import_specifier",
	KindNamespaceImport:                    "namespace_import",
	KindString:                             "string",
	KindForStatement:                       "for_statement",
	KindForInStatement:                     "for_in_statement",
	KindCatchClause:                        "catch_clause",
	KindSwitchBody:                         "switch_body",
	KindClassDeclaration:                   "class_declaration",
	KindClass:                              "class",
}

var kindsByType = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames)+4)
	for k, name := range kindNames {
		if Kind(k) != KindOther {
			m[name] = Kind(k)
		}
	}
	// Older grammar revisions name function expressions "function".
	m["function"] = KindFunctionExpression
	return m
}()

// String returns the grammar type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps a tree-sitter node type onto a Kind.
func KindOf(nodeType string) Kind {
	if k, ok := kindsByType[nodeType]; ok {
		return k
	}
	return KindOther
}

// IsFunction reports whether k is any function-like node.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration,
		KindFunctionExpression, KindGeneratorFunction,
		KindArrowFunction, KindMethodDefinition:
		return true
	}
	return false
}

// IsIdentifierLike reports whether k names something with plain identifier text.
func (k Kind) IsIdentifierLike() bool {
	switch k {
	case KindIdentifier, KindPropertyIdentifier, KindShorthandPropertyIdentifierPattern:
		return true
	}
	return false
}

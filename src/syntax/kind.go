// Package syntax defines the parsed-tree contract consumed by the metrics engine.
// Parsers translate their own node shapes into these kinds so the engine never
// depends on a particular grammar.
package syntax

// Kind is the closed set of node classifications the metrics engine dispatches on
type Kind uint8

const (
	KindOther Kind = iota
	KindCompilationUnit
	KindError

	// Scopes
	KindNamespace
	KindFileScopedNamespace
	KindClass
	KindInterface
	KindStruct
	KindRecord
	KindEnum
	KindMethod
	KindParameterList
	KindParameter

	// Branches
	KindIf
	KindWhile
	KindForEach
	KindFor
	KindCaseLabel
	KindConditionalAccess
	KindConditional

	// Operators
	KindBinary
	KindLogicalOr
	KindLogicalAnd
	KindCoalesce
	KindAssignment
	KindCoalesceAssignment
	KindPrefixUnary
	KindPostfixUnary

	KindGenericName
	KindLambda

	// Trivia carried in the tree
	KindComment
	KindDocComment
	KindDirective
)

var kindNames = [...]string{
	KindOther:               "Other",
	KindCompilationUnit:     "CompilationUnit",
	KindError:               "Error",
	KindNamespace:           "Namespace",
	KindFileScopedNamespace: "FileScopedNamespace",
	KindClass:               "Class",
	KindInterface:           "Interface",
	KindStruct:              "Struct",
	KindRecord:              "Record",
	KindEnum:                "Enum",
	KindMethod:              "Method",
	KindParameterList:       "ParameterList",
	KindParameter:           "Parameter",
	KindIf:                  "If",
	KindWhile:               "While",
	KindForEach:             "ForEach",
	KindFor:                 "For",
	KindCaseLabel:           "CaseLabel",
	KindConditionalAccess:   "ConditionalAccess",
	KindConditional:         "Conditional",
	KindBinary:              "Binary",
	KindLogicalOr:           "LogicalOr",
	KindLogicalAnd:          "LogicalAnd",
	KindCoalesce:            "Coalesce",
	KindAssignment:          "Assignment",
	KindCoalesceAssignment:  "CoalesceAssignment",
	KindPrefixUnary:         "PrefixUnary",
	KindPostfixUnary:        "PostfixUnary",
	KindGenericName:         "GenericName",
	KindLambda:              "Lambda",
	KindComment:             "Comment",
	KindDocComment:          "DocComment",
	KindDirective:           "Directive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsTrivia reports whether nodes of this kind carry non-code text.
func (k Kind) IsTrivia() bool {
	return k == KindComment || k == KindDocComment || k == KindDirective
}

// IsBinary reports whether the kind is a binary expression, whatever its operator.
func (k Kind) IsBinary() bool {
	switch k {
	case KindBinary, KindLogicalOr, KindLogicalAnd, KindCoalesce:
		return true
	}
	return false
}

// IsTypeDeclaration reports whether the kind opens a type scope.
func (k Kind) IsTypeDeclaration() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindRecord, KindEnum:
		return true
	}
	return false
}

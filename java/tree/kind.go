package tree

type Kind int

const (
	KindCompilationUnit Kind = iota
	KindImport

	// Declarations
	KindClassDef
	KindMethodDef
	KindVarDef

	// Statements
	KindSkip
	KindBlock
	KindDoLoop
	KindWhileLoop
	KindForLoop
	KindForeachLoop
	KindLabelled
	KindSwitch
	KindCase
	KindSynchronized
	KindTry
	KindCatch
	KindIf
	KindExec
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindAssert
	KindYield

	// Expressions
	KindConditional
	KindMethodInvocation
	KindNewClass
	KindNewArray
	KindLambda
	KindMemberReference
	KindSwitchExpression
	KindParens
	KindAssign
	KindAssignOp
	KindUnary
	KindBinary
	KindTypeCast
	KindInstanceOf
	KindArrayAccess
	KindFieldAccess
	KindIdent
	KindLiteral

	// Types
	KindPrimitiveType
	KindArrayType
	KindTypeApply
	KindTypeParameter
	KindWildcard
	KindTypeBoundKind

	// Modifiers and annotations
	KindModifiers
	KindAnnotation

	// Placeholders and internal forms
	KindErroneous
	KindLetExpr

	kindCount
)

var kindNames = map[Kind]string{
	KindCompilationUnit:  "CompilationUnit",
	KindImport:           "Import",
	KindClassDef:         "ClassDef",
	KindMethodDef:        "MethodDef",
	KindVarDef:           "VarDef",
	KindSkip:             "Skip",
	KindBlock:            "Block",
	KindDoLoop:           "DoLoop",
	KindWhileLoop:        "WhileLoop",
	KindForLoop:          "ForLoop",
	KindForeachLoop:      "ForeachLoop",
	KindLabelled:         "Labelled",
	KindSwitch:           "Switch",
	KindCase:             "Case",
	KindSynchronized:     "Synchronized",
	KindTry:              "Try",
	KindCatch:            "Catch",
	KindIf:               "If",
	KindExec:             "Exec",
	KindBreak:            "Break",
	KindContinue:         "Continue",
	KindReturn:           "Return",
	KindThrow:            "Throw",
	KindAssert:           "Assert",
	KindYield:            "Yield",
	KindConditional:      "Conditional",
	KindMethodInvocation: "MethodInvocation",
	KindNewClass:         "NewClass",
	KindNewArray:         "NewArray",
	KindLambda:           "Lambda",
	KindMemberReference:  "MemberReference",
	KindSwitchExpression: "SwitchExpression",
	KindParens:           "Parens",
	KindAssign:           "Assign",
	KindAssignOp:         "AssignOp",
	KindUnary:            "Unary",
	KindBinary:           "Binary",
	KindTypeCast:         "TypeCast",
	KindInstanceOf:       "InstanceOf",
	KindArrayAccess:      "ArrayAccess",
	KindFieldAccess:      "FieldAccess",
	KindIdent:            "Ident",
	KindLiteral:          "Literal",
	KindPrimitiveType:    "PrimitiveType",
	KindArrayType:        "ArrayType",
	KindTypeApply:        "TypeApply",
	KindTypeParameter:    "TypeParameter",
	KindWildcard:         "Wildcard",
	KindTypeBoundKind:    "TypeBoundKind",
	KindModifiers:        "Modifiers",
	KindAnnotation:       "Annotation",
	KindErroneous:        "Erroneous",
	KindLetExpr:          "LetExpr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindByName is the inverse of Kind.String.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

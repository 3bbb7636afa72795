// Package tree is the syntax tree of a Java compilation unit and the
// scanner that walks it.
//
// Every node kind is a struct owning its children as typed fields. The set
// of node types is closed: Node has an unexported method, so only this
// package can add kinds, and the Scanner handles each of them.
//
// Absent children are nil. A nil child is never an error; the scanner
// skips it.
package tree

import (
	"strings"

	"github.com/dhamidi/javafront/java/symbol"
)

type Node interface {
	Kind() Kind
	// Pos is the offset of the first character of the node, End the
	// offset just past its last character.
	Pos() int
	End() int
	SetSpan(pos, end int)
	node()
}

// Expr is a node that may appear where an expression or a type is expected.
type Expr interface {
	Node
	expr()
}

// Stmt is a node that may appear in a statement list.
type Stmt interface {
	Node
	stmt()
}

type base struct {
	pos, end int
}

func (b *base) Pos() int { return b.pos }
func (b *base) End() int { return b.end }

func (b *base) SetSpan(pos, end int) {
	b.pos, b.end = pos, end
}

func (*base) node() {}

type exprNode struct{ base }

func (*exprNode) expr() {}

type stmtNode struct{ base }

func (*stmtNode) stmt() {}

// At sets the span of n and returns it.
func At[N Node](n N, pos, end int) N {
	n.SetSpan(pos, end)
	return n
}

// Contains reports whether offset pos lies in the span of n.
func Contains(n Node, pos int) bool {
	return n.Pos() <= pos && pos < n.End()
}

type CompilationUnit struct {
	base
	File               string
	PackageAnnotations []*Annotation
	Pid                Expr
	Defs               []Node

	Package      *symbol.Symbol
	NamedImports *symbol.Table
	StarImports  *symbol.Table
}

func (*CompilationUnit) Kind() Kind { return KindCompilationUnit }

// Imports returns the import declarations of the unit in source order.
func (t *CompilationUnit) Imports() []*Import {
	var imports []*Import
	for _, def := range t.Defs {
		if imp, ok := def.(*Import); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

// TypeDecls returns the top-level class declarations of the unit.
func (t *CompilationUnit) TypeDecls() []*ClassDef {
	var classes []*ClassDef
	for _, def := range t.Defs {
		if class, ok := def.(*ClassDef); ok {
			classes = append(classes, class)
		}
	}
	return classes
}

// PackageName returns the dotted package name, or "" for the unnamed package.
func (t *CompilationUnit) PackageName() string {
	return QualifiedName(t.Pid)
}

type Import struct {
	base
	Qualid Expr
	Static bool
}

func (*Import) Kind() Kind { return KindImport }

// IsStar reports an on-demand import such as "import java.util.*".
func (t *Import) IsStar() bool {
	sel, ok := t.Qualid.(*FieldAccess)
	return ok && sel.Name == "*"
}

type ClassKind int

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnum
	ClassKindAnnotation
	ClassKindRecord
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindInterface:
		return "interface"
	case ClassKindEnum:
		return "enum"
	case ClassKindAnnotation:
		return "@interface"
	case ClassKindRecord:
		return "record"
	default:
		return "class"
	}
}

type ClassDef struct {
	stmtNode
	Mods         *Modifiers
	ClassKind    ClassKind
	Name         string
	TypeParams   []*TypeParameter
	Extending    Expr
	Implementing []Expr
	Defs         []Node
	Sym          *symbol.Symbol
}

func (*ClassDef) Kind() Kind { return KindClassDef }

// ConstructorName is the name of constructor declarations.
const ConstructorName = "<init>"

type MethodDef struct {
	base
	Mods         *Modifiers
	ResType      Expr
	Name         string
	TypeParams   []*TypeParameter
	Params       []*VarDef
	Thrown       []Expr
	DefaultValue Expr
	Body         *Block
	Sym          *symbol.Symbol
}

func (*MethodDef) Kind() Kind { return KindMethodDef }

func (t *MethodDef) IsConstructor() bool {
	return t.Name == ConstructorName
}

type VarDef struct {
	stmtNode
	Mods    *Modifiers
	Name    string
	VarType Expr
	Init    Expr
	Sym     *symbol.Symbol
}

func (*VarDef) Kind() Kind { return KindVarDef }

type Skip struct{ stmtNode }

func (*Skip) Kind() Kind { return KindSkip }

type Block struct {
	stmtNode
	Static bool
	Stats  []Stmt
}

func (*Block) Kind() Kind { return KindBlock }

type DoLoop struct {
	stmtNode
	Body Stmt
	Cond Expr
}

func (*DoLoop) Kind() Kind { return KindDoLoop }

type WhileLoop struct {
	stmtNode
	Cond Expr
	Body Stmt
}

func (*WhileLoop) Kind() Kind { return KindWhileLoop }

type ForLoop struct {
	stmtNode
	Init []Stmt
	Cond Expr
	Step []*Exec
	Body Stmt
}

func (*ForLoop) Kind() Kind { return KindForLoop }

type ForeachLoop struct {
	stmtNode
	Var  *VarDef
	Expr Expr
	Body Stmt
}

func (*ForeachLoop) Kind() Kind { return KindForeachLoop }

type Labelled struct {
	stmtNode
	Label string
	Body  Stmt
}

func (*Labelled) Kind() Kind { return KindLabelled }

type Switch struct {
	stmtNode
	Selector Expr
	Cases    []*Case
}

func (*Switch) Kind() Kind { return KindSwitch }

// Case is one switch group. No labels means "default". Rule cases
// ("case X -> ...") hold their body as the single statement.
type Case struct {
	stmtNode
	Labels []Expr
	Stats  []Stmt
	Rule   bool
}

func (*Case) Kind() Kind { return KindCase }

func (t *Case) IsDefault() bool {
	return len(t.Labels) == 0
}

type Synchronized struct {
	stmtNode
	Lock Expr
	Body *Block
}

func (*Synchronized) Kind() Kind { return KindSynchronized }

type Try struct {
	stmtNode
	Resources []Node
	Body      *Block
	Catchers  []*Catch
	Finalizer *Block
}

func (*Try) Kind() Kind { return KindTry }

type Catch struct {
	base
	Param *VarDef
	Body  *Block
}

func (*Catch) Kind() Kind { return KindCatch }

type If struct {
	stmtNode
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*If) Kind() Kind { return KindIf }

type Exec struct {
	stmtNode
	Expr Expr
}

func (*Exec) Kind() Kind { return KindExec }

type Break struct {
	stmtNode
	Label string
}

func (*Break) Kind() Kind { return KindBreak }

type Continue struct {
	stmtNode
	Label string
}

func (*Continue) Kind() Kind { return KindContinue }

type Return struct {
	stmtNode
	Expr Expr
}

func (*Return) Kind() Kind { return KindReturn }

type Throw struct {
	stmtNode
	Expr Expr
}

func (*Throw) Kind() Kind { return KindThrow }

type Assert struct {
	stmtNode
	Cond   Expr
	Detail Expr
}

func (*Assert) Kind() Kind { return KindAssert }

type Yield struct {
	stmtNode
	Value Expr
}

func (*Yield) Kind() Kind { return KindYield }

type Conditional struct {
	exprNode
	Cond      Expr
	TruePart  Expr
	FalsePart Expr
}

func (*Conditional) Kind() Kind { return KindConditional }

type MethodInvocation struct {
	exprNode
	TypeArgs []Expr
	Meth     Expr
	Args     []Expr
}

func (*MethodInvocation) Kind() Kind { return KindMethodInvocation }

type NewClass struct {
	exprNode
	Encl     Expr
	TypeArgs []Expr
	Clazz    Expr
	Args     []Expr
	Def      *ClassDef
}

func (*NewClass) Kind() Kind { return KindNewClass }

type NewArray struct {
	exprNode
	ElemType Expr
	Dims     []Expr
	Elems    []Expr
}

func (*NewArray) Kind() Kind { return KindNewArray }

// Lambda bodies are either an Expr or a *Block.
type Lambda struct {
	exprNode
	Params []*VarDef
	Body   Node
}

func (*Lambda) Kind() Kind { return KindLambda }

type MemberReference struct {
	exprNode
	Expr     Expr
	Name     string
	TypeArgs []Expr
}

func (*MemberReference) Kind() Kind { return KindMemberReference }

type SwitchExpression struct {
	exprNode
	Selector Expr
	Cases    []*Case
}

func (*SwitchExpression) Kind() Kind { return KindSwitchExpression }

type Parens struct {
	exprNode
	Expr Expr
}

func (*Parens) Kind() Kind { return KindParens }

type Assign struct {
	exprNode
	LHS Expr
	RHS Expr
}

func (*Assign) Kind() Kind { return KindAssign }

type AssignOp struct {
	exprNode
	Op  string
	LHS Expr
	RHS Expr
}

func (*AssignOp) Kind() Kind { return KindAssignOp }

type Unary struct {
	exprNode
	Op      string
	Postfix bool
	Arg     Expr
}

func (*Unary) Kind() Kind { return KindUnary }

type Binary struct {
	exprNode
	Op  string
	LHS Expr
	RHS Expr
}

func (*Binary) Kind() Kind { return KindBinary }

type TypeCast struct {
	exprNode
	Clazz Expr
	Expr  Expr
}

func (*TypeCast) Kind() Kind { return KindTypeCast }

type InstanceOf struct {
	exprNode
	Expr  Expr
	Clazz Expr
}

func (*InstanceOf) Kind() Kind { return KindInstanceOf }

type ArrayAccess struct {
	exprNode
	Indexed Expr
	Index   Expr
}

func (*ArrayAccess) Kind() Kind { return KindArrayAccess }

type FieldAccess struct {
	exprNode
	Selected Expr
	Name     string
	Sym      *symbol.Symbol
}

func (*FieldAccess) Kind() Kind { return KindFieldAccess }

type Ident struct {
	exprNode
	Name string
	Sym  *symbol.Symbol
}

func (*Ident) Kind() Kind { return KindIdent }

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitTextBlock
	LitBool
	LitNull
)

type Literal struct {
	exprNode
	LitKind LiteralKind
	Value   string
}

func (*Literal) Kind() Kind { return KindLiteral }

// PrimitiveType is a primitive type name or void.
type PrimitiveType struct {
	exprNode
	Name string
}

func (*PrimitiveType) Kind() Kind { return KindPrimitiveType }

type ArrayType struct {
	exprNode
	ElemType Expr
}

func (*ArrayType) Kind() Kind { return KindArrayType }

type TypeApply struct {
	exprNode
	Clazz     Expr
	Arguments []Expr
}

func (*TypeApply) Kind() Kind { return KindTypeApply }

type TypeParameter struct {
	base
	Name   string
	Bounds []Expr
	Sym    *symbol.Symbol
}

func (*TypeParameter) Kind() Kind { return KindTypeParameter }

type Wildcard struct {
	exprNode
	Bound *TypeBoundKind
	Inner Expr
}

func (*Wildcard) Kind() Kind { return KindWildcard }

type BoundKind int

const (
	BoundUnbound BoundKind = iota
	BoundExtends
	BoundSuper
)

func (k BoundKind) String() string {
	switch k {
	case BoundExtends:
		return "? extends"
	case BoundSuper:
		return "? super"
	default:
		return "?"
	}
}

type TypeBoundKind struct {
	base
	BoundKind BoundKind
}

func (*TypeBoundKind) Kind() Kind { return KindTypeBoundKind }

type Modifiers struct {
	base
	Flags       Flags
	Annotations []*Annotation
}

func (*Modifiers) Kind() Kind { return KindModifiers }

type Annotation struct {
	exprNode
	AnnotationType Expr
	Args           []Expr
}

func (*Annotation) Kind() Kind { return KindAnnotation }

// Erroneous stands in for source that could not be parsed. Errs keeps
// whatever partial trees were recovered; the scanner does not descend
// into them.
type Erroneous struct {
	exprNode
	Errs    []Node
	Message string
}

func (*Erroneous) Kind() Kind { return KindErroneous }

func (*Erroneous) stmt() {}

// LetExpr binds Defs for the evaluation of Expr. It never comes from
// source; later phases create it when desugaring.
type LetExpr struct {
	exprNode
	Defs []*VarDef
	Expr Expr
}

func (*LetExpr) Kind() Kind { return KindLetExpr }

// QualifiedName renders a name built from identifiers and field accesses,
// or "" if t is anything else.
func QualifiedName(t Expr) string {
	switch t := t.(type) {
	case *Ident:
		return t.Name
	case *FieldAccess:
		prefix := QualifiedName(t.Selected)
		if prefix == "" {
			return ""
		}
		return prefix + "." + t.Name
	}
	return ""
}

// NameOf returns the simple name declared or referenced by t, or "".
func NameOf(t Node) string {
	switch t := t.(type) {
	case *ClassDef:
		return t.Name
	case *MethodDef:
		return t.Name
	case *VarDef:
		return t.Name
	case *TypeParameter:
		return t.Name
	case *Ident:
		return t.Name
	case *FieldAccess:
		return t.Name
	case *MemberReference:
		return t.Name
	case *Labelled:
		return t.Label
	case *Import:
		return QualifiedName(t.Qualid)
	}
	return ""
}

// SymbolOf returns the symbol stored on a declaring or naming tree, or nil.
func SymbolOf(t Node) *symbol.Symbol {
	switch t := t.(type) {
	case *ClassDef:
		return t.Sym
	case *MethodDef:
		return t.Sym
	case *VarDef:
		return t.Sym
	case *TypeParameter:
		return t.Sym
	case *Ident:
		return t.Sym
	case *FieldAccess:
		return t.Sym
	}
	return nil
}

// Flags are modifier bits.
type Flags uint32

const (
	FlagPublic Flags = 1 << iota
	FlagPrivate
	FlagProtected
	FlagStatic
	FlagFinal
	FlagSynchronized
	FlagVolatile
	FlagTransient
	FlagNative
	FlagAbstract
	FlagStrictfp
	FlagDefault
	FlagSealed
	FlagNonSealed

	// FlagEnum marks the fields that declare enum constants. It has no
	// keyword and is not printed.
	FlagEnum
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagPrivate, "private"},
	{FlagProtected, "protected"},
	{FlagAbstract, "abstract"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagSealed, "sealed"},
	{FlagNonSealed, "non-sealed"},
	{FlagDefault, "default"},
	{FlagSynchronized, "synchronized"},
	{FlagNative, "native"},
	{FlagTransient, "transient"},
	{FlagVolatile, "volatile"},
	{FlagStrictfp, "strictfp"},
}

// FlagByName returns the flag for a modifier keyword.
func FlagByName(name string) (Flags, bool) {
	for _, f := range flagNames {
		if f.name == name {
			return f.flag, true
		}
	}
	return 0, false
}

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// String lists the modifiers in the canonical order of the language
// specification.
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, " ")
}

package tree

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvariant marks internal invariant failures detected during a scan.
var ErrInvariant = errors.New("tree invariant violated")

// InvariantError is the panic value raised when the scanner meets a node it
// does not know, or visits a node twice with checks enabled.
type InvariantError struct {
	Node    Node
	Message string
}

func (e *InvariantError) Error() string {
	if e.Node == nil {
		return "tree: " + e.Message
	}
	return fmt.Sprintf("tree: %s (%T at %d)", e.Message, e.Node, e.Node.Pos())
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// Handler replaces the scanner's behavior for one node. Calling s.Default(n)
// from a handler continues with the structural recursion into n's children.
type Handler func(s *Scanner, n Node)

// Scanner walks a tree depth first, children in source order. Without
// handlers it visits every node and does nothing else; handlers registered
// with On override single kinds, and OnAny overrides every kind that has
// no handler of its own.
type Scanner struct {
	handlers [kindCount]Handler
	fallback Handler
	checks   bool
	seen     map[Node]struct{}
}

type ScannerOption func(*Scanner)

// WithChecks makes the scanner assert that no node instance is visited
// twice during one Walk.
func WithChecks(enabled bool) ScannerOption {
	return func(s *Scanner) {
		s.checks = enabled
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) On(kind Kind, h Handler) *Scanner {
	if !kind.Valid() {
		panic(fmt.Sprintf("tree: handler for invalid kind %d", kind))
	}
	s.handlers[kind] = h
	return s
}

func (s *Scanner) OnAny(h Handler) *Scanner {
	s.fallback = h
	return s
}

// Scan visits n. Absent nodes, including typed nil pointers, are skipped.
func (s *Scanner) Scan(n Node) {
	if absent(n) {
		return
	}
	if s.checks {
		s.markSeen(n)
	}
	k := n.Kind()
	if !k.Valid() {
		s.visitTree(n)
	}
	if h := s.handlers[k]; h != nil {
		h(s, n)
		return
	}
	if s.fallback != nil {
		s.fallback(s, n)
		return
	}
	s.Default(n)
}

// ScanList visits each node of list in order.
func (s *Scanner) ScanList(list []Node) {
	for _, n := range list {
		s.Scan(n)
	}
}

// ScanAll visits each node of a typed list in order.
func ScanAll[N Node](s *Scanner, list []N) {
	for _, n := range list {
		s.Scan(n)
	}
}

// Default scans the children of n in source order without invoking a
// handler for n itself.
func (s *Scanner) Default(n Node) {
	switch t := n.(type) {
	case *CompilationUnit:
		ScanAll(s, t.PackageAnnotations)
		s.Scan(t.Pid)
		s.ScanList(t.Defs)
	case *Import:
		s.Scan(t.Qualid)
	case *ClassDef:
		s.Scan(t.Mods)
		ScanAll(s, t.TypeParams)
		s.Scan(t.Extending)
		ScanAll(s, t.Implementing)
		s.ScanList(t.Defs)
	case *MethodDef:
		s.Scan(t.Mods)
		s.Scan(t.ResType)
		ScanAll(s, t.TypeParams)
		ScanAll(s, t.Params)
		ScanAll(s, t.Thrown)
		s.Scan(t.DefaultValue)
		s.Scan(t.Body)
	case *VarDef:
		s.Scan(t.Mods)
		s.Scan(t.VarType)
		s.Scan(t.Init)
	case *Skip:
	case *Block:
		ScanAll(s, t.Stats)
	case *DoLoop:
		s.Scan(t.Body)
		s.Scan(t.Cond)
	case *WhileLoop:
		s.Scan(t.Cond)
		s.Scan(t.Body)
	case *ForLoop:
		ScanAll(s, t.Init)
		s.Scan(t.Cond)
		ScanAll(s, t.Step)
		s.Scan(t.Body)
	case *ForeachLoop:
		s.Scan(t.Var)
		s.Scan(t.Expr)
		s.Scan(t.Body)
	case *Labelled:
		s.Scan(t.Body)
	case *Switch:
		s.Scan(t.Selector)
		ScanAll(s, t.Cases)
	case *Case:
		ScanAll(s, t.Labels)
		ScanAll(s, t.Stats)
	case *Synchronized:
		s.Scan(t.Lock)
		s.Scan(t.Body)
	case *Try:
		s.ScanList(t.Resources)
		s.Scan(t.Body)
		ScanAll(s, t.Catchers)
		s.Scan(t.Finalizer)
	case *Catch:
		s.Scan(t.Param)
		s.Scan(t.Body)
	case *If:
		s.Scan(t.Cond)
		s.Scan(t.Then)
		s.Scan(t.Else)
	case *Exec:
		s.Scan(t.Expr)
	case *Break, *Continue:
	case *Return:
		s.Scan(t.Expr)
	case *Throw:
		s.Scan(t.Expr)
	case *Assert:
		s.Scan(t.Cond)
		s.Scan(t.Detail)
	case *Yield:
		s.Scan(t.Value)
	case *Conditional:
		s.Scan(t.Cond)
		s.Scan(t.TruePart)
		s.Scan(t.FalsePart)
	case *MethodInvocation:
		ScanAll(s, t.TypeArgs)
		s.Scan(t.Meth)
		ScanAll(s, t.Args)
	case *NewClass:
		s.Scan(t.Encl)
		ScanAll(s, t.TypeArgs)
		s.Scan(t.Clazz)
		ScanAll(s, t.Args)
		s.Scan(t.Def)
	case *NewArray:
		s.Scan(t.ElemType)
		ScanAll(s, t.Dims)
		ScanAll(s, t.Elems)
	case *Lambda:
		ScanAll(s, t.Params)
		s.Scan(t.Body)
	case *MemberReference:
		s.Scan(t.Expr)
		ScanAll(s, t.TypeArgs)
	case *SwitchExpression:
		s.Scan(t.Selector)
		ScanAll(s, t.Cases)
	case *Parens:
		s.Scan(t.Expr)
	case *Assign:
		s.Scan(t.LHS)
		s.Scan(t.RHS)
	case *AssignOp:
		s.Scan(t.LHS)
		s.Scan(t.RHS)
	case *Unary:
		s.Scan(t.Arg)
	case *Binary:
		s.Scan(t.LHS)
		s.Scan(t.RHS)
	case *TypeCast:
		s.Scan(t.Clazz)
		s.Scan(t.Expr)
	case *InstanceOf:
		s.Scan(t.Expr)
		s.Scan(t.Clazz)
	case *ArrayAccess:
		s.Scan(t.Indexed)
		s.Scan(t.Index)
	case *FieldAccess:
		s.Scan(t.Selected)
	case *Ident, *Literal, *PrimitiveType:
	case *ArrayType:
		s.Scan(t.ElemType)
	case *TypeApply:
		s.Scan(t.Clazz)
		ScanAll(s, t.Arguments)
	case *TypeParameter:
		ScanAll(s, t.Bounds)
	case *Wildcard:
		s.Scan(t.Bound)
		s.Scan(t.Inner)
	case *TypeBoundKind:
	case *Modifiers:
		ScanAll(s, t.Annotations)
	case *Annotation:
		s.Scan(t.AnnotationType)
		ScanAll(s, t.Args)
	case *Erroneous:
	case *LetExpr:
		ScanAll(s, t.Defs)
		s.Scan(t.Expr)
	default:
		s.visitTree(n)
	}
}

// visitTree is reached for nodes whose kind is outside the closed set and
// for node types missing from Default. Either is a bug in the tree, not in
// the input.
func (s *Scanner) visitTree(n Node) {
	panic(&InvariantError{Node: n, Message: "unhandled node kind " + n.Kind().String()})
}

func (s *Scanner) markSeen(n Node) {
	if s.seen == nil {
		s.seen = make(map[Node]struct{})
	}
	if _, dup := s.seen[n]; dup {
		panic(&InvariantError{Node: n, Message: "node visited twice"})
	}
	s.seen[n] = struct{}{}
}

// Walk scans root as one pass. An invariant failure aborts the pass and is
// returned as an error wrapping ErrInvariant; other panics propagate.
func Walk(root Node, s *Scanner) (err error) {
	s.seen = nil
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()
	s.Scan(root)
	return nil
}

func absent(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

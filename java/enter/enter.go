// Package enter creates the symbols a compilation unit declares and the
// chain of environments they live in. It fills the unit's import tables,
// stores a symbol on every declaring tree, and records one Env per tree
// that opens a scope: classes, methods, blocks, loops, catch clauses,
// lambdas, switches and try-with-resources statements.
//
// Simple names are resolved on the way, in declaration order, so a local
// is only found after it has been declared.
package enter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/scope"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/symbol"
	"github.com/dhamidi/javafront/java/tree"
)

var log = commonlog.GetLogger("javafront.enter")

// ErrEntered is returned when a unit that already has import tables is
// entered again.
var ErrEntered = errors.New("compilation unit already entered")

// ImplicitPackage is imported on demand by every compilation unit.
const ImplicitPackage = "java.lang"

type options struct {
	index      PackageIndex
	src        *source.File
	listener   diag.Listener
	expandTabs bool
	checks     bool
}

type Option func(*options)

// WithIndex sets the index that star imports are expanded from. Without
// one, star imports bring nothing into scope.
func WithIndex(idx PackageIndex) Option {
	return func(o *options) {
		o.index = idx
	}
}

// WithListener reports duplicate declarations in src to l.
func WithListener(src *source.File, l diag.Listener) Option {
	return func(o *options) {
		o.src = src
		o.listener = l
	}
}

func WithTabs(expand bool) Option {
	return func(o *options) {
		o.expandTabs = expand
	}
}

// WithChecks verifies during the pass that no tree node is shared.
func WithChecks(enabled bool) Option {
	return func(o *options) {
		o.checks = enabled
	}
}

type enterer struct {
	opts   options
	unit   *tree.CompilationUnit
	envs   *Envs
	env    *scope.Env
	pkg    *symbol.Symbol
	errors int
}

// Enter runs the enter pass over unit and returns its environments.
func Enter(unit *tree.CompilationUnit, opts ...Option) (*Envs, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.index == nil {
		o.index = MapIndex(nil)
	}
	if unit.NamedImports != nil || unit.StarImports != nil {
		return nil, fmt.Errorf("%s: %w", unit.File, ErrEntered)
	}

	e := &enterer{opts: o, unit: unit}
	e.pkg = e.packageSymbol()
	unit.Package = e.pkg
	root := scope.NewTopLevel(unit)
	e.envs = newEnvs(root)
	e.env = root

	e.enterImports()
	for _, class := range unit.TypeDecls() {
		e.declareClass(class, e.pkg)
	}

	s := tree.NewScanner(tree.WithChecks(o.checks))
	s.On(tree.KindCompilationUnit, func(s *tree.Scanner, n tree.Node) {
		for _, def := range n.(*tree.CompilationUnit).Defs {
			if _, ok := def.(*tree.Import); !ok {
				s.Scan(def)
			}
		}
	})
	s.On(tree.KindClassDef, e.visitClass)
	s.On(tree.KindMethodDef, e.visitMethod)
	s.On(tree.KindVarDef, e.visitVar)
	s.On(tree.KindTypeParameter, e.visitTypeParameter)
	s.On(tree.KindIdent, e.visitIdent)
	s.On(tree.KindMethodInvocation, e.visitInvocation)
	for _, k := range []tree.Kind{
		tree.KindBlock, tree.KindForLoop, tree.KindForeachLoop, tree.KindCatch,
		tree.KindLambda, tree.KindSwitch, tree.KindSwitchExpression,
	} {
		s.On(k, e.nested)
	}
	s.On(tree.KindTry, func(s *tree.Scanner, n tree.Node) {
		if len(n.(*tree.Try).Resources) == 0 {
			s.Default(n)
			return
		}
		e.nested(s, n)
	})

	if err := tree.Walk(unit, s); err != nil {
		return nil, fmt.Errorf("%s: %w", unit.File, err)
	}
	log.Debugf("entered %s: %d environments, %d errors", unit.File, len(e.envs.all), e.errors)
	return e.envs, nil
}

func (e *enterer) packageSymbol() *symbol.Symbol {
	name := e.unit.PackageName()
	pos := -1
	if e.unit.Pid != nil {
		pos = e.unit.Pid.Pos()
	}
	return &symbol.Symbol{Kind: symbol.KindPackage, Name: name, Pos: pos}
}

// enterImports fills the named-import table with single-type imports and
// the star-import table with the members of imported packages, starting
// with the implicit java.lang.
func (e *enterer) enterImports() {
	e.importPackage(ImplicitPackage, -1)
	for _, imp := range e.unit.Imports() {
		name := tree.QualifiedName(imp.Qualid)
		if name == "" {
			continue
		}
		if imp.IsStar() {
			pkg := strings.TrimSuffix(name, ".*")
			if imp.Static {
				log.Debugf("%s: static on-demand import of %s not expanded", e.unit.File, pkg)
				continue
			}
			e.importPackage(pkg, imp.Pos())
			continue
		}
		owner, simple := splitName(name)
		ownerSym := &symbol.Symbol{Kind: symbol.KindPackage, Name: owner, Pos: -1}
		kind := symbol.KindClass
		if imp.Static {
			ownerSym.Kind = symbol.KindClass
			kind = symbol.KindMethod
		}
		e.unit.NamedImports.Enter(symbol.New(kind, simple, ownerSym, imp.Pos()))
	}
}

func (e *enterer) importPackage(pkg string, pos int) {
	members := e.opts.index.Members(pkg)
	if members == nil {
		log.Debugf("%s: package %s is not indexed", e.unit.File, pkg)
		return
	}
	owner := &symbol.Symbol{Kind: symbol.KindPackage, Name: pkg, Pos: pos}
	for _, m := range members {
		e.unit.StarImports.EnterIfAbsent(symbol.New(symbol.KindClass, m, owner, -1))
	}
}

func splitName(name string) (string, string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

var classKinds = map[tree.ClassKind]symbol.Kind{
	tree.ClassKindClass:      symbol.KindClass,
	tree.ClassKindInterface:  symbol.KindInterface,
	tree.ClassKindEnum:       symbol.KindEnum,
	tree.ClassKindAnnotation: symbol.KindAnnotationType,
	tree.ClassKindRecord:     symbol.KindRecord,
}

// declareClass creates the symbol of class and enters it into the current
// env, unless it is anonymous.
func (e *enterer) declareClass(class *tree.ClassDef, owner *symbol.Symbol) {
	if class.Sym != nil {
		return
	}
	class.Sym = symbol.New(classKinds[class.ClassKind], class.Name, owner, class.Pos())
	if class.Name != "" {
		e.declare(e.env, class.Sym, class)
	}
}

// visitClass opens the class env and enters all members before any member
// body is scanned, so members see each other regardless of order.
func (e *enterer) visitClass(s *tree.Scanner, n tree.Node) {
	class := n.(*tree.ClassDef)
	e.declareClass(class, e.owner())

	outer := e.env
	e.env = e.envs.open(outer, class)
	for _, def := range class.Defs {
		switch d := def.(type) {
		case *tree.VarDef:
			kind := symbol.KindField
			if d.Mods != nil && d.Mods.Flags&tree.FlagEnum != 0 {
				kind = symbol.KindEnumConstant
			}
			d.Sym = symbol.New(kind, d.Name, class.Sym, d.Pos())
			e.declare(e.env, d.Sym, d)
		case *tree.MethodDef:
			kind := symbol.KindMethod
			if d.IsConstructor() {
				kind = symbol.KindConstructor
			}
			d.Sym = symbol.New(kind, d.Name, class.Sym, d.Pos())
			e.env.Info.Enter(d.Sym)
		case *tree.ClassDef:
			e.declareClass(d, class.Sym)
		}
	}
	s.Default(class)
	e.env = outer
}

func (e *enterer) visitMethod(s *tree.Scanner, n tree.Node) {
	outer := e.env
	e.env = e.envs.open(outer, n)
	s.Default(n)
	e.env = outer
}

// nested opens an env for a statement or expression that declares
// variables visible only inside it.
func (e *enterer) nested(s *tree.Scanner, n tree.Node) {
	outer := e.env
	e.env = e.envs.open(outer, n)
	s.Default(n)
	e.env = outer
}

// visitVar declares parameters and locals. Fields were declared with
// their class. The variable is in scope in its own initializer.
func (e *enterer) visitVar(s *tree.Scanner, n tree.Node) {
	v := n.(*tree.VarDef)
	if v.Sym == nil {
		v.Sym = symbol.New(e.varKind(), v.Name, e.owner(), v.Pos())
		e.declare(e.env, v.Sym, v)
	}
	s.Default(v)
}

func (e *enterer) varKind() symbol.Kind {
	switch e.env.Tree.(type) {
	case *tree.MethodDef, *tree.Lambda:
		return symbol.KindParameter
	case *tree.Catch:
		return symbol.KindExceptionParameter
	}
	return symbol.KindLocal
}

func (e *enterer) visitTypeParameter(s *tree.Scanner, n tree.Node) {
	tp := n.(*tree.TypeParameter)
	if tp.Sym == nil {
		tp.Sym = symbol.New(symbol.KindTypeParameter, tp.Name, e.owner(), tp.Pos())
		e.declare(e.env, tp.Sym, tp)
	}
	s.Default(tp)
}

// owner is the symbol that declarations in the current env belong to:
// the enclosing method if there is one, else the enclosing class, else
// the package.
func (e *enterer) owner() *symbol.Symbol {
	if m := e.env.EnclMethod; m != nil && m.Sym != nil {
		return m.Sym
	}
	if c := scope.Of(e.env).EnclosingClass(); c != nil {
		return c
	}
	return e.pkg
}

func notMethod(sym *symbol.Symbol) bool {
	return sym.Kind != symbol.KindMethod && sym.Kind != symbol.KindConstructor
}

func (e *enterer) visitIdent(s *tree.Scanner, n tree.Node) {
	id := n.(*tree.Ident)
	if id.Sym != nil || id.Name == "this" || id.Name == "super" {
		return
	}
	if sym, _, ok := scope.Resolve(scope.Of(e.env), id.Name, notMethod); ok {
		id.Sym = sym
	}
}

func (e *enterer) visitInvocation(s *tree.Scanner, n tree.Node) {
	inv := n.(*tree.MethodInvocation)
	if id, ok := inv.Meth.(*tree.Ident); ok && id.Sym == nil {
		methods := scope.ByKind(symbol.KindMethod, symbol.KindConstructor)
		if sym, _, ok := scope.Resolve(scope.Of(e.env), id.Name, methods); ok {
			id.Sym = sym
		}
	}
	s.Default(inv)
}

// declare enters sym into env, reporting a clash with a declaration of
// the same name in the same namespace. Methods may be overloaded. Locals
// and parameters also clash with variables of enclosing scopes up to the
// enclosing method or class.
func (e *enterer) declare(env *scope.Env, sym *symbol.Symbol, at tree.Node) {
	if clash := e.clash(env, sym); clash != nil {
		e.report(at, fmt.Sprintf("%s %s is already defined in %s", kindWord(sym.Kind), sym.Name, where(env, clash)))
	}
	env.Info.Enter(sym)
}

func (e *enterer) clash(env *scope.Env, sym *symbol.Symbol) *symbol.Symbol {
	if !notMethod(sym) {
		return nil
	}
	local := sym.Kind == symbol.KindLocal || sym.Kind == symbol.KindParameter || sym.Kind == symbol.KindExceptionParameter
	for cur := env; cur != nil; cur = cur.Outer() {
		for _, other := range cur.Info.Lookup(sym.Name) {
			if sameNamespace(other.Kind, sym.Kind) {
				return other
			}
		}
		if !local {
			return nil
		}
		if _, isClass := cur.Tree.(*tree.ClassDef); isClass {
			return nil
		}
		if _, isMethod := cur.Tree.(*tree.MethodDef); isMethod {
			return nil
		}
	}
	return nil
}

func sameNamespace(a, b symbol.Kind) bool {
	switch {
	case a.IsVariable() && b.IsVariable():
		return true
	case (a.IsType() || a == symbol.KindTypeParameter) && (b.IsType() || b == symbol.KindTypeParameter):
		return true
	}
	return false
}

func kindWord(k symbol.Kind) string {
	switch {
	case k.IsVariable():
		return "variable"
	case k == symbol.KindTypeParameter:
		return "type variable"
	}
	return k.String()
}

func where(env *scope.Env, clash *symbol.Symbol) string {
	if clash.Owner == nil || clash.Owner.Name == "" {
		if env.Toplevel.File != "" {
			return env.Toplevel.File
		}
		return "compilation unit"
	}
	return clash.Owner.Kind.String() + " " + clash.Owner.Name
}

func (e *enterer) report(at tree.Node, message string) {
	e.errors++
	if e.opts.listener == nil || e.opts.src == nil {
		log.Debugf("%s: %s", e.unit.File, message)
		return
	}
	e.opts.listener.Report(diag.New(diag.Error, e.opts.src, at.Pos(), at.Pos(), at.End(),
		e.opts.expandTabs, "compiler.err.already.defined", message))
}

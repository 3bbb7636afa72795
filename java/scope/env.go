// Package scope is the chain of lexical environments built while entering
// a compilation unit, and the read-only Scope view that name resolution
// and tooling walk.
//
// The chain ends in two steps. The root Env of a unit holds its single-type
// imports; above it sits a star-import boundary that answers with the
// unit's on-demand imports and has nothing above it. The boundary is not an
// Env of its own: it is a Scope over the root Env with the boundary bit set.
package scope

import (
	"fmt"

	"github.com/dhamidi/javafront/java/symbol"
	"github.com/dhamidi/javafront/java/tree"
)

type State int

const (
	StateRoot State = iota
	StateNested
)

func (s State) String() string {
	if s == StateRoot {
		return "root"
	}
	return "nested"
}

// Env is one level of lexical nesting: the tree that opened it, the
// symbols declared directly in it, and a link to the level around it.
type Env struct {
	state State
	outer *Env
	depth int

	Tree       tree.Node
	Toplevel   *tree.CompilationUnit
	EnclClass  *tree.ClassDef
	EnclMethod *tree.MethodDef
	Info       *symbol.Table
}

// NewTopLevel creates the root environment of cu. Its table is the unit's
// named-import table and its enclosing class is a synthetic class standing
// for the top level, which Scope never reports. Missing import tables are
// created on cu.
func NewTopLevel(cu *tree.CompilationUnit) *Env {
	if cu.NamedImports == nil {
		cu.NamedImports = symbol.NewTable()
	}
	if cu.StarImports == nil {
		cu.StarImports = symbol.NewTable()
	}
	hidden := &tree.ClassDef{
		Sym: &symbol.Symbol{Kind: symbol.KindClass, Pos: -1, Synthetic: true, Owner: cu.Package},
	}
	return &Env{
		state:     StateRoot,
		Tree:      cu,
		Toplevel:  cu,
		EnclClass: hidden,
		Info:      cu.NamedImports,
	}
}

// Dup creates an environment nested in e for t. A class tree becomes the
// enclosing class and clears the enclosing method; a method tree becomes
// the enclosing method. A nil info gets a fresh table.
func (e *Env) Dup(t tree.Node, info *symbol.Table) *Env {
	if info == nil {
		info = symbol.NewTable()
	}
	next := &Env{
		state:      StateNested,
		outer:      e,
		depth:      e.depth + 1,
		Tree:       t,
		Toplevel:   e.Toplevel,
		EnclClass:  e.EnclClass,
		EnclMethod: e.EnclMethod,
		Info:       info,
	}
	switch t := t.(type) {
	case *tree.ClassDef:
		next.EnclClass = t
		next.EnclMethod = nil
	case *tree.MethodDef:
		next.EnclMethod = t
	}
	return next
}

func (e *Env) State() State { return e.state }

func (e *Env) IsRoot() bool { return e.state == StateRoot }

// Outer returns the enclosing environment, or nil for the root.
func (e *Env) Outer() *Env {
	if e.state == StateRoot {
		return nil
	}
	return e.outer
}

// Depth is the number of Outer steps from e to the root.
func (e *Env) Depth() int { return e.depth }

// Root returns the root environment of the chain.
func (e *Env) Root() *Env {
	cur := e
	for !cur.IsRoot() {
		cur = cur.outer
	}
	return cur
}

func (e *Env) String() string {
	if e.IsRoot() {
		return fmt.Sprintf("env(root %s)", e.Toplevel.File)
	}
	label := e.Tree.Kind().String()
	if name := tree.NameOf(e.Tree); name != "" {
		label += " " + name
	}
	return fmt.Sprintf("env(%s depth=%d)", label, e.depth)
}

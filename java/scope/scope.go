package scope

import (
	"slices"

	"github.com/dhamidi/javafront/java/symbol"
)

// Scope is a view of an Env for resolution. Two scopes are equal when they
// view the same Env and agree on being the star-import boundary, so Scope
// values compare with ==.
type Scope struct {
	env        *Env
	starImport bool
}

// Of returns the scope viewing env.
func Of(env *Env) Scope {
	return Scope{env: env}
}

func (s Scope) Env() *Env { return s.env }

func (s Scope) IsZero() bool { return s.env == nil }

// IsStarImport reports whether s is the boundary above the root.
func (s Scope) IsStarImport() bool { return s.starImport }

func (s Scope) Equal(other Scope) bool { return s == other }

// EnclosingScope returns the next scope outward. A nested scope yields its
// outer Env, the root yields the star-import boundary, and the boundary
// yields false.
func (s Scope) EnclosingScope() (Scope, bool) {
	switch {
	case s.env == nil || s.starImport:
		return Scope{}, false
	case s.env.IsRoot():
		return Scope{env: s.env, starImport: true}, true
	default:
		return Scope{env: s.env.outer}, true
	}
}

// EnclosingClass returns the symbol of the nearest enclosing class, or nil
// at the root and the boundary.
func (s Scope) EnclosingClass() *symbol.Symbol {
	if s.env == nil || s.env.IsRoot() || s.env.EnclClass == nil {
		return nil
	}
	sym := s.env.EnclClass.Sym
	if sym != nil && sym.Synthetic {
		return nil
	}
	return sym
}

func (s Scope) EnclosingMethod() *symbol.Symbol {
	if s.env == nil || s.env.EnclMethod == nil {
		return nil
	}
	return s.env.EnclMethod.Sym
}

// LocalElements returns the symbols declared directly in s. For the
// boundary these are the unit's on-demand imports.
func (s Scope) LocalElements() []*symbol.Symbol {
	return slices.Clone(s.table().Elements())
}

func (s Scope) table() *symbol.Table {
	switch {
	case s.env == nil:
		return nil
	case s.starImport:
		return s.env.Toplevel.StarImports
	default:
		return s.env.Info
	}
}

func (s Scope) String() string {
	switch {
	case s.env == nil:
		return "scope(none)"
	case s.starImport:
		return "scope(star imports " + s.env.Toplevel.File + ")"
	default:
		return "scope(" + s.env.String() + ")"
	}
}

// Chain returns s and every scope outward from it, ending with the
// boundary.
func Chain(s Scope) []Scope {
	var chain []Scope
	for cur, ok := s, !s.IsZero(); ok; cur, ok = cur.EnclosingScope() {
		chain = append(chain, cur)
	}
	return chain
}

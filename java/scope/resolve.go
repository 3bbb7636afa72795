package scope

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhamidi/javafront/java/symbol"
)

var ErrNotFound = errors.New("symbol not found")

// Filter selects the symbols a lookup accepts. A nil Filter accepts all.
type Filter func(*symbol.Symbol) bool

// ByKind accepts symbols of one of kinds.
func ByKind(kinds ...symbol.Kind) Filter {
	return func(sym *symbol.Symbol) bool {
		for _, k := range kinds {
			if sym.Kind == k {
				return true
			}
		}
		return false
	}
}

// Types accepts class-like symbols.
func Types(sym *symbol.Symbol) bool { return sym.Kind.IsType() }

// Variables accepts fields, parameters and locals.
func Variables(sym *symbol.Symbol) bool { return sym.Kind.IsVariable() }

// Resolve looks name up from s outward: declarations of each nested scope,
// then the single-type imports of the root, then the on-demand imports of
// the boundary. It returns the first accepted symbol and the scope that
// declared it.
func Resolve(s Scope, name string, filter Filter) (*symbol.Symbol, Scope, bool) {
	for _, cur := range Chain(s) {
		for _, sym := range cur.table().Lookup(name) {
			if filter == nil || filter(sym) {
				return sym, cur, true
			}
		}
	}
	return nil, Scope{}, false
}

// MustResolve is Resolve returning ErrNotFound when nothing matches.
func MustResolve(s Scope, name string, filter Filter) (*symbol.Symbol, error) {
	sym, _, ok := Resolve(s, name, filter)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, s, ErrNotFound)
	}
	return sym, nil
}

// Visible returns every accepted symbol reachable from s, with inner
// declarations shadowing outer ones of the same name and kind class
// (type or variable or method). The result is sorted by name.
func Visible(s Scope, filter Filter) []*symbol.Symbol {
	type key struct {
		name  string
		class int
	}
	seen := make(map[key]bool)
	var out []*symbol.Symbol
	for _, cur := range Chain(s) {
		for _, sym := range cur.LocalElements() {
			if filter != nil && !filter(sym) {
				continue
			}
			k := key{sym.Name, namespace(sym.Kind)}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, sym)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func namespace(k symbol.Kind) int {
	switch {
	case k.IsType(), k == symbol.KindTypeParameter:
		return 0
	case k.IsVariable():
		return 1
	case k == symbol.KindPackage:
		return 3
	default:
		return 2
	}
}

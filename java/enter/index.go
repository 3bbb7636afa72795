package enter

import (
	"slices"

	"github.com/dhamidi/javafront/config"
	"github.com/dhamidi/javafront/java/tree"
)

// PackageIndex lists the top-level types of packages for star imports.
type PackageIndex interface {
	// Members returns the simple names of the types in pkg, or nil if the
	// package is unknown.
	Members(pkg string) []string
}

// MapIndex is an in-memory PackageIndex keyed by package name.
type MapIndex map[string][]string

func (m MapIndex) Members(pkg string) []string {
	return m[pkg]
}

// Add records the types of pkg, keeping names sorted and unique. The
// previous member slice is never written to, so shallow copies of m stay
// independent.
func (m MapIndex) Add(pkg string, names ...string) {
	merged := append(slices.Clone(m[pkg]), names...)
	slices.Sort(merged)
	m[pkg] = slices.Compact(merged)
}

// IndexFromConfig builds an index from the star_imports setting.
func IndexFromConfig(cfg *config.Config) MapIndex {
	idx := make(MapIndex, len(cfg.StarImports))
	for _, pkg := range cfg.Packages() {
		idx.Add(pkg, cfg.StarImports[pkg]...)
	}
	return idx
}

// IndexUnits adds the named top-level types of units to idx under their
// packages, so units of one codebase see each other through star imports.
func IndexUnits(idx MapIndex, units ...*tree.CompilationUnit) {
	for _, u := range units {
		var names []string
		for _, class := range u.TypeDecls() {
			if class.Name != "" {
				names = append(names, class.Name)
			}
		}
		if len(names) > 0 {
			idx.Add(u.PackageName(), names...)
		}
	}
}

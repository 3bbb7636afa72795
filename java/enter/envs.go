package enter

import (
	"github.com/dhamidi/javafront/java/scope"
	"github.com/dhamidi/javafront/java/tree"
)

// Envs records the environments created while entering one unit.
type Envs struct {
	Root   *scope.Env
	all    []*scope.Env
	byTree map[tree.Node]*scope.Env
}

func newEnvs(root *scope.Env) *Envs {
	return &Envs{
		Root:   root,
		all:    []*scope.Env{root},
		byTree: map[tree.Node]*scope.Env{root.Tree: root},
	}
}

func (e *Envs) open(outer *scope.Env, t tree.Node) *scope.Env {
	env := outer.Dup(t, nil)
	e.all = append(e.all, env)
	e.byTree[t] = env
	return env
}

// Of returns the env opened by t, or nil if t opens none.
func (e *Envs) Of(t tree.Node) *scope.Env {
	return e.byTree[t]
}

// All returns every env in creation order, the root first.
func (e *Envs) All() []*scope.Env {
	return e.all
}

func (e *Envs) Len() int {
	return len(e.all)
}

// At returns the innermost env whose tree spans pos. Offsets outside every
// nested tree belong to the root.
func (e *Envs) At(pos int) *scope.Env {
	best := e.Root
	for _, env := range e.all[1:] {
		if env.Depth() > best.Depth() && tree.Contains(env.Tree, pos) {
			best = env
		}
	}
	return best
}

// ScopeAt is the scope of At(pos).
func (e *Envs) ScopeAt(pos int) scope.Scope {
	return scope.Of(e.At(pos))
}

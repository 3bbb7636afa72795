// Package frontend turns Java source into java/tree nodes. The concrete
// syntax tree comes from tree-sitter; this package lowers it into the node
// model, keeping byte offsets as positions.
//
// Syntax errors never fail a parse. They are reported to a diag.Listener
// and the affected source becomes Erroneous nodes.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/tree"
)

var log = commonlog.GetLogger("javafront.frontend")

var ErrParse = errors.New("parse failed")

var (
	languageOnce sync.Once
	language     *tree_sitter.Language
	parserPool   = sync.Pool{
		New: func() any {
			p := tree_sitter.NewParser()
			if err := p.SetLanguage(javaLanguage()); err != nil {
				panic(fmt.Sprintf("set language: %v", err))
			}
			return p
		},
	}
)

func javaLanguage() *tree_sitter.Language {
	languageOnce.Do(func() {
		language = tree_sitter.NewLanguage(tree_sitter_java.Language())
	})
	return language
}

type options struct {
	expandTabs bool
	checks     bool
}

type Option func(*options)

// WithTabs makes reported columns account for tab stops.
func WithTabs(expand bool) Option {
	return func(o *options) {
		o.expandTabs = expand
	}
}

// WithChecks verifies the lowered tree with a checking scan before
// returning it.
func WithChecks(enabled bool) Option {
	return func(o *options) {
		o.checks = enabled
	}
}

// Parse lowers src into a compilation unit. Syntax errors go to listener,
// which may be nil. The error result is reserved for failures of the
// parser itself and for cancellation.
func Parse(ctx context.Context, src *source.File, listener diag.Listener, opts ...Option) (*tree.CompilationUnit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = diag.ListenerFunc(func(diag.Diagnostic) {})
	}

	p := parserPool.Get().(*tree_sitter.Parser)
	cst := p.Parse(src.Content, nil)
	parserPool.Put(p)
	if cst == nil {
		return nil, fmt.Errorf("%s: %w", src.Name, ErrParse)
	}
	defer cst.Close()

	l := &lowerer{src: src.Content, file: src, listener: listener, opts: o}
	root := cst.RootNode()
	l.reportSyntaxErrors(root)
	unit := l.unit(root)
	unit.File = src.Name

	if o.checks {
		if err := tree.Walk(unit, tree.NewScanner(tree.WithChecks(true))); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
	}
	log.Debugf("parsed %s: %d top-level definitions, %d syntax errors", src.Name, len(unit.Defs), l.errors)
	return unit, nil
}

// ParseString is Parse for an in-memory source, collecting diagnostics.
func ParseString(name, text string) (*tree.CompilationUnit, []diag.Diagnostic, error) {
	var c diag.Collector
	unit, err := Parse(context.Background(), source.New(name, []byte(text)), &c)
	if err != nil {
		return nil, nil, err
	}
	return unit, c.Diagnostics(), nil
}

// reportSyntaxErrors reports every ERROR and missing node below n.
func (l *lowerer) reportSyntaxErrors(n *tree_sitter.Node) {
	switch {
	case n.IsError():
		l.report(n, "compiler.err.illegal.start", "illegal start of "+l.errorContext(n))
		return
	case n.IsMissing():
		l.report(n, "compiler.err.expected", fmt.Sprintf("'%s' expected", n.Kind()))
		return
	case !n.HasError():
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			l.reportSyntaxErrors(c)
		}
	}
}

func (l *lowerer) errorContext(n *tree_sitter.Node) string {
	parent := n.Parent()
	if parent == nil {
		return "type"
	}
	switch parent.Kind() {
	case "program":
		return "type"
	case "class_body", "interface_body", "enum_body", "enum_body_declarations":
		return "member"
	case "block", "constructor_body", "switch_block_statement_group":
		return "statement"
	}
	return "expression"
}

func (l *lowerer) report(n *tree_sitter.Node, code, message string) {
	l.errors++
	start, end := int(n.StartByte()), int(n.EndByte())
	l.listener.Report(diag.New(diag.Error, l.file, start, start, end, l.opts.expandTabs, code, message))
}

package codebase

import (
	"slices"
	"strings"

	"github.com/dhamidi/javafront/format"
	"github.com/dhamidi/javafront/java/scope"
	"github.com/dhamidi/javafront/java/symbol"
	"github.com/dhamidi/javafront/java/tree"
)

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
	CompletionKindVariable
	CompletionKindTypeParameter
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsAt lists completions for the zero-based line and character in
// path. After "qualifier." it lists the members of the qualifier's class;
// otherwise it lists every name visible in the enclosing scopes. Both are
// filtered by the identifier prefix under the cursor.
func (c *Codebase) CompletionsAt(path string, line, character int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil || f.Envs == nil {
		return nil
	}
	off := c.Offset(f, line, character)
	prefix, qualifier := wordBefore(f.Source.Content, off)
	s := f.Envs.ScopeAt(off)

	var items []CompletionItem
	if qualifier != "" {
		items = c.memberCompletions(f, s, qualifier)
	} else {
		for _, sym := range scope.Visible(s, nil) {
			if sym.Kind == symbol.KindLocal && sym.Pos > off {
				continue
			}
			items = append(items, symbolItem(sym))
		}
	}
	items = slices.DeleteFunc(items, func(it CompletionItem) bool {
		return !strings.HasPrefix(it.Label, prefix)
	})
	log.Debugf("%d completions at %s:%d:%d (prefix %q, qualifier %q)", len(items), path, line, character, prefix, qualifier)
	return items
}

// wordBefore splits the text before off into the identifier being typed
// and, if it follows a dot, the identifier before the dot.
func wordBefore(content []byte, off int) (prefix, qualifier string) {
	start := identStart(content, off)
	prefix = string(content[start:off])
	if start == 0 || content[start-1] != '.' {
		return prefix, ""
	}
	qend := start - 1
	return prefix, string(content[identStart(content, qend):qend])
}

func identStart(content []byte, off int) int {
	for off > 0 && isIdentByte(content[off-1]) {
		off--
	}
	return off
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func (c *Codebase) memberCompletions(f *FileInfo, s scope.Scope, qualifier string) []CompletionItem {
	sym, _, ok := scope.Resolve(s, qualifier, func(sym *symbol.Symbol) bool {
		return sym.Kind.IsType() || sym.Kind.IsVariable()
	})
	if !ok {
		return nil
	}
	className, static := sym.Name, sym.Kind.IsType()
	if !static {
		className = declaredTypeName(f.Unit, sym)
	}
	if className == "" {
		return nil
	}
	_, class := c.FindClass(className)
	if class == nil {
		return nil
	}

	var items []CompletionItem
	for _, def := range class.Defs {
		var mods *tree.Modifiers
		var item CompletionItem
		switch d := def.(type) {
		case *tree.VarDef:
			mods = d.Mods
			item = CompletionItem{Label: d.Name, Kind: CompletionKindField, Detail: format.TypeString(d.VarType), InsertText: d.Name}
		case *tree.MethodDef:
			if d.IsConstructor() {
				continue
			}
			mods = d.Mods
			item = CompletionItem{Label: d.Name, Kind: CompletionKindMethod, Detail: signature(d), InsertText: d.Name + "("}
			if len(d.Params) == 0 {
				item.InsertText = d.Name + "()"
			}
		case *tree.ClassDef:
			mods = d.Mods
			item = CompletionItem{Label: d.Name, Kind: CompletionKindClass, Detail: d.ClassKind.String(), InsertText: d.Name}
		default:
			continue
		}
		if static && (mods == nil || !mods.Flags.Has(tree.FlagStatic)) && !isEnumConstant(mods) {
			if _, nested := def.(*tree.ClassDef); !nested {
				continue
			}
		}
		items = append(items, item)
	}
	return items
}

func isEnumConstant(mods *tree.Modifiers) bool {
	return mods != nil && mods.Flags.Has(tree.FlagEnum)
}

// declaredTypeName finds the declaration of a variable symbol and returns
// the simple name of its type, without type arguments.
func declaredTypeName(unit *tree.CompilationUnit, sym *symbol.Symbol) string {
	var decl *tree.VarDef
	tree.Inspect(unit, func(n tree.Node) bool {
		if v, ok := n.(*tree.VarDef); ok && v.Sym == sym {
			decl = v
		}
		return decl == nil
	})
	if decl == nil {
		return ""
	}
	t := decl.VarType
	if apply, ok := t.(*tree.TypeApply); ok {
		t = apply.Clazz
	}
	switch t := t.(type) {
	case *tree.Ident:
		return t.Name
	case *tree.FieldAccess:
		return t.Name
	}
	return ""
}

func symbolItem(sym *symbol.Symbol) CompletionItem {
	item := CompletionItem{Label: sym.Name, Detail: sym.Kind.String(), InsertText: sym.Name}
	switch {
	case sym.Kind == symbol.KindMethod:
		item.Kind = CompletionKindMethod
		item.InsertText = sym.Name + "("
	case sym.Kind == symbol.KindTypeParameter:
		item.Kind = CompletionKindTypeParameter
	case sym.Kind.IsType():
		item.Kind = CompletionKindClass
		if q := sym.QualifiedName(); q != sym.Name {
			item.Detail = q
		}
	case sym.Kind == symbol.KindField || sym.Kind == symbol.KindEnumConstant:
		item.Kind = CompletionKindField
	default:
		item.Kind = CompletionKindVariable
	}
	return item
}

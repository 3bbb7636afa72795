// Package symbol holds the declarations that names resolve to. The front
// end treats symbols as opaque identities: it stores and retrieves them by
// reference and never looks inside beyond name and kind.
package symbol

import "strings"

type Kind int

const (
	KindPackage Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindAnnotationType
	KindRecord
	KindMethod
	KindConstructor
	KindField
	KindEnumConstant
	KindParameter
	KindLocal
	KindExceptionParameter
	KindTypeParameter
)

var kindNames = map[Kind]string{
	KindPackage:            "package",
	KindClass:              "class",
	KindInterface:          "interface",
	KindEnum:               "enum",
	KindAnnotationType:     "annotation",
	KindRecord:             "record",
	KindMethod:             "method",
	KindConstructor:        "constructor",
	KindField:              "field",
	KindEnumConstant:       "enum constant",
	KindParameter:          "parameter",
	KindLocal:              "local variable",
	KindExceptionParameter: "exception parameter",
	KindTypeParameter:      "type parameter",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAnnotationType, KindRecord:
		return true
	}
	return false
}

func (k Kind) IsVariable() bool {
	switch k {
	case KindField, KindEnumConstant, KindParameter, KindLocal, KindExceptionParameter:
		return true
	}
	return false
}

// Symbol is a declared entity. Pos is the offset of the declaring tree,
// or -1 for symbols that do not come from source (imports, synthetics).
type Symbol struct {
	Kind      Kind
	Name      string
	Owner     *Symbol
	Pos       int
	Synthetic bool
}

func New(kind Kind, name string, owner *Symbol, pos int) *Symbol {
	return &Symbol{Kind: kind, Name: name, Owner: owner, Pos: pos}
}

// QualifiedName joins the names of the owner chain with dots. Methods and
// variables stop the chain: a local's qualified name is its simple name.
func (s *Symbol) QualifiedName() string {
	if s == nil {
		return ""
	}
	if s.Kind.IsVariable() && s.Kind != KindField && s.Kind != KindEnumConstant {
		return s.Name
	}
	var parts []string
	for cur := s; cur != nil; cur = cur.Owner {
		if cur.Synthetic || cur.Name == "" {
			break
		}
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Kind.String() + " " + s.QualifiedName()
}

// Package inspect draws generic property editors for arbitrary Go values.
//
// Fields are discovered through reflection (or a Describer), classified
// into a small set of kinds, grouped by category and rendered through an
// immediate-mode UI. Nested objects are followed recursively with a depth
// limit and cycle detection, so self-referential graphs terminate.
package inspect

import "fmt"

// FieldKind classifies a field for editing.
type FieldKind int

const (
	KindIgnored FieldKind = iota // delegates, channels, empty interfaces: never shown
	KindFloat
	KindInt
	KindBool
	KindEnum
	KindNested // pointer or interface reference to another object
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindIgnored:
		return "Ignored"
	case KindFloat:
		return "Float"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindEnum:
		return "Enum"
	case KindNested:
		return "Nested"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// EnumSymbol is one named value of an enumeration.
type EnumSymbol struct {
	Name  string
	Value int64
}

// Enum is implemented by integer types that want a combo box editor.
// Symbols are listed in declaration order.
type Enum interface {
	EnumSymbols() []EnumSymbol
}

// Identified objects supply their own stable identity for widget scopes.
type Identified interface {
	UniqueID() string
}

// Named objects supply the title used when editing them in a window.
type Named interface {
	DisplayName() string
}

// Describer lets an object report its own fields instead of being walked
// with reflect. Useful for values backed by a foreign reflection system.
type Describer interface {
	DescribeFields() []Field
}

// Field describes one editable field of an object. Descriptors are cheap
// and rebuilt on every edit.
type Field struct {
	Name     string
	Category string
	Kind     FieldKind
	Index    int     // position within the owning object
	Addr     uintptr // 0 when the field has no stable address
	ReadOnly bool    // not editable at runtime

	// Symbols lists the enumeration values of a KindEnum field.
	Symbols []EnumSymbol

	// Ptr is a *float32 or *int32 bound directly to the field's memory, or
	// nil when the field must go through Get and Set.
	Ptr any

	Get func() any
	Set func(v any) error
}

// Value returns the field's current value, or nil without a getter.
func (f *Field) Value() any {
	if f.Get == nil {
		return nil
	}
	return f.Get()
}

// SymbolName maps an underlying enum value to its symbol.
func (f *Field) SymbolName(v int64) (string, bool) {
	for _, s := range f.Symbols {
		if s.Value == v {
			return s.Name, true
		}
	}
	return "", false
}

// Editable reports whether the field is drawn in the properties pass.
func (f *Field) Editable() bool {
	switch f.Kind {
	case KindFloat, KindInt, KindBool, KindEnum:
		return !f.ReadOnly
	}
	return false
}

package inspect

import (
	"fmt"
	"reflect"
	"strings"

	"cogentcore.org/core/base/reflectx"
)

// TagName is the struct tag read by Describe:
//
//	Speed  float32 `inspect:"Movement"`
//	Seed   int64   `inspect:"World,defaultsonly"`
//	OnHit  func()  `inspect:"-"`
const TagName = "inspect"

var (
	enumType       = reflect.TypeFor[Enum]()
	identifiedType = reflect.TypeFor[Identified]()
	float32Type    = reflect.TypeFor[float32]()
	int32Type      = reflect.TypeFor[int32]()
)

// Describe returns the field descriptors of obj in declaration order.
// obj is normally a pointer to a struct; a struct value is described with
// every field read-only. Fields of kinds the editor cannot handle (strings,
// structs, slices, maps, arrays) are left out.
func Describe(obj any) []Field {
	if obj == nil {
		return nil
	}
	if d, ok := obj.(Describer); ok {
		return d.DescribeFields()
	}

	v := reflect.ValueOf(obj)
	if reflectx.IsNil(v) {
		return nil
	}
	v = reflectx.NonPointerValue(v)
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		category, ignored, readOnly := parseTag(sf.Tag.Get(TagName))
		fv := v.Field(i)
		kind, ok := classify(sf.Type, fv)
		if !ok {
			continue
		}
		if ignored {
			kind = KindIgnored
		}

		f := Field{
			Name:     sf.Name,
			Category: category,
			Kind:     kind,
			Index:    i,
			ReadOnly: readOnly || !fv.CanSet(),
		}
		if fv.CanAddr() {
			f.Addr = fv.UnsafeAddr()
		}
		bindValue(&f, fv)
		fields = append(fields, f)
	}
	return fields
}

// parseTag splits `category,opt,...`. The tag "-" hides the field.
func parseTag(tag string) (category string, ignored, readOnly bool) {
	if tag == "-" {
		return "", true, false
	}
	parts := strings.Split(tag, ",")
	category = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "defaultsonly", "readonly":
			readOnly = true
		case "-":
			ignored = true
		}
	}
	return category, ignored, readOnly
}

// classify picks a field's kind from its static type. Interface fields
// are Nested when the interface is Identified or currently holds a
// pointer to a struct or an Identified value.
func classify(t reflect.Type, fv reflect.Value) (FieldKind, bool) {
	if t.Implements(enumType) && isInteger(t.Kind()) {
		return KindEnum, true
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return KindNested, true
		}
	case reflect.Interface:
		if t.Implements(identifiedType) || holdsObject(fv) {
			return KindNested, true
		}
		return KindIgnored, true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return KindIgnored, true
	}
	return KindIgnored, false
}

func holdsObject(fv reflect.Value) bool {
	if fv.IsNil() {
		return false
	}
	e := fv.Elem()
	if e.Kind() == reflect.Pointer && e.Type().Elem().Kind() == reflect.Struct {
		return true
	}
	return e.Type().Implements(identifiedType)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// bindValue installs accessors for fv on f.
func bindValue(f *Field, fv reflect.Value) {
	switch f.Kind {
	case KindIgnored:
		return
	case KindEnum:
		f.Symbols = reflect.Zero(fv.Type()).Interface().(Enum).EnumSymbols()
		f.Get = func() any { return intValue(fv) }
		f.Set = func(v any) error {
			n, err := reflectx.ToInt(v)
			if err != nil {
				return err
			}
			return setInt(fv, n)
		}
		return
	case KindNested:
		f.Get = func() any {
			if fv.IsNil() {
				return nil
			}
			return fv.Interface()
		}
		f.Set = func(v any) error { return setRobust(fv, v) }
		return
	}

	f.Get = func() any { return fv.Interface() }
	f.Set = func(v any) error { return setRobust(fv, v) }
	if f.Kind == KindInt {
		f.Set = func(v any) error {
			n, err := reflectx.ToInt(v)
			if err != nil {
				return err
			}
			return setInt(fv, n)
		}
	}
	if !f.ReadOnly && fv.CanAddr() {
		switch fv.Type() {
		case float32Type:
			f.Ptr = fv.Addr().Interface().(*float32)
		case int32Type:
			f.Ptr = fv.Addr().Interface().(*int32)
		}
	}
}

func intValue(fv reflect.Value) int64 {
	switch fv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(fv.Uint())
	}
	return fv.Int()
}

func setInt(fv reflect.Value, n int64) error {
	if !fv.CanSet() {
		return fmt.Errorf("field of type %s is not settable", fv.Type())
	}
	switch fv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || fv.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, fv.Type())
		}
		fv.SetUint(uint64(n))
	default:
		if fv.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, fv.Type())
		}
		fv.SetInt(n)
	}
	return nil
}

func setRobust(fv reflect.Value, v any) error {
	if !fv.CanAddr() || !fv.CanSet() {
		return fmt.Errorf("field of type %s is not settable", fv.Type())
	}
	return reflectx.SetRobust(fv.Addr().Interface(), v)
}

// ObjectID returns the identity used to scope an object's widgets.
func ObjectID(obj any) string {
	if id, ok := obj.(Identified); ok {
		return id.UniqueID()
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Pointer {
		return fmt.Sprintf("%s@%x", v.Type().Elem().Name(), v.Pointer())
	}
	return v.Type().String()
}

// DisplayName returns the window title for obj.
func DisplayName(obj any) string {
	if n, ok := obj.(Named); ok {
		return n.DisplayName()
	}
	return reflectx.NonPointerValue(reflect.ValueOf(obj)).Type().Name()
}

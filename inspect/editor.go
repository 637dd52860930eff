package inspect

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
)

// UI is the widget surface the editor draws with.
type UI interface {
	Active() bool

	Begin(name string, open *bool) bool
	End()
	PushID(id string)
	PopID()
	Indent()
	Unindent()
	Separator()
	Text(text string)

	CollapsingHeader(label string, defaultOpen bool) bool
	DragFloat(label string, v *float32) bool
	DragInt(label string, v *int32) bool
	Checkbox(label string, v *bool) bool
	BeginCombo(label, preview string) bool
	Selectable(label string, selected bool) bool
	EndCombo()

	BeginTable(id string, columns int) bool
	TableNextRow()
	TableSetColumnIndex(column int) bool
	EndTable()
}

// DefaultMaxDepth bounds nested object recursion.
const DefaultMaxDepth = 8

// Placeholders shown instead of a nested object that is not followed.
const (
	NilPlaceholder      = "None"
	DepthPlaceholder    = "<max depth reached>"
	CyclePlaceholder    = "<cycle>"
	subObjectsHeader    = "SubObjects"
	propertiesHeader    = "Properties"
	propertyTableID     = "split"
	propertyTableColumn = 2
)

// Option configures an Editor.
type Option func(*Editor)

// WithMaxDepth sets how many nested levels are drawn below the edited
// object. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Editor) {
		if depth >= 1 {
			e.maxDepth = depth
		}
	}
}

// WithLogger sets the logger for setter failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Editor draws property editors through a UI.
type Editor struct {
	ui       UI
	maxDepth int
	logger   *slog.Logger
	onPath   map[string]bool
}

// NewEditor creates an editor drawing through ui.
func NewEditor(ui UI, opts ...Option) *Editor {
	e := &Editor{
		ui:       ui,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
		onPath:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EditObject draws obj's nested objects, then its editable fields grouped
// by category. Edits are written back into obj. Nothing happens for a nil
// obj or when the UI has no live context.
func (e *Editor) EditObject(obj any, openInNewWindow bool) {
	e.edit(obj, openInNewWindow, 0)
}

func (e *Editor) edit(obj any, window bool, depth int) {
	if isNil(obj) || !e.ui.Active() {
		return
	}

	id := ObjectID(obj)
	e.ui.PushID(id)
	defer e.ui.PopID()

	if window {
		e.ui.Begin(DisplayName(obj), nil)
		defer e.ui.End()
	}

	e.onPath[id] = true
	defer delete(e.onPath, id)

	fields := Describe(obj)
	e.drawNested(id, fields, depth)
	e.ui.Separator()
	e.drawProperties(id, fields)
}

func (e *Editor) drawNested(objID string, fields []Field, depth int) {
	var nested []Field
	for _, f := range fields {
		if f.Kind == KindNested {
			nested = append(nested, f)
		}
	}
	if len(nested) == 0 || !e.ui.CollapsingHeader(subObjectsHeader, true) {
		return
	}

	for _, f := range nested {
		e.ui.PushID(fieldScope(objID, &f))
		if e.ui.CollapsingHeader(f.Name, false) {
			child := f.Value()
			switch {
			case isNil(child):
				e.ui.Text(NilPlaceholder)
			case e.onPath[ObjectID(child)]:
				e.ui.Text(CyclePlaceholder)
			case depth+1 >= e.maxDepth:
				e.ui.Text(DepthPlaceholder)
			default:
				e.ui.Indent()
				e.edit(child, false, depth+1)
				e.ui.Unindent()
			}
		}
		e.ui.PopID()
	}
}

func (e *Editor) drawProperties(objID string, fields []Field) {
	var editable []Field
	for _, f := range fields {
		if f.Editable() {
			editable = append(editable, f)
		}
	}
	if len(editable) == 0 || !e.ui.CollapsingHeader(propertiesHeader, true) {
		return
	}

	for _, cat := range Group(editable) {
		e.ui.PushID(cat.Name)
		if e.ui.CollapsingHeader(cat.Name, true) {
			e.ui.Indent()
			if e.ui.BeginTable(propertyTableID, propertyTableColumn) {
				for i := range cat.Fields {
					f := &cat.Fields[i]
					e.ui.TableNextRow()
					e.ui.TableSetColumnIndex(0)
					e.ui.Text(f.Name)
					e.ui.TableSetColumnIndex(1)
					e.drawField(objID, f)
				}
				e.ui.EndTable()
			}
			e.ui.Unindent()
		}
		e.ui.PopID()
	}
}

// drawField draws the editor for one field inside its own identity scope.
func (e *Editor) drawField(objID string, f *Field) {
	e.ui.PushID(fieldScope(objID, f))
	defer e.ui.PopID()

	switch f.Kind {
	case KindFloat:
		if p, ok := f.Ptr.(*float32); ok {
			e.ui.DragFloat("##FloatValue", p)
			return
		}
		v, err := reflectx.ToFloat32(f.Value())
		if err != nil {
			return
		}
		if e.ui.DragFloat("##FloatValue", &v) {
			e.set(f, v)
		}
	case KindInt:
		if p, ok := f.Ptr.(*int32); ok {
			e.ui.DragInt("##IntValue", p)
			return
		}
		n, ok := int32Value(f.Value())
		if !ok {
			// Too wide for DragInt: shown, never written.
			e.ui.Text(fmt.Sprint(f.Value()))
			return
		}
		v := n
		if e.ui.DragInt("##IntValue", &v) && v != n {
			e.set(f, int64(v))
		}
	case KindBool:
		v, err := reflectx.ToBool(f.Value())
		if err != nil {
			return
		}
		if e.ui.Checkbox("##BoolValue", &v) {
			e.set(f, v)
		}
	case KindEnum:
		cur, err := reflectx.ToInt(f.Value())
		if err != nil {
			return
		}
		preview, ok := f.SymbolName(cur)
		if !ok {
			preview = strconv.FormatInt(cur, 10)
		}
		if e.ui.BeginCombo("##EnumValue", preview) {
			for _, s := range f.Symbols {
				if e.ui.Selectable(s.Name, s.Value == cur) && s.Value != cur {
					e.set(f, s.Value)
				}
			}
			e.ui.EndCombo()
		}
	}
}

func (e *Editor) set(f *Field, v any) {
	if f.Set == nil {
		return
	}
	if err := errors.Log(f.Set(v)); err != nil {
		e.logger.Debug("property not written", "field", f.Name, "value", v)
	}
}

// fieldScope keys a field's widgets by its address, or by owner and
// position when it has none.
func fieldScope(objID string, f *Field) string {
	if f.Addr != 0 {
		return fmt.Sprintf("%x", f.Addr)
	}
	return objID + "#" + strconv.Itoa(f.Index)
}

// int32Value converts an integer of any width, failing when it does not
// fit in an int32.
func int32Value(v any) (int32, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	}
	return 0, false
}

func isNil(obj any) bool {
	return obj == nil || reflectx.IsNil(reflect.ValueOf(obj))
}

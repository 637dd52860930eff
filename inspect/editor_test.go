package inspect_test

import (
	"strings"
	"testing"

	"github.com/go-theft-auto/imbridge/inspect"
)

type Mode int

const (
	ModeIdle Mode = 0
	ModeRun  Mode = 1
	ModeFly  Mode = 5
)

func (Mode) EnumSymbols() []inspect.EnumSymbol {
	return []inspect.EnumSymbol{
		{Name: "Idle", Value: int64(ModeIdle)},
		{Name: "Run", Value: int64(ModeRun)},
		{Name: "Fly", Value: int64(ModeFly)},
	}
}

type Node struct {
	Speed   float32 `inspect:"Movement"`
	Height  float64 `inspect:"Movement"`
	Count   int32
	Lives   uint8 `inspect:"Stats"`
	Visible bool  `inspect:"Render"`
	Mode    Mode  `inspect:"Movement"`
	Seed    int64 `inspect:"World,defaultsonly"`
	Name    string
	OnHit   func()
	Hidden  float32 `inspect:"-"`
	Next    *Node
	Child   *Node
	secret  int
}

// recordingUI records every widget call and answers with scripted input.
type recordingUI struct {
	inactive    bool
	calls       []string
	closed      map[string]bool // collapsing headers reported closed
	selectLabel string          // Selectable returns true for this label
	toggle      bool            // Checkbox flips its value
	dragTo      float32         // DragFloat/DragInt write this when non-zero
}

func (u *recordingUI) record(s string) { u.calls = append(u.calls, s) }

func (u *recordingUI) Active() bool { return !u.inactive }
func (u *recordingUI) Begin(name string, open *bool) bool {
	u.record("Begin:" + name)
	return true
}
func (u *recordingUI) End()              { u.record("End") }
func (u *recordingUI) PushID(id string)  { u.record("PushID:" + id) }
func (u *recordingUI) PopID()            { u.record("PopID") }
func (u *recordingUI) Indent()           { u.record("Indent") }
func (u *recordingUI) Unindent()         { u.record("Unindent") }
func (u *recordingUI) Separator()        { u.record("Separator") }
func (u *recordingUI) Text(text string)  { u.record("Text:" + text) }
func (u *recordingUI) EndCombo()         { u.record("EndCombo") }
func (u *recordingUI) TableNextRow()     { u.record("TableNextRow") }
func (u *recordingUI) EndTable()         { u.record("EndTable") }
func (u *recordingUI) TableSetColumnIndex(c int) bool {
	u.record("Column")
	return true
}

func (u *recordingUI) CollapsingHeader(label string, defaultOpen bool) bool {
	u.record("Header:" + label)
	return !u.closed[label]
}

func (u *recordingUI) DragFloat(label string, v *float32) bool {
	u.record("DragFloat:" + label)
	if u.dragTo != 0 {
		*v = u.dragTo
		return true
	}
	return false
}

func (u *recordingUI) DragInt(label string, v *int32) bool {
	u.record("DragInt:" + label)
	if u.dragTo != 0 {
		*v = int32(u.dragTo)
		return true
	}
	return false
}

func (u *recordingUI) Checkbox(label string, v *bool) bool {
	u.record("Checkbox:" + label)
	if u.toggle {
		*v = !*v
		return true
	}
	return false
}

func (u *recordingUI) BeginCombo(label, preview string) bool {
	u.record("Combo:" + label + "=" + preview)
	return true
}

func (u *recordingUI) Selectable(label string, selected bool) bool {
	u.record("Selectable:" + label)
	return label == u.selectLabel
}

func (u *recordingUI) BeginTable(id string, columns int) bool {
	u.record("Table:" + id)
	return true
}

func (u *recordingUI) count(call string) int {
	n := 0
	for _, c := range u.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (u *recordingUI) has(call string) bool { return u.count(call) > 0 }

func fieldByName(fields []inspect.Field, name string) (inspect.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return inspect.Field{}, false
}

func TestDescribeKinds(t *testing.T) {
	fields := inspect.Describe(&Node{})

	want := map[string]inspect.FieldKind{
		"Speed":   inspect.KindFloat,
		"Height":  inspect.KindFloat,
		"Count":   inspect.KindInt,
		"Lives":   inspect.KindInt,
		"Visible": inspect.KindBool,
		"Mode":    inspect.KindEnum,
		"Seed":    inspect.KindInt,
		"OnHit":   inspect.KindIgnored,
		"Hidden":  inspect.KindIgnored,
		"Next":    inspect.KindNested,
		"Child":   inspect.KindNested,
	}
	for name, kind := range want {
		f, ok := fieldByName(fields, name)
		if !ok {
			t.Errorf("field %s missing", name)
			continue
		}
		if f.Kind != kind {
			t.Errorf("field %s: expected kind %v, got %v", name, kind, f.Kind)
		}
	}

	for _, skipped := range []string{"Name", "secret"} {
		if _, ok := fieldByName(fields, skipped); ok {
			t.Errorf("field %s should be skipped", skipped)
		}
	}

	seed, _ := fieldByName(fields, "Seed")
	if !seed.ReadOnly || seed.Editable() {
		t.Error("defaultsonly field should not be editable")
	}
	speed, _ := fieldByName(fields, "Speed")
	if _, ok := speed.Ptr.(*float32); !ok {
		t.Error("float32 field should be bound directly")
	}
}

func TestDescribeNil(t *testing.T) {
	if fields := inspect.Describe(nil); fields != nil {
		t.Errorf("expected no fields for nil, got %d", len(fields))
	}
	var n *Node
	if fields := inspect.Describe(n); fields != nil {
		t.Errorf("expected no fields for typed nil, got %d", len(fields))
	}
}

func TestGroupIsStable(t *testing.T) {
	n := &Node{}
	summarize := func() string {
		var b strings.Builder
		for _, c := range inspect.Group(inspect.Describe(n)) {
			b.WriteString(c.Name + ":")
			for _, f := range c.Fields {
				b.WriteString(f.Name + "/" + f.Kind.String() + ",")
			}
			b.WriteString(";")
		}
		return b.String()
	}

	first := summarize()
	second := summarize()
	if first != second {
		t.Errorf("grouping changed between runs:\n%s\n%s", first, second)
	}
}

func TestGroupOrder(t *testing.T) {
	var editable []inspect.Field
	for _, f := range inspect.Describe(&Node{}) {
		if f.Editable() {
			editable = append(editable, f)
		}
	}

	cats := inspect.Group(editable)
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	want := []string{"Movement", inspect.Uncategorized, "Stats", "Render"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected categories %v, got %v", want, names)
	}
	if got := len(cats[0].Fields); got != 3 {
		t.Errorf("expected 3 Movement fields, got %d", got)
	}
}

func TestEnumRoundTrip(t *testing.T) {
	n := &Node{Mode: ModeRun}
	ui := &recordingUI{selectLabel: "Fly"}
	inspect.NewEditor(ui).EditObject(n, false)

	if n.Mode != ModeFly {
		t.Fatalf("expected mode %d, got %d", ModeFly, n.Mode)
	}
	if !ui.has("Combo:##EnumValue=Run") {
		t.Error("combo preview should show the current symbol")
	}

	f, _ := fieldByName(inspect.Describe(n), "Mode")
	name, ok := f.SymbolName(int64(n.Mode))
	if !ok || name != "Fly" {
		t.Errorf("expected symbol Fly, got %q", name)
	}
}

func TestBoolWritesOnToggle(t *testing.T) {
	n := &Node{Visible: true}

	inspect.NewEditor(&recordingUI{}).EditObject(n, false)
	if !n.Visible {
		t.Fatal("untouched checkbox must not write")
	}

	inspect.NewEditor(&recordingUI{toggle: true}).EditObject(n, false)
	if n.Visible {
		t.Error("toggled checkbox should write the new value")
	}
}

func TestNumericEdits(t *testing.T) {
	n := &Node{}
	ui := &recordingUI{dragTo: 3}
	inspect.NewEditor(ui).EditObject(n, false)

	if n.Speed != 3 {
		t.Errorf("expected Speed 3, got %v", n.Speed)
	}
	if n.Height != 3 {
		t.Errorf("expected Height 3, got %v", n.Height)
	}
	if n.Count != 3 || n.Lives != 3 {
		t.Errorf("expected ints 3, got Count=%d Lives=%d", n.Count, n.Lives)
	}
	if n.Seed != 0 {
		t.Error("read-only field must not be edited")
	}
	if n.Hidden != 0 {
		t.Error("hidden field must not be edited")
	}
}

func TestCycleTerminates(t *testing.T) {
	a := &Node{}
	b := &Node{Next: a}
	a.Next = b
	a.Child = a

	ui := &recordingUI{}
	inspect.NewEditor(ui, inspect.WithMaxDepth(64)).EditObject(a, false)

	if got := ui.count("Text:" + inspect.CyclePlaceholder); got != 2 {
		t.Errorf("expected 2 cycle placeholders, got %d", got)
	}
	if got := ui.count("PushID:" + inspect.ObjectID(b)); got != 1 {
		t.Errorf("expected b edited once, got %d", got)
	}
}

func TestDepthLimit(t *testing.T) {
	nodes := make([]*Node, 20)
	for i := len(nodes) - 1; i >= 0; i-- {
		nodes[i] = &Node{}
		if i+1 < len(nodes) {
			nodes[i].Next = nodes[i+1]
		}
	}

	ui := &recordingUI{}
	inspect.NewEditor(ui, inspect.WithMaxDepth(3)).EditObject(nodes[0], false)

	edited := 0
	for _, n := range nodes {
		if ui.has("PushID:" + inspect.ObjectID(n)) {
			edited++
		}
	}
	if edited != 3 {
		t.Errorf("expected 3 objects edited, got %d", edited)
	}
	if !ui.has("Text:" + inspect.DepthPlaceholder) {
		t.Error("expected depth placeholder")
	}
}

func TestNoOpWithoutObjectOrContext(t *testing.T) {
	ui := &recordingUI{}
	e := inspect.NewEditor(ui)
	e.EditObject(nil, true)
	var n *Node
	e.EditObject(n, true)
	if len(ui.calls) != 0 {
		t.Errorf("expected no calls for nil objects, got %v", ui.calls)
	}

	inactive := &recordingUI{inactive: true}
	inspect.NewEditor(inactive).EditObject(&Node{}, true)
	if len(inactive.calls) != 0 {
		t.Errorf("expected no calls without context, got %v", inactive.calls)
	}
}

func TestFieldScopesAreUnique(t *testing.T) {
	n := &Node{}
	ui := &recordingUI{}
	inspect.NewEditor(ui).EditObject(n, false)

	seen := make(map[string]bool)
	for i, c := range ui.calls {
		if !strings.HasPrefix(c, "PushID:") || i+1 >= len(ui.calls) {
			continue
		}
		// Field scopes are the ones directly wrapping an editor widget.
		next := ui.calls[i+1]
		if !strings.Contains(next, "##") {
			continue
		}
		if seen[c] {
			t.Errorf("scope %s used twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 field scopes, got %d", len(seen))
	}
}

func TestWindowAndHeaders(t *testing.T) {
	ui := &recordingUI{closed: map[string]bool{"SubObjects": true}}
	inspect.NewEditor(ui).EditObject(&Node{Next: &Node{}}, true)

	if !ui.has("Begin:Node") || !ui.has("End") {
		t.Error("expected a window titled after the type")
	}
	if ui.has("Header:Next") {
		t.Error("closed SubObjects header should hide nested sections")
	}
	if !ui.has("Table:split") {
		t.Error("expected property table")
	}
}

type Wide struct {
	Seed  int64
	Mask  uint64
	Small uint16
}

func TestWideIntsAreNotTruncated(t *testing.T) {
	w := &Wide{Seed: 1<<33 + 5, Mask: 1 << 40, Small: 7}
	ui := &recordingUI{dragTo: 9}
	inspect.NewEditor(ui).EditObject(w, false)

	if w.Seed != 1<<33+5 || w.Mask != 1<<40 {
		t.Errorf("wide fields overwritten: Seed=%d Mask=%d", w.Seed, w.Mask)
	}
	if !ui.has("Text:8589934597") || !ui.has("Text:1099511627776") {
		t.Errorf("wide values should be shown as text: %v", ui.calls)
	}
	if w.Small != 9 {
		t.Errorf("expected Small 9, got %d", w.Small)
	}
	if got := ui.count("DragInt:##IntValue"); got != 1 {
		t.Errorf("expected one int drag, got %d", got)
	}
}

func TestUnsignedRejectsNegative(t *testing.T) {
	w := &Wide{Small: 7}
	inspect.NewEditor(&recordingUI{dragTo: -1}).EditObject(w, false)
	if w.Small != 7 {
		t.Errorf("negative drag written to unsigned field: %d", w.Small)
	}
}

type tagged struct {
	ID    string
	Level int32
}

func (g *tagged) UniqueID() string { return "tagged:" + g.ID }

type Holder struct {
	Focus any
	Owner inspect.Identified
	Label any
	Empty any
}

func TestInterfaceFieldsHoldingObjects(t *testing.T) {
	target := &Node{}
	h := &Holder{Focus: target, Label: "name"}
	want := map[string]inspect.FieldKind{
		"Focus": inspect.KindNested,
		"Owner": inspect.KindNested,
		"Label": inspect.KindIgnored,
		"Empty": inspect.KindIgnored,
	}
	fields := inspect.Describe(h)
	for name, kind := range want {
		f, ok := fieldByName(fields, name)
		if !ok || f.Kind != kind {
			t.Errorf("field %s: expected kind %v, got %v (present %v)", name, kind, f.Kind, ok)
		}
	}

	ui := &recordingUI{}
	inspect.NewEditor(ui).EditObject(h, false)
	if !ui.has("PushID:" + inspect.ObjectID(target)) {
		t.Error("object behind an interface field should be edited")
	}
	if !ui.has("Text:" + inspect.NilPlaceholder) {
		t.Error("nil Identified field should show the nil placeholder")
	}

	h.Owner = &tagged{ID: "a"}
	ui = &recordingUI{}
	inspect.NewEditor(ui).EditObject(h, false)
	if !ui.has("PushID:tagged:a") {
		t.Errorf("identified owner not edited: %v", ui.calls)
	}
}

func TestPassesSeparatedAndTablesIndented(t *testing.T) {
	ui := &recordingUI{}
	inspect.NewEditor(ui).EditObject(&Node{}, false)

	index := func(call string) int {
		for i, c := range ui.calls {
			if c == call {
				return i
			}
		}
		return -1
	}
	sep, props := index("Separator"), index("Header:Properties")
	if sep < 0 || props < 0 || sep > props || sep < index("Header:SubObjects") {
		t.Errorf("separator should sit between the passes: %v", ui.calls)
	}
	for i, c := range ui.calls {
		if c != "Table:split" {
			continue
		}
		if i == 0 || ui.calls[i-1] != "Indent" {
			t.Errorf("table at %d not indented", i)
		}
	}
	if ui.count("Indent") != ui.count("Unindent") {
		t.Error("unbalanced indents")
	}
}

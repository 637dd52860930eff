package imbridge

// Key is a host-independent keyboard key. Viewports translate their native
// key codes into Key before raising key events.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyKeypadEnter
	KeyA
	KeyC
	KeyV
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

// GuiKey names a navigation slot inside the GUI library. The key map tells
// the library which Key drives each slot.
type GuiKey int

const (
	GuiKeyTab GuiKey = iota
	GuiKeyLeftArrow
	GuiKeyRightArrow
	GuiKeyUpArrow
	GuiKeyDownArrow
	GuiKeyPageUp
	GuiKeyPageDown
	GuiKeyHome
	GuiKeyEnd
	GuiKeyInsert
	GuiKeyDelete
	GuiKeyBackspace
	GuiKeySpace
	GuiKeyEnter
	GuiKeyEscape
	GuiKeyKeypadEnter
	GuiKeyA // select all
	GuiKeyC // copy
	GuiKeyV // paste
	GuiKeyX // cut
	GuiKeyY // redo
	GuiKeyZ // undo
	GuiKeyCount
)

// KeyMap maps GUI navigation slots to host keys.
type KeyMap [GuiKeyCount]Key

// DefaultKeyMap returns the key map installed by Initialize.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		GuiKeyTab:         KeyTab,
		GuiKeyLeftArrow:   KeyLeft,
		GuiKeyRightArrow:  KeyRight,
		GuiKeyUpArrow:     KeyUp,
		GuiKeyDownArrow:   KeyDown,
		GuiKeyPageUp:      KeyPageUp,
		GuiKeyPageDown:    KeyPageDown,
		GuiKeyHome:        KeyHome,
		GuiKeyEnd:         KeyEnd,
		GuiKeyInsert:      KeyInsert,
		GuiKeyDelete:      KeyDelete,
		GuiKeyBackspace:   KeyBackspace,
		GuiKeySpace:       KeySpace,
		GuiKeyEnter:       KeyEnter,
		GuiKeyEscape:      KeyEscape,
		GuiKeyKeypadEnter: KeyKeypadEnter,
		GuiKeyA:           KeyA,
		GuiKeyC:           KeyC,
		GuiKeyV:           KeyV,
		GuiKeyX:           KeyX,
		GuiKeyY:           KeyY,
		GuiKeyZ:           KeyZ,
	}
}

var keyNames = [KeyCount]string{
	KeyNone:        "--",
	KeyTab:         "Tab",
	KeyLeft:        "Left",
	KeyRight:       "Right",
	KeyUp:          "Up",
	KeyDown:        "Down",
	KeyPageUp:      "PgUp",
	KeyPageDown:    "PgDn",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyInsert:      "Ins",
	KeyDelete:      "Del",
	KeyBackspace:   "Backspace",
	KeySpace:       "Space",
	KeyEnter:       "Enter",
	KeyEscape:      "Esc",
	KeyKeypadEnter: "KpEnter",
	KeyA:           "A",
	KeyC:           "C",
	KeyV:           "V",
	KeyX:           "X",
	KeyY:           "Y",
	KeyZ:           "Z",
	KeyF1:          "F1",
	KeyF2:          "F2",
	KeyF3:          "F3",
	KeyF4:          "F4",
	KeyF5:          "F5",
	KeyF6:          "F6",
	KeyF7:          "F7",
	KeyF8:          "F8",
	KeyF9:          "F9",
	KeyF10:         "F10",
	KeyF11:         "F11",
	KeyF12:         "F12",
}

// KeyName returns a short display name for a key.
func KeyName(k Key) string {
	if k < 0 || k >= KeyCount {
		return "?"
	}
	return keyNames[k]
}

// String returns the key name.
func (k Key) String() string { return KeyName(k) }

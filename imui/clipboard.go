package imui

// Clipboard abstracts system clipboard access.
//
// For GLFW:
//
//	type glfwClipboard struct{ win *glfw.Window }
//
//	func (c glfwClipboard) GetText() string     { return c.win.GetClipboardString() }
//	func (c glfwClipboard) SetText(text string) { c.win.SetClipboardString(text) }
type Clipboard interface {
	GetText() string
	SetText(text string)
}

// localClipboard keeps copied text inside the process when the host has
// no clipboard.
type localClipboard struct{ text string }

// GetText returns the stored text.
func (l *localClipboard) GetText() string { return l.text }

// SetText replaces the stored text.
func (l *localClipboard) SetText(text string) { l.text = text }

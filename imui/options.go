package imui

import "log/slog"

// Option configures a Context.
type Option func(*Context)

// WithStyle sets the widget style.
func WithStyle(style Style) Option {
	return func(c *Context) { c.style = style }
}

// WithStateStore replaces the widget state store.
func WithStateStore(store StateStore) Option {
	return func(c *Context) { c.customState = store }
}

// WithFontFile rasterises the atlas from a TTF/OTF file instead of the
// built-in bitmap face. The file is read by CreateContext.
func WithFontFile(path string) Option {
	return func(c *Context) { c.fontPath = path }
}

// WithFontData is WithFontFile for an in-memory font.
func WithFontData(data []byte) Option {
	return func(c *Context) { c.fontData = data }
}

// WithFontSize sets the pixel size used for TTF/OTF fonts (default 14).
func WithFontSize(px float64) Option {
	return func(c *Context) {
		if px > 0 {
			c.fontSize = px
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClipboard connects copy, cut and paste in text fields to a host
// clipboard.
func WithClipboard(cb Clipboard) Option {
	return func(c *Context) { c.clipboard = cb }
}

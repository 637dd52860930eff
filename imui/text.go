package imui

import (
	"strings"
	"unicode"
)

// TextWrapped draws text broken into lines that fit the current line width.
func (c *Context) TextWrapped(text string) {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	lines := c.wrapText(text, c.availWidth(w))
	if len(lines) == 0 {
		return
	}
	pos := w.itemPos()
	lh := c.lineHeight()
	var width float32
	for i, line := range lines {
		c.addText(w.dl, pos.X, pos.Y+float32(i)*lh, line, c.style.TextColor)
		width = max(width, c.MeasureText(line).X)
	}
	c.advance(w, Vec2{X: width, Y: float32(len(lines)) * lh})
}

// wrapText splits text into lines no wider than maxWidth. Latin runs break
// at spaces; CJK runs break between any two characters. A single word wider
// than maxWidth gets a line of its own.
func (c *Context) wrapText(text string, maxWidth float32) []string {
	if maxWidth <= 0 {
		return []string{text}
	}
	var lines []string
	var line string
	push := func(tok string, space bool) {
		cand := tok
		if line != "" {
			if space {
				cand = line + " " + tok
			} else {
				cand = line + tok
			}
		}
		if line != "" && c.MeasureText(cand).X > maxWidth {
			lines = append(lines, line)
			line = tok
			return
		}
		line = cand
	}
	for _, word := range strings.Fields(text) {
		if !containsCJK(word) {
			push(word, true)
			continue
		}
		first := true
		for _, r := range word {
			push(string(r), first)
			first = false
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// truncateText shortens text to fit maxWidth, ending it with "..".
func (c *Context) truncateText(text string, maxWidth float32) string {
	if c.MeasureText(text).X <= maxWidth {
		return text
	}
	const suffix = ".."
	target := maxWidth - c.MeasureText(suffix).X
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if c.MeasureText(string(runes)).X <= target {
			return string(runes) + suffix
		}
	}
	return ""
}

func containsCJK(text string) bool {
	for _, r := range text {
		if isCJKRune(r) {
			return true
		}
	}
	return false
}

func isCJKRune(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul, unicode.Bopomofo)
}

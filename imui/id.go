package imui

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// ID uniquely identifies a widget for state persistence.
// IDs are stable across frames for the same label under the same ID stack.
type ID uint64

// GetID hashes label under the current ID scope. Text after "##" is part
// of the ID but not displayed; "###" resets the ID to the text after it.
func (c *Context) GetID(label string) ID {
	return idFrom(c.CurrentID(), label)
}

func idFrom(parent ID, label string) ID {
	if i := strings.Index(label, "###"); i >= 0 {
		label = label[i:]
	}
	h := fnv.New64a()
	var seed [8]byte
	for i := range seed {
		seed[i] = byte(parent >> (8 * i))
	}
	h.Write(seed[:])
	h.Write([]byte(label))
	return ID(h.Sum64())
}

// GetIDFromInt generates an ID from an integer, for items in slices.
func (c *Context) GetIDFromInt(n int) ID {
	return c.GetID("#" + strconv.Itoa(n))
}

// PushID pushes a string scope. All GetID calls are relative to it.
func (c *Context) PushID(label string) {
	c.idStack = append(c.idStack, c.GetID(label))
}

// PushIDInt pushes an integer scope.
func (c *Context) PushIDInt(n int) {
	c.idStack = append(c.idStack, c.GetIDFromInt(n))
}

// PopID removes the innermost scope.
func (c *Context) PopID() {
	if len(c.idStack) > 0 {
		c.idStack = c.idStack[:len(c.idStack)-1]
	}
}

// CurrentID returns the innermost scope, or 0 at the root.
func (c *Context) CurrentID() ID {
	if len(c.idStack) > 0 {
		return c.idStack[len(c.idStack)-1]
	}
	return 0
}

// displayLabel strips the hidden ID suffix from a label.
func displayLabel(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

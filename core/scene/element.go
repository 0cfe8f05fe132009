package scene

import (
	"slices"

	"github.com/google/uuid"
)

// Element is one node of a scene tree.
type Element struct {
	// ID uniquely identifies the element across scenes.
	ID string `json:"id"`

	// Tag is the element name (e.g., "circle", "g").
	Tag string `json:"tag"`

	// Classes are matched by class selectors.
	Classes []string `json:"classes,omitempty"`

	// Key is the join key the element was appended with.
	Key string `json:"key,omitempty"`

	// Keyed reports whether Key was set by a join.
	Keyed bool `json:"keyed,omitempty"`

	// Attrs holds presentation attributes.
	Attrs map[string]string `json:"attrs,omitempty"`

	// Text is the element's text content.
	Text string `json:"text,omitempty"`

	// Children are the element's children in tree order.
	Children []*Element `json:"children,omitempty"`

	parent *Element
}

// NewElement creates a detached element with a fresh id.
func NewElement(tag string, classes ...string) *Element {
	return &Element{
		ID:      uuid.NewString(),
		Tag:     tag,
		Classes: slices.Clone(classes),
		Attrs:   make(map[string]string),
	}
}

// Parent returns the element's parent, or nil for the root and detached elements.
func (e *Element) Parent() *Element {
	return e.parent
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

// clone deep-copies the subtree rooted at e.
func (e *Element) clone(parent *Element) *Element {
	c := &Element{
		ID:      e.ID,
		Tag:     e.Tag,
		Classes: slices.Clone(e.Classes),
		Key:     e.Key,
		Keyed:   e.Keyed,
		Attrs:   make(map[string]string, len(e.Attrs)),
		Text:    e.Text,
		parent:  parent,
	}
	for k, v := range e.Attrs {
		c.Attrs[k] = v
	}
	if len(e.Children) > 0 {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.clone(c)
		}
	}
	return c
}

// walk visits e and its descendants depth-first in tree order.
func (e *Element) walk(depth int, fn func(el *Element, depth int)) {
	fn(e, depth)
	for _, child := range e.Children {
		child.walk(depth+1, fn)
	}
}

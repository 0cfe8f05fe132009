package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelector is returned for selectors outside the supported grammar.
var ErrInvalidSelector = errors.New("invalid selector")

// Selector matches elements by tag, classes or id.
type Selector struct {
	Tag     string
	Classes []string
	ID      string
}

// ParseSelector parses s into a Selector.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Selector{}, nil
	}
	if strings.ContainsAny(s, " \t>+~[]:,") {
		return Selector{}, fmt.Errorf("%w %q: only simple selectors are supported", ErrInvalidSelector, s)
	}

	if id, ok := strings.CutPrefix(s, "#"); ok {
		if id == "" || strings.ContainsAny(id, "#.") {
			return Selector{}, fmt.Errorf("%w %q", ErrInvalidSelector, s)
		}
		return Selector{ID: id}, nil
	}

	parts := strings.Split(s, ".")
	sel := Selector{Tag: parts[0]}
	if sel.Tag == "*" {
		sel.Tag = ""
	}
	if strings.Contains(sel.Tag, "#") {
		return Selector{}, fmt.Errorf("%w %q", ErrInvalidSelector, s)
	}
	for _, c := range parts[1:] {
		if c == "" || strings.Contains(c, "#") {
			return Selector{}, fmt.Errorf("%w %q: empty or malformed class", ErrInvalidSelector, s)
		}
		sel.Classes = append(sel.Classes, c)
	}
	return sel, nil
}

// Matches reports whether e satisfies the selector.
func (s Selector) Matches(e *Element) bool {
	if s.ID != "" && e.ID != s.ID {
		return false
	}
	if s.Tag != "" && e.Tag != s.Tag {
		return false
	}
	for _, c := range s.Classes {
		if !e.HasClass(c) {
			return false
		}
	}
	return true
}

// String renders the selector back to its textual form.
func (s Selector) String() string {
	if s.ID != "" {
		return "#" + s.ID
	}
	out := s.Tag
	for _, c := range s.Classes {
		out += "." + c
	}
	if out == "" {
		return "*"
	}
	return out
}

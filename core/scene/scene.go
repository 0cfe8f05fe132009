package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"datajoin/core/join"
)

// RootTag is the tag of every scene's root element.
const RootTag = "scene"

var (
	// ErrNotFound is returned when an element id is not part of the scene.
	ErrNotFound = errors.New("element not found")

	// ErrNotElement is returned when a node handle is not a *Element.
	ErrNotElement = errors.New("node is not a scene element")
)

// Scene is a named element tree.
type Scene struct {
	Name string
	Root *Element

	mu    sync.RWMutex
	index map[string]*Element
}

// New creates an empty scene with a fresh root.
func New(name string) *Scene {
	return Restore(name, NewElement(RootTag))
}

// Restore builds a scene around an existing tree, relinking parents and
// indexing every element.
func Restore(name string, root *Element) *Scene {
	s := &Scene{Name: name, Root: root, index: make(map[string]*Element)}
	root.parent = nil
	s.indexSubtree(root)
	return s
}

func (s *Scene) indexSubtree(e *Element) {
	s.index[e.ID] = e
	for _, child := range e.Children {
		child.parent = e
		s.indexSubtree(child)
	}
}

func (s *Scene) unindexSubtree(e *Element) {
	e.walk(0, func(el *Element, _ int) {
		delete(s.index, el.ID)
	})
}

// Find returns the element with the given id.
func (s *Scene) Find(id string) (*Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Len returns the number of elements in the scene, root included.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// Walk visits every element depth-first in tree order.
func (s *Scene) Walk(fn func(e *Element, depth int)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.Root.walk(0, fn)
}

// Update runs fn on e while holding the scene's write lock.
func (s *Scene) Update(e *Element, fn func(*Element)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(e)
}

// Snapshot returns a deep copy of the scene.
func (s *Scene) Snapshot() *Scene {
	s.mu.RLock()
	root := s.Root.clone(nil)
	s.mu.RUnlock()
	return Restore(s.Name, root)
}

// MarshalJSON encodes the scene as {"name": ..., "root": ...}.
func (s *Scene) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(struct {
		Name string   `json:"name"`
		Root *Element `json:"root"`
	}{s.Name, s.Root})
}

// UnmarshalJSON decodes a scene encoded by MarshalJSON.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string   `json:"name"`
		Root *Element `json:"root"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Root == nil {
		raw.Root = NewElement(RootTag)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Name = raw.Name
	s.Root = raw.Root
	s.index = make(map[string]*Element)
	s.indexSubtree(s.Root)
	return nil
}

// element resolves a node handle to an attached element. A nil node is the root.
// Callers must hold s.mu.
func (s *Scene) element(node join.Node) (*Element, error) {
	if node == nil {
		return s.Root, nil
	}
	e, ok := node.(*Element)
	if !ok || e == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotElement, node)
	}
	if s.index[e.ID] != e {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	return e, nil
}

// Children implements join.Host.
func (s *Scene) Children(parent join.Node, selector string) ([]join.Node, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.element(parent)
	if err != nil {
		return nil, err
	}
	nodes := make([]join.Node, 0, len(p.Children))
	for _, child := range p.Children {
		if sel.Matches(child) {
			nodes = append(nodes, child)
		}
	}
	return nodes, nil
}

// KeyOf implements join.Host.
func (s *Scene) KeyOf(node join.Node) (string, bool) {
	e, ok := node.(*Element)
	if !ok || e == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return e.Key, e.Keyed
}

// Append implements join.Host.
func (s *Scene) Append(parent, child join.Node, key string) error {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return fmt.Errorf("%w: %T", ErrNotElement, child)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.element(parent)
	if err != nil {
		return err
	}
	if c.parent != nil || s.index[c.ID] != nil {
		return fmt.Errorf("element %s is already attached", c.ID)
	}

	c.Key = key
	c.Keyed = true
	c.parent = p
	p.Children = append(p.Children, c)
	s.indexSubtree(c)
	return nil
}

// Remove implements join.Remover.
func (s *Scene) Remove(node join.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(node)
}

// RemoveAll implements join.BatchRemover.
func (s *Scene) RemoveAll(nodes []join.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, node := range nodes {
		if err := s.remove(node); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) remove(node join.Node) error {
	e, err := s.element(node)
	if err != nil {
		return err
	}
	if e == s.Root {
		return errors.New("cannot remove the scene root")
	}

	p := e.parent
	for i, child := range p.Children {
		if child == e {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	e.parent = nil
	s.unindexSubtree(e)
	return nil
}

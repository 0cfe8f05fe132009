package join

import (
	"fmt"
	"strconv"
)

// Join binds an ordered collection of items to the children of Parent.
type Join[T any] struct {
	// Host provides the tree the join reads from and appends to.
	Host Host

	// Parent owns the candidate nodes.
	Parent Node

	// Selector filters the parent's children. Its grammar belongs to the Host.
	Selector string

	// Key derives item keys. If nil, items and nodes are matched by position.
	Key KeyFunc[T]

	// Factory creates nodes for entering items.
	Factory Factory[T]

	// Hooks are the optional lifecycle extension points.
	Hooks Hooks[T]

	// Strict makes duplicate item keys fail with *InvalidKeyError instead of
	// resolving them last-writer-wins.
	Strict bool
}

// Reconcile plans the join and applies it.
// On an Apply failure the partially applied result is returned with the error.
func (j *Join[T]) Reconcile(items []T) (*Result[T], error) {
	result, err := j.Plan(items)
	if err != nil {
		return nil, err
	}
	return result, j.Apply(result)
}

// Plan partitions items and the parent's matching children into entering,
// updating and exiting sets. It does not modify the host or run hooks.
func (j *Join[T]) Plan(items []T) (*Result[T], error) {
	if j.Host == nil {
		return nil, ErrNoHost
	}

	nodes, err := j.Host.Children(j.Parent, j.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate children: %w", err)
	}

	keyFn := j.Key
	if keyFn == nil {
		keyFn = ByIndex[T]
	}

	// Key every item; the last occurrence of a key owns it
	keys := make([]string, len(items))
	owner := make(map[string]int, len(items))
	for i, item := range items {
		key := keyFn(item, i)
		if prev, dup := owner[key]; dup && j.Strict {
			return nil, &InvalidKeyError{Key: key, First: prev, Second: i}
		}
		keys[i] = key
		owner[key] = i
	}

	// Index existing nodes by key. Unkeyed nodes and later duplicates
	// are left out and exit.
	nodeKeys := make([]string, len(nodes))
	byKey := make(map[string]int, len(nodes))
	for pos, node := range nodes {
		key, ok := j.nodeKey(node, pos)
		if !ok {
			continue
		}
		nodeKeys[pos] = key
		if _, dup := byKey[key]; dup {
			continue
		}
		byKey[key] = pos
	}

	result := &Result[T]{}
	consumed := make([]bool, len(nodes))
	for i, item := range items {
		d := Datum[T]{Index: i, Key: keys[i], Item: item}
		if owner[d.Key] != i {
			result.Dropped = append(result.Dropped, d)
			continue
		}

		result.Data = append(result.Data, d)
		if pos, ok := byKey[d.Key]; ok {
			consumed[pos] = true
			result.Updating = append(result.Updating, Binding[T]{Datum: d, Node: nodes[pos]})
			continue
		}
		result.Entering = append(result.Entering, d)
	}

	for pos, node := range nodes {
		if !consumed[pos] {
			result.Exiting = append(result.Exiting, Orphan{Key: nodeKeys[pos], Node: node})
		}
	}

	return result, nil
}

// nodeKey returns the key of the node at pos. By-index joins key nodes by
// position and ignore recorded keys.
func (j *Join[T]) nodeKey(node Node, pos int) (string, bool) {
	if j.Key == nil {
		return strconv.Itoa(pos), true
	}
	return j.Host.KeyOf(node)
}

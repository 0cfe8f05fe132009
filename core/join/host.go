package join

import "fmt"

// Host is the tree a join reads from and appends to.
type Host interface {
	// Children returns the children of parent matching selector, in tree order.
	Children(parent Node, selector string) ([]Node, error)

	// KeyOf returns the key a node was appended with.
	// ok is false for nodes that were never keyed.
	KeyOf(node Node) (key string, ok bool)

	// Append attaches child as the last child of parent and records key on it.
	Append(parent, child Node, key string) error
}

// Remover is implemented by hosts that can detach a node from its parent.
type Remover interface {
	Remove(node Node) error
}

// BatchRemover is implemented by hosts that can detach many nodes at once.
type BatchRemover interface {
	RemoveAll(nodes []Node) error
}

// RemoveExiting returns an AfterExit hook that detaches exiting nodes from
// host. It prefers BatchRemover and falls back to one Remove call per node.
func RemoveExiting(host Host) func([]Orphan) error {
	return func(exiting []Orphan) error {
		if len(exiting) == 0 {
			return nil
		}

		if batch, ok := host.(BatchRemover); ok {
			nodes := make([]Node, len(exiting))
			for i, o := range exiting {
				nodes[i] = o.Node
			}
			if err := batch.RemoveAll(nodes); err != nil {
				return fmt.Errorf("failed to batch remove %d nodes: %w", len(nodes), err)
			}
			return nil
		}

		remover, ok := host.(Remover)
		if !ok {
			return fmt.Errorf("host %T does not implement Remover", host)
		}
		for _, o := range exiting {
			if err := remover.Remove(o.Node); err != nil {
				return fmt.Errorf("failed to remove node %q: %w", o.Key, err)
			}
		}
		return nil
	}
}

// Package join implements a keyed enter/update/exit data join between an
// ordered collection of items and the child nodes of a parent in a host tree.
//
// A join runs in two phases:
//
//  1. Plan: enumerate the parent's children matching a selector, key every
//     node and every item, and partition them into entering items (no node yet),
//     updating pairs (item matched to an existing node) and exiting nodes
//     (no item claims them). Planning has no side effects.
//
//  2. Apply: run the lifecycle hooks in a fixed order. Entering items are
//     materialized through the Factory and appended to the parent in item
//     order; exiting nodes are handed to AfterExit for removal.
//
// Reconcile runs both phases. Updating nodes are never reordered.
//
// # Keys
//
// Items are keyed with a KeyFunc. When Join.Key is nil the join matches by
// position (ByIndex): the node at position i is owned by the item at index i.
// In keyed mode a node's key is the one it was appended with, as reported by
// Host.KeyOf.
//
// Duplicate item keys are resolved last-writer-wins: the later item owns the
// key and earlier ones are reported in Result.Dropped. With Join.Strict set the
// join fails with *InvalidKeyError before touching the host.
//
// # Concurrency
//
// A Join does no locking. Callers must serialize joins against the same
// parent.
//
// # Usage Example
//
//	j := &join.Join[Point]{
//	    Host:     doc,
//	    Parent:   doc.Root,
//	    Selector: "circle.dot",
//	    Key:      func(p Point, _ int) string { return p.Name },
//	    Factory:  func(d join.Datum[Point]) (join.Node, error) { return scene.NewElement("circle", "dot"), nil },
//	    Hooks: join.Hooks[Point]{
//	        AfterExit: join.RemoveExiting(doc),
//	    },
//	}
//	result, err := j.Reconcile(points)
package join

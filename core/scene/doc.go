// Package scene provides a retained element tree that data joins bind to.
//
// A Scene owns a root element and an id index over every attached element.
// It implements join.Host, join.Remover and join.BatchRemover, so it can be
// handed directly to a join.Join as its host.
//
// # Selectors
//
// Children are filtered with a small selector grammar matching direct children
// only:
//   - "" or "*": every child
//   - "circle": tag
//   - ".dot.active": classes (all must be present)
//   - "circle.dot": tag and classes
//   - "#<id>": element id
//
// # Concurrency
//
// Scene methods lock internally, so reads (Snapshot, Find) may run alongside a
// join. Joins against the same scene must still be serialized by the caller.
package scene

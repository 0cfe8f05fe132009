package join

import "strconv"

// Node is an opaque handle to a materialized element owned by a Host.
// The join only compares and forwards nodes; it never mutates them.
type Node any

// KeyFunc derives the join key of an item at the given position.
// It must be a pure function of its arguments for the duration of one join.
type KeyFunc[T any] func(item T, index int) string

// ByIndex keys an item by its position in the collection.
func ByIndex[T any](_ T, index int) string {
	return strconv.Itoa(index)
}

// Factory creates the node for an entering datum.
type Factory[T any] func(d Datum[T]) (Node, error)

// Datum is an item together with its position and key in one join.
type Datum[T any] struct {
	// Index is the position of the item in the input collection.
	Index int `json:"index"`

	// Key is the value returned by the key function for this item.
	Key string `json:"key"`

	// Item is the application value.
	Item T `json:"item"`
}

// Binding pairs a datum with the node that represents it.
type Binding[T any] struct {
	Datum[T]

	// Node is the existing or newly created node bound to the datum.
	Node Node `json:"-"`
}

// Orphan is an existing node that no item claimed.
type Orphan struct {
	// Key is the node's key, empty if the node carried none.
	Key string `json:"key"`

	// Node is the node awaiting removal.
	Node Node `json:"-"`
}

// Hooks are the lifecycle extension points of a join, run by Apply in this
// order: OnJoinStart, BeforeEnter, AfterEnter, BeforeExit, AfterExit, OnJoinEnd.
// Every field is optional.
type Hooks[T any] struct {
	// OnJoinStart receives the updating and entering data in item order.
	OnJoinStart func(data []Datum[T])

	// BeforeEnter gates materialization of entering items. Defaults to true.
	BeforeEnter func(entering []Datum[T]) bool

	// AfterEnter receives the newly created bindings in item order.
	AfterEnter func(entered []Binding[T]) error

	// BeforeExit gates AfterExit. Defaults to true.
	BeforeExit func(exiting []Orphan) bool

	// AfterExit is expected to detach the exiting nodes from the host.
	AfterExit func(exiting []Orphan) error

	// OnJoinEnd receives every bound node (updated and entered) in item order.
	OnJoinEnd func(bound []Binding[T])
}

// Result holds the partition computed by Plan and the nodes created by Apply.
// It is not retained between joins.
type Result[T any] struct {
	// Data lists the updating and entering data in item order.
	Data []Datum[T] `json:"data"`

	// Entering lists items that have no node yet, in item order.
	Entering []Datum[T] `json:"entering"`

	// Updating pairs items with the existing nodes they matched, in item order.
	Updating []Binding[T] `json:"updating"`

	// Exiting lists existing nodes no item claimed, in tree order.
	Exiting []Orphan `json:"exiting"`

	// Dropped lists items displaced by a later item with the same key.
	Dropped []Datum[T] `json:"dropped"`

	// Entered lists the bindings created by Apply, in item order.
	Entered []Binding[T] `json:"entered"`

	// EnterSkipped is true when BeforeEnter vetoed materialization.
	EnterSkipped bool `json:"enter_skipped"`

	// ExitSkipped is true when BeforeExit vetoed removal.
	ExitSkipped bool `json:"exit_skipped"`
}

// Summary provides aggregate counts for a join.
type Summary struct {
	Items    int `json:"items"`
	Entering int `json:"entering"`
	Updating int `json:"updating"`
	Exiting  int `json:"exiting"`
	Dropped  int `json:"dropped"`
	Entered  int `json:"entered"`

	// Exited counts exiting nodes handed to AfterExit.
	Exited int `json:"exited"`
}

// Summary returns aggregate counts for the result.
func (r *Result[T]) Summary() Summary {
	exited := len(r.Exiting)
	if r.ExitSkipped {
		exited = 0
	}
	return Summary{
		Items:    len(r.Data) + len(r.Dropped),
		Entering: len(r.Entering),
		Updating: len(r.Updating),
		Exiting:  len(r.Exiting),
		Dropped:  len(r.Dropped),
		Entered:  len(r.Entered),
		Exited:   exited,
	}
}

// Bound returns the updated and entered bindings merged in item order.
func (r *Result[T]) Bound() []Binding[T] {
	bound := make([]Binding[T], 0, len(r.Updating)+len(r.Entered))
	u, e := 0, 0
	for u < len(r.Updating) || e < len(r.Entered) {
		switch {
		case e >= len(r.Entered):
			bound = append(bound, r.Updating[u])
			u++
		case u >= len(r.Updating):
			bound = append(bound, r.Entered[e])
			e++
		case r.Updating[u].Index < r.Entered[e].Index:
			bound = append(bound, r.Updating[u])
			u++
		default:
			bound = append(bound, r.Entered[e])
			e++
		}
	}
	return bound
}

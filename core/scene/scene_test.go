package scene

import (
	"encoding/json"
	"testing"

	"datajoin/core/join"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Selector
		wantErr bool
	}{
		{"Empty", "", Selector{}, false},
		{"Universal", "*", Selector{}, false},
		{"Tag", "circle", Selector{Tag: "circle"}, false},
		{"Class", ".dot", Selector{Classes: []string{"dot"}}, false},
		{"TagClasses", "circle.dot.active", Selector{Tag: "circle", Classes: []string{"dot", "active"}}, false},
		{"UniversalClass", "*.dot", Selector{Classes: []string{"dot"}}, false},
		{"ID", "#abc", Selector{ID: "abc"}, false},
		{"Descendant", "g circle", Selector{}, true},
		{"EmptyClass", "circle..dot", Selector{}, true},
		{"TrailingDot", "circle.", Selector{}, true},
		{"EmptyID", "#", Selector{}, true},
		{"TagWithID", "circle#abc", Selector{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelector(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_Matches(t *testing.T) {
	e := NewElement("circle", "dot", "active")

	assert.True(t, Selector{}.Matches(e))
	assert.True(t, Selector{Tag: "circle"}.Matches(e))
	assert.True(t, Selector{Classes: []string{"active", "dot"}}.Matches(e))
	assert.False(t, Selector{Tag: "rect"}.Matches(e))
	assert.False(t, Selector{Classes: []string{"dot", "hidden"}}.Matches(e))
	assert.True(t, Selector{ID: e.ID}.Matches(e))
	assert.Equal(t, "circle.dot", Selector{Tag: "circle", Classes: []string{"dot"}}.String())
	assert.Equal(t, "*", Selector{}.String())
}

func TestScene_HostOperations(t *testing.T) {
	s := New("chart")
	assert.Equal(t, 1, s.Len())

	g := NewElement("g", "axis")
	require.NoError(t, s.Append(nil, g, "axis"))

	label := NewElement("text", "label")
	require.NoError(t, s.Append(g, label, "0"))
	dot := NewElement("circle", "dot")
	require.NoError(t, s.Append(g, dot, "1"))

	assert.Equal(t, 4, s.Len())
	assert.Same(t, g, label.Parent())

	nodes, err := s.Children(g, "circle.dot")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Same(t, dot, nodes[0].(*Element))

	key, ok := s.KeyOf(dot)
	assert.True(t, ok)
	assert.Equal(t, "1", key)

	_, ok = s.KeyOf(s.Root)
	assert.False(t, ok)

	// Appending an attached element twice fails
	assert.Error(t, s.Append(nil, dot, "again"))

	// Removing a group unindexes its subtree
	require.NoError(t, s.Remove(g))
	assert.Equal(t, 1, s.Len())
	_, err = s.Find(dot.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, g.Parent())

	// Removed elements are no longer valid parents
	_, err = s.Children(g, "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Remove(s.Root))
	_, err = s.Children("not-an-element", "")
	assert.ErrorIs(t, err, ErrNotElement)
}

func TestScene_RemoveAll(t *testing.T) {
	s := New("chart")
	var nodes []join.Node
	for _, k := range []string{"a", "b", "c"} {
		e := NewElement("rect")
		require.NoError(t, s.Append(nil, e, k))
		nodes = append(nodes, e)
	}

	require.NoError(t, s.RemoveAll([]join.Node{nodes[0], nodes[2]}))

	remaining, err := s.Children(nil, "rect")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Same(t, nodes[1].(*Element), remaining[0].(*Element))
}

// TestScene_AsJoinHost runs keyed joins against a nested group.
func TestScene_AsJoinHost(t *testing.T) {
	s := New("chart")
	g := NewElement("g", "plot")
	require.NoError(t, s.Append(nil, g, "plot"))

	// A sibling that does not match the selector must be left alone
	require.NoError(t, s.Append(g, NewElement("text", "title"), "a"))

	j := &join.Join[string]{
		Host:     s,
		Parent:   g,
		Selector: "circle.dot",
		Key:      func(name string, _ int) string { return name },
		Factory: func(d join.Datum[string]) (join.Node, error) {
			return NewElement("circle", "dot"), nil
		},
		Hooks: join.Hooks[string]{
			AfterExit: join.RemoveExiting(s),
		},
	}

	first, err := j.Reconcile([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, first.Entered, 3)

	second, err := j.Reconcile([]string{"c", "a", "d"})
	require.NoError(t, err)
	assert.Len(t, second.Updating, 2)
	assert.Len(t, second.Entered, 1)
	require.Len(t, second.Exiting, 1)
	assert.Equal(t, "b", second.Exiting[0].Key)

	var keys []string
	for _, c := range g.Children {
		keys = append(keys, c.Tag+":"+c.Key)
	}
	assert.Equal(t, []string{"text:a", "circle:a", "circle:c", "circle:d"}, keys)
	assert.Equal(t, 6, s.Len())
}

func TestScene_SnapshotIsIndependent(t *testing.T) {
	s := New("chart")
	e := NewElement("rect")
	e.Attrs["width"] = "10"
	require.NoError(t, s.Append(nil, e, "a"))

	snap := s.Snapshot()
	s.Update(e, func(el *Element) { el.Attrs["width"] = "20" })

	copied, err := snap.Find(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", copied.Attrs["width"])
	assert.NotSame(t, e, copied)
	assert.Same(t, snap.Root, copied.Parent())
}

func TestScene_JSON(t *testing.T) {
	s := New("chart")
	g := NewElement("g")
	require.NoError(t, s.Append(nil, g, "0"))
	dot := NewElement("circle", "dot")
	dot.Text = "hi"
	require.NoError(t, s.Append(g, dot, "k"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Scene
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "chart", decoded.Name)
	assert.Equal(t, 3, decoded.Len())
	found, err := decoded.Find(dot.ID)
	require.NoError(t, err)
	assert.Equal(t, "k", found.Key)
	assert.True(t, found.Keyed)
	assert.Equal(t, g.ID, found.Parent().ID)
}

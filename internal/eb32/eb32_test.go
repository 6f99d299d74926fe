// internal/eb32/eb32_test.go

package eb32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func keysInOrder(t *Tree) []uint32 {
	var out []uint32
	for n := t.First(); n != nil; n = t.Next(n) {
		out = append(out, n.Key)
	}
	return out
}

func TestInsertOrdersByKey(t *testing.T) {
	tr := New()
	for _, k := range []uint32{50, 10, 30, 20, 40} {
		n := &Node{Key: k}
		tr.Insert(n)
	}

	require.Equal(t, 5, tr.Len())
	require.Equal(t, []uint32{10, 20, 30, 40, 50}, keysInOrder(tr))
}

func TestDuplicateKeysKeepInsertionOrder(t *testing.T) {
	tr := New()
	a := &Node{Key: 7, Data: "a"}
	b := &Node{Key: 7, Data: "b"}
	c := &Node{Key: 7, Data: "c"}
	tr.Insert(a)
	tr.Insert(b)
	tr.Insert(c)

	var seen []string
	for n := tr.First(); n != nil; n = tr.Next(n) {
		seen = append(seen, n.Data.(string))
	}
	require.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestRemoveIsIdempotent(t *testing.T) {
	tr := New()
	n := &Node{Key: 1}
	tr.Insert(n)
	require.True(t, n.Linked())

	tr.Remove(n)
	require.False(t, n.Linked())
	require.Equal(t, 0, tr.Len())

	tr.Remove(n) // no-op
	require.Equal(t, 0, tr.Len())
}

func TestInsertRepositionsLinkedNode(t *testing.T) {
	tr := New()
	n := &Node{Key: 10}
	other := &Node{Key: 20}
	tr.Insert(n)
	tr.Insert(other)

	n.Key = 30
	tr.Insert(n)

	require.Equal(t, 2, tr.Len())
	require.Equal(t, []uint32{20, 30}, keysInOrder(tr))
}

func TestLookupGE(t *testing.T) {
	tr := New()
	for _, k := range []uint32{10, 20, 30} {
		tr.Insert(&Node{Key: k})
	}

	require.Equal(t, uint32(10), tr.LookupGE(5).Key)
	require.Equal(t, uint32(20), tr.LookupGE(20).Key)
	require.Equal(t, uint32(30), tr.LookupGE(21).Key)
	require.Nil(t, tr.LookupGE(31))
}

func TestLookupGEWrapFallback(t *testing.T) {
	// Keys stored in the high half of the key space; a caller whose "now"
	// wrapped to the low half misses with LookupGE and falls back to First.
	tr := New()
	tr.Insert(&Node{Key: 0xFFFFFF00})

	require.Nil(t, tr.LookupGE(0xFFFFFFF0))
	require.Equal(t, uint32(0xFFFFFF00), tr.First().Key)
}

func TestNextPastEnd(t *testing.T) {
	tr := New()
	n := &Node{Key: 1}
	tr.Insert(n)

	require.Nil(t, tr.Next(n))

	tr.Remove(n)
	require.Nil(t, tr.Next(n)) // unlinked node has no successor
}

func TestFirstOnEmpty(t *testing.T) {
	tr := New()
	require.Nil(t, tr.First())
	require.Nil(t, tr.LookupGE(0))
}

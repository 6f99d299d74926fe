// internal/eb32/eb32.go

// Package eb32 provides an ordered tree keyed by wrapping 32-bit integers.
//
// Duplicate keys are allowed and are ordered among themselves by insertion.
// The tree itself orders keys as plain unsigned integers; callers that treat
// the key space as a cyclic number line (timers, run-queue positions) combine
// LookupGE with a fall-back to First to find "the next event from now".
package eb32

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// slot is the composite tree key: the caller-visible 32-bit key plus a
// per-tree insertion sequence so that equal keys keep FIFO order.
type slot struct {
	key uint32
	seq uint64
}

func slotCmp(a, b any) int {
	ka, kb := a.(slot), b.(slot)
	switch {
	case ka.key < kb.key:
		return -1
	case ka.key > kb.key:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}

// Node is a membership node meant to be embedded in the caller's record.
// Key must be set before Insert; Data points back at the owning record.
type Node struct {
	Key  uint32
	Data any

	at     slot // composite key the node is currently linked under
	linked bool
}

// Linked reports whether the node is currently in a tree.
func (n *Node) Linked() bool { return n.linked }

// Tree is an ordered set of Nodes. The zero value is not usable; call New.
type Tree struct {
	rbt *redblacktree.Tree
	seq uint64
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{rbt: redblacktree.NewWith(slotCmp)}
}

// Len returns the number of linked nodes.
func (t *Tree) Len() int { return t.rbt.Size() }

// Insert links n under n.Key. If n is already linked it is unlinked first,
// so Insert doubles as a repositioning move.
func (t *Tree) Insert(n *Node) {
	if n.linked {
		t.rbt.Remove(n.at)
	}
	t.seq++
	n.at = slot{key: n.Key, seq: t.seq}
	n.linked = true
	t.rbt.Put(n.at, n)
}

// Remove unlinks n. It is idempotent: removing an unlinked node is a no-op.
func (t *Tree) Remove(n *Node) {
	if !n.linked {
		return
	}
	t.rbt.Remove(n.at)
	n.linked = false
}

// First returns the node with the numerically smallest key, or nil.
func (t *Tree) First() *Node {
	left := t.rbt.Left()
	if left == nil {
		return nil
	}
	return left.Value.(*Node)
}

// Next returns the in-order successor of n, or nil past the end.
// n must still be linked.
func (t *Tree) Next(n *Node) *Node {
	if !n.linked {
		return nil
	}
	// The successor is the smallest composite key strictly above n's.
	tn, ok := t.rbt.Ceiling(slot{key: n.at.key, seq: n.at.seq + 1})
	if !ok {
		return nil
	}
	return tn.Value.(*Node)
}

// LookupGE returns the first node whose key is >= key in unsigned order,
// or nil when every key in the tree is below it.
func (t *Tree) LookupGE(key uint32) *Node {
	tn, ok := t.rbt.Ceiling(slot{key: key})
	if !ok {
		return nil
	}
	return tn.Value.(*Node)
}

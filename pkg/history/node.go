package history

import (
	"iter"
	"time"

	"github.com/aretw0/blackjack/pkg/domain"
)

// Option configures a tree.
type Option func(*tree)

// WithNow overrides the source of creation timestamps.
func WithNow(now func() time.Time) Option {
	return func(t *tree) {
		t.now = now
	}
}

// WithClock makes the tree issue sequence numbers from c.
func WithClock(c *Clock) Option {
	return func(t *tree) {
		t.clock = c
	}
}

// tree is the state shared by all nodes created from one root.
type tree struct {
	now   func() time.Time
	clock *Clock
}

func newTree(opts ...Option) *tree {
	t := &tree{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = &Clock{}
	}
	return t
}

// Node is one entry in the history tree.
type Node struct {
	value     domain.Snapshot
	createdAt time.Time
	seq       uint64
	children  []*Node
	tree      *tree
}

// NewRoot creates a single-node tree holding s.
func NewRoot(s domain.Snapshot, opts ...Option) *Node {
	t := newTree(opts...)
	return t.node(s)
}

func (t *tree) node(s domain.Snapshot) *Node {
	return &Node{
		value:     s,
		createdAt: t.now(),
		seq:       t.clock.Tick(),
		tree:      t,
	}
}

// Value returns the snapshot stored in this node.
func (n *Node) Value() domain.Snapshot { return n.value }

// CreatedAt returns the instant the node was created.
func (n *Node) CreatedAt() time.Time { return n.createdAt }

// Seq returns the node's sequence number, unique within its tree.
func (n *Node) Seq() uint64 { return n.seq }

// Clock returns the clock shared by the tree.
func (n *Node) Clock() *Clock { return n.tree.clock }

// AppendChild wraps s in a new node and adds it as the last child of n.
// It returns the new node.
func (n *Node) AppendChild(s domain.Snapshot) *Node {
	child := n.tree.node(s)
	n.children = append(n.children, child)
	return child
}

// AddAlongActivePath appends s below the active leaf reachable from n, extending the current
// timeline by one level.
func (n *Node) AddAlongActivePath(s domain.Snapshot) *Node {
	return n.ActiveLeaf().AppendChild(s)
}

// BranchCount returns the number of direct children.
func (n *Node) BranchCount() int { return len(n.children) }

// Branches returns the direct children in insertion order.
func (n *Node) Branches() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}
}

// Child returns the i-th child in insertion order.
func (n *Node) Child(i int) *Node { return n.children[i] }

// CurrentBranch returns the child that continues the current timeline, or nil on a leaf.
func (n *Node) CurrentBranch() *Node {
	var best *Node
	for _, c := range n.children {
		if best == nil || c.newerThan(best) {
			best = c
		}
	}
	return best
}

func (n *Node) newerThan(o *Node) bool {
	if n.createdAt.Equal(o.createdAt) {
		return n.seq > o.seq
	}
	return n.createdAt.After(o.createdAt)
}

// ActiveLeaf walks the current timeline from n down to its leaf.
func (n *Node) ActiveLeaf() *Node {
	cur := n
	for next := cur.CurrentBranch(); next != nil; next = cur.CurrentBranch() {
		cur = next
	}
	return cur
}

// CurrentSnapshot returns a clone of the value at the active leaf.
func (n *Node) CurrentSnapshot() domain.Snapshot {
	return n.ActiveLeaf().value.Clone()
}

// ActivePath yields the nodes of the current timeline, from n to the active leaf.
func (n *Node) ActivePath() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := n; cur != nil; cur = cur.CurrentBranch() {
			if !yield(cur) {
				return
			}
		}
	}
}

// Depth returns the number of edges between n and its active leaf.
func (n *Node) Depth() int {
	d := -1
	for range n.ActivePath() {
		d++
	}
	return d
}

// Walk yields every node below n, n included, in depth-first pre-order together with its
// distance from n. Children are visited in insertion order.
func (n *Node) Walk() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		n.walk(0, yield)
	}
}

func (n *Node) walk(depth int, yield func(int, *Node) bool) bool {
	if !yield(depth, n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(depth+1, yield) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes below n, n included.
func (n *Node) Size() int {
	size := 0
	for range n.Walk() {
		size++
	}
	return size
}

// IsActive reports whether target lies on the current timeline starting at n.
func (n *Node) IsActive(target *Node) bool {
	for node := range n.ActivePath() {
		if node == target {
			return true
		}
	}
	return false
}

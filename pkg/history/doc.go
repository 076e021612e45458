/*
Package history stores the successive snapshots of a table as an append-only, branching tree.

Every node holds one immutable domain.Snapshot, the instant it was created and a
sequence number issued by the tree's Clock. A node may have several children; the
"current" timeline is found by starting at a node and repeatedly descending into the child
created last, until a leaf is reached. That leaf is the active leaf and its value is the
current snapshot.

The active path is resolved again on every query. Nothing caches the active leaf, so a
branch that is extended after the fact is picked up by the next read.

Children are ordered by creation time; when two children share a timestamp the one with
the higher sequence number wins.

Nodes are not safe for concurrent mutation. Two writers that resolve the same active leaf
and then append will create sibling branches; callers serialise writes.
*/
package history

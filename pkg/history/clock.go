package history

import "sync/atomic"

// Clock is a Lamport-style counter shared by every node of one tree.
type Clock struct{ v atomic.Uint64 }

// Now returns the last issued value.
func (c *Clock) Now() uint64 { return c.v.Load() }

// Tick issues the next value.
func (c *Clock) Tick() uint64 { return c.v.Add(1) }

// Observe advances the clock past a value seen elsewhere (for example, in a stored tree)
// and returns the clock's new value.
func (c *Clock) Observe(remote uint64) uint64 {
	for {
		cur := c.v.Load()
		if remote <= cur {
			return cur
		}
		if c.v.CompareAndSwap(cur, remote) {
			return remote
		}
	}
}

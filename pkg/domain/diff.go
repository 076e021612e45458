package domain

// SnapshotDiff represents the changes between two snapshots of a table.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// TableID is always present to identify the target.
	TableID string `json:"table_id"`

	// Progress is set when the lifecycle phase changed.
	Progress *Progress `json:"progress,omitempty"`

	// PlayersJoined counts hands appended to the seating order.
	PlayersJoined int `json:"players_joined,omitempty"`

	// Players is the new player count, set whenever the seating changed.
	Players *int `json:"players,omitempty"`

	// DealerReplaced is set when the dealer handle differs.
	DealerReplaced bool `json:"dealer_replaced,omitempty"`

	// ShoeReplaced is set when the shoe handle differs.
	ShoeReplaced bool `json:"shoe_replaced,omitempty"`

	// ShoeRemaining is the new number of cards in the shoe, set with ShoeReplaced.
	ShoeRemaining *int `json:"shoe_remaining,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(tableID string, oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{TableID: tableID}

	if oldSnap == nil || oldSnap.Progress != newSnap.Progress {
		p := newSnap.Progress
		diff.Progress = &p
	}

	if oldSnap == nil {
		n := newSnap.PlayerCount()
		diff.Players = &n
		diff.PlayersJoined = n
	} else if !sameHands(oldSnap.Players, newSnap.Players) {
		n := newSnap.PlayerCount()
		diff.Players = &n
		diff.PlayersJoined = appended(oldSnap.Players, newSnap.Players)
	}

	if oldSnap == nil || oldSnap.Dealer != newSnap.Dealer {
		diff.DealerReplaced = oldSnap != nil
	}
	if oldSnap == nil || oldSnap.Shoe != newSnap.Shoe {
		diff.ShoeReplaced = oldSnap != nil
		if newSnap.Shoe != nil {
			r := newSnap.Shoe.Remaining()
			diff.ShoeRemaining = &r
		}
	}

	if oldSnap != nil && diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameHands(a, b []HandHolder) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// appended returns how many hands b adds to a when a is a prefix of b, zero otherwise.
func appended(a, b []HandHolder) int {
	if len(b) <= len(a) || !sameHands(a, b[:len(a)]) {
		return 0
	}
	return len(b) - len(a)
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Progress == nil &&
		d.Players == nil &&
		!d.DealerReplaced &&
		!d.ShoeReplaced &&
		d.ShoeRemaining == nil
}

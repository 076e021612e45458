package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/hand"
)

// DocumentVersion is the version written by Marshal.
const DocumentVersion = 1

var (
	// ErrUnsupportedHandle is returned by Marshal when a snapshot holds a hand or card
	// source that is not a *hand.Hand or *cards.Shoe.
	ErrUnsupportedHandle = errors.New("unsupported handle type")

	// ErrCorruptDocument is returned by Unmarshal when a document is structurally invalid.
	ErrCorruptDocument = errors.New("corrupt history document")
)

type document struct {
	Version int                     `json:"version"`
	Hands   map[string][]cards.Card `json:"hands"`
	Shoes   map[string]shoeRecord   `json:"shoes"`
	Root    *nodeRecord             `json:"root"`
}

type shoeRecord struct {
	Decks int          `json:"decks"`
	Cards []cards.Card `json:"cards"`
}

type nodeRecord struct {
	CreatedAt time.Time      `json:"created_at"`
	Seq       uint64         `json:"seq"`
	Snapshot  snapshotRecord `json:"snapshot"`
	Children  []*nodeRecord  `json:"children,omitempty"`
}

type snapshotRecord struct {
	Progress domain.Progress `json:"progress"`
	Dealer   string          `json:"dealer,omitempty"`
	Players  []string        `json:"players"`
	Shoe     string          `json:"shoe,omitempty"`
}

// encoder assigns one ID per distinct handle so that aliasing survives a round trip.
type encoder struct {
	doc     *document
	handIDs map[*hand.Hand]string
	shoeIDs map[*cards.Shoe]string
}

// Marshal encodes the whole tree below root as JSON.
func Marshal(root *Node) ([]byte, error) {
	enc := &encoder{
		doc: &document{
			Version: DocumentVersion,
			Hands:   map[string][]cards.Card{},
			Shoes:   map[string]shoeRecord{},
		},
		handIDs: map[*hand.Hand]string{},
		shoeIDs: map[*cards.Shoe]string{},
	}
	rec, err := enc.node(root)
	if err != nil {
		return nil, err
	}
	enc.doc.Root = rec
	return json.Marshal(enc.doc)
}

func (e *encoder) node(n *Node) (*nodeRecord, error) {
	snap, err := e.snapshot(n.value)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", n.seq, err)
	}
	rec := &nodeRecord{CreatedAt: n.createdAt, Seq: n.seq, Snapshot: snap}
	for _, c := range n.children {
		cr, err := e.node(c)
		if err != nil {
			return nil, err
		}
		rec.Children = append(rec.Children, cr)
	}
	return rec, nil
}

func (e *encoder) snapshot(s domain.Snapshot) (snapshotRecord, error) {
	rec := snapshotRecord{Progress: s.Progress, Players: make([]string, 0, len(s.Players))}
	var err error
	if rec.Dealer, err = e.hand(s.Dealer); err != nil {
		return rec, fmt.Errorf("dealer: %w", err)
	}
	for i, p := range s.Players {
		id, err := e.hand(p)
		if err != nil {
			return rec, fmt.Errorf("player %d: %w", i, err)
		}
		rec.Players = append(rec.Players, id)
	}
	if rec.Shoe, err = e.shoe(s.Shoe); err != nil {
		return rec, fmt.Errorf("shoe: %w", err)
	}
	return rec, nil
}

func (e *encoder) hand(h domain.HandHolder) (string, error) {
	if h == nil {
		return "", nil
	}
	hh, ok := h.(*hand.Hand)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedHandle, h)
	}
	if id, ok := e.handIDs[hh]; ok {
		return id, nil
	}
	id := "h" + strconv.Itoa(len(e.handIDs)+1)
	e.handIDs[hh] = id
	e.doc.Hands[id] = hh.Cards()
	return id, nil
}

func (e *encoder) shoe(src domain.CardSource) (string, error) {
	if src == nil {
		return "", nil
	}
	s, ok := src.(*cards.Shoe)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedHandle, src)
	}
	if id, ok := e.shoeIDs[s]; ok {
		return id, nil
	}
	id := "s" + strconv.Itoa(len(e.shoeIDs)+1)
	e.shoeIDs[s] = id
	e.doc.Shoes[id] = shoeRecord{Decks: s.Decks(), Cards: s.Cards()}
	return id, nil
}

// decoder restores each handle once and hands out the same pointer for every reference.
type decoder struct {
	doc   *document
	tree  *tree
	hands map[string]*hand.Hand
	shoes map[string]*cards.Shoe
}

// Unmarshal decodes a document produced by Marshal. The returned tree's clock is advanced
// past the highest stored sequence number, so nodes appended later still sort last.
func Unmarshal(data []byte, opts ...Option) (*Node, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptDocument, doc.Version)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrCorruptDocument)
	}

	dec := &decoder{
		doc:   &doc,
		tree:  newTree(opts...),
		hands: map[string]*hand.Hand{},
		shoes: map[string]*cards.Shoe{},
	}
	return dec.node(doc.Root)
}

func (d *decoder) node(rec *nodeRecord) (*Node, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: null node", ErrCorruptDocument)
	}
	snap, err := d.snapshot(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", rec.Seq, err)
	}
	d.tree.clock.Observe(rec.Seq)
	n := &Node{
		value:     snap,
		createdAt: rec.CreatedAt,
		seq:       rec.Seq,
		tree:      d.tree,
	}
	for _, cr := range rec.Children {
		child, err := d.node(cr)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

func (d *decoder) snapshot(rec snapshotRecord) (domain.Snapshot, error) {
	if !rec.Progress.Valid() {
		return domain.Snapshot{}, fmt.Errorf("%w: progress %q", ErrCorruptDocument, rec.Progress)
	}
	s := domain.Snapshot{Progress: rec.Progress, Players: make([]domain.HandHolder, 0, len(rec.Players))}
	if rec.Dealer != "" {
		h, err := d.hand(rec.Dealer)
		if err != nil {
			return s, err
		}
		s.Dealer = h
	}
	for _, id := range rec.Players {
		h, err := d.hand(id)
		if err != nil {
			return s, err
		}
		s.Players = append(s.Players, h)
	}
	if rec.Shoe != "" {
		sh, ok := d.shoes[rec.Shoe]
		if !ok {
			r, found := d.doc.Shoes[rec.Shoe]
			if !found {
				return s, fmt.Errorf("%w: unknown shoe %q", ErrCorruptDocument, rec.Shoe)
			}
			sh = cards.RestoreShoe(r.Decks, r.Cards)
			d.shoes[rec.Shoe] = sh
		}
		s.Shoe = sh
	}
	return s, nil
}

func (d *decoder) hand(id string) (*hand.Hand, error) {
	if h, ok := d.hands[id]; ok {
		return h, nil
	}
	cs, ok := d.doc.Hands[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hand %q", ErrCorruptDocument, id)
	}
	h := hand.Restore(cs)
	d.hands[id] = h
	return h, nil
}

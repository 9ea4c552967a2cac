package multigram

import "github.com/katalvlaran/multigram/token"

// Edge is a directed association from its owning Node to Target, observed
// Distance tokens later.
//
// Strength only ever grows, by one per reinforcement. Softmax is derived by
// Normalize and is the edge's share of its (owner, distance) bucket.
type Edge struct {
	Target   *Node
	Distance int
	Strength int64
	Softmax  float64
}

// Node is the canonical pool entry for a token: its identity, its decaying
// activity and its distance-bucketed outgoing edges.
type Node struct {
	tok      token.Token
	slot     int
	strength int

	// buckets[d-1] holds the edges at distance d, in creation order.
	buckets [][]*Edge
	index   map[edgeKey]*Edge
}

type edgeKey struct {
	target   *Node
	distance int
}

func newNode(tok token.Token, slot, maxStrength int) *Node {
	return &Node{
		tok:     tok,
		slot:    slot,
		buckets: make([][]*Edge, maxStrength),
		index:   make(map[edgeKey]*Edge),
	}
}

// Token returns the canonical token.
func (n *Node) Token() token.Token { return n.tok }

// Slot returns the pool slot the node occupies.
func (n *Node) Slot() int { return n.slot }

// Strength returns the current activity, in [0, MaxStrength].
func (n *Node) Strength() int { return n.strength }

// String renders the canonical token.
func (n *Node) String() string { return n.tok.String() }

// MaxDistance returns the number of distance buckets.
func (n *Node) MaxDistance() int { return len(n.buckets) }

// Edges returns a copy of the edges at distance d (1-based), in creation
// order; nil for an out-of-range distance.
func (n *Node) Edges(d int) []*Edge {
	if d < 1 || d > len(n.buckets) {
		return nil
	}
	out := make([]*Edge, len(n.buckets[d-1]))
	copy(out, n.buckets[d-1])
	return out
}

// EdgeTo returns the edge to target at distance d, or nil.
func (n *Node) EdgeTo(target *Node, d int) *Edge {
	return n.index[edgeKey{target: target, distance: d}]
}

// OutDegree counts outgoing edges across all distances.
func (n *Node) OutDegree() int { return len(n.index) }

// trigger resets activity to the maximum.
func (n *Node) trigger() { n.strength = len(n.buckets) }

// tick decays activity by one, never below zero.
func (n *Node) tick() {
	if n.strength > 0 {
		n.strength--
	}
}

// reinforce strengthens the edge to target at distance d, creating it on
// first sight. It reports whether a new edge was created.
func (n *Node) reinforce(target *Node, d int) (*Edge, bool) {
	key := edgeKey{target: target, distance: d}
	if e, ok := n.index[key]; ok {
		e.Strength++
		return e, false
	}
	e := &Edge{Target: target, Distance: d, Strength: 1}
	n.index[key] = e
	n.buckets[d-1] = append(n.buckets[d-1], e)
	return e, true
}

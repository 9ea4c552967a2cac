package multigram

import (
	"fmt"

	"github.com/katalvlaran/multigram/token"
)

// pool is the fixed-capacity arena of canonical nodes.
//
// Slots are never freed individually, so the occupied slots are always the
// prefix slots[:next] and next is the first free slot.
type pool struct {
	slots       []*Node
	next        int
	maxStrength int
}

func newPool(capacity, maxStrength int) *pool {
	return &pool{slots: make([]*Node, capacity), maxStrength: maxStrength}
}

// resolveOrInsert returns the node recognizing tok, or inserts tok into the
// first free slot. Either way the returned node has been triggered.
//
// Implementation:
//   - Stage 1: Scan every occupied slot; the first whose Similarity(tok)
//     reaches threshold is triggered and returned.
//   - Stage 2: Otherwise insert at the first free slot and trigger.
//   - Stage 3: With no free slot, fail with ErrPoolExhausted.
//
// Complexity: O(n) similarity calls for n occupied slots.
func (p *pool) resolveOrInsert(tok token.Token, threshold float64) (*Node, bool, error) {
	if n := p.lookup(tok, threshold); n != nil {
		n.trigger()
		return n, false, nil
	}
	if p.next >= len(p.slots) {
		return nil, false, fmt.Errorf("resolveOrInsert(%q): %d slots: %w", tok.String(), len(p.slots), ErrPoolExhausted)
	}

	n := newNode(tok, p.next, p.maxStrength)
	p.slots[p.next] = n
	p.next++
	n.trigger()

	return n, true, nil
}

// lookup returns the first node whose similarity to tok reaches threshold.
func (p *pool) lookup(tok token.Token, threshold float64) *Node {
	for _, n := range p.slots[:p.next] {
		if n.tok.Similarity(tok) >= threshold {
			return n
		}
	}
	return nil
}

// find returns the node whose token equals tok.
func (p *pool) find(tok token.Token) *Node {
	for _, n := range p.slots[:p.next] {
		if n.tok.Equal(tok) {
			return n
		}
	}
	return nil
}

// tick decays every occupied node in one pass.
func (p *pool) tick() {
	for _, n := range p.slots[:p.next] {
		n.tick()
	}
}

func (p *pool) nodes() []*Node {
	out := make([]*Node, p.next)
	copy(out, p.slots[:p.next])
	return out
}

func (p *pool) len() int { return p.next }

func (p *pool) cap() int { return len(p.slots) }

package multigram

import (
	"fmt"

	"github.com/katalvlaran/multigram/token"
)

// Snapshot is the lossless model artifact of an Engine: every node's token
// payload and strength, and every edge with its distance and strength.
// Softmax values are derived and recomputed on restore.
type Snapshot struct {
	MaxTokens   int
	MaxStrength int
	Threshold   float64
	Nodes       []NodeState
}

// NodeState is one pool slot. Nodes appear in slot order.
type NodeState struct {
	Token    token.Token
	Strength int
	Edges    []EdgeState
}

// EdgeState is one edge; Target is the slot of the target node.
// Edges of a node appear bucket by bucket in creation order.
type EdgeState struct {
	Target   int
	Distance int
	Strength int64
}

// Snapshot captures the current pool and connection table.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		MaxTokens:   e.opts.MaxTokens,
		MaxStrength: e.opts.MaxStrength,
		Threshold:   e.opts.Threshold,
		Nodes:       make([]NodeState, 0, e.pool.len()),
	}
	for _, n := range e.pool.nodes() {
		ns := NodeState{Token: n.tok, Strength: n.strength, Edges: make([]EdgeState, 0, len(n.index))}
		for _, bucket := range n.buckets {
			for _, edge := range bucket {
				ns.Edges = append(ns.Edges, EdgeState{
					Target:   edge.Target.slot,
					Distance: edge.Distance,
					Strength: edge.Strength,
				})
			}
		}
		s.Nodes = append(s.Nodes, ns)
	}

	return s
}

// Restore replaces the pool with the snapshot contents and normalizes.
// The recency window, state and counters are reset; options are kept.
//
// Errors:
//   - ErrBadSnapshot (wrapped) when the snapshot exceeds the engine's pool
//     capacity or distance range, references an unknown slot, holds a
//     token an earlier node would have absorbed at the engine threshold,
//     or lists the same (target, distance) edge twice.
//
// Complexity: O(n² + E) for n nodes and E edges.
func (e *Engine) Restore(s Snapshot) error {
	if len(s.Nodes) > e.opts.MaxTokens {
		return fmt.Errorf("Restore: %d nodes exceed capacity %d: %w", len(s.Nodes), e.opts.MaxTokens, ErrBadSnapshot)
	}
	for i, ns := range s.Nodes {
		if ns.Token == nil {
			return fmt.Errorf("Restore: node %d has no token: %w", i, ErrBadSnapshot)
		}
		if ns.Strength < 0 || ns.Strength > e.opts.MaxStrength {
			return fmt.Errorf("Restore: node %d strength %d: %w", i, ns.Strength, ErrBadSnapshot)
		}
		for j := 0; j < i; j++ {
			if s.Nodes[j].Token.Similarity(ns.Token) >= e.opts.Threshold {
				return fmt.Errorf("Restore: node %d duplicates node %d: %w", i, j, ErrBadSnapshot)
			}
		}
		seen := make(map[[2]int]struct{}, len(ns.Edges))
		for _, es := range ns.Edges {
			if es.Target < 0 || es.Target >= len(s.Nodes) {
				return fmt.Errorf("Restore: node %d edge target %d: %w", i, es.Target, ErrBadSnapshot)
			}
			if es.Distance < 1 || es.Distance > e.opts.MaxStrength {
				return fmt.Errorf("Restore: node %d edge distance %d: %w", i, es.Distance, ErrBadSnapshot)
			}
			if es.Strength < 1 {
				return fmt.Errorf("Restore: node %d edge strength %d: %w", i, es.Strength, ErrBadSnapshot)
			}
			k := [2]int{es.Target, es.Distance}
			if _, dup := seen[k]; dup {
				return fmt.Errorf("Restore: node %d duplicate edge to %d at distance %d: %w",
					i, es.Target, es.Distance, ErrBadSnapshot)
			}
			seen[k] = struct{}{}
		}
	}

	e.Reset()
	for _, ns := range s.Nodes {
		n := newNode(ns.Token, e.pool.next, e.opts.MaxStrength)
		n.strength = ns.Strength
		e.pool.slots[e.pool.next] = n
		e.pool.next++
	}
	for i, ns := range s.Nodes {
		owner := e.pool.slots[i]
		for _, es := range ns.Edges {
			edge, created := owner.reinforce(e.pool.slots[es.Target], es.Distance)
			edge.Strength = es.Strength
			if created {
				e.edges++
			}
		}
	}
	e.Normalize()

	return nil
}

// FromSnapshot builds a new engine over src and restores s into it. The
// snapshot's pool parameters are applied before opts, so opts may override
// them.
func FromSnapshot(s Snapshot, src Source, opts ...Option) (*Engine, error) {
	base := []Option{WithMaxTokens(s.MaxTokens), WithMaxStrength(s.MaxStrength), WithThreshold(s.Threshold)}
	e, err := New(src, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("FromSnapshot: %w", err)
	}
	if err = e.Restore(s); err != nil {
		return nil, fmt.Errorf("FromSnapshot: %w", err)
	}

	return e, nil
}

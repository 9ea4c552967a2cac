// SPDX-License-Identifier: MIT
// Package: multigram
//
// follow.go — hierarchical layering: replaying learned structure to emit
// phrase-level composite tokens into a higher-order engine.

package multigram

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/token"
)

// followState is the segmenting cursor of a Follow pass.
type followState struct {
	last    *Node
	segment []*Node
}

// RewindSource resets the source and the follow cursor so the input can be
// replayed over already-learned structure. The pool and its edges are kept.
func (e *Engine) RewindSource() error {
	if e.src != nil {
		if err := e.src.Reset(); err != nil {
			return fmt.Errorf("RewindSource: %w", err)
		}
	}
	e.exhausted = false
	e.settleCount = 0
	e.recent.clear()
	e.state = StateIdle
	e.follow = followState{}

	return nil
}

// FollowNext performs one step of the layering pass.
//
// Implementation:
//   - Stage 1: Read the next token. An end-of-line token flushes the
//     segment, forwards token.EOL() to next and settles this engine.
//   - Stage 2: Resolve any other token by equality. Tokens are never
//     learned here; an unknown token ends the current segment.
//   - Stage 3: Otherwise follow the distance-1 edge last→node. An edge with
//     Softmax > cutoff extends the segment; a missing or weaker edge flushes
//     it and starts a new one at node.
//   - Stage 4: On exhaustion flush the last segment and call next.Finish().
//
// Each flushed segment reaches next.Learn as a single token.Composite.
// A nil next discards segments.
//
// Complexity: O(n) for the equality scan plus O(1) for the edge lookup.
func (e *Engine) FollowNext(cutoff float64, next Layer) error {
	if e.src == nil || e.exhausted {
		return nil
	}
	e.NormalizeIfDirty()

	tok, err := e.src.Next(0)
	if err != nil {
		return fmt.Errorf("FollowNext: %w", err)
	}
	if tok == nil {
		if err = e.flush(next); err != nil {
			return err
		}
		e.Finish()
		if next != nil {
			next.Finish()
		}
		return nil
	}

	if tok.EndOfLine() {
		e.Tick()
		e.follow.last = nil
		if err = e.flush(next); err != nil {
			return err
		}
		if next != nil {
			if err = next.Learn(token.EOL()); err != nil {
				return fmt.Errorf("FollowNext: forward end of line: %w", err)
			}
		}
		e.Settle()
		return nil
	}

	node := e.Find(tok)
	if node == nil {
		e.follow.last = nil
		e.Tick()
		return e.flush(next)
	}
	node.trigger()
	e.Tick()

	if e.follow.last != nil {
		if edge := e.follow.last.EdgeTo(node, 1); edge != nil && edge.Softmax > cutoff {
			e.follow.segment = append(e.follow.segment, node)
			e.follow.last = node
			return nil
		}
		if err = e.flush(next); err != nil {
			return err
		}
	}
	e.follow.segment = append(e.follow.segment, node)
	e.follow.last = node

	return nil
}

// Follow runs FollowNext until the source is exhausted.
func (e *Engine) Follow(cutoff float64, next Layer) error {
	for !e.exhausted {
		if err := e.FollowNext(cutoff, next); err != nil {
			return err
		}
	}
	return nil
}

// flush emits the accumulated segment as one composite token.
func (e *Engine) flush(next Layer) error {
	if len(e.follow.segment) == 0 {
		return nil
	}
	parts := make([]token.Token, len(e.follow.segment))
	for i, n := range e.follow.segment {
		parts[i] = n.tok
	}
	e.follow.segment = e.follow.segment[:0]

	seg := token.NewComposite(parts...)
	e.log.Debug("segment emitted", zap.String("segment", seg.String()), zap.Int("len", len(parts)))
	if next == nil {
		return nil
	}
	if err := next.Learn(seg); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

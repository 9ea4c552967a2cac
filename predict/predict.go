// SPDX-License-Identifier: MIT
// Package: predict
//
// predict.go — weighted-vote next-token prediction and greedy generation.

package predict

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/multigram"
)

// MostLikelyNext returns the most likely successor of history (most recent
// last), or nil when no candidate reaches threshold.
//
// Implementation:
//   - Stage 1: span = min(len(history), MaxStrength).
//   - Stage 2: For d = 1..span take node = history[len-d] and its bucket d.
//     At d = 1 every edge target becomes a candidate with weight
//     strength × len(history); at d > 1 only existing candidates gain
//     strength × (len(history) − d + 1).
//   - Stage 3: Scan candidates in seeding order, keeping the first strictly
//     heavier one whose weight reaches threshold.
//
// Complexity: O(Σ bucket sizes) over the span.
func MostLikelyNext(e *multigram.Engine, history []*multigram.Node, threshold float64) *multigram.Node {
	if e == nil || len(history) == 0 {
		return nil
	}

	span := len(history)
	if span > e.MaxStrength() {
		span = e.MaxStrength()
	}

	var (
		order  []*multigram.Node
		weight = make(map[*multigram.Node]float64)
	)
	for d := 1; d <= span; d++ {
		n := history[len(history)-d]
		if n == nil {
			continue
		}
		multiplier := float64(len(history) - d + 1)
		for _, edge := range n.Edges(d) {
			w, seen := weight[edge.Target]
			switch {
			case d == 1 && !seen:
				order = append(order, edge.Target)
				weight[edge.Target] = float64(edge.Strength) * multiplier
			case d > 1 && seen:
				weight[edge.Target] = w + float64(edge.Strength)*multiplier
			}
		}
	}

	var (
		best    *multigram.Node
		bestSum float64
	)
	for _, cand := range order {
		if w := weight[cand]; w > bestSum && w >= threshold {
			best, bestSum = cand, w
		}
	}

	return best
}

// GenerateLikely extends start by repeated MostLikelyNext calls until no
// candidate qualifies or MaxLength nodes were produced. The result begins
// with start.
//
// Errors:
//   - ErrNilEngine, ErrEmptySeed (nil start), ErrOptionViolation.
func GenerateLikely(e *multigram.Engine, start *multigram.Node, opts ...Option) ([]*multigram.Node, error) {
	if e == nil {
		return nil, ErrNilEngine
	}
	if start == nil {
		return nil, fmt.Errorf("GenerateLikely: %w", ErrEmptySeed)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	out := extend(e, []*multigram.Node{start}, o.Threshold, o.MaxLength)
	logger(e, o).Debug("generated likely sequence",
		zap.String("start", start.String()), zap.Int("len", len(out)))

	return out, nil
}

// extend appends MostLikelyNext results to seq until none or maxLen.
func extend(e *multigram.Engine, seq []*multigram.Node, threshold float64, maxLen int) []*multigram.Node {
	for len(seq) < maxLen {
		next := MostLikelyNext(e, seq, threshold)
		if next == nil {
			break
		}
		seq = append(seq, next)
	}
	return seq
}

func logger(e *multigram.Engine, o Options) *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return e.Logger()
}

package predict

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/token"
)

// GenerateBestFit walks the learned graph guided by seed strings, then
// extends the walk with MostLikelyNext at threshold 0.
//
// Implementation:
//   - Stage 1: Build the first seed with the engine's Factory and resolve it
//     at token.MaxSimilarity. An unknown seed fails.
//   - Stage 2: For every later seed, the candidates are the distance-1 edge
//     targets of the current node. A seed carrying a vector picks the most
//     similar candidate (first maximum; no advance when the best similarity
//     is not positive). Any other seed picks the first candidate whose
//     rendered length equals the seed's. No match leaves the walk in place.
//   - Stage 3: Extend until no candidate or MaxLength.
//
// Errors:
//   - ErrNilEngine, ErrEmptySeed, ErrOptionViolation.
//   - ErrUnknownSeed (wrapped) when the first seed is not in the pool.
//   - Factory failures, wrapped.
func GenerateBestFit(ctx context.Context, e *multigram.Engine, seeds []string, opts ...Option) ([]*multigram.Node, error) {
	if e == nil {
		return nil, ErrNilEngine
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("GenerateBestFit: %w", ErrEmptySeed)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	log := logger(e, o)

	root, err := e.Factory().New(ctx, seeds[0])
	if err != nil {
		return nil, fmt.Errorf("GenerateBestFit(%q): %w", seeds[0], err)
	}
	current := e.Lookup(root, token.MaxSimilarity)
	if current == nil {
		return nil, fmt.Errorf("GenerateBestFit(%q): %w", seeds[0], ErrUnknownSeed)
	}
	out := []*multigram.Node{current}

	for _, seed := range seeds[1:] {
		if len(out) >= o.MaxLength {
			return out, nil
		}
		tok, err := e.Factory().New(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("GenerateBestFit(%q): %w", seed, err)
		}

		next := bestCandidate(current, tok, seed)
		if next == nil {
			log.Debug("seed not followed", zap.String("seed", seed), zap.String("at", current.String()))
			continue
		}
		current = next
		out = append(out, current)
	}

	out = extend(e, out, 0, o.MaxLength)
	log.Debug("generated best-fit sequence", zap.Strings("seeds", seeds), zap.Int("len", len(out)))

	return out, nil
}

// bestCandidate chooses among the distance-1 targets of current.
func bestCandidate(current *multigram.Node, tok token.Token, raw string) *multigram.Node {
	edges := current.Edges(1)

	if _, ok := tok.(token.Vectored); ok {
		var (
			best    *multigram.Node
			bestSim float64
		)
		for _, edge := range edges {
			if sim := tok.Similarity(edge.Target.Token()); sim > bestSim {
				best, bestSim = edge.Target, sim
			}
		}
		return best
	}

	want := utf8.RuneCountInString(raw)
	for _, edge := range edges {
		if utf8.RuneCountInString(edge.Target.String()) == want {
			return edge.Target
		}
	}

	return nil
}

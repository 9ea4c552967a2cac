// SPDX-License-Identifier: MIT
// Package: multigram/embedding
//
// registry.go — fixed-capacity vector index with register-on-miss.

package embedding

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/multigram/token"
)

// Sentinel errors for the registry and factory.
var (
	// ErrRegistryExhausted indicates an unseen vector arrived with no free slot left.
	ErrRegistryExhausted = errors.New("embedding: registry exhausted")

	// ErrDimensionMismatch indicates a vector whose length differs from the registry's.
	ErrDimensionMismatch = errors.New("embedding: vector dimension mismatch")

	// ErrEmptyVector indicates the embedder returned no components.
	ErrEmptyVector = errors.New("embedding: empty vector")

	// ErrBadCapacity indicates a non-positive registry capacity.
	ErrBadCapacity = errors.New("embedding: capacity must be positive")

	// ErrBadThreshold indicates a threshold outside (0, 1].
	ErrBadThreshold = errors.New("embedding: threshold out of range")
)

// Registry is a fixed-capacity index of unit vectors.
//
// Lookup compares a vector against every registered one. When the best
// similarity stays below the threshold and a slot remains, the vector is
// registered and its new index returned. Nothing is ever evicted.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	capacity  int
	threshold float64
	dim       int
	vectors   [][]float32
}

// NewRegistry returns an empty registry holding at most capacity vectors.
// threshold is the similarity at which a lookup counts as "already seen".
func NewRegistry(capacity int, threshold float64) (*Registry, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("NewRegistry(%d): %w", capacity, ErrBadCapacity)
	}
	if threshold <= 0 || threshold > token.MaxSimilarity {
		return nil, fmt.Errorf("NewRegistry(threshold=%v): %w", threshold, ErrBadThreshold)
	}
	return &Registry{
		capacity:  capacity,
		threshold: threshold,
		vectors:   make([][]float32, 0, capacity),
	}, nil
}

// Lookup returns the best similarity and its index. If the best similarity is
// below the threshold, vec is registered and the returned index is the new
// slot (the similarity still reports the best pre-existing match).
//
// Errors: ErrEmptyVector, ErrDimensionMismatch, ErrRegistryExhausted.
//
// Complexity: O(n·d) for n registered vectors of dimension d.
func (r *Registry) Lookup(vec []float32) (float64, int, error) {
	if len(vec) == 0 {
		return 0, -1, ErrEmptyVector
	}
	if r.dim != 0 && len(vec) != r.dim {
		return 0, -1, fmt.Errorf("Lookup: got %d, want %d: %w", len(vec), r.dim, ErrDimensionMismatch)
	}

	unit := token.NewEmbedded("", vec, 0).Vector()
	best, bestIdx := 0.0, -1
	for i, v := range r.vectors {
		if s := token.Dot(unit, v); bestIdx < 0 || s > best {
			best, bestIdx = s, i
		}
	}
	if bestIdx >= 0 && best >= r.threshold {
		return best, bestIdx, nil
	}

	if len(r.vectors) >= r.capacity {
		return best, bestIdx, fmt.Errorf("Lookup: %d of %d slots used: %w", len(r.vectors), r.capacity, ErrRegistryExhausted)
	}
	r.dim = len(vec)
	r.vectors = append(r.vectors, unit)
	return best, len(r.vectors) - 1, nil
}

// Threshold returns the "already seen" similarity.
func (r *Registry) Threshold() float64 { return r.threshold }

// Len returns the number of registered vectors.
func (r *Registry) Len() int { return len(r.vectors) }

// Cap returns the fixed capacity.
func (r *Registry) Cap() int { return r.capacity }

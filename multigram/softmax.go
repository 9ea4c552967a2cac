package multigram

import "math"

// Normalize recomputes Edge.Softmax for every node and every distance bucket
// independently:
//
//	softmax_i = exp(s_i) / Σ_j exp(s_j)
//
// evaluated as exp(s_i - max) / Σ exp(s_j - max), which is the same value
// without overflow for large strengths. Empty buckets stay empty; a zero sum
// assigns 0. The pass is idempotent.
//
// Complexity: O(E) over all edges.
func (e *Engine) Normalize() {
	for _, n := range e.pool.slots[:e.pool.next] {
		for _, bucket := range n.buckets {
			softmax(bucket)
		}
	}
	e.dirty = false
}

// NormalizeIfDirty runs Normalize only when edges were reinforced since the
// last pass.
func (e *Engine) NormalizeIfDirty() {
	if e.dirty {
		e.Normalize()
	}
}

func softmax(bucket []*Edge) {
	if len(bucket) == 0 {
		return
	}
	top := bucket[0].Strength
	for _, edge := range bucket[1:] {
		if edge.Strength > top {
			top = edge.Strength
		}
	}

	sum := 0.0
	for _, edge := range bucket {
		sum += math.Exp(float64(edge.Strength - top))
	}
	for _, edge := range bucket {
		if sum == 0 {
			edge.Softmax = 0
			continue
		}
		edge.Softmax = math.Exp(float64(edge.Strength-top)) / sum
	}
}

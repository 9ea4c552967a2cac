package token

import "math"

// unitEpsilon absorbs float32 rounding in the dot product of unit vectors.
const unitEpsilon = 1e-5

// Embedded is a string token backed by an embedding vector. The vector is
// stored unit-normalized, so Similarity is a cosine clamped to [0,1].
type Embedded struct {
	raw   string
	vec   []float32
	eol   bool
	match float64
}

// NewEmbedded returns an embedded token for raw with a normalized copy of vec.
// match is the similarity at which two embedded tokens are equal; values
// outside (0, MaxSimilarity] fall back to DefaultEmbeddingMatch.
func NewEmbedded(raw string, vec []float32, match float64) Embedded {
	if match <= 0 || match > MaxSimilarity {
		match = DefaultEmbeddingMatch
	}
	return Embedded{raw: raw, vec: normalize(vec), match: match}
}

// AsEndOfLine returns a copy of e flagged as an end-of-line marker.
func (e Embedded) AsEndOfLine() Embedded {
	e.eol = true
	return e
}

// Raw returns the unrendered value.
func (e Embedded) Raw() string { return e.raw }

// Match returns the equality level.
func (e Embedded) Match() float64 { return e.match }

// Vector returns a copy of the unit vector.
func (e Embedded) Vector() []float32 {
	cp := make([]float32, len(e.vec))
	copy(cp, e.vec)
	return cp
}

// Kind reports KindEmbedded.
func (Embedded) Kind() Kind { return KindEmbedded }

// Similarity is the dot product of the two unit vectors, clamped to
// [0, MaxSimilarity]. Dimension mismatch scores 0. End-of-line markers are
// identical to each other and unrelated to everything else.
func (e Embedded) Similarity(other Token) float64 {
	o, ok := other.(Embedded)
	switch {
	case !ok || e.eol != o.eol:
		return 0
	case e.eol:
		return MaxSimilarity
	case len(e.vec) == 0 || len(e.vec) != len(o.vec):
		return 0
	}
	sim := Dot(e.vec, o.vec)
	if sim >= MaxSimilarity-unitEpsilon {
		// Rounding of the unit vectors must not hide identity.
		return MaxSimilarity
	}
	return clamp(sim)
}

// Equal reports whether Similarity(other) reaches e's match level.
func (e Embedded) Equal(other Token) bool {
	if _, ok := other.(Embedded); !ok {
		return false
	}
	return e.Similarity(other) >= e.match
}

// String returns the raw value, or EndOfLineLiteral for a marker.
func (e Embedded) String() string {
	if e.eol {
		return EndOfLineLiteral
	}
	return e.raw
}

// EndOfLine reports whether e is an end-of-line marker.
func (e Embedded) EndOfLine() bool { return e.eol }

func (Embedded) sealed() {}

// Dot returns the dot product of a and b over their common length.
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize returns a unit-length copy of v; a zero vector stays zero.
func normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	norm := math.Sqrt(Dot(v, v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

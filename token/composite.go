package token

import "strings"

// Composite is an ordered run of tokens treated as one unit, typically a
// phrase emitted by a lower multigram layer.
type Composite struct {
	parts []Token
}

// NewComposite copies parts into a new composite.
func NewComposite(parts ...Token) Composite {
	cp := make([]Token, len(parts))
	copy(cp, parts)
	return Composite{parts: cp}
}

// Parts returns a copy of the component tokens.
func (c Composite) Parts() []Token {
	cp := make([]Token, len(c.parts))
	copy(cp, c.parts)
	return cp
}

// Len returns the number of component tokens.
func (c Composite) Len() int { return len(c.parts) }

// Kind reports KindComposite.
func (Composite) Kind() Kind { return KindComposite }

// Similarity counts the longest common prefix of equal parts, subtracts the
// length difference and scales by the receiver's length.
//
//	score = lcp(c, o) - |len(c) - len(o)|
//	sim   = clamp(score / len(c))
//
// Two empty composites are identical.
func (c Composite) Similarity(other Token) float64 {
	o, ok := other.(Composite)
	if !ok {
		return 0
	}
	if len(c.parts) == 0 {
		if len(o.parts) == 0 {
			return MaxSimilarity
		}
		return 0
	}

	n := min(len(c.parts), len(o.parts))
	lcp := 0
	for lcp < n && c.parts[lcp] != nil && c.parts[lcp].Equal(o.parts[lcp]) {
		lcp++
	}
	diff := len(c.parts) - len(o.parts)
	if diff < 0 {
		diff = -diff
	}
	score := lcp - diff
	if score <= 0 {
		return 0
	}
	return clamp(MaxSimilarity * float64(score) / float64(len(c.parts)))
}

// Equal reports whether other has the same length and element-wise equal parts.
func (c Composite) Equal(other Token) bool {
	o, ok := other.(Composite)
	if !ok || len(c.parts) != len(o.parts) {
		return false
	}
	for i := range c.parts {
		if c.parts[i] == nil || !c.parts[i].Equal(o.parts[i]) {
			return false
		}
	}
	return true
}

// String joins the rendered parts with single spaces.
func (c Composite) String() string {
	ss := make([]string, 0, len(c.parts))
	for _, p := range c.parts {
		if p != nil {
			ss = append(ss, p.String())
		}
	}
	return strings.Join(ss, " ")
}

// EndOfLine is always false; a layer emits its own end-of-line marker.
func (Composite) EndOfLine() bool { return false }

func (Composite) sealed() {}

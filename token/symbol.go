package token

// Symbol is a plain string token. Two symbols are identical when their raw
// values and end-of-line flags match.
type Symbol struct {
	raw string
	eol bool
}

// NewSymbol returns a symbol for raw.
func NewSymbol(raw string) Symbol { return Symbol{raw: raw} }

// EOL returns the end-of-line marker symbol.
func EOL() Symbol { return Symbol{eol: true} }

// StartOfSequence returns the symbol sources emit for FlagStartOfSequence.
func StartOfSequence() Symbol { return Symbol{raw: StartOfSequenceLiteral} }

// Raw returns the unrendered value ("" for the end-of-line marker).
func (s Symbol) Raw() string { return s.raw }

// Kind reports KindSymbol.
func (Symbol) Kind() Kind { return KindSymbol }

// Similarity is binary: MaxSimilarity for an equal symbol, 0 otherwise.
func (s Symbol) Similarity(other Token) float64 {
	if s.Equal(other) {
		return MaxSimilarity
	}
	return 0
}

// Equal reports whether other is a Symbol with the same value.
func (s Symbol) Equal(other Token) bool {
	o, ok := other.(Symbol)
	if !ok {
		return false
	}
	return s.eol == o.eol && s.raw == o.raw
}

// String returns the raw value, or EndOfLineLiteral for the marker.
func (s Symbol) String() string {
	if s.eol {
		return EndOfLineLiteral
	}
	return s.raw
}

// EndOfLine reports whether s is the end-of-line marker.
func (s Symbol) EndOfLine() bool { return s.eol }

func (Symbol) sealed() {}

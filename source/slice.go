package source

import (
	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/token"
)

// Slice replays a list of tokens.
//
// Slice also implements multigram.Layer: Learn appends, so a Follow pass can
// be recorded and replayed as the input of the next layer.
type Slice struct {
	toks     []token.Token
	pos      int
	lines    int
	finished bool
}

var (
	_ multigram.Source = (*Slice)(nil)
	_ multigram.Layer  = (*Slice)(nil)
)

// NewSlice returns a source over toks. The slice is copied.
func NewSlice(toks ...token.Token) *Slice {
	cp := make([]token.Token, len(toks))
	copy(cp, toks)
	return &Slice{toks: cp}
}

// Words builds a Slice of symbols; the literal "<eol>" becomes token.EOL().
func Words(words ...string) *Slice {
	toks := make([]token.Token, 0, len(words))
	for _, w := range words {
		if w == token.EndOfLineLiteral {
			toks = append(toks, token.EOL())
			continue
		}
		toks = append(toks, token.NewSymbol(w))
	}
	return &Slice{toks: toks}
}

// Available reports whether tokens remain.
func (s *Slice) Available() bool { return s.pos < len(s.toks) }

// Next returns the next token, or (nil, nil) once exhausted.
func (s *Slice) Next(flags multigram.Flags) (token.Token, error) {
	if flags&multigram.FlagStartOfSequence != 0 {
		return token.StartOfSequence(), nil
	}
	if s.pos >= len(s.toks) {
		return nil, nil
	}
	tok := s.toks[s.pos]
	s.pos++
	if tok.EndOfLine() {
		s.lines++
	}
	return tok, nil
}

// LineCount returns the end-of-line tokens read so far.
func (s *Slice) LineCount() int { return s.lines }

// Reset rewinds to the first token.
func (s *Slice) Reset() error {
	s.pos, s.lines = 0, 0
	return nil
}

// Len returns the total number of tokens.
func (s *Slice) Len() int { return len(s.toks) }

// Learn appends tok; nil is rejected with multigram.ErrNilToken.
func (s *Slice) Learn(tok token.Token) error {
	if tok == nil {
		return multigram.ErrNilToken
	}
	s.toks = append(s.toks, tok)
	return nil
}

// Finish records that the producer is done.
func (s *Slice) Finish() { s.finished = true }

// Finished reports whether Finish was called.
func (s *Slice) Finished() bool { return s.finished }

// Tokens returns a copy of the recorded tokens.
func (s *Slice) Tokens() []token.Token {
	out := make([]token.Token, len(s.toks))
	copy(out, s.toks)
	return out
}

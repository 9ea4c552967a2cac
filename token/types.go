// SPDX-License-Identifier: MIT
// Package: multigram/token
//
// types.go — the Token contract, kind tags, factories and sentinel errors.

package token

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for token construction and decoding.
var (
	// ErrUnknownKind indicates a kind tag that is not one of the four variants.
	ErrUnknownKind = errors.New("token: unknown kind")

	// ErrBadPayload indicates an encoded payload that cannot be decoded.
	ErrBadPayload = errors.New("token: malformed payload")

	// ErrEmptyRaw indicates a factory was asked to build a token from "".
	ErrEmptyRaw = errors.New("token: empty raw value")
)

const (
	// MaxSimilarity is the top of the similarity scale: identical tokens.
	MaxSimilarity = 1.0

	// EndOfLineLiteral is how an end-of-line marker renders.
	EndOfLineLiteral = "<eol>"

	// StartOfSequenceLiteral is the raw value of the start-of-sequence symbol.
	StartOfSequenceLiteral = "<sos>"

	// DefaultEmbeddingMatch is the similarity at which two embedded tokens are equal.
	DefaultEmbeddingMatch = 0.99
)

// Kind tags a token variant.
type Kind uint8

const (
	// KindSymbol is a plain string symbol.
	KindSymbol Kind = iota + 1
	// KindTimestamp is a point in time, learned as a single class.
	KindTimestamp
	// KindComposite is an ordered run of tokens from a lower layer.
	KindComposite
	// KindEmbedded is a string backed by an embedding vector.
	KindEmbedded
)

var kindNames = map[Kind]string{
	KindSymbol:    "symbol",
	KindTimestamp: "timestamp",
	KindComposite: "composite",
	KindEmbedded:  "embedded",
}

// String renders the kind tag used by the payload codec.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Token is the identity contract every variant satisfies.
//
// Similarity is bounded to [0, MaxSimilarity]. Equal must agree with
// Similarity reaching the variant's identity level. Both degrade to
// "unrelated" for foreign kinds and nil.
type Token interface {
	// Kind reports the variant tag.
	Kind() Kind

	// Similarity scores other against the receiver.
	Similarity(other Token) float64

	// Equal reports content identity.
	Equal(other Token) bool

	// String renders the token; end-of-line markers render EndOfLineLiteral.
	String() string

	// EndOfLine reports whether the token closes a line or sentence.
	EndOfLine() bool

	sealed()
}

// Vectored is implemented by tokens that support continuous similarity
// against an embedding vector.
type Vectored interface {
	Token
	Vector() []float32
}

// Factory builds tokens from raw strings, e.g. generation seeds.
type Factory interface {
	New(ctx context.Context, raw string) (Token, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, raw string) (Token, error)

// New calls f(ctx, raw).
func (f FactoryFunc) New(ctx context.Context, raw string) (Token, error) { return f(ctx, raw) }

// SymbolFactory builds Symbol tokens. EndOfLineLiteral maps back to EOL().
type SymbolFactory struct{}

// New returns a Symbol for raw.
func (SymbolFactory) New(_ context.Context, raw string) (Token, error) {
	switch raw {
	case "":
		return nil, ErrEmptyRaw
	case EndOfLineLiteral:
		return EOL(), nil
	}
	return NewSymbol(raw), nil
}

// clamp bounds a score to the similarity scale.
func clamp(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > MaxSimilarity:
		return MaxSimilarity
	}
	return v
}

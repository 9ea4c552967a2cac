// Package token defines the identity contract shared by everything a
// multigram can learn: plain symbols, timestamps, composite (phrase) tokens
// and embedding-backed symbols.
//
// What is a token?
//
//	A token is a value, not a node. It knows how similar it is to another
//	token, whether it is equal to one, and how to render itself. Activity,
//	decay and connections live one level up, in multigram.Node.
//
// Variants (closed set):
//
//	Symbol     – exact string identity; binary similarity (0 or 1).
//	Timestamp  – a single "a timestamp occurred" class; every timestamp is equal.
//	Composite  – ordered run of tokens; longest-common-prefix similarity.
//	Embedded   – string plus unit vector; clamped dot-product similarity.
//
// The Token interface is sealed: only this package declares variants, so a
// type switch over Symbol, Timestamp, Composite and Embedded is exhaustive.
// Callers outside the package use only the interface methods, and never
// branch on the concrete kind. Mismatched kinds are ordinary traffic:
// Similarity returns 0 and Equal returns false, never a panic.
//
// Similarity scale:
//
//	0 ............................................. MaxSimilarity (1.0)
//	unrelated                                       identical
//
// Equal(other) is true exactly when Similarity(other) reaches the variant's
// identity level (MaxSimilarity for all kinds except Embedded, whose match
// level defaults to DefaultEmbeddingMatch).
//
// Persistence:
//
//	Encode/Decode produce a lossless, kind-tagged JSON payload; composites
//	encode their parts recursively.
package token

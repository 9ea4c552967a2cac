package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/token"
)

// Embedder produces a vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls f(ctx, text).
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) { return f(ctx, text) }

// Factory builds canonical token.Embedded values. A string whose vector the
// registry has already seen resolves to the token first registered at that
// index, so near-duplicate strings share one identity.
type Factory struct {
	embedder Embedder
	registry *Registry
	known    map[int]token.Embedded
	log      *zap.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFactory wires an embedder to the registry it exclusively owns.
func NewFactory(e Embedder, r *Registry, opts ...FactoryOption) *Factory {
	f := &Factory{
		embedder: e,
		registry: r,
		known:    make(map[int]token.Embedded),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New embeds raw and returns its canonical token. token.EndOfLineLiteral
// yields an end-of-line marker without calling the embedder.
//
// Errors: token.ErrEmptyRaw, embedder failures, and the registry sentinels
// (ErrRegistryExhausted is never swallowed).
func (f *Factory) New(ctx context.Context, raw string) (token.Token, error) {
	switch raw {
	case "":
		return nil, token.ErrEmptyRaw
	case token.EndOfLineLiteral:
		return f.EndOfLine(), nil
	}

	vec, err := f.embedder.Embed(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", raw, err)
	}
	sim, idx, err := f.registry.Lookup(vec)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", raw, err)
	}

	if canon, ok := f.known[idx]; ok && sim >= f.registry.Threshold() {
		return canon, nil
	}
	tok := token.NewEmbedded(raw, vec, f.registry.Threshold())
	f.known[idx] = tok
	f.log.Debug("registered embedding",
		zap.Int("index", idx),
		zap.String("raw", raw),
		zap.Float64("nearest", sim))

	return tok, nil
}

// EndOfLine returns the embedded end-of-line marker.
func (f *Factory) EndOfLine() token.Embedded {
	return token.NewEmbedded("", nil, f.registry.Threshold()).AsEndOfLine()
}

// Registry exposes the owned registry for inspection.
func (f *Factory) Registry() *Registry { return f.registry }

// SPDX-License-Identifier: MIT
// Package: multigram
//
// types.go — options, states, collaborator interfaces and sentinel errors.

package multigram

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/token"
)

// Sentinel errors for engine operations.
var (
	// ErrPoolExhausted indicates no free slot remained and no node recognized the token.
	ErrPoolExhausted = errors.New("multigram: token pool exhausted")

	// ErrNilToken indicates a nil token was presented for learning.
	ErrNilToken = errors.New("multigram: token is nil")

	// ErrOptionViolation indicates an invalid Option was supplied to New.
	ErrOptionViolation = errors.New("multigram: invalid option supplied")

	// ErrBadSnapshot indicates a snapshot that cannot be restored.
	ErrBadSnapshot = errors.New("multigram: inconsistent snapshot")
)

// Default capacity and strength cap of an engine.
const (
	DefaultMaxTokens   = 2048
	DefaultMaxStrength = 20
)

// State is the learning state of an Engine.
type State uint8

const (
	// StateIdle is the state before the first token and after exhaustion.
	StateIdle State = iota
	// StateLearning means tokens are being read and connected.
	StateLearning
	// StateSettling means a boundary was seen and ticks are being absorbed.
	StateSettling
)

// String renders the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLearning:
		return "learning"
	case StateSettling:
		return "settling"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// PoolPolicy decides what happens to a token that finds the pool full.
type PoolPolicy uint8

const (
	// PolicySkip drops the token, counts it in Stats().Dropped and keeps learning.
	// The dropped token still occupies its clock tick.
	PolicySkip PoolPolicy = iota
	// PolicyAbort returns the wrapped ErrPoolExhausted from the learning step.
	PolicyAbort
)

// String renders the policy name used in configuration files.
func (p PoolPolicy) String() string {
	if p == PolicyAbort {
		return "abort"
	}
	return "skip"
}

// ParsePoolPolicy accepts "skip" or "abort".
func ParsePoolPolicy(s string) (PoolPolicy, error) {
	switch s {
	case "skip", "":
		return PolicySkip, nil
	case "abort":
		return PolicyAbort, nil
	}
	return PolicySkip, fmt.Errorf("%w: pool policy %q", ErrOptionViolation, s)
}

// Flags modify a single Source.Next call.
type Flags uint8

const (
	// FlagStartOfSequence asks the source for a start-of-sequence symbol.
	FlagStartOfSequence Flags = 1 << iota
)

// Source is the pull interface the engine reads tokens from.
//
// Next returns (nil, nil) once the source is exhausted; an error is a
// failure of the underlying medium, not exhaustion.
type Source interface {
	Available() bool
	Next(flags Flags) (token.Token, error)
	LineCount() int
	Reset() error
}

// Layer receives the composite tokens emitted by Follow. *Engine implements it.
type Layer interface {
	Learn(tok token.Token) error
	Finish()
}

// Options holds the construction-time parameters of an Engine.
type Options struct {
	// MaxTokens is the fixed pool capacity.
	MaxTokens int

	// MaxStrength is the trigger strength, the number of distance buckets,
	// the recency window length and the settle period.
	MaxStrength int

	// Threshold is the similarity at which the pool recognizes a token.
	Threshold float64

	// Policy decides what happens when the pool is full.
	Policy PoolPolicy

	// Factory builds tokens from raw strings (generation seeds).
	Factory token.Factory

	// Logger receives structured engine events.
	Logger *zap.Logger

	// internal error recorded during option parsing
	err error
}

// Option configures an Engine via functional arguments. Invalid values are
// recorded and surfaced by New as ErrOptionViolation.
type Option func(*Options)

// DefaultOptions returns:
//   - MaxTokens 2048, MaxStrength 20
//   - Threshold token.MaxSimilarity (exact identity)
//   - PolicySkip
//   - token.SymbolFactory
//   - zap.NewNop() logger
func DefaultOptions() Options {
	return Options{
		MaxTokens:   DefaultMaxTokens,
		MaxStrength: DefaultMaxStrength,
		Threshold:   token.MaxSimilarity,
		Policy:      PolicySkip,
		Factory:     token.SymbolFactory{},
		Logger:      zap.NewNop(),
	}
}

// WithMaxTokens sets the pool capacity (n > 0).
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxTokens must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxTokens = n
	}
}

// WithMaxStrength sets the trigger strength and window length (n > 0).
func WithMaxStrength(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxStrength must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxStrength = n
	}
}

// WithThreshold sets the recognition similarity, 0 < t ≤ token.MaxSimilarity.
func WithThreshold(t float64) Option {
	return func(o *Options) {
		if t <= 0 || t > token.MaxSimilarity {
			o.err = fmt.Errorf("%w: Threshold must lie in (0, %v] (%v)", ErrOptionViolation, token.MaxSimilarity, t)
			return
		}
		o.Threshold = t
	}
}

// WithPoolPolicy sets the pool-exhaustion policy.
func WithPoolPolicy(p PoolPolicy) Option {
	return func(o *Options) {
		if p != PolicySkip && p != PolicyAbort {
			o.err = fmt.Errorf("%w: unknown pool policy %d", ErrOptionViolation, p)
			return
		}
		o.Policy = p
	}
}

// WithFactory sets the token factory; nil is ignored.
func WithFactory(f token.Factory) Option {
	return func(o *Options) {
		if f != nil {
			o.Factory = f
		}
	}
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Stats is a read-only snapshot of engine counters.
type Stats struct {
	Tokens     int    // occupied pool slots
	Capacity   int    // pool capacity
	Edges      int    // distinct (owner, target, distance) edges
	Learned    int    // tokens accepted into the pool
	Dropped    int    // tokens dropped under PolicySkip
	Lines      int    // end-of-line tokens learned
	InputLines int    // Source.LineCount(), 0 without a source
	Ticks      uint64 // clock ticks since construction or Reset
	State      State
	Exhausted  bool
}

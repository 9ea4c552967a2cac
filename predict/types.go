package predict

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Sentinel errors for generation.
var (
	// ErrNilEngine indicates a nil engine was passed.
	ErrNilEngine = errors.New("predict: engine is nil")

	// ErrEmptySeed indicates no start node or no seed strings were given.
	ErrEmptySeed = errors.New("predict: empty seed")

	// ErrUnknownSeed indicates the first seed is not in the pool.
	ErrUnknownSeed = errors.New("predict: seed not found in pool")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("predict: invalid option supplied")
)

// DefaultMaxLength caps generated sequences.
const DefaultMaxLength = 64

// DefaultThreshold is the minimum winning weight for GenerateLikely.
const DefaultThreshold = 1.0

// Options configures generation.
type Options struct {
	// MaxLength is the maximum number of nodes returned, seeds included.
	MaxLength int

	// Threshold is the minimum weight of a winning candidate in
	// GenerateLikely. GenerateBestFit always extends with threshold 0.
	Threshold float64

	// Logger receives Debug traces; nil means the engine's logger.
	Logger *zap.Logger

	err error
}

// Option configures generation via functional arguments.
type Option func(*Options)

// DefaultOptions returns MaxLength 64 and Threshold 1.
func DefaultOptions() Options {
	return Options{MaxLength: DefaultMaxLength, Threshold: DefaultThreshold}
}

// WithMaxLength caps the generated sequence (n > 0).
func WithMaxLength(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxLength must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxLength = n
	}
}

// WithThreshold sets the GenerateLikely threshold (t >= 0).
func WithThreshold(t float64) Option {
	return func(o *Options) {
		if t < 0 {
			o.err = fmt.Errorf("%w: Threshold must be non-negative (%v)", ErrOptionViolation, t)
			return
		}
		o.Threshold = t
	}
}

// WithLogger sets the trace logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.err
}

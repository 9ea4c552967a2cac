package token

import (
	"fmt"
	"time"
)

// Timestamp marks that "a timestamp occurred" at a position in the stream.
//
// Every Timestamp is equal to every other: log lines start with distinct
// instants, and learning them as distinct tokens would fill the pool with
// one-off entries. The payload keeps the instant first seen so it can be
// rendered and persisted.
type Timestamp struct {
	at time.Time
}

// NewTimestamp wraps at.
func NewTimestamp(at time.Time) Timestamp { return Timestamp{at: at} }

// ParseTimestamp parses an RFC 3339 value (fractional seconds optional).
func ParseTimestamp(s string) (Timestamp, error) {
	at, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("token: parse timestamp %q: %w", s, err)
	}
	return Timestamp{at: at}, nil
}

// Time returns the wrapped instant.
func (t Timestamp) Time() time.Time { return t.at }

// Kind reports KindTimestamp.
func (Timestamp) Kind() Kind { return KindTimestamp }

// Similarity is MaxSimilarity against any Timestamp, 0 otherwise.
func (t Timestamp) Similarity(other Token) float64 {
	if t.Equal(other) {
		return MaxSimilarity
	}
	return 0
}

// Equal reports whether other is a Timestamp.
func (Timestamp) Equal(other Token) bool {
	_, ok := other.(Timestamp)
	return ok
}

// String renders the instant in RFC 3339 with nanoseconds.
func (t Timestamp) String() string { return t.at.Format(time.RFC3339Nano) }

// EndOfLine is always false.
func (Timestamp) EndOfLine() bool { return false }

func (Timestamp) sealed() {}

package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/token"
)

// ErrNotRewindable is returned by Text.Reset when the reader cannot seek.
var ErrNotRewindable = errors.New("source: reader is not rewindable")

// logEvery is the line interval of progress logging.
const logEvery = 100

// Text scans sentences from a reader. A word is a run of letters, digits
// and apostrophes; every other non-space rune is a one-rune punctuation
// token. '.', '!' and '?' are replaced by an end-of-line token.
type Text struct {
	r         io.Reader
	scan      *bufio.Scanner
	ctx       context.Context
	factory   token.Factory
	lower     bool
	log       *zap.Logger
	lines     int
	inLine    bool
	done      bool
	peeked    string
	hasPeeked bool
}

var _ multigram.Source = (*Text)(nil)

// TextOption configures a Text source.
type TextOption func(*Text)

// WithFactory builds tokens with f instead of token.SymbolFactory.
// End-of-line tokens are requested as token.EndOfLineLiteral.
func WithFactory(f token.Factory) TextOption {
	return func(t *Text) {
		if f != nil {
			t.factory = f
		}
	}
}

// WithContext sets the context passed to the factory.
func WithContext(ctx context.Context) TextOption {
	return func(t *Text) {
		if ctx != nil {
			t.ctx = ctx
		}
	}
}

// WithLowercase folds words to lower case.
func WithLowercase(on bool) TextOption {
	return func(t *Text) { t.lower = on }
}

// WithLogger sets the progress logger.
func WithLogger(l *zap.Logger) TextOption {
	return func(t *Text) {
		if l != nil {
			t.log = l
		}
	}
}

// NewText returns a sentence source over r. Reset works only when r is an
// io.Seeker.
func NewText(r io.Reader, opts ...TextOption) *Text {
	t := &Text{
		r:       r,
		ctx:     context.Background(),
		factory: token.SymbolFactory{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.scan = newScanner(r)

	return t
}

// Available reports whether more input may follow.
func (t *Text) Available() bool {
	if t.done {
		return false
	}
	if t.hasPeeked {
		return true
	}
	t.peeked, t.hasPeeked = t.read()
	return t.hasPeeked
}

// Next returns the next token, or (nil, nil) at the end of input.
func (t *Text) Next(flags multigram.Flags) (token.Token, error) {
	if flags&multigram.FlagStartOfSequence != 0 {
		return token.StartOfSequence(), nil
	}

	raw, ok := t.peeked, t.hasPeeked
	t.peeked, t.hasPeeked = "", false
	if !ok {
		raw, ok = t.read()
	}
	if !ok {
		if err := t.scan.Err(); err != nil {
			return nil, fmt.Errorf("Text.Next: %w", err)
		}
		return nil, nil
	}

	if !t.inLine {
		t.inLine = true
		t.lines++
		if t.lines%logEvery == 0 {
			t.log.Debug("lines read", zap.Int("lines", t.lines))
		}
	}

	switch raw {
	case ".", "!", "?":
		t.inLine = false
		raw = token.EndOfLineLiteral
	default:
		if t.lower {
			raw = strings.ToLower(raw)
		}
	}

	tok, err := t.factory.New(t.ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("Text.Next(%q): %w", raw, err)
	}

	return tok, nil
}

// LineCount returns the number of sentences started so far.
func (t *Text) LineCount() int { return t.lines }

// Reset seeks the reader back to its start.
func (t *Text) Reset() error {
	seeker, ok := t.r.(io.Seeker)
	if !ok {
		return ErrNotRewindable
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("Text.Reset: %w", err)
	}
	t.scan = newScanner(t.r)
	t.lines, t.inLine, t.done = 0, false, false
	t.peeked, t.hasPeeked = "", false

	return nil
}

func (t *Text) read() (string, bool) {
	if t.done {
		return "", false
	}
	if !t.scan.Scan() {
		t.done = true
		return "", false
	}
	return t.scan.Text(), true
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Split(scanTokens)
	return s
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

// scanTokens is a bufio.SplitFunc yielding words and single punctuation runes.
func scanTokens(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += width
	}
	if start >= len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}

	r, width := utf8.DecodeRune(data[start:])
	if !isWordRune(r) {
		if r == utf8.RuneError && !atEOF && !utf8.FullRune(data[start:]) {
			return start, nil, nil
		}
		return start + width, data[start : start+width], nil
	}

	for i := start + width; i < len(data); {
		r, width = utf8.DecodeRune(data[i:])
		if !isWordRune(r) {
			if r == utf8.RuneError && !atEOF && !utf8.FullRune(data[i:]) {
				return start, nil, nil
			}
			return i, data[start:i], nil
		}
		i += width
	}
	if atEOF {
		return len(data), data[start:], nil
	}

	return start, nil, nil
}

// SPDX-License-Identifier: MIT
// Package: multigram
//
// engine.go — the association engine and its learning state machine.

package multigram

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/token"
)

// Engine orchestrates the pool, the recency window, the clock and the settle
// state machine. Construct it with New; the zero value is not usable.
type Engine struct {
	opts Options
	src  Source
	log  *zap.Logger

	pool   *pool
	recent *window

	state       State
	settleCount int
	exhausted   bool
	dirty       bool

	edges   int
	learned int
	dropped int
	lines   int
	ticks   uint64

	follow followState
}

// New creates an empty engine reading from src. src may be nil for an engine
// fed only through Learn (e.g. a higher layer).
//
// Errors:
//   - ErrOptionViolation (wrapped) for any invalid Option.
//
// Complexity: O(MaxTokens + MaxStrength) to allocate the arena and window.
func New(src Source, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	e := &Engine{opts: o, src: src, log: o.Logger}
	e.Reset()

	return e, nil
}

// Reset clears the pool, the recency window, the state machine and all
// counters. Options and the source are kept; the source is not rewound.
func (e *Engine) Reset() {
	e.pool = newPool(e.opts.MaxTokens, e.opts.MaxStrength)
	e.recent = newWindow(e.opts.MaxStrength)
	e.state = StateIdle
	e.settleCount = 0
	e.exhausted = false
	e.dirty = false
	e.edges, e.learned, e.dropped, e.lines, e.ticks = 0, 0, 0, 0, 0
	e.follow = followState{}
}

// ProcessNext performs exactly one learning step.
//
// Implementation:
//   - Stage 1: While settling, absorb one tick and count it down; the tick
//     that reaches zero clears the recency window. No token is read.
//   - Stage 2: Otherwise pull the next token. Exhaustion marks the input
//     complete and returns nil: it is a terminal signal, not an error.
//   - Stage 3: Learn the token (resolve, reinforce, push, tick, boundary).
//
// Errors:
//   - Source failures, wrapped.
//   - ErrPoolExhausted (wrapped) under PolicyAbort.
//
// Complexity: O(n + w) for n pool nodes and window length w.
func (e *Engine) ProcessNext() error {
	if e.settleCount > 0 {
		e.settleStep()
		return nil
	}
	if e.exhausted {
		return nil
	}
	if e.src == nil {
		e.Finish()
		return nil
	}

	tok, err := e.src.Next(0)
	if err != nil {
		return fmt.Errorf("ProcessNext: %w", err)
	}
	if tok == nil {
		e.Finish()
		return nil
	}

	return e.learn(tok)
}

// Run calls ProcessNext until the source is exhausted.
func (e *Engine) Run() error {
	for !e.exhausted {
		if err := e.ProcessNext(); err != nil {
			return err
		}
	}
	return nil
}

// Learn is the push form of a learning step: pending settle ticks are
// absorbed first, then tok is learned exactly as if it had been read.
func (e *Engine) Learn(tok token.Token) error {
	if tok == nil {
		return ErrNilToken
	}
	for e.settleCount > 0 {
		e.settleStep()
	}
	return e.learn(tok)
}

// Finish marks the input as complete. Further ProcessNext calls only drain
// a pending settle period.
func (e *Engine) Finish() {
	if e.exhausted {
		return
	}
	e.exhausted = true
	if e.settleCount == 0 {
		e.state = StateIdle
	}
	e.log.Info("input source complete",
		zap.Int("tokens", e.pool.len()),
		zap.Int("lines", e.inputLines()),
		zap.Int("dropped", e.dropped))
}

// learn runs the connect-then-tick sequence for one token.
//
// Implementation:
//   - Stage 1: resolved := pool.resolveOrInsert(tok, threshold).
//   - Stage 2: For every occupied window position i (0 = most recent),
//     reinforce window[i] → resolved at distance i+1.
//   - Stage 3: Push resolved into the window (the oldest falls off).
//   - Stage 4: Tick the clock.
//   - Stage 5: On end-of-line, arm settleCount = MaxStrength.
//
// Under PolicySkip a token that finds the pool full skips Stages 2-3 and
// leaves an empty window position instead; Stages 4-5 still run.
func (e *Engine) learn(tok token.Token) error {
	resolved, inserted, err := e.pool.resolveOrInsert(tok, e.opts.Threshold)
	if err != nil {
		if e.opts.Policy == PolicyAbort {
			return fmt.Errorf("learn: %w", err)
		}
		e.dropped++
		e.log.Warn("token dropped", zap.String("token", tok.String()), zap.Error(err))
		// A dropped token still occupies its position in the window.
		e.recent.push(nil)
		e.Tick()
		e.state = StateLearning
	} else {
		if inserted {
			e.log.Debug("token inserted", zap.String("token", tok.String()), zap.Int("slot", resolved.slot))
		}

		for i := 0; i < e.recent.size(); i++ {
			if w := e.recent.at(i); w != nil {
				if _, created := w.reinforce(resolved, i+1); created {
					e.edges++
				}
			}
		}
		e.dirty = true

		e.recent.push(resolved)
		e.Tick()
		e.learned++
		e.state = StateLearning
	}

	if tok.EndOfLine() {
		e.lines++
		e.settleCount = e.opts.MaxStrength
		e.state = StateSettling
		e.log.Debug("settle armed", zap.Int("ticks", e.settleCount))
	}

	return nil
}

// settleStep absorbs one settle tick.
func (e *Engine) settleStep() {
	e.Tick()
	e.settleCount--
	if e.settleCount > 0 {
		return
	}
	e.settleCount = 0
	e.recent.clear()
	if e.exhausted {
		e.state = StateIdle
	} else {
		e.state = StateLearning
	}
}

// Tick advances the global clock: every node with positive strength loses
// exactly one, in a single pass.
//
// Complexity: O(n) for n occupied slots.
func (e *Engine) Tick() {
	e.pool.tick()
	e.ticks++
}

// Settle advances the clock MaxStrength times, enough for every strength to
// reach zero.
func (e *Engine) Settle() {
	for i := 0; i < e.opts.MaxStrength; i++ {
		e.Tick()
	}
}

// Find returns the node whose token equals tok, or nil.
func (e *Engine) Find(tok token.Token) *Node {
	if tok == nil {
		return nil
	}
	return e.pool.find(tok)
}

// Lookup returns the first node whose similarity to tok reaches threshold,
// without triggering it.
func (e *Engine) Lookup(tok token.Token, threshold float64) *Node {
	if tok == nil {
		return nil
	}
	return e.pool.lookup(tok, threshold)
}

// Nodes returns the occupied nodes in slot order.
func (e *Engine) Nodes() []*Node { return e.pool.nodes() }

// Recent returns the recency window, most recent first; empty positions are nil.
func (e *Engine) Recent() []*Node { return e.recent.slice() }

// State returns the current learning state.
func (e *Engine) State() State { return e.state }

// SettleCount returns the settle ticks still to absorb.
func (e *Engine) SettleCount() int { return e.settleCount }

// Exhausted reports whether the input has been marked complete.
func (e *Engine) Exhausted() bool { return e.exhausted }

// MaxStrength returns the trigger strength / number of distance buckets.
func (e *Engine) MaxStrength() int { return e.opts.MaxStrength }

// MaxTokens returns the pool capacity.
func (e *Engine) MaxTokens() int { return e.opts.MaxTokens }

// Threshold returns the recognition similarity.
func (e *Engine) Threshold() float64 { return e.opts.Threshold }

// Factory returns the token factory used for seeds.
func (e *Engine) Factory() token.Factory { return e.opts.Factory }

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// Source returns the token source (nil for push-only engines).
func (e *Engine) Source() Source { return e.src }

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Tokens:     e.pool.len(),
		Capacity:   e.pool.cap(),
		Edges:      e.edges,
		Learned:    e.learned,
		Dropped:    e.dropped,
		Lines:      e.lines,
		InputLines: e.inputLines(),
		Ticks:      e.ticks,
		State:      e.state,
		Exhausted:  e.exhausted,
	}
}

func (e *Engine) inputLines() int {
	if e.src == nil {
		return 0
	}
	return e.src.LineCount()
}

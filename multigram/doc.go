// Package multigram implements the temporal token association engine: a
// fixed-capacity pool of canonical tokens whose activity decays on a shared
// discrete clock, and a distance-bucketed table of directed, strength-weighted
// edges learned from the order in which tokens arrive.
//
// 🚀 How learning works
//
//	source ─► ProcessNext ─► pool.resolveOrInsert ─► reinforce vs. window ─► push ─► Tick
//	                                                                         │
//	                                             end-of-line? ─► Settling ◄──┘
//
// Every accepted token is matched against the pool (first slot whose
// Similarity reaches the threshold) or inserted into the first free slot; it
// is then connected to every token in the recency window, at a distance equal
// to its position in the window plus one. Only after reinforcement is the
// token pushed into the window, and only after the push does the clock tick.
// This ordering means a token never connects to itself at distance 0, and an
// edge's distance is always the true token-count separation at observation.
//
// An end-of-line token arms a settle period of MaxStrength ticks. While
// settling no token is read and no edge is formed; when it completes the
// window is cleared, so nothing on one side of a sentence boundary connects
// to anything on the other.
//
// ✨ State machine
//
//	Idle ──ProcessNext/Learn──► Learning ◄──────────┐
//	                              │ end-of-line      │ settleCount reaches 0
//	                              ▼                  │
//	                           Settling ─────────────┘
//
//	Exhaustion of the source (Next returns nil) is a normal terminal signal:
//	Exhausted() becomes true and ProcessNext stops pulling.
//
// ⚙️ After learning
//
//	Normalize() computes, for every node and every distance bucket, a softmax
//	over edge strengths. Follow/FollowNext replay the source over the learned
//	structure and emit phrase-level token.Composite values to a higher layer
//	(any Layer, typically another *Engine).
//
// Concurrency:
//
//	An Engine is single-threaded by contract. Every mutation (Tick,
//	resolve/insert, reinforcement) happens inside one step, and the global
//	decay pass must not interleave with reinforcement. Callers sharing an
//	Engine across goroutines must serialize access themselves; parallelism
//	belongs at the instance level (one engine per layer).
//
// Errors:
//
//	ErrPoolExhausted   – no free slot and no existing node recognized the token.
//	ErrNilToken        – Learn(nil).
//	ErrOptionViolation – invalid option value passed to New.
//	ErrBadSnapshot     – Restore received an inconsistent snapshot.
package multigram

// Package multigram is the root of a temporal token association engine:
// it learns which tokens follow which, at which distance, and how often,
// from a stream of words, timestamps, phrases or embedding vectors.
//
// 🚀 What is in the box?
//
//	• Tokens: sealed identity contract with symbol, timestamp, composite
//	  and embedding-backed variants, plus a lossless payload codec
//	• Engine: fixed-capacity pool, decaying activity on a shared clock,
//	  distance-bucketed edges, boundary settling and per-bucket softmax
//	• Layers: replay learned structure to lift phrases into a higher engine
//	• Generation: greedy weighted vote and seed-guided best-fit walks
//	• Persistence: SQLite snapshots of the learned graph
//
// Everything is organized under these subpackages:
//
//	token/         — Token contract, variants, Encode/Decode
//	embedding/     — Embedder interface, vector Registry, canonicalizing Factory
//	multigram/     — Engine, Node, Edge, Snapshot, Follow
//	predict/       — MostLikelyNext, GenerateLikely, GenerateBestFit
//	source/        — Slice and sentence Text sources
//	store/         — SQLite snapshot store
//	config/        — YAML configuration and logger construction
//	cmd/multigram/ — operator CLI: learn, generate, inspect, snapshots
//
// Quick ASCII example, after learning "the cat sat." twice:
//
//	the ──d1:2──► cat ──d1:2──► sat ──d1:2──► <eol>
//	 └────────d2:2─────────────┘
//
//	go install github.com/katalvlaran/multigram/cmd/multigram@latest
package multigram

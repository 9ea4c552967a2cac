// Package predict generates token sequences from a learned multigram.Engine.
//
// Two strategies are provided:
//
//	MostLikelyNext / GenerateLikely – greedy weighted vote over the history.
//	GenerateBestFit                 – seed-guided walk along distance-1 edges,
//	                                  extended by GenerateLikely-style voting.
//
// Weighted vote:
//
//	For the last min(len(history), MaxStrength) nodes, the node at reverse
//	position d (1 = most recent) contributes, for every edge in its distance-d
//	bucket, strength × (len(history) − d + 1). Candidates are seeded by the
//	most recent node's distance-1 edges; longer ranges only add weight to
//	seeded candidates. The heaviest candidate reaching the threshold wins and
//	ties go to the first candidate in edge creation order.
//
// Termination:
//
//	Generation stops when no candidate qualifies or when the sequence reaches
//	MaxLength nodes, whichever comes first. A cyclic graph therefore cannot
//	loop forever.
//
// Predictors only read the engine; they never learn, tick or normalize.
package predict

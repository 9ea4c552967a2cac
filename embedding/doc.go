// Package embedding turns raw strings into canonical embedding-backed tokens.
//
// Two collaborators are involved:
//
//	Embedder – consumed interface; produces a vector for a string. Remote
//	           services (Ollama, GenAI, ...) live behind it and are not part
//	           of this module.
//	Registry – explicitly owned, explicitly sized index of previously seen
//	           vectors. Lookup returns the best match and registers unseen
//	           vectors until capacity runs out; it never evicts.
//
// Factory glues them together and implements token.Factory, so a multigram
// (and the generators in package predict) can build embedded tokens from
// seed strings without knowing where vectors come from.
//
// There is no package-level registry: each Factory owns exactly the Registry
// it was constructed with.
package embedding

// Package source provides multigram.Source adapters.
//
//	Slice – an in-memory token list, rewindable.
//	Text  – a sentence scanner over an io.Reader: words and punctuation become
//	        tokens, '.', '!' and '?' close a line with an end-of-line token.
//
// Both honor multigram.FlagStartOfSequence by returning a start-of-sequence
// symbol without consuming input, and both report exhaustion as (nil, nil).
package source

// Package moderation owns every write to a word's moderation fields.
//
// Each mutating call runs a load, transition and save cycle under a
// per-word lock, so two requests for the same word never interleave inside
// one process. Across processes the store's optimistic version check turns
// the losing write into ErrVersionConflict, which callers may retry.
package moderation

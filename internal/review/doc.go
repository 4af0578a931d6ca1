// Package review holds the pure core of the word review lifecycle: the
// per-episode vote ledger and the transition function that maps
// (state, event, context) to (next state, patch, effects).
//
// Nothing here performs I/O or mutates its inputs. Persisting an outcome
// is the moderation service's job.
package review

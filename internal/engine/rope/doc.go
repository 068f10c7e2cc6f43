// Package rope implements an immutable rope for efficient text storage.
//
// Text is addressed by char (rune) offsets. The rope is a B+ tree whose
// leaves hold bounded string chunks and whose nodes cache TextSummary
// metrics, so insertion, deletion, char/line indexing and offset
// conversion all run in O(log n).
//
// Ropes are values: every edit returns a new Rope sharing structure with
// the original, which makes snapshots cheap and concurrent reads safe
// without locking.
package rope

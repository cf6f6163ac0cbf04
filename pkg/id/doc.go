// Package id provides a 96-bit, lexicographically sortable identifier used
// to correlate flush batches in logs.
//
// # Format
//
// The ID is 12 bytes big-endian: [8 bytes ms_timestamp][4 bytes sequence].
// Byte-wise comparison preserves chronological order, and IDs generated
// within the same millisecond remain strictly increasing by sequence.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	flushID := g.Next()
//	s := flushID.String() // hex string for log fields
package id

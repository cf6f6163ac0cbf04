package store

import (
	"context"
)

// persist writes batch to the collection while keeping it at or under the
// capacity bound:
//
//  1. If the current count plus the batch would exceed the bound, the
//     overshoot is removed from the head first, so transient over-capacity
//     is unlikely.
//  2. The batch is appended.
//  3. The count is re-checked; if a concurrent writer raced it over the
//     bound, the tail is rewritten wholesale.
func (s *Store) persist(ctx context.Context, batch [][]byte) error {
	limit := s.MaxEntries()
	count, err := s.coll.Count(ctx)
	if err != nil {
		return err
	}
	if over := count + len(batch) - limit; over > 0 {
		if _, err := s.coll.TrimHead(ctx, over); err != nil {
			return err
		}
	}
	if _, err := s.coll.Append(ctx, batch); err != nil {
		return err
	}
	return s.trimToLimit(ctx, limit)
}

// trimToLimit brings the collection down to at most limit records, keeping
// the most recently inserted. The fast path removes the overshoot from the
// head; if the collection is still over afterwards, the last limit records
// (already in ascending sequence order from Read) are kept via a full
// rewrite. Rewrites reassign sequence values, which is fine: sequences are
// ordering-only, never stable keys.
func (s *Store) trimToLimit(ctx context.Context, limit int) error {
	count, err := s.coll.Count(ctx)
	if err != nil {
		return err
	}
	if count <= limit {
		return nil
	}
	if _, err := s.coll.TrimHead(ctx, count-limit); err != nil {
		return err
	}
	count, err = s.coll.Count(ctx)
	if err != nil {
		return err
	}
	if count <= limit {
		return nil
	}
	stored, err := s.coll.Read(ctx)
	if err != nil {
		return err
	}
	keep := stored[len(stored)-limit:]
	payloads := make([][]byte, len(keep))
	for i, rec := range keep {
		payloads[i] = rec.Payload
	}
	return s.coll.Replace(ctx, payloads)
}

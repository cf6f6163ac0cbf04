// Package store implements an in-process, capacity-bounded log record store
// with debounced batched persistence.
//
// # Overview
//
// Producers call Append with opaque JSON-compatible records. Appends are
// staged in an in-memory queue; a debounce window (restarted by each append)
// coalesces bursts into a single durable write. Read-style operations force
// a flush first, so callers always observe their prior appends. After every
// flush the durable collection is trimmed from the head so it never settles
// above the configured capacity bound.
//
// Usage
//
//	s, _ := store.Open(store.Options{DataDir: dir, Key: "default", MaxEntries: 5000})
//	s.Append(store.Record{"message": "hello", "logger": "app"})
//	recs, _ := s.GetAll(ctx) // flush forced; includes the append above
//	n, _ := s.Count(ctx)
//	_ = s.SetMaxEntries(ctx, 1000)
//	s.Close(ctx) // flush best-effort + release handle; store stays usable
//
// # Failure model
//
// Append never fails. When a flush cannot reach the persistent medium, the
// batch is restored to the front of the queue and retried on the next
// trigger; the queue is unbounded but monitored, see Pending. Read-style
// operations surface persistence failures from their own flush directly.
package store

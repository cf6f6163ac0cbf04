// Package collection implements the durable, ordered record set backing a
// log store.
//
// # Overview
//
// Records live in Pebble under a logical key. Keys are lexicographically
// ordered for efficient range scans:
//   - log/{key}/m            (collection metadata: lastSeq)
//   - log/{key}/e/{seq_be8}  (records)
//
// Values are stored as: payload | crc32c(payload).
//
// Each record is assigned a sequence strictly greater than every previously
// assigned one within the lifetime of the backing handle. Sequences are an
// ordering device only: Replace reassigns them, so they are never stable keys.
//
// API surface (internal)
//
//	c, _ := collection.Open(collection.Options{DataDir: dir, Key: "default"})
//	seqs, _ := c.Append(ctx, [][]byte{payload})
//	recs, _ := c.Read(ctx)
//	n, _ := c.Count(ctx)
//	_, _ = c.TrimHead(ctx, 10)   // drop the 10 oldest
//	_ = c.Replace(ctx, payloads) // atomic full rewrite
//	_ = c.Clear(ctx)
//	_ = c.Close() // released handle; next op reopens transparently
package collection

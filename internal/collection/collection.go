package collection

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/n1snt/ilogger/internal/storage/pebble"
	logpkg "github.com/n1snt/ilogger/pkg/log"
)

// trimBatchLimit caps the number of deletes committed per trim batch.
const trimBatchLimit = 1024

// Options configures a Collection.
type Options struct {
	// DataDir is the Pebble directory backing the collection.
	DataDir string
	// Key is the logical collection key; records of different keys sharing a
	// DataDir never collide.
	Key string
	// Fsync selects the durability mode for commits.
	Fsync pebblestore.FsyncMode
	// Logger is optional; a default logger is used when nil.
	Logger logpkg.Logger
}

// Stored is a durable record with its assigned sequence.
type Stored struct {
	Seq     uint64
	Payload []byte
}

// Collection is a durable, ordered record set under a single logical key.
// Sequences are assigned strictly increasing for the lifetime of the backing
// handle. The handle is released by Close and transparently reopened by the
// next operation.
type Collection struct {
	opts   Options
	logger logpkg.Logger

	mu      sync.Mutex
	db      *pebblestore.DB
	lastSeq uint64
}

// Open initializes a Collection and loads the last sequence from metadata.
func Open(opts Options) (*Collection, error) {
	if opts.DataDir == "" {
		return nil, errors.New("collection: Options.DataDir is required")
	}
	if opts.Key == "" {
		return nil, errors.New("collection: Options.Key is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	c := &Collection{opts: opts, logger: logger.WithComponent("collection").With(logpkg.Str("key", opts.Key))}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureOpen reopens the Pebble handle if it was released. Callers hold mu.
func (c *Collection) ensureOpen() error {
	if c.db != nil {
		return nil
	}
	db, err := pebblestore.Open(pebblestore.Options{DataDir: c.opts.DataDir, Fsync: c.opts.Fsync})
	if err != nil {
		return fmt.Errorf("collection: open %s: %w", c.opts.DataDir, err)
	}
	c.db = db
	c.lastSeq = 0
	meta, err := db.Get(KeyMeta(c.opts.Key))
	if err == nil && len(meta) >= 8 {
		c.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return nil
}

// Append durably stores the payloads as a single atomic batch and returns
// the assigned sequences in order.
func (c *Collection) Append(ctx context.Context, payloads [][]byte) ([]uint64, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}

	b := c.db.NewBatch()
	defer b.Close()

	seqs := make([]uint64, len(payloads))
	next := c.lastSeq
	for i, p := range payloads {
		next++
		if err := b.Set(KeyEntry(c.opts.Key, next), EncodeRecord(p), nil); err != nil {
			return nil, err
		}
		seqs[i] = next
	}
	if err := c.writeMeta(b, next); err != nil {
		return nil, err
	}
	if err := c.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	c.lastSeq = next
	return seqs, nil
}

// Read returns every stored record in ascending sequence order. Records that
// fail CRC verification are skipped and logged.
func (c *Collection) Read(ctx context.Context) ([]Stored, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	low, high := entryBounds(c.opts.Key)
	iter, err := c.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Stored
	for ok := iter.First(); ok; ok = iter.Next() {
		seq := seqFromEntryKey(iter.Key())
		payload, okDec := DecodeRecord(iter.Value())
		if !okDec {
			c.logger.Warn("skipping corrupt record", logpkg.Uint64("seq", seq))
			continue
		}
		out = append(out, Stored{Seq: seq, Payload: payload})
	}
	return out, iter.Error()
}

// Replace atomically swaps the entire stored set for payloads. Sequences are
// freshly assigned in the order given, continuing the monotonic counter.
func (c *Collection) Replace(ctx context.Context, payloads [][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return err
	}

	low, high := entryBounds(c.opts.Key)
	b := c.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(low, high, nil); err != nil {
		return err
	}
	next := c.lastSeq
	for _, p := range payloads {
		next++
		if err := b.Set(KeyEntry(c.opts.Key, next), EncodeRecord(p), nil); err != nil {
			return err
		}
	}
	if err := c.writeMeta(b, next); err != nil {
		return err
	}
	if err := c.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	c.lastSeq = next
	return nil
}

// Count returns the number of stored records.
func (c *Collection) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	low, high := entryBounds(c.opts.Key)
	iter, err := c.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for ok := iter.First(); ok; ok = iter.Next() {
		n++
	}
	return n, iter.Error()
}

// TrimHead deletes up to n of the oldest records. Deletes are committed in
// batches of up to trimBatchLimit keys. Returns the number deleted.
func (c *Collection) TrimHead(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return 0, err
	}

	low, high := entryBounds(c.opts.Key)
	iter, err := c.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	deleted := 0
	for ok := iter.First(); ok && deleted < n; {
		b := c.db.NewBatch()
		batched := 0
		for ok && deleted < n && batched < trimBatchLimit {
			if err := b.Delete(iter.Key(), nil); err != nil {
				b.Close()
				return deleted - batched, err
			}
			deleted++
			batched++
			ok = iter.Next()
		}
		if batched > 0 {
			if err := c.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted - batched, err
			}
		}
		b.Close()
	}
	return deleted, nil
}

// Clear removes every stored record. The sequence counter is retained so
// values never repeat within a handle lifetime.
func (c *Collection) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureOpen(); err != nil {
		return err
	}
	low, high := entryBounds(c.opts.Key)
	return c.db.DeleteRange(ctx, low, high)
}

// Close releases the backing handle. Idempotent; subsequent operations
// transparently reopen a handle for the same key.
func (c *Collection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// writeMeta stages the lastSeq metadata update into b.
func (c *Collection) writeMeta(b *pebble.Batch, lastSeq uint64) error {
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], lastSeq)
	return b.Set(KeyMeta(c.opts.Key), meta[:], nil)
}

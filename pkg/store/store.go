package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/n1snt/ilogger/internal/collection"
	pebblestore "github.com/n1snt/ilogger/internal/storage/pebble"
	"github.com/n1snt/ilogger/pkg/id"
	logpkg "github.com/n1snt/ilogger/pkg/log"
)

const (
	// DefaultMaxEntries bounds the durable record count when Options leaves
	// MaxEntries unset.
	DefaultMaxEntries = 5000
	// DefaultFlushWindow is the debounce window between the last append and
	// the automatic flush.
	DefaultFlushWindow = 100 * time.Millisecond
)

// ErrInvalidLimit is returned when a capacity bound below 1 is requested.
var ErrInvalidLimit = errors.New("store: max entries must be >= 1")

// Record is a caller-defined mapping of field names to JSON-compatible
// values. The store interprets no fields.
type Record = map[string]interface{}

// Options configures a Store.
type Options struct {
	// DataDir is the Pebble directory backing the store.
	DataDir string
	// Key identifies the durable collection. Required.
	Key string
	// MaxEntries bounds the durable record count. Defaults to
	// DefaultMaxEntries when 0; negative values are rejected.
	MaxEntries int
	// FlushWindow is the debounce window. Defaults to DefaultFlushWindow.
	FlushWindow time.Duration
	// Fsync selects the durability mode for commits.
	Fsync pebblestore.FsyncMode
	// Logger is optional; a default logger is used when nil.
	Logger logpkg.Logger
}

// Store is a capacity-bounded log record store with debounced batched
// persistence. Appends are fire-and-forget and staged in memory; any
// read-style operation forces a flush first, so buffering is never
// observable to a reader.
type Store struct {
	coll   *collection.Collection
	logger logpkg.Logger
	ids    *id.Generator
	buf    *buffer

	// limitMu guards maxEntries.
	limitMu    sync.Mutex
	maxEntries int

	// flushMu serializes flush+evict critical sections against reads, so a
	// forced flush fully completes, trim included, before its caller's read.
	flushMu sync.Mutex
}

// Open creates a Store over the collection identified by Options.Key.
func Open(opts Options) (*Store, error) {
	if opts.Key == "" {
		return nil, errors.New("store: Options.Key is required")
	}
	if opts.MaxEntries < 0 {
		return nil, ErrInvalidLimit
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.FlushWindow <= 0 {
		opts.FlushWindow = DefaultFlushWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	logger = logger.WithComponent("store").With(logpkg.Str("key", opts.Key))

	coll, err := collection.Open(collection.Options{
		DataDir: opts.DataDir,
		Key:     opts.Key,
		Fsync:   opts.Fsync,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Store{
		coll:       coll,
		logger:     logger,
		ids:        id.NewGenerator(),
		maxEntries: opts.MaxEntries,
	}
	s.buf = newBuffer(opts.FlushWindow, s.debounceFired)
	return s, nil
}

// Append stages record for persistence and returns immediately. It never
// fails; a later flush failure is retried internally and an unencodable
// record is logged and dropped.
func (s *Store) Append(record Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("dropping unencodable record", logpkg.Err(err))
		return
	}
	s.buf.enqueue(payload)
}

// GetAll flushes pending writes and returns every record in insertion order.
// Sequence identifiers are internal and never part of the result.
func (s *Store) GetAll(ctx context.Context) ([]Record, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if err := s.flushLocked(ctx); err != nil {
		return nil, err
	}
	stored, err := s.coll.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(stored))
	for _, rec := range stored {
		var r Record
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			s.logger.Warn("skipping undecodable record", logpkg.Uint64("seq", rec.Seq), logpkg.Err(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Count flushes pending writes and returns the durable record count.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if err := s.flushLocked(ctx); err != nil {
		return 0, err
	}
	return s.coll.Count(ctx)
}

// Clear discards pending writes and empties the durable collection.
func (s *Store) Clear(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	s.buf.discard()
	return s.coll.Clear(ctx)
}

// Close flushes pending writes best-effort and releases the persistent
// handle. Flush errors are logged, not returned; the batch stays queued for
// the next flush. Close is not terminal: any later operation transparently
// reopens the handle.
func (s *Store) Close(ctx context.Context) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if err := s.flushLocked(ctx); err != nil {
		s.logger.Warn("flush during close failed; batch retained", logpkg.Err(err))
	}
	if err := s.coll.Close(); err != nil {
		s.logger.Warn("releasing persistent handle failed", logpkg.Err(err))
	}
}

// MaxEntries returns the current capacity bound.
func (s *Store) MaxEntries() int {
	s.limitMu.Lock()
	defer s.limitMu.Unlock()
	return s.maxEntries
}

// SetMaxEntries updates the capacity bound. Values below 1 are rejected
// before any flush side effect. Otherwise pending writes are flushed, the
// limit updated, and the collection trimmed if it now exceeds it.
func (s *Store) SetMaxEntries(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, n)
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if err := s.flushLocked(ctx); err != nil {
		return err
	}
	s.limitMu.Lock()
	s.maxEntries = n
	s.limitMu.Unlock()
	return s.trimToLimit(ctx, n)
}

// Pending returns the number of staged, not-yet-durable records. Embedders
// can watch it to apply their own backpressure under a failing medium.
func (s *Store) Pending() int {
	return s.buf.size()
}

// debounceFired runs when the debounce window elapses with no new appends.
func (s *Store) debounceFired() {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	// failure already logged and the batch requeued; the next trigger retries
	_ = s.flushLocked(context.Background())
}

// flushLocked submits the whole pending queue as one batch through the
// eviction policy. On failure the batch is restored to the front of the
// queue. Callers hold flushMu.
func (s *Store) flushLocked(ctx context.Context) error {
	batch := s.buf.take()
	if len(batch) == 0 {
		return nil
	}
	fid := s.ids.Next()
	if err := s.persist(ctx, batch); err != nil {
		s.buf.requeue(batch)
		s.logger.Error("flush failed; batch requeued",
			logpkg.Str("flush_id", fid.String()),
			logpkg.Int("batch", len(batch)),
			logpkg.Int("pending", s.buf.size()),
			logpkg.Err(err))
		return err
	}
	s.logger.Debug("flush complete",
		logpkg.Str("flush_id", fid.String()),
		logpkg.Int("batch", len(batch)))
	return nil
}

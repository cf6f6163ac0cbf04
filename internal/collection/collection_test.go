package collection

import (
	"context"
	"testing"

	pebblestore "github.com/n1snt/ilogger/internal/storage/pebble"
)

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := Open(Options{DataDir: t.TempDir(), Key: "test", Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func payloads(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestAppendAssignsSequential(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	seqs, err := c.Append(ctx, payloads("a", "b"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("want 2 seqs, got %d", len(seqs))
	}
	if !(seqs[0] < seqs[1]) {
		t.Fatalf("expected increasing seqs: %v", seqs)
	}

	more, err := c.Append(ctx, payloads("c"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !(seqs[1] < more[0]) {
		t.Fatalf("expected later batch to continue the counter: %v then %v", seqs, more)
	}
}

func TestReadAscendingOrder(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	if _, err := c.Append(ctx, payloads("first", "second", "third")); err != nil {
		t.Fatalf("append: %v", err)
	}
	recs, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}
	want := []string{"first", "second", "third"}
	for i, r := range recs {
		if string(r.Payload) != want[i] {
			t.Fatalf("record %d: got %q want %q", i, r.Payload, want[i])
		}
		if i > 0 && recs[i-1].Seq >= r.Seq {
			t.Fatalf("sequences not ascending: %d then %d", recs[i-1].Seq, r.Seq)
		}
	}
}

func TestDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := Open(Options{DataDir: dir, Key: "k", Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seqs, err := c.Append(ctx, payloads("x"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c2, err := Open(Options{DataDir: dir, Key: "k", Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = c2.Close() })

	recs, err := c2.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 1 || string(recs[0].Payload) != "x" {
		t.Fatalf("lost data across reopen: %+v", recs)
	}
	seqs2, err := c2.Append(ctx, payloads("y"))
	if err != nil {
		t.Fatalf("append2: %v", err)
	}
	if !(seqs[0] < seqs2[0]) {
		t.Fatalf("expected next seq > previous: prev=%d next=%d", seqs[0], seqs2[0])
	}
}

func TestCloseThenOperateReopensTransparently(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	if _, err := c.Append(ctx, payloads("a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// operations after close reopen the handle, no error, no data loss
	n, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("count after close: %v", err)
	}
	if n != 1 {
		t.Fatalf("count after close: got %d want 1", n)
	}
	if _, err := c.Append(ctx, payloads("b")); err != nil {
		t.Fatalf("append after close: %v", err)
	}
}

func TestReplaceReassignsSequences(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	if _, err := c.Append(ctx, payloads("a", "b", "c")); err != nil {
		t.Fatalf("append: %v", err)
	}
	before, _ := c.Read(ctx)

	if err := c.Replace(ctx, payloads("b", "c")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	after, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("want 2 records, got %d", len(after))
	}
	if string(after[0].Payload) != "b" || string(after[1].Payload) != "c" {
		t.Fatalf("replace changed order: %q %q", after[0].Payload, after[1].Payload)
	}
	// fresh sequences stay monotonic past the replaced set
	if after[0].Seq <= before[len(before)-1].Seq {
		t.Fatalf("expected reassigned seqs above %d, got %d", before[len(before)-1].Seq, after[0].Seq)
	}
}

func TestTrimHead(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	if _, err := c.Append(ctx, payloads("a", "b", "c", "d")); err != nil {
		t.Fatalf("append: %v", err)
	}
	deleted, err := c.TrimHead(ctx, 2)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("want 2 deleted, got %d", deleted)
	}
	recs, _ := c.Read(ctx)
	if len(recs) != 2 || string(recs[0].Payload) != "c" {
		t.Fatalf("oldest not removed: %+v", recs)
	}

	// asking for more than present deletes everything and stops
	deleted, err = c.TrimHead(ctx, 10)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("want 2 deleted, got %d", deleted)
	}
}

func TestClearKeepsCounter(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	seqs, err := c.Append(ctx, payloads("a", "b"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, _ := c.Count(ctx)
	if n != 0 {
		t.Fatalf("count after clear: %d", n)
	}
	seqs2, err := c.Append(ctx, payloads("c"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !(seqs[1] < seqs2[0]) {
		t.Fatalf("sequence counter reset by clear: %v then %v", seqs, seqs2)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	enc := EncodeRecord([]byte(`{"message":"hi"}`))
	if _, ok := DecodeRecord(enc); !ok {
		t.Fatalf("valid record rejected")
	}
	enc[0] ^= 0xff
	if _, ok := DecodeRecord(enc); ok {
		t.Fatalf("corrupt record accepted")
	}
	if _, ok := DecodeRecord([]byte{1, 2}); ok {
		t.Fatalf("short record accepted")
	}
}

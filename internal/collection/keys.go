package collection

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - log/{key}/m            (collection metadata: lastSeq)
// - log/{key}/e/{seq_be8}  (records)

var (
	logPrefix  = []byte("log/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyMeta builds the collection metadata key.
func KeyMeta(key string) []byte {
	k := make([]byte, 0, len(logPrefix)+len(key)+len(metaSuffix))
	k = append(k, logPrefix...)
	k = append(k, key...)
	k = append(k, metaSuffix...)
	return k
}

// KeyEntry builds the record key with a big-endian sequence for proper ordering.
func KeyEntry(key string, seq uint64) []byte {
	k := make([]byte, 0, len(logPrefix)+len(key)+len(entrySeg)+8)
	k = append(k, logPrefix...)
	k = append(k, key...)
	k = append(k, entrySeg...)
	k = appendBE8(k, seq)
	return k
}

// entryBounds returns the [low, high) key range covering every record of key.
func entryBounds(key string) (low, high []byte) {
	low = KeyEntry(key, 0)
	high = append(KeyEntry(key, ^uint64(0)), 0x00)
	return low, high
}

// seqFromEntryKey extracts the sequence from a record key produced by KeyEntry.
func seqFromEntryKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(k)-8:])
}

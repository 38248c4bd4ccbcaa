// Package table implements the bucketized cuckoo hash table: bucket/entry
// addressing over a packed bit array, guarded by a bank of stripe locks
// that let many readers proceed lock-free while writers serialize only
// against the bucket's own stripe.
package table

import (
	"github.com/rverma17/cuckoofilter/internal/bits"
)

// Table partitions a PackedBits into Buckets buckets of EntriesPerBucket
// entries of BitsPerEntry bits each, and owns the stripe-lock bank used to
// guard them. Entry value zero means "empty"; every other value in
// [1, 2^BitsPerEntry - 1] is a live fingerprint.
type Table struct {
	Buckets         uint64
	EntriesPerBucket uint8
	BitsPerEntry    uint8
	Stripes         uint64

	storage *bits.PackedBits
	locks   *stripeLocks
}

// New allocates a table for the given shape. Callers (the Builder) are
// responsible for enforcing the invariants from spec.md §3: Buckets and
// Stripes are powers of two, EntriesPerBucket is in {1,2,4,8}, and
// Stripes <= Buckets.
func New(bucketsCount uint64, entriesPerBucket, bitsPerEntry uint8, stripes uint64) *Table {
	totalBits := int(bucketsCount) * int(entriesPerBucket) * int(bitsPerEntry)
	return &Table{
		Buckets:          bucketsCount,
		EntriesPerBucket: entriesPerBucket,
		BitsPerEntry:     bitsPerEntry,
		Stripes:          stripes,
		storage:          bits.New(totalBits),
		locks:            newStripeLocks(stripes),
	}
}

func (t *Table) entryRange(bucket uint64, entry uint8) (int, int) {
	width := int(t.BitsPerEntry)
	idx := (int(bucket)*int(t.EntriesPerBucket) + int(entry))
	from := idx * width
	return from, from + width
}

func (t *Table) readEntry(bucket uint64, entry uint8) uint64 {
	from, to := t.entryRange(bucket, entry)
	v, err := t.storage.Read(from, to)
	if err != nil {
		// Bucket/entry indices are always in range by construction
		// (Table.New sizes storage to Buckets*EntriesPerBucket*BitsPerEntry
		// and every caller derives bucket/entry from that same shape), so
		// this would only fire on a logic error upstream.
		panic(err)
	}
	return v
}

func (t *Table) writeEntry(bucket uint64, entry uint8, value uint32) {
	from, to := t.entryRange(bucket, entry)
	if err := t.storage.Clear(from, to); err != nil {
		panic(err)
	}
	if err := t.storage.Or(from, to, uint64(value)); err != nil {
		panic(err)
	}
}

// scanBucket runs f over every entry slot in bucket, stopping early if f
// returns true. It does not acquire any lock; the caller holds (or has
// validated) the appropriate stripe access.
func (t *Table) scanBucket(bucket uint64, f func(entry uint8, value uint32) bool) {
	for e := uint8(0); e < t.EntriesPerBucket; e++ {
		if f(e, uint32(t.readEntry(bucket, e))) {
			return
		}
	}
}

// Contains reports whether fingerprint v is present anywhere in bucket b.
// It first attempts a lock-free optimistic scan; if a concurrent write
// invalidates the scan, it retries once under the stripe's shared read
// lock.
func (t *Table) Contains(b uint64, v uint32) bool {
	lock := t.locks.forBucket(b)

	if stamp, ok := lock.beginOptimisticRead(); ok {
		found := false
		t.scanBucket(b, func(_ uint8, value uint32) bool {
			if value == v {
				found = true
				return true
			}
			return false
		})
		if lock.validate(stamp) {
			return found
		}
	}

	lock.rLock()
	defer lock.rUnlock()
	found := false
	t.scanBucket(b, func(_ uint8, value uint32) bool {
		if value == v {
			found = true
			return true
		}
		return false
	})
	return found
}

// Count returns the number of entries in bucket b equal to v, using the
// same optimistic-then-pessimistic pattern as Contains.
func (t *Table) Count(b uint64, v uint32) int {
	lock := t.locks.forBucket(b)

	tally := func() int {
		n := 0
		t.scanBucket(b, func(_ uint8, value uint32) bool {
			if value == v {
				n++
			}
			return false
		})
		return n
	}

	if stamp, ok := lock.beginOptimisticRead(); ok {
		n := tally()
		if lock.validate(stamp) {
			return n
		}
	}

	lock.rLock()
	defer lock.rUnlock()
	return tally()
}

// AddIfEmpty writes fingerprint v into the first empty entry of bucket b,
// returning true on success. If every entry is occupied it returns false
// without mutating the bucket.
func (t *Table) AddIfEmpty(b uint64, v uint32) bool {
	lock := t.locks.forBucket(b)
	lock.lock()
	defer lock.unlock()

	ok := false
	t.scanBucket(b, func(entry uint8, value uint32) bool {
		if value == 0 {
			t.writeEntry(b, entry, v)
			ok = true
			return true
		}
		return false
	})
	return ok
}

// GetAndSet reads the current value at (b, e); if it already equals v it
// returns v unchanged (no mutation). Otherwise it overwrites the entry
// with v and returns the value that was displaced.
func (t *Table) GetAndSet(b uint64, e uint8, v uint32) uint32 {
	lock := t.locks.forBucket(b)
	lock.lock()
	defer lock.unlock()

	current := uint32(t.readEntry(b, e))
	if current == v {
		return current
	}
	t.writeEntry(b, e, v)
	return current
}

// Remove clears the first entry in bucket b equal to v, returning true if
// one was found.
func (t *Table) Remove(b uint64, v uint32) bool {
	lock := t.locks.forBucket(b)
	lock.lock()
	defer lock.unlock()

	ok := false
	t.scanBucket(b, func(entry uint8, value uint32) bool {
		if value == v {
			t.writeEntry(b, entry, 0)
			ok = true
			return true
		}
		return false
	})
	return ok
}

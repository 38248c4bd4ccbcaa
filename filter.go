// Package cuckoofilter implements a concurrent, in-memory cuckoo filter:
// an approximate set-membership structure that answers "definitely not"
// or "might be present" for a previously-hashed item, with bounded
// false-positive probability and support for deletion.
//
// Unlike a Bloom filter, items can be removed. The filter never resizes;
// capacity is fixed at construction via Builder, and Put returns false
// once the table cannot accommodate another insertion.
//
// The filter consumes pre-hashed 64-bit values — it never hashes an item
// itself. Callers are responsible for choosing a well-distributed hash
// function; cmd/cuckoodemo shows one way to wire xxhash in front of it
// for string-keyed callers.
package cuckoofilter

import (
	"sync/atomic"

	"github.com/rverma17/cuckoofilter/internal/table"
	"github.com/rverma17/cuckoofilter/internal/xrand"
)

// altBucketMultiplier is the odd 32-bit constant (murmur2's seed mixing
// constant) used to derive an item's alternate bucket from its primary
// bucket and fingerprint, per spec.md §3/§4.3.
const altBucketMultiplier = 0x5bd1e995

// CuckooFilter is a fixed-capacity, concurrency-safe cuckoo filter. The
// zero value is not usable; construct one via Builder.Build.
type CuckooFilter struct {
	table *table.Table

	buckets          uint64
	entriesPerBucket uint8
	bitsPerEntry     uint8
	stripes          uint64
	maxKicks         uint64

	items atomic.Uint64
}

// fingerprint derives a nonzero F-bit fingerprint from a 64-bit item hash
// by scanning successive, non-overlapping F-bit windows of h from the
// most significant bit down and returning the first nonzero one. If every
// window is zero it returns 1, guaranteeing a nonzero fingerprint (entry
// value zero is reserved to mean "empty") while preserving distribution
// for typical inputs (spec.md §4.3).
func (cf *CuckooFilter) fingerprint(h uint64) uint32 {
	f := cf.bitsPerEntry
	mask := uint64(1)<<f - 1
	windows := 64 / int(f)

	for i := 0; i < windows; i++ {
		shift := 64 - int(f)*(i+1)
		candidate := (h >> uint(shift)) & mask
		if candidate != 0 {
			return uint32(candidate)
		}
	}
	return 1
}

// indexOf folds a signed 64-bit value into [0, buckets) by discarding the
// sign bit (via bitwise complement, not negation, when x is negative —
// the sign bit is treated as noise rather than meaningful magnitude) and
// masking with buckets-1, which is valid because buckets is a power of
// two (spec.md §4.3).
func (cf *CuckooFilter) indexOf(x int64) uint64 {
	if x < 0 {
		x = ^x
	}
	return uint64(x) & (cf.buckets - 1)
}

// primaryBucket computes an item's first candidate bucket from its hash.
// The shift is arithmetic (sign-extending), matching the signed-integer
// semantics indexOf is built to fold.
func (cf *CuckooFilter) primaryBucket(h uint64) uint64 {
	return cf.indexOf(int64(h) >> cf.bitsPerEntry)
}

// altBucketOf computes the other candidate bucket given one bucket and
// the fingerprint that lives (or would live) there. It is its own
// inverse: altBucketOf(altBucketOf(b, f), f) == b, because XOR is applied
// with the same fixed value in both directions and every bucket index
// involved is far smaller than the sign bit folded by indexOf (spec.md §3).
func (cf *CuckooFilter) altBucketOf(b uint64, f uint32) uint64 {
	product := uint64(f) * altBucketMultiplier
	return cf.indexOf(int64(b ^ product))
}

// MightContain reports whether an item with hash h might be in the
// filter. False means the item was definitely never successfully put, or
// has since been removed as many times as it was inserted. True is
// probabilistic. This never mutates the filter and is safe under
// arbitrary concurrency with any other operation.
//
// Because the two candidate buckets of an item may fall in different
// stripes, a MightContain racing an in-flight Put (or Remove) for the
// same item may briefly observe it as absent in the narrow window between
// the item existing at neither candidate bucket and the insertion
// completing; once a Put call has returned true, every MightContain that
// begins afterward is guaranteed to see the item (spec.md §5, Open
// Question 2).
func (cf *CuckooFilter) MightContain(h uint64) bool {
	f := cf.fingerprint(h)
	b1 := cf.primaryBucket(h)
	if cf.table.Contains(b1, f) {
		return true
	}
	b2 := cf.altBucketOf(b1, f)
	return cf.table.Contains(b2, f)
}

// Put inserts an item by its 64-bit hash. It returns true on success and
// false if the filter is full and no displacement chain of at most
// maxKicks steps could make room — this is not an error, just exhaustion
// (spec.md §7).
//
// When the displacement loop exhausts maxKicks, the last fingerprint
// swapped into the table by getAndSet is left in place: items is not
// incremented, Put returns false, and the fingerprint evicted by the final
// kick is dropped from the table. This is the documented behavior (spec.md §9,
// Open Question 1, option (b)), not a bug to be patched around — reverting
// the final swap would require tracking the whole eviction chain, which
// this filter does not do.
func (cf *CuckooFilter) Put(h uint64) bool {
	f := cf.fingerprint(h)
	b1 := cf.primaryBucket(h)
	if cf.table.AddIfEmpty(b1, f) {
		cf.items.Add(1)
		return true
	}

	b2 := cf.altBucketOf(b1, f)
	if cf.table.AddIfEmpty(b2, f) {
		cf.items.Add(1)
		return true
	}

	return cf.displace(b1, b2, f)
}

// displace runs the cuckoo kick-out loop: starting from a coin-flipped
// home bucket, it repeatedly evicts a random entry, tries to reseat the
// evicted fingerprint in its alternate bucket, and gives up after
// maxKicks swaps.
func (cf *CuckooFilter) displace(b1, b2 uint64, f uint32) bool {
	r := xrand.Get()
	defer xrand.Put(r)

	home := b1
	if r.Bool() {
		home = b2
	}

	for i := uint64(0); i < cf.maxKicks; i++ {
		entry := uint8(r.Intn(int(cf.entriesPerBucket)))
		evicted := cf.table.GetAndSet(home, entry, f)
		f = evicted
		home = cf.altBucketOf(home, f)
		if cf.table.AddIfEmpty(home, f) {
			cf.items.Add(1)
			return true
		}
	}

	return false
}

// Remove deletes an item by its 64-bit hash, returning true if it was
// found (and removing only one copy — duplicate inserts require one
// Remove apiece). False means the item was not present.
func (cf *CuckooFilter) Remove(h uint64) bool {
	f := cf.fingerprint(h)
	b1 := cf.primaryBucket(h)
	if cf.table.Remove(b1, f) {
		cf.items.Add(^uint64(0))
		return true
	}

	b2 := cf.altBucketOf(b1, f)
	if cf.table.Remove(b2, f) {
		cf.items.Add(^uint64(0))
		return true
	}

	return false
}

// Count returns the number of entries in the table matching h's
// fingerprint across both candidate buckets — how many copies of an
// equivalent item are currently stored.
func (cf *CuckooFilter) Count(h uint64) int {
	f := cf.fingerprint(h)
	b1 := cf.primaryBucket(h)
	total := cf.table.Count(b1, f)

	b2 := cf.altBucketOf(b1, f)
	if b2 != b1 {
		total += cf.table.Count(b2, f)
	}
	return total
}

// Items returns the current item count. It is accurate up to bounded,
// transient lag under concurrent mutation (spec.md §3).
func (cf *CuckooFilter) Items() uint64 { return cf.items.Load() }

// Capacity returns the total number of entry slots (Buckets * EntriesPerBucket).
func (cf *CuckooFilter) Capacity() uint64 {
	return cf.buckets * uint64(cf.entriesPerBucket)
}

// LoadFactor returns Items() / Capacity().
func (cf *CuckooFilter) LoadFactor() float64 {
	return float64(cf.Items()) / float64(cf.Capacity())
}

// Buckets returns the bucket count B.
func (cf *CuckooFilter) Buckets() uint64 { return cf.buckets }

// EntriesPerBucket returns E.
func (cf *CuckooFilter) EntriesPerBucket() uint8 { return cf.entriesPerBucket }

// BitsPerEntry returns the fingerprint width F.
func (cf *CuckooFilter) BitsPerEntry() uint8 { return cf.bitsPerEntry }

// ConcurrencyLevel returns the stripe-lock count R.
func (cf *CuckooFilter) ConcurrencyLevel() uint64 { return cf.stripes }

// MaxKicks returns the displacement loop's iteration bound.
func (cf *CuckooFilter) MaxKicks() uint64 { return cf.maxKicks }

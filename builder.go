package cuckoofilter

import (
	"context"
	"math"
	"runtime"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/rverma17/cuckoofilter/internal/logging"
	"github.com/rverma17/cuckoofilter/internal/table"
)

const defaultFalsePositiveRate = 0.002

// Builder derives the configuration tuple (B, E, F, R, maxKicks) from a
// target capacity and false-positive rate, per spec.md §4.3.1, and
// constructs the resulting CuckooFilter. An override whose setter was
// never called is left to the sizing policy; a value passed to a setter,
// including zero, is validated as given.
type Builder struct {
	capacity uint64
	fpp      float64

	bitsPerEntry     uint8
	entriesPerBucket uint8
	concurrencyLevel uint64

	bitsPerEntrySet     bool
	entriesPerBucketSet bool
	concurrencyLevelSet bool

	logger *logging.Logger
}

// Create starts a Builder targeting expectedCapacity items at the default
// false-positive rate (0.2%).
func Create(expectedCapacity uint64) *Builder {
	return &Builder{capacity: expectedCapacity, fpp: defaultFalsePositiveRate}
}

// WithFalsePositiveProbability overrides the target false-positive rate.
func (b *Builder) WithFalsePositiveProbability(p float64) *Builder {
	b.fpp = p
	return b
}

// WithBitsPerEntry overrides the derived fingerprint width F.
func (b *Builder) WithBitsPerEntry(f uint8) *Builder {
	b.bitsPerEntry = f
	b.bitsPerEntrySet = true
	return b
}

// WithEntriesPerBucket overrides the derived slots-per-bucket E.
func (b *Builder) WithEntriesPerBucket(e uint8) *Builder {
	b.entriesPerBucket = e
	b.entriesPerBucketSet = true
	return b
}

// WithConcurrencyLevel overrides the derived stripe-lock count R.
func (b *Builder) WithConcurrencyLevel(r uint64) *Builder {
	b.concurrencyLevel = r
	b.concurrencyLevelSet = true
	return b
}

// WithLogger attaches a structured logger; Build() emits a single summary
// line describing the derived configuration. Optional — a Builder with no
// logger attached builds silently, keeping the hot path dependency-light.
func (b *Builder) WithLogger(l *logging.Logger) *Builder {
	b.logger = l
	return b
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func prevPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return nextPowerOfTwo(n/2 + 1)
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// derive computes the sizing tuple per spec.md §4.3.1, applying any
// overrides the caller supplied, and validates every constraint from
// spec.md §4.3.1's "Validation constraints" paragraph.
func (b *Builder) derive() (buckets, stripes uint64, entries, fingerprintBits uint8, maxKicks uint64, errs *multierror.Error) {
	if b.capacity < 1 {
		errs = multierror.Append(errs, &ConfigError{Kind: InvalidCapacity, Value: b.capacity})
	}
	if !(b.fpp > 0 && b.fpp < 1) {
		errs = multierror.Append(errs, &ConfigError{Kind: InvalidFalsePositiveRate, Value: b.fpp})
	}

	entries = b.entriesPerBucket
	if b.entriesPerBucketSet {
		switch entries {
		case 1, 2, 4, 8:
		default:
			errs = multierror.Append(errs, &ConfigError{Kind: InvalidEntriesPerBucket, Value: entries})
		}
	} else {
		switch {
		case b.fpp < 1e-5:
			entries = 8
		case b.fpp <= 2e-3:
			entries = 4
		default:
			entries = 2
		}
	}

	var alpha float64
	switch entries {
	case 8:
		alpha = 0.98
	case 4:
		alpha = 0.955
	case 2:
		alpha = 0.84
	default:
		alpha = 0.84
	}

	fingerprintBits = b.bitsPerEntry
	if b.bitsPerEntrySet {
		if fingerprintBits < 1 || fingerprintBits > 31 {
			errs = multierror.Append(errs, &ConfigError{Kind: InvalidBitsPerEntry, Value: fingerprintBits})
		}
	} else if b.fpp > 0 && b.fpp < 1 {
		f := math.Ceil((math.Log2(1/b.fpp) + 3) / alpha)
		if f < 1 {
			f = 1
		}
		if f > 31 {
			f = 31
		}
		fingerprintBits = uint8(f)
	}

	if b.capacity >= 1 && entries > 0 {
		raw := uint64(math.Ceil(float64(b.capacity) / (float64(entries) * alpha)))
		if raw < 1 {
			raw = 1
		}
		buckets = nextPowerOfTwo(raw)
	} else {
		buckets = 1
	}

	if b.concurrencyLevelSet {
		stripes = b.concurrencyLevel
		if stripes < 1 || !isPowerOfTwo(stripes) || stripes > buckets {
			errs = multierror.Append(errs, &ConfigError{Kind: InvalidConcurrencyLevel, Value: stripes})
		}
	} else {
		hw := uint64(runtime.GOMAXPROCS(0))
		raw := hw
		if raw > buckets {
			raw = buckets
		}
		stripes = prevPowerOfTwo(raw)
	}

	maxKicks = buckets
	if maxKicks > 500 {
		maxKicks = 500
	}

	return buckets, stripes, entries, fingerprintBits, maxKicks, errs
}

// Build validates the accumulated settings and constructs the filter. All
// validation failures are reported together via a joined error rather
// than stopping at the first one found.
func (b *Builder) Build() (*CuckooFilter, error) {
	buckets, stripes, entries, fingerprintBits, maxKicks, errs := b.derive()
	if errs.ErrorOrNil() != nil {
		return nil, errs.ErrorOrNil()
	}

	tbl := table.New(buckets, entries, fingerprintBits, stripes)
	cf := &CuckooFilter{
		table:            tbl,
		buckets:          buckets,
		entriesPerBucket: entries,
		bitsPerEntry:     fingerprintBits,
		stripes:          stripes,
		maxKicks:         maxKicks,
	}

	if b.logger != nil {
		b.logger.Info(context.Background(), logging.ComponentBuilder, logging.ActionBuild,
			"cuckoo filter built", map[string]any{
				"capacity":           b.capacity,
				"false_positive_rate": b.fpp,
				"buckets":            buckets,
				"entries_per_bucket": entries,
				"bits_per_entry":     fingerprintBits,
				"stripes":            stripes,
				"max_kicks":          maxKicks,
			})
	}

	return cf, nil
}

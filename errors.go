package cuckoofilter

import "fmt"

// ConfigErrorKind classifies a Builder validation failure.
type ConfigErrorKind int

const (
	// InvalidCapacity means the expected capacity was <= 0.
	InvalidCapacity ConfigErrorKind = iota
	// InvalidFalsePositiveRate means p was outside (0, 1).
	InvalidFalsePositiveRate
	// InvalidBitsPerEntry means F was outside [1, 31].
	InvalidBitsPerEntry
	// InvalidEntriesPerBucket means E was not one of {1, 2, 4, 8}.
	InvalidEntriesPerBucket
	// InvalidConcurrencyLevel means R was < 1, not a power of two, or
	// greater than the derived bucket count.
	InvalidConcurrencyLevel
)

func (k ConfigErrorKind) String() string {
	switch k {
	case InvalidCapacity:
		return "invalid capacity"
	case InvalidFalsePositiveRate:
		return "invalid false positive rate"
	case InvalidBitsPerEntry:
		return "invalid bits per entry"
	case InvalidEntriesPerBucket:
		return "invalid entries per bucket"
	case InvalidConcurrencyLevel:
		return "invalid concurrency level"
	default:
		return "unknown"
	}
}

// ConfigError reports a single invalid Builder setting. The Builder
// collects every violation it finds (see builder.go) and returns them
// joined via hashicorp/go-multierror, so a caller sees every problem with
// their configuration in one Build() call rather than one per retry.
type ConfigError struct {
	Kind  ConfigErrorKind
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cuckoofilter: %s: %v", e.Kind, e.Value)
}

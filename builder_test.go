package cuckoofilter_test

import (
	"errors"
	"testing"

	multierror "github.com/hashicorp/go-multierror"

	cuckoofilter "github.com/rverma17/cuckoofilter"
)

func TestBuilderDefaultSizing(t *testing.T) {
	f, err := cuckoofilter.Create(100).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if f.Buckets() != 32 {
		t.Errorf("Buckets() = %d, want 32", f.Buckets())
	}
	if f.EntriesPerBucket() != 4 {
		t.Errorf("EntriesPerBucket() = %d, want 4", f.EntriesPerBucket())
	}
	if f.BitsPerEntry() != 13 {
		t.Errorf("BitsPerEntry() = %d, want 13", f.BitsPerEntry())
	}
	if f.Capacity() != 128 {
		t.Errorf("Capacity() = %d, want 128", f.Capacity())
	}
}

func TestBuilderSizingAtOnePercentFalsePositiveRate(t *testing.T) {
	f, err := cuckoofilter.Create(100).WithFalsePositiveProbability(0.01).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if f.Buckets() != 64 {
		t.Errorf("Buckets() = %d, want 64", f.Buckets())
	}
	if f.EntriesPerBucket() != 2 {
		t.Errorf("EntriesPerBucket() = %d, want 2", f.EntriesPerBucket())
	}
	if f.BitsPerEntry() != 12 {
		t.Errorf("BitsPerEntry() = %d, want 12", f.BitsPerEntry())
	}
}

func TestBuilderSizingAtTightFalsePositiveRate(t *testing.T) {
	f, err := cuckoofilter.Create(100).WithFalsePositiveProbability(1e-6).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if f.Buckets() != 16 {
		t.Errorf("Buckets() = %d, want 16", f.Buckets())
	}
	if f.EntriesPerBucket() != 8 {
		t.Errorf("EntriesPerBucket() = %d, want 8", f.EntriesPerBucket())
	}
	if f.BitsPerEntry() != 24 {
		t.Errorf("BitsPerEntry() = %d, want 24", f.BitsPerEntry())
	}
}

func TestBuilderAggregatesValidationErrors(t *testing.T) {
	_, err := cuckoofilter.Create(0).
		WithFalsePositiveProbability(2).
		WithEntriesPerBucket(3).
		WithBitsPerEntry(0).
		WithConcurrencyLevel(3).
		Build()
	if err == nil {
		t.Fatalf("expected a validation error")
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected a *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 5 {
		t.Fatalf("expected 5 aggregated errors, got %d: %v", len(merr.Errors), merr.Errors)
	}
}

func TestBuilderConcurrencyLevelOverrideMustDivideBuckets(t *testing.T) {
	_, err := cuckoofilter.Create(1000).WithConcurrencyLevel(5).Build()
	if err == nil {
		t.Fatalf("expected a validation error for a non-power-of-two concurrency level")
	}

	f, err := cuckoofilter.Create(1000).WithConcurrencyLevel(4).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if f.ConcurrencyLevel() != 4 {
		t.Errorf("ConcurrencyLevel() = %d, want 4", f.ConcurrencyLevel())
	}
}

func TestBuilderEntriesPerBucketOverrideMustBePowerOfTwoUpToEight(t *testing.T) {
	for _, e := range []uint8{1, 2, 4, 8} {
		if _, err := cuckoofilter.Create(1000).WithEntriesPerBucket(e).Build(); err != nil {
			t.Errorf("entries per bucket %d should be valid: %v", e, err)
		}
	}
	for _, e := range []uint8{0, 3, 16} {
		if _, err := cuckoofilter.Create(1000).WithEntriesPerBucket(e).Build(); err == nil {
			t.Errorf("entries per bucket %d should be rejected", e)
		}
	}
}

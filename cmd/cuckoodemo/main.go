package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cespare/xxhash/v2"

	cuckoofilter "github.com/rverma17/cuckoofilter"
	"github.com/rverma17/cuckoofilter/internal/logging"
	"github.com/rverma17/cuckoofilter/pkg/config"
)

var (
	configPath = flag.String("config", "configs/cuckoodemo.yaml", "Path to configuration file")
	itemCount  = flag.Int("items", 0, "Number of synthetic items to insert (0 = use filter.expected_capacity)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.InitializeFromConfig(cfg.Name, logging.FileConfig{
		Level:         cfg.Logging.Level,
		EnableConsole: cfg.Logging.EnableConsole,
		EnableFile:    cfg.Logging.EnableFile,
		LogFile:       cfg.Logging.LogFile,
		LogDir:        cfg.Logging.LogDir,
		BufferSize:    cfg.Logging.BufferSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	startupID := logging.NewCorrelationID()
	ctx := logging.WithCorrelationID(context.Background(), startupID)

	logger.Info(ctx, logging.ComponentMain, logging.ActionStart, "cuckoodemo starting", map[string]any{
		"name":        cfg.Name,
		"config_file": *configPath,
	})

	builder := cuckoofilter.Create(cfg.Filter.ExpectedCapacity).
		WithFalsePositiveProbability(cfg.Filter.FalsePositiveRate).
		WithLogger(logger)
	if cfg.Filter.BitsPerEntry != 0 {
		builder = builder.WithBitsPerEntry(cfg.Filter.BitsPerEntry)
	}
	if cfg.Filter.EntriesPerBucket != 0 {
		builder = builder.WithEntriesPerBucket(cfg.Filter.EntriesPerBucket)
	}
	if cfg.Filter.ConcurrencyLevel != 0 {
		builder = builder.WithConcurrencyLevel(cfg.Filter.ConcurrencyLevel)
	}

	filter, err := builder.Build()
	if err != nil {
		logger.Error(ctx, logging.ComponentMain, logging.ActionBuild, "failed to build cuckoo filter", err)
		os.Exit(1)
	}

	n := *itemCount
	if n == 0 {
		n = int(cfg.Filter.ExpectedCapacity)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go runWorkload(ctx, logger, filter, n)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	cancel()
	logger.Info(ctx, logging.ComponentMain, logging.ActionStart, "cuckoodemo shutting down", map[string]any{
		"items":       filter.Items(),
		"load_factor": filter.LoadFactor(),
	})
}

// runWorkload inserts n synthetic keys (hashed with xxhash) and reports a
// summary. It exits early if ctx is cancelled mid-run.
func runWorkload(ctx context.Context, logger *logging.Logger, filter *cuckoofilter.CuckooFilter, n int) {
	inserted := 0
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		key := fmt.Sprintf("demo-item-%d", i)
		h := xxhash.Sum64String(key)
		if filter.Put(h) {
			inserted++
		}
	}

	falsePositives := 0
	const probes = 1000
	for i := n; i < n+probes; i++ {
		key := fmt.Sprintf("demo-item-%d", i)
		if filter.MightContain(xxhash.Sum64String(key)) {
			falsePositives++
		}
	}

	logger.Info(ctx, logging.ComponentMain, logging.ActionAdd, "workload complete", map[string]any{
		"requested":            n,
		"inserted":             inserted,
		"observed_items":       filter.Items(),
		"load_factor":          filter.LoadFactor(),
		"negative_probes":      probes,
		"false_positives":      falsePositives,
		"false_positive_ratio": float64(falsePositives) / float64(probes),
	})
}

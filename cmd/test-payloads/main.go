// Command test-payloads writes synthetic platform payload files for
// exercising the derivation CLI and the batch pipeline.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/algomate/insights/internal/testpayloads"
	"github.com/algomate/insights/pkg/logger"
)

func main() {
	cfg := testpayloads.DefaultConfig()
	flag.IntVar(&cfg.NumPayloads, "n", cfg.NumPayloads, "number of payloads to generate")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory to write payload JSON files into")
	flag.StringVar(&cfg.Platform, "platform", cfg.Platform, "platform name stamped on every profile")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; 0 picks a time-based seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := testpayloads.NewGenerator(cfg)
	count, err := gen.WriteFiles(ctx)
	if err != nil {
		logger.Get().Error(ctx, "payload generation failed", logger.Error(err))
		os.Exit(1)
	}

	logger.Get().Info(ctx, "done", logger.Int("payloads", count))
}

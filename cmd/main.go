package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	app "github.com/algomate/insights/internal/app"
	"github.com/algomate/insights/internal/config"
	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/pkg/logger"
	"github.com/algomate/insights/pkg/metrics"

	"github.com/prometheus/common/expfmt"
)

// File permission constants.
const (
	reportFilePerm = 0o600
	reportDirPerm  = 0o750
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.InputPath == "" {
		os.Stderr.WriteString("ALGOMATE_INPUT_PATH must point at a payload JSON file or a directory of them\n")
		return
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWindowDays(cfg.WindowDays),
		app.WithRecommendationLimit(cfg.RecommendationLimit),
		app.WithFastRuntimeThreshold(cfg.FastRuntimeMS),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSnapshotShardCount(cfg.SnapshotShardCount),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	if err := run(ctx, cfg, svc); err != nil {
		loggerInstance.Error(ctx, "derivation run failed", logger.Error(err))
		return
	}

	if cfg.DumpMetrics {
		if err := dumpMetrics(os.Stdout); err != nil {
			loggerInstance.Warn(ctx, "failed to dump metrics", logger.Error(err))
		}
	}
}

// run dispatches on whether the input path is a single payload file or a
// directory of them.
func run(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("stat input path: %w", err)
	}

	if !info.IsDir() {
		return runSingle(ctx, cfg, svc)
	}
	return runBatch(ctx, cfg, svc)
}

func runSingle(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	payload, err := readPayload(cfg.InputPath)
	if err != nil {
		return err
	}

	report, err := svc.Derive(ctx, payload)
	if err != nil {
		return err
	}

	if cfg.OutputDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReport(cfg.OutputDir, report)
}

func runBatch(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	matches, err := filepath.Glob(filepath.Join(cfg.InputPath, "*.json"))
	if err != nil {
		return fmt.Errorf("list payload files: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no payload files under %s", cfg.InputPath)
	}
	sort.Strings(matches)

	payloads := make([]model.Payload, 0, len(matches))
	for _, path := range matches {
		payload, err := readPayload(path)
		if err != nil {
			logger.Get().Warn(ctx, "skipping unreadable payload", logger.String("path", path), logger.Error(err))
			continue
		}
		payloads = append(payloads, payload)
	}

	reports, err := svc.DeriveBatch(ctx, payloads)
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "reports"
	}
	for _, report := range reports {
		if err := writeReport(outDir, report); err != nil {
			return err
		}
	}

	logger.Get().Info(ctx, "batch derivation complete",
		logger.Int("payloads", len(payloads)),
		logger.Int("reports", len(reports)),
		logger.String("outputDir", outDir),
	)
	return nil
}

func readPayload(path string) (model.Payload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return model.Payload{}, fmt.Errorf("read payload: %w", err)
	}
	var payload model.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Payload{}, fmt.Errorf("decode payload %s: %w", path, err)
	}
	return payload, nil
}

func writeReport(dir string, report app.Report) error {
	if err := os.MkdirAll(dir, reportDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", report.Username, err)
	}
	name := filepath.Join(dir, report.Username+"_"+report.Platform+".json")
	if err := os.WriteFile(name, data, reportFilePerm); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// dumpMetrics writes the gathered Prometheus families in text format.
// There is no HTTP listener in this tool, so this is the one way to see
// the counters a run produced.
func dumpMetrics(w *os.File) error {
	families, err := metrics.Registry().Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

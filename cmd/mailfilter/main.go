package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/events"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mailfilter", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	trainPath := fs.String("t", "", "training corpus: a directory of emails or a single file (required)")
	testPath := fs.String("T", "", "test corpus: a directory of emails or a single file (required)")
	stopPath := fs.String("s", "", "stop-word list, separated by commas, pipes, plus signs or whitespace")
	trainDir := fs.String("to", "", "output directory for train.arff and trainInvertedIndexFile.txt (default: working directory)")
	testDir := fs.String("To", "", "output directory for test.arff and testInvertedIndexFile.txt (default: working directory)")
	upper := fs.Float64("u", 0.59, "upper document-frequency percentile")
	lower := fs.Float64("l", 0.01, "lower document-frequency percentile")
	stem := fs.String("stemmer", "", "stemmer: porter, snowball, suffix or none")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return apperrors.ExitConfiguration
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}

	// Flags given on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.Input.TrainPath = *trainPath
		case "T":
			cfg.Input.TestPath = *testPath
		case "s":
			cfg.Input.StopWordsPath = *stopPath
		case "to":
			cfg.Output.TrainDir = *trainDir
		case "To":
			cfg.Output.TestDir = *testDir
		case "u":
			cfg.Pipeline.UpperPercentile = *upper
		case "l":
			cfg.Pipeline.LowerPercentile = *lower
		case "stemmer":
			cfg.Pipeline.Stemmer = *stem
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		fs.Usage()
		return apperrors.ExitCode(err)
	}
	if err := pipeline.Preflight(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		fs.Usage()
		return apperrors.ExitCode(err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)

	m := metrics.New()
	out, err := sink.FromConfig(cfg, m)
	if err != nil {
		slog.Error("failed to open sinks", "error", err)
		return apperrors.ExitCode(err)
	}
	defer out.Close()

	var pub events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled {
		pub = events.NewKafkaPublisher(cfg.Kafka)
	}
	defer pub.Close()

	p, err := pipeline.New(cfg, out, pub, m)
	if err != nil {
		slog.Error("failed to prepare pipeline", "error", err)
		return apperrors.ExitCode(err)
	}

	slog.Info("starting feature extraction", "run_id", runID, "sinks", cfg.Output.Sinks)
	res, err := p.Run(ctx)
	if cfg.Metrics.Enabled && cfg.Metrics.Textfile != "" {
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Error("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}
	if err != nil {
		slog.Error("feature extraction failed", "run_id", runID, "error", err)
		return apperrors.ExitCode(err)
	}

	slog.Info("feature extraction complete",
		"run_id", runID,
		"vocabulary", len(res.Selection.Vocabulary),
		"train_rows", len(res.Train.Table.Rows),
		"test_rows", len(res.Test.Table.Rows),
	)
	return 0
}

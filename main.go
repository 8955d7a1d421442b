package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-parallelism/pkg/parallelism"
	"go-parallelism/pkg/roster"
)

var (
	// Global flags
	verbose     bool
	logLevel    string
	parallel    int
	batchSize   int
	rosterPath  string
	asOfFlag    string
	dumpMetrics bool

	// Logger
	logger *zap.Logger
)

// rootCmd runs every demonstration in order.
var rootCmd = &cobra.Command{
	Use:   "parallelism",
	Short: "Demonstrations of parallel stream processing",
	Long: `Runs a fixed sequence of demonstrations of parallel collection processing:
parallel aggregation, concurrent grouping, ordered and unordered parallel
traversal, interference with a stream's own source, and stateful mappers.

Results go to standard output. The one deliberately provoked failure is
caught and written to standard error.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.IntVarP(&parallel, "parallelism", "p", 0, "Workers per parallel stage (0 = GOMAXPROCS)")
	flags.IntVar(&batchSize, "batch-size", 0, "Elements per partition (0 = automatic)")
	flags.StringVar(&rosterPath, "roster", "", "YAML roster file (default: built-in roster)")
	flags.StringVar(&asOfFlag, "as-of", "", "Date ages are computed on, YYYY-MM-DD (default: today)")
	flags.BoolVar(&dumpMetrics, "metrics", false, "Write metrics to stderr after the run")
}

func run(cmd *cobra.Command, args []string) error {
	if parallel < 0 {
		return fmt.Errorf("--parallelism must not be negative, got %d", parallel)
	}
	if batchSize < 0 {
		return fmt.Errorf("--batch-size must not be negative, got %d", batchSize)
	}

	asOf := time.Now()
	if asOfFlag != "" {
		var err error
		asOf, err = time.Parse(roster.DateLayout, asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
	}

	people := roster.Default()
	if rosterPath != "" {
		var err error
		people, err = roster.Load(rosterPath)
		if err != nil {
			return err
		}
		logger.Info("Loaded roster", zap.String("path", rosterPath), zap.Int("members", len(people)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Starting demonstrations",
		zap.Int("cores", runtime.GOMAXPROCS(0)),
		zap.Time("as_of", asOf))

	metrics := parallelism.NewMetrics()
	runner := parallelism.NewRunner(
		parallelism.Config{Parallelism: parallel, BatchSize: batchSize, AsOf: asOf},
		people,
		parallelism.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		parallelism.WithLogger(logger),
		parallelism.WithMetrics(metrics),
	)

	startTime := time.Now()
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Debug("Demonstrations complete", zap.Duration("elapsed", time.Since(startTime)))

	if dumpMetrics {
		return metrics.WriteText(cmd.ErrOrStderr())
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

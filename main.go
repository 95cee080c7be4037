package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"moser/config"
	"moser/experiments"
	"moser/report"
	"moser/sim"
	"moser/solver"
)

var rootCmd = &cobra.Command{
	Use:   "moser",
	Short: "Threshold solver and parallel Monte-Carlo validator for the bounded press game",
	Long: `moser solves the bounded press game: up to N presses of a button, each
revealing a prize drawn uniformly from [0, ceiling); keeping a prize ends
the game, discarding it spends a press, and whatever the final press
reveals must be kept. The optimal policy is one acceptance threshold per
press remaining.

The root command derives the threshold table and validates it empirically,
simulating games across parallel workers and comparing the sample mean
against the theoretical expectation.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runSimulate,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the optimal threshold table without simulating",
	RunE:  runTable,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Measure how simulation throughput scales with worker count",
	RunE:  runSweep,
}

var (
	flagTrials     int64
	flagWorkers    int
	flagPresses    int
	flagCeiling    float64
	flagSeed       uint64
	flagProgress   time.Duration
	flagLogLevel   string
	flagQuiet      bool
	flagMaxWorkers int
)

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagTrials, "trials", 1_000_000, "Number of games to simulate")
	rootCmd.PersistentFlags().IntVar(&flagPresses, "presses", 10, "Press budget per game")
	rootCmd.PersistentFlags().Float64Var(&flagCeiling, "ceiling", 100_000, "Exclusive upper bound of a prize draw")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Base seed for reproducible runs (omit for a fresh one)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Only log warnings and errors")

	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker goroutines (0 = one per CPU)")
	rootCmd.Flags().DurationVar(&flagProgress, "progress", 0, "Heartbeat interval while running (0 = off)")

	sweepCmd.Flags().IntVar(&flagMaxWorkers, "max-workers", 0, "Largest worker count to sweep (0 = one per CPU)")

	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(sweepCmd)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	level := flagLogLevel
	if !cmd.Flags().Changed("log-level") {
		if cfg, err := config.Load(); err == nil && cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	if flagQuiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	return nil
}

// loadConfig layers the sources: built-in defaults, then environment, then
// any flag the user actually set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Trials = flagTrials
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("presses") {
		cfg.Presses = flagPresses
	}
	if flags.Changed("ceiling") {
		cfg.Ceiling = flagCeiling
	}
	if flags.Changed("seed") {
		seed := flagSeed
		cfg.Seed = &seed
	}
	if flags.Changed("progress") {
		cfg.Progress = flagProgress
	}
	return cfg, nil
}

// resolveWorkers turns the "0 = auto" convention into a concrete count.
// CPU discovery happens here so the simulation core never guesses.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// resolveSeed pins unseeded runs to a fresh entropy seed so the log can name
// the exact seed needed to replay the run.
func resolveSeed(pinned *uint64) uint64 {
	if pinned != nil {
		return *pinned
	}
	return sim.NewSeed()
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := solver.New(cfg.Presses, cfg.Ceiling)
	if err != nil {
		return err
	}

	workers := resolveWorkers(cfg.Workers)
	seed := resolveSeed(cfg.Seed)

	log.Info().
		Int64("trials", cfg.Trials).
		Int("workers", workers).
		Uint64("seed", seed).
		Msg("starting simulation...")

	options := []sim.Option{sim.WithSeed(seed), sim.WithMetrics()}
	if cfg.Progress > 0 {
		options = append(options, sim.WithProgress(cfg.Progress))
	}

	runner := sim.New(workers, options...)
	res, err := runner.Run(cmd.Context(), cfg.Trials, table)
	if err != nil {
		return err
	}

	log.Info().
		Float64("mean", res.Mean).
		Float64("expected", table.Expected()).
		Dur("elapsed", res.Elapsed).
		Msg("completed simulation")

	if err := report.WriteTable(os.Stdout, table); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	return report.WriteResult(os.Stdout, table, res)
}

func runTable(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := solver.New(cfg.Presses, cfg.Ceiling)
	if err != nil {
		return err
	}
	return report.WriteTable(os.Stdout, table)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records, err := experiments.RunScaling(cmd.Context(), experiments.ScalingConfig{
		Trials:     cfg.Trials,
		MaxWorkers: resolveWorkers(flagMaxWorkers),
		Presses:    cfg.Presses,
		Ceiling:    cfg.Ceiling,
		Seed:       resolveSeed(cfg.Seed),
	})
	if err != nil {
		return err
	}
	return report.WriteScaling(os.Stdout, records)
}

func main() {
	// An interrupt cancels the run; workers stop at their next flush boundary.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("moser failed")
	}
}

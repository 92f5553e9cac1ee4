package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bookyear/internal/books"
	"bookyear/internal/books/google"
	"bookyear/internal/config"
	"bookyear/internal/core"
	"bookyear/internal/log"
)

// FinderFunc builds the metadata client used by the enrich command.
type FinderFunc func(ctx context.Context, cfg *config.Config, logger *log.Logger) (books.VolumeFinder, error)

// Options wires the command tree to its environment.
type Options struct {
	Out io.Writer // command output, default stdout
	Err io.Writer // logs and reports, default stderr

	// NewFinder defaults to the Google Books client.
	NewFinder FinderFunc

	// SkipEnvFile disables loading .env, used by tests.
	SkipEnvFile bool
}

type app struct {
	opts   Options
	cfg    *config.Config
	logger *log.Logger
	year   int
	runID  string
	start  time.Time
}

// Execute runs the bookyear command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(Options{}).ExecuteContext(ctx)
}

// NewRootCommand builds the bookyear command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.NewFinder == nil {
		opts.NewFinder = googleFinder
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "bookyear",
		Short: "Summarise a year of reading",
		Long: `bookyear turns a reading log into a year-in-review: statistics, a month by
month timeline, featured books and a static website to share it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Debug("Command finished",
				"command", cmd.Name(),
				log.FieldDuration, time.Since(a.start).Milliseconds())
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().IntVar(&a.year, "year", 0, "reading year to load (overrides READING_YEAR)")

	root.AddCommand(
		a.renderCommand(),
		a.statsCommand(),
		a.checkCommand(),
		a.enrichCommand(),
		a.importCommand(),
		a.exportCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if !a.opts.SkipEnvFile {
		LoadEnvFile()
	}
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("year") {
		cfg.ReadingYear = a.year
	}
	a.cfg = cfg
	a.start = time.Now()
	a.runID = log.NewRunID()
	a.logger = SetupLogger(cfg, a.opts.Err).With(log.FieldRunID, a.runID)
	log.SetDefault(a.logger)

	ctx := log.WithRunID(cmd.Context(), a.runID)
	cmd.SetContext(log.IntoContext(ctx, a.logger))
	a.logger.Debug("Configuration loaded",
		log.FieldBackend, cfg.DataBackend,
		log.FieldYear, cfg.ReadingYear,
		"command", cmd.Name())
	return nil
}

// loadYear reads the configured year from the configured store.
func (a *app) loadYear(ctx context.Context) (core.ReadingYear, error) {
	res, err := OpenStore(ctx, a.logger, a.cfg)
	if err != nil {
		return core.ReadingYear{}, err
	}
	defer res.Close()

	y, err := res.Store.ReadYear(ctx, a.cfg.ReadingYear)
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("load reading year: %w", err)
	}
	a.logger.InfoContext(ctx, "Reading year loaded",
		log.FieldYear, y.Year,
		log.FieldCount, len(y.Books),
		log.FieldBackend, a.cfg.DataBackend)
	return y, nil
}

func googleFinder(ctx context.Context, cfg *config.Config, logger *log.Logger) (books.VolumeFinder, error) {
	return google.NewFromConfig(ctx, cfg, logger.WithComponent(log.ComponentGoogle).Slog())
}

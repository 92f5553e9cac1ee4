package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookyear/internal/cache"
	"bookyear/internal/enrich"
	"bookyear/internal/log"
	"bookyear/internal/records"
)

func (a *app) enrichCommand() *cobra.Command {
	var (
		fields  string
		outFile string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill missing page counts and genres from Google Books",
		Long: `Look up every book that has no page count or no genre and write an enriched
snapshot. Books that already have the field are left alone, and a failed
lookup leaves the field empty. The input is never modified: the snapshot is
written to --out, or to stdout when --out is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := SignalContext(cmd.Context())
			defer stop()

			selected, err := enrich.ParseFields(fields)
			if err != nil {
				return err
			}
			f, err := outputFormat(format, outFile)
			if err != nil {
				return err
			}

			y, err := a.loadYear(ctx)
			if err != nil {
				return err
			}

			finder, err := a.opts.NewFinder(ctx, a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("create metadata client: %w", err)
			}
			if c, ok := finder.(interface{ Cache() cache.Cleaner }); ok {
				mgr := cache.NewManager(a.logger.WithComponent(log.ComponentCache).Slog())
				mgr.Register(c.Cache())
				mgr.StartCleanup(ctx, a.cfg.LookupCacheTTL)
				defer mgr.Stop()
			}

			p := enrich.New(finder, enrich.Config{
				Fields: selected,
				Delay:  a.cfg.EnrichDelay,
			}, a.logger.WithComponent(log.ComponentEnrich).Slog())

			enriched, report, err := p.Run(ctx, y)
			if err != nil {
				return err
			}

			if err := writeSnapshot(cmd, enriched, outFile, f); err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "Looked up %d book(s): %d page count(s) and %d genre(s) filled, %d failed\n",
				report.Looked, report.FilledPages, report.FilledGenres, report.Failed)
			fmt.Fprintf(errOut, "Books with missing genre after enrichment: %d\n", report.MissingGenres)
			fmt.Fprintf(errOut, "Estimated total pages for %d: %d\n", enriched.Year, report.TotalPages)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "pages,genres", "fields to fill: pages, genres or both")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the enriched snapshot to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "snapshot format: json or yaml (default from --out extension, else json)")
	return cmd
}

// outputFormat resolves the snapshot format from the flag, then the output
// file extension, then JSON.
func outputFormat(flag, path string) (records.Format, error) {
	if flag != "" {
		return records.ParseFormat(flag)
	}
	if path != "" {
		return records.FormatFromPath(path)
	}
	return records.FormatJSON, nil
}

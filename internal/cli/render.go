package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookyear/internal/log"
	"bookyear/internal/reading"
	"bookyear/internal/site"
)

func (a *app) renderCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the static website",
		Long:  `Render the year-in-review website (home, books, timeline, stats and letter pages) into a directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if outDir == "" {
				outDir = a.cfg.SiteOutputDir
			}
			policy, err := reading.ParseFeaturedPolicy(a.cfg.FeaturedPolicy)
			if err != nil {
				return err
			}

			y, err := a.loadYear(ctx)
			if err != nil {
				return err
			}

			r, err := site.New(site.Options{
				Policy: policy,
				Logger: a.logger.WithComponent(log.ComponentSite).Slog(),
			})
			if err != nil {
				return err
			}
			res, err := r.Render(ctx, y, outDir)
			if err != nil {
				return fmt.Errorf("render site: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d pages and %d assets to %s\n", res.Pages, res.Assets, outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default SITE_OUTPUT_DIR)")
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bookyear/internal/core"
	"bookyear/internal/reading"
	"bookyear/internal/site"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func (a *app) statsCommand() *cobra.Command {
	var month int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the reading summary",
		Long: `Print totals, average rating, books per month and genres for the year.
With --month, only the books finished in that month are summarised.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("month") && (month < 1 || month > core.MonthsInYear) {
				return fmt.Errorf("invalid month %d: must be between 1 and 12", month)
			}
			y, err := a.loadYear(cmd.Context())
			if err != nil {
				return err
			}

			policy, err := reading.ParseFeaturedPolicy(a.cfg.FeaturedPolicy)
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			if month > 0 {
				return printMonth(out, p, y, month)
			}
			return printYear(out, p, y, policy)
		},
	}
	cmd.Flags().IntVarP(&month, "month", "m", 0, "only summarise this month (1-12)")
	return cmd
}

func printYear(w io.Writer, p *message.Printer, y core.ReadingYear, policy reading.FeaturedPolicy) error {
	stats := reading.ComputeStats(y.Books)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Reading year\t%d (%s)\n", y.Year, y.ReaderName)
	fmt.Fprintf(tw, "Books\t%d (%d%% of goal %d)\n", stats.TotalBooks, reading.GoalProgress(stats.TotalBooks, y.Goal), y.Goal)
	fmt.Fprintf(tw, "Pages\t%s\n", p.Sprintf("%d", stats.TotalPages))
	fmt.Fprintf(tw, "Average rating\t%s\n", site.FormatAverage(stats.AvgRating, 2))
	if stats.Undated > 0 {
		fmt.Fprintf(tw, "Undated\t%d\n", stats.Undated)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Books per month")
	for i, n := range stats.BooksPerMonth {
		fmt.Fprintf(tw, "  %s\t%d\n", time.Month(i+1), n)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Genres")
	genres := reading.RankGenres(stats.GenreCounts)
	if len(genres) == 0 {
		fmt.Fprintln(tw, "  No genre information available")
	}
	for _, g := range genres {
		fmt.Fprintf(tw, "  %s\t%d\n", g.Genre, g.Count)
	}

	featured := reading.Featured(reading.SortByFinished(y.Books), policy)
	if len(featured) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Featured")
		for _, b := range featured {
			fmt.Fprintf(tw, "  %s\t%s\n", b.Title, b.Author)
		}
	}
	return tw.Flush()
}

func printMonth(w io.Writer, p *message.Printer, y core.ReadingYear, month int) error {
	books := reading.GroupByMonth(reading.SortByFinished(y.Books)).Month(month)
	stats := reading.ComputeStats(books)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %d\t%d book(s)\n", time.Month(month), y.Year, stats.TotalBooks)
	fmt.Fprintf(tw, "Pages\t%s\n", p.Sprintf("%d", stats.TotalPages))
	fmt.Fprintf(tw, "Average rating\t%s\n", site.FormatAverage(stats.AvgRating, 2))
	if len(books) == 0 {
		fmt.Fprintln(tw, "No books finished this month.")
	}
	for _, b := range books {
		rating := "unrated"
		if b.HasRating() {
			rating = site.Stars(b.RatingValue())
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", b.DateFinished, b.Title, b.Author, rating)
	}
	return tw.Flush()
}

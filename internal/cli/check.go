package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bookyear/internal/log"
	"bookyear/internal/reading"
)

// ErrCheckFailed is returned by the check command when problems were found.
var ErrCheckFailed = errors.New("data check failed")

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report data-quality problems",
		Long: `Validate the reading year: empty ids, titles or authors, malformed finish
dates, ratings outside 1-5, negative page counts and duplicate ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			y, err := a.loadYear(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := problemsOf(y.Validate())
			for _, p := range problems {
				fmt.Fprintf(out, "- %s\n", p)
			}

			stats := reading.ComputeStats(y.Books)
			if len(problems) > 0 {
				a.logger.WarnContext(ctx, "Data check found problems",
					log.FieldYear, y.Year,
					log.FieldCount, len(problems),
					log.FieldOperation, log.OpValidate)
				return fmt.Errorf("%w: %d problem(s) in %d book(s)", ErrCheckFailed, len(problems), stats.TotalBooks)
			}

			fmt.Fprintf(out, "OK: %d book(s) in %d, no problems found\n", stats.TotalBooks, y.Year)
			return nil
		},
	}
}

// problemsOf flattens a joined validation error into one line per problem.
func problemsOf(err error) []string {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}

package commands

import (
	"fmt"
	"time"

	"dumarte_backend/internal/countup"

	"github.com/spf13/cobra"
)

// countup <text>: preview the animation of a display value in the terminal.
func countupCmd() *cobra.Command {
	var (
		duration time.Duration
		decimals int
		start    float64
	)

	cmd := &cobra.Command{
		Use:   "countup <text>",
		Short: "Preview the count-up animation of a display value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			parsed := countup.Parse(args[0])
			fmt.Fprintf(out, "prefix=%q magnitude=%v suffix=%q\n", parsed.Prefix, parsed.Magnitude, parsed.Suffix)

			counter := countup.New(countup.Spec{
				Duration:      duration,
				StartValue:    start,
				DecimalPlaces: decimals,
			}, args[0], func(f countup.Frame) {
				fmt.Fprintf(out, "\r%s", f.Text)
				if f.Final {
					fmt.Fprintln(out)
				}
			})
			defer counter.Close()

			counter.Activate()
			counter.Wait()
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", countup.DefaultDuration, "animation duration")
	cmd.Flags().IntVar(&decimals, "decimals", 0, "decimal places")
	cmd.Flags().Float64Var(&start, "start", 0, "start value")
	return cmd
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/phrazzld/bmi-api/internal/api"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show monthly BMI and weight averages",
		Long: `Show monthly averages. Measurements from different years that fall in the
same calendar month are averaged together.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			var stats api.StatisticsResponse
			if err := client.getJSON(cmd.Context(), "/api/measurements/statistics", nil, &stats); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(stats.MonthlyBMI) == 0 {
				fmt.Fprintln(out, "No measurements found.")
				return nil
			}

			weights := make(map[string]string, len(stats.MonthlyWeight))
			for _, w := range stats.MonthlyWeight {
				weights[w.Month] = w.Value.String()
			}

			bold := color.New(color.Bold)
			fmt.Fprintf(out, "%s\n", bold.Sprintf("%-10s %8s %10s", "MONTH", "BMI", "WEIGHT"))
			for _, b := range stats.MonthlyBMI {
				fmt.Fprintf(out, "%-10s %8s %10s\n", b.Month, b.Value.String(), weights[b.Month])
			}
			return nil
		},
	}
}

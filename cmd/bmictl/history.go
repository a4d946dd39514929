package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/fatih/color"
	"github.com/phrazzld/bmi-api/internal/api"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var skip, take int
	var asc bool

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List recorded measurements",
		Long: `List measurements from the server, newest first unless --asc is given.

Each line shows: RECORDED_AT  WEIGHT  HEIGHT  BMI  CATEGORY`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(opts)
			if err != nil {
				return err
			}

			query := url.Values{}
			if skip > 0 {
				query.Set("skip", strconv.Itoa(skip))
			}
			if take > 0 {
				query.Set("take", strconv.Itoa(take))
			}
			if asc {
				query.Set("descending", "false")
			}

			var records []api.MeasurementResponse
			if err := client.getJSON(cmd.Context(), "/api/measurements", query, &records); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No measurements found.")
				return nil
			}

			faint := color.New(color.Faint)
			for _, r := range records {
				fmt.Fprintf(out, "%s  %6s kg  %4s m  %6s  %s\n",
					faint.Sprint(r.RecordedAt.Local().Format("2006-01-02 15:04")),
					r.WeightKg, r.HeightM, r.BMI,
					categoryColor(domain.Category(r.Category)).Sprint(r.Category))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of measurements to skip")
	cmd.Flags().IntVarP(&take, "take", "n", 0, "maximum number of measurements (0 for all)")
	cmd.Flags().BoolVar(&asc, "asc", false, "oldest first")
	return cmd
}

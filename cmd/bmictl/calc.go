package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var weight, height string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate BMI without contacting the server",
		Long: `Calculate BMI with the same validation rules the server applies.

Weight is in kilograms (0 < w < 500), height in metres (0 < h < 3), each
with at most two decimal places.

Examples:
  bmictl calc --weight 70 --height 1.75
  bmictl calc -w 101 -H 2.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := domain.ValidateMeasurementInput(
				rawFlag(cmd, "weight", weight),
				rawFlag(cmd, "height", height),
			)
			if err != nil {
				return err
			}

			bmi, category := domain.CalculateBMI(in)
			fmt.Fprintf(cmd.OutOrStdout(), "BMI %s  %s\n",
				bmi.StringFixed(domain.BMIPrecision),
				categoryColor(category).Sprint(category))
			return nil
		},
	}

	cmd.Flags().StringVarP(&weight, "weight", "w", "", "weight in kilograms")
	cmd.Flags().StringVarP(&height, "height", "H", "", "height in metres")
	return cmd
}

// rawFlag treats an unset flag as a missing value.
func rawFlag(cmd *cobra.Command, name, value string) domain.RawNumber {
	if !cmd.Flags().Changed(name) {
		return domain.RawNumber{}
	}
	return domain.NumberLiteral(value)
}

func categoryColor(c domain.Category) *color.Color {
	switch c {
	case domain.CategoryNormal:
		return color.New(color.FgGreen, color.Bold)
	case domain.CategoryUnderWeight, domain.CategoryOverWeight:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

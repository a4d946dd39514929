package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is the weight classification derived from a BMI value.
type Category string

// Supported categories. The set is closed.
const (
	CategoryUnderWeight Category = "UnderWeight"
	CategoryNormal      Category = "Normal"
	CategoryOverWeight  Category = "OverWeight"
	CategoryObese       Category = "Obese"
)

// Category thresholds. Each is the exclusive upper bound of the category
// below it.
var (
	underWeightLimit = decimal.RequireFromString("18.5")
	normalLimit      = decimal.NewFromInt(25)
	overWeightLimit  = decimal.NewFromInt(30)
)

// BMIPrecision is the number of decimal places a stored BMI keeps.
const BMIPrecision = 2

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryUnderWeight, CategoryNormal, CategoryOverWeight, CategoryObese:
		return true
	}
	return false
}

// ParseCategory converts a stored or transmitted name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// CategoryFor classifies a BMI value.
func CategoryFor(bmi decimal.Decimal) Category {
	switch {
	case bmi.LessThan(underWeightLimit):
		return CategoryUnderWeight
	case bmi.LessThan(normalLimit):
		return CategoryNormal
	case bmi.LessThan(overWeightLimit):
		return CategoryOverWeight
	default:
		return CategoryObese
	}
}

// CalculateBMI computes weight / height² rounded half-up to two places.
// The category is decided on the unrounded value, so a raw 24.996 is Normal
// even though it is reported as 25.00.
func CalculateBMI(in MeasurementInput) (decimal.Decimal, Category) {
	raw := in.WeightKg.Div(in.HeightM.Mul(in.HeightM))
	return raw.Round(BMIPrecision), CategoryFor(raw)
}

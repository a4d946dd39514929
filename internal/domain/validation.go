package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationReason identifies which validation rule rejected an input.
type ValidationReason string

// Validation reasons, in the order the measurement rules are checked.
const (
	ReasonMissingField      ValidationReason = "missing_field"
	ReasonNotNumeric        ValidationReason = "not_numeric"
	ReasonWeightOutOfRange  ValidationReason = "weight_out_of_range"
	ReasonHeightOutOfRange  ValidationReason = "height_out_of_range"
	ReasonTooManyDecimals   ValidationReason = "too_many_decimals"
	ReasonInvalidPagination ValidationReason = "invalid_pagination"
	ReasonInvalidField      ValidationReason = "invalid_field"
)

// Field names used in validation errors.
const (
	FieldWeight = "weight"
	FieldHeight = "height"
	FieldSkip   = "skip"
	FieldTake   = "take"
)

// Measurement input limits. Both bounds are exclusive.
var (
	MaxWeightKg = decimal.NewFromInt(500)
	MaxHeightM  = decimal.NewFromInt(3)
)

// MaxDecimalPlaces is the maximum number of digits allowed after the decimal
// point for weight and height.
const MaxDecimalPlaces = 2

// ValidationError describes a client-side input failure. It always matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Reason  ValidationReason
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for a field. The wrapped error
// defaults to ErrValidation when err is nil.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Reason:  ReasonInvalidField,
		Field:   field,
		Message: message,
		Err:     err,
	}
}

func newReasonError(reason ValidationReason, field, message string) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Field:   field,
		Message: message,
		Err:     ErrValidation,
	}
}

// RawNumber is a weight or height exactly as the caller supplied it.
// Text holds the literal (e.g. "2.10"), so decimal places are counted on what
// was sent rather than on a float approximation.
type RawNumber struct {
	Text    string
	Present bool
	// Numeric is false when the value was supplied with a non-numeric type,
	// such as a JSON string or boolean.
	Numeric bool
}

// NumberLiteral builds a present, numeric RawNumber from its textual form.
func NumberLiteral(text string) RawNumber {
	return RawNumber{Text: text, Present: true, Numeric: true}
}

func (n RawNumber) empty() bool {
	return !n.Present || strings.TrimSpace(n.Text) == ""
}

// MeasurementInput is a validated weight/height pair.
type MeasurementInput struct {
	WeightKg decimal.Decimal
	HeightM  decimal.Decimal
}

// ValidateMeasurementInput checks raw weight and height values and returns
// them as exact decimals. Rules are applied in a fixed order and the first
// failure wins: presence, numeric, weight range, height range, precision.
func ValidateMeasurementInput(weight, height RawNumber) (MeasurementInput, error) {
	if weight.empty() || height.empty() {
		field := FieldWeight
		if !weight.empty() {
			field = FieldHeight
		}
		return MeasurementInput{}, newReasonError(ReasonMissingField, field,
			"is required: weight and height cannot be empty")
	}

	w, wErr := parseNumber(weight)
	h, hErr := parseNumber(height)
	if wErr != nil || hErr != nil {
		field := FieldWeight
		if wErr == nil {
			field = FieldHeight
		}
		return MeasurementInput{}, newReasonError(ReasonNotNumeric, field,
			"must be a valid number: weight and height must be numeric values")
	}

	if !w.IsPositive() || w.GreaterThanOrEqual(MaxWeightKg) {
		return MeasurementInput{}, newReasonError(ReasonWeightOutOfRange, FieldWeight,
			"must be greater than 0 and less than 500 kg")
	}

	if !h.IsPositive() || h.GreaterThanOrEqual(MaxHeightM) {
		return MeasurementInput{}, newReasonError(ReasonHeightOutOfRange, FieldHeight,
			"must be greater than 0 and less than 3 m")
	}

	if decimalPlaces(w) > MaxDecimalPlaces {
		return MeasurementInput{}, newReasonError(ReasonTooManyDecimals, FieldWeight,
			"cannot have more than 2 decimal places")
	}
	if decimalPlaces(h) > MaxDecimalPlaces {
		return MeasurementInput{}, newReasonError(ReasonTooManyDecimals, FieldHeight,
			"cannot have more than 2 decimal places")
	}

	return MeasurementInput{WeightKg: w, HeightM: h}, nil
}

// parseNumber parses a RawNumber without going through float64.
// NaN and infinities are rejected by the decimal parser.
func parseNumber(n RawNumber) (decimal.Decimal, error) {
	if !n.Numeric {
		return decimal.Zero, ErrValidation
	}
	return decimal.NewFromString(strings.TrimSpace(n.Text))
}

// decimalPlaces counts significant digits after the decimal point.
// Trailing zeros carry no value and are not counted, so "2.10" has one place.
func decimalPlaces(d decimal.Decimal) int {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

package vectorizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cardiocare/platform/pkg/patient"
)

type Kind string

const (
	NonNumericInput Kind = "non_numeric_input"
	IncompleteInput Kind = "incomplete_input"
	// OutOfRange is never produced by Vectorize; see OutOfRangeError.
	OutOfRange      Kind = "out_of_range"
)

var (
	errNonNumeric = errors.New("value is not numeric")
	errIncomplete = errors.New("input is incomplete")
)

// FeatureVector is a model-ready row in patient.FieldOrder.
type FeatureVector [patient.FieldCount]float64

func (v FeatureVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

type ValidationError struct {
	Kind  Kind
	Field patient.Field
	Value patient.RawValue
	// Coerced is the number of values that converted successfully.
	Coerced int
	reason  error
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case NonNumericInput:
		return fmt.Sprintf("Invalid input: %s. Please enter a numeric value.", e.Value)
	case IncompleteInput:
		return fmt.Sprintf("Incomplete input: expected %d numeric values, got %d.", patient.FieldCount, e.Coerced)
	case OutOfRange:
		if e.reason != nil {
			return e.reason.Error()
		}
		return fmt.Sprintf("%s: value %s is out of range.", e.Field.Label(), e.Value)
	default:
		if e.reason != nil {
			return e.reason.Error()
		}
		return fmt.Sprintf("Invalid input: %s.", e.Value)
	}
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

// OutOfRangeError reports a bounds violation as a ValidationError.
func OutOfRangeError(v patient.Violation) ValidationError {
	return ValidationError{
		Kind:   OutOfRange,
		Field:  v.Field,
		Value:  v.Value,
		reason: errors.New(v.Message),
	}
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Vectorize coerces raw form values into a FeatureVector. It fails on the
// first value that is present but not numeric, and when fewer or more than
// patient.FieldCount values could be coerced. Bounds are not enforced here.
func Vectorize(raw []patient.RawValue) (FeatureVector, error) {
	var vector FeatureVector
	coerced := make([]float64, 0, patient.FieldCount)

	for i, value := range raw {
		if value.IsAbsent() {
			continue
		}
		f, err := Coerce(value)
		if err != nil {
			ve := ValidationError{Kind: NonNumericInput, Value: value, reason: err}
			if i < patient.FieldCount {
				ve.Field = patient.FieldOrder[i]
			}
			return FeatureVector{}, ve
		}
		coerced = append(coerced, f)
	}

	if len(coerced) != patient.FieldCount || len(raw) != patient.FieldCount {
		return FeatureVector{}, ValidationError{Kind: IncompleteInput, Coerced: len(coerced), reason: errIncomplete}
	}

	copy(vector[:], coerced)
	return vector, nil
}

// VectorizeInput vectorizes a typed form submission.
func VectorizeInput(input patient.PatientInput) (FeatureVector, error) {
	return Vectorize(input.Values())
}

// Coerce converts one raw value to a finite float. Numbers are used as they
// are; text is parsed as a base-10 floating-point literal after trimming
// surrounding whitespace.
func Coerce(value patient.RawValue) (float64, error) {
	var f float64
	if n, ok := value.Number(); ok {
		f = n
	} else if text, ok := value.Text(); ok {
		trimmed := strings.TrimSpace(text)
		if isHexLiteral(trimmed) {
			return 0, fmt.Errorf("%q: %w", text, errNonNumeric)
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", text, errNonNumeric)
		}
		f = parsed
	} else {
		return 0, errIncomplete
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite: %w", value.String(), errNonNumeric)
	}
	return f, nil
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

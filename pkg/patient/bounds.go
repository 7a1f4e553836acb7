package patient

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is the advisory range or option set for one form field.
type Rule struct {
	Min     *float64 `yaml:"min" json:"min,omitempty"`
	Max     *float64 `yaml:"max" json:"max,omitempty"`
	Choices []string `yaml:"choices" json:"choices,omitempty"`
}

type Bounds struct {
	Fields map[Field]Rule
}

type boundsFile struct {
	Fields map[string]Rule `yaml:"fields"`
}

// Violation describes a value outside its advisory bounds.
type Violation struct {
	Field   Field    `json:"field"`
	Value   RawValue `json:"value"`
	Message string   `json:"message"`
}

func LoadBounds(path string) (Bounds, error) {
	if path == "" {
		return DefaultBounds(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultBounds(), err
	}
	var file boundsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return Bounds{}, err
	}
	if len(file.Fields) == 0 {
		return Bounds{}, fmt.Errorf("field bounds catalog empty")
	}
	bounds := Bounds{Fields: make(map[Field]Rule, len(file.Fields))}
	for key, rule := range file.Fields {
		f := Field(key)
		if !f.Valid() {
			return Bounds{}, fmt.Errorf("field bounds: unknown field %q", key)
		}
		if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
			return Bounds{}, fmt.Errorf("field bounds: %s min %v exceeds max %v", key, *rule.Min, *rule.Max)
		}
		bounds.Fields[f] = rule
	}
	return bounds, nil
}

// Check reports every numeric value outside its rule. Absent or non-numeric
// values are left to the vectorizer.
func (b Bounds) Check(input PatientInput) []Violation {
	var violations []Violation
	values := input.Values()
	for i, f := range FieldOrder {
		rule, ok := b.Fields[f]
		if !ok {
			continue
		}
		if msg := rule.check(values[i]); msg != "" {
			violations = append(violations, Violation{
				Field:   f,
				Value:   values[i],
				Message: fmt.Sprintf("%s: %s", f.Label(), msg),
			})
		}
	}
	return violations
}

func (r Rule) check(v RawValue) string {
	if v.IsAbsent() {
		return ""
	}
	n, ok := numeric(v)
	if !ok {
		return ""
	}
	if len(r.Choices) > 0 {
		for _, choice := range r.Choices {
			if c, err := strconv.ParseFloat(strings.TrimSpace(choice), 64); err == nil && c == n {
				return ""
			}
		}
		return fmt.Sprintf("please choose one of %s.", strings.Join(r.Choices, ", "))
	}
	if (r.Min != nil && n < *r.Min) || (r.Max != nil && n > *r.Max) {
		return fmt.Sprintf("please enter a value between %s and %s.", formatBound(r.Min), formatBound(r.Max))
	}
	return ""
}

func numeric(v RawValue) (float64, bool) {
	if n, ok := v.Number(); ok {
		return n, true
	}
	if text, ok := v.Text(); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		return n, err == nil
	}
	return 0, false
}

func formatBound(b *float64) string {
	if b == nil {
		return "any"
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

func span(lo, hi float64) Rule {
	return Rule{Min: &lo, Max: &hi}
}

func choices(options ...string) Rule {
	return Rule{Choices: options}
}

// DefaultBounds mirrors the ranges and options offered by the entry form.
func DefaultBounds() Bounds {
	binary := choices("0", "1")
	return Bounds{Fields: map[Field]Rule{
		Sex:                binary,
		ChestPainType:      choices("0", "1", "2", "3"),
		RestingSystolicBP:  span(80, 180),
		RestingDiastolicBP: span(60, 115),
		FastingBloodSugar:  binary,
		Cholesterol:        span(120, 340),
		RestingECG:         choices("0", "1", "2"),
		MaxHeartRate:       span(85, 200),
		ExerciseAngina:     binary,
		Oldpeak:            span(0.0, 3.1),
		STSlope:            choices("0", "1", "2"),
		Smoking:            binary,
		BMICategory:        choices("0", "1", "2", "3"),
		FamilyHistory:      binary,
		ShortnessOfBreath:  binary,
		Palpitations:       binary,
		BlockedVesselCount: choices("0", "1", "2", "3"),
		Thalassemia:        choices("0", "1", "2"),
		StrokeHistory:      binary,
	}}
}

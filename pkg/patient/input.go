package patient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindText
	kindNumber
)

// RawValue is a single form value exactly as the clinician entered it: typed
// text, a numeric widget value, or nothing at all.
type RawValue struct {
	kind   valueKind
	text   string
	number float64
}

func TextValue(s string) RawValue {
	return RawValue{kind: kindText, text: s}
}

func NumberValue(f float64) RawValue {
	return RawValue{kind: kindNumber, number: f}
}

func (v RawValue) IsAbsent() bool { return v.kind == kindAbsent }
func (v RawValue) IsNumber() bool { return v.kind == kindNumber }
func (v RawValue) IsText() bool   { return v.kind == kindText }

// Number returns the numeric widget value; ok is false for text and absent values.
func (v RawValue) Number() (float64, bool) {
	return v.number, v.kind == kindNumber
}

// Text returns typed text; ok is false for numeric and absent values.
func (v RawValue) Text() (string, bool) {
	return v.text, v.kind == kindText
}

func (v RawValue) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	default:
		return ""
	}
}

// Document returns the value in the representation that is persisted: text
// stays text, numbers stay numbers, absent values become nil.
func (v RawValue) Document() interface{} {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return v.number
	default:
		return nil
	}
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Document())
}

// UnmarshalJSON keeps JSON strings as text and JSON numbers as numbers. Other
// literals (booleans) are kept as text so validation can report them.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = RawValue{}
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case trimmed[0] == '{' || trimmed[0] == '[':
		return fmt.Errorf("form value must be a string or number, got %s", trimmed)
	default:
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
			*v = NumberValue(f)
			return nil
		}
		*v = TextValue(string(trimmed))
	}
	return nil
}

// ValueFromDocument converts a stored document value back into a RawValue.
func ValueFromDocument(value interface{}) RawValue {
	switch typed := value.(type) {
	case nil:
		return RawValue{}
	case string:
		return TextValue(typed)
	case float64:
		return NumberValue(typed)
	case float32:
		return NumberValue(float64(typed))
	case int:
		return NumberValue(float64(typed))
	case int64:
		return NumberValue(float64(typed))
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return NumberValue(f)
		}
		return TextValue(typed.String())
	default:
		return TextValue(fmt.Sprint(typed))
	}
}

// PatientInput is the form submission: the patient's name plus one raw value
// per model feature.
type PatientInput struct {
	Name               string   `json:"name"`
	Age                RawValue `json:"age"`
	Sex                RawValue `json:"sex"`
	ChestPainType      RawValue `json:"chest_pain_type"`
	RestingSystolicBP  RawValue `json:"resting_systolic_bp"`
	RestingDiastolicBP RawValue `json:"resting_diastolic_bp"`
	FastingBloodSugar  RawValue `json:"fasting_blood_sugar"`
	Cholesterol        RawValue `json:"cholesterol"`
	RestingECG         RawValue `json:"resting_ecg"`
	MaxHeartRate       RawValue `json:"max_heart_rate"`
	ExerciseAngina     RawValue `json:"exercise_angina"`
	Oldpeak            RawValue `json:"oldpeak"`
	STSlope            RawValue `json:"st_slope"`
	Smoking            RawValue `json:"smoking"`
	BMICategory        RawValue `json:"bmi_category"`
	FamilyHistory      RawValue `json:"family_history"`
	ShortnessOfBreath  RawValue `json:"shortness_of_breath"`
	Palpitations       RawValue `json:"palpitations"`
	BlockedVesselCount RawValue `json:"blocked_vessel_count"`
	Thalassemia        RawValue `json:"thalassemia"`
	StrokeHistory      RawValue `json:"stroke_history"`
}

// slots is the single place binding struct fields to FieldOrder positions.
func (p *PatientInput) slots() [FieldCount]*RawValue {
	return [FieldCount]*RawValue{
		&p.Age,
		&p.Sex,
		&p.ChestPainType,
		&p.RestingSystolicBP,
		&p.RestingDiastolicBP,
		&p.FastingBloodSugar,
		&p.Cholesterol,
		&p.RestingECG,
		&p.MaxHeartRate,
		&p.ExerciseAngina,
		&p.Oldpeak,
		&p.STSlope,
		&p.Smoking,
		&p.BMICategory,
		&p.FamilyHistory,
		&p.ShortnessOfBreath,
		&p.Palpitations,
		&p.BlockedVesselCount,
		&p.Thalassemia,
		&p.StrokeHistory,
	}
}

// Values returns the raw feature values in FieldOrder.
func (p PatientInput) Values() []RawValue {
	slots := p.slots()
	values := make([]RawValue, FieldCount)
	for i, slot := range slots {
		values[i] = *slot
	}
	return values
}

func (p PatientInput) Value(f Field) RawValue {
	idx := f.Index()
	if idx < 0 {
		return RawValue{}
	}
	return *p.slots()[idx]
}

func (p *PatientInput) Set(f Field, v RawValue) error {
	idx := f.Index()
	if idx < 0 {
		return fmt.Errorf("unknown field %q", f)
	}
	*p.slots()[idx] = v
	return nil
}

// InputFromDocument rebuilds a PatientInput from a stored document. Missing
// keys become absent values.
func InputFromDocument(doc map[string]interface{}) PatientInput {
	var input PatientInput
	switch name := doc[NameKey].(type) {
	case nil:
	case string:
		input.Name = name
	default:
		input.Name = fmt.Sprint(name)
	}
	slots := input.slots()
	for i, f := range FieldOrder {
		*slots[i] = ValueFromDocument(doc[string(f)])
	}
	return input
}

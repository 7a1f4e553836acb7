package patient

// FieldOrderVersion identifies the feature layout the risk model was trained
// on. Any change to FieldOrder requires a new version and a retrained model.
const FieldOrderVersion = "cardio-v1"

// FieldCount is the number of model features in a PatientInput.
const FieldCount = 20

type Field string

const (
	Age                Field = "age"
	Sex                Field = "sex"
	ChestPainType      Field = "chest_pain_type"
	RestingSystolicBP  Field = "resting_systolic_bp"
	RestingDiastolicBP Field = "resting_diastolic_bp"
	FastingBloodSugar  Field = "fasting_blood_sugar"
	Cholesterol        Field = "cholesterol"
	RestingECG         Field = "resting_ecg"
	MaxHeartRate       Field = "max_heart_rate"
	ExerciseAngina     Field = "exercise_angina"
	Oldpeak            Field = "oldpeak"
	STSlope            Field = "st_slope"
	Smoking            Field = "smoking"
	BMICategory        Field = "bmi_category"
	FamilyHistory      Field = "family_history"
	ShortnessOfBreath  Field = "shortness_of_breath"
	Palpitations       Field = "palpitations"
	BlockedVesselCount Field = "blocked_vessel_count"
	Thalassemia        Field = "thalassemia"
	StrokeHistory      Field = "stroke_history"
)

// Document keys that are stored alongside the model features.
const (
	NameKey       = "name"
	PredictionKey = "prediction_result"
)

// FieldOrder is the training-time column order of the risk model.
var FieldOrder = [FieldCount]Field{
	Age,
	Sex,
	ChestPainType,
	RestingSystolicBP,
	RestingDiastolicBP,
	FastingBloodSugar,
	Cholesterol,
	RestingECG,
	MaxHeartRate,
	ExerciseAngina,
	Oldpeak,
	STSlope,
	Smoking,
	BMICategory,
	FamilyHistory,
	ShortnessOfBreath,
	Palpitations,
	BlockedVesselCount,
	Thalassemia,
	StrokeHistory,
}

var fieldLabels = map[Field]string{
	Age:                "Age",
	Sex:                "Sex",
	ChestPainType:      "Chest Pain Type",
	RestingSystolicBP:  "Resting Systolic BP",
	RestingDiastolicBP: "Resting Diastolic BP",
	FastingBloodSugar:  "Fasting Blood Sugar",
	Cholesterol:        "Cholesterol (mg/dl)",
	RestingECG:         "Resting ECG",
	MaxHeartRate:       "Maximum Heart Rate",
	ExerciseAngina:     "Exercise Induced Angina",
	Oldpeak:            "Oldpeak",
	STSlope:            "Slope of Peak Exercise ST Segment",
	Smoking:            "Smoking",
	BMICategory:        "BMI",
	FamilyHistory:      "Family History",
	ShortnessOfBreath:  "Shortness of Breath",
	Palpitations:       "Palpitations",
	BlockedVesselCount: "Ca (No. of blocked vessels)",
	Thalassemia:        "Thalassemia",
	StrokeHistory:      "Stroke",
}

func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// Index returns the position of f in FieldOrder, or -1 for unknown fields.
func (f Field) Index() int {
	for i, candidate := range FieldOrder {
		if candidate == f {
			return i
		}
	}
	return -1
}

func (f Field) Valid() bool {
	return f.Index() >= 0
}

// FieldNames returns FieldOrder as plain strings, the form stored in model
// artifacts.
func FieldNames() []string {
	names := make([]string, FieldCount)
	for i, f := range FieldOrder {
		names[i] = string(f)
	}
	return names
}

type FieldSpec struct {
	Key     Field    `json:"key"`
	Label   string   `json:"label"`
	Index   int      `json:"index"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

// Describe lists every model field in order together with its advisory
// bounds, for clients building the entry form.
func Describe(bounds Bounds) []FieldSpec {
	specs := make([]FieldSpec, 0, FieldCount)
	for i, f := range FieldOrder {
		spec := FieldSpec{Key: f, Label: f.Label(), Index: i}
		if rule, ok := bounds.Fields[f]; ok {
			spec.Min = rule.Min
			spec.Max = rule.Max
			spec.Choices = rule.Choices
		}
		specs = append(specs, spec)
	}
	return specs
}

package records

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/vectorizer"
)

// Document is the free-form body written to the record store.
type Document map[string]interface{}

type StoredDocument struct {
	ID   string
	Data Document
}

// PatientRecord is a persisted submission: the raw form values as entered plus
// the label computed from them. Prediction is nil for legacy documents written
// before predictions were stored.
type PatientRecord struct {
	ID         string
	Input      patient.PatientInput
	Prediction *classifier.Label
}

// NewRecord merges raw form values with a fresh prediction. Oldpeak is stored
// as text with one decimal place; every other value keeps its form
// representation.
func NewRecord(input patient.PatientInput, label classifier.Label) PatientRecord {
	input.Oldpeak = FormatOldpeak(input.Oldpeak)
	return PatientRecord{Input: input, Prediction: &label}
}

func FormatOldpeak(value patient.RawValue) patient.RawValue {
	f, err := vectorizer.Coerce(value)
	if err != nil {
		return value
	}
	return patient.TextValue(strconv.FormatFloat(f, 'f', 1, 64))
}

func (r PatientRecord) Name() string {
	return r.Input.Name
}

func (r PatientRecord) Document() Document {
	doc := Document{patient.NameKey: r.Input.Name}
	values := r.Input.Values()
	for i, f := range patient.FieldOrder {
		doc[string(f)] = values[i].Document()
	}
	if r.Prediction != nil {
		doc[patient.PredictionKey] = int(*r.Prediction)
	}
	return doc
}

func (r PatientRecord) MarshalJSON() ([]byte, error) {
	doc := r.Document()
	doc["id"] = r.ID
	if r.Prediction == nil {
		doc[patient.PredictionKey] = nil
	}
	return json.Marshal(doc)
}

func RecordFromStored(stored StoredDocument) PatientRecord {
	return PatientRecord{
		ID:         stored.ID,
		Input:      patient.InputFromDocument(stored.Data),
		Prediction: predictionFromDocument(stored.Data[patient.PredictionKey]),
	}
}

func predictionFromDocument(value interface{}) *classifier.Label {
	var n float64
	switch typed := value.(type) {
	case float64:
		n = typed
	case int:
		n = float64(typed)
	case int64:
		n = float64(typed)
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return nil
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return nil
		}
		n = f
	default:
		return nil
	}
	var label classifier.Label
	switch n {
	case 0:
		label = classifier.NoElevatedRisk
	case 1:
		label = classifier.ElevatedRisk
	default:
		return nil
	}
	return &label
}

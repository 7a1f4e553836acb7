package cardio

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/observability/metrics"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/records"
	"github.com/cardiocare/platform/pkg/vectorizer"
)

// State is a step of the entry form. Editing and Validating are passed
// through within a single call; an Outcome always carries Predicted or
// Rejected.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StatePredicted  State = "predicted"
	StateRejected   State = "rejected"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

const (
	MsgElevatedRisk   = "Based on the provided information, you may have a risk of heart disease."
	MsgNoElevatedRisk = "Based on the provided information, you may not have a risk of heart disease."
	MsgRecordAdded    = "Record added successfully!"
)

// Outcome is the single user-visible result of one submission.
type Outcome struct {
	State     State               `json:"state"`
	Level     Level               `json:"level"`
	Message   string              `json:"message"`
	Label     *classifier.Label   `json:"prediction_result,omitempty"`
	RecordID  string              `json:"record_id,omitempty"`
	Warnings  []patient.Violation `json:"warnings,omitempty"`
	ErrorKind vectorizer.Kind     `json:"error_kind,omitempty"`
	Err       error               `json:"-"`
}

func (o Outcome) Rejected() bool { return o.State == StateRejected }

// Options control how advisory field bounds are applied.
type Options struct {
	Bounds        patient.Bounds
	EnforceBounds bool
}

// Controller runs form submissions through validation, classification and,
// for AddRecord, persistence. It holds no per-submission state.
type Controller struct {
	classifier classifier.RiskClassifier
	store      records.Store
	opts       Options
}

func NewController(model classifier.RiskClassifier, store records.Store, opts Options) *Controller {
	return &Controller{classifier: model, store: store, opts: opts}
}

// Predict classifies the submission for display only.
func (c *Controller) Predict(ctx context.Context, input patient.PatientInput) Outcome {
	outcome := c.evaluate(input)
	if outcome.Rejected() {
		metrics.ObserveRejection(outcome.ErrorKind)
		return outcome
	}
	metrics.ObservePrediction(*outcome.Label)
	return outcome
}

// AddRecord re-runs the whole pipeline for this submission and stores exactly
// one new document built from the raw values and the fresh label.
func (c *Controller) AddRecord(ctx context.Context, input patient.PatientInput) Outcome {
	outcome := c.evaluate(input)
	if outcome.Rejected() {
		metrics.ObserveRejection(outcome.ErrorKind)
		return outcome
	}
	metrics.ObservePrediction(*outcome.Label)

	record := records.NewRecord(input, *outcome.Label)
	id, err := c.store.Add(ctx, record.Document())
	if err != nil {
		storeErr := &records.StoreError{Action: "add record", Err: err}
		logger.Log.WithError(err).Error("failed to add record")
		metrics.ObserveStoreFailure()
		return Outcome{
			State:   StatePredicted,
			Level:   LevelError,
			Message: fmt.Sprintf("Failed to add record: %v", err),
			Label:   outcome.Label,
			Err:     storeErr,
		}
	}
	metrics.ObserveRecordsAdded(1)
	logger.Log.WithFields(map[string]interface{}{
		"record_id":         id,
		"prediction_result": int(*outcome.Label),
	}).Info("record added")

	outcome.Level = LevelSuccess
	outcome.Message = MsgRecordAdded
	outcome.RecordID = id
	return outcome
}

// evaluate validates and classifies one submission. Coercion runs first so a
// value that is not a number is always reported as such; bounds are checked
// on the coerced submission only.
func (c *Controller) evaluate(input patient.PatientInput) Outcome {
	vector, err := vectorizer.VectorizeInput(input)
	if err != nil {
		return rejected(err)
	}

	violations := c.opts.Bounds.Check(input)
	if len(violations) > 0 && c.opts.EnforceBounds {
		outcome := rejected(vectorizer.OutOfRangeError(violations[0]))
		outcome.Warnings = violations
		return outcome
	}

	label := c.classifier.Predict(vector)
	outcome := Outcome{
		State:    StatePredicted,
		Label:    &label,
		Warnings: violations,
	}
	if label == classifier.ElevatedRisk {
		outcome.Level = LevelError
		outcome.Message = MsgElevatedRisk
	} else {
		outcome.Level = LevelSuccess
		outcome.Message = MsgNoElevatedRisk
	}
	return outcome
}

func rejected(err error) Outcome {
	outcome := Outcome{
		State:   StateRejected,
		Level:   LevelError,
		Message: err.Error(),
		Err:     err,
	}
	var ve vectorizer.ValidationError
	if errors.As(err, &ve) {
		outcome.ErrorKind = ve.Kind
	}
	return outcome
}

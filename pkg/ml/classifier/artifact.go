package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cardiocare/platform/pkg/patient"
)

// ErrModelLoad marks any failure to load a usable risk model. The service must
// not start without one.
var ErrModelLoad = errors.New("risk model load failure")

type Artifact struct {
	Model struct {
		Name         string   `json:"name"`
		Version      string   `json:"version"`
		Type         string   `json:"type"`
		Algorithm    string   `json:"algorithm"`
		FieldOrder   string   `json:"field_order"`
		FeatureNames []string `json:"feature_names"`
		Threshold    *float64 `json:"threshold,omitempty"`
		Weights      struct {
			Bias         float64   `json:"bias"`
			Coefficients []float64 `json:"coefficients"`
		} `json:"weights"`
	} `json:"model"`
}

func ReadArtifact(path string) (Artifact, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: reading %s: %v", ErrModelLoad, path, err)
	}
	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return Artifact{}, fmt.Errorf("%w: decoding %s: %v", ErrModelLoad, path, err)
	}
	if err := artifact.validate(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	return artifact, nil
}

func (a Artifact) validate() error {
	if a.Model.Algorithm != "" && a.Model.Algorithm != AlgorithmLogistic {
		return fmt.Errorf("unsupported algorithm %q", a.Model.Algorithm)
	}
	if a.Model.FieldOrder != "" && a.Model.FieldOrder != patient.FieldOrderVersion {
		return fmt.Errorf("artifact trained on field order %q, service uses %q", a.Model.FieldOrder, patient.FieldOrderVersion)
	}
	if len(a.Model.FeatureNames) != patient.FieldCount {
		return fmt.Errorf("artifact declares %d features, expected %d", len(a.Model.FeatureNames), patient.FieldCount)
	}
	for i, name := range a.Model.FeatureNames {
		if name != string(patient.FieldOrder[i]) {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, patient.FieldOrder[i])
		}
	}
	if len(a.Model.Weights.Coefficients) != patient.FieldCount {
		return fmt.Errorf("artifact has %d coefficients, expected %d", len(a.Model.Weights.Coefficients), patient.FieldCount)
	}
	for i, c := range append([]float64{a.Model.Weights.Bias}, a.Model.Weights.Coefficients...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("weight %d is not finite", i)
		}
	}
	if t := a.Model.Threshold; t != nil && (*t <= 0 || *t >= 1) {
		return fmt.Errorf("threshold %v outside (0, 1)", *t)
	}
	return nil
}

package classifier

import (
	"math"

	"github.com/cardiocare/platform/pkg/vectorizer"
)

const (
	AlgorithmLogistic = "logistic_regression"
	defaultThreshold  = 0.5
)

type Label int

const (
	NoElevatedRisk Label = 0
	ElevatedRisk   Label = 1
)

// RiskClassifier is the pre-trained binary model. Implementations must be
// deterministic and safe for concurrent use.
type RiskClassifier interface {
	Predict(vector vectorizer.FeatureVector) Label
}

// Logistic is an immutable logistic regression model. It is built once at
// start-up and shared by every request without locking.
type Logistic struct {
	name         string
	version      string
	bias         float64
	coefficients vectorizer.FeatureVector
	threshold    float64
}

// Load reads and validates the artifact at path. Every error wraps ErrModelLoad.
func Load(path string) (*Logistic, error) {
	artifact, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return FromArtifact(artifact), nil
}

// FromArtifact assumes the artifact has already been validated.
func FromArtifact(artifact Artifact) *Logistic {
	m := &Logistic{
		name:      artifact.Model.Name,
		version:   artifact.Model.Version,
		bias:      artifact.Model.Weights.Bias,
		threshold: defaultThreshold,
	}
	copy(m.coefficients[:], artifact.Model.Weights.Coefficients)
	if artifact.Model.Threshold != nil {
		m.threshold = *artifact.Model.Threshold
	}
	return m
}

func (m *Logistic) Name() string    { return m.name }
func (m *Logistic) Version() string { return m.version }

// Score returns the probability of elevated risk.
func (m *Logistic) Score(vector vectorizer.FeatureVector) float64 {
	sum := m.bias
	for i, coeff := range m.coefficients {
		sum += coeff * vector[i]
	}
	return sigmoid(sum)
}

func (m *Logistic) Predict(vector vectorizer.FeatureVector) Label {
	if m.Score(vector) >= m.threshold {
		return ElevatedRisk
	}
	return NoElevatedRisk
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

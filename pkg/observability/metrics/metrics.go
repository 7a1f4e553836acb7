package metrics

import (
	"net/http"
	"strconv"

	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/vectorizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cardiocare"

var (
	registry = prometheus.NewRegistry()

	predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Risk predictions served, by label.",
		},
		[]string{"label"},
	)
	rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Form submissions rejected before classification, by kind.",
		},
		[]string{"kind"},
	)
	recordsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_added_total",
		Help:      "Patient records written to the record store.",
	})
	recordsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_deleted_total",
		Help:      "Patient records removed by delete-by-name.",
	})
	storeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Record store calls that failed.",
	})
)

func init() {
	registry.MustRegister(predictions, rejections, recordsAdded, recordsDeleted, storeFailures)

	// Known series are exported at zero before the first observation.
	for _, label := range []classifier.Label{classifier.NoElevatedRisk, classifier.ElevatedRisk} {
		predictions.WithLabelValues(labelValue(label))
	}
	for _, kind := range []vectorizer.Kind{vectorizer.NonNumericInput, vectorizer.IncompleteInput, vectorizer.OutOfRange} {
		rejections.WithLabelValues(string(kind))
	}
}

func labelValue(label classifier.Label) string {
	return strconv.Itoa(int(label))
}

func ObservePrediction(label classifier.Label) {
	predictions.WithLabelValues(labelValue(label)).Inc()
}

func ObserveRejection(kind vectorizer.Kind) {
	if kind == "" {
		kind = "unknown"
	}
	rejections.WithLabelValues(string(kind)).Inc()
}

func ObserveRecordsAdded(n int) {
	if n > 0 {
		recordsAdded.Add(float64(n))
	}
}

func ObserveRecordsDeleted(n int) {
	if n > 0 {
		recordsDeleted.Add(float64(n))
	}
}

func ObserveStoreFailure() {
	storeFailures.Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

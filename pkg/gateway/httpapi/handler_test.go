package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cardiocare/platform/pkg/cardio"
	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/patient/patienttest"
	"github.com/cardiocare/platform/pkg/records"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Add(context.Context, records.Document) (string, error) {
	return "", errors.New("connection refused")
}

func (brokenStore) Query(context.Context, string, interface{}) ([]records.StoredDocument, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) All(context.Context) ([]records.StoredDocument, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func newRouter(t *testing.T, store records.Store) *mux.Router {
	t.Helper()
	model, err := classifier.Load(filepath.Join("..", "..", "..", "models", "cardio_risk_latest.json"))
	require.NoError(t, err)
	bounds := patient.DefaultBounds()
	ctrl := cardio.NewController(model, store, cardio.Options{Bounds: bounds})
	router := mux.NewRouter()
	NewHandler(ctrl, records.NewBrowser(store), bounds).Register(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func do(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, &buf))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPredictDoesNotPersist(t *testing.T) {
	store := records.NewMemoryStore()
	router := newRouter(t, store)

	rec := do(t, router, http.MethodPost, "/api/v1/risk/predict", patienttest.Input("Alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, string(cardio.StatePredicted), body["state"])
	assert.Contains(t, body, "prediction_result")
	assert.Equal(t, 0, store.Len())
}

func TestAddThenSearchThenDelete(t *testing.T) {
	store := records.NewMemoryStore()
	router := newRouter(t, store)

	rec := do(t, router, http.MethodPost, "/api/v1/records", patienttest.Input("Alice"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, cardio.MsgRecordAdded, decode(t, rec)["message"])

	rec = do(t, router, http.MethodGet, "/api/v1/records/search?name=Alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	items := body["items"].([]interface{})
	columns := items[0].(map[string]interface{})["columns"].([]interface{})
	require.Len(t, columns, patient.FieldCount+2)
	assert.Equal(t, "name", columns[0].(map[string]interface{})["key"])
	assert.Equal(t, "prediction_result", columns[len(columns)-1].(map[string]interface{})["key"])

	rec = do(t, router, http.MethodDelete, "/api/v1/records?name=Alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(1), body["deleted"])
	assert.Equal(t, records.MsgRecordsDeleted, body["message"])

	rec = do(t, router, http.MethodGet, "/api/v1/records", nil)
	body = decode(t, rec)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, records.MsgNoRecordsFound, body["message"])
}

func TestDeleteUnknownName(t *testing.T) {
	rec := do(t, newRouter(t, records.NewMemoryStore()), http.MethodDelete, "/api/v1/records?name=Nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["deleted"])
	assert.Equal(t, records.MsgNoRecordsToDelete, body["message"])
	assert.Equal(t, string(cardio.LevelInfo), body["level"])
}

func TestNameRequired(t *testing.T) {
	router := newRouter(t, records.NewMemoryStore())

	rec := do(t, router, http.MethodGet, "/api/v1/records/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, records.MsgNameRequiredSearch, decode(t, rec)["message"])

	rec = do(t, router, http.MethodDelete, "/api/v1/records", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, records.MsgNameRequiredDelete, decode(t, rec)["message"])
}

func TestValidationRejectionIs422(t *testing.T) {
	store := records.NewMemoryStore()
	input := patienttest.Input("Alice")
	input.Cholesterol = patient.TextValue("high")

	rec := do(t, newRouter(t, store), http.MethodPost, "/api/v1/records", input)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Invalid input: high. Please enter a numeric value.", body["message"])
	assert.Equal(t, "non_numeric_input", body["error_kind"])
	assert.Equal(t, 0, store.Len())
}

func TestMalformedBodyIs400(t *testing.T) {
	router := newRouter(t, records.NewMemoryStore())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/risk/predict", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreFailuresAre503(t *testing.T) {
	router := newRouter(t, brokenStore{})

	rec := do(t, router, http.MethodPost, "/api/v1/records", patienttest.Input("Alice"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Failed to add record: connection refused", decode(t, rec)["message"])

	rec = do(t, router, http.MethodGet, "/api/v1/records", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/records?name=Alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFieldsCatalog(t *testing.T) {
	rec := do(t, newRouter(t, records.NewMemoryStore()), http.MethodGet, "/api/v1/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, patient.FieldOrderVersion, body["version"])
	fields := body["fields"].([]interface{})
	require.Len(t, fields, patient.FieldCount)
	assert.Equal(t, "age", fields[0].(map[string]interface{})["key"])
}

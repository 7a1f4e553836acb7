package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardiocare/platform/pkg/cardio"
	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/cardiocare/platform/pkg/observability/metrics"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/records"
	"github.com/gorilla/mux"
)

type Handler struct {
	controller *cardio.Controller
	browser    *records.Browser
	bounds     patient.Bounds
}

func NewHandler(controller *cardio.Controller, browser *records.Browser, bounds patient.Bounds) *Handler {
	return &Handler{controller: controller, browser: browser, bounds: bounds}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/risk/predict", h.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/records", h.handleAddRecord).Methods(http.MethodPost)
	r.HandleFunc("/records", h.handleListRecords).Methods(http.MethodGet)
	r.HandleFunc("/records/search", h.handleSearchRecords).Methods(http.MethodGet)
	r.HandleFunc("/records", h.handleDeleteRecords).Methods(http.MethodDelete)
	r.HandleFunc("/fields", h.handleFields).Methods(http.MethodGet)
}

type message struct {
	Level   cardio.Level `json:"level"`
	Message string       `json:"message"`
}

type recordsResponse struct {
	message
	Count int           `json:"count"`
	Items []records.Row `json:"items"`
}

type deleteResponse struct {
	message
	Deleted int `json:"deleted"`
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}
	outcome := h.controller.Predict(r.Context(), input)
	writeJSON(w, outcomeStatus(outcome, http.StatusOK), outcome)
}

func (h *Handler) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}
	outcome := h.controller.AddRecord(r.Context(), input)
	writeJSON(w, outcomeStatus(outcome, http.StatusCreated), outcome)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	found, err := h.browser.ListAll(r.Context())
	if err != nil {
		h.storeFailure(w, err, "failed to list records")
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse(found))
}

func (h *Handler) handleSearchRecords(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	found, err := h.browser.FindByName(r.Context(), name)
	if errors.Is(err, records.ErrNameRequired) {
		writeJSON(w, http.StatusBadRequest, message{Level: cardio.LevelWarning, Message: records.MsgNameRequiredSearch})
		return
	}
	if err != nil {
		h.storeFailure(w, err, "failed to search records")
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse(found))
}

func (h *Handler) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	deleted, err := h.browser.DeleteByName(r.Context(), name)
	if errors.Is(err, records.ErrNameRequired) {
		writeJSON(w, http.StatusBadRequest, deleteResponse{
			message: message{Level: cardio.LevelWarning, Message: records.MsgNameRequiredDelete},
		})
		return
	}
	metrics.ObserveRecordsDeleted(deleted)
	if err != nil {
		logger.Log.WithError(err).WithField("deleted", deleted).Error("failed to delete records")
		metrics.ObserveStoreFailure()
		writeJSON(w, http.StatusServiceUnavailable, deleteResponse{
			message: message{Level: cardio.LevelError, Message: err.Error()},
			Deleted: deleted,
		})
		return
	}
	logger.Log.WithField("deleted", deleted).Info("records deleted")
	level := cardio.LevelSuccess
	if deleted == 0 {
		level = cardio.LevelInfo
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		message: message{Level: level, Message: records.DeleteMessage(deleted)},
		Deleted: deleted,
	})
}

func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": patient.FieldOrderVersion,
		"fields":  patient.Describe(h.bounds),
	})
}

func (h *Handler) storeFailure(w http.ResponseWriter, err error, msg string) {
	logger.Log.WithError(err).Error(msg)
	metrics.ObserveStoreFailure()
	writeJSON(w, http.StatusServiceUnavailable, message{Level: cardio.LevelError, Message: err.Error()})
}

func rowsResponse(found []records.PatientRecord) recordsResponse {
	resp := recordsResponse{Count: len(found), Items: records.Rows(found)}
	if len(found) == 0 {
		resp.message = message{Level: cardio.LevelInfo, Message: records.MsgNoRecordsFound}
	} else {
		resp.message = message{Level: cardio.LevelSuccess}
	}
	return resp
}

func decodeInput(w http.ResponseWriter, r *http.Request) (patient.PatientInput, bool) {
	var input patient.PatientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, message{Level: cardio.LevelError, Message: "invalid request"})
		return input, false
	}
	return input, true
}

func outcomeStatus(outcome cardio.Outcome, success int) int {
	switch {
	case outcome.Rejected():
		return http.StatusUnprocessableEntity
	case errors.Is(outcome.Err, records.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return success
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package wellness

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/gateway/middleware"
	"github.com/wellnesshub/platform/pkg/privacy"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/symptoms", h.handleTrackSymptom).Methods(http.MethodPost)
	r.HandleFunc("/checkins", h.handleQuickCheckin).Methods(http.MethodPost)
	r.HandleFunc("/accommodations", h.handleRequestAccommodation).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{id}/history/{domain}", h.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/organizations/{id}/records/{domain}", h.handleOrganizationRecords).Methods(http.MethodGet)
}

func (h *Handler) handleTrackSymptom(w http.ResponseWriter, r *http.Request) {
	var req models.TrackSymptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ack, err := h.service.TrackSymptom(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to track symptom")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (h *Handler) handleQuickCheckin(w http.ResponseWriter, r *http.Request) {
	var req models.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ack, err := h.service.QuickCheckin(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to record checkin")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (h *Handler) handleRequestAccommodation(w http.ResponseWriter, r *http.Request) {
	var req models.AccommodationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ack, err := h.service.RequestAccommodation(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to create accommodation request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	profileID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return
	}

	requester := middleware.RequesterFromContext(r.Context())
	history, err := h.service.History(r.Context(), vars["domain"], profileID, sinceParam(r), requester)
	if err != nil {
		if errors.Is(err, privacy.ErrUnsupportedDomain) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load history")
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleOrganizationRecords(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	requester := middleware.RequesterFromContext(r.Context())
	batch, err := h.service.OrganizationRecords(r.Context(), vars["domain"], organizationID, sinceParam(r), time.Now().UTC(), requester)
	if err != nil {
		if errors.Is(err, privacy.ErrUnsupportedDomain) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load organization records")
		http.Error(w, "failed to load organization records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// sinceParam parses a lookback in months, defaulting to three.
func sinceParam(r *http.Request) time.Time {
	months := 3
	if raw := r.URL.Query().Get("months"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			months = v
		}
	}
	return time.Now().UTC().AddDate(0, -months, 0)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package insights

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wellnesshub/platform/pkg/common/logger"
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
	r.HandleFunc("/organizations/{id}/metrics/{domain}", h.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/organizations/{id}/trends/{domain}", h.handleTrend).Methods(http.MethodGet)
	r.HandleFunc("/organizations/{id}/departments", h.handleDepartmentStats).Methods(http.MethodGet)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	requester := middleware.RequesterFromContext(r.Context())
	metrics, err := h.service.Metrics(r.Context(), vars["domain"], organizationID, monthsParam(r, 3), requester)
	if err != nil {
		writeMetricsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	requester := middleware.RequesterFromContext(r.Context())
	trend, err := h.service.Trend(r.Context(), vars["domain"], organizationID, monthsParam(r, 6), requester)
	if err != nil {
		writeMetricsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *Handler) handleDepartmentStats(w http.ResponseWriter, r *http.Request) {
	organizationID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	requester := middleware.RequesterFromContext(r.Context())
	stats, err := h.service.DepartmentStats(r.Context(), organizationID, requester)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load department stats")
		http.Error(w, "failed to load department stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeMetricsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInsufficientData):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, privacy.ErrUnsupportedDomain):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Log.WithError(err).Error("failed to compute organization metrics")
		http.Error(w, "failed to compute organization metrics", http.StatusInternalServerError)
	}
}

func monthsParam(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("months"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
)

// DefaultSnapshotLimit is used when the limit query parameter is absent
const DefaultSnapshotLimit = 30

// Handler serves the read-only JSON views of the dashboard
type Handler struct {
	svc *dashboard.DashboardService
	log logrus.FieldLogger
}

// NewHandler creates a new Handler
func NewHandler(svc *dashboard.DashboardService, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NetWorth handles GET /v1/users/{userID}/networth
func (h *Handler) NetWorth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	opts := aggregator.Options{}
	if raw := r.URL.Query().Get("include_receivables"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid include_receivables")
			return
		}
		opts.IncludeReceivables = include
	}

	report, err := h.svc.GetNetWorth(r.Context(), userID, opts)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report.View())
}

// Snapshots handles GET /v1/users/{userID}/snapshots
func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	limit := DefaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := h.svc.ListSnapshots(r.Context(), userID, limit)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, dashboard.NewSnapshotListView(snaps))
}

// Rates handles GET /v1/rates
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, dashboard.NewRatesView(h.svc.CurrentRates(r.Context())))
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return userID, true
}

// fail maps a service error to a status code
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	// driver and provider details stay in the log
	h.log.WithError(err).Error("request failed")
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Warn("failed to write response")
	}
}

package rest

import (
	"encoding/json"
	"net/http"

	"pulserelay/internal/domain"
)

// MetricsSource is the read/write surface the relay exposes over HTTP.
type MetricsSource interface {
	Update(domain.Snapshot) bool
	LatestWithDerived() (domain.Snapshot, bool)
	Health() domain.Health
}

type MetricsHandler struct {
	proc MetricsSource
}

func NewMetricsHandler(proc MetricsSource) *MetricsHandler {
	return &MetricsHandler{proc: proc}
}

// Latest serves the newest accepted snapshot with derived rates, as a
// bare JSON object (not an envelope) so dashboards and scrapers can
// consume it directly.
func (h *MetricsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	sample, ok := h.proc.LatestWithDerived()
	if !ok {
		JSONError(w, http.StatusServiceUnavailable, "no metrics available")
		return
	}

	writeJSON(w, http.StatusOK, sample)
}

func (h *MetricsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.proc.Health())
}

// Ingest accepts one pushed snapshot. The processor's ordering rule
// arbitrates between push and poll sources; a non-advancing sample is
// answered with 422 rather than treated as a server fault.
func (h *MetricsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var sample domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.proc.Update(sample) {
		JSONError(w, http.StatusUnprocessableEntity, "sample rejected")
		return
	}

	writeJSON(w, http.StatusAccepted, APIResponse{Message: "sample accepted"})
}

package rest

import (
	"net/http"

	"pulserelay/internal/domain"
	"pulserelay/internal/filecache"
)

// FileCache is the read surface of the file-backed relay cache.
type FileCache interface {
	Latest() (domain.Snapshot, bool)
	Events() string
	Info() filecache.Info
}

type FileRelayHandler struct {
	cache FileCache
}

func NewFileRelayHandler(cache FileCache) *FileRelayHandler {
	return &FileRelayHandler{cache: cache}
}

type indexResponse struct {
	Endpoints map[string]string `json:"endpoints"`
	filecache.Info
}

func (h *FileRelayHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Endpoints: map[string]string{
			"/latest": "Latest metric snapshot as JSON",
			"/events": "Job events log as plain text",
		},
		Info: h.cache.Info(),
	})
}

// Latest serves the last parsed metrics line, or {} when the file has
// yielded nothing valid yet.
func (h *FileRelayHandler) Latest(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	sample, ok := h.cache.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	writeJSON(w, http.StatusOK, sample)
}

func (h *FileRelayHandler) Events(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.cache.Events()))
}

func noCache(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

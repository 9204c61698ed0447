package rest

import (
	"net/http"

	"pulserelay/internal/transport/rest/middleware"
	"pulserelay/internal/transport/websocket"
)

type RelayDeps struct {
	Metrics *MetricsHandler
	WS      *websocket.Handler
}

// NewRelayRouter wires the dashboard relay surface. Anything outside
// the declared patterns falls through to the mux's 404.
func NewRelayRouter(deps *RelayDeps) http.Handler {
	mux := http.NewServeMux()

	// DASHBOARD
	mux.HandleFunc("GET /{$}", ServeDashboard)

	// METRICS
	mux.HandleFunc("GET /metrics", deps.Metrics.Latest)
	mux.HandleFunc("GET /health", deps.Metrics.Health)
	mux.HandleFunc("POST /ingest", deps.Metrics.Ingest)

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.WS.Serve)

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS())

	return globalMw.Apply(mux)
}

type FileRelayDeps struct {
	Files *FileRelayHandler
}

func NewFileRelayRouter(deps *FileRelayDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", deps.Files.Index)
	mux.HandleFunc("GET /latest", deps.Files.Latest)
	mux.HandleFunc("GET /latest.json", deps.Files.Latest)
	mux.HandleFunc("GET /events", deps.Files.Events)
	mux.HandleFunc("GET /events.log", deps.Files.Events)

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS())

	return globalMw.Apply(mux)
}

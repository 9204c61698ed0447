package domain

const (
	StatusOK    = "ok"
	StatusStale = "stale"
)

// Health is the staleness signal served on /health. LastSeenTS is nil
// until a first sample has been accepted.
type Health struct {
	Status     string   `json:"status"`
	LastSeenTS *float64 `json:"last_seen_ts"`
}

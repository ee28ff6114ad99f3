// Package diag exposes a small local HTTP endpoint with sync-channel health,
// for a dev UI or curl while debugging reconciliation issues.
package diag

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/bidforhope/livesync/go/internal/topicsync"
)

// ChannelSource yields the channels to report on. Stats are read at request
// time, so the report is always current.
type ChannelSource func() []*topicsync.Channel

// NewServer builds the diagnostics HTTP server on the given port.
func NewServer(port int, channels ChannelSource) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/sync", func(w http.ResponseWriter, r *http.Request) {
		stats := make([]topicsync.Stats, 0)
		for _, ch := range channels() {
			stats = append(stats, ch.Stats())
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"channels": stats,
		}); err != nil {
			log.Error().Err(err).Msg("failed to encode sync stats")
		}
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: c.Handler(mux),
	}
}

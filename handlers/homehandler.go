package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	welcomeMessage = "Welcome to the Destination Travel API!"
	pingTimeout    = 2 * time.Second
)

func HandleHome(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, messageResponse{Message: welcomeMessage})
	}
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealth reports whether the database answers a ping.
func HandleHealth(pinger Pinger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			log.Warn("Database ping failed", zap.Error(err))
			writeJSON(w, log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}

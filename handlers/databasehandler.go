package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type TestDatabaseResetter interface {
	ResetDestinations(ctx context.Context) error
}

// HandleResetTestDatabase empties the destination table. The route is only
// registered when the server runs against the test database.
func HandleResetTestDatabase(resetter TestDatabaseResetter, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := resetter.ResetDestinations(r.Context())
		if err != nil {
			log.Error("Error resetting test database", zap.Error(err))
			writeError(w, log, http.StatusInternalServerError, internalErrorMessage)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

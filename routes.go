package main

import (
	"net/http"
	"time"

	"destination-travel-api/config"
	"destination-travel-api/db"
	"destination-travel-api/handlers"
	"destination-travel-api/metrics"
	"destination-travel-api/middleware"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	corsMaxAge        = 300
)

func SetupServer(cfg *config.Config, dao *db.DestinationDAO, recorder *metrics.Recorder, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	destinationHandler := handlers.NewDestinationHandler(dao, recorder, log)

	route := func(pattern, endpoint string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.Metrics(recorder, endpoint, handler))
	}

	// setup routes
	route("GET /{$}", "/", handlers.HandleHome(log))

	route("GET /destinations", "/destinations", destinationHandler.GetDestinations)
	route("POST /destinations", "/destinations", destinationHandler.CreateDestination)
	route("GET /destinations/{id}", "/destinations/{id}", destinationHandler.GetDestination)
	route("PUT /destinations/{id}", "/destinations/{id}", destinationHandler.UpdateDestination)
	route("DELETE /destinations/{id}", "/destinations/{id}", destinationHandler.DeleteDestination)

	mux.HandleFunc("GET /health", handlers.HandleHealth(dao, log))
	mux.Handle("GET /metrics", recorder.Handler())

	if cfg.IsTestMode() {
		route("POST /resetTestDatabase", "/resetTestDatabase", handlers.HandleResetTestDatabase(dao, log))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         corsMaxAge,
	})

	var handler http.Handler = mux
	handler = middleware.Logger(log)(handler)
	handler = middleware.RequestID(handler)
	handler = corsHandler.Handler(handler)
	handler = gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(zap.NewStdLog(log.Named("recovery"))),
		gorillahandlers.PrintRecoveryStack(true),
	)(handler)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}
}

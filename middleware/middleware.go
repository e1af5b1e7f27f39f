// Package middleware holds the net/http middleware wrapped around the router.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"destination-travel-api/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"

	slowRequest     = time.Second
	slowGetRequest  = 500 * time.Millisecond
	maxUserAgentLen = 200
)

type ctxKey struct{}

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger writes one access log line per request. The level depends on the
// outcome: 5xx error, 4xx warn (404 info), writes and slow requests info,
// fast reads debug.
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkipLog(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("latency", latency),
				zap.String("ip", realIP(r)),
				zap.String("request_id", RequestIDFromContext(r.Context())),
			}
			if ua := r.UserAgent(); ua != "" && len(ua) < maxUserAgentLen {
				fields = append(fields, zap.String("user_agent", ua))
			}

			logByStatus(log, fields, wrapped.statusCode, latency, r.Method)
		})
	}
}

// Metrics records request count and latency under a fixed endpoint label,
// so that path parameters do not explode label cardinality.
func Metrics(recorder *metrics.Recorder, endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		recorder.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
	}
}

func shouldSkipLog(path string) bool {
	return strings.HasPrefix(path, "/health") ||
		strings.HasPrefix(path, "/metrics") ||
		path == "/favicon.ico"
}

func realIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	return r.RemoteAddr
}

func logByStatus(log *zap.Logger, fields []zap.Field, status int, latency time.Duration, method string) {
	msg := "request"
	switch {
	case status >= http.StatusInternalServerError:
		msg = "server_error"
	case status >= http.StatusBadRequest && status != http.StatusNotFound:
		msg = "client_error"
	case latency > slowRequest:
		msg = "slow_request"
		fields = append(fields, zap.Bool("slow", true))
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error(msg, fields...)
	case status == http.StatusNotFound:
		log.Info(msg, fields...)
	case status >= http.StatusBadRequest:
		log.Warn(msg, fields...)
	case method != http.MethodGet || latency > slowGetRequest:
		log.Info(msg, fields...)
	default:
		log.Debug(msg, fields...)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

package routes

import (
	"net/http"
	"runtime/debug"
	"time"

	"blog-server/handlers"
	"blog-server/notify"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// only well-formed ids are echoed into headers and logs
		requestId := r.Header.Get(requestIdHeader)
		if _, err := uuid.Parse(requestId); err != nil || len(requestId) != 36 {
			requestId = uuid.New().String()
		}
		w.Header().Set(requestIdHeader, requestId)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		zap.S().Infow("request",
			"id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}

// recoverPanics turns a panicking handler into a 500 page.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.S().Errorf("panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				notify.NotifyErr(notify.SeverityError, errors.Errorf("panic handling %s %s: %v", r.Method, r.URL.Path, rec))
				handlers.InternalErrorHandler(w, r)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !handlers.CurrentUser(r).IsAdmin() {
			zap.S().Warnf("Rejected non-admin request for %s %s", r.Method, r.URL.Path)
			handlers.ForbiddenHandler(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

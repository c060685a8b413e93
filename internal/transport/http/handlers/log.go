package handlers

import (
	"net/http"

	"github.com/ozzus/holiday-deals/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// logFailure logs server-side failures; client errors are left to the
// access log.
func logFailure(log *zap.Logger, r *http.Request, msg string, err error) {
	if mapHTTPStatus(err) < http.StatusInternalServerError {
		return
	}
	log.Error(msg,
		zap.String("request_id", middleware.RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}

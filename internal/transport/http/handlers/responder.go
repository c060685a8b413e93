package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
)

const defaultMaxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError answers with the status a domain error maps to.
func writeServiceError(w http.ResponseWriter, err error) {
	status := mapHTTPStatus(err)
	writeError(w, status, errorMessage(status, err))
}

func mapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, derr.ErrDealNotFound),
		errors.Is(err, derr.ErrPriceNotFound),
		errors.Is(err, derr.ErrHotelNotFound),
		errors.Is(err, derr.ErrBookingNotFound),
		errors.Is(err, derr.ErrNoFareAvailable):
		return http.StatusNotFound
	case errors.Is(err, derr.ErrDuplicateStartDate),
		errors.Is(err, derr.ErrInvalidStatusTransition),
		errors.Is(err, derr.ErrDealHasBookings):
		return http.StatusConflict
	case errors.Is(err, derr.ErrInvalidPrice),
		errors.Is(err, derr.ErrInvalidDateRange),
		errors.Is(err, derr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, derr.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal failures and strips operation prefixes
// ("service.AddPrice: ") from client errors.
func errorMessage(status int, err error) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	case http.StatusGatewayTimeout:
		return "timeout"
	}

	msg := err.Error()
	for strings.HasPrefix(msg, "service.") {
		i := strings.Index(msg, ": ")
		if i < 0 {
			break
		}
		msg = msg[i+2:]
	}
	return msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, defaultMaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body too large: %w", derr.ErrInvalidInput)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty: %w", derr.ErrInvalidInput)
		default:
			return fmt.Errorf("invalid json: %v: %w", err, derr.ErrInvalidInput)
		}
	}

	return nil
}

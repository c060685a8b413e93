package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

func parsePathID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.PathValue(name))
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parsePositiveIntQuery(r *http.Request, key string) (value int64, present bool, errMsg string) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, r.URL.Query().Has(key), ""
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, true, fmt.Sprintf("%s must be a positive integer", key)
	}

	return parsed, true, ""
}

func parseNonNegativeIntQuery(r *http.Request, key string) (int, string) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, ""
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, fmt.Sprintf("%s must be a non-negative integer", key)
	}
	return parsed, ""
}

// parseFareQuery reads the optional date and airport selection.
func parseFareQuery(r *http.Request) (models.FareQuery, error) {
	q := models.FareQuery{
		Airport: models.NormalizeAirport(r.URL.Query().Get("airport")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err := models.ParseDay(raw)
		if err != nil {
			return models.FareQuery{}, fmt.Errorf("date must be YYYY-MM-DD: %w", derr.ErrInvalidInput)
		}
		q.Date = date
	}

	return q, nil
}

func parseDayQuery(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, nil
	}

	day, err := models.ParseDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD: %w", key, derr.ErrInvalidInput)
	}
	return day, nil
}

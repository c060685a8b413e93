package handlers

import (
	"net/http"

	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

type FareHandler struct {
	log   *zap.Logger
	fares FareService
}

func NewFareHandler(log *zap.Logger, fares FareService) *FareHandler {
	return &FareHandler{log: log, fares: fares}
}

// GetFare resolves the fare for ?date=&airport=. Without both it answers
// with the lead fare and the default selection derived from it.
func (h *FareHandler) GetFare(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	q, err := parseFareQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	quote, err := h.fares.Quote(r.Context(), dealID, q)
	if err != nil {
		logFailure(h.log, r, "quote fare failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newFareResponse(quote))
}

// GetCalendar lists bookable days with their cheapest price, plus the
// airports served on ?date= (every airport when no date is given).
func (h *FareHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	date, err := parseDayQuery(r, "date")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	airport := models.NormalizeAirport(r.URL.Query().Get("airport"))

	days, err := h.fares.Calendar(r.Context(), dealID, airport)
	if err != nil {
		logFailure(h.log, r, "calendar failed", err)
		writeServiceError(w, err)
		return
	}
	airports, err := h.fares.Airports(r.Context(), dealID, date)
	if err != nil {
		logFailure(h.log, r, "calendar airports failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		DealID:   dealID,
		Airport:  airport,
		Days:     newCalendarDays(days),
		Airports: airports,
	})
}

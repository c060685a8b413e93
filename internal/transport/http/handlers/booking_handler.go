package handlers

import (
	"errors"
	"net/http"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

type BookingHandler struct {
	log       *zap.Logger
	bookings  BookingService
	validator StructValidator
}

func NewBookingHandler(log *zap.Logger, bookings BookingService, validator StructValidator) *BookingHandler {
	return &BookingHandler{log: log, bookings: bookings, validator: validator}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	bookingReq, err := req.toModel()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), bookingReq)
	if err != nil {
		if errors.Is(err, derr.ErrNoFareAvailable) {
			writeError(w, http.StatusUnprocessableEntity, derr.ErrNoFareAvailable.Error())
			return
		}
		logFailure(h.log, r, "create booking failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newBookingResponse(booking))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		logFailure(h.log, r, "get booking failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	dealID, _, errMsg := parsePositiveIntQuery(r, "deal_id")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	bookings, err := h.bookings.ListBookings(r.Context(), dealID)
	if err != nil {
		logFailure(h.log, r, "list bookings failed", err)
		writeServiceError(w, err)
		return
	}

	items := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, newBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	status, ok := models.ParseBookingStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "status must be pending, confirmed or cancelled")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), id, status)
	if err != nil {
		logFailure(h.log, r, "update booking status failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

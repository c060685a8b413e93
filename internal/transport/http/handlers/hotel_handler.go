package handlers

import (
	"net/http"

	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

type HotelHandler struct {
	log       *zap.Logger
	hotels    HotelService
	validator StructValidator
}

func NewHotelHandler(log *zap.Logger, hotels HotelService, validator StructValidator) *HotelHandler {
	return &HotelHandler{log: log, hotels: hotels, validator: validator}
}

func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.hotels.CreateHotel(r.Context(), models.Hotel{
		Name:        req.Name,
		Destination: req.Destination,
		Stars:       req.Stars,
		Description: req.Description,
		Images:      req.Images,
	})
	if err != nil {
		logFailure(h.log, r, "create hotel failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newHotelResponse(created))
}

func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.hotels.ListHotels(r.Context(), r.URL.Query().Get("destination"))
	if err != nil {
		logFailure(h.log, r, "list hotels failed", err)
		writeServiceError(w, err)
		return
	}

	items := make([]hotelResponse, 0, len(hotels))
	for _, hotel := range hotels {
		items = append(items, newHotelResponse(hotel))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *HotelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	hotel, err := h.hotels.GetHotel(r.Context(), id)
	if err != nil {
		logFailure(h.log, r, "get hotel failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newHotelResponse(hotel))
}

func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	if err := h.hotels.DeleteHotel(r.Context(), id); err != nil {
		logFailure(h.log, r, "delete hotel failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

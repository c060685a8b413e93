package handlers

import (
	"net/http"
	"strings"

	"github.com/ozzus/holiday-deals/internal/application/service"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

type DealHandler struct {
	log       *zap.Logger
	deals     DealService
	fares     FareService
	validator StructValidator
}

func NewDealHandler(log *zap.Logger, deals DealService, fares FareService, validator StructValidator) *DealHandler {
	return &DealHandler{
		log:       log,
		deals:     deals,
		fares:     fares,
		validator: validator,
	}
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}

	deal, err := req.toModel()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.deals.CreateDeal(r.Context(), deal)
	if err != nil {
		h.logFailure(r, "create deal failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newDealResponse(created, true))
}

// List is the catalog: one page of deals, each with its lead fare for the
// optional date/airport selection.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _, errMsg := parsePositiveIntQuery(r, "limit")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	offset, errMsg := parseNonNegativeIntQuery(r, "offset")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	q, err := parseFareQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filter := models.DealFilter{
		Destination: strings.TrimSpace(r.URL.Query().Get("destination")),
		Tag:         strings.TrimSpace(r.URL.Query().Get("tag")),
		Limit:       int(limit),
		Offset:      offset,
	}

	items, err := h.fares.Catalog(r.Context(), filter, q)
	if err != nil {
		h.logFailure(r, "catalog failed", err)
		writeServiceError(w, err)
		return
	}

	resp := catalogResponse{
		Items:  make([]dealResponse, 0, len(items)),
		Errors: []catalogLoadError{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, item := range items {
		d := newDealResponse(item.Deal, false)
		if item.Lead != nil {
			lead := newFareResponse(*item.Lead)
			d.LeadFare = &lead
		}
		if item.Error != "" {
			resp.Errors = append(resp.Errors, catalogLoadError{DealID: item.Deal.ID, Error: item.Error})
		}
		resp.Items = append(resp.Items, d)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns the deal with its prices and the lead fare, resolved for the
// optional date/airport selection or seeded from the cheapest entry.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	q, err := parseFareQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	deal, err := h.deals.GetDeal(r.Context(), id)
	if err != nil {
		h.logFailure(r, "get deal failed", err)
		writeServiceError(w, err)
		return
	}

	resp := newDealResponse(deal, true)
	if quote, ok := service.LeadFare(deal, q); ok {
		lead := newFareResponse(quote)
		resp.LeadFare = &lead
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	var req dealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	if len(req.Prices) > 0 {
		writeError(w, http.StatusBadRequest, "prices are managed through /v1/deals/{id}/prices")
		return
	}

	deal, err := req.toModel()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	deal.ID = id

	updated, err := h.deals.UpdateDeal(r.Context(), deal)
	if err != nil {
		h.logFailure(r, "update deal failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newDealResponse(updated, true))
}

func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	if err := h.deals.DeleteDeal(r.Context(), id); err != nil {
		h.logFailure(r, "delete deal failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (h *DealHandler) logFailure(r *http.Request, msg string, err error) {
	logFailure(h.log, r, msg, err)
}

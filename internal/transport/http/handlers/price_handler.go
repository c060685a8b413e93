package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/infrastructures/pricesheet"
	"go.uber.org/zap"
)

type PriceHandler struct {
	log            *zap.Logger
	deals          DealService
	validator      StructValidator
	maxUploadBytes int64
}

func NewPriceHandler(log *zap.Logger, deals DealService, validator StructValidator, maxUploadBytes int64) *PriceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 2 << 20
	}

	return &PriceHandler{
		log:            log,
		deals:          deals,
		validator:      validator,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *PriceHandler) Add(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	var req priceEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	entry, err := req.toModel()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.deals.AddPrice(r.Context(), dealID, entry)
	if err != nil {
		logFailure(h.log, r, "add price failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPriceEntryResponse(created))
}

func (h *PriceHandler) Update(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	priceID, ok := parsePathID(r, "priceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid price id")
		return
	}

	var req priceEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	entry, err := req.toModel()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entry.ID = priceID

	updated, err := h.deals.UpdatePrice(r.Context(), dealID, entry)
	if err != nil {
		logFailure(h.log, r, "update price failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPriceEntryResponse(updated))
}

// SetActive is the admin on/off switch of a departure.
func (h *PriceHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	priceID, ok := parsePathID(r, "priceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid price id")
		return
	}

	var req activeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		writeServiceError(w, err)
		return
	}

	entry, err := h.deals.SetPriceActive(r.Context(), dealID, priceID, *req.Active)
	if err != nil {
		logFailure(h.log, r, "toggle price failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPriceEntryResponse(entry))
}

func (h *PriceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	priceID, ok := parsePathID(r, "priceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid price id")
		return
	}

	if err := h.deals.DeletePrice(r.Context(), dealID, priceID); err != nil {
		logFailure(h.log, r, "delete price failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// Import accepts a CSV price sheet either as the raw body or as the "file"
// part of a multipart form. mode=replace swaps the whole list, the default
// appends.
func (h *PriceHandler) Import(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	replace := false
	switch mode := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode"))); mode {
	case "", "append":
	case "replace":
		replace = true
	default:
		writeError(w, http.StatusBadRequest, "mode must be append or replace")
		return
	}

	sheet, err := h.readSheet(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries, err := pricesheet.Decode(bytes.NewReader(sheet))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stored, err := h.deals.ImportPrices(r.Context(), dealID, entries, replace)
	if err != nil {
		logFailure(h.log, r, "import prices failed", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deal_id":  dealID,
		"imported": len(entries),
		"replace":  replace,
		"prices":   newPriceEntryResponses(stored),
	})
}

func (h *PriceHandler) readSheet(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = body
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %v: %w", err, derr.ErrInvalidInput)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file part is required: %w", derr.ErrInvalidInput)
		}
		defer file.Close()
		body = file
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read price sheet: %v: %w", err, derr.ErrInvalidInput)
	}
	return data, nil
}

func (h *PriceHandler) Export(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parsePathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	deal, err := h.deals.GetDeal(r.Context(), dealID)
	if err != nil {
		logFailure(h.log, r, "export prices failed", err)
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pricesheet.Encode(&buf, deal.Prices); err != nil {
		logFailure(h.log, r, "encode price sheet failed", err)
		writeError(w, http.StatusInternalServerError, "failed to encode price sheet")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="deal-%d-prices.csv"`, dealID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

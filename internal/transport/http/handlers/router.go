package handlers

import (
	"net/http"

	"github.com/ozzus/holiday-deals/internal/transport/http/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterDeps struct {
	Deals     DealService
	Fares     FareService
	Hotels    HotelService
	Bookings  BookingService
	Validator StructValidator

	// BookingLimiter throttles booking creation; nil disables it.
	BookingLimiter *rate.Limiter
	AllowedOrigins []string
	MaxUploadBytes int64
	Ready          func() bool
}

func NewRouter(log *zap.Logger, deps RouterDeps) http.Handler {
	deals := NewDealHandler(log, deps.Deals, deps.Fares, deps.Validator)
	prices := NewPriceHandler(log, deps.Deals, deps.Validator, deps.MaxUploadBytes)
	fares := NewFareHandler(log, deps.Fares)
	hotels := NewHotelHandler(log, deps.Hotels, deps.Validator)
	bookings := NewBookingHandler(log, deps.Bookings, deps.Validator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler(deps.Ready))

	mux.HandleFunc("POST /v1/deals", deals.Create)
	mux.HandleFunc("GET /v1/deals", deals.List)
	mux.HandleFunc("GET /v1/deals/{id}", deals.Get)
	mux.HandleFunc("PUT /v1/deals/{id}", deals.Update)
	mux.HandleFunc("DELETE /v1/deals/{id}", deals.Delete)

	mux.HandleFunc("POST /v1/deals/{id}/prices", prices.Add)
	mux.HandleFunc("PUT /v1/deals/{id}/prices/{priceID}", prices.Update)
	mux.HandleFunc("DELETE /v1/deals/{id}/prices/{priceID}", prices.Delete)
	mux.HandleFunc("PATCH /v1/deals/{id}/prices/{priceID}/active", prices.SetActive)
	mux.HandleFunc("POST /v1/deals/{id}/prices/import", prices.Import)
	mux.HandleFunc("GET /v1/deals/{id}/prices/export", prices.Export)

	mux.HandleFunc("GET /v1/deals/{id}/fare", fares.GetFare)
	mux.HandleFunc("GET /v1/deals/{id}/calendar", fares.GetCalendar)

	mux.HandleFunc("POST /v1/hotels", hotels.Create)
	mux.HandleFunc("GET /v1/hotels", hotels.List)
	mux.HandleFunc("GET /v1/hotels/{id}", hotels.Get)
	mux.HandleFunc("DELETE /v1/hotels/{id}", hotels.Delete)

	mux.Handle("POST /v1/bookings", middleware.RateLimit(log, deps.BookingLimiter)(http.HandlerFunc(bookings.Create)))
	mux.HandleFunc("GET /v1/bookings", bookings.List)
	mux.HandleFunc("GET /v1/bookings/{id}", bookings.Get)
	mux.HandleFunc("PATCH /v1/bookings/{id}/status", bookings.UpdateStatus)

	var handler http.Handler = mux
	handler = middleware.CORS(deps.AllowedOrigins)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.Recovery(log)(handler)
	handler = middleware.Logging(log)(handler)

	return handler
}

func healthHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

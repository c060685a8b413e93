package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/ozzus/holiday-deals/internal/application/service"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

type priceEntryRequest struct {
	Country        string            `json:"country" validate:"required,country"`
	StartDate      string            `json:"start_date" validate:"required"`
	EndDate        string            `json:"end_date"`
	Airports       models.AirportSet `json:"airports" validate:"omitempty,dive,required"`
	Price          decimal.Decimal   `json:"price"`
	Active         *bool             `json:"active"`
	HotelID        *int64            `json:"hotel_id" validate:"omitempty,gt=0"`
	FlightOutbound models.FlightInfo `json:"flight_outbound"`
	FlightReturn   models.FlightInfo `json:"flight_return"`
}

func (req priceEntryRequest) toModel() (models.PriceEntry, error) {
	start, err := models.ParseDay(req.StartDate)
	if err != nil {
		return models.PriceEntry{}, fmt.Errorf("start_date: %v: %w", err, derr.ErrInvalidInput)
	}

	var end time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		end, err = models.ParseDay(req.EndDate)
		if err != nil {
			return models.PriceEntry{}, fmt.Errorf("end_date: %v: %w", err, derr.ErrInvalidInput)
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return models.PriceEntry{
		Country:        models.Country(req.Country),
		StartDate:      start,
		EndDate:        end,
		Airports:       req.Airports,
		Price:          req.Price,
		Active:         active,
		HotelID:        req.HotelID,
		FlightOutbound: req.FlightOutbound,
		FlightReturn:   req.FlightReturn,
	}, nil
}

type dealRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description"`
	Destination string              `json:"destination" validate:"max=120"`
	Images      []string            `json:"images" validate:"omitempty,dive,url"`
	Itinerary   []string            `json:"itinerary"`
	Inclusions  []string            `json:"inclusions"`
	Tags        []string            `json:"tags" validate:"omitempty,dive,required"`
	Prices      []priceEntryRequest `json:"prices" validate:"omitempty,dive"`
}

func (req dealRequest) toModel() (models.Deal, error) {
	deal := models.Deal{
		Title:       req.Title,
		Description: req.Description,
		Destination: strings.TrimSpace(req.Destination),
		Images:      req.Images,
		Itinerary:   req.Itinerary,
		Inclusions:  req.Inclusions,
		Tags:        req.Tags,
	}

	for i, p := range req.Prices {
		entry, err := p.toModel()
		if err != nil {
			return models.Deal{}, fmt.Errorf("prices[%d]: %w", i, err)
		}
		deal.Prices = append(deal.Prices, entry)
	}

	return deal, nil
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type hotelRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Destination string   `json:"destination" validate:"max=120"`
	Stars       int      `json:"stars" validate:"gte=0,lte=5"`
	Description string   `json:"description"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type passengerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=40"`
}

type bookingRequest struct {
	DealID     int64            `json:"deal_id" validate:"gt=0"`
	TravelDate string           `json:"travel_date" validate:"required"`
	Airport    string           `json:"airport" validate:"max=64"`
	Adults     int              `json:"adults" validate:"gte=1,lte=20"`
	Children   int              `json:"children" validate:"gte=0,lte=20"`
	Lead       passengerRequest `json:"lead"`
}

func (req bookingRequest) toModel() (models.BookingRequest, error) {
	date, err := models.ParseDay(req.TravelDate)
	if err != nil {
		return models.BookingRequest{}, fmt.Errorf("travel_date: %v: %w", err, derr.ErrInvalidInput)
	}

	return models.BookingRequest{
		DealID:     req.DealID,
		TravelDate: date,
		Airport:    req.Airport,
		Adults:     req.Adults,
		Children:   req.Children,
		Lead: models.Passenger{
			Name:  req.Lead.Name,
			Email: req.Lead.Email,
			Phone: req.Lead.Phone,
		},
	}, nil
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type priceEntryResponse struct {
	ID             int64              `json:"id"`
	DealID         int64              `json:"deal_id"`
	Country        string             `json:"country"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	Airports       []string           `json:"airports"`
	Price          string             `json:"price"`
	Active         bool               `json:"active"`
	HotelID        *int64             `json:"hotel_id,omitempty"`
	FlightOutbound *models.FlightInfo `json:"flight_outbound,omitempty"`
	FlightReturn   *models.FlightInfo `json:"flight_return,omitempty"`
}

func newPriceEntryResponse(e models.PriceEntry) priceEntryResponse {
	start, end, _ := e.Window()
	resp := priceEntryResponse{
		ID:        e.ID,
		DealID:    e.DealID,
		Country:   string(e.Country),
		StartDate: models.FormatDay(start),
		EndDate:   models.FormatDay(end),
		Airports:  append([]string{}, e.Airports...),
		Price:     e.Price.StringFixed(2),
		Active:    e.Active,
		HotelID:   e.HotelID,
	}
	if !e.FlightOutbound.IsZero() {
		out := e.FlightOutbound
		resp.FlightOutbound = &out
	}
	if !e.FlightReturn.IsZero() {
		ret := e.FlightReturn
		resp.FlightReturn = &ret
	}
	return resp
}

func newPriceEntryResponses(entries []models.PriceEntry) []priceEntryResponse {
	out := make([]priceEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newPriceEntryResponse(e))
	}
	return out
}

type fareQueryResponse struct {
	Date    string `json:"date,omitempty"`
	Airport string `json:"airport,omitempty"`
}

type fareResponse struct {
	DealID   int64              `json:"deal_id"`
	Query    fareQueryResponse  `json:"query"`
	Price    string             `json:"price"`
	Fallback bool               `json:"fallback"`
	Seeded   bool               `json:"seeded,omitempty"`
	Entry    priceEntryResponse `json:"entry"`
}

func newFareResponse(q service.FareQuote) fareResponse {
	return fareResponse{
		DealID: q.DealID,
		Query: fareQueryResponse{
			Date:    models.FormatDay(q.Query.Date),
			Airport: q.Query.Airport,
		},
		Price:    q.Entry.Price.StringFixed(2),
		Fallback: q.Fallback,
		Seeded:   q.Seeded,
		Entry:    newPriceEntryResponse(q.Entry),
	}
}

type dealResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Destination string               `json:"destination"`
	Images      []string             `json:"images"`
	Itinerary   []string             `json:"itinerary"`
	Inclusions  []string             `json:"inclusions"`
	Tags        []string             `json:"tags"`
	Prices      []priceEntryResponse `json:"prices,omitempty"`
	LeadFare    *fareResponse        `json:"lead_fare,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func newDealResponse(d models.Deal, withPrices bool) dealResponse {
	resp := dealResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Destination: d.Destination,
		Images:      orEmpty(d.Images),
		Itinerary:   orEmpty(d.Itinerary),
		Inclusions:  orEmpty(d.Inclusions),
		Tags:        orEmpty(d.Tags),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if withPrices {
		resp.Prices = newPriceEntryResponses(d.Prices)
	}
	return resp
}

type catalogLoadError struct {
	DealID int64  `json:"deal_id"`
	Error  string `json:"error"`
}

type catalogResponse struct {
	Items  []dealResponse     `json:"items"`
	Errors []catalogLoadError `json:"errors"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type calendarDayResponse struct {
	Date     string   `json:"date"`
	Price    string   `json:"price"`
	PriceID  int64    `json:"price_id"`
	Airports []string `json:"airports"`
}

type calendarResponse struct {
	DealID   int64                 `json:"deal_id"`
	Airport  string                `json:"airport,omitempty"`
	Days     []calendarDayResponse `json:"days"`
	Airports []string              `json:"airports"`
}

func newCalendarDays(days []fare.CalendarDay) []calendarDayResponse {
	out := make([]calendarDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, calendarDayResponse{
			Date:     models.FormatDay(d.Date),
			Price:    d.Price.StringFixed(2),
			PriceID:  d.PriceID,
			Airports: d.Airports.Sorted(),
		})
	}
	return out
}

type hotelResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Stars       int       `json:"stars"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

func newHotelResponse(h models.Hotel) hotelResponse {
	return hotelResponse{
		ID:          h.ID,
		Name:        h.Name,
		Destination: h.Destination,
		Stars:       h.Stars,
		Description: h.Description,
		Images:      orEmpty(h.Images),
		CreatedAt:   h.CreatedAt,
	}
}

type passengerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type bookingResponse struct {
	ID         int64             `json:"id"`
	Reference  string            `json:"reference"`
	DealID     int64             `json:"deal_id"`
	PriceID    int64             `json:"price_id"`
	TravelDate string            `json:"travel_date"`
	Airport    string            `json:"airport"`
	Adults     int               `json:"adults"`
	Children   int               `json:"children"`
	Lead       passengerResponse `json:"lead"`
	UnitPrice  string            `json:"unit_price"`
	TotalPrice string            `json:"total_price"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

func newBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		DealID:     b.DealID,
		PriceID:    b.PriceID,
		TravelDate: models.FormatDay(b.TravelDate),
		Airport:    b.Airport,
		Adults:     b.Adults,
		Children:   b.Children,
		Lead: passengerResponse{
			Name:  b.Lead.Name,
			Email: b.Lead.Email,
			Phone: b.Lead.Phone,
		},
		UnitPrice:  b.UnitPrice.StringFixed(2),
		TotalPrice: b.TotalPrice.StringFixed(2),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

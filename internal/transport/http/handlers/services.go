package handlers

import (
	"context"
	"time"

	"github.com/ozzus/holiday-deals/internal/application/service"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

type DealService interface {
	CreateDeal(ctx context.Context, deal models.Deal) (models.Deal, error)
	GetDeal(ctx context.Context, id int64) (models.Deal, error)
	UpdateDeal(ctx context.Context, deal models.Deal) (models.Deal, error)
	DeleteDeal(ctx context.Context, id int64) error

	AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error)
	UpdatePrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error)
	SetPriceActive(ctx context.Context, dealID, priceID int64, active bool) (models.PriceEntry, error)
	DeletePrice(ctx context.Context, dealID, priceID int64) error
	ImportPrices(ctx context.Context, dealID int64, entries []models.PriceEntry, replace bool) ([]models.PriceEntry, error)
}

type FareService interface {
	Quote(ctx context.Context, dealID int64, q models.FareQuery) (service.FareQuote, error)
	Calendar(ctx context.Context, dealID int64, airport string) ([]fare.CalendarDay, error)
	Airports(ctx context.Context, dealID int64, date time.Time) ([]string, error)
	Catalog(ctx context.Context, filter models.DealFilter, q models.FareQuery) ([]service.CatalogItem, error)
}

type HotelService interface {
	CreateHotel(ctx context.Context, hotel models.Hotel) (models.Hotel, error)
	GetHotel(ctx context.Context, id int64) (models.Hotel, error)
	ListHotels(ctx context.Context, destination string) ([]models.Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error)
	GetBooking(ctx context.Context, id int64) (models.Booking, error)
	ListBookings(ctx context.Context, dealID int64) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) (models.Booking, error)
}

type StructValidator interface {
	ValidateStruct(s interface{}) error
}

package ports

import (
	"context"

	"github.com/ozzus/holiday-deals/internal/domain/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	List(ctx context.Context, dealID int64) ([]models.Booking, error)
	// UpdateStatus moves a booking from one status to another and fails with
	// ErrInvalidStatusTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) error
}

type HotelRepository interface {
	Create(ctx context.Context, hotel models.Hotel) (models.Hotel, error)
	GetByID(ctx context.Context, id int64) (models.Hotel, error)
	List(ctx context.Context, destination string) ([]models.Hotel, error)
	Delete(ctx context.Context, id int64) error
}

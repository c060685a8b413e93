package errors

import "errors"

var (
	ErrDealNotFound    = errors.New("deal not found")
	ErrPriceNotFound   = errors.New("price entry not found")
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrDuplicateStartDate = errors.New("active price entry with the same start date already exists")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidInput       = errors.New("invalid input")

	ErrNoFareAvailable         = errors.New("no fare available")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrStorageUnavailable      = errors.New("storage unavailable")
	ErrDealHasBookings         = errors.New("deal has bookings")
)

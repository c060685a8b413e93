package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(value string) (BookingStatus, bool) {
	switch BookingStatus(value) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(value), true
	default:
		return "", false
	}
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	default:
		return false
	}
}

type Passenger struct {
	Name  string
	Email string
	Phone string
}

type Booking struct {
	ID         int64
	Reference  string
	DealID     int64
	PriceID    int64
	TravelDate time.Time
	Airport    string
	Adults     int
	Children   int
	Lead       Passenger
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Status     BookingStatus
	CreatedAt  time.Time
}

type BookingRequest struct {
	DealID     int64
	TravelDate time.Time
	Airport    string
	Adults     int
	Children   int
	Lead       Passenger
}

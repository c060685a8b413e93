package service

import (
	"context"
	"errors"
	"testing"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestBookingService(bookings *testBookingStore) *BookingService {
	store := newTestDealStore(crete())
	svc := NewBookingService(zap.NewNop(), newTestDealService(store, nil), bookings)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	svc.newReference = func() string { return "ref-1" }
	return svc
}

func TestCreateBooking_PricesServerSide(t *testing.T) {
	bookings := &testBookingStore{}
	svc := newTestBookingService(bookings)

	got, err := svc.CreateBooking(context.Background(), models.BookingRequest{
		DealID:     1,
		TravelDate: testDay(2026, 6, 1),
		Airport:    "man",
		Adults:     2,
		Children:   1,
		Lead:       models.Passenger{Name: " Jane Doe ", Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PriceID != 10 || got.Airport != "MAN" {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if !got.TotalPrice.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected total: %s", got.TotalPrice)
	}
	if got.Reference != "ref-1" || got.Status != models.BookingPending {
		t.Fatalf("unexpected reference/status: %q %q", got.Reference, got.Status)
	}
	if got.Lead.Name != "Jane Doe" {
		t.Fatalf("lead name should be trimmed, got %q", got.Lead.Name)
	}
}

func TestCreateBooking_DefaultsAirportToEntry(t *testing.T) {
	svc := newTestBookingService(&testBookingStore{})

	got, err := svc.CreateBooking(context.Background(), models.BookingRequest{
		DealID:     1,
		TravelDate: testDay(2026, 6, 8),
		Adults:     1,
		Lead:       models.Passenger{Name: "Sam"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Airport != "BHX" {
		t.Fatalf("unexpected airport: %q", got.Airport)
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	lead := models.Passenger{Name: "Sam"}

	tests := []struct {
		name    string
		req     models.BookingRequest
		wantErr error
	}{
		{
			name:    "airport only served by fallback",
			req:     models.BookingRequest{DealID: 1, TravelDate: testDay(2026, 6, 1), Airport: "GLA", Adults: 1, Lead: lead},
			wantErr: derr.ErrNoFareAvailable,
		},
		{
			name:    "inactive entry",
			req:     models.BookingRequest{DealID: 1, TravelDate: testDay(2026, 6, 15), Airport: "LHR", Adults: 1, Lead: lead},
			wantErr: derr.ErrNoFareAvailable,
		},
		{
			name:    "date in the past",
			req:     models.BookingRequest{DealID: 1, TravelDate: testDay(2026, 4, 1), Airport: "LHR", Adults: 1, Lead: lead},
			wantErr: derr.ErrInvalidInput,
		},
		{
			name:    "no adults",
			req:     models.BookingRequest{DealID: 1, TravelDate: testDay(2026, 6, 1), Airport: "LHR", Children: 2, Lead: lead},
			wantErr: derr.ErrInvalidInput,
		},
		{
			name:    "missing lead name",
			req:     models.BookingRequest{DealID: 1, TravelDate: testDay(2026, 6, 1), Airport: "LHR", Adults: 1},
			wantErr: derr.ErrInvalidInput,
		},
		{
			name:    "unknown deal",
			req:     models.BookingRequest{DealID: 9, TravelDate: testDay(2026, 6, 1), Airport: "LHR", Adults: 1, Lead: lead},
			wantErr: derr.ErrDealNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bookings := &testBookingStore{}
			svc := newTestBookingService(bookings)

			_, err := svc.CreateBooking(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("unexpected error: got %v want %v", err, tc.wantErr)
			}
			if len(bookings.created) != 0 {
				t.Fatalf("booking should not be stored")
			}
		})
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	bookings := &testBookingStore{}
	svc := newTestBookingService(bookings)

	created, err := svc.CreateBooking(context.Background(), models.BookingRequest{
		DealID:     1,
		TravelDate: testDay(2026, 6, 1),
		Airport:    "LHR",
		Adults:     1,
		Lead:       models.Passenger{Name: "Sam"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.UpdateStatus(context.Background(), created.ID, models.BookingCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Fatalf("unexpected status: %q", got.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), created.ID, models.BookingConfirmed)
	if !errors.Is(err, derr.ErrInvalidStatusTransition) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrInvalidStatusTransition)
	}

	_, err = svc.UpdateStatus(context.Background(), 404, models.BookingConfirmed)
	if !errors.Is(err, derr.ErrBookingNotFound) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrBookingNotFound)
	}
}

func TestUpdateStatus_ConcurrentChangeIsRejected(t *testing.T) {
	bookings := &testBookingStore{}
	svc := newTestBookingService(bookings)

	created, err := svc.CreateBooking(context.Background(), models.BookingRequest{
		DealID:     1,
		TravelDate: testDay(2026, 6, 1),
		Airport:    "LHR",
		Adults:     1,
		Lead:       models.Passenger{Name: "Sam"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another request cancelled the booking after this one read it as pending.
	cancelled := created
	cancelled.Status = models.BookingCancelled
	bookings.bookings[created.ID] = cancelled
	bookings.stale = map[int64]models.Booking{created.ID: created}

	_, err = svc.UpdateStatus(context.Background(), created.ID, models.BookingConfirmed)
	if !errors.Is(err, derr.ErrInvalidStatusTransition) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrInvalidStatusTransition)
	}
	if got := bookings.bookings[created.ID].Status; got != models.BookingCancelled {
		t.Fatalf("cancelled booking was overwritten with %q", got)
	}
}

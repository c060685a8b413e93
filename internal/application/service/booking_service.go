package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/ozzus/holiday-deals/internal/domain/ports"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type BookingService struct {
	log   *zap.Logger
	deals ports.DealReader
	repo  ports.BookingRepository

	now          func() time.Time
	newReference func() string
}

func NewBookingService(log *zap.Logger, deals ports.DealReader, repo ports.BookingRepository) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}

	return &BookingService{
		log:          log,
		deals:        deals,
		repo:         repo,
		now:          time.Now,
		newReference: uuid.NewString,
	}
}

// CreateBooking prices the booking server-side. The fare must serve the
// requested airport; an airport-relaxed fallback fare is not bookable.
func (s *BookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	const op = "service.CreateBooking"
	tracer := otel.Tracer("deals-api/service")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	airport := models.NormalizeAirport(req.Airport)
	travelDate := models.Day(req.TravelDate)
	span.SetAttributes(
		attribute.Int64("booking.deal_id", req.DealID),
		attribute.String("booking.travel_date", models.FormatDay(travelDate)),
		attribute.String("booking.airport", airport),
	)

	logger := s.log.With(
		zap.String("op", op),
		zap.Int64("deal_id", req.DealID),
		zap.String("travel_date", models.FormatDay(travelDate)),
		zap.String("airport", airport),
	)

	if err := s.validateRequest(req, travelDate); err != nil {
		logger.Warn("invalid booking request", zap.Error(err))
		span.SetStatus(otelcodes.Error, "invalid request")
		return models.Booking{}, err
	}

	deal, err := s.deals.GetDeal(ctx, req.DealID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to load deal")
		return models.Booking{}, err
	}

	res, ok := fare.ResolveDetailed(deal.Prices, models.FareQuery{Date: travelDate, Airport: airport})
	if !ok || res.Fallback {
		logger.Info("no bookable fare", zap.Bool("fallback_only", ok))
		span.SetStatus(otelcodes.Error, "no fare available")
		return models.Booking{}, derr.ErrNoFareAvailable
	}

	if airport == "" {
		airport = res.Entry.Airports.First()
	}

	travellers := req.Adults + req.Children
	booking := models.Booking{
		Reference:  s.newReference(),
		DealID:     deal.ID,
		PriceID:    res.Entry.ID,
		TravelDate: travelDate,
		Airport:    airport,
		Adults:     req.Adults,
		Children:   req.Children,
		Lead: models.Passenger{
			Name:  strings.TrimSpace(req.Lead.Name),
			Email: strings.TrimSpace(req.Lead.Email),
			Phone: strings.TrimSpace(req.Lead.Phone),
		},
		UnitPrice:  res.Entry.Price,
		TotalPrice: res.Entry.Price.Mul(decimal.NewFromInt(int64(travellers))),
		Status:     models.BookingPending,
		CreatedAt:  s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to store booking")
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	span.SetStatus(otelcodes.Ok, "ok")
	logger.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.String("reference", created.Reference),
		zap.String("total_price", created.TotalPrice.StringFixed(2)),
	)
	return created, nil
}

func (s *BookingService) validateRequest(req models.BookingRequest, travelDate time.Time) error {
	switch {
	case req.DealID <= 0:
		return derr.ErrDealNotFound
	case travelDate.IsZero():
		return fmt.Errorf("travel date is required: %w", derr.ErrInvalidInput)
	case travelDate.Before(models.Day(s.now())):
		return fmt.Errorf("travel date is in the past: %w", derr.ErrInvalidInput)
	case req.Adults < 1:
		return fmt.Errorf("at least one adult is required: %w", derr.ErrInvalidInput)
	case req.Children < 0:
		return fmt.Errorf("children must not be negative: %w", derr.ErrInvalidInput)
	case strings.TrimSpace(req.Lead.Name) == "":
		return fmt.Errorf("lead passenger name is required: %w", derr.ErrInvalidInput)
	}
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	const op = "service.GetBooking"

	if id <= 0 {
		return models.Booking{}, derr.ErrBookingNotFound
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, derr.ErrBookingNotFound) {
			return models.Booking{}, err
		}
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, dealID int64) ([]models.Booking, error) {
	const op = "service.ListBookings"

	bookings, err := s.repo.List(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) (models.Booking, error) {
	const op = "service.UpdateBookingStatus"

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}

	if booking.Status == status {
		return booking, nil
	}
	if !booking.Status.CanTransition(status) {
		return models.Booking{}, fmt.Errorf("%s: %s -> %s: %w", op, booking.Status, status, derr.ErrInvalidStatusTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, booking.Status, status); err != nil {
		if errors.Is(err, derr.ErrBookingNotFound) {
			return models.Booking{}, err
		}
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking status updated",
		zap.String("op", op),
		zap.Int64("booking_id", id),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(status)),
	)

	booking.Status = status
	return booking, nil
}

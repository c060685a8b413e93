package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

type BookingRepository struct {
	*Repository
}

func (r *Repository) Bookings() *BookingRepository {
	return &BookingRepository{Repository: r}
}

const bookingColumns = `
	id,
	reference::text,
	deal_id,
	price_id,
	travel_date,
	airport,
	adults,
	children,
	lead_name,
	lead_email,
	lead_phone,
	unit_price::text,
	total_price::text,
	status,
	created_at
`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		booking    models.Booking
		unitPrice  string
		totalPrice string
		status     string
	)

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.DealID,
		&booking.PriceID,
		&booking.TravelDate,
		&booking.Airport,
		&booking.Adults,
		&booking.Children,
		&booking.Lead.Name,
		&booking.Lead.Email,
		&booking.Lead.Phone,
		&unitPrice,
		&totalPrice,
		&status,
		&booking.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}

	if booking.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
		return models.Booking{}, fmt.Errorf("parse unit price %q: %w", unitPrice, err)
	}
	if booking.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return models.Booking{}, fmt.Errorf("parse total price %q: %w", totalPrice, err)
	}
	booking.Status = models.BookingStatus(status)
	booking.TravelDate = models.Day(booking.TravelDate)

	return booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	const query = `
		INSERT INTO bookings (
			reference,
			deal_id,
			price_id,
			travel_date,
			airport,
			adults,
			children,
			lead_name,
			lead_email,
			lead_phone,
			unit_price,
			total_price,
			status,
			created_at
		)
		VALUES ($1::uuid, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11::numeric, $12::numeric, $13, $14)
		RETURNING ` + bookingColumns

	created, err := scanBooking(r.db.QueryRow(ctx, query,
		booking.Reference,
		booking.DealID,
		booking.PriceID,
		booking.TravelDate,
		booking.Airport,
		booking.Adults,
		booking.Children,
		booking.Lead.Name,
		booking.Lead.Email,
		booking.Lead.Phone,
		booking.UnitPrice.String(),
		booking.TotalPrice.String(),
		string(booking.Status),
		booking.CreatedAt,
	))
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", mapWriteError(err, derr.ErrDealNotFound))
	}
	return created, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, derr.ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("query booking by id: %w", err)
	}
	return booking, nil
}

// List returns bookings newest first. A zero dealID lists every deal.
func (r *BookingRepository) List(ctx context.Context, dealID int64) ([]models.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = 0 OR deal_id = $1)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0, 16)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", mapWriteError(err, nil))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return derr.ErrBookingNotFound
		}
		return fmt.Errorf("read booking status: %w", err)
	}
	return fmt.Errorf("status is %s, not %s: %w", current, from, derr.ErrInvalidStatusTransition)
}

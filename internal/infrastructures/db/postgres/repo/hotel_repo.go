package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

// HotelRepository stores hotels in the same database as deals.
type HotelRepository struct {
	*Repository
}

func (r *Repository) Hotels() *HotelRepository {
	return &HotelRepository{Repository: r}
}

const hotelColumns = `id, name, destination, stars, description, images, created_at`

func scanHotel(row rowScanner) (models.Hotel, error) {
	var hotel models.Hotel
	err := row.Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.Destination,
		&hotel.Stars,
		&hotel.Description,
		&hotel.Images,
		&hotel.CreatedAt,
	)
	return hotel, err
}

func (r *HotelRepository) Create(ctx context.Context, hotel models.Hotel) (models.Hotel, error) {
	const query = `
		INSERT INTO hotels (name, destination, stars, description, images)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + hotelColumns

	created, err := scanHotel(r.db.QueryRow(ctx, query,
		hotel.Name,
		hotel.Destination,
		hotel.Stars,
		hotel.Description,
		nonNil(hotel.Images),
	))
	if err != nil {
		return models.Hotel{}, fmt.Errorf("insert hotel: %w", mapWriteError(err, nil))
	}
	return created, nil
}

func (r *HotelRepository) GetByID(ctx context.Context, id int64) (models.Hotel, error) {
	hotel, err := scanHotel(r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Hotel{}, derr.ErrHotelNotFound
		}
		return models.Hotel{}, fmt.Errorf("query hotel by id: %w", err)
	}
	return hotel, nil
}

func (r *HotelRepository) List(ctx context.Context, destination string) ([]models.Hotel, error) {
	const query = `
		SELECT ` + hotelColumns + `
		FROM hotels
		WHERE ($1 = '' OR lower(destination) = lower($1))
		ORDER BY name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, destination)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	hotels := make([]models.Hotel, 0, 16)
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, hotel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}

	return hotels, nil
}

func (r *HotelRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return derr.ErrHotelNotFound
	}
	return nil
}

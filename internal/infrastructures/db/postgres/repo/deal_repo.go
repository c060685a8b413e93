package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

const dealColumns = `
	id,
	title,
	description,
	destination,
	images,
	itinerary,
	inclusions,
	tags,
	created_at,
	updated_at
`

func scanDeal(row rowScanner) (models.Deal, error) {
	var deal models.Deal
	err := row.Scan(
		&deal.ID,
		&deal.Title,
		&deal.Description,
		&deal.Destination,
		&deal.Images,
		&deal.Itinerary,
		&deal.Inclusions,
		&deal.Tags,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	return deal, err
}

// Create stores the deal and its price list in one transaction.
func (r *Repository) Create(ctx context.Context, deal models.Deal) (models.Deal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Deal{}, fmt.Errorf("begin create deal: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO deals (title, description, destination, images, itinerary, inclusions, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + dealColumns

	created, err := scanDeal(tx.QueryRow(ctx, query,
		deal.Title,
		deal.Description,
		deal.Destination,
		nonNil(deal.Images),
		nonNil(deal.Itinerary),
		nonNil(deal.Inclusions),
		nonNil(deal.Tags),
	))
	if err != nil {
		return models.Deal{}, fmt.Errorf("insert deal: %w", err)
	}

	created.Prices, err = insertPrices(ctx, tx, created.ID, deal.Prices)
	if err != nil {
		return models.Deal{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Deal{}, fmt.Errorf("commit create deal: %w", err)
	}

	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	const query = `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Deal{}, derr.ErrDealNotFound
		}
		return models.Deal{}, fmt.Errorf("query deal by id: %w", err)
	}

	deal.Prices, err = listPrices(ctx, r.db, id)
	if err != nil {
		return models.Deal{}, err
	}

	return deal, nil
}

// List returns deal summaries without their price lists.
func (r *Repository) List(ctx context.Context, filter models.DealFilter) ([]models.Deal, error) {
	const query = `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE ($1 = '' OR lower(destination) = lower($1))
		  AND ($2 = '' OR $2 = ANY(tags))
		ORDER BY id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.Destination, filter.Tag, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	deals := make([]models.Deal, 0, filter.Limit)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, deal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}

	return deals, nil
}

func (r *Repository) Update(ctx context.Context, deal models.Deal) (models.Deal, error) {
	const query = `
		UPDATE deals SET
			title = $2,
			description = $3,
			destination = $4,
			images = $5,
			itinerary = $6,
			inclusions = $7,
			tags = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + dealColumns

	updated, err := scanDeal(r.db.QueryRow(ctx, query,
		deal.ID,
		deal.Title,
		deal.Description,
		deal.Destination,
		nonNil(deal.Images),
		nonNil(deal.Itinerary),
		nonNil(deal.Inclusions),
		nonNil(deal.Tags),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Deal{}, derr.ErrDealNotFound
		}
		return models.Deal{}, fmt.Errorf("update deal: %w", err)
	}

	updated.Prices, err = listPrices(ctx, r.db, deal.ID)
	if err != nil {
		return models.Deal{}, err
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", mapWriteError(err, derr.ErrDealNotFound))
	}
	if tag.RowsAffected() == 0 {
		return derr.ErrDealNotFound
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

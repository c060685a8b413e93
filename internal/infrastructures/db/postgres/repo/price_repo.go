package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const priceColumns = `
	id,
	deal_id,
	country,
	start_date,
	end_date,
	airports,
	price::text,
	active,
	hotel_id,
	outbound_airline,
	outbound_flight,
	outbound_depart,
	outbound_arrive,
	return_airline,
	return_flight,
	return_depart,
	return_arrive
`

func scanPrice(row rowScanner) (models.PriceEntry, error) {
	var (
		entry    models.PriceEntry
		country  string
		airports []string
		price    string
	)

	err := row.Scan(
		&entry.ID,
		&entry.DealID,
		&country,
		&entry.StartDate,
		&entry.EndDate,
		&airports,
		&price,
		&entry.Active,
		&entry.HotelID,
		&entry.FlightOutbound.Airline,
		&entry.FlightOutbound.FlightNumber,
		&entry.FlightOutbound.DepartTime,
		&entry.FlightOutbound.ArriveTime,
		&entry.FlightReturn.Airline,
		&entry.FlightReturn.FlightNumber,
		&entry.FlightReturn.DepartTime,
		&entry.FlightReturn.ArriveTime,
	)
	if err != nil {
		return models.PriceEntry{}, err
	}

	entry.Price, err = decimal.NewFromString(price)
	if err != nil {
		return models.PriceEntry{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	entry.Country = models.Country(country)
	entry.Airports = models.NewAirportSet(airports...)
	entry.StartDate = models.Day(entry.StartDate)
	entry.EndDate = models.Day(entry.EndDate)

	return entry, nil
}

func priceArgs(dealID int64, e models.PriceEntry) []any {
	return []any{
		dealID,
		string(e.Country),
		e.StartDate,
		e.EndDate,
		[]string(models.NewAirportSet(e.Airports...)),
		e.Price.String(),
		e.Active,
		e.HotelID,
		e.FlightOutbound.Airline,
		e.FlightOutbound.FlightNumber,
		e.FlightOutbound.DepartTime,
		e.FlightOutbound.ArriveTime,
		e.FlightReturn.Airline,
		e.FlightReturn.FlightNumber,
		e.FlightReturn.DepartTime,
		e.FlightReturn.ArriveTime,
	}
}

const insertPriceQuery = `
	INSERT INTO deal_prices (
		deal_id,
		country,
		start_date,
		end_date,
		airports,
		price,
		active,
		hotel_id,
		outbound_airline,
		outbound_flight,
		outbound_depart,
		outbound_arrive,
		return_airline,
		return_flight,
		return_depart,
		return_arrive
	)
	VALUES ($1, $2, $3::date, $4::date, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING ` + priceColumns

func listPrices(ctx context.Context, q querier, dealID int64) ([]models.PriceEntry, error) {
	const query = `
		SELECT ` + priceColumns + `
		FROM deal_prices
		WHERE deal_id = $1
		ORDER BY start_date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("query deal prices: %w", err)
	}
	defer rows.Close()

	prices := make([]models.PriceEntry, 0, 8)
	for rows.Next() {
		entry, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal price: %w", err)
		}
		prices = append(prices, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deal prices: %w", err)
	}

	return prices, nil
}

func insertPrices(ctx context.Context, q querier, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	stored := make([]models.PriceEntry, 0, len(entries))
	for i, e := range entries {
		created, err := scanPrice(q.QueryRow(ctx, insertPriceQuery, priceArgs(dealID, e)...))
		if err != nil {
			return nil, fmt.Errorf("insert deal price %d: %w", i, mapWriteError(err, derr.ErrDealNotFound))
		}
		stored = append(stored, created)
	}
	return stored, nil
}

func (r *Repository) AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error) {
	created, err := scanPrice(r.db.QueryRow(ctx, insertPriceQuery, priceArgs(dealID, entry)...))
	if err != nil {
		return models.PriceEntry{}, fmt.Errorf("insert deal price: %w", mapWriteError(err, derr.ErrDealNotFound))
	}
	return created, nil
}

func (r *Repository) UpdatePrice(ctx context.Context, entry models.PriceEntry) error {
	const query = `
		UPDATE deal_prices SET
			country = $2,
			start_date = $3::date,
			end_date = $4::date,
			airports = $5,
			price = $6::numeric,
			active = $7,
			hotel_id = $8,
			outbound_airline = $9,
			outbound_flight = $10,
			outbound_depart = $11,
			outbound_arrive = $12,
			return_airline = $13,
			return_flight = $14,
			return_depart = $15,
			return_arrive = $16
		WHERE deal_id = $1 AND id = $17
	`

	args := append(priceArgs(entry.DealID, entry), entry.ID)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update deal price: %w", mapWriteError(err, derr.ErrDealNotFound))
	}
	if tag.RowsAffected() == 0 {
		return derr.ErrPriceNotFound
	}
	return nil
}

func (r *Repository) DeletePrice(ctx context.Context, dealID, priceID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deal_prices WHERE deal_id = $1 AND id = $2`, dealID, priceID)
	if err != nil {
		return fmt.Errorf("delete deal price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return derr.ErrPriceNotFound
	}
	return nil
}

// ReplacePrices swaps the deal's whole price list in one transaction.
func (r *Repository) ReplacePrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace prices: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockDeal(ctx, tx, dealID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deal_prices WHERE deal_id = $1`, dealID); err != nil {
		return nil, fmt.Errorf("clear deal prices: %w", err)
	}

	stored, err := insertPrices(ctx, tx, dealID, entries)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace prices: %w", err)
	}

	return stored, nil
}

// AppendPrices inserts entries next to the deal's existing rows, which keep
// their ids.
func (r *Repository) AppendPrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin append prices: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockDeal(ctx, tx, dealID); err != nil {
		return nil, err
	}

	stored, err := insertPrices(ctx, tx, dealID, entries)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit append prices: %w", err)
	}

	return stored, nil
}

func lockDeal(ctx context.Context, tx pgx.Tx, dealID int64) error {
	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM deals WHERE id = $1 FOR UPDATE`, dealID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return derr.ErrDealNotFound
		}
		return fmt.Errorf("lock deal: %w", err)
	}
	return nil
}

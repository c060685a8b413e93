package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
)

//go:embed schema.sql
var schema string

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	activeStartConstraint = "deal_prices_active_start_uniq"
)

type Repository struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Repository, error) {
	poolCfg, err := buildPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: pool}, nil
}

func buildPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	return poolCfg, nil
}

func (r *Repository) Close() {
	r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", derr.ErrStorageUnavailable)
	}
	return nil
}

// Migrate creates the tables and indexes the repositories rely on. It is
// idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error, notFound error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == activeStartConstraint {
			return fmt.Errorf("%s: %w", pgErr.Detail, derr.ErrDuplicateStartDate)
		}
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "deal_prices_hotel_id_fkey":
			return derr.ErrHotelNotFound
		case "deal_prices_deal_id_fkey":
			if notFound != nil {
				return notFound
			}
			return derr.ErrDealNotFound
		case "bookings_deal_id_fkey":
			// Inserting a booking reports the bookings table, deleting a
			// booked deal reports deals.
			if pgErr.TableName == "bookings" {
				return derr.ErrDealNotFound
			}
			return derr.ErrDealHasBookings
		}
	case pgCheckViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, derr.ErrInvalidInput)
	}

	return err
}

package ports

import (
	"context"
	"time"

	"github.com/ozzus/holiday-deals/internal/domain/models"
)

type DealRepository interface {
	Create(ctx context.Context, deal models.Deal) (models.Deal, error)
	GetByID(ctx context.Context, id int64) (models.Deal, error)
	List(ctx context.Context, filter models.DealFilter) ([]models.Deal, error)
	Update(ctx context.Context, deal models.Deal) (models.Deal, error)
	Delete(ctx context.Context, id int64) error
}

type PriceRepository interface {
	AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error)
	UpdatePrice(ctx context.Context, entry models.PriceEntry) error
	DeletePrice(ctx context.Context, dealID, priceID int64) error
	ReplacePrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error)
	AppendPrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error)
}

type DealCache interface {
	GetByID(ctx context.Context, id int64) (models.Deal, error)
	Set(ctx context.Context, deal models.Deal, ttl time.Duration) error
	Delete(ctx context.Context, id int64) error
}

// DealReader is the read side other services depend on.
type DealReader interface {
	GetDeal(ctx context.Context, id int64) (models.Deal, error)
	ListDeals(ctx context.Context, filter models.DealFilter) ([]models.Deal, error)
}

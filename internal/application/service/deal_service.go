package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/ozzus/holiday-deals/internal/domain/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type DealService struct {
	log      *zap.Logger
	repo     ports.DealRepository
	prices   ports.PriceRepository
	cache    ports.DealCache
	cacheTTL time.Duration
}

func NewDealService(log *zap.Logger, repo ports.DealRepository, prices ports.PriceRepository, cache ports.DealCache, cacheTTL time.Duration) *DealService {
	if log == nil {
		log = zap.NewNop()
	}

	return &DealService{
		log:      log,
		repo:     repo,
		prices:   prices,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *DealService) CreateDeal(ctx context.Context, deal models.Deal) (models.Deal, error) {
	const op = "service.CreateDeal"

	deal.Title = strings.TrimSpace(deal.Title)
	if deal.Title == "" {
		return models.Deal{}, fmt.Errorf("%s: title is required: %w", op, derr.ErrInvalidInput)
	}

	for i := range deal.Prices {
		deal.Prices[i] = deal.Prices[i].Normalize()
	}
	if err := fare.ValidateEntries(deal.Prices); err != nil {
		return models.Deal{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.Create(ctx, deal)
	if err != nil {
		return models.Deal{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deal created",
		zap.String("op", op),
		zap.Int64("deal_id", created.ID),
		zap.Int("prices_count", len(created.Prices)),
	)
	return created, nil
}

func (s *DealService) GetDeal(ctx context.Context, id int64) (models.Deal, error) {
	const op = "service.GetDeal"
	tracer := otel.Tracer("deals-api/service")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.Int64("deal.id", id))

	logger := s.log.With(
		zap.String("op", op),
		zap.Int64("deal_id", id),
	)

	if id <= 0 {
		span.SetStatus(otelcodes.Error, "invalid deal id")
		return models.Deal{}, derr.ErrDealNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.GetByID(ctx, id)
		if err == nil {
			logger.Debug("deal loaded from redis cache")
			span.AddEvent("deal.cache.hit")
			return cached, nil
		}
		if errors.Is(err, derr.ErrDealNotFound) {
			span.AddEvent("deal.cache.miss")
		} else {
			logger.Warn("redis cache read failed", zap.Error(err))
			span.RecordError(err)
		}
	}

	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to load deal")
		if errors.Is(err, derr.ErrDealNotFound) {
			return models.Deal{}, err
		}
		return models.Deal{}, fmt.Errorf("%s: get deal from repo: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, deal, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
			span.RecordError(err)
		}
	}

	span.SetAttributes(attribute.Int("deal.prices_count", len(deal.Prices)))
	span.SetStatus(otelcodes.Ok, "ok")
	logger.Debug("deal loaded from db")
	return deal, nil
}

func (s *DealService) ListDeals(ctx context.Context, filter models.DealFilter) ([]models.Deal, error) {
	const op = "service.ListDeals"

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Destination = strings.TrimSpace(filter.Destination)
	filter.Tag = strings.TrimSpace(filter.Tag)

	deals, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return deals, nil
}

// UpdateDeal replaces the descriptive fields of a deal. Prices are managed
// through the price operations and are left untouched.
func (s *DealService) UpdateDeal(ctx context.Context, deal models.Deal) (models.Deal, error) {
	const op = "service.UpdateDeal"

	deal.Title = strings.TrimSpace(deal.Title)
	if deal.Title == "" {
		return models.Deal{}, fmt.Errorf("%s: title is required: %w", op, derr.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, deal)
	if err != nil {
		if errors.Is(err, derr.ErrDealNotFound) {
			return models.Deal{}, err
		}
		return models.Deal{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, deal.ID)
	return updated, nil
}

func (s *DealService) DeleteDeal(ctx context.Context, id int64) error {
	const op = "service.DeleteDeal"

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, derr.ErrDealNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, id)
	s.log.Info("deal deleted", zap.String("op", op), zap.Int64("deal_id", id))
	return nil
}

func (s *DealService) invalidate(ctx context.Context, op string, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("redis cache invalidation failed",
			zap.String("op", op),
			zap.Int64("deal_id", id),
			zap.Error(err),
		)
	}
}

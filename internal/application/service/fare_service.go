package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/ozzus/holiday-deals/internal/domain/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultCatalogConcurrency = 4

// FareQuote is a resolved fare of one deal. Query is the query that produced
// it: the caller's query, or the seeded default when the caller sent none.
type FareQuote struct {
	DealID   int64
	Query    models.FareQuery
	Entry    models.PriceEntry
	Fallback bool
	Seeded   bool
}

type CatalogItem struct {
	Deal  models.Deal
	Lead  *FareQuote
	Error string
}

type FareService struct {
	log         *zap.Logger
	deals       ports.DealReader
	concurrency int
}

func NewFareService(log *zap.Logger, deals ports.DealReader, concurrency int) *FareService {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = defaultCatalogConcurrency
	}

	return &FareService{
		log:         log,
		deals:       deals,
		concurrency: concurrency,
	}
}

// Quote resolves the fare of a deal for q. An empty query yields the deal's
// lead fare together with the default query derived from it.
func (s *FareService) Quote(ctx context.Context, dealID int64, q models.FareQuery) (FareQuote, error) {
	const op = "service.Quote"
	tracer := otel.Tracer("deals-api/service")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("fare.deal_id", dealID),
		attribute.String("fare.date", models.FormatDay(q.Date)),
		attribute.String("fare.airport", models.NormalizeAirport(q.Airport)),
	)

	deal, err := s.deals.GetDeal(ctx, dealID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to load deal")
		return FareQuote{}, err
	}

	quote, ok := LeadFare(deal, q)
	if !ok {
		span.SetStatus(otelcodes.Error, "no fare available")
		s.log.Debug("no fare available",
			zap.String("op", op),
			zap.Int64("deal_id", dealID),
			zap.String("date", models.FormatDay(q.Date)),
			zap.String("airport", q.Airport),
		)
		return FareQuote{}, derr.ErrNoFareAvailable
	}

	if quote.Fallback {
		span.AddEvent("fare.airport_relaxed")
	}
	span.SetAttributes(attribute.Int64("fare.price_id", quote.Entry.ID))
	span.SetStatus(otelcodes.Ok, "ok")
	return quote, nil
}

// LeadFare resolves q against the deal's prices, seeding the query from the
// cheapest entry when q is empty.
func LeadFare(deal models.Deal, q models.FareQuery) (FareQuote, bool) {
	if q.IsEmpty() {
		seed, entry, ok := fare.Seed(deal.Prices)
		if !ok {
			return FareQuote{}, false
		}
		return FareQuote{DealID: deal.ID, Query: seed, Entry: entry, Seeded: true}, true
	}

	res, ok := fare.ResolveDetailed(deal.Prices, q)
	if !ok {
		return FareQuote{}, false
	}

	return FareQuote{
		DealID: deal.ID,
		Query: models.FareQuery{
			Date:    models.Day(q.Date),
			Airport: models.NormalizeAirport(q.Airport),
		},
		Entry:    res.Entry,
		Fallback: res.Fallback,
	}, true
}

func (s *FareService) Calendar(ctx context.Context, dealID int64, airport string) ([]fare.CalendarDay, error) {
	deal, err := s.deals.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return fare.Calendar(deal.Prices, airport), nil
}

func (s *FareService) Airports(ctx context.Context, dealID int64, date time.Time) ([]string, error) {
	deal, err := s.deals.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return fare.Airports(deal.Prices, date), nil
}

// Catalog lists deals with their lead fare for q. Deals are loaded
// concurrently; a deal that fails to load or has no fare keeps its slot with
// an error message instead of failing the whole page.
func (s *FareService) Catalog(ctx context.Context, filter models.DealFilter, q models.FareQuery) ([]CatalogItem, error) {
	const op = "service.Catalog"

	summaries, err := s.deals.ListDeals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]CatalogItem, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, summary := range summaries {
		items[i].Deal = summary
		g.Go(func() error {
			deal, err := s.deals.GetDeal(gctx, summary.ID)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.log.Warn("catalog deal load failed",
					zap.String("op", op),
					zap.Int64("deal_id", summary.ID),
					zap.Error(err),
				)
				items[i].Error = "deal unavailable"
				return nil
			}

			items[i].Deal = deal
			quote, ok := LeadFare(deal, q)
			if !ok {
				items[i].Error = derr.ErrNoFareAvailable.Error()
				return nil
			}
			items[i].Lead = &quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/fare"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

// Price writes always validate the deal's full candidate list, so the
// one-active-entry-per-start-date rule holds for the list as it will be stored.

func (s *DealService) AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error) {
	const op = "service.AddPrice"

	deal, err := s.loadForWrite(ctx, op, dealID)
	if err != nil {
		return models.PriceEntry{}, err
	}

	entry = entry.Normalize()
	entry.ID = 0
	entry.DealID = dealID

	candidate := append(clonePrices(deal.Prices), entry)
	if err := fare.ValidateEntries(candidate); err != nil {
		return models.PriceEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.prices.AddPrice(ctx, dealID, entry)
	if err != nil {
		return models.PriceEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, dealID)
	s.log.Info("price entry added",
		zap.String("op", op),
		zap.Int64("deal_id", dealID),
		zap.Int64("price_id", created.ID),
	)
	return created, nil
}

func (s *DealService) UpdatePrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error) {
	const op = "service.UpdatePrice"

	deal, err := s.loadForWrite(ctx, op, dealID)
	if err != nil {
		return models.PriceEntry{}, err
	}

	idx := indexOfPrice(deal.Prices, entry.ID)
	if idx < 0 {
		return models.PriceEntry{}, derr.ErrPriceNotFound
	}

	entry = entry.Normalize()
	entry.DealID = dealID

	candidate := clonePrices(deal.Prices)
	candidate[idx] = entry
	if err := fare.ValidateEntries(candidate); err != nil {
		return models.PriceEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.prices.UpdatePrice(ctx, entry); err != nil {
		if errors.Is(err, derr.ErrPriceNotFound) {
			return models.PriceEntry{}, err
		}
		return models.PriceEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, dealID)
	return entry, nil
}

// SetPriceActive switches a price entry on or off without deleting it.
func (s *DealService) SetPriceActive(ctx context.Context, dealID, priceID int64, active bool) (models.PriceEntry, error) {
	const op = "service.SetPriceActive"

	deal, err := s.loadForWrite(ctx, op, dealID)
	if err != nil {
		return models.PriceEntry{}, err
	}

	idx := indexOfPrice(deal.Prices, priceID)
	if idx < 0 {
		return models.PriceEntry{}, derr.ErrPriceNotFound
	}

	entry := deal.Prices[idx]
	if entry.Active == active {
		return entry, nil
	}
	entry.Active = active

	return s.UpdatePrice(ctx, dealID, entry)
}

func (s *DealService) DeletePrice(ctx context.Context, dealID, priceID int64) error {
	const op = "service.DeletePrice"

	if err := s.prices.DeletePrice(ctx, dealID, priceID); err != nil {
		if errors.Is(err, derr.ErrPriceNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, dealID)
	return nil
}

// ImportPrices stores a bulk price sheet. With replace the sheet becomes the
// deal's whole price list, otherwise its rows are appended and the existing
// entries keep their ids. It returns the deal's resulting price list.
func (s *DealService) ImportPrices(ctx context.Context, dealID int64, entries []models.PriceEntry, replace bool) ([]models.PriceEntry, error) {
	const op = "service.ImportPrices"

	deal, err := s.loadForWrite(ctx, op, dealID)
	if err != nil {
		return nil, err
	}

	incoming := make([]models.PriceEntry, 0, len(entries))
	for _, e := range entries {
		e = e.Normalize()
		e.ID = 0
		e.DealID = dealID
		incoming = append(incoming, e)
	}

	candidate := incoming
	if !replace {
		candidate = append(clonePrices(deal.Prices), incoming...)
	}
	if err := fare.ValidateEntries(candidate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stored []models.PriceEntry
	if replace {
		stored, err = s.prices.ReplacePrices(ctx, dealID, candidate)
	} else {
		var appended []models.PriceEntry
		appended, err = s.prices.AppendPrices(ctx, dealID, incoming)
		stored = append(clonePrices(deal.Prices), appended...)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, dealID)
	s.log.Info("price sheet imported",
		zap.String("op", op),
		zap.Int64("deal_id", dealID),
		zap.Int("rows", len(incoming)),
		zap.Bool("replace", replace),
	)
	return stored, nil
}

// loadForWrite reads the deal from the repository, never from the cache.
func (s *DealService) loadForWrite(ctx context.Context, op string, dealID int64) (models.Deal, error) {
	if dealID <= 0 {
		return models.Deal{}, derr.ErrDealNotFound
	}

	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, derr.ErrDealNotFound) {
			return models.Deal{}, err
		}
		return models.Deal{}, fmt.Errorf("%s: load deal: %w", op, err)
	}

	return deal, nil
}

func indexOfPrice(entries []models.PriceEntry, id int64) int {
	if id <= 0 {
		return -1
	}
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func clonePrices(entries []models.PriceEntry) []models.PriceEntry {
	out := make([]models.PriceEntry, len(entries))
	copy(out, entries)
	return out
}

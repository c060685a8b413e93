package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

func TestDealKey(t *testing.T) {
	if got := dealKey(42); got != "deal:42" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestEncodeDeal_RoundTripKeepsFareFields(t *testing.T) {
	loc := time.FixedZone("BST", 60*60)
	hotelID := int64(9)
	deal := models.Deal{
		ID:        42,
		Title:     "Crete",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, loc),
		Prices: []models.PriceEntry{{
			ID:        1,
			Country:   models.CountryUK,
			StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
			Airports:  models.NewAirportSet("LHR", "MAN"),
			Price:     decimal.RequireFromString("499.99"),
			Active:    true,
			HotelID:   &hotelID,
		}},
	}

	data, err := encodeDeal(deal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got models.Deal
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at should be stored in UTC, got %s", got.CreatedAt.Location())
	}
	p := got.Prices[0]
	if !p.Price.Equal(deal.Prices[0].Price) || !p.Airports.Contains("MAN") || p.HotelID == nil || *p.HotelID != 9 {
		t.Fatalf("unexpected cached entry: %+v", p)
	}
}

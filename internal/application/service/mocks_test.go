package service

import (
	"context"
	"sync"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

func testDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEntry(id int64, start time.Time, airports string, price int64, active bool) models.PriceEntry {
	return models.PriceEntry{
		ID:        id,
		Country:   models.CountryUK,
		StartDate: start,
		EndDate:   start,
		Airports:  models.ParseAirportList(airports),
		Price:     decimal.NewFromInt(price),
		Active:    active,
	}
}

// testDealStore is an in-memory deal and price repository.
type testDealStore struct {
	mu       sync.Mutex
	deals    map[int64]models.Deal
	nextID   int64
	getCalls int
	err      error
	replaced []models.PriceEntry
	appended []models.PriceEntry
}

func newTestDealStore(deals ...models.Deal) *testDealStore {
	s := &testDealStore{deals: make(map[int64]models.Deal), nextID: 100}
	for _, d := range deals {
		s.deals[d.ID] = d
	}
	return s
}

func (s *testDealStore) Create(ctx context.Context, deal models.Deal) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Deal{}, s.err
	}
	s.nextID++
	deal.ID = s.nextID
	s.deals[deal.ID] = deal
	return deal, nil
}

func (s *testDealStore) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.err != nil {
		return models.Deal{}, s.err
	}
	deal, ok := s.deals[id]
	if !ok {
		return models.Deal{}, derr.ErrDealNotFound
	}
	deal.Prices = clonePrices(deal.Prices)
	return deal, nil
}

func (s *testDealStore) List(ctx context.Context, filter models.DealFilter) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Deal, 0, len(s.deals))
	for id := int64(1); id <= s.nextID; id++ {
		if d, ok := s.deals[id]; ok {
			d.Prices = nil
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *testDealStore) Update(ctx context.Context, deal models.Deal) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.deals[deal.ID]
	if !ok {
		return models.Deal{}, derr.ErrDealNotFound
	}
	deal.Prices = current.Prices
	s.deals[deal.ID] = deal
	return deal, nil
}

func (s *testDealStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return derr.ErrDealNotFound
	}
	delete(s.deals, id)
	return nil
}

func (s *testDealStore) AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	s.nextID++
	entry.ID = s.nextID
	deal.Prices = append(deal.Prices, entry)
	s.deals[dealID] = deal
	return entry, nil
}

func (s *testDealStore) UpdatePrice(ctx context.Context, entry models.PriceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[entry.DealID]
	for i := range deal.Prices {
		if deal.Prices[i].ID == entry.ID {
			deal.Prices[i] = entry
			return nil
		}
	}
	return derr.ErrPriceNotFound
}

func (s *testDealStore) DeletePrice(ctx context.Context, dealID, priceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	for i := range deal.Prices {
		if deal.Prices[i].ID == priceID {
			deal.Prices = append(deal.Prices[:i], deal.Prices[i+1:]...)
			s.deals[dealID] = deal
			return nil
		}
	}
	return derr.ErrPriceNotFound
}

func (s *testDealStore) ReplacePrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	stored := make([]models.PriceEntry, len(entries))
	for i, e := range entries {
		s.nextID++
		e.ID = s.nextID
		stored[i] = e
	}
	deal.Prices = stored
	s.deals[dealID] = deal
	s.replaced = stored
	return stored, nil
}

func (s *testDealStore) AppendPrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	stored := make([]models.PriceEntry, len(entries))
	for i, e := range entries {
		s.nextID++
		e.ID = s.nextID
		stored[i] = e
	}
	deal.Prices = append(deal.Prices, stored...)
	s.deals[dealID] = deal
	s.appended = stored
	return stored, nil
}

type testDealCache struct {
	deals    map[int64]models.Deal
	getErr   error
	setCalls int
	deleted  []int64
	lastTTL  time.Duration
}

func (c *testDealCache) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	if c.getErr != nil {
		return models.Deal{}, c.getErr
	}
	deal, ok := c.deals[id]
	if !ok {
		return models.Deal{}, derr.ErrDealNotFound
	}
	return deal, nil
}

func (c *testDealCache) Set(ctx context.Context, deal models.Deal, ttl time.Duration) error {
	c.setCalls++
	c.lastTTL = ttl
	return nil
}

func (c *testDealCache) Delete(ctx context.Context, id int64) error {
	c.deleted = append(c.deleted, id)
	return nil
}

type testBookingStore struct {
	created  []models.Booking
	bookings map[int64]models.Booking
	err      error

	// stale, when set, is what GetByID returns instead of the stored row.
	stale map[int64]models.Booking
}

func (s *testBookingStore) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	if s.err != nil {
		return models.Booking{}, s.err
	}
	booking.ID = int64(len(s.created) + 1)
	s.created = append(s.created, booking)
	if s.bookings == nil {
		s.bookings = make(map[int64]models.Booking)
	}
	s.bookings[booking.ID] = booking
	return booking, nil
}

func (s *testBookingStore) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if booking, ok := s.stale[id]; ok {
		return booking, nil
	}
	booking, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, derr.ErrBookingNotFound
	}
	return booking, nil
}

func (s *testBookingStore) List(ctx context.Context, dealID int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.created {
		if dealID == 0 || b.DealID == dealID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *testBookingStore) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	booking, ok := s.bookings[id]
	if !ok {
		return derr.ErrBookingNotFound
	}
	if booking.Status != from {
		return derr.ErrInvalidStatusTransition
	}
	booking.Status = to
	s.bookings[id] = booking
	return nil
}

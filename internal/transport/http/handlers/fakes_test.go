package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ozzus/holiday-deals/internal/application/service"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/ozzus/holiday-deals/internal/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memoryStore backs every repository port for handler tests.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	deals    map[int64]models.Deal
	hotels   map[int64]models.Hotel
	bookings map[int64]models.Booking
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		deals:    make(map[int64]models.Deal),
		hotels:   make(map[int64]models.Hotel),
		bookings: make(map[int64]models.Booking),
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) Create(ctx context.Context, deal models.Deal) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal.ID = s.id()
	for i := range deal.Prices {
		deal.Prices[i].ID = s.id()
		deal.Prices[i].DealID = deal.ID
	}
	s.deals[deal.ID] = deal
	return deal, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[id]
	if !ok {
		return models.Deal{}, derr.ErrDealNotFound
	}
	deal.Prices = append([]models.PriceEntry(nil), deal.Prices...)
	return deal, nil
}

func (s *memoryStore) List(ctx context.Context, filter models.DealFilter) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		if filter.Destination != "" && d.Destination != filter.Destination {
			continue
		}
		d.Prices = nil
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) Update(ctx context.Context, deal models.Deal) (models.Deal, error) {
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

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return derr.ErrDealNotFound
	}
	for _, b := range s.bookings {
		if b.DealID == id {
			return fmt.Errorf("delete deal: %w", derr.ErrDealHasBookings)
		}
	}
	delete(s.deals, id)
	return nil
}

func (s *memoryStore) AddPrice(ctx context.Context, dealID int64, entry models.PriceEntry) (models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	entry.ID = s.id()
	deal.Prices = append(deal.Prices, entry)
	s.deals[dealID] = deal
	return entry, nil
}

func (s *memoryStore) UpdatePrice(ctx context.Context, entry models.PriceEntry) error {
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

func (s *memoryStore) DeletePrice(ctx context.Context, dealID, priceID int64) error {
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

func (s *memoryStore) ReplacePrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	stored := make([]models.PriceEntry, len(entries))
	for i, e := range entries {
		e.ID = s.id()
		stored[i] = e
	}
	deal.Prices = stored
	s.deals[dealID] = deal
	return stored, nil
}

func (s *memoryStore) AppendPrices(ctx context.Context, dealID int64, entries []models.PriceEntry) ([]models.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	stored := make([]models.PriceEntry, len(entries))
	for i, e := range entries {
		e.ID = s.id()
		stored[i] = e
	}
	deal.Prices = append(deal.Prices, stored...)
	s.deals[dealID] = deal
	return stored, nil
}

type memoryHotels struct{ *memoryStore }

func (h memoryHotels) Create(ctx context.Context, hotel models.Hotel) (models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hotel.ID = h.id()
	h.hotels[hotel.ID] = hotel
	return hotel, nil
}

func (h memoryHotels) GetByID(ctx context.Context, id int64) (models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hotel, ok := h.hotels[id]
	if !ok {
		return models.Hotel{}, derr.ErrHotelNotFound
	}
	return hotel, nil
}

func (h memoryHotels) List(ctx context.Context, destination string) ([]models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Hotel, 0, len(h.hotels))
	for _, hotel := range h.hotels {
		if destination == "" || hotel.Destination == destination {
			out = append(out, hotel)
		}
	}
	return out, nil
}

func (h memoryHotels) Delete(ctx context.Context, id int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.hotels[id]; !ok {
		return derr.ErrHotelNotFound
	}
	delete(h.hotels, id)
	return nil
}

type memoryBookings struct{ *memoryStore }

func (b memoryBookings) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	booking.ID = b.id()
	b.bookings[booking.ID] = booking
	return booking, nil
}

func (b memoryBookings) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	booking, ok := b.bookings[id]
	if !ok {
		return models.Booking{}, derr.ErrBookingNotFound
	}
	return booking, nil
}

func (b memoryBookings) List(ctx context.Context, dealID int64) ([]models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Booking
	for _, booking := range b.bookings {
		if dealID == 0 || booking.DealID == dealID {
			out = append(out, booking)
		}
	}
	return out, nil
}

func (b memoryBookings) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	booking, ok := b.bookings[id]
	if !ok {
		return derr.ErrBookingNotFound
	}
	if booking.Status != from {
		return derr.ErrInvalidStatusTransition
	}
	booking.Status = to
	b.bookings[id] = booking
	return nil
}

type testServer struct {
	store   *memoryStore
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zap.NewNop()
	store := newMemoryStore()
	deals := service.NewDealService(log, store, store, nil, time.Minute)

	handler := NewRouter(log, RouterDeps{
		Deals:     deals,
		Fares:     service.NewFareService(log, deals, 2),
		Hotels:    service.NewHotelService(log, memoryHotels{store}),
		Bookings:  service.NewBookingService(log, deals, memoryBookings{store}),
		Validator: validator.New(),
	})

	return &testServer{store: store, handler: handler}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(start time.Time, airports string, price int64, active bool) models.PriceEntry {
	return models.PriceEntry{
		Country:   models.CountryUK,
		StartDate: start,
		EndDate:   start,
		Airports:  models.ParseAirportList(airports),
		Price:     decimal.NewFromInt(price),
		Active:    active,
	}
}

// seedDeal stores a deal departing in 2099 so bookings stay in the future.
func (s *testServer) seedDeal(t *testing.T, prices ...models.PriceEntry) models.Deal {
	t.Helper()

	deal, err := s.store.Create(context.Background(), models.Deal{Title: "Crete", Destination: "Greece", Prices: prices})
	if err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	return deal
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"go.uber.org/zap"
)

func newTestDealService(store *testDealStore, cache *testDealCache) *DealService {
	if cache == nil {
		return NewDealService(zap.NewNop(), store, store, nil, 10*time.Minute)
	}
	return NewDealService(zap.NewNop(), store, store, cache, 10*time.Minute)
}

func TestGetDeal_UsesCacheHit(t *testing.T) {
	store := newTestDealStore()
	cache := &testDealCache{deals: map[int64]models.Deal{7: {ID: 7, Title: "Lisbon"}}}
	svc := newTestDealService(store, cache)

	got, err := svc.GetDeal(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Lisbon" {
		t.Fatalf("unexpected deal: %+v", got)
	}
	if store.getCalls != 0 {
		t.Fatalf("repo should not be called on cache hit, calls=%d", store.getCalls)
	}
}

func TestGetDeal_CacheMissLoadsAndStores(t *testing.T) {
	store := newTestDealStore(models.Deal{ID: 7, Title: "Lisbon"})
	cache := &testDealCache{}
	svc := newTestDealService(store, cache)

	if _, err := svc.GetDeal(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.getCalls != 1 {
		t.Fatalf("expected one repo call, got %d", store.getCalls)
	}
	if cache.setCalls != 1 || cache.lastTTL != 10*time.Minute {
		t.Fatalf("unexpected cache write: calls=%d ttl=%s", cache.setCalls, cache.lastTTL)
	}
}

func TestGetDeal_CacheFailureFallsBackToRepo(t *testing.T) {
	store := newTestDealStore(models.Deal{ID: 7, Title: "Lisbon"})
	cache := &testDealCache{getErr: errors.New("redis down")}
	svc := newTestDealService(store, cache)

	if _, err := svc.GetDeal(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.getCalls != 1 {
		t.Fatalf("expected repo fallback, calls=%d", store.getCalls)
	}
}

func TestGetDeal_NotFound(t *testing.T) {
	svc := newTestDealService(newTestDealStore(), nil)

	for _, id := range []int64{0, 42} {
		_, err := svc.GetDeal(context.Background(), id)
		if !errors.Is(err, derr.ErrDealNotFound) {
			t.Fatalf("id %d: unexpected error: got %v want %v", id, err, derr.ErrDealNotFound)
		}
	}
}

func TestCreateDeal_RejectsDuplicateActiveStartDate(t *testing.T) {
	store := newTestDealStore()
	svc := newTestDealService(store, nil)

	start := testDay(2026, 6, 1)
	_, err := svc.CreateDeal(context.Background(), models.Deal{
		Title: "Crete",
		Prices: []models.PriceEntry{
			testEntry(0, start, "LHR", 500, true),
			testEntry(0, start, "MAN", 450, true),
		},
	})
	if !errors.Is(err, derr.ErrDuplicateStartDate) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrDuplicateStartDate)
	}
	if len(store.deals) != 0 {
		t.Fatalf("deal should not be stored, got %d", len(store.deals))
	}
}

func TestCreateDeal_RequiresTitle(t *testing.T) {
	svc := newTestDealService(newTestDealStore(), nil)

	_, err := svc.CreateDeal(context.Background(), models.Deal{Title: "   "})
	if !errors.Is(err, derr.ErrInvalidInput) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrInvalidInput)
	}
}

func TestAddPrice_DuplicateStartDate(t *testing.T) {
	start := testDay(2026, 6, 1)
	store := newTestDealStore(models.Deal{
		ID:     1,
		Title:  "Crete",
		Prices: []models.PriceEntry{testEntry(10, start, "LHR", 500, true)},
	})
	cache := &testDealCache{}
	svc := newTestDealService(store, cache)

	_, err := svc.AddPrice(context.Background(), 1, testEntry(0, start, "MAN", 400, true))
	if !errors.Is(err, derr.ErrDuplicateStartDate) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrDuplicateStartDate)
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("cache should not be invalidated on rejected write")
	}

	created, err := svc.AddPrice(context.Background(), 1, testEntry(0, start, "MAN", 400, false))
	if err != nil {
		t.Fatalf("inactive entry with a shared start date should be accepted: %v", err)
	}
	if created.ID == 0 || created.DealID != 1 {
		t.Fatalf("unexpected created entry: %+v", created)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != 1 {
		t.Fatalf("expected cache invalidation of deal 1, got %v", cache.deleted)
	}
}

func TestSetPriceActive_ReactivatingDuplicateIsRejected(t *testing.T) {
	start := testDay(2026, 6, 1)
	store := newTestDealStore(models.Deal{
		ID:    1,
		Title: "Crete",
		Prices: []models.PriceEntry{
			testEntry(10, start, "LHR", 500, true),
			testEntry(11, start, "MAN", 400, false),
		},
	})
	svc := newTestDealService(store, nil)

	_, err := svc.SetPriceActive(context.Background(), 1, 11, true)
	if !errors.Is(err, derr.ErrDuplicateStartDate) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrDuplicateStartDate)
	}

	got, err := svc.SetPriceActive(context.Background(), 1, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Active {
		t.Fatalf("entry should be switched off")
	}

	if _, err := svc.SetPriceActive(context.Background(), 1, 99, true); !errors.Is(err, derr.ErrPriceNotFound) {
		t.Fatalf("unexpected error: got %v want %v", err, derr.ErrPriceNotFound)
	}
}

func TestImportPrices_Modes(t *testing.T) {
	existing := testEntry(10, testDay(2026, 6, 1), "LHR", 500, true)

	tests := []struct {
		name    string
		replace bool
		rows    []models.PriceEntry
		want    int
		wantErr error
	}{
		{
			name:    "append keeps existing rows",
			replace: false,
			rows:    []models.PriceEntry{testEntry(0, testDay(2026, 6, 8), "LHR", 520, true)},
			want:    2,
		},
		{
			name:    "replace drops existing rows",
			replace: true,
			rows:    []models.PriceEntry{testEntry(0, testDay(2026, 6, 1), "MAN", 480, true)},
			want:    1,
		},
		{
			name:    "append conflicting with existing row",
			replace: false,
			rows:    []models.PriceEntry{testEntry(0, testDay(2026, 6, 1), "MAN", 480, true)},
			wantErr: derr.ErrDuplicateStartDate,
		},
		{
			name:    "non-positive price",
			replace: true,
			rows:    []models.PriceEntry{testEntry(0, testDay(2026, 6, 1), "MAN", 0, true)},
			wantErr: derr.ErrInvalidPrice,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestDealStore(models.Deal{ID: 1, Title: "Crete", Prices: []models.PriceEntry{existing}})
			svc := newTestDealService(store, nil)

			got, err := svc.ImportPrices(context.Background(), 1, tc.rows, tc.replace)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("unexpected error: got %v want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("unexpected stored rows: got %d want %d", len(got), tc.want)
			}
		})
	}
}

func TestImportPrices_AppendKeepsExistingIDs(t *testing.T) {
	existing := []models.PriceEntry{
		testEntry(10, testDay(2026, 6, 1), "LHR", 500, true),
		testEntry(11, testDay(2026, 6, 8), "MAN", 450, true),
	}
	store := newTestDealStore(models.Deal{ID: 1, Title: "Crete", Prices: existing})
	svc := newTestDealService(store, nil)

	rows := []models.PriceEntry{testEntry(0, testDay(2026, 6, 15), "LHR", 520, true)}
	got, err := svc.ImportPrices(context.Background(), 1, rows, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.replaced != nil {
		t.Fatalf("append must not rewrite the price list")
	}
	if len(store.appended) != 1 || store.appended[0].ID == 0 {
		t.Fatalf("unexpected appended rows: %+v", store.appended)
	}
	if len(got) != 3 || got[0].ID != 10 || got[1].ID != 11 || got[2].ID != store.appended[0].ID {
		t.Fatalf("unexpected resulting price list: %+v", got)
	}

	deal, err := store.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal.Prices[0].ID != 10 || deal.Prices[1].ID != 11 {
		t.Fatalf("existing entries changed ids: %+v", deal.Prices)
	}
}

func TestUpdateDeal_InvalidatesCache(t *testing.T) {
	store := newTestDealStore(models.Deal{ID: 3, Title: "Old"})
	cache := &testDealCache{}
	svc := newTestDealService(store, cache)

	got, err := svc.UpdateDeal(context.Background(), models.Deal{ID: 3, Title: "New"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "New" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != 3 {
		t.Fatalf("expected cache invalidation of deal 3, got %v", cache.deleted)
	}
}

func TestListDeals_ClampsLimit(t *testing.T) {
	store := newTestDealStore()
	svc := newTestDealService(store, nil)

	var seen models.DealFilter
	spy := &listSpy{testDealStore: store, seen: &seen}
	svc.repo = spy

	if _, err := svc.ListDeals(context.Background(), models.DealFilter{Limit: 1000, Offset: -5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Limit != maxListLimit || seen.Offset != 0 {
		t.Fatalf("unexpected filter: %+v", seen)
	}

	if _, err := svc.ListDeals(context.Background(), models.DealFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Limit != defaultListLimit {
		t.Fatalf("unexpected default limit: %d", seen.Limit)
	}
}

type listSpy struct {
	*testDealStore
	seen *models.DealFilter
}

func (s *listSpy) List(ctx context.Context, filter models.DealFilter) ([]models.Deal, error) {
	*s.seen = filter
	return s.testDealStore.List(ctx, filter)
}

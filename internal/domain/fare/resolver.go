// Package fare selects the applicable price entry of a deal for a travel
// date and departure airport. Everything here is pure and safe to call with
// empty or malformed entries.
package fare

import (
	"time"

	"github.com/ozzus/holiday-deals/internal/domain/models"
)

// Result is a resolved fare. Fallback is set when no entry served the
// requested airport and the airport predicate was relaxed.
type Result struct {
	Entry    models.PriceEntry
	Fallback bool
}

// Resolve returns the cheapest active entry covering q.Date and serving
// q.Airport. When no entry serves the airport it falls back to the cheapest
// active entry covering the date alone. Ties keep the first entry in list order.
func Resolve(entries []models.PriceEntry, q models.FareQuery) (models.PriceEntry, bool) {
	res, ok := ResolveDetailed(entries, q)
	return res.Entry, ok
}

// ResolveDetailed resolves like Resolve and also reports in Result.Fallback
// whether the airport had to be relaxed to find the entry.
func ResolveDetailed(entries []models.PriceEntry, q models.FareQuery) (Result, bool) {
	airport := models.NormalizeAirport(q.Airport)
	day := models.Day(q.Date)

	if entry, ok := cheapest(entries, func(e models.PriceEntry) bool {
		return matchesDate(e, day) && matchesAirport(e, airport)
	}); ok {
		return Result{Entry: entry}, true
	}

	if airport == "" {
		return Result{}, false
	}

	if entry, ok := cheapest(entries, func(e models.PriceEntry) bool {
		return matchesDate(e, day)
	}); ok {
		return Result{Entry: entry, Fallback: true}, true
	}

	return Result{}, false
}

// Cheapest returns the global minimum-price active entry.
func Cheapest(entries []models.PriceEntry) (models.PriceEntry, bool) {
	return cheapest(entries, func(models.PriceEntry) bool { return true })
}

// Seed derives the default query shown before a visitor picks anything:
// the start date and first airport of the cheapest active entry.
func Seed(entries []models.PriceEntry) (models.FareQuery, models.PriceEntry, bool) {
	entry, ok := Cheapest(entries)
	if !ok {
		return models.FareQuery{}, models.PriceEntry{}, false
	}

	start, _, _ := entry.Window()
	return models.FareQuery{
		Date:    start,
		Airport: entry.Airports.First(),
	}, entry, true
}

func cheapest(entries []models.PriceEntry, match func(models.PriceEntry) bool) (models.PriceEntry, bool) {
	var (
		best  models.PriceEntry
		found bool
	)

	for _, e := range entries {
		if !eligible(e) || !match(e) {
			continue
		}
		if !found || e.Price.LessThan(best.Price) {
			best = e
			found = true
		}
	}

	return best, found
}

// eligible drops switched-off entries and entries without a usable price.
func eligible(e models.PriceEntry) bool {
	return e.Active && e.Price.IsPositive()
}

func matchesDate(e models.PriceEntry, day time.Time) bool {
	if day.IsZero() {
		return true
	}
	return e.Covers(day)
}

func matchesAirport(e models.PriceEntry, airport string) bool {
	if airport == "" {
		return true
	}
	return e.Airports.Contains(airport)
}

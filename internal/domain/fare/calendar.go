package fare

import (
	"sort"
	"time"

	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

type CalendarDay struct {
	Date     time.Time
	Price    decimal.Decimal
	PriceID  int64
	Airports models.AirportSet
}

// Calendar lists every day covered by an active entry serving airport (any
// airport when empty) with the cheapest price of that day, ordered by date.
func Calendar(entries []models.PriceEntry, airport string) []CalendarDay {
	airport = models.NormalizeAirport(airport)
	days := make(map[time.Time]*CalendarDay)

	for _, e := range entries {
		if !eligible(e) || !matchesAirport(e, airport) {
			continue
		}
		start, end, ok := e.Window()
		if !ok {
			continue
		}

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			day, exists := days[d]
			if !exists {
				days[d] = &CalendarDay{
					Date:     d,
					Price:    e.Price,
					PriceID:  e.ID,
					Airports: models.NewAirportSet(e.Airports...),
				}
				continue
			}
			if e.Price.LessThan(day.Price) {
				day.Price = e.Price
				day.PriceID = e.ID
			}
			day.Airports = models.NewAirportSet(append(day.Airports, e.Airports...)...)
		}
	}

	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out
}

// Airports lists the airports served by active entries covering date, or by
// every active entry when date is zero.
func Airports(entries []models.PriceEntry, date time.Time) []string {
	day := models.Day(date)
	set := models.AirportSet{}

	for _, e := range entries {
		if !eligible(e) || !matchesDate(e, day) {
			continue
		}
		set = models.NewAirportSet(append(set, e.Airports...)...)
	}

	return set.Sorted()
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Country string

const (
	CountryUK     Country = "UK"
	CountryUSA    Country = "USA"
	CountryCanada Country = "Canada"
)

var Countries = []Country{CountryUK, CountryUSA, CountryCanada}

func ParseCountry(value string) (Country, bool) {
	for _, c := range Countries {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

type FlightInfo struct {
	Airline      string `json:"airline,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
	DepartTime   string `json:"depart_time,omitempty"`
	ArriveTime   string `json:"arrive_time,omitempty"`
}

func (f FlightInfo) IsZero() bool {
	return f == FlightInfo{}
}

type PriceEntry struct {
	ID             int64           `json:"id"`
	DealID         int64           `json:"deal_id"`
	Country        Country         `json:"country"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Airports       AirportSet      `json:"airports"`
	Price          decimal.Decimal `json:"price"`
	Active         bool            `json:"active"`
	HotelID        *int64          `json:"hotel_id,omitempty"`
	FlightOutbound FlightInfo      `json:"flight_outbound"`
	FlightReturn   FlightInfo      `json:"flight_return"`
}

// MaxWindowDays is the longest travel window an entry may span, both ends included.
const MaxWindowDays = 366

// Window returns the travel window at day granularity. A missing end date
// means a single-day entry. ok is false when the start date is missing, the
// end precedes the start or the window spans more than MaxWindowDays.
func (p PriceEntry) Window() (start, end time.Time, ok bool) {
	start = Day(p.StartDate)
	if start.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	end = Day(p.EndDate)
	if end.IsZero() {
		end = start
	}
	if end.Before(start) || end.After(start.AddDate(0, 0, MaxWindowDays-1)) {
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

// Covers reports whether day falls inside the entry's travel window.
func (p PriceEntry) Covers(day time.Time) bool {
	start, end, ok := p.Window()
	if !ok {
		return false
	}
	d := Day(day)
	return !d.Before(start) && !d.After(end)
}

// Normalize applies the boundary rules every stored entry follows.
func (p PriceEntry) Normalize() PriceEntry {
	p.StartDate = Day(p.StartDate)
	p.EndDate = Day(p.EndDate)
	if p.EndDate.IsZero() {
		p.EndDate = p.StartDate
	}
	p.Airports = NewAirportSet(p.Airports...)
	return p
}

// FareQuery selects a fare: a calendar day and a departure airport, both optional.
type FareQuery struct {
	Date    time.Time
	Airport string
}

func (q FareQuery) IsEmpty() bool {
	return q.Date.IsZero() && NormalizeAirport(q.Airport) == ""
}

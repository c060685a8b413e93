// Package pricesheet reads and writes a deal's price list as CSV, the bulk
// format the admin uses to maintain departures.
package pricesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/shopspring/decimal"
)

var Header = []string{
	"country",
	"start_date",
	"end_date",
	"airports",
	"price",
	"active",
	"hotel_id",
	"outbound_airline",
	"outbound_flight",
	"outbound_depart",
	"outbound_arrive",
	"return_airline",
	"return_flight",
	"return_depart",
	"return_arrive",
}

// required columns; the rest may be omitted from the header.
var required = []string{"country", "start_date", "price"}

// RowError reports a rejected row. Row is the 1-based line number in the
// sheet, header included.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Decode parses a sheet. Every bad row is reported; the returned error joins
// them and wraps derr.ErrInvalidInput.
func Decode(r io.Reader) ([]models.PriceEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty price sheet: %w", derr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read header: %w", errors.Join(derr.ErrInvalidInput, err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, derr.ErrInvalidInput)
		}
	}

	var (
		entries []models.PriceEntry
		errs    []error
		line    = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			errs = append(errs, &RowError{Row: line, Err: err})
			continue
		}
		if blank(record) {
			continue
		}

		entry, rowErr := decodeRow(record, index)
		if rowErr != nil {
			rowErr.Row = line
			errs = append(errs, rowErr)
			continue
		}
		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		return nil, errors.Join(append([]error{derr.ErrInvalidInput}, errs...)...)
	}

	return entries, nil
}

func decodeRow(record []string, index map[string]int) (models.PriceEntry, *RowError) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entry models.PriceEntry

	country, ok := models.ParseCountry(field("country"))
	if !ok {
		return entry, &RowError{Column: "country", Err: fmt.Errorf("unknown country %q", field("country"))}
	}
	entry.Country = country

	start, err := models.ParseDay(field("start_date"))
	if err != nil {
		return entry, &RowError{Column: "start_date", Err: err}
	}
	entry.StartDate = start

	if raw := field("end_date"); raw != "" {
		end, err := models.ParseDay(raw)
		if err != nil {
			return entry, &RowError{Column: "end_date", Err: err}
		}
		entry.EndDate = end
	}

	entry.Airports = models.ParseAirportList(field("airports"))

	price, err := decimal.NewFromString(strings.TrimPrefix(field("price"), "£"))
	if err != nil {
		return entry, &RowError{Column: "price", Err: err}
	}
	if !price.IsPositive() {
		return entry, &RowError{Column: "price", Err: derr.ErrInvalidPrice}
	}
	entry.Price = price

	entry.Active = true
	if raw := field("active"); raw != "" {
		active, err := parseBool(raw)
		if err != nil {
			return entry, &RowError{Column: "active", Err: err}
		}
		entry.Active = active
	}

	if raw := field("hotel_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return entry, &RowError{Column: "hotel_id", Err: fmt.Errorf("invalid hotel id %q", raw)}
		}
		entry.HotelID = &id
	}

	entry.FlightOutbound = models.FlightInfo{
		Airline:      field("outbound_airline"),
		FlightNumber: field("outbound_flight"),
		DepartTime:   field("outbound_depart"),
		ArriveTime:   field("outbound_arrive"),
	}
	entry.FlightReturn = models.FlightInfo{
		Airline:      field("return_airline"),
		FlightNumber: field("return_flight"),
		DepartTime:   field("return_depart"),
		ArriveTime:   field("return_arrive"),
	}

	return entry.Normalize(), nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Encode writes entries in the column order of Header.
func Encode(w io.Writer, entries []models.PriceEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range entries {
		start, end, _ := e.Window()
		hotel := ""
		if e.HotelID != nil {
			hotel = strconv.FormatInt(*e.HotelID, 10)
		}

		record := []string{
			string(e.Country),
			models.FormatDay(start),
			models.FormatDay(end),
			e.Airports.String(),
			e.Price.StringFixed(2),
			strconv.FormatBool(e.Active),
			hotel,
			e.FlightOutbound.Airline,
			e.FlightOutbound.FlightNumber,
			e.FlightOutbound.DepartTime,
			e.FlightOutbound.ArriveTime,
			e.FlightReturn.Airline,
			e.FlightReturn.FlightNumber,
			e.FlightReturn.DepartTime,
			e.FlightReturn.ArriveTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write price %d: %w", e.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AirportSet is a normalized set of departure airport identifiers.
// Codes are trimmed, upper-cased, de-duplicated and kept in insertion order.
type AirportSet []string

func NewAirportSet(codes ...string) AirportSet {
	set := make(AirportSet, 0, len(codes))
	for _, code := range codes {
		set = set.add(code)
	}
	return set
}

func NormalizeAirport(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s AirportSet) add(code string) AirportSet {
	normalized := NormalizeAirport(code)
	if normalized == "" || s.Contains(normalized) {
		return s
	}
	return append(s, normalized)
}

func (s AirportSet) Contains(code string) bool {
	normalized := NormalizeAirport(code)
	if normalized == "" {
		return false
	}
	for _, c := range s {
		if c == normalized {
			return true
		}
	}
	return false
}

// First returns the first airport of the set or an empty string.
func (s AirportSet) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (s AirportSet) Sorted() []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

func (s AirportSet) String() string {
	return strings.Join(s, "|")
}

// ParseAirportList splits a "LHR|MAN" or "LHR,MAN" list.
func ParseAirportList(raw string) AirportSet {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ',' || r == ';'
	})
	return NewAirportSet(parts...)
}

// UnmarshalJSON accepts every shape airports were historically stored in:
// a bare id ("LHR"), an object ({"_id": "LHR"}, {"code": "LHR"}, {"value": "LHR", "label": "..."})
// or an array mixing both. null and unknown shapes decode to an empty set.
func (s *AirportSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = AirportSet{}
		return nil
	}

	set := AirportSet{}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode airports: %w", err)
		}
		for _, item := range items {
			set = set.add(airportID(item))
		}
	default:
		set = set.add(airportID(data))
	}

	*s = set
	return nil
}

var airportObjectKeys = []string{"code", "iata", "value", "_id", "id", "name"}

func airportID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return ""
		}
		return id
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		for _, key := range airportObjectKeys {
			if v, ok := obj[key]; ok {
				if id := airportID(v); id != "" {
					return id
				}
			}
		}
		// mongo extended json: {"_id": {"$oid": "..."}}
		if v, ok := obj["$oid"]; ok {
			return airportID(v)
		}
	}

	return ""
}

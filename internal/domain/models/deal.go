package models

import "time"

type Deal struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Destination string       `json:"destination"`
	Images      []string     `json:"images"`
	Itinerary   []string     `json:"itinerary"`
	Inclusions  []string     `json:"inclusions"`
	Tags        []string     `json:"tags"`
	Prices      []PriceEntry `json:"prices"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type DealFilter struct {
	Destination string
	Tag         string
	Limit       int
	Offset      int
}

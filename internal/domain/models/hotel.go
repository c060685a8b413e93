package models

import "time"

type Hotel struct {
	ID          int64
	Name        string
	Destination string
	Stars       int
	Description string
	Images      []string
	CreatedAt   time.Time
}

package domain

import "time"

// Rating bounds for a bake log.
const (
	MinRating = 1
	MaxRating = 5
)

// BakeLog is an immutable record of one finished bake.
type BakeLog struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Rating           int       `json:"rating"`
	FlourWeight      int       `json:"flourWeight"`
	Hydration        float64   `json:"hydration"`
	Notes            string    `json:"notes,omitempty"`
	DurationTotalMin int       `json:"durationTotalMin"`
	Image            string    `json:"image,omitempty"` // opaque reference, e.g. a data URL or file path
}

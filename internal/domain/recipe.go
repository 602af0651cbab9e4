package domain

import "time"

// Recipe is a generated recipe as returned by the backend.
// Ingredients holds the submitted ingredient names in submission order.
type Recipe struct {
	ID           string    `json:"id"`
	Ingredients  []string  `json:"ingredients"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GenerateResult is the detailed outcome of a basket generation
type GenerateResult struct {
	Recipe  *Recipe  `json:"recipe"`
	Warning *Warning `json:"warning,omitempty"`
}

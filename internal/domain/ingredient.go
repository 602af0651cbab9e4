package domain

import "time"

// Ingredient is a catalog entry owned by the recipe backend
type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Warning is the non-fatal signal raised when part of a selection could not be resolved
type Warning struct {
	Message       string   `json:"message"`
	UnresolvedIDs []string `json:"unresolvedIds"`
}

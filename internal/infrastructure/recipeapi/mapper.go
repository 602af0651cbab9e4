package recipeapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/udayvalera/recipe-basket/internal/domain"
)

// isoLayouts are the ISO-8601 forms accepted from the backend, tried in order.
// Fractional seconds are accepted after the seconds field by every layout.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// isoTime is a timestamp decoded from an ISO-8601 string.
// Empty strings and null decode to the zero time.
type isoTime time.Time

func (t *isoTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = isoTime{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = isoTime{}
		return nil
	}

	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = isoTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid ISO-8601 timestamp %q", raw)
}

// ingredientDTO is an ingredient as serialized by the recipe backend.
// Document-store backends emit "_id"; some deployments emit "id".
type ingredientDTO struct {
	DocumentID string  `json:"_id"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CreatedAt  isoTime `json:"createdAt"`
	UpdatedAt  isoTime `json:"updatedAt"`
}

// recipeDTO is a recipe as serialized by the recipe backend
type recipeDTO struct {
	DocumentID   string    `json:"_id"`
	ID           string    `json:"id"`
	Ingredients  []string  `json:"ingredients"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
	CreatedAt    isoTime   `json:"createdAt"`
	UpdatedAt    isoTime   `json:"updatedAt"`
}

// itemEnvelope wraps the result of POST items/add
type itemEnvelope struct {
	Message string         `json:"message"`
	Item    *ingredientDTO `json:"item"`
}

// recipeEnvelope wraps the result of POST recipes/basket/generate-recipe
type recipeEnvelope struct {
	Message string     `json:"message"`
	Recipe  *recipeDTO `json:"recipe"`
}

// addIngredientRequest is the body of POST items/add
type addIngredientRequest struct {
	Item string `json:"item"`
}

// generateRecipeRequest is the body of POST recipes/basket/generate-recipe
type generateRecipeRequest struct {
	Items []string `json:"items"`
}

func pickID(documentID, id string) string {
	if documentID != "" {
		return documentID
	}
	return id
}

// mapIngredient converts a backend ingredient to the domain model
func mapIngredient(dto ingredientDTO) domain.Ingredient {
	return domain.Ingredient{
		ID:        pickID(dto.DocumentID, dto.ID),
		Name:      dto.Name,
		CreatedAt: time.Time(dto.CreatedAt),
		UpdatedAt: time.Time(dto.UpdatedAt),
	}
}

// mapRecipe converts a backend recipe to the domain model
func mapRecipe(dto recipeDTO) domain.Recipe {
	ingredients := make([]string, len(dto.Ingredients))
	copy(ingredients, dto.Ingredients)

	return domain.Recipe{
		ID:           pickID(dto.DocumentID, dto.ID),
		Ingredients:  ingredients,
		Title:        dto.Title,
		Instructions: dto.Instructions,
		CreatedAt:    time.Time(dto.CreatedAt),
		UpdatedAt:    time.Time(dto.UpdatedAt),
	}
}

func mapIngredients(dtos []ingredientDTO) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(dtos))
	for _, dto := range dtos {
		ingredients = append(ingredients, mapIngredient(dto))
	}
	return ingredients
}

func mapRecipes(dtos []recipeDTO) []domain.Recipe {
	recipes := make([]domain.Recipe, 0, len(dtos))
	for _, dto := range dtos {
		recipes = append(recipes, mapRecipe(dto))
	}
	return recipes
}

// unwrapItem extracts the ingredient from an add-item envelope
func unwrapItem(env itemEnvelope) (*domain.Ingredient, error) {
	if env.Item == nil {
		return nil, fmt.Errorf("%w: response has no %q field", domain.ErrMalformedResponse, "item")
	}
	ingredient := mapIngredient(*env.Item)
	return &ingredient, nil
}

// unwrapRecipe extracts the recipe from a generate-recipe envelope
func unwrapRecipe(env recipeEnvelope) (*domain.Recipe, error) {
	if env.Recipe == nil {
		return nil, fmt.Errorf("%w: response has no %q field", domain.ErrMalformedResponse, "recipe")
	}
	recipe := mapRecipe(*env.Recipe)
	return &recipe, nil
}
